package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/morteam/server/internal/app/system/apperr"
)

func TestWrappersClassify(t *testing.T) {
	err := apperr.Invariantf("cannot remove all members of chat %s", "c1")
	if !errors.Is(err, apperr.ErrInvariant) {
		t.Fatalf("expected ErrInvariant, got %v", err)
	}
	if errors.Is(err, apperr.ErrValidation) {
		t.Fatal("invariant error should not match ErrValidation")
	}
}

func TestWrappersSurviveFurtherWrapping(t *testing.T) {
	err := fmt.Errorf("updating chat: %w", apperr.Permissionf("user %s is not the creator", "u1"))
	if !errors.Is(err, apperr.ErrPermission) {
		t.Fatalf("expected ErrPermission through wrap, got %v", err)
	}
}

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{apperr.Validationf("bad audience"), http.StatusBadRequest},
		{apperr.Permissionf("nope"), http.StatusForbidden},
		{apperr.Invariantf("would empty"), http.StatusConflict},
		{apperr.NotFoundf("no attendee"), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := apperr.Status(c.err); got != c.want {
			t.Errorf("Status(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

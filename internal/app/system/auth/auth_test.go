package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/morteam/server/internal/app/system/auth"

	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	return auth.NewSessionManager("0123456789abcdef0123456789abcdef", "morteam-test", "", false, zap.NewNop())
}

func TestRequireSignedIn_NoUser_Returns401(t *testing.T) {
	called := false
	h := auth.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chats", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if called {
		t.Fatal("handler ran without a session user")
	}
}

func TestSignInThenLoadSessionUser(t *testing.T) {
	m := newTestSessionManager(t)

	// Sign in and capture the session cookie.
	signinRec := httptest.NewRecorder()
	signinReq := httptest.NewRequest(http.MethodPost, "/login", nil)
	err := m.SignIn(signinRec, signinReq, auth.SessionUser{
		ID:      "u1",
		Name:    "Test User",
		Email:   "user@test.com",
		IsAdmin: true,
	})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := signinRec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("SignIn set no cookie")
	}

	// Replay the cookie through the middleware.
	var got *auth.SessionUser
	h := m.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))
	req := httptest.NewRequest(http.MethodGet, "/announcements", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("no user loaded from session")
	}
	if got.ID != "u1" || !got.IsAdmin {
		t.Errorf("loaded user = %+v, want id u1 admin", got)
	}
}

func TestSignOutClearsSession(t *testing.T) {
	m := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	if err := m.SignOut(rec, req); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("SignOut set no cookie")
	}
	if cookies[0].MaxAge >= 0 {
		t.Errorf("cookie MaxAge = %d, want negative (expired)", cookies[0].MaxAge)
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	if _, ok := auth.CurrentUser(httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Fatal("CurrentUser reported a user on a bare request")
	}
}

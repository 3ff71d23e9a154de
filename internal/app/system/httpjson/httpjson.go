// internal/app/system/httpjson/httpjson.go
package httpjson

import (
	"encoding/json"
	"net/http"

	"github.com/morteam/server/internal/app/system/apperr"

	"go.uber.org/zap"
)

// Write encodes v as the JSON response body.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Decode parses the request body into dst. Malformed JSON is the
// caller's fault and classifies as a validation error.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Validationf("malformed request body (%v)", err)
	}
	return nil
}

type errorBody struct {
	Error string `json:"error"`
}

// WriteError maps the error to its HTTP status and writes a JSON error
// body. Internal errors get logged and a generic message; classified
// errors carry their own text.
func WriteError(w http.ResponseWriter, log *zap.Logger, r *http.Request, err error) {
	status := apperr.Status(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		msg = "internal server error"
	}
	Write(w, status, errorBody{Error: msg})
}

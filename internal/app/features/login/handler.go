// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"
	"strings"

	userstore "github.com/morteam/server/internal/app/store/users"
	"github.com/morteam/server/internal/app/system/apperr"
	"github.com/morteam/server/internal/app/system/auth"
	"github.com/morteam/server/internal/app/system/httpjson"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Handler owns session login and logout.
type Handler struct {
	Users    *userstore.Store
	Sessions *auth.SessionManager
	Log      *zap.Logger
}

// NewHandler constructs a login Handler.
func NewHandler(db *mongo.Database, sessions *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    userstore.New(db),
		Sessions: sessions,
		Log:      logger,
	}
}

// Routes returns the login router. These are the only unauthenticated
// API routes besides health.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	return r
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies email+password and establishes the session cookie.
// Unknown email and wrong password produce the same error, so the
// endpoint does not leak which emails exist.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		httpjson.WriteError(w, h.Log, r, apperr.Validationf("email and password are required"))
		return
	}

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.WriteError(w, h.Log, r, apperr.Permissionf("invalid email or password"))
			return
		}
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		h.Log.Info("failed login attempt", zap.String("user_id", user.ID.Hex()))
		httpjson.WriteError(w, h.Log, r, apperr.Permissionf("invalid email or password"))
		return
	}

	if err := h.Sessions.SignIn(w, r, auth.SessionUser{
		ID:      user.ID.Hex(),
		Name:    user.FullName(),
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}); err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, user)
}

// Logout clears the session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, nil)
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"focusflow/models"
	"focusflow/repository"
	"focusflow/respond"
	"focusflow/session"
	"focusflow/validation"
)

// AuthHandler handles authentication
type AuthHandler struct {
	users    repository.UserStore
	sessions *session.Manager
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users repository.UserStore, sessions *session.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

// Register handles POST /api/register. It does not log the user in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeBody(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validation.Register(req); err != nil {
		writeStoreError(w, r, h.logger, err, "")
		return
	}

	user, err := h.users.Create(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeStoreError(w, r, h.logger, err, "")
		return
	}

	h.logger.Info("user registered", "username", user.Username)
	respond.JSON(w, http.StatusCreated, models.AuthResponse{
		Message: "User created successfully",
		User:    user.Summary(),
	})
}

// Login handles POST /api/login and sets the session cookie. Unknown users
// and wrong passwords get the same reply.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeBody(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validation.Login(req); err != nil {
		writeStoreError(w, r, h.logger, err, "")
		return
	}

	user, err := h.users.FindByUsername(r.Context(), req.Username)
	if errors.Is(err, repository.ErrNotFound) {
		h.logger.Warn("login failed", "username", req.Username, "reason", "unknown user")
		respond.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		writeStoreError(w, r, h.logger, err, "")
		return
	}

	ok, err := h.users.VerifyPassword(user, req.Password)
	if err != nil {
		writeStoreError(w, r, h.logger, err, "")
		return
	}
	if !ok {
		h.logger.Warn("login failed", "username", req.Username, "reason", "bad password")
		respond.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if _, err := h.sessions.Create(w, user.ID, user.Username); err != nil {
		writeStoreError(w, r, h.logger, err, "")
		return
	}

	h.logger.Info("user logged in", "username", user.Username)
	respond.JSON(w, http.StatusOK, models.AuthResponse{
		Message: "Login successful",
		User:    user.Summary(),
	})
}

// Logout handles POST /api/logout. Logging out without a session succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if s, ok := session.FromContext(r.Context()); ok {
		h.logger.Info("user logged out", "username", s.Username)
	}
	h.sessions.Destroy(w, r)
	respond.Message(w, "Logout successful")
}

// Status handles GET /api/auth/status
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		respond.JSON(w, http.StatusOK, models.AuthStatus{Authenticated: false})
		return
	}
	respond.JSON(w, http.StatusOK, models.AuthStatus{
		Authenticated: true,
		User:          &models.UserSummary{Username: s.Username},
	})
}

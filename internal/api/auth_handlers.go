package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/brightpixel/companion/internal/auth"
	"github.com/brightpixel/companion/internal/store"
	"github.com/brightpixel/companion/internal/types"
	"github.com/brightpixel/companion/internal/validation"
)

// Register handles POST /api/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if errs := validation.ValidateRegister(req); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", errs)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("password hashing failed", "error", err)
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	user, err := h.store.CreateUser(r.Context(), req.Email, req.Name, hash)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	session, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	auth.SetCookie(w, h.sessions.Token(session.ID))
	writeJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteProblem(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		MapStoreError(w, r, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		slog.Debug("login failed", "email", req.Email)
		WriteProblem(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	session, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	auth.SetCookie(w, h.sessions.Token(session.ID))
	writeJSON(w, http.StatusOK, user)
}

// Logout handles POST /api/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			slog.Warn("session destroy failed", "error", err)
		}
	}

	auth.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// CurrentUser handles GET /api/user
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteProblem(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

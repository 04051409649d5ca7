package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/brightpixel/companion/internal/store"
	"github.com/brightpixel/companion/internal/types"
)

// CookieName is the session cookie set on login.
const CookieName = "companion_session"

// SessionTTL is how long a login session stays valid.
const SessionTTL = 7 * 24 * time.Hour

// Sessions manages login sessions persisted in the store. Cookie values
// carry an HMAC over the session id so forged cookies are rejected before
// any store lookup.
type Sessions struct {
	store  store.Store
	secret []byte
}

// NewSessions creates a session manager over the given store. The secret
// keys the cookie HMAC.
func NewSessions(s store.Store, secret string) *Sessions {
	return &Sessions{store: s, secret: []byte(secret)}
}

// Token returns the signed cookie value for a session id.
func (m *Sessions) Token(sessionID string) string {
	return sessionID + "." + m.sign(sessionID)
}

func (m *Sessions) sign(sessionID string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(sessionID))
	return hex.EncodeToString(mac.Sum(nil))
}

// parseToken recovers the session id from a signed cookie value. A missing
// or mismatched signature yields ok=false.
func (m *Sessions) parseToken(token string) (string, bool) {
	id, sig, found := strings.Cut(token, ".")
	if !found || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(m.sign(id))) {
		return "", false
	}
	return id, true
}

// Create starts a new session for the user and returns it.
func (m *Sessions) Create(ctx context.Context, userID int64) (*types.Session, error) {
	now := time.Now().UTC()
	session := types.Session{
		ID:        ulid.Make().String(),
		UserID:    userID,
		ExpiresAt: now.Add(SessionTTL),
		CreatedAt: now,
	}
	if err := m.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Resolve returns the user for a valid signed cookie value.
func (m *Sessions) Resolve(ctx context.Context, token string) (*types.User, error) {
	sessionID, ok := m.parseToken(token)
	if !ok {
		return nil, store.ErrNotFound
	}
	session, err := m.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return m.store.GetUser(ctx, session.UserID)
}

// Destroy ends the session behind a signed cookie value. A forged token
// has no session to end.
func (m *Sessions) Destroy(ctx context.Context, token string) error {
	sessionID, ok := m.parseToken(token)
	if !ok {
		return nil
	}
	return m.store.DeleteSession(ctx, sessionID)
}

// SetCookie writes the session cookie on a response.
func SetCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionTTL / time.Second),
	})
}

// ClearCookie expires the session cookie on a response.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// Package session keeps logged-in users in a server-side registry. The
// client holds an HS256 token in a cookie whose jti names the registry
// entry, so a session can be revoked before its token expires.
package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultCookieName = "sessionId"
	DefaultTTL        = 24 * time.Hour
)

// ErrNoSecret is returned by NewManager when Options.Secret is empty.
var ErrNoSecret = errors.New("session secret is required")

// Options configures a Manager.
type Options struct {
	Secret     []byte
	TTL        time.Duration
	Secure     bool
	CookieName string
}

// Session is one authenticated login.
type Session struct {
	ID        string
	UserID    string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// claims carried in the cookie token
type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Manager issues session cookies and tracks the live sessions.
type Manager struct {
	opts Options
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]Session
}

// NewManager returns a Manager, filling in the default TTL and cookie name.
func NewManager(opts Options) (*Manager, error) {
	if len(opts.Secret) == 0 {
		return nil, ErrNoSecret
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	return &Manager{
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]Session),
	}, nil
}

// Create registers a session for the user and sets the cookie on w.
func (m *Manager) Create(w http.ResponseWriter, userID, username string) (Session, error) {
	now := m.now()
	s := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(m.opts.TTL),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	})
	signed, err := token.SignedString(m.opts.Secret)
	if err != nil {
		return Session{}, err
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	http.SetCookie(w, m.cookie(signed, s.ExpiresAt))
	return s, nil
}

// Get resolves the request's cookie to a live session.
func (m *Manager) Get(r *http.Request) (Session, bool) {
	c, err := r.Cookie(m.opts.CookieName)
	if err != nil || c.Value == "" {
		return Session{}, false
	}
	id, ok := m.parse(c.Value)
	if !ok {
		return Session{}, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, false
	}
	if !m.now().Before(s.ExpiresAt) {
		delete(m.sessions, id)
		return Session{}, false
	}
	return s, true
}

// Destroy drops the request's session, if any, and clears the cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(m.opts.CookieName); err == nil {
		if id, ok := m.parse(c.Value); ok {
			m.mu.Lock()
			delete(m.sessions, id)
			m.mu.Unlock()
		}
	}
	expired := m.cookie("", time.Unix(0, 0))
	expired.MaxAge = -1
	http.SetCookie(w, expired)
}

// Purge removes expired sessions and returns how many were dropped.
func (m *Manager) Purge() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Len returns the number of registered sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Run purges expired sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Purge()
		}
	}
}

func (m *Manager) parse(raw string) (string, bool) {
	var c claims
	token, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return m.opts.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid || c.ID == "" {
		return "", false
	}
	return c.ID, true
}

func (m *Manager) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored by NewContext.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"fittrack/internal/config"
)

const (
	sessionUserKey  = "user_id"
	sessionStateKey = "oauth_state"
)

// SessionManager binds user identities to cookie-backed sessions. The store
// itself is the external collaborator; everything else resolves the current
// user through it.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
}

// NewSessionManager creates a cookie session store signed with the server
// secret.
func NewSessionManager(secret string, cfg config.SessionConfig) *SessionManager {
	if secret == "" {
		panic("session secret cannot be empty")
	}
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store, name: cfg.CookieName}
}

// Bind associates the request's session cookie with the user id.
func (m *SessionManager) Bind(c *gin.Context, userID int64) error {
	session, _ := m.store.Get(c.Request, m.name)
	session.Values[sessionUserKey] = userID
	return session.Save(c.Request, c.Writer)
}

// Clear invalidates the binding.
func (m *SessionManager) Clear(c *gin.Context) error {
	session, _ := m.store.Get(c.Request, m.name)
	delete(session.Values, sessionUserKey)
	session.Options.MaxAge = -1
	return session.Save(c.Request, c.Writer)
}

// CurrentUserID resolves the bound user id, if any.
func (m *SessionManager) CurrentUserID(c *gin.Context) (int64, bool) {
	session, err := m.store.Get(c.Request, m.name)
	if err != nil {
		return 0, false
	}
	id, ok := session.Values[sessionUserKey].(int64)
	return id, ok
}

// SetState stores the OAuth state parameter for the callback to verify.
func (m *SessionManager) SetState(c *gin.Context, state string) error {
	session, _ := m.store.Get(c.Request, m.name)
	session.Values[sessionStateKey] = state
	return session.Save(c.Request, c.Writer)
}

// ConsumeState returns and clears the stored OAuth state.
func (m *SessionManager) ConsumeState(c *gin.Context) string {
	session, err := m.store.Get(c.Request, m.name)
	if err != nil {
		return ""
	}
	state, _ := session.Values[sessionStateKey].(string)
	delete(session.Values, sessionStateKey)
	_ = session.Save(c.Request, c.Writer)
	return state
}

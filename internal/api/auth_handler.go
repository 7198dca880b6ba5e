package api

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"fittrack/internal/apperrors"
	"fittrack/internal/logger"
	"fittrack/internal/oauth"
	"fittrack/internal/service"
)

// AuthHandler holds the authentication dependencies.
type AuthHandler struct {
	authService service.AuthService
	sessions    *SessionManager
	google      oauth.Provider // nil when federated login is not configured
	frontendURL string
}

// NewAuthHandler creates a new AuthHandler. google may be nil.
func NewAuthHandler(authService service.AuthService, sessions *SessionManager, google oauth.Provider, frontendURL string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		google:      google,
		frontendURL: frontendURL,
	}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// --- Handler Methods ---

// Register creates a new account from username/password credentials.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithAppError(c, apperrors.InvalidInput("username and password are required"))
		return
	}

	if _, err := h.authService.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		abortWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Registration successful"})
}

// Login authenticates credentials and binds the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithAppError(c, apperrors.InvalidInput("username and password are required"))
		return
	}

	user, err := h.authService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		abortWithAppError(c, err)
		return
	}
	if err := h.sessions.Bind(c, user.ID); err != nil {
		abortWithAppError(c, apperrors.Internal(err))
		return
	}

	logger.Info("user logged in", zap.String("username", user.Username))
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Login successful", "is_admin": user.IsAdmin()})
}

// Logout invalidates the session binding.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Clear(c); err != nil {
		abortWithAppError(c, apperrors.Internal(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Logged out successfully"})
}

// GoogleLogin starts the federated login redirect flow.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if h.google == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"ok": false, "error": "Google OAuth is not configured"})
		return
	}

	state := uuid.NewString()
	if err := h.sessions.SetState(c, state); err != nil {
		abortWithAppError(c, apperrors.Internal(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "auth_url": h.google.AuthURL(state), "state": state})
}

// GoogleCallback finishes the redirect flow: verifies state, exchanges the
// code, resolves the identity and binds the session. The browser always gets
// redirected back to the frontend.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.google == nil {
		h.redirectFrontend(c, "error", "OAuth not configured")
		return
	}

	state := c.Query("state")
	if state == "" || state != h.sessions.ConsumeState(c) {
		h.redirectFrontend(c, "error", "state mismatch")
		return
	}

	code := c.Query("code")
	if code == "" {
		h.redirectFrontend(c, "error", "missing code")
		return
	}

	info, err := h.google.Exchange(c.Request.Context(), code)
	if err != nil {
		logger.Warn("google exchange failed", zap.Error(err))
		h.redirectFrontend(c, "error", "failed to get user info")
		return
	}

	user, err := h.authService.AuthenticateFederated(c.Request.Context(), "google", info.Sub, info.Email, info.Name)
	if err != nil {
		logger.Error("federated login failed", zap.Error(err))
		h.redirectFrontend(c, "error", "login failed")
		return
	}
	if err := h.sessions.Bind(c, user.ID); err != nil {
		h.redirectFrontend(c, "error", "login failed")
		return
	}

	logger.Info("google login", zap.String("username", user.Username))
	h.redirectFrontend(c, "success", "")
}

func (h *AuthHandler) redirectFrontend(c *gin.Context, status, msg string) {
	target := fmt.Sprintf("%s?auth=%s", h.frontendURL, status)
	if msg != "" {
		target += "&msg=" + url.QueryEscape(msg)
	}
	c.Redirect(http.StatusFound, target)
}

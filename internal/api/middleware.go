package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"fittrack/internal/apperrors"
	"fittrack/internal/logger"
)

// Constants for context keys
const (
	ContextUserIDKey    = "userID"
	ContextRequestIDKey = "requestID"
)

// RequestID assigns each request an id, echoed in the X-Request-ID header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// ErrorHandler converts errors recorded by handlers into the uniform
// response envelope. Internal causes are logged here and never reach the
// client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.HTTPStatus >= http.StatusInternalServerError {
				logger.Error("request failed",
					zap.String("code", appErr.Code),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", c.GetString(ContextRequestIDKey)),
					zap.Error(appErr.Err),
				)
			} else {
				logger.Warn("request error",
					zap.String("code", appErr.Code),
					zap.String("path", c.Request.URL.Path),
					zap.Int("status", appErr.HTTPStatus),
				)
			}
			c.JSON(appErr.HTTPStatus, gin.H{"ok": false, "error": appErr.Message})
			return
		}

		logger.Error("unhandled request error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "an internal error occurred"})
	}
}

// AuthMiddleware creates a Gin middleware resolving the current user from
// the session cookie. Requests with no valid binding are rejected.
func AuthMiddleware(sessions *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := sessions.CurrentUserID(c)
		if !ok {
			abortWithAppError(c, apperrors.Unauthenticated())
			return
		}
		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// abortWithAppError records the error for ErrorHandler and stops the chain.
func abortWithAppError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// getUserIDFromContext returns the authenticated user id set by
// AuthMiddleware.
func getUserIDFromContext(c *gin.Context) (int64, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, errors.New("user ID not found in context")
	}
	id, ok := idRaw.(int64)
	if !ok {
		return 0, errors.New("invalid user ID type in context")
	}
	return id, nil
}

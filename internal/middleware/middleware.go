package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventbook/internal/cache"
	"eventbook/internal/logger"
	"eventbook/internal/models"

	"github.com/gin-gonic/gin"
)

// Ctx keys and helpers for the authenticated identity.
// Unexported type avoids collisions with other packages' context values.

type ctxKey string

const (
	userIDKey ctxKey = "user_id"
	roleKey   ctxKey = "user_role"
)

func ContextWithIdentity(ctx context.Context, userID int64, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, roleKey, role)
	return logger.ContextWithUserID(ctx, userID)
}

func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

func RoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleKey).(string)
	return role, ok
}

// TokenSource resolves a bearer token to a user. The database repository
// satisfies it; tests substitute a fake.
type TokenSource interface {
	GetByToken(ctx context.Context, token string) (*models.User, error)
}

// CORS handles cross-origin requests from the frontend
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}

// RequestID tags every request with a UUID for log correlation
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = logger.NewRequestID()
		}

		c.Header("X-Request-ID", requestID)
		c.Request = c.Request.WithContext(
			logger.ContextWithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}

// Logger logs each completed request with structured fields
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		userID, exists := c.Get("user_id")

		logFields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
		}

		if exists {
			logFields = append(logFields, "user_id", userID)
		}

		if c.Writer.Status() >= 400 {
			if len(c.Errors) > 0 {
				logFields = append(logFields, "error", c.Errors.String())
			}
			slog.Error("Request completed with error", logFields...)
		} else {
			slog.Info("Request completed", logFields...)
		}
	}
}

// Recovery turns panics into 500 responses with detailed logging
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		slog.Error("PANIC recovered",
			"panic", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"client_ip", c.ClientIP(),
		)

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
	})
}

// Auth authenticates the caller by bearer token, checking the Redis cache
// first and falling back to the users table. The resolved identity (id and
// role) is placed on the request context.
func Auth(users TokenSource, cacheClient *cache.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		ctx := c.Request.Context()

		if cacheClient != nil {
			if userID, role, err := cacheClient.GetAuthByToken(ctx, token); err == nil {
				setIdentity(c, userID, role)
				c.Next()
				return
			}
		}

		user, err := users.GetByToken(ctx, token)
		if err != nil || user == nil || !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		if cacheClient != nil {
			if err := cacheClient.SetAuthToken(ctx, token, user.ID, user.Role); err != nil {
				slog.Error("Failed to cache auth token", "error", err, "user_id", user.ID)
			}
		}

		setIdentity(c, user.ID, user.Role)
		c.Next()
	}
}

// AdminOnly rejects callers whose resolved role is not admin. Must run after
// Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFromContext(c.Request.Context())
		if !ok || role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, userID int64, role string) {
	c.Set("user_id", userID)
	c.Set("user_role", role)
	c.Request = c.Request.WithContext(
		ContextWithIdentity(c.Request.Context(), userID, role))
}

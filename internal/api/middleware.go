package api

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/metrics"
	"alcyxob/fitness-tracker/internal/service"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Constants for context keys
const (
	ContextSessionKey = "session"
	ContextTokenKey   = "accessToken"
)

var errMalformedAuthHeader = errors.New("malformed authorization header")

// extractBearerToken returns "" when there is no Authorization header.
func extractBearerToken(header string) (string, error) {
	if header == "" {
		return "", nil
	}
	// Expecting "Bearer <token>"
	parts := strings.Split(header, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", errMalformedAuthHeader
	}
	return parts[1], nil
}

// AuthMiddleware creates a Gin middleware that only lets requests with a live session through.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}
		if token == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		session, err := authService.ResolveSession(c.Request.Context(), token)
		if err != nil {
			log.Errorf("resolve session: %s", err)
			abortWithError(c, http.StatusInternalServerError, "Failed to verify session")
			return
		}
		if session == nil {
			abortWithError(c, http.StatusUnauthorized, "Session is invalid or has expired")
			return
		}

		// Set session information in the context for downstream handlers
		c.Set(ContextSessionKey, session)
		c.Set(ContextTokenKey, token)

		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// Helper function to get the session from context (used by handlers behind AuthMiddleware)
func getSessionFromContext(c *gin.Context) (*domain.Session, error) {
	raw, exists := c.Get(ContextSessionKey)
	if !exists {
		return nil, errors.New("session not found in context")
	}
	session, ok := raw.(*domain.Session)
	if !ok || session == nil {
		return nil, errors.New("invalid session type in context")
	}
	return session, nil
}

// RequestLogger logs every request through logrus.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		})
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Debug("request served")
		}
	}
}

func RequestMetrics(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.GaugeRequests.Inc()
		defer m.GaugeRequests.Dec()

		begin := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, c.Writer.Status(), time.Since(begin).Seconds())
	}
}

package sandbox

import (
	"net/http"
	"strings"
	"time"

	"github.com/MacJediWizard/edudesk/internal/envelope"
	"github.com/MacJediWizard/edudesk/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const profileKey = "sandbox_profile"

// RequestLogger logs each request with its correlation id. Only the path is
// logged; query strings never reach the log.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	log := logger.With().Str("component", "http").Logger()

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		if status >= 400 && status < 500 {
			event = log.Warn()
		} else if status >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", c.GetHeader("X-Request-Id")).
			Msg("request")
	}
}

// BodyLimit caps request bodies at maxBytes.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// requireAuth rejects requests without a bearer token issued by login.
func (s *Server) requireAuth(c *gin.Context) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || token == "" {
		s.fail(c, envelope.ModuleAuth, &apiError{
			status:  http.StatusUnauthorized,
			errType: envelope.ErrorTypeAuth,
			code:    "UNAUTHORIZED",
			message: "Authentication required",
		})
		return
	}

	s.mu.RLock()
	profile, found := s.tokens[token]
	s.mu.RUnlock()
	if !found {
		s.fail(c, envelope.ModuleAuth, &apiError{
			status:  http.StatusUnauthorized,
			errType: envelope.ErrorTypeAuth,
			code:    "INVALID_TOKEN",
			message: "Session expired or invalid",
		})
		return
	}

	c.Set(profileKey, profile)
	c.Set("token", token)
	c.Next()
}

func currentProfile(c *gin.Context) (models.Profile, bool) {
	v, ok := c.Get(profileKey)
	if !ok {
		return models.Profile{}, false
	}
	p, ok := v.(models.Profile)
	return p, ok
}

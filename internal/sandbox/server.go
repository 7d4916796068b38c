// Package sandbox serves an in-memory implementation of the platform API.
//
// It speaks the same envelope and pagination contract as the real service for
// every entity path, including soft delete, restore, force delete and the
// fixed-path actions, so the console and its tests can run without a backend.
// Status transitions are applied as requested and never validated.
package sandbox

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MacJediWizard/edudesk/internal/envelope"
	"github.com/MacJediWizard/edudesk/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// DefaultBasePath is the API prefix served by the sandbox.
const DefaultBasePath = "/api/v1"

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Credential is a login accepted by the sandbox.
type Credential struct {
	Email    string
	Password string
	UserType models.UserType
	Profile  models.Profile
}

// DefaultCredentials are the logins available when Options.Credentials is empty.
func DefaultCredentials() []Credential {
	return []Credential{
		{
			Email:    "admin@edudesk.local",
			Password: "admin123",
			UserType: models.UserEmployee,
			Profile: models.Profile{
				ID:        "emp-admin",
				FirstName: "Ada",
				LastName:  "Admin",
				Email:     "admin@edudesk.local",
				UserType:  models.UserEmployee,
				RoleID:    "role-admin",
			},
		},
		{
			Email:    "student@edudesk.local",
			Password: "student123",
			UserType: models.UserStudent,
			Profile: models.Profile{
				ID:        "stu-demo",
				FirstName: "Sam",
				LastName:  "Student",
				Email:     "student@edudesk.local",
				UserType:  models.UserStudent,
			},
		},
	}
}

// Options configures a Server.
type Options struct {
	BasePath    string
	Seed        bool
	Credentials []Credential
	Logger      zerolog.Logger
	Now         func() time.Time
}

// Server is the in-memory API.
type Server struct {
	basePath    string
	specs       map[string]*entitySpec
	collections map[string]*collection
	audit       *collection
	permissions []models.Permission
	creds       []Credential
	logger      zerolog.Logger
	now         func() time.Time
	engine      *gin.Engine

	// mutate serializes writes that read or touch more than one record.
	mutate sync.Mutex

	mu     sync.RWMutex
	tokens map[string]models.Profile
}

// New creates a sandbox server.
func New(opts Options) *Server {
	s := &Server{
		basePath:    opts.BasePath,
		specs:       make(map[string]*entitySpec),
		collections: make(map[string]*collection),
		creds:       opts.Credentials,
		logger:      opts.Logger.With().Str("component", "sandbox").Logger(),
		now:         opts.Now,
		tokens:      make(map[string]models.Profile),
	}
	if s.basePath == "" {
		s.basePath = DefaultBasePath
	}
	s.basePath = "/" + strings.Trim(s.basePath, "/")
	if s.now == nil {
		s.now = time.Now
	}
	if len(s.creds) == 0 {
		s.creds = DefaultCredentials()
	}

	for _, spec := range entitySpecs() {
		s.specs[spec.path] = spec
		s.collections[spec.path] = newCollection(s.now)
	}
	s.audit = s.collections["audit-logs"]
	s.permissions = permissionCatalog()

	if opts.Seed {
		s.seed()
	}

	s.engine = s.routes(opts.Logger)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// BasePath returns the API prefix.
func (s *Server) BasePath() string {
	return s.basePath
}

func (s *Server) routes(logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))
	r.Use(BodyLimit(maxBodyBytes))

	r.NoRoute(func(c *gin.Context) {
		s.fail(c, envelope.ModuleApp, notFound("Route not found"))
	})

	r.GET("/health", s.health)

	api := r.Group(s.basePath)
	api.POST("/auth/login", s.login)

	authed := api.Group("", s.requireAuth)
	authed.POST("/auth/logout", s.logout)
	authed.GET("/auth/profile", s.profile)
	authed.GET("/dashboard/stats", s.dashboardStats)
	authed.GET("/roles/:id/permissions", s.rolePermissions)

	for _, spec := range s.specs {
		g := authed.Group("/" + spec.path)
		g.GET("", s.list(spec))
		g.GET("/:id", s.get(spec))
		if spec.readOnly {
			continue
		}
		g.POST("", s.create(spec))
		g.PATCH("/:id", s.update(spec))
		g.DELETE("/:id", s.softDelete(spec))
		g.DELETE("/:id/force", s.forceDelete(spec))
		// restore shares the action route
		g.POST("/:id/:action", s.action(spec))
	}
	return r
}

// apiError is a failure rendered as an envelope.
type apiError struct {
	status  int
	errType envelope.ErrorType
	code    string
	message string
	details any
}

func notFound(message string) *apiError {
	return &apiError{status: http.StatusNotFound, errType: envelope.ErrorTypeBusiness, code: "NOT_FOUND", message: message}
}

func validationError(message string, details any) *apiError {
	return &apiError{status: http.StatusBadRequest, errType: envelope.ErrorTypeValidation, code: "VALIDATION_FAILED", message: message, details: details}
}

func conflict(code, message string) *apiError {
	return &apiError{status: http.StatusConflict, errType: envelope.ErrorTypeBusiness, code: code, message: message}
}

func (s *Server) ok(c *gin.Context, status int, module envelope.Module, message string, data any) {
	resp := envelope.Success(status, module, message, &data, s.now())
	resp.RequestID = c.GetHeader("X-Request-Id")
	c.JSON(status, resp)
}

func (s *Server) fail(c *gin.Context, module envelope.Module, e *apiError) {
	resp := envelope.Failure[any](e.status, module, e.message, &envelope.ErrorInfo{
		Type:    e.errType,
		Code:    e.code,
		Details: e.details,
	}, s.now())
	resp.RequestID = c.GetHeader("X-Request-Id")
	c.AbortWithStatusJSON(e.status, resp)
}

// recordAudit appends an audit entry for a mutation by the caller.
func (s *Server) recordAudit(c *gin.Context, action models.AuditAction, entityType, entityID string, values any) {
	entry := Record{
		"action":     string(action),
		"entityType": entityType,
		"entityId":   entityID,
		"ipAddress":  c.ClientIP(),
		"userAgent":  c.Request.UserAgent(),
	}
	if p, ok := currentProfile(c); ok {
		entry["userId"] = p.ID
		entry["userType"] = string(p.UserType)
	}
	if values != nil {
		entry["newValues"] = values
	}
	s.audit.insert(entry)
}

// health reports liveness outside the envelope contract.
func (s *Server) health(c *gin.Context) {
	s.mu.RLock()
	sessions := len(s.tokens)
	s.mu.RUnlock()
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"time":     s.now().UTC().Format(time.RFC3339),
		"sessions": sessions,
	})
}

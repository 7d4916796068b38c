package sandbox

import (
	"net/http"
	"strings"
	"time"

	"github.com/MacJediWizard/edudesk/internal/envelope"
	"github.com/MacJediWizard/edudesk/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// tokenTTL is the lifetime advertised for issued tokens.
const tokenTTL = 24 * time.Hour

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	raw, apiErr := bindRecord(c)
	if apiErr != nil {
		s.fail(c, envelope.ModuleAuth, apiErr)
		return
	}
	if err := convert(raw, &req); err != nil {
		s.fail(c, envelope.ModuleAuth, validationError("Invalid login request", nil))
		return
	}
	if details := missingFields(raw, []string{"email", "password"}); len(details) > 0 {
		s.fail(c, envelope.ModuleAuth, validationError("Validation failed", details))
		return
	}

	cred, ok := s.authenticate(req)
	if !ok {
		s.logger.Warn().Str("email", req.Email).Msg("login rejected")
		s.fail(c, envelope.ModuleAuth, &apiError{
			status:  http.StatusUnauthorized,
			errType: envelope.ErrorTypeAuth,
			code:    "INVALID_CREDENTIALS",
			message: "Invalid email or password",
		})
		return
	}

	token := "sbx_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	profile := s.profileFor(cred)

	s.mu.Lock()
	s.tokens[token] = profile
	s.mu.Unlock()

	expires := s.now().Add(tokenTTL).UTC()
	resp := models.LoginResponse{
		AccessToken: models.AccessToken{
			Token:     token,
			ExpiresIn: int(tokenTTL.Seconds()),
			ExpiresAt: &expires,
		},
	}
	if cred.UserType == models.UserStudent {
		resp.Student = &profile
	} else {
		resp.Employee = &profile
	}

	c.Set(profileKey, profile)
	s.recordAudit(c, models.AuditLogin, string(envelope.ModuleAuth), profile.ID, nil)
	s.logger.Info().Str("user_id", profile.ID).Str("user_type", string(cred.UserType)).Msg("login succeeded")
	s.ok(c, http.StatusOK, envelope.ModuleAuth, "Login successful", resp)
}

// authenticate matches a login against the configured credentials. An empty
// user type matches any.
func (s *Server) authenticate(req models.LoginRequest) (Credential, bool) {
	for _, cred := range s.creds {
		if !strings.EqualFold(cred.Email, strings.TrimSpace(req.Email)) || cred.Password != req.Password {
			continue
		}
		if req.UserType != "" && req.UserType != cred.UserType {
			continue
		}
		return cred, true
	}
	return Credential{}, false
}

// profileFor fills role and permission data for employee logins.
func (s *Server) profileFor(cred Credential) models.Profile {
	p := cred.Profile
	if p.Email == "" {
		p.Email = cred.Email
	}
	p.UserType = cred.UserType
	if p.RoleID == "" {
		return p
	}

	rec, err := s.collections["roles"].get(p.RoleID, false)
	if err != nil {
		return p
	}
	var role models.Role
	if err := convert(rec, &role); err != nil {
		return p
	}
	p.Role = &role
	p.Permissions = make([]string, 0, len(role.Permissions))
	for _, perm := range role.Permissions {
		p.Permissions = append(p.Permissions, perm.Name)
	}
	return p
}

func (s *Server) logout(c *gin.Context) {
	token := c.GetString("token")
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()

	if p, ok := currentProfile(c); ok {
		s.recordAudit(c, models.AuditLogout, string(envelope.ModuleAuth), p.ID, nil)
	}
	msg := "Logged out successfully"
	s.ok(c, http.StatusOK, envelope.ModuleAuth, msg, envelope.Message{Message: msg})
}

func (s *Server) profile(c *gin.Context) {
	p, _ := currentProfile(c)
	s.ok(c, http.StatusOK, envelope.ModuleAuth, "Profile retrieved successfully", p)
}

// dashboardStats aggregates headline figures. centerId narrows students and
// enquiries; from and to bound the revenue window.
func (s *Server) dashboardStats(c *gin.Context) {
	centerID := c.Query("centerId")
	inCenter := func(r Record) bool {
		return centerID == "" || r["centerId"] == centerID
	}

	var from, to time.Time
	if v := c.Query("from"); v != "" {
		d, err := models.ParseDate(v)
		if err != nil {
			s.fail(c, envelope.ModuleDashboard, validationError("Validation failed", map[string]string{"from": "must be a date"}))
			return
		}
		from = d.Time
	}
	if v := c.Query("to"); v != "" {
		d, err := models.ParseDate(v)
		if err != nil {
			s.fail(c, envelope.ModuleDashboard, validationError("Validation failed", map[string]string{"to": "must be a date"}))
			return
		}
		to = d.AddDate(0, 0, 1)
	}

	stats := models.DashboardStats{
		TotalStudents: s.collections["students"].count(inCenter),
		ActiveStudents: s.collections["students"].count(func(r Record) bool {
			return inCenter(r) && r["status"] == string(models.StudentActive)
		}),
		TotalCourses: s.collections["courses"].count(nil),
		ActiveCohorts: s.collections["cohorts"].count(func(r Record) bool {
			return r["status"] == string(models.CohortActive) || r["status"] == string(models.CohortEnrolling)
		}),
		TotalEnrollments: s.collections["enrollments"].count(nil),
		PendingEnquiries: s.collections["enquiries"].count(func(r Record) bool {
			switch r["status"] {
			case string(models.EnquiryNew), string(models.EnquiryContacted), string(models.EnquiryFollowUp):
				return inCenter(r)
			}
			return false
		}),
	}

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for _, rec := range s.collections["payments"].all() {
		var p models.Payment
		if err := convert(rec, &p); err != nil || p.PaidAt == nil {
			continue
		}
		switch p.Status {
		case models.PaymentCompleted, models.PaymentPartiallyRefunded, models.PaymentRefunded:
		default:
			continue
		}
		if (!from.IsZero() && p.PaidAt.Before(from)) || (!to.IsZero() && !p.PaidAt.Before(to)) {
			continue
		}
		net := p.Amount - p.RefundedAmount
		stats.TotalRevenue += net
		if !p.PaidAt.Before(monthStart) {
			stats.MonthlyRevenue += net
		}
	}

	stats.RecentEnrollments = recent[models.Enrollment](s.collections["enrollments"].all(), 5)
	stats.RecentPayments = recent[models.Payment](s.collections["payments"].all(), 5)

	s.ok(c, http.StatusOK, envelope.ModuleDashboard, "Dashboard stats retrieved successfully", stats)
}

// recent decodes the last n records, newest first.
func recent[T any](recs []Record, n int) []T {
	out := make([]T, 0, n)
	for i := len(recs) - 1; i >= 0 && len(out) < n; i-- {
		var v T
		if err := convert(recs[i], &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

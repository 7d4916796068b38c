package services

import (
	"context"

	"github.com/MacJediWizard/edudesk/internal/apiclient"
	"github.com/MacJediWizard/edudesk/internal/envelope"
	"github.com/MacJediWizard/edudesk/internal/models"
	"github.com/MacJediWizard/edudesk/internal/query"
)

// AuthService wraps /auth. Login does not touch the client's token; callers
// decide whether to call SetAuthToken.
type AuthService struct {
	client *apiclient.Client
}

// Login exchanges credentials for a token and user profile.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) *envelope.Response[models.LoginResponse] {
	return apiclient.Post[models.LoginResponse](ctx, s.client, "/auth/login", req)
}

// Logout ends the session on the server.
func (s *AuthService) Logout(ctx context.Context) *envelope.Response[envelope.Message] {
	return apiclient.Post[envelope.Message](ctx, s.client, "/auth/logout", nil)
}

// Profile returns the authenticated user.
func (s *AuthService) Profile(ctx context.Context) *envelope.Response[models.Profile] {
	return apiclient.Get[models.Profile](ctx, s.client, "/auth/profile", nil)
}

// DashboardService reads aggregate figures.
type DashboardService struct {
	client *apiclient.Client
}

// Stats returns dashboard figures for the requested range.
func (s *DashboardService) Stats(ctx context.Context, params models.DashboardParams) *envelope.Response[models.DashboardStats] {
	return apiclient.Get[models.DashboardStats](ctx, s.client, "/dashboard/stats", query.FromStruct(params))
}

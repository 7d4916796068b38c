package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MacJediWizard/edudesk/internal/envelope"
	"github.com/MacJediWizard/edudesk/internal/models"
	"github.com/MacJediWizard/edudesk/internal/services"
	"github.com/rs/zerolog"
)

// Manager ties a session store to the services' shared client.
type Manager struct {
	store   Store
	svc     *services.Services
	profile string
	logger  zerolog.Logger
	now     func() time.Time
}

// NewManager creates a manager for one profile.
func NewManager(store Store, svc *services.Services, profile string, logger zerolog.Logger) *Manager {
	return &Manager{
		store:   store,
		svc:     svc,
		profile: profile,
		logger:  logger.With().Str("component", "session").Logger(),
		now:     time.Now,
	}
}

// Login authenticates, attaches the token to the client and persists the
// session. A failed login returns the envelope's *envelope.APIError.
func (m *Manager) Login(ctx context.Context, req models.LoginRequest) (*Session, error) {
	resp := m.svc.Auth.Login(ctx, req)
	if err := resp.Err(); err != nil {
		return nil, err
	}
	if resp.Data == nil || resp.Data.AccessToken.Token == "" {
		return nil, errors.New("login response carried no access token")
	}

	token := resp.Data.AccessToken
	s := &Session{
		Profile:   m.profile,
		APIURL:    m.svc.Client.BaseURL(),
		Token:     token.Token,
		UserType:  req.UserType,
		Email:     req.Email,
		CreatedAt: m.now().UTC(),
		ExpiresAt: token.ExpiresAt,
	}
	if s.ExpiresAt == nil && token.ExpiresIn > 0 {
		exp := s.CreatedAt.Add(time.Duration(token.ExpiresIn) * time.Second)
		s.ExpiresAt = &exp
	}
	if user := resp.Data.User(); user != nil {
		s.UserID = user.ID
		s.Name = models.FullName(user.FirstName, user.LastName)
		if user.Email != "" {
			s.Email = user.Email
		}
		if user.UserType != "" {
			s.UserType = user.UserType
		}
	}

	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	m.svc.Client.SetAuthToken(s.Token)
	m.logger.Debug().Str("profile", m.profile).Str("user_id", s.UserID).Msg("session saved")
	return s, nil
}

// Resume loads the stored session and attaches its token. An expired session
// is cleared and ErrExpired returned.
func (m *Manager) Resume(ctx context.Context) (*Session, error) {
	s, err := m.store.Load(ctx, m.profile)
	if err != nil {
		return nil, err
	}
	if s.Expired(m.now()) {
		if err := m.store.Clear(ctx, m.profile); err != nil {
			m.logger.Warn().Err(err).Msg("failed to clear expired session")
		}
		return nil, ErrExpired
	}
	m.svc.Client.SetAuthToken(s.Token)
	return s, nil
}

// Logout revokes the token server side, detaches it and forgets the session.
// The local session is cleared even when the server call fails.
func (m *Manager) Logout(ctx context.Context) (*envelope.Response[envelope.Message], error) {
	var resp *envelope.Response[envelope.Message]
	if m.svc.Client.AuthToken() != "" {
		resp = m.svc.Auth.Logout(ctx)
	}
	m.svc.Client.ClearAuthToken()
	if err := m.store.Clear(ctx, m.profile); err != nil {
		return resp, fmt.Errorf("clear session: %w", err)
	}
	return resp, nil
}

// Package session persists the console's authenticated session between runs.
package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/MacJediWizard/edudesk/internal/config"
	"github.com/MacJediWizard/edudesk/internal/models"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrNoSession is returned by Load when no session is stored for a profile.
	ErrNoSession = errors.New("no session")
	// ErrExpired is returned when the stored token has passed its expiry.
	ErrExpired = errors.New("session expired")
)

// SessionFileName is the file used by the file store inside the config directory.
const SessionFileName = "session.yml"

// Session is a logged-in principal and the token that authenticates it.
type Session struct {
	Profile   string          `yaml:"profile" json:"profile"`
	APIURL    string          `yaml:"api_url" json:"apiUrl"`
	Token     string          `yaml:"token" json:"token"`
	UserType  models.UserType `yaml:"user_type" json:"userType"`
	UserID    string          `yaml:"user_id" json:"userId"`
	Email     string          `yaml:"email" json:"email"`
	Name      string          `yaml:"name,omitempty" json:"name,omitempty"`
	CreatedAt time.Time       `yaml:"created_at" json:"createdAt"`
	ExpiresAt *time.Time      `yaml:"expires_at,omitempty" json:"expiresAt,omitempty"`
}

// Expired reports whether the token expiry has passed at now. A session
// without an expiry never expires locally.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// Store persists sessions keyed by profile name.
type Store interface {
	Load(ctx context.Context, profile string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context, profile string) error
}

// NewStore builds the store selected by cfg. The returned close function
// releases any connection held by the store.
func NewStore(cfg *config.ConsoleConfig) (Store, func() error, error) {
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return NewRedisStore(client, cfg.Redis.KeyPrefix, cfg.Redis.TTL), client.Close, nil
	case config.SessionStoreFile, "":
		dir, err := config.DefaultConfigDir()
		if err != nil {
			return nil, nil, err
		}
		return NewFileStore(filepath.Join(dir, SessionFileName)), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
}

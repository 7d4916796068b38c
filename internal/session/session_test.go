package session

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MacJediWizard/edudesk/internal/apiclient"
	"github.com/MacJediWizard/edudesk/internal/config"
	"github.com/MacJediWizard/edudesk/internal/envelope"
	"github.com/MacJediWizard/edudesk/internal/models"
	"github.com/MacJediWizard/edudesk/internal/sandbox"
	"github.com/MacJediWizard/edudesk/internal/services"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sampleSession(profile string) *Session {
	return &Session{
		Profile:   profile,
		APIURL:    "http://localhost:4000/api/v1",
		Token:     "tok-" + profile,
		UserType:  models.UserEmployee,
		UserID:    "emp-1",
		Email:     "admin@example.com",
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.False(t, (&Session{}).Expired(now))
	assert.True(t, (&Session{ExpiresAt: &past}).Expired(now))
	assert.True(t, (&Session{ExpiresAt: &now}).Expired(now))
	assert.False(t, (&Session{ExpiresAt: &future}).Expired(now))
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", SessionFileName)
	store := NewFileStore(path)

	_, err := store.Load(ctx, "default")
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.Save(ctx, sampleSession("default")))
	require.NoError(t, store.Save(ctx, sampleSession("staging")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := store.Load(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, sampleSession("default"), got)

	require.NoError(t, store.Clear(ctx, "default"))
	_, err = store.Load(ctx, "default")
	assert.ErrorIs(t, err, ErrNoSession)

	got, err = store.Load(ctx, "staging")
	require.NoError(t, err)
	assert.Equal(t, "tok-staging", got.Token)

	require.NoError(t, store.Clear(ctx, "missing"))
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), SessionFileName)
	require.NoError(t, os.WriteFile(path, []byte("sessions: [unclosed"), 0600))

	_, err := NewFileStore(path).Load(context.Background(), "default")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoSession))
}

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "edudesk:", ttl), mr
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Hour)

	_, err := store.Load(ctx, "default")
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.Save(ctx, sampleSession("default")))
	assert.True(t, mr.Exists("edudesk:session:default"))
	assert.Equal(t, time.Hour, mr.TTL("edudesk:session:default"))

	got, err := store.Load(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, sampleSession("default"), got)

	require.NoError(t, store.Clear(ctx, "default"))
	_, err = store.Load(ctx, "default")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRedisStore_TTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Hour)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	soon := now.Add(10 * time.Minute)
	s := sampleSession("default")
	s.ExpiresAt = &soon
	require.NoError(t, store.Save(ctx, s))
	assert.Equal(t, 10*time.Minute, mr.TTL("edudesk:session:default"))

	mr.FastForward(11 * time.Minute)
	_, err := store.Load(ctx, "default")
	assert.ErrorIs(t, err, ErrNoSession)

	past := now.Add(-time.Second)
	s.ExpiresAt = &past
	assert.ErrorIs(t, store.Save(ctx, s), ErrExpired)
}

func TestRedisStore_ConnectionError(t *testing.T) {
	store, mr := newRedisStore(t, time.Hour)
	mr.Close()

	_, err := store.Load(context.Background(), "default")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoSession))
}

func TestNewStore(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	store, closeFn, err := NewStore(&config.ConsoleConfig{SessionStore: config.SessionStoreFile})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)
	assert.NoError(t, closeFn())

	mr := miniredis.RunT(t)
	store, closeFn, err = NewStore(&config.ConsoleConfig{
		SessionStore: config.SessionStoreRedis,
		Redis:        config.RedisConfig{Addr: mr.Addr(), KeyPrefix: "x:", TTL: time.Minute},
	})
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, store)
	assert.NoError(t, closeFn())

	_, _, err = NewStore(&config.ConsoleConfig{SessionStore: "etcd"})
	assert.Error(t, err)
}

func newManager(t *testing.T, store Store) (*Manager, *services.Services) {
	t.Helper()
	srv := httptest.NewServer(sandbox.New(sandbox.Options{Seed: true, Logger: zerolog.Nop()}).Handler())
	t.Cleanup(srv.Close)

	svc := services.New(apiclient.New(apiclient.Options{BaseURL: srv.URL + "/api/v1", Logger: zerolog.Nop()}))
	return NewManager(store, svc, "default", zerolog.Nop()), svc
}

func TestManager_LoginResumeLogout(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t, 12*time.Hour)
	m, svc := newManager(t, store)

	s, err := m.Login(ctx, models.LoginRequest{Email: "admin@edudesk.local", Password: "admin123", UserType: models.UserEmployee})
	require.NoError(t, err)
	assert.Equal(t, "emp-admin", s.UserID)
	assert.Equal(t, "Ada Admin", s.Name)
	require.NotNil(t, s.ExpiresAt)
	assert.Equal(t, s.Token, svc.Client.AuthToken())

	svc.Client.ClearAuthToken()
	resumed, err := m.Resume(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.Token, resumed.Token)
	assert.Equal(t, s.Token, svc.Client.AuthToken())

	profile := svc.Auth.Profile(ctx)
	require.True(t, profile.Success)

	resp, err := m.Logout(ctx)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.True(t, resp.Success)
	assert.Empty(t, svc.Client.AuthToken())

	_, err = m.Resume(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManager_LoginFailure(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), SessionFileName))
	m, svc := newManager(t, store)

	_, err := m.Login(context.Background(), models.LoginRequest{Email: "admin@edudesk.local", Password: "wrong"})
	require.Error(t, err)

	var apiErr *envelope.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Status.Error.Code)
	assert.Empty(t, svc.Client.AuthToken())

	_, err = store.Load(context.Background(), "default")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManager_LoginSaveFailure(t *testing.T) {
	store, mr := newRedisStore(t, time.Hour)
	m, svc := newManager(t, store)
	mr.Close()

	_, err := m.Login(context.Background(), models.LoginRequest{Email: "admin@edudesk.local", Password: "admin123", UserType: models.UserEmployee})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save session")
	assert.Empty(t, svc.Client.AuthToken())
}

func TestManager_ResumeExpired(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), SessionFileName))
	m, svc := newManager(t, store)

	past := time.Now().Add(-time.Hour)
	s := sampleSession("default")
	s.ExpiresAt = &past
	require.NoError(t, store.Save(ctx, s))

	_, err := m.Resume(ctx)
	assert.ErrorIs(t, err, ErrExpired)
	assert.Empty(t, svc.Client.AuthToken())

	_, err = store.Load(ctx, "default")
	assert.ErrorIs(t, err, ErrNoSession)
}

package auth

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgauth "github.com/dealerhub/dealerhub-backend/pkg/auth"
	"github.com/dealerhub/dealerhub-backend/pkg/auth/session"
	"github.com/dealerhub/dealerhub-backend/pkg/config"
	"github.com/dealerhub/dealerhub-backend/pkg/db/models"
	"github.com/dealerhub/dealerhub-backend/pkg/enums"
	pkgerrors "github.com/dealerhub/dealerhub-backend/pkg/errors"
	"github.com/dealerhub/dealerhub-backend/pkg/logger"
	"github.com/dealerhub/dealerhub-backend/pkg/security"
)

type fakeUserStore struct {
	byEmail    map[string]*models.User
	lastLogins map[uuid.UUID]time.Time
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	row, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *row
	return &copied, nil
}

func (f *fakeUserStore) TouchLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	if f.lastLogins == nil {
		f.lastLogins = map[uuid.UUID]time.Time{}
	}
	f.lastLogins[id] = at
	return nil
}

type fakeLimiter struct {
	counts map[string]int64
	limits map[string]int64
}

func (f *fakeLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	if cap, ok := f.limits[scope]; ok {
		limit = cap
	}
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

type memoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}}
}

func (m *memoryStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value.(string)
	return nil
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryStore) AccessSessionKey(accessID string) string {
	return "session:access:" + accessID
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-at-least-32-bytes-long!!",
		Issuer:                 "dealerhub-test",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
}

func newTestService(t *testing.T, users *fakeUserStore, limiter *fakeLimiter) (Service, *memoryStore) {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	store := newMemoryStore()
	sessions, err := session.NewManager(store, time.Hour, logg)
	require.NoError(t, err)

	hasher, err := security.NewHasher(config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	require.NoError(t, err)

	svc, err := NewService(users, hasher, sessions, limiter, testJWTConfig(), config.AuthRateLimitConfig{
		LoginWindow:     time.Minute,
		LoginEmailLimit: 5,
		LoginIPLimit:    20,
	}, logg)
	require.NoError(t, err)
	return svc, store
}

func seededUser(t *testing.T, email, password string) (*fakeUserStore, *models.User) {
	t.Helper()

	hasher, err := security.NewHasher(config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	require.NoError(t, err)
	hash, err := hasher.Hash(password)
	require.NoError(t, err)

	row := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Ayesha",
		LastName:     "Khan",
		Role:         enums.UserRoleAdmin,
		IsActive:     true,
	}
	return &fakeUserStore{byEmail: map[string]*models.User{email: row}}, row
}

func TestLoginSuccess(t *testing.T) {
	users, row := seededUser(t, "admin@dealerhub.test", "s3cret-pass")
	svc, _ := newTestService(t, users, &fakeLimiter{})

	result, err := svc.Login(context.Background(), "Admin@DealerHub.test", "s3cret-pass", "203.0.113.9")
	require.NoError(t, err)

	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
	assert.Equal(t, "Bearer", result.Tokens.TokenType)
	assert.Equal(t, 15*60, result.Tokens.ExpiresIn)
	assert.Equal(t, row.ID, result.User.ID)
	assert.Equal(t, "admin", result.User.Role)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, row.ID, claims.UserID)
	assert.NotEmpty(t, claims.ID)

	_, stamped := users.lastLogins[row.ID]
	assert.True(t, stamped)
}

func TestLoginWrongPassword(t *testing.T) {
	users, _ := seededUser(t, "admin@dealerhub.test", "s3cret-pass")
	svc, _ := newTestService(t, users, &fakeLimiter{})

	_, err := svc.Login(context.Background(), "admin@dealerhub.test", "wrong", "")
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
	assert.Equal(t, "invalid email or password", appErr.Message())
}

func TestLoginUnknownUserSameError(t *testing.T) {
	users, _ := seededUser(t, "admin@dealerhub.test", "s3cret-pass")
	svc, _ := newTestService(t, users, &fakeLimiter{})

	_, err := svc.Login(context.Background(), "nobody@dealerhub.test", "whatever", "")
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "invalid email or password", appErr.Message())
}

func TestLoginInactiveUser(t *testing.T) {
	users, row := seededUser(t, "admin@dealerhub.test", "s3cret-pass")
	row.IsActive = false
	users.byEmail[row.Email] = row
	svc, _ := newTestService(t, users, &fakeLimiter{})

	_, err := svc.Login(context.Background(), "admin@dealerhub.test", "s3cret-pass", "")
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func TestLoginRateLimited(t *testing.T) {
	users, _ := seededUser(t, "admin@dealerhub.test", "s3cret-pass")
	limiter := &fakeLimiter{limits: map[string]int64{"login:email:admin@dealerhub.test": 2}}
	svc, _ := newTestService(t, users, limiter)

	for i := 0; i < 2; i++ {
		_, err := svc.Login(context.Background(), "admin@dealerhub.test", "wrong", "")
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
	}

	_, err := svc.Login(context.Background(), "admin@dealerhub.test", "s3cret-pass", "")
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeRateLimit, appErr.Code())
}

func TestRefreshRotatesSession(t *testing.T) {
	users, _ := seededUser(t, "admin@dealerhub.test", "s3cret-pass")
	svc, _ := newTestService(t, users, &fakeLimiter{})

	result, err := svc.Login(context.Background(), "admin@dealerhub.test", "s3cret-pass", "")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), result.Tokens.AccessToken, result.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, result.Tokens.RefreshToken, refreshed.RefreshToken)
	assert.NotEmpty(t, refreshed.AccessToken)

	// The old session is gone; replaying the original pair must fail.
	_, err = svc.Refresh(context.Background(), result.Tokens.AccessToken, result.Tokens.RefreshToken)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func TestRefreshGarbageAccessToken(t *testing.T) {
	users, _ := seededUser(t, "admin@dealerhub.test", "s3cret-pass")
	svc, _ := newTestService(t, users, &fakeLimiter{})

	_, err := svc.Refresh(context.Background(), "not-a-jwt", "refresh")
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func TestLogoutRevokesSession(t *testing.T) {
	users, _ := seededUser(t, "admin@dealerhub.test", "s3cret-pass")
	svc, store := newTestService(t, users, &fakeLimiter{})

	result, err := svc.Login(context.Background(), "admin@dealerhub.test", "s3cret-pass", "")
	require.NoError(t, err)
	assert.Len(t, store.data, 1)

	require.NoError(t, svc.Logout(context.Background(), result.Tokens.AccessToken))
	assert.Empty(t, store.data)

	// Logout is idempotent.
	require.NoError(t, svc.Logout(context.Background(), result.Tokens.AccessToken))

	_, err = svc.Refresh(context.Background(), result.Tokens.AccessToken, result.Tokens.RefreshToken)
	require.Error(t, err)
}

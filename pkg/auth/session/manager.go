package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dealerhub/dealerhub-backend/pkg/logger"
)

const refreshTokenBytes = 32

// ErrInvalidRefreshToken is returned when a refresh token does not match the stored session.
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// Store is the subset of the redis client the manager needs.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AccessSessionKey(accessID string) string
}

// Manager keeps refresh tokens server-side, keyed by the access token jti.
type Manager struct {
	store Store
	ttl   time.Duration
	logg  *logger.Logger
}

func NewManager(store Store, refreshTTL time.Duration, logg *logger.Logger) (*Manager, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if refreshTTL <= 0 {
		return nil, errors.New("refresh ttl must be positive")
	}
	return &Manager{store: store, ttl: refreshTTL, logg: logg}, nil
}

// NewAccessID mints a random identifier used as the JWT jti and session key.
func NewAccessID() (string, error) {
	return randomToken()
}

// Generate creates a session for the given access ID and returns the refresh token.
func (m *Manager) Generate(ctx context.Context, accessID string) (string, error) {
	if accessID == "" {
		return "", errors.New("access id is required")
	}
	refresh, err := randomToken()
	if err != nil {
		return "", err
	}
	key := m.store.AccessSessionKey(accessID)
	if err := m.store.Set(ctx, key, refresh, m.ttl); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}
	return refresh, nil
}

// Rotate validates the presented refresh token and replaces the session under a new access ID.
// The old session is revoked whether or not the new one gets issued.
func (m *Manager) Rotate(ctx context.Context, oldAccessID, presentedRefresh, newAccessID string) (string, error) {
	if oldAccessID == "" || newAccessID == "" {
		return "", errors.New("access ids are required")
	}

	oldKey := m.store.AccessSessionKey(oldAccessID)
	stored, err := m.store.Get(ctx, oldKey)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("loading session: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(presentedRefresh)) != 1 {
		// A mismatch on a live session means the token leaked or was replayed.
		if delErr := m.store.Del(ctx, oldKey); delErr != nil && m.logg != nil {
			m.logg.Error(ctx, "failed to revoke session after refresh mismatch", delErr)
		}
		return "", ErrInvalidRefreshToken
	}

	if err := m.store.Del(ctx, oldKey); err != nil {
		return "", fmt.Errorf("revoking old session: %w", err)
	}
	return m.Generate(ctx, newAccessID)
}

// Revoke drops the session for the given access ID. Missing sessions are not an error.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if accessID == "" {
		return nil
	}
	if err := m.store.Del(ctx, m.store.AccessSessionKey(accessID)); err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}

// HasSession reports whether a live session exists for the access ID.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if accessID == "" {
		return false, nil
	}
	_, err := m.store.Get(ctx, m.store.AccessSessionKey(accessID))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("loading session: %w", err)
	}
	return true, nil
}

func randomToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

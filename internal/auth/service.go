package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/dealerhub/dealerhub-backend/pkg/auth"
	"github.com/dealerhub/dealerhub-backend/pkg/auth/session"
	"github.com/dealerhub/dealerhub-backend/pkg/config"
	"github.com/dealerhub/dealerhub-backend/pkg/db/models"
	"github.com/dealerhub/dealerhub-backend/pkg/enums"
	pkgerrors "github.com/dealerhub/dealerhub-backend/pkg/errors"
	"github.com/dealerhub/dealerhub-backend/pkg/logger"
)

// TokenPair is the credential set returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// UserDTO is the authenticated user summary.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
}

// LoginResult bundles the tokens with the user they belong to.
type LoginResult struct {
	Tokens TokenPair `json:"tokens"`
	User   UserDTO   `json:"user"`
}

type userStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type passwordVerifier interface {
	Verify(password, encoded string) error
}

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Service exposes login, refresh, and logout.
type Service interface {
	Login(ctx context.Context, email, password, remoteIP string) (*LoginResult, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
}

type service struct {
	users     userStore
	passwords passwordVerifier
	sessions  *session.Manager
	limiter   rateLimiter
	jwtCfg    config.JWTConfig
	limitCfg  config.AuthRateLimitConfig
	logg      *logger.Logger
}

// NewService constructs the auth service.
func NewService(
	users userStore,
	passwords passwordVerifier,
	sessions *session.Manager,
	limiter rateLimiter,
	jwtCfg config.JWTConfig,
	limitCfg config.AuthRateLimitConfig,
	logg *logger.Logger,
) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user store required")
	}
	if passwords == nil {
		return nil, fmt.Errorf("password verifier required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if limiter == nil {
		return nil, fmt.Errorf("rate limiter required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		users:     users,
		passwords: passwords,
		sessions:  sessions,
		limiter:   limiter,
		jwtCfg:    jwtCfg,
		limitCfg:  limitCfg,
		logg:      logg,
	}, nil
}

var errInvalidCredentials = pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")

// Login verifies credentials under a fixed-window rate limit and opens a
// session. Lookup and verification failures share one public error.
func (s *service) Login(ctx context.Context, email, password, remoteIP string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, errInvalidCredentials
	}

	if err := s.checkRateLimits(ctx, email, remoteIP); err != nil {
		return nil, err
	}

	userRecord, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "user lookup failed")
	}
	if !userRecord.IsActive {
		return nil, errInvalidCredentials
	}
	if err := s.passwords.Verify(password, userRecord.PasswordHash); err != nil {
		return nil, errInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, userRecord.ID, userRecord.Role)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.users.TouchLastLogin(ctx, userRecord.ID, now); err != nil {
		s.logg.Error(ctx, "failed to stamp last login", err)
	}

	ctx = s.logg.WithUserID(ctx, userRecord.ID.String())
	s.logg.Info(ctx, "user logged in")

	return &LoginResult{
		Tokens: *tokens,
		User: UserDTO{
			ID:        userRecord.ID,
			Email:     userRecord.Email,
			FirstName: userRecord.FirstName,
			LastName:  userRecord.LastName,
			Role:      userRecord.Role.String(),
		},
	}, nil
}

// Refresh rotates the session named by the (possibly expired) access token.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, err := session.NewAccessID()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting session id")
	}

	newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken, newAccessID)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired or revoked")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session rotation failed")
	}

	signed, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID: claims.UserID,
		Role:   claims.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	return &TokenPair{
		AccessToken:  signed,
		RefreshToken: newRefresh,
		TokenType:    "Bearer",
		ExpiresIn:    s.jwtCfg.ExpirationMinutes * 60,
	}, nil
}

// Logout revokes the session for the presented access token. Unknown or
// already-revoked sessions succeed silently.
func (s *service) Logout(ctx context.Context, accessToken string) error {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session revocation failed")
	}
	s.logg.Info(s.logg.WithUserID(ctx, claims.UserID.String()), "user logged out")
	return nil
}

func (s *service) issueTokens(ctx context.Context, userID uuid.UUID, role enums.UserRole) (*TokenPair, error) {
	accessID, err := session.NewAccessID()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting session id")
	}

	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "opening session")
	}

	signed, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID: userID,
		Role:   role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	return &TokenPair{
		AccessToken:  signed,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    s.jwtCfg.ExpirationMinutes * 60,
	}, nil
}

func (s *service) checkRateLimits(ctx context.Context, email, remoteIP string) error {
	window := s.limitCfg.LoginWindow

	allowed, _, err := s.limiter.FixedWindowAllow(ctx, "login:email:"+email, int64(s.limitCfg.LoginEmailLimit), window)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limit check failed")
	}
	if !allowed {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts for this account")
	}

	if remoteIP != "" {
		allowed, _, err = s.limiter.FixedWindowAllow(ctx, "login:ip:"+remoteIP, int64(s.limitCfg.LoginIPLimit), window)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limit check failed")
		}
		if !allowed {
			return pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts from this address")
		}
	}
	return nil
}

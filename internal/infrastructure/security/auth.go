// Package security provides bearer token authentication
package security

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/infrastructure/config"
	"github.com/nutriplan/backend/internal/ports/outbound"
	"go.uber.org/zap"
)

// developmentSecret signs tokens when no secret is configured outside production
const developmentSecret = "nutriplan-development-secret-do-not-use"

const revokedKeyPrefix = "revoked_token:"

// Claims represents JWT claims structure. The subject is the user id.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// AuthService issues and validates access tokens. Revoked token ids are
// kept in the cache until the token would have expired anyway.
type AuthService struct {
	secret     []byte
	issuer     string
	expiration time.Duration
	revoked    outbound.CacheRepository
	now        func() time.Time
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(cfg config.AuthConfig, revoked outbound.CacheRepository, logger *zap.Logger) *AuthService {
	logger = logger.Named("auth")

	secret := cfg.JWTSecret
	if secret == "" {
		logger.Warn("No JWT secret configured, using the development secret")
		secret = developmentSecret
	}
	expiration := cfg.JWTExpiration
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}

	return &AuthService{
		secret:     []byte(secret),
		issuer:     cfg.JWTIssuer,
		expiration: expiration,
		revoked:    revoked,
		now:        time.Now,
		logger:     logger,
	}
}

// GenerateAccessToken creates a signed token for the user
func (a *AuthService) GenerateAccessToken(userID uuid.UUID, role string) (string, error) {
	now := a.now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.expiration)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken validates and parses a JWT token
func (a *AuthService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if _, err := claims.UserID(); err != nil {
		return nil, fmt.Errorf("invalid subject: %w", err)
	}

	if a.revoked != nil && claims.ID != "" {
		revoked, err := a.revoked.Exists(ctx, revokedKeyPrefix+claims.ID)
		if err != nil {
			a.logger.Warn("Failed to check token revocation", zap.Error(err))
		} else if revoked {
			return nil, fmt.Errorf("token has been revoked")
		}
	}

	return claims, nil
}

// RevokeToken blocks the token until it expires
func (a *AuthService) RevokeToken(ctx context.Context, claims *Claims) error {
	if a.revoked == nil || claims.ID == "" {
		return nil
	}

	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if remaining := claims.ExpiresAt.Sub(a.now()); remaining > 0 {
			ttl = remaining
		}
	}
	return a.revoked.Set(ctx, revokedKeyPrefix+claims.ID, []byte("revoked"), ttl)
}

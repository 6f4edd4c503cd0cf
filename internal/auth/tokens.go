// Package auth signs and verifies the HS256 tokens issued by the API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tallymatic/tallymatic-api/config"
	"github.com/tallymatic/tallymatic-api/types"
)

var (
	// ErrInvalidToken covers malformed, expired, wrongly signed and wrong-purpose tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingSecret is returned when the service was built without a signing key.
	ErrMissingSecret = errors.New("missing signing secret")
)

const issuer = "tallymatic-api"

// Claims are the registered claims plus the token purpose.
type Claims struct {
	jwt.RegisteredClaims
	Type types.TokenType `json:"type"`
}

// UserID returns the subject as a uuid.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// IssuedToken is a signed token together with its id and expiry.
type IssuedToken struct {
	Token   string
	ID      string
	Expires time.Time
}

// TokenService issues and verifies access, refresh, reset-password and
// verify-email tokens.
type TokenService struct {
	secret []byte
	ttls   map[types.TokenType]time.Duration
	now    func() time.Time
}

func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{
		secret: []byte(cfg.Secret),
		ttls: map[types.TokenType]time.Duration{
			types.TokenTypeAccess:        cfg.AccessTTL(),
			types.TokenTypeRefresh:       cfg.RefreshTTL(),
			types.TokenTypeResetPassword: cfg.ResetPasswordTTL(),
			types.TokenTypeVerifyEmail:   cfg.VerifyEmailTTL(),
		},
		now: time.Now,
	}
}

// TTL returns the lifetime of tokens of the given type.
func (s *TokenService) TTL(tokenType types.TokenType) time.Duration {
	return s.ttls[tokenType]
}

// Generate signs a new token of tokenType for userID.
func (s *TokenService) Generate(userID uuid.UUID, tokenType types.TokenType) (*IssuedToken, error) {
	if len(s.secret) == 0 {
		return nil, ErrMissingSecret
	}
	ttl, ok := s.ttls[tokenType]
	if !ok || ttl <= 0 {
		return nil, fmt.Errorf("no lifetime configured for %s tokens", tokenType)
	}

	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Type: tokenType,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return &IssuedToken{Token: signed, ID: claims.ID, Expires: claims.ExpiresAt.Time}, nil
}

// Verify parses tokenString and checks signature, expiry and purpose.
func (s *TokenService) Verify(tokenString string, tokenType types.TokenType) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, ErrMissingSecret
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Type != tokenType {
		return nil, fmt.Errorf("%w: expected %s token, got %s", ErrInvalidToken, tokenType, claims.Type)
	}
	if _, err := claims.UserID(); err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return claims, nil
}

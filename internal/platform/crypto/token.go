package crypto

import (
	"errors"
	"fmt"
	"time"

	"github.com/rahulkpr2510/droply/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token fails signature or claims checks.
var ErrInvalidToken = errors.New("invalid token")

// TokenGenerator defines the interface for creating and verifying JWTs
type TokenGenerator interface {
	NewPair(user *domain.User) (accessToken, refreshToken string, err error)
	Verify(token string) (*Claims, error)
}

// JWTGenerator is a concrete implementation of TokenGenerator using JWT
type JWTGenerator struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewJWTGenerator creates a new JWTGenerator
// It requires the secrets and time-to-live (TTL) durations
func NewJWTGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTGenerator {
	return &JWTGenerator{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// Claims represents the standard JWT claims for the application. UserID is
// the hex form of the user's ObjectID and is the caller identity every
// authorization check compares against.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// NewPair generates a new access and refresh token for the given user
func (g *JWTGenerator) NewPair(user *domain.User) (string, string, error) {
	// Create Access Token
	accessExp := time.Now().Add(g.accessTTL)
	accessClaims := &Claims{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(accessExp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	signedAccessToken, err := accessToken.SignedString(g.accessSecret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}

	// Create Refresh Token
	refreshExp := time.Now().Add(g.refreshTTL)
	refreshClaims := &Claims{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(refreshExp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	signedRefreshToken, err := refreshToken.SignedString(g.refreshSecret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return signedAccessToken, signedRefreshToken, nil
}

// Verify parses and validates an access token, returning its claims.
func (g *JWTGenerator) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return g.accessSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

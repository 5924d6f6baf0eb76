package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "promptforge"

// ErrNoSecret is returned when a TokenService has no signing key.
var ErrNoSecret = errors.New("jwt secret not configured")

// TokenService issues and validates HS256 bearer tokens.
type TokenService struct {
	secretKey           []byte
	AccessTokenDuration time.Duration
}

// JWTClaims represents the claims in our JWT tokens. The subject is the
// owner id used to scope library records.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// NewTokenService creates a new token service
func NewTokenService(secretKey string) *TokenService {
	return &TokenService{
		secretKey:           []byte(secretKey),
		AccessTokenDuration: 24 * time.Hour,
	}
}

// IssueToken signs a token for ownerID.
func (ts *TokenService) IssueToken(ownerID, email string) (string, time.Time, error) {
	if len(ts.secretKey) == 0 {
		return "", time.Time{}, ErrNoSecret
	}
	if strings.TrimSpace(ownerID) == "" {
		return "", time.Time{}, fmt.Errorf("owner id is required")
	}

	now := time.Now()
	expiresAt := now.Add(ts.AccessTokenDuration)
	claims := &JWTClaims{
		UserID: ownerID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   ownerID,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken parses tokenString and returns its claims.
func (ts *TokenService) ValidateToken(tokenString string) (*JWTClaims, error) {
	if len(ts.secretKey) == 0 {
		return nil, ErrNoSecret
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.secretKey, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return claims, nil
}

package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid token")

const (
	jwtClaimUserID = "id"
	jwtClaimEmail  = "email"
)

// TokenClaims is the identity carried by an access token.
type TokenClaims struct {
	UserID    int
	Email     string
	ExpiresAt time.Time
}

// TokenManager signs and verifies HS256 access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

func (m *TokenManager) Generate(userID int, email string) (string, error) {
	now := m.now()
	claims := jwt.MapClaims{
		jwtClaimUserID: userID,
		jwtClaimEmail:  email,
		"iat":          now.Unix(),
		"exp":          now.Add(m.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature, algorithm and expiry of tokenString.
func (m *TokenManager) Parse(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	idFloat, ok := claims[jwtClaimUserID].(float64)
	if !ok || idFloat != float64(int(idFloat)) || idFloat <= 0 {
		return nil, ErrInvalidToken
	}
	email, _ := claims[jwtClaimEmail].(string)

	result := &TokenClaims{UserID: int(idFloat), Email: email}
	if exp, ok := claims["exp"].(float64); ok {
		result.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return result, nil
}

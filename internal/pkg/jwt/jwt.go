package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

const issuer = "vpcs"

// Session kinds carried in access tokens
const (
	KindUser = "user" // approved user signed in through OAuth
	KindCode = "code" // legacy role-code login, no user row behind it
)

// Claims represents the access token claims
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Kind   string `json:"kind"`
	jwt.RegisteredClaims
}

// RefreshClaims represents the refresh token claims
type RefreshClaims struct {
	UserID  uint   `json:"user_id"`
	TokenID string `json:"token_id"` // Unique ID for this refresh token
	jwt.RegisteredClaims
}

// StateClaims binds an OAuth round trip to the browser that started it
type StateClaims struct {
	Nonce    string `json:"nonce"`
	Redirect string `json:"redirect,omitempty"`
	jwt.RegisteredClaims
}

// GenerateAccessToken generates a new access token for an approved user
func GenerateAccessToken(userID uint, email, role, secret string, expiryMinutes int) (string, error) {
	return sign(Claims{
		UserID:           userID,
		Email:            email,
		Role:             role,
		Kind:             KindUser,
		RegisteredClaims: registered(email, time.Duration(expiryMinutes)*time.Minute),
	}, secret)
}

// GenerateCodeToken generates an access token for a legacy role-code session.
// The subject is the role itself.
func GenerateCodeToken(role, secret string, expiryMinutes int) (string, error) {
	return sign(Claims{
		Role:             role,
		Kind:             KindCode,
		RegisteredClaims: registered(role, time.Duration(expiryMinutes)*time.Minute),
	}, secret)
}

// GenerateRefreshToken generates a new refresh token
func GenerateRefreshToken(userID uint, tokenID, secret string, expiryDays int) (string, error) {
	return sign(RefreshClaims{
		UserID:           userID,
		TokenID:          tokenID,
		RegisteredClaims: registered("", time.Duration(expiryDays)*24*time.Hour),
	}, secret)
}

// GenerateStateToken signs the OAuth state parameter
func GenerateStateToken(nonce, redirect, secret string, ttl time.Duration) (string, error) {
	return sign(StateClaims{
		Nonce:            nonce,
		Redirect:         redirect,
		RegisteredClaims: registered("oauth-state", ttl),
	}, secret)
}

// ValidateAccessToken validates an access token and returns claims
func ValidateAccessToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	if err := parse(tokenString, secret, claims); err != nil {
		return nil, err
	}
	if claims.Kind != KindUser && claims.Kind != KindCode {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ValidateRefreshToken validates a refresh token and returns claims
func ValidateRefreshToken(tokenString, secret string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := parse(tokenString, secret, claims); err != nil {
		return nil, err
	}
	if claims.TokenID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ValidateStateToken validates the OAuth state parameter
func ValidateStateToken(tokenString, secret string) (*StateClaims, error) {
	claims := &StateClaims{}
	if err := parse(tokenString, secret, claims); err != nil {
		return nil, err
	}
	if claims.Nonce == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// GetExpiryTime returns expiry time for refresh token
func GetExpiryTime(days int) time.Time {
	return time.Now().Add(time.Duration(days) * 24 * time.Hour)
}

func registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    issuer,
		Subject:   subject,
	}
}

func sign(claims jwt.Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parse(tokenString, secret string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}

package utils

import (
	"errors"
	"fmt"
	"time"

	"lustroom-portal/infrastructure/logger"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

func GetCurrentTime() time.Time {
	return time.Now().UTC()
}

// SessionClaims is carried in the signed session cookie.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.StandardClaims
}

func NewSessionID() string {
	return uuid.NewString()
}

func GenerateToken(payload map[string]interface{}, secretKey string) (string, error) {
	var claims jwt.MapClaims = payload
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while generate token")
		return "", err
	}
	return tokenString, nil
}

// GenerateSessionToken signs a session id for use as a cookie value.
func GenerateSessionToken(sessionID, secretKey string, ttl time.Duration) (string, error) {
	if secretKey == "" {
		return "", errors.New("secret key is empty")
	}
	now := GetCurrentTime()
	return GenerateToken(map[string]interface{}{
		"sid": sessionID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}, secretKey)
}

// ParseSessionToken verifies a session cookie value and returns its session id.
func ParseSessionToken(tokenString, secretKey string) (string, error) {
	if secretKey == "" {
		return "", errors.New("secret key is empty")
	}
	var claims SessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.SessionID == "" {
		return "", errors.New("invalid session token")
	}
	return claims.SessionID, nil
}

// internal/auth/jwt.go
package auth

import (
	"card-optimizer/internal/config"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidAPIKey = errors.New("invalid api key")

type TokenService struct {
	secretKey []byte
	apiKey    []byte
	expiresIn time.Duration
}

func NewTokenService(cfg config.Config) *TokenService {
	return &TokenService{
		secretKey: []byte(cfg.JWTSecret),
		apiKey:    []byte(cfg.APIKey),
		expiresIn: cfg.JWTExpiresIn,
	}
}

// Login обменивает API-ключ на токен. client: произвольная метка вызывающего (web, bot, cli).
func (s *TokenService) Login(apiKey, client string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(apiKey), s.apiKey) != 1 {
		return "", ErrInvalidAPIKey
	}
	return s.GenerateToken(client)
}

// Генерация токена
func (s *TokenService) GenerateToken(client string) (string, error) {
	client = strings.TrimSpace(client)
	if client == "" {
		client = "api"
	}
	expTime := time.Now().Add(s.expiresIn)
	claims := jwt.RegisteredClaims{
		Subject:   client,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expTime),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(s.secretKey)
	if err == nil {
		slog.Info("JWT generated", "client", client, "expires_at", expTime.Format("2006-01-02 15:04:05"))
	}
	return tokenStr, err
}

// Парсинг токена, возвращает метку клиента
func (s *TokenService) ParseToken(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secretKey, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid token claims")
	}
	slog.Debug("JWT parsed successfully", "client", claims.Subject)
	return claims.Subject, nil
}

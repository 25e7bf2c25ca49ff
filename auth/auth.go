package auth

import (
	"time"

	"voltshop/config"
	"voltshop/middleware"
	"voltshop/models"

	"github.com/golang-jwt/jwt/v5"
)

const accessTokenTTL = 24 * time.Hour

// Service mints tokens and handles login/registration. Built once in
// main from config.
type Service struct {
	secret []byte
}

func NewService(cfg config.Config) *Service {
	return &Service{secret: cfg.JWTSecret}
}

func (s *Service) generateAccessToken(user models.User) (string, error) {
	claims := middleware.Claims{
		ID:   user.ID.Hex(),
		UID:  user.UID,
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// generateSessionToken mints an anonymous token carrying only a
// session id, used to scope guest carts.
func (s *Service) generateSessionToken(sessionID string) (string, error) {
	claims := middleware.Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

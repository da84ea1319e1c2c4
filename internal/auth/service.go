// Package auth gates the API behind the static admin directory: an access
// code checked by exact equality buys a short-lived session token.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/edu-agent/backend/internal/storage/datastore"
	"github.com/edu-agent/backend/internal/storage/models"
	"github.com/edu-agent/backend/pkg/logger"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Claims struct {
	AdminID   string `json:"admin_id"`
	AdminName string `json:"admin_name"`
	jwt.RegisteredClaims
}

type Service struct {
	store    *datastore.Store
	secret   []byte
	tokenTTL time.Duration
}

func NewService(store *datastore.Store, secret string, ttlMins int) *Service {
	if ttlMins <= 0 {
		ttlMins = 480
	}
	return &Service{
		store:    store,
		secret:   []byte(secret),
		tokenTTL: time.Duration(ttlMins) * time.Minute,
	}
}

// Login matches the access code against the directory entry and issues a
// session token. Unknown admins and wrong codes are indistinguishable to the
// caller.
func (s *Service) Login(adminID, accessCode string) (string, *models.AdminInfo, error) {
	profile, ok := s.store.Profile(adminID)
	if !ok || profile.AccessCode == "" || profile.AccessCode != accessCode {
		logger.Warn("Login rejected", zap.String("admin_id", adminID))
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := Claims{
		AdminID:   profile.AdminID,
		AdminName: profile.AdminName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	logger.Info("Admin logged in", zap.String("admin_id", adminID))
	return token, s.store.AdminInfo(adminID), nil
}

// ValidateToken returns the admin ID carried by a valid session token.
func (s *Service) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", ErrInvalidCredentials
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.AdminID == "" {
		return "", ErrInvalidCredentials
	}
	return claims.AdminID, nil
}

// TokenTTL is exposed for the login response's expires_in field.
func (s *Service) TokenTTL() time.Duration {
	return s.tokenTTL
}

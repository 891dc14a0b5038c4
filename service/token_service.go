package service

import (
	"go-content-api/common"
	"go-content-api/logger"
	"go-content-api/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RefreshTokenTTL is fixed: refresh tokens are valid for 7 days from
// issuance and are never extended.
const RefreshTokenTTL = 7 * 24 * time.Hour

// TokenService signs and verifies JWTs with a process-wide secret loaded
// at startup. It is stateless; the clock is injectable for tests.
type TokenService struct {
	secretKey []byte
	now       func() time.Time
}

func NewTokenService(secretKey string, now func() time.Time) *TokenService {
	if now == nil {
		now = time.Now
	}
	return &TokenService{secretKey: []byte(secretKey), now: now}
}

// Sign creates a token carrying {uid, email} and an expiry claim.
func (s *TokenService) Sign(uid, email string, ttl time.Duration) (string, error) {
	issuedAt := s.now()
	claims := &model.AuthClaims{
		UID:   uid,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		logger.Log.WithError(err).WithField("email", email).Error("Failed to sign JWT")
		return "", err
	}
	return tokenString, nil
}

// Verify parses a token and returns its claims. A bad signature and an
// expired token are indistinguishable to the caller: both surface as
// ErrInvalidToken so nothing leaks about why verification failed.
func (s *TokenService) Verify(tokenString string) (*model.AuthClaims, error) {
	claims := &model.AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

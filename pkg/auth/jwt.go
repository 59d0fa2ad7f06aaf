package auth

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/yourusername/collegelink-api/internal/domain/repository"
	apperrors "github.com/yourusername/collegelink-api/internal/pkg/errors"
)

// JWTCustomClaims carries the account binding inside the session token.
type JWTCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTService issues and validates session credentials. Each token gets
// a unique JTI so individual sessions can be revoked via the denylist.
type JWTService struct {
	secret   []byte
	expiry   time.Duration
	denylist repository.CacheRepository
}

// NewJWTService creates a new JWT service. The denylist is optional;
// without it revoked tokens stay valid until natural expiry.
func NewJWTService(secret string, expirationHrs int, denylist repository.CacheRepository) (*JWTService, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is required")
	}
	if expirationHrs <= 0 {
		expirationHrs = 24
	}
	return &JWTService{
		secret:   []byte(secret),
		expiry:   time.Duration(expirationHrs) * time.Hour,
		denylist: denylist,
	}, nil
}

// IssueToken creates a signed session credential bound to an account id.
func (s *JWTService) IssueToken(userID, email string) (string, error) {
	now := time.Now()
	claims := JWTCustomClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a session credential and returns its claims.
func (s *JWTService) ParseToken(tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, apperrors.ErrUnauthorized
	}

	if s.denylist != nil && claims.ID != "" {
		revoked, err := s.denylist.Exists(denylistKey(claims.ID))
		if err != nil {
			// Fail-open on denylist errors: availability over strict revocation.
			log.Printf("[JWTService] denylist check failed for jti=%s: %v", claims.ID, err)
		} else if revoked {
			return nil, apperrors.ErrUnauthorized
		}
	}

	return claims, nil
}

// RevokeToken puts the token's JTI on the denylist for the remainder of
// its lifetime. Revoking an already-expired token is a no-op.
func (s *JWTService) RevokeToken(tokenString string) error {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		if errors.Is(err, apperrors.ErrExpiredToken) {
			return nil
		}
		return err
	}
	if s.denylist == nil {
		return fmt.Errorf("token revocation requires a denylist store")
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Set(denylistKey(claims.ID), "1", ttl); err != nil {
		return fmt.Errorf("failed to denylist token: %w", err)
	}
	return nil
}

func denylistKey(jti string) string {
	return "jwt:denied:" + jti
}

// Package auth validates bearer tokens issued by the RouteWise auth
// frontend. This service does not mint tokens; it only needs to know who is
// calling and whether they act as a passenger or a driver.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/binarygaragedev/RouteWise-sub000/internal/platform/middleware"
	dErrors "github.com/binarygaragedev/RouteWise-sub000/pkg/domain-errors"
)

// Claims represents the JWT claims on RouteWise access tokens.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService validates HMAC-signed access tokens.
type JWTService struct {
	signingKey []byte
}

func NewJWTService(signingKey string) *JWTService {
	return &JWTService{signingKey: []byte(signingKey)}
}

// ValidateToken implements middleware.JWTValidator.
func (s *JWTService) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.Role != middleware.RolePassenger && claims.Role != middleware.RoleDriver {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "unknown role claim")
	}

	return &middleware.JWTClaims{Subject: claims.Subject, Role: claims.Role}, nil
}

// GenerateToken mints a short-lived token. Production traffic carries tokens
// from the auth frontend; this is used by local tooling and the e2e tests.
func (s *JWTService) GenerateToken(subject uuid.UUID, role string, expiresIn time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

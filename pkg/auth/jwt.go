package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/clinicalos/clinic-api/internal/model"
	apperrors "github.com/clinicalos/clinic-api/pkg/errors"
)

// Claims is the token payload. The subject carries the username; tenant and
// roles are embedded so a Principal can be rebuilt without an extra lookup,
// though resolution always re-reads the live user row for is_active.
type Claims struct {
	TenantID uuid.UUID     `json:"tenant_id"`
	Roles    model.RoleSet `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

type JWTService interface {
	GenerateToken(user *model.User) (string, error)
	VerifyToken(token string) (*Claims, error)
}

type jwtService struct {
	secret []byte
	expiry time.Duration
}

// NewJWTService builds a token service around a single signing secret.
// The secret is fixed for the process lifetime; rotating it invalidates
// every outstanding token and requires a restart.
func NewJWTService(secret string, expiry time.Duration) JWTService {
	if expiry == 0 {
		expiry = 24 * time.Hour
	}
	return &jwtService{
		secret: []byte(secret),
		expiry: expiry,
	}
}

func (s *jwtService) GenerateToken(user *model.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		TenantID: user.TenantID,
		Roles:    user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyToken checks signature and expiry. Forged, expired and malformed
// tokens all yield the same invalid-credentials error.
func (s *jwtService) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, apperrors.InvalidCredentials(err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, apperrors.InvalidCredentials(nil)
	}

	return claims, nil
}

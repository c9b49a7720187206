package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jimlawless/whereami"

	"github.com/DRSN-tech/medstore-backend/internal/cfg"
	"github.com/DRSN-tech/medstore-backend/internal/domain"
	"github.com/DRSN-tech/medstore-backend/internal/usecase"
	"github.com/DRSN-tech/medstore-backend/pkg/e"
)

// JWTManager выпускает и проверяет HS256-токены доступа.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTManager(cfg *cfg.AuthCfg) *JWTManager {
	return &JWTManager{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
	}
}

type accessClaims struct {
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (m *JWTManager) Issue(userID int64, role domain.Role) (string, error) {
	now := time.Now()
	claims := accessClaims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return signed, nil
}

// Verify проверяет подпись и срок действия токена.
// Любая проблема с токеном сводится к e.ErrInvalidToken.
func (m *JWTManager) Verify(tokenString string) (*usecase.TokenClaims, error) {
	var claims accessClaims

	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrInvalidToken)
	}

	role, ok := domain.ParseRole(claims.Role)
	if !ok || claims.UserID <= 0 {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrInvalidToken)
	}

	return &usecase.TokenClaims{
		UserID: claims.UserID,
		Role:   role,
	}, nil
}

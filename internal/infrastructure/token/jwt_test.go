package token

import (
	"testing"
	"time"

	"github.com/DRSN-tech/medstore-backend/internal/cfg"
	"github.com/DRSN-tech/medstore-backend/internal/domain"
	"github.com/DRSN-tech/medstore-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(secret string, ttl time.Duration) *JWTManager {
	return NewJWTManager(&cfg.AuthCfg{JWTSecret: secret, TokenTTL: ttl})
}

func TestIssueAndVerify(t *testing.T) {
	m := newManager("test-secret", time.Hour)

	token, err := m.Issue(42, domain.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestVerify_Invalid(t *testing.T) {
	m := newManager("test-secret", time.Hour)

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Verify("not.a.token")
		assert.ErrorIs(t, err, e.ErrInvalidToken)
	})

	t.Run("tampered payload", func(t *testing.T) {
		token, err := m.Issue(42, domain.RoleUser)
		require.NoError(t, err)

		_, err = m.Verify(token + "x")
		assert.ErrorIs(t, err, e.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := newManager("another-secret", time.Hour)
		token, err := other.Issue(42, domain.RoleUser)
		require.NoError(t, err)

		_, err = m.Verify(token)
		assert.ErrorIs(t, err, e.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		short := newManager("test-secret", -time.Minute)
		token, err := short.Issue(42, domain.RoleUser)
		require.NoError(t, err)

		_, err = m.Verify(token)
		assert.ErrorIs(t, err, e.ErrInvalidToken)
	})

	t.Run("unknown role", func(t *testing.T) {
		token, err := m.Issue(42, domain.Role("owner"))
		require.NoError(t, err)

		_, err = m.Verify(token)
		assert.ErrorIs(t, err, e.ErrInvalidToken)
	})

	t.Run("non-positive user id", func(t *testing.T) {
		token, err := m.Issue(0, domain.RoleUser)
		require.NoError(t, err)

		_, err = m.Verify(token)
		assert.ErrorIs(t, err, e.ErrInvalidToken)
	})
}

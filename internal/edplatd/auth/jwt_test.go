package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	werrors "github.com/khaledhosny129/Educational-platform/internal/edplatd/errors"
)

const testKey = "test-signing-key"

func TestJWTVerifier(t *testing.T) {
	ctx := context.Background()
	v := NewJWTVerifier(testKey)

	t.Run("admin", func(t *testing.T) {
		token, err := IssueToken(testKey, "admin-1", RoleAdmin, time.Hour)
		require.NoError(t, err)

		p, err := v.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, Principal{UserID: "admin-1", Role: RoleAdmin}, p)
		assert.True(t, p.IsAdmin())
	})

	t.Run("role defaults to user", func(t *testing.T) {
		token, err := IssueToken(testKey, "u1", "", time.Hour)
		require.NoError(t, err)

		p, err := v.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, RoleUser, p.Role)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := v.Verify(ctx, "")
		assert.ErrorIs(t, err, ErrMissingToken)
		assert.True(t, werrors.IsUnauthorized(err))
	})

	t.Run("wrong key", func(t *testing.T) {
		token, err := IssueToken("other-key", "u1", RoleUser, time.Hour)
		require.NoError(t, err)

		_, err = v.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := IssueToken(testKey, "u1", RoleUser, -time.Minute)
		require.NoError(t, err)

		_, err = v.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown role", func(t *testing.T) {
		token, err := IssueToken(testKey, "u1", Role("root"), time.Hour)
		require.NoError(t, err)

		_, err = v.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		claims := Claims{Role: RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = v.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFrom(context.Background())
	assert.False(t, ok)

	ctx := WithPrincipal(context.Background(), Principal{UserID: "u1", Role: RoleUser})
	p, ok := PrincipalFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", p.UserID)
}

// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

/*
TestTokenService_RoundTrip verifies an issued token verifies with the same claims.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service, err := NewTokenService([]byte(testSecret), "innkeep.test")
	require.NoError(t, err)

	token, issued, err := service.Issue("user-1", "manager", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, issued.ID)

	claims, err := service.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
}

/*
TestTokenService_Rejects covers forged, expired and foreign-issuer tokens.
*/
func TestTokenService_Rejects(t *testing.T) {
	service, err := NewTokenService([]byte(testSecret), "innkeep.test")
	require.NoError(t, err)

	t.Run("other_secret", func(t *testing.T) {
		other, err := NewTokenService([]byte(strings.Repeat("z", 32)), "innkeep.test")
		require.NoError(t, err)

		token, _, err := other.Issue("user-1", "admin", time.Hour)
		require.NoError(t, err)

		_, err = service.Verify(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		past, err := NewTokenService([]byte(testSecret), "innkeep.test")
		require.NoError(t, err)
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

		token, _, err := past.Issue("user-1", "admin", time.Hour)
		require.NoError(t, err)

		_, err = service.Verify(token)
		assert.Error(t, err)
	})

	t.Run("other_issuer", func(t *testing.T) {
		other, err := NewTokenService([]byte(testSecret), "elsewhere")
		require.NoError(t, err)

		token, _, err := other.Issue("user-1", "admin", time.Hour)
		require.NoError(t, err)

		_, err = service.Verify(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := service.Verify("not-a-token")
		assert.Error(t, err)
	})
}

/*
TestNewTokenService_WeakSecret rejects short secrets.
*/
func TestNewTokenService_WeakSecret(t *testing.T) {
	_, err := NewTokenService([]byte("short"), "innkeep.test")
	assert.ErrorIs(t, err, ErrWeakSecret)
}

/*
TestPasswordHash verifies bcrypt round trip at the configured cost.
*/
func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$2a$12$"))
	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("wrong horse", hash))
}

/*
TestUserRole covers validity and hierarchy.
*/
func TestUserRole(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleManager.Valid())
	assert.False(t, UserRole("member").Valid())

	assert.True(t, RoleAdmin.AtLeast(RoleManager))
	assert.False(t, RoleManager.AtLeast(RoleAdmin))
	assert.False(t, UserRole("").AtLeast(UserRole("")))
}

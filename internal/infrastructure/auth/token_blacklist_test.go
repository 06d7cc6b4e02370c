package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_AddToBlacklist(t *testing.T) {
	bl := NewInMemoryTokenBlacklist()
	ctx := context.Background()
	jti := "test-jti-123"

	isBlacklisted, err := bl.IsBlacklisted(ctx, jti)
	require.NoError(t, err)
	assert.False(t, isBlacklisted)

	err = bl.AddToBlacklist(ctx, jti, 1*time.Hour)
	require.NoError(t, err)

	isBlacklisted, err = bl.IsBlacklisted(ctx, jti)
	require.NoError(t, err)
	assert.True(t, isBlacklisted)
}

func TestInMemoryTokenBlacklist_ExpirationCleanup(t *testing.T) {
	bl := NewInMemoryTokenBlacklist()
	ctx := context.Background()
	jti := "short-lived-jti"

	err := bl.AddToBlacklist(ctx, jti, 10*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	isBlacklisted, err := bl.IsBlacklisted(ctx, jti)
	require.NoError(t, err)
	assert.False(t, isBlacklisted)
}

func TestInMemoryTokenBlacklist_IgnoresExpiredTokens(t *testing.T) {
	bl := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, bl.AddToBlacklist(ctx, "expired", 0))

	isBlacklisted, err := bl.IsBlacklisted(ctx, "expired")
	require.NoError(t, err)
	assert.False(t, isBlacklisted)
}

func TestInMemoryTokenBlacklist_MultipleTokens(t *testing.T) {
	bl := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	jtis := []string{"jti-1", "jti-2", "jti-3"}
	for _, jti := range jtis[:2] {
		require.NoError(t, bl.AddToBlacklist(ctx, jti, 1*time.Hour))
	}

	for i, jti := range jtis {
		isBlacklisted, err := bl.IsBlacklisted(ctx, jti)
		require.NoError(t, err)
		assert.Equal(t, i < 2, isBlacklisted, jti)
	}
}

func TestRedisTokenBlacklist_DefaultPrefix(t *testing.T) {
	bl := NewRedisTokenBlacklist(nil, "")
	assert.Equal(t, "pos:token:blacklist:abc", bl.jtiKey("abc"))
}

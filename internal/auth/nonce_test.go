package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWallet = "0x1111111111111111111111111111111111111111"

func TestMemoryNonceStore_SingleUse(t *testing.T) {
	store := NewMemoryNonceStore(time.Minute)
	ctx := context.Background()

	challenge, ttl, err := store.Issue(ctx, testWallet)
	require.NoError(t, err)
	assert.NotEmpty(t, challenge)
	assert.Equal(t, time.Minute, ttl)

	assert.True(t, store.Consume(ctx, testWallet, challenge))
	assert.False(t, store.Consume(ctx, testWallet, challenge), "a challenge must not be consumable twice")
}

func TestMemoryNonceStore_WrongChallenge(t *testing.T) {
	store := NewMemoryNonceStore(time.Minute)
	ctx := context.Background()

	challenge, _, err := store.Issue(ctx, testWallet)
	require.NoError(t, err)

	assert.False(t, store.Consume(ctx, testWallet, "not-the-challenge"))
	assert.False(t, store.Consume(ctx, testWallet, ""))
	// The issued challenge is still intact after failed attempts
	assert.True(t, store.Consume(ctx, testWallet, challenge))
}

func TestMemoryNonceStore_UnknownAddress(t *testing.T) {
	store := NewMemoryNonceStore(time.Minute)
	assert.False(t, store.Consume(context.Background(), testWallet, "anything"))
}

func TestMemoryNonceStore_Expiry(t *testing.T) {
	store := NewMemoryNonceStore(10 * time.Millisecond)
	ctx := context.Background()

	challenge, _, err := store.Issue(ctx, testWallet)
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)
	assert.False(t, store.Consume(ctx, testWallet, challenge))
}

func TestMemoryNonceStore_ReissueOverwrites(t *testing.T) {
	store := NewMemoryNonceStore(time.Minute)
	ctx := context.Background()

	first, _, err := store.Issue(ctx, testWallet)
	require.NoError(t, err)
	second, _, err := store.Issue(ctx, testWallet)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	assert.False(t, store.Consume(ctx, testWallet, first), "reissue must invalidate the previous challenge")
	assert.True(t, store.Consume(ctx, testWallet, second))
}

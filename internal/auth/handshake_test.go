package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zaki4gg/asiq-tix/pkg/logger"
)

func newTestHandshake(t *testing.T) *Handshake {
	t.Helper()
	log, err := logger.NewLogger(true)
	require.NoError(t, err)
	return NewHandshake(NewMemoryNonceStore(time.Minute), NewSessionIssuer("test-secret", time.Hour), log)
}

func TestHandshake_FullFlow(t *testing.T) {
	h := newTestHandshake(t)
	ctx := context.Background()
	key, address := newTestKey(t)

	nonce, _, err := h.IssueNonce(ctx, address)
	require.NoError(t, err)

	message := challengeMessage(address, nonce)
	signature := signMessage(t, key, message)

	verified, token, err := h.VerifySignature(ctx, message, signature)
	require.NoError(t, err)
	assert.Equal(t, address, verified)
	require.NotEmpty(t, token)

	bound, err := h.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, address, bound)
}

func TestHandshake_ReplayRejected(t *testing.T) {
	h := newTestHandshake(t)
	ctx := context.Background()
	key, address := newTestKey(t)

	nonce, _, err := h.IssueNonce(ctx, address)
	require.NoError(t, err)

	message := challengeMessage(address, nonce)
	signature := signMessage(t, key, message)

	_, _, err = h.VerifySignature(ctx, message, signature)
	require.NoError(t, err)

	// The exact same message and signature must never verify twice
	_, _, err = h.VerifySignature(ctx, message, signature)
	assert.ErrorIs(t, err, ErrNonceInvalid)
}

func TestHandshake_SignerMismatch(t *testing.T) {
	h := newTestHandshake(t)
	ctx := context.Background()
	attackerKey, _ := newTestKey(t)
	_, victim := newTestKey(t)

	nonce, _, err := h.IssueNonce(ctx, victim)
	require.NoError(t, err)

	// Attacker signs a message claiming the victim's address
	message := challengeMessage(victim, nonce)
	signature := signMessage(t, attackerKey, message)

	_, _, err = h.VerifySignature(ctx, message, signature)
	assert.ErrorIs(t, err, ErrAddressMismatch)

	// The failed attempt burned the nonce; the victim has to start over
	realSig := signMessage(t, attackerKey, message)
	_, _, err = h.VerifySignature(ctx, message, realSig)
	assert.ErrorIs(t, err, ErrNonceInvalid)
}

func TestHandshake_UnissuedNonce(t *testing.T) {
	h := newTestHandshake(t)
	key, address := newTestKey(t)

	message := challengeMessage(address, "bm90aXNzdWVk")
	signature := signMessage(t, key, message)

	_, _, err := h.VerifySignature(context.Background(), message, signature)
	assert.ErrorIs(t, err, ErrNonceInvalid)
}

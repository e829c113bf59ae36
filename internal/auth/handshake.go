package auth

import (
	"context"
	"time"

	"github.com/Zaki4gg/asiq-tix/pkg/logger"
	"github.com/Zaki4gg/asiq-tix/pkg/validation"
)

// Handshake drives the wallet login flow: a client fetches a nonce for its
// address, signs a message embedding both, and exchanges the signature for
// a session token.
type Handshake struct {
	logger *logger.Logger
	nonces NonceStore
	issuer *SessionIssuer
}

func NewHandshake(nonces NonceStore, issuer *SessionIssuer, logger *logger.Logger) *Handshake {
	return &Handshake{logger: logger, nonces: nonces, issuer: issuer}
}

// IssueNonce creates a fresh challenge for the given (already validated)
// wallet address, replacing any outstanding one.
func (h *Handshake) IssueNonce(ctx context.Context, address string) (string, time.Duration, error) {
	return h.nonces.Issue(ctx, validation.NormalizeAddress(address))
}

// VerifySignature checks the signed challenge message and mints a session
// token on success. The nonce is consumed before signature recovery so a
// replayed message can never verify twice, whatever the outcome.
func (h *Handshake) VerifySignature(ctx context.Context, message, signature string) (address, token string, err error) {
	claimed, nonce, err := ParseChallengeMessage(message)
	if err != nil {
		return "", "", err
	}

	if !h.nonces.Consume(ctx, claimed, nonce) {
		return "", "", ErrNonceInvalid
	}

	recovered, err := RecoverAddress(message, signature)
	if err != nil {
		return "", "", err
	}
	if !validation.SameAddress(recovered, claimed) {
		return "", "", ErrAddressMismatch
	}

	token, err = h.issuer.Mint(claimed)
	if err != nil {
		return "", "", err
	}

	h.logger.Debug("wallet login verified", " address ", claimed)
	return claimed, token, nil
}

// VerifyToken validates a session token and returns the bound address.
func (h *Handshake) VerifyToken(token string) (string, error) {
	claims, err := h.issuer.Verify(token)
	if err != nil {
		return "", err
	}
	return validation.NormalizeAddress(claims.Address()), nil
}

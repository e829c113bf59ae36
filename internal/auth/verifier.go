package auth

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	addressPattern = regexp.MustCompile(`0x[0-9a-fA-F]{40}`)
	noncePattern   = regexp.MustCompile(`(?mi)^\s*Nonce:\s*([A-Za-z0-9_-]{6,})`)
)

// ParseChallengeMessage extracts the claimed wallet address and the nonce
// from a plain-text login message. The first 0x-prefixed 40-hex token is
// the address; the nonce lives on its own "Nonce: <value>" line.
func ParseChallengeMessage(message string) (address, nonce string, err error) {
	address = addressPattern.FindString(message)
	if address == "" {
		return "", "", ErrNoAddressInMessage
	}
	m := noncePattern.FindStringSubmatch(message)
	if m == nil {
		return "", "", ErrNoNonceInMessage
	}
	return strings.ToLower(address), m[1], nil
}

// RecoverAddress recovers the signer of an EIP-191 personal message and
// returns it in lowercase 0x form. Fails with ErrBadSignature on any
// decode or recovery problem.
func RecoverAddress(message, signature string) (string, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil || len(sig) != crypto.SignatureLength {
		return "", ErrBadSignature
	}

	// Wallets emit V as 27/28; go-ethereum expects 0/1.
	sig = append([]byte(nil), sig...)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return "", ErrBadSignature
	}
	return strings.ToLower(crypto.PubkeyToAddress(*pub).Hex()), nil
}

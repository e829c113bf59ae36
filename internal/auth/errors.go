package auth

import "errors"

var (
	// ErrNoAddressInMessage is returned when the challenge message does
	// not contain a wallet address.
	ErrNoAddressInMessage = errors.New("address not found in message")

	// ErrNoNonceInMessage is returned when the challenge message does not
	// contain a nonce line.
	ErrNoNonceInMessage = errors.New("nonce not found in message")

	// ErrNonceInvalid is returned when the nonce is unknown, expired, or
	// already consumed.
	ErrNonceInvalid = errors.New("invalid or expired nonce")

	// ErrBadSignature is returned when address recovery fails.
	ErrBadSignature = errors.New("bad signature")

	// ErrAddressMismatch is returned when the recovered signer differs
	// from the address claimed inside the message.
	ErrAddressMismatch = errors.New("address mismatch")

	// ErrTokenMalformed is returned for tokens that are not three
	// dot-joined segments.
	ErrTokenMalformed = errors.New("malformed token")

	// ErrTokenBadSignature is returned when the token MAC does not verify.
	ErrTokenBadSignature = errors.New("invalid token signature")

	// ErrTokenExpired is returned for tokens past their expiry.
	ErrTokenExpired = errors.New("token expired")
)

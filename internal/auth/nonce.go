package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

// DefaultNonceTTL is the challenge lifetime used when no TTL is configured.
const DefaultNonceTTL = 5 * time.Minute

// nonceBytes is the entropy behind each challenge.
const nonceBytes = 16

// NonceStore holds single-use login challenges keyed by wallet address.
// Issue overwrites any prior challenge for the address; Consume succeeds at
// most once per issued challenge. Implementations return false rather than
// erroring so callers can treat every failure as "start over".
type NonceStore interface {
	Issue(ctx context.Context, address string) (challenge string, ttl time.Duration, err error)
	Consume(ctx context.Context, address, challenge string) bool
}

func generateChallenge() (string, error) {
	buf := make([]byte, nonceBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

type nonceEntry struct {
	challenge string
	expiresAt time.Time
}

// MemoryNonceStore keeps challenges in process memory. Suitable for a
// single server instance; a restart invalidates outstanding challenges,
// which only forces clients to request a fresh one.
type MemoryNonceStore struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]nonceEntry
}

func NewMemoryNonceStore(ttl time.Duration) *MemoryNonceStore {
	if ttl <= 0 {
		ttl = DefaultNonceTTL
	}
	return &MemoryNonceStore{
		ttl:     ttl,
		entries: make(map[string]nonceEntry),
	}
}

func (s *MemoryNonceStore) Issue(_ context.Context, address string) (string, time.Duration, error) {
	challenge, err := generateChallenge()
	if err != nil {
		return "", 0, err
	}

	s.mu.Lock()
	s.entries[address] = nonceEntry{challenge: challenge, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()

	return challenge, s.ttl, nil
}

func (s *MemoryNonceStore) Consume(_ context.Context, address, challenge string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[address]
	if !ok {
		return false
	}
	if time.Now().After(entry.expiresAt) {
		// Expired records are discarded on sight.
		delete(s.entries, address)
		return false
	}
	if challenge == "" || entry.challenge != challenge {
		return false
	}

	delete(s.entries, address)
	return true
}

package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// consumeScript deletes the nonce key iff it still holds the provided
// challenge, making Consume a single atomic step across server instances.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisNonceStore backs the nonce store with a shared redis instance so a
// challenge issued by one server process can be consumed by another.
type RedisNonceStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisNonceStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisNonceStore, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(options)
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	if ttl <= 0 {
		ttl = DefaultNonceTTL
	}
	return &RedisNonceStore{client: client, ttl: ttl}, nil
}

func nonceKey(address string) string {
	return "nonce:" + address
}

func (s *RedisNonceStore) Issue(ctx context.Context, address string) (string, time.Duration, error) {
	challenge, err := generateChallenge()
	if err != nil {
		return "", 0, err
	}

	if err := s.client.Set(ctx, nonceKey(address), challenge, s.ttl).Err(); err != nil {
		return "", 0, err
	}
	return challenge, s.ttl, nil
}

func (s *RedisNonceStore) Consume(ctx context.Context, address, challenge string) bool {
	if challenge == "" {
		return false
	}
	deleted, err := consumeScript.Run(ctx, s.client, []string{nonceKey(address)}, challenge).Int()
	if err != nil {
		return false
	}
	return deleted == 1
}

// Client exposes the underlying redis client so the event bus publisher can
// share the connection.
func (s *RedisNonceStore) Client() *redis.Client {
	return s.client
}

func (s *RedisNonceStore) Close() error {
	return s.client.Close()
}

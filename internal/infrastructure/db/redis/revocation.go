package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// commander is the part of the go-redis API the store needs. *redis.Client
// satisfies it.
type commander interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

// RevocationStore keeps revoked token ids until the token would have expired.
// Key format: revoked:<jti>
type RevocationStore struct {
	client commander
	now    func() time.Time
}

// NewRevocationStore creates a RevocationStore wrapping the given Redis client.
func NewRevocationStore(client commander) *RevocationStore {
	return &RevocationStore{client: client, now: time.Now}
}

// Revoke marks the token id as revoked. Tokens already past until are not
// stored since they can no longer authenticate.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token id has been revoked.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (s *RevocationStore) key(tokenID string) string {
	return "revoked:" + tokenID
}

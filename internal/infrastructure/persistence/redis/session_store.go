package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cshours/community-service-hub/internal/domain/identity"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION TOKEN STORE
// ══════════════════════════════════════════════════════════════════════════════

const sessionKeyPrefix = "session:"

// tokenBytes is the entropy of a session token; hex-encoded to 64 chars.
const tokenBytes = 32

// SessionStore implements identity.TokenStore on Redis. Tokens are opaque
// random strings; expiry is enforced by the key TTL.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a Redis-backed session store.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

type sessionRecord struct {
	UserID   string        `json:"user_id"`
	Username string        `json:"username"`
	Role     identity.Role `json:"role"`
}

// Issue stores the identity under a fresh opaque token and returns it.
func (s *SessionStore) Issue(ctx context.Context, id identity.Identity, ttl time.Duration) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	data, err := json.Marshal(sessionRecord{
		UserID:   id.UserID,
		Username: id.Username,
		Role:     id.Role,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+token, data, ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return token, nil
}

// Resolve returns the identity for a token.
func (s *SessionStore) Resolve(ctx context.Context, token string) (*identity.Identity, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, identity.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &identity.Identity{
		UserID:   rec.UserID,
		Username: rec.Username,
		Role:     rec.Role,
	}, nil
}

// Revoke invalidates a token. Revoking an unknown token is not an error.
func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/cshours/community-service-hub/internal/domain/identity"
)

// TokenStore is an in-memory implementation of identity.TokenStore.
// Used when Redis is disabled and in tests. Expired tokens are removed
// lazily on Resolve.
type TokenStore struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
}

type memorySession struct {
	identity  identity.Identity
	expiresAt time.Time
}

// NewTokenStore creates an empty in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{sessions: make(map[string]memorySession)}
}

// Issue stores the identity under a fresh opaque token and returns it.
func (s *TokenStore) Issue(_ context.Context, id identity.Identity, ttl time.Duration) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	s.sessions[token] = memorySession{
		identity:  id,
		expiresAt: time.Now().Add(ttl),
	}
	s.mu.Unlock()

	return token, nil
}

// Resolve returns the identity for a token.
func (s *TokenStore) Resolve(_ context.Context, token string) (*identity.Identity, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, identity.ErrTokenNotFound
	}

	if time.Now().After(sess.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, identity.ErrTokenNotFound
	}

	id := sess.identity
	return &id, nil
}

// Revoke invalidates a token. Revoking an unknown token is not an error.
func (s *TokenStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

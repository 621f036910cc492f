// Package memory provides in-memory TokenCache and UserStore
// implementations for tests and single-process deployments.
package memory

import (
	"context"
	"sync"

	"github.com/marmos91/cabinet/pkg/identity"
)

// TokenCache implements identity.TokenCache with a plain map.
type TokenCache struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewTokenCache creates an empty token cache.
func NewTokenCache() *TokenCache {
	return &TokenCache{tokens: make(map[string]string)}
}

// Put associates a token with a user id. Test helper; the production
// cache is populated by the external session service.
func (c *TokenCache) Put(token, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[token] = userID
}

// Delete removes a token.
func (c *TokenCache) Delete(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tokens, token)
}

// Lookup resolves a token to a user id.
func (c *TokenCache) Lookup(_ context.Context, token string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	userID, ok := c.tokens[token]
	if !ok {
		return "", identity.ErrTokenNotFound
	}
	return userID, nil
}

// Ping always succeeds.
func (c *TokenCache) Ping(context.Context) error {
	return nil
}

// UserStore implements identity.UserStore with a plain map.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]*identity.User
}

// NewUserStore creates an empty user store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]*identity.User)}
}

// Add registers a user.
func (s *UserStore) Add(user *identity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

// GetByID returns the user with the given id.
func (s *UserStore) GetByID(_ context.Context, id string) (*identity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

// Count returns the number of known users.
func (s *UserStore) Count(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

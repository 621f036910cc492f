// Package identity resolves inbound credentials to user identities.
//
// Session issuance and expiry are owned by an external token cache; this
// package only resolves a token to a user id and confirms the user still
// exists in the external user store. It performs no retries and no
// caching of its own; freshness is entirely the token cache's
// responsibility.
package identity

import (
	"context"
	"errors"
)

// ErrUnauthenticated is returned when a credential is absent, unknown to
// the token cache, or references a user the user store no longer knows.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrTokenNotFound is returned by token caches for unknown or expired
// tokens. The gate translates it (and every other resolution miss) into
// ErrUnauthenticated so callers see a single failure mode.
var ErrTokenNotFound = errors.New("token not found")

// ErrUserNotFound is returned by user stores for unknown user ids.
var ErrUserNotFound = errors.New("user not found")

// Identity is the resolved caller. It is a transient value, never
// persisted by this core.
type Identity struct {
	ID string
}

// User is the external user store's projection of an account.
type User struct {
	ID    string
	Email string
}

// TokenCache is the external session store contract.
type TokenCache interface {
	// Lookup resolves a session token to a user id, or ErrTokenNotFound.
	Lookup(ctx context.Context, token string) (string, error)

	// Ping reports whether the cache backend is reachable.
	Ping(ctx context.Context) error
}

// UserStore is the external user store contract.
type UserStore interface {
	// GetByID returns the user with the given id, or ErrUserNotFound.
	GetByID(ctx context.Context, id string) (*User, error)

	// Count returns the number of known users.
	Count(ctx context.Context) (int, error)
}

// Gate translates an inbound credential into an identity by delegating
// to the token cache and user store. Stateless beyond that delegation.
type Gate struct {
	tokens TokenCache
	users  UserStore
}

// NewGate creates a gate over the given external stores.
func NewGate(tokens TokenCache, users UserStore) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// Resolve maps a credential to an identity or ErrUnauthenticated.
//
// Infrastructure failures (cache or store unreachable) are also reported
// as ErrUnauthenticated: the caller cannot be told apart from an
// anonymous one, and the transport error is wrapped for logging.
func (g *Gate) Resolve(ctx context.Context, credential string) (*Identity, error) {
	if credential == "" {
		return nil, ErrUnauthenticated
	}

	userID, err := g.tokens.Lookup(ctx, credential)
	if err != nil {
		return nil, wrapUnauthenticated(err)
	}

	user, err := g.users.GetByID(ctx, userID)
	if err != nil {
		return nil, wrapUnauthenticated(err)
	}

	return &Identity{ID: user.ID}, nil
}

func wrapUnauthenticated(cause error) error {
	if errors.Is(cause, ErrTokenNotFound) || errors.Is(cause, ErrUserNotFound) {
		return ErrUnauthenticated
	}
	return errors.Join(ErrUnauthenticated, cause)
}

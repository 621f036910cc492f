package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/marmos91/cabinet/pkg/identity"
	"github.com/marmos91/cabinet/pkg/identity/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGate() (*identity.Gate, *memory.TokenCache, *memory.UserStore) {
	tokens := memory.NewTokenCache()
	users := memory.NewUserStore()
	return identity.NewGate(tokens, users), tokens, users
}

func TestGate_ResolvesKnownToken(t *testing.T) {
	gate, tokens, users := newGate()
	users.Add(&identity.User{ID: "user-1", Email: "alice@example.com"})
	tokens.Put("tok-abc", "user-1")

	id, err := gate.Resolve(context.Background(), "tok-abc")
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.ID)
}

func TestGate_EmptyCredential(t *testing.T) {
	gate, _, _ := newGate()

	_, err := gate.Resolve(context.Background(), "")
	require.ErrorIs(t, err, identity.ErrUnauthenticated)
}

func TestGate_UnknownToken(t *testing.T) {
	gate, _, users := newGate()
	users.Add(&identity.User{ID: "user-1"})

	_, err := gate.Resolve(context.Background(), "never-issued")
	require.ErrorIs(t, err, identity.ErrUnauthenticated)
}

func TestGate_TokenForDeletedUser(t *testing.T) {
	gate, tokens, _ := newGate()
	tokens.Put("tok-stale", "user-gone")

	_, err := gate.Resolve(context.Background(), "tok-stale")
	require.ErrorIs(t, err, identity.ErrUnauthenticated)
}

func TestGate_ExpiredToken(t *testing.T) {
	gate, tokens, users := newGate()
	users.Add(&identity.User{ID: "user-1"})
	tokens.Put("tok-abc", "user-1")
	tokens.Delete("tok-abc")

	_, err := gate.Resolve(context.Background(), "tok-abc")
	require.ErrorIs(t, err, identity.ErrUnauthenticated)
}

type failingCache struct{}

func (failingCache) Lookup(context.Context, string) (string, error) {
	return "", errors.New("connection refused")
}
func (failingCache) Ping(context.Context) error { return errors.New("connection refused") }

func TestGate_CacheFailureIsUnauthenticated(t *testing.T) {
	gate := identity.NewGate(failingCache{}, memory.NewUserStore())

	_, err := gate.Resolve(context.Background(), "tok-abc")
	require.ErrorIs(t, err, identity.ErrUnauthenticated)
	// The transport cause is preserved for logging.
	assert.Contains(t, err.Error(), "connection refused")
}

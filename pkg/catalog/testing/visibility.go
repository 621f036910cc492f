package testing

import (
	"testing"

	"github.com/marmos91/cabinet/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunVisibilityTests exercises the publish/unpublish flag including its
// idempotence.
func (suite *StoreTestSuite) RunVisibilityTests(t *testing.T) {
	t.Run("PublishThenUnpublish", func(t *testing.T) {
		store := suite.NewStore(t)
		ctx := testContext()

		stored, err := store.Insert(ctx, fileEntry("alice", "secret.txt", catalog.RootParent))
		require.NoError(t, err)
		require.False(t, stored.IsPublic)

		published, err := store.SetPublic(ctx, stored.ID, true)
		require.NoError(t, err)
		assert.True(t, published.IsPublic)

		unpublished, err := store.SetPublic(ctx, stored.ID, false)
		require.NoError(t, err)
		assert.False(t, unpublished.IsPublic)
	})

	t.Run("PublishIsIdempotent", func(t *testing.T) {
		store := suite.NewStore(t)
		ctx := testContext()

		stored, err := store.Insert(ctx, fileEntry("alice", "twice.txt", catalog.RootParent))
		require.NoError(t, err)

		for i := 0; i < 2; i++ {
			published, err := store.SetPublic(ctx, stored.ID, true)
			require.NoError(t, err)
			assert.True(t, published.IsPublic)
		}
	})

	t.Run("PersistsAcrossReads", func(t *testing.T) {
		store := suite.NewStore(t)
		ctx := testContext()

		stored, err := store.Insert(ctx, fileEntry("alice", "durable.txt", catalog.RootParent))
		require.NoError(t, err)

		_, err = store.SetPublic(ctx, stored.ID, true)
		require.NoError(t, err)

		got, err := store.GetByID(ctx, stored.ID)
		require.NoError(t, err)
		assert.True(t, got.IsPublic)
	})

	t.Run("NotFound", func(t *testing.T) {
		store := suite.NewStore(t)

		_, err := store.SetPublic(testContext(), "missing", true)
		require.Error(t, err)
		assert.True(t, catalog.IsNotFound(err))
	})
}

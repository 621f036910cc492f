package testing

import (
	"fmt"
	"testing"

	"github.com/marmos91/cabinet/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunListingTests exercises pagination: insertion order, owner and parent
// filtering, skip/limit arithmetic, and past-the-end behavior.
func (suite *StoreTestSuite) RunListingTests(t *testing.T) {
	t.Run("InsertionOrder", func(t *testing.T) {
		store := suite.NewStore(t)
		ctx := testContext()

		var ids []string
		for i := 0; i < 5; i++ {
			stored, err := store.Insert(ctx, fileEntry("alice", fmt.Sprintf("file-%d", i), catalog.RootParent))
			require.NoError(t, err)
			ids = append(ids, stored.ID)
		}

		page, err := store.ListPage(ctx, "alice", catalog.RootParent, 0, 10)
		require.NoError(t, err)
		require.Len(t, page, 5)
		for i, entry := range page {
			assert.Equal(t, ids[i], entry.ID)
		}
	})

	t.Run("FiltersByOwner", func(t *testing.T) {
		store := suite.NewStore(t)
		ctx := testContext()

		_, err := store.Insert(ctx, fileEntry("alice", "mine", catalog.RootParent))
		require.NoError(t, err)
		_, err = store.Insert(ctx, fileEntry("bob", "theirs", catalog.RootParent))
		require.NoError(t, err)

		page, err := store.ListPage(ctx, "alice", catalog.RootParent, 0, 10)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "mine", page[0].Name)
	})

	t.Run("FiltersByParent", func(t *testing.T) {
		store := suite.NewStore(t)
		ctx := testContext()

		folder, err := store.Insert(ctx, folderEntry("alice", "photos"))
		require.NoError(t, err)
		_, err = store.Insert(ctx, fileEntry("alice", "in-root", catalog.RootParent))
		require.NoError(t, err)
		_, err = store.Insert(ctx, fileEntry("alice", "in-folder", folder.ID))
		require.NoError(t, err)

		rootPage, err := store.ListPage(ctx, "alice", catalog.RootParent, 0, 10)
		require.NoError(t, err)
		// The folder itself lives in the root.
		require.Len(t, rootPage, 2)

		folderPage, err := store.ListPage(ctx, "alice", folder.ID, 0, 10)
		require.NoError(t, err)
		require.Len(t, folderPage, 1)
		assert.Equal(t, "in-folder", folderPage[0].Name)
	})

	t.Run("PaginatesWithSkipAndLimit", func(t *testing.T) {
		store := suite.NewStore(t)
		ctx := testContext()

		for i := 0; i < 7; i++ {
			_, err := store.Insert(ctx, fileEntry("alice", fmt.Sprintf("file-%d", i), catalog.RootParent))
			require.NoError(t, err)
		}

		first, err := store.ListPage(ctx, "alice", catalog.RootParent, 0, 3)
		require.NoError(t, err)
		require.Len(t, first, 3)
		assert.Equal(t, "file-0", first[0].Name)

		second, err := store.ListPage(ctx, "alice", catalog.RootParent, 1, 3)
		require.NoError(t, err)
		require.Len(t, second, 3)
		assert.Equal(t, "file-3", second[0].Name)

		last, err := store.ListPage(ctx, "alice", catalog.RootParent, 2, 3)
		require.NoError(t, err)
		require.Len(t, last, 1)
		assert.Equal(t, "file-6", last[0].Name)
	})

	t.Run("PagePastEndIsEmpty", func(t *testing.T) {
		store := suite.NewStore(t)
		ctx := testContext()

		_, err := store.Insert(ctx, fileEntry("alice", "only", catalog.RootParent))
		require.NoError(t, err)

		page, err := store.ListPage(ctx, "alice", catalog.RootParent, 5, 20)
		require.NoError(t, err)
		assert.Empty(t, page)
	})

	t.Run("UnknownOwnerIsEmpty", func(t *testing.T) {
		store := suite.NewStore(t)

		page, err := store.ListPage(testContext(), "nobody", catalog.RootParent, 0, 20)
		require.NoError(t, err)
		assert.Empty(t, page)
	})

	t.Run("RejectsNegativePage", func(t *testing.T) {
		store := suite.NewStore(t)

		_, err := store.ListPage(testContext(), "alice", catalog.RootParent, -1, 20)
		require.Error(t, err)
		assert.True(t, catalog.IsInvalidArgument(err))
	})
}

package testing

import (
	"testing"

	"github.com/marmos91/cabinet/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunInsertTests exercises insert validation, ID assignment, and the
// parent/child typing invariant.
func (suite *StoreTestSuite) RunInsertTests(t *testing.T) {
	t.Run("AssignsIDAndPreservesFields", func(t *testing.T) {
		store := suite.NewStore(t)
		ctx := testContext()

		entry := fileEntry("alice", "notes.txt", catalog.RootParent)
		stored, err := store.Insert(ctx, entry)
		require.NoError(t, err)

		assert.NotEmpty(t, stored.ID)
		assert.Equal(t, "alice", stored.OwnerID)
		assert.Equal(t, "notes.txt", stored.Name)
		assert.Equal(t, catalog.KindFile, stored.Kind)
		assert.Equal(t, catalog.RootParent, stored.ParentID)
		assert.False(t, stored.IsPublic)
		assert.False(t, stored.CreatedAt.IsZero())

		// Insert must not mutate the caller's argument.
		assert.Empty(t, entry.ID)
	})

	t.Run("AssignedIDsAreUnique", func(t *testing.T) {
		store := suite.NewStore(t)
		ctx := testContext()

		first, err := store.Insert(ctx, fileEntry("alice", "same-name", catalog.RootParent))
		require.NoError(t, err)
		second, err := store.Insert(ctx, fileEntry("alice", "same-name", catalog.RootParent))
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("RejectsEmptyName", func(t *testing.T) {
		store := suite.NewStore(t)

		_, err := store.Insert(testContext(), fileEntry("alice", "", catalog.RootParent))
		require.Error(t, err)
		assert.True(t, catalog.IsInvalidArgument(err))
	})

	t.Run("RejectsUnknownKind", func(t *testing.T) {
		store := suite.NewStore(t)

		entry := fileEntry("alice", "weird", catalog.RootParent)
		entry.Kind = catalog.Kind("symlink")

		_, err := store.Insert(testContext(), entry)
		require.Error(t, err)
		assert.True(t, catalog.IsInvalidArgument(err))
	})

	t.Run("InsertUnderFolder", func(t *testing.T) {
		store := suite.NewStore(t)
		ctx := testContext()

		folder, err := store.Insert(ctx, folderEntry("alice", "documents"))
		require.NoError(t, err)

		child, err := store.Insert(ctx, fileEntry("alice", "cv.pdf", folder.ID))
		require.NoError(t, err)
		assert.Equal(t, folder.ID, child.ParentID)
	})

	t.Run("RejectsMissingParent", func(t *testing.T) {
		store := suite.NewStore(t)

		_, err := store.Insert(testContext(), fileEntry("alice", "orphan", "no-such-id"))
		require.Error(t, err)
		assert.True(t, catalog.IsInvalidParent(err))
	})

	t.Run("RejectsNonFolderParent", func(t *testing.T) {
		store := suite.NewStore(t)
		ctx := testContext()

		file, err := store.Insert(ctx, fileEntry("alice", "plain.txt", catalog.RootParent))
		require.NoError(t, err)

		_, err = store.Insert(ctx, fileEntry("alice", "nested.txt", file.ID))
		require.Error(t, err)
		assert.True(t, catalog.IsInvalidParent(err))
	})

	t.Run("GetByIDRoundTrip", func(t *testing.T) {
		store := suite.NewStore(t)
		ctx := testContext()

		stored, err := store.Insert(ctx, fileEntry("alice", "roundtrip", catalog.RootParent))
		require.NoError(t, err)

		got, err := store.GetByID(ctx, stored.ID)
		require.NoError(t, err)
		assert.Equal(t, stored.ID, got.ID)
		assert.Equal(t, stored.Name, got.Name)
		assert.Equal(t, stored.ContentRef, got.ContentRef)
	})

	t.Run("GetByIDNotFound", func(t *testing.T) {
		store := suite.NewStore(t)

		_, err := store.GetByID(testContext(), "missing")
		require.Error(t, err)
		assert.True(t, catalog.IsNotFound(err))
	})

	t.Run("CountGrowsWithInserts", func(t *testing.T) {
		store := suite.NewStore(t)
		ctx := testContext()

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)

		for i := 0; i < 3; i++ {
			_, err := store.Insert(ctx, folderEntry("alice", "folder"))
			require.NoError(t, err)
		}

		count, err = store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})
}

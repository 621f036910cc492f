package badger

import (
	"context"
	"testing"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/marmos91/cabinet/pkg/catalog"
	catalogtesting "github.com/marmos91/cabinet/pkg/catalog/testing"
	"github.com/stretchr/testify/require"
)

// TestBadgerCatalogStore runs the complete catalog contract suite against
// the BadgerDB implementation, using Badger's in-memory mode so tests
// need no disk cleanup beyond Close.
func TestBadgerCatalogStore(t *testing.T) {
	suite := &catalogtesting.StoreTestSuite{
		NewStore: func(t *testing.T) catalog.Store {
			store, err := NewBadgerCatalogStore(context.Background(), BadgerCatalogStoreConfig{
				InMemory: true,
			})
			require.NoError(t, err)
			t.Cleanup(func() { _ = store.Close() })
			return store
		},
	}

	suite.Run(t)
}

// TestBadgerCatalogStore_CorruptParentRecordIsNotInvalidParent verifies
// that a parent record that fails to decode is reported as a backend
// failure, not as an invalid-parent argument error.
func TestBadgerCatalogStore_CorruptParentRecordIsNotInvalidParent(t *testing.T) {
	ctx := context.Background()

	store, err := NewBadgerCatalogStore(ctx, BadgerCatalogStoreConfig{InMemory: true})
	require.NoError(t, err)
	defer store.Close()

	parent, err := store.Insert(ctx, &catalog.Entry{
		OwnerID: "alice", Name: "photos", Kind: catalog.KindFolder,
	})
	require.NoError(t, err)

	err = store.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyEntry(parent.ID), []byte("not json"))
	})
	require.NoError(t, err)

	_, err = store.Insert(ctx, &catalog.Entry{
		OwnerID: "alice", Name: "cat.png", Kind: catalog.KindFile,
		ContentRef: "/data/c", ParentID: parent.ID,
	})
	require.Error(t, err)
	require.False(t, catalog.IsInvalidParent(err))
	require.False(t, catalog.IsNotFound(err))
}

// TestBadgerCatalogStore_PersistsAcrossReopen verifies that entries and
// their listing order survive a close/reopen cycle on disk.
func TestBadgerCatalogStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewBadgerCatalogStoreWithDefaults(ctx, dir)
	require.NoError(t, err)

	first, err := store.Insert(ctx, &catalog.Entry{
		OwnerID: "alice", Name: "first", Kind: catalog.KindFile, ContentRef: "/data/a",
	})
	require.NoError(t, err)
	second, err := store.Insert(ctx, &catalog.Entry{
		OwnerID: "alice", Name: "second", Kind: catalog.KindFile, ContentRef: "/data/b",
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewBadgerCatalogStoreWithDefaults(ctx, dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, "first", got.Name)

	page, err := reopened.ListPage(ctx, "alice", catalog.RootParent, 0, 10)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, first.ID, page[0].ID)
	require.Equal(t, second.ID, page[1].ID)
}

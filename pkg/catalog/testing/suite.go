// Package testing provides a reusable contract test suite for catalog.Store
// implementations. It tests the interface contract, not implementation
// details, so the same suite runs against the memory and badger stores.
package testing

import (
	"context"
	"testing"

	"github.com/marmos91/cabinet/pkg/catalog"
)

// StoreTestSuite is a contract test suite for catalog.Store implementations.
//
// Usage:
//
//	func TestMyCatalogStore(t *testing.T) {
//	    suite := &catalogtesting.StoreTestSuite{
//	        NewStore: func(t *testing.T) catalog.Store {
//	            return mystore.New()
//	        },
//	    }
//	    suite.Run(t)
//	}
type StoreTestSuite struct {
	// NewStore creates a fresh store for each test, ensuring isolation.
	// Implementations should register cleanup with t.Cleanup.
	NewStore func(t *testing.T) catalog.Store
}

// Run executes all tests in the suite.
func (suite *StoreTestSuite) Run(t *testing.T) {
	t.Run("Insert", suite.RunInsertTests)
	t.Run("Visibility", suite.RunVisibilityTests)
	t.Run("Listing", suite.RunListingTests)
}

func testContext() context.Context {
	return context.Background()
}

// folderEntry builds an unsaved folder entry owned by owner.
func folderEntry(owner, name string) *catalog.Entry {
	return &catalog.Entry{
		OwnerID:    owner,
		Name:       name,
		Kind:       catalog.KindFolder,
		ParentID:   catalog.RootParent,
		ContentRef: "/data/" + name,
	}
}

// fileEntry builds an unsaved file entry under the given parent.
func fileEntry(owner, name, parentID string) *catalog.Entry {
	return &catalog.Entry{
		OwnerID:    owner,
		Name:       name,
		Kind:       catalog.KindFile,
		ParentID:   parentID,
		ContentRef: "/data/blob-" + name,
	}
}

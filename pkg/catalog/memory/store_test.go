package memory

import (
	"testing"

	"github.com/marmos91/cabinet/pkg/catalog"
	catalogtesting "github.com/marmos91/cabinet/pkg/catalog/testing"
)

// TestMemoryCatalogStore runs the complete catalog contract suite against
// the in-memory implementation.
func TestMemoryCatalogStore(t *testing.T) {
	suite := &catalogtesting.StoreTestSuite{
		NewStore: func(t *testing.T) catalog.Store {
			store := NewMemoryCatalogStore()
			t.Cleanup(func() { _ = store.Close() })
			return store
		},
	}

	suite.Run(t)
}

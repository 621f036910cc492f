package memory

import (
	"testing"

	"github.com/marmos91/cabinet/pkg/content"
	contenttesting "github.com/marmos91/cabinet/pkg/content/testing"
)

// TestMemoryContentStore runs the complete content contract suite against
// the in-memory implementation.
func TestMemoryContentStore(t *testing.T) {
	suite := &contenttesting.StoreTestSuite{
		NewStore: func(t *testing.T) content.Store {
			return NewMemoryContentStore()
		},
	}

	suite.Run(t)
}

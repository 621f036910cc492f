// Package testing provides a reusable contract test suite for content.Store
// implementations.
package testing

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/marmos91/cabinet/pkg/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// StoreTestSuite is a contract test suite for content.Store implementations.
//
// Usage:
//
//	func TestMyContentStore(t *testing.T) {
//	    suite := &contenttesting.StoreTestSuite{
//	        NewStore: func(t *testing.T) content.Store {
//	            return mystore.New()
//	        },
//	    }
//	    suite.Run(t)
//	}
type StoreTestSuite struct {
	// NewStore creates a fresh store for each test, ensuring isolation.
	NewStore func(t *testing.T) content.Store
}

// Run executes all tests in the suite.
func (suite *StoreTestSuite) Run(t *testing.T) {
	t.Run("BlobRoundTrip", suite.testBlobRoundTrip)
	t.Run("BlobRefsAreUnique", suite.testBlobRefsAreUnique)
	t.Run("ConcurrentWritersNeverCollide", suite.testConcurrentWriters)
	t.Run("ReadMissingBlob", suite.testReadMissingBlob)
	t.Run("DirectoryCreateIsIdempotent", suite.testDirectoryIdempotent)
	t.Run("BlobInsideDirectory", suite.testBlobInsideDirectory)
	t.Run("SiblingWriteAndOverwrite", suite.testSiblingOverwrite)
}

func testContext() context.Context {
	return context.Background()
}

func (suite *StoreTestSuite) testBlobRoundTrip(t *testing.T) {
	store := suite.NewStore(t)
	ctx := testContext()

	payload := []byte("hello, cabinet")
	ref, err := store.CreateBlob(ctx, payload, "")
	require.NoError(t, err)
	require.NotEmpty(t, ref)

	got, err := store.ReadBlob(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func (suite *StoreTestSuite) testBlobRefsAreUnique(t *testing.T) {
	store := suite.NewStore(t)
	ctx := testContext()

	first, err := store.CreateBlob(ctx, []byte("same bytes"), "")
	require.NoError(t, err)
	second, err := store.CreateBlob(ctx, []byte("same bytes"), "")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func (suite *StoreTestSuite) testConcurrentWriters(t *testing.T) {
	store := suite.NewStore(t)
	ctx := testContext()

	const writers = 16
	refs := make([]string, writers)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ref, err := store.CreateBlob(ctx, []byte(fmt.Sprintf("writer %d", i)), "")
			assert.NoError(t, err)
			refs[i] = ref
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, writers)
	for _, ref := range refs {
		require.NotEmpty(t, ref)
		assert.False(t, seen[ref], "duplicate ref %s", ref)
		seen[ref] = true
	}
}

func (suite *StoreTestSuite) testReadMissingBlob(t *testing.T) {
	store := suite.NewStore(t)
	ctx := testContext()

	// Use a ref shape the store itself produced, then point it at nothing.
	ref, err := store.CreateBlob(ctx, []byte("x"), "")
	require.NoError(t, err)

	_, err = store.ReadBlob(ctx, ref+"-missing")
	require.Error(t, err)
}

func (suite *StoreTestSuite) testDirectoryIdempotent(t *testing.T) {
	store := suite.NewStore(t)
	ctx := testContext()

	first, err := store.CreateDirectory(ctx, "photos", "")
	require.NoError(t, err)
	second, err := store.CreateDirectory(ctx, "photos", "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func (suite *StoreTestSuite) testBlobInsideDirectory(t *testing.T) {
	store := suite.NewStore(t)
	ctx := testContext()

	dir, err := store.CreateDirectory(ctx, "nested", "")
	require.NoError(t, err)

	inner, err := store.CreateDirectory(ctx, "deeper", dir)
	require.NoError(t, err)

	ref, err := store.CreateBlob(ctx, []byte("deep bytes"), inner)
	require.NoError(t, err)

	got, err := store.ReadBlob(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("deep bytes"), got)
}

func (suite *StoreTestSuite) testSiblingOverwrite(t *testing.T) {
	store := suite.NewStore(t)
	ctx := testContext()

	ref, err := store.CreateBlob(ctx, []byte("original image"), "")
	require.NoError(t, err)

	sibling, err := store.WriteSibling(ctx, ref, "_500", []byte("thumb v1"))
	require.NoError(t, err)
	assert.Equal(t, ref+"_500", sibling)

	got, err := store.ReadBlob(ctx, sibling)
	require.NoError(t, err)
	assert.Equal(t, []byte("thumb v1"), got)

	// Re-deriving overwrites in place: same ref, new bytes, original intact.
	again, err := store.WriteSibling(ctx, ref, "_500", []byte("thumb v2"))
	require.NoError(t, err)
	assert.Equal(t, sibling, again)

	got, err = store.ReadBlob(ctx, sibling)
	require.NoError(t, err)
	assert.Equal(t, []byte("thumb v2"), got)

	original, err := store.ReadBlob(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("original image"), original)
}

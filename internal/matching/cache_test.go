package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/supplybot/supplybot-backend/pkg/db/models"
)

type stubCatalogSource struct {
	products []models.Product
	synonyms []models.ProductSynonym
	err      error
}

func (s *stubCatalogSource) ListProducts(ctx context.Context) ([]models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func (s *stubCatalogSource) ListSynonyms(ctx context.Context) ([]models.ProductSynonym, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.synonyms, nil
}

func testCatalog() *stubCatalogSource {
	return &stubCatalogSource{
		products: []models.Product{
			{Name: "Tomatoes", Category: "Vegetables", Unit: "kg"},
			{Name: "Cherry tomatoes", Category: "Vegetables", Unit: "kg"},
			{Name: "Chicken fillet", Category: "Meat", Unit: "kg"},
		},
		synonyms: []models.ProductSynonym{
			{ProductName: "Tomatoes", Term: "tomate", Weight: 0.5},
			{ProductName: "Tomatoes", Term: "pomodoro", Weight: 0.9},
			{ProductName: "Cherry tomatoes", Term: "tomate", Weight: 0.7},
		},
	}
}

func TestCacheRebuildIndexes(t *testing.T) {
	cache, err := NewCache(testCatalog(), nil)
	require.NoError(t, err)
	require.NoError(t, cache.Rebuild(context.Background()))

	snap := cache.Snapshot()
	require.Len(t, snap.Products, 3)
	require.Contains(t, snap.ProductsByName, "tomatoes")
	require.Contains(t, snap.ProductsByName, "cherry tomatoes")

	require.Equal(t, []string{"Meat", "Vegetables"}, snap.Categories)
	require.Len(t, snap.ByCategory["vegetables"], 2)

	// 3 name entries + 3 synonym entries
	require.Len(t, snap.Entries, 6)
}

func TestCacheSynonymRefsOrderedByWeight(t *testing.T) {
	cache, err := NewCache(testCatalog(), nil)
	require.NoError(t, err)
	require.NoError(t, cache.Rebuild(context.Background()))

	refs := cache.Snapshot().Synonyms["tomate"]
	require.Len(t, refs, 2)
	require.Equal(t, "Cherry tomatoes", refs[0].CanonicalName)
	require.Equal(t, "Tomatoes", refs[1].CanonicalName)
}

func TestCacheSkipsDanglingSynonym(t *testing.T) {
	source := testCatalog()
	source.synonyms = append(source.synonyms, models.ProductSynonym{
		ProductName: "Ghost product", Term: "ghost", Weight: 0.5,
	})

	cache, err := NewCache(source, nil)
	require.NoError(t, err)
	require.NoError(t, cache.Rebuild(context.Background()))

	snap := cache.Snapshot()
	require.Contains(t, snap.Synonyms, "ghost")
	for _, entry := range snap.Entries {
		if entry.Text == "ghost" {
			t.Fatalf("dangling synonym must not enter the corpus")
		}
	}
}

func TestCacheKeepsStaleSnapshotOnFailure(t *testing.T) {
	source := testCatalog()
	cache, err := NewCache(source, nil)
	require.NoError(t, err)
	require.NoError(t, cache.Rebuild(context.Background()))

	source.err = errors.New("db down")
	require.Error(t, cache.Rebuild(context.Background()))

	snap := cache.Snapshot()
	require.Len(t, snap.Products, 3, "previous snapshot must stay published")
}

func TestCacheEmptyBeforeFirstRebuild(t *testing.T) {
	cache, err := NewCache(testCatalog(), nil)
	require.NoError(t, err)

	snap := cache.Snapshot()
	require.NotNil(t, snap)
	require.Empty(t, snap.Products)
}

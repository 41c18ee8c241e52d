package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/supplybot/supplybot-backend/pkg/db/models"
	pkgerrors "github.com/supplybot/supplybot-backend/pkg/errors"
)

type stubSynonymStore struct {
	saved      []models.ProductSynonym
	reinforced []models.ProductSynonym
	usageBumps []string
	rows       []models.ProductSynonym
	err        error
}

func (s *stubSynonymStore) SaveSynonym(ctx context.Context, productName, term string, weight float64) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, models.ProductSynonym{ProductName: productName, Term: term, Weight: weight})
	return nil
}

func (s *stubSynonymStore) ReinforceSynonym(ctx context.Context, productName, term string) error {
	if s.err != nil {
		return s.err
	}
	s.reinforced = append(s.reinforced, models.ProductSynonym{ProductName: productName, Term: term})
	return nil
}

func (s *stubSynonymStore) IncrementSynonymUsage(ctx context.Context, productName, term string) error {
	s.usageBumps = append(s.usageBumps, term)
	return s.err
}

func (s *stubSynonymStore) SynonymsForProduct(ctx context.Context, productName string) ([]models.ProductSynonym, error) {
	return s.rows, s.err
}

func newTestEngine(t *testing.T, source *stubCatalogSource, store *stubSynonymStore) *Engine {
	t.Helper()
	cache, err := NewCache(source, nil)
	require.NoError(t, err)
	require.NoError(t, cache.Rebuild(context.Background()))

	engine, err := NewEngine(cache, store, nil, nil)
	require.NoError(t, err)
	return engine
}

func TestFindExactMatchByName(t *testing.T) {
	engine := newTestEngine(t, testCatalog(), &stubSynonymStore{})

	product, err := engine.FindExactMatch(context.Background(), "  Tomatoes ")
	require.NoError(t, err)
	require.NotNil(t, product)
	require.Equal(t, "Tomatoes", product.Name)
}

func TestFindExactMatchBySynonym(t *testing.T) {
	store := &stubSynonymStore{}
	engine := newTestEngine(t, testCatalog(), store)

	product, err := engine.FindExactMatch(context.Background(), "pomodoro")
	require.NoError(t, err)
	require.NotNil(t, product)
	require.Equal(t, "Tomatoes", product.Name)
	require.Equal(t, []string{"pomodoro"}, store.usageBumps)
}

func TestFindExactMatchPrefersHeaviestSynonym(t *testing.T) {
	engine := newTestEngine(t, testCatalog(), &stubSynonymStore{})

	// "tomate" maps to both tomato products; the heavier ref wins
	product, err := engine.FindExactMatch(context.Background(), "tomate")
	require.NoError(t, err)
	require.NotNil(t, product)
	require.Equal(t, "Cherry tomatoes", product.Name)
}

func TestFindExactMatchDeterministic(t *testing.T) {
	engine := newTestEngine(t, testCatalog(), &stubSynonymStore{})

	first, err := engine.FindExactMatch(context.Background(), "tomate")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := engine.FindExactMatch(context.Background(), "tomate")
		require.NoError(t, err)
		require.Equal(t, first.Name, again.Name)
	}
}

func TestFindExactMatchMiss(t *testing.T) {
	engine := newTestEngine(t, testCatalog(), &stubSynonymStore{})

	product, err := engine.FindExactMatch(context.Background(), "dragonfruit")
	require.NoError(t, err)
	require.Nil(t, product)
}

func TestSuggestProductsExactFirst(t *testing.T) {
	source := testCatalog()
	source.products = append(source.products,
		models.Product{Name: "Cherry tomatoes premium", Category: "Vegetables", Unit: "kg"},
		models.Product{Name: "Cherry tomatoes standard", Category: "Vegetables", Unit: "kg"},
	)
	engine := newTestEngine(t, source, &stubSynonymStore{})

	suggestions, err := engine.SuggestProducts(context.Background(), "Cherry tomatoes", 5)
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)
	require.Equal(t, "Cherry tomatoes", suggestions[0].Product.Name)
	for i := 1; i < len(suggestions); i++ {
		require.GreaterOrEqual(t, suggestions[i].Score, suggestions[i-1].Score)
	}
}

func TestSuggestProductsDedupesPerProduct(t *testing.T) {
	engine := newTestEngine(t, testCatalog(), &stubSynonymStore{})

	// "tomate" hits Tomatoes through both its name and two synonym entries
	suggestions, err := engine.SuggestProducts(context.Background(), "tomate", 5)
	require.NoError(t, err)

	seen := map[string]int{}
	for _, s := range suggestions {
		seen[s.Product.Name]++
	}
	for name, count := range seen {
		require.Equalf(t, 1, count, "product %s appeared %d times", name, count)
	}
}

func TestSuggestProductsHonorsLimit(t *testing.T) {
	engine := newTestEngine(t, testCatalog(), &stubSynonymStore{})

	suggestions, err := engine.SuggestProducts(context.Background(), "tomatoes", 1)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	require.Equal(t, "Tomatoes", suggestions[0].Product.Name)
}

func TestSuggestProductsRejectsBadLimit(t *testing.T) {
	engine := newTestEngine(t, testCatalog(), &stubSynonymStore{})

	_, err := engine.SuggestProducts(context.Background(), "tomatoes", 0)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSuggestProductsSubstringBackfill(t *testing.T) {
	source := &stubCatalogSource{
		products: []models.Product{
			{Name: "Worcestershire sauce", Category: "Condiments", Unit: "ml"},
		},
	}
	engine := newTestEngine(t, source, &stubSynonymStore{})

	suggestions, err := engine.SuggestProducts(context.Background(), "cester", 5)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	require.Equal(t, MatchKindSubstring, suggestions[0].Kind)
	require.Equal(t, substringScore, suggestions[0].Score)
}

func TestSuggestProductsSubstringRanksAfterFuzzy(t *testing.T) {
	source := &stubCatalogSource{
		products: []models.Product{
			{Name: "Paprika", Category: "Spices", Unit: "g"},
			{Name: "Smoked paprika blend extra", Category: "Spices", Unit: "g"},
		},
	}
	engine := newTestEngine(t, source, &stubSynonymStore{})

	suggestions, err := engine.SuggestProducts(context.Background(), "paprika", 5)
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)
	require.Equal(t, "Paprika", suggestions[0].Product.Name)
	require.Equal(t, MatchKindFuzzy, suggestions[0].Kind)
}

func TestSearchWithAutoCompleteShortQuery(t *testing.T) {
	engine := newTestEngine(t, testCatalog(), &stubSynonymStore{})

	suggestions, err := engine.SearchWithAutoComplete(context.Background(), "t", 5)
	require.NoError(t, err)
	require.Empty(t, suggestions)
}

func TestSearchWithAutoCompletePrefix(t *testing.T) {
	engine := newTestEngine(t, testCatalog(), &stubSynonymStore{})

	suggestions, err := engine.SearchWithAutoComplete(context.Background(), "chi", 5)
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)

	found := false
	for _, s := range suggestions {
		if s.Product.Name == "Chicken fillet" {
			found = true
		}
	}
	require.True(t, found, "prefix should surface chicken fillet")
}

func TestLearnFromUserChoice(t *testing.T) {
	store := &stubSynonymStore{}
	engine := newTestEngine(t, testCatalog(), store)

	err := engine.LearnFromUserChoice(context.Background(), "Pomidory", "Tomatoes")
	require.NoError(t, err)
	require.Len(t, store.reinforced, 1)
	require.Equal(t, "Tomatoes", store.reinforced[0].ProductName)
	require.Equal(t, "pomidory", store.reinforced[0].Term)
}

func TestLearnFromUserChoiceSkipsIdenticalName(t *testing.T) {
	store := &stubSynonymStore{}
	engine := newTestEngine(t, testCatalog(), store)

	err := engine.LearnFromUserChoice(context.Background(), " TOMATOES ", "Tomatoes")
	require.NoError(t, err)
	require.Empty(t, store.reinforced)
}

func TestLearnFromUserChoiceUnknownProduct(t *testing.T) {
	engine := newTestEngine(t, testCatalog(), &stubSynonymStore{})

	err := engine.LearnFromUserChoice(context.Background(), "pomidory", "Unknown thing")
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestAddSynonym(t *testing.T) {
	store := &stubSynonymStore{}
	engine := newTestEngine(t, testCatalog(), store)

	err := engine.AddSynonym(context.Background(), "Tomatoes", "Pomidor", 0.8)
	require.NoError(t, err)
	require.Len(t, store.saved, 1)
	require.Equal(t, "pomidor", store.saved[0].Term)
	require.Equal(t, 0.8, store.saved[0].Weight)
}

func TestAddSynonymValidatesWeight(t *testing.T) {
	engine := newTestEngine(t, testCatalog(), &stubSynonymStore{})

	for _, weight := range []float64{-0.1, 1.1} {
		err := engine.AddSynonym(context.Background(), "Tomatoes", "pomidor", weight)
		require.Error(t, err)
		require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	}
}

func TestCategoriesAndProductsByCategory(t *testing.T) {
	engine := newTestEngine(t, testCatalog(), &stubSynonymStore{})

	require.Equal(t, []string{"Meat", "Vegetables"}, engine.Categories(context.Background()))

	vegetables := engine.ProductsByCategory(context.Background(), "Vegetables")
	require.Len(t, vegetables, 2)

	require.Empty(t, engine.ProductsByCategory(context.Background(), "Dairy"))
}

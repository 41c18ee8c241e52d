package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/supplybot/supplybot-backend/pkg/db/models"
	pkgerrors "github.com/supplybot/supplybot-backend/pkg/errors"
	"github.com/supplybot/supplybot-backend/pkg/logger"
	"github.com/supplybot/supplybot-backend/pkg/metrics"
)

// MatchKind tags how a suggestion was found.
type MatchKind string

const (
	MatchKindFuzzy     MatchKind = "fuzzy"
	MatchKindSubstring MatchKind = "substring"
)

// Suggestion is one ranked candidate product. Lower scores rank first.
type Suggestion struct {
	Product models.Product
	Score   float64
	Kind    MatchKind
}

// SynonymStore persists synonym rows mutated by the engine's side effects.
type SynonymStore interface {
	SaveSynonym(ctx context.Context, productName, term string, weight float64) error
	ReinforceSynonym(ctx context.Context, productName, term string) error
	IncrementSynonymUsage(ctx context.Context, productName, term string) error
	SynonymsForProduct(ctx context.Context, productName string) ([]models.ProductSynonym, error)
}

// Engine answers exact and approximate product queries over the cached
// catalog corpus and owns the self-learning synonym feedback loop.
type Engine struct {
	cache   *Cache
	store   SynonymStore
	metrics *metrics.MatchingMetrics
	log     *logger.Logger
}

// NewEngine wires the matching engine.
func NewEngine(cache *Cache, store SynonymStore, m *metrics.MatchingMetrics, logg *logger.Logger) (*Engine, error) {
	if cache == nil {
		return nil, fmt.Errorf("cache required")
	}
	if store == nil {
		return nil, fmt.Errorf("synonym store required")
	}
	return &Engine{cache: cache, store: store, metrics: m, log: logg}, nil
}

// Rebuild refreshes the underlying snapshot from the catalog.
func (e *Engine) Rebuild(ctx context.Context) error {
	return e.cache.Rebuild(ctx)
}

// FindExactMatch resolves a query by literal equality only: first against
// canonical names, then against synonym terms. Deterministic for a fixed
// catalog state; returns nil without error when nothing matches literally.
func (e *Engine) FindExactMatch(ctx context.Context, query string) (*models.Product, error) {
	snap := e.cache.Snapshot()
	normalized := Normalize(query)
	if normalized == "" {
		return nil, nil
	}

	if product, ok := snap.ProductsByName[normalized]; ok {
		e.metrics.IncExactLookup("hit")
		return &product, nil
	}

	for _, ref := range snap.Synonyms[normalized] {
		product, ok := snap.ProductsByName[Normalize(ref.CanonicalName)]
		if !ok {
			continue
		}
		// usage bookkeeping must not fail the lookup
		if err := e.store.IncrementSynonymUsage(ctx, ref.CanonicalName, normalized); err != nil && e.log != nil {
			e.log.Warn(e.log.WithField(ctx, "term", normalized), "failed to bump synonym usage")
		}
		e.metrics.IncExactLookup("synonym_hit")
		return &product, nil
	}

	e.metrics.IncExactLookup("miss")
	return nil, nil
}

// SuggestProducts returns up to limit candidates ranked ascending by score.
// The query is expanded through direct synonym hits, matched against the
// weighted corpus, de-duplicated per canonical product, and topped up with a
// plain substring scan when the fuzzy pass comes back short.
func (e *Engine) SuggestProducts(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	if limit <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "suggestion limit must be positive")
	}

	snap := e.cache.Snapshot()
	normalized := Normalize(query)
	terms := e.expandQuery(snap, normalized)

	candidates := collectCandidates(snap, terms, 2*limit)
	results := dedupeByCanonical(snap, candidates)

	if len(results) < limit {
		results = backfillSubstring(snap, normalized, results)
	}

	sortSuggestions(results)
	if len(results) > limit {
		results = results[:limit]
	}
	e.metrics.ObserveSuggestions("fuzzy", len(results))
	return results, nil
}

// SearchWithAutoComplete is SuggestProducts tuned for incremental typing:
// short fragments yield no results instead of an error.
func (e *Engine) SearchWithAutoComplete(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	if len([]rune(Normalize(query))) < minMatchLength {
		return nil, nil
	}
	return e.SuggestProducts(ctx, query, limit)
}

// LearnFromUserChoice records the query as a synonym of the chosen product.
// A new association starts at weight 0.5; repeats raise the weight by 0.1 up
// to 1.0 and bump the usage counter. There is no decay or removal path.
func (e *Engine) LearnFromUserChoice(ctx context.Context, query, chosenName string) error {
	normalizedQuery := Normalize(query)
	normalizedChosen := Normalize(chosenName)
	if normalizedQuery == "" || normalizedQuery == normalizedChosen {
		return nil
	}

	snap := e.cache.Snapshot()
	product, ok := snap.ProductsByName[normalizedChosen]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %q not found", chosenName))
	}

	if err := e.store.ReinforceSynonym(ctx, product.Name, normalizedQuery); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving learned synonym")
	}
	e.metrics.IncLearned()

	if err := e.cache.Rebuild(ctx); err != nil && e.log != nil {
		e.log.Error(ctx, "cache rebuild after learning failed", err)
	}
	return nil
}

// AddSynonym registers an explicit admin-provided synonym.
func (e *Engine) AddSynonym(ctx context.Context, productName, term string, weight float64) error {
	normalizedTerm := Normalize(term)
	if normalizedTerm == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "synonym term required")
	}
	if weight < 0 || weight > 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "synonym weight must be within [0,1]")
	}

	snap := e.cache.Snapshot()
	product, ok := snap.ProductsByName[Normalize(productName)]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %q not found", productName))
	}

	if err := e.store.SaveSynonym(ctx, product.Name, normalizedTerm, weight); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving synonym")
	}

	if err := e.cache.Rebuild(ctx); err != nil && e.log != nil {
		e.log.Error(ctx, "cache rebuild after synonym insert failed", err)
	}
	return nil
}

// SynonymsForProduct lists the stored synonym rows for a canonical name.
func (e *Engine) SynonymsForProduct(ctx context.Context, productName string) ([]models.ProductSynonym, error) {
	return e.store.SynonymsForProduct(ctx, productName)
}

// Categories lists the known catalog categories from the current snapshot.
func (e *Engine) Categories(ctx context.Context) []string {
	return append([]string(nil), e.cache.Snapshot().Categories...)
}

// ProductsByCategory lists the snapshot's products for one category.
func (e *Engine) ProductsByCategory(ctx context.Context, category string) []models.Product {
	products := e.cache.Snapshot().ByCategory[Normalize(category)]
	return append([]models.Product(nil), products...)
}

func (e *Engine) expandQuery(snap *Snapshot, normalized string) []string {
	terms := []string{normalized}
	for _, ref := range snap.Synonyms[normalized] {
		canonical := Normalize(ref.CanonicalName)
		if canonical != "" && canonical != normalized {
			terms = append(terms, canonical)
		}
	}
	return terms
}

type candidate struct {
	entry Entry
	score float64
}

func collectCandidates(snap *Snapshot, terms []string, cap int) []candidate {
	var out []candidate
	for _, entry := range snap.Entries {
		best := 1.0
		ok := false
		for _, term := range terms {
			if score, hit := scoreEntry(term, entry); hit && score < best {
				best = score
				ok = true
			}
		}
		if ok {
			out = append(out, candidate{entry: entry, score: best})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score < out[j].score
		}
		return out[i].entry.CanonicalName < out[j].entry.CanonicalName
	})
	if len(out) > cap {
		out = out[:cap]
	}
	return out
}

func dedupeByCanonical(snap *Snapshot, candidates []candidate) []Suggestion {
	seen := map[string]struct{}{}
	var out []Suggestion
	for _, cand := range candidates {
		key := Normalize(cand.entry.CanonicalName)
		if _, dup := seen[key]; dup {
			continue
		}
		product, ok := snap.ProductsByName[key]
		if !ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Suggestion{Product: product, Score: cand.score, Kind: MatchKindFuzzy})
	}
	return out
}

func backfillSubstring(snap *Snapshot, normalized string, existing []Suggestion) []Suggestion {
	if len([]rune(normalized)) < minMatchLength {
		return existing
	}
	seen := map[string]struct{}{}
	for _, s := range existing {
		seen[Normalize(s.Product.Name)] = struct{}{}
	}
	for _, product := range snap.Products {
		key := Normalize(product.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		if !strings.Contains(key, normalized) && !strings.Contains(Normalize(product.Category), normalized) {
			continue
		}
		seen[key] = struct{}{}
		existing = append(existing, Suggestion{Product: product, Score: substringScore, Kind: MatchKindSubstring})
	}
	return existing
}

func sortSuggestions(suggestions []Suggestion) {
	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score < suggestions[j].Score
		}
		return suggestions[i].Product.Name < suggestions[j].Product.Name
	})
}

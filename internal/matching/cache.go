package matching

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/supplybot/supplybot-backend/pkg/db/models"
	"github.com/supplybot/supplybot-backend/pkg/logger"
)

// CatalogSource loads the catalog rows a snapshot is derived from.
type CatalogSource interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListSynonyms(ctx context.Context) ([]models.ProductSynonym, error)
}

// SynonymRef points a search term back at its canonical product.
type SynonymRef struct {
	CanonicalName string
	Weight        float64
}

// Snapshot is one immutable view of the catalog-derived indexes. Readers get
// whole snapshots; rebuilds swap the pointer and never mutate a published one.
type Snapshot struct {
	Products       []models.Product
	ProductsByName map[string]models.Product
	Synonyms       map[string][]SynonymRef
	ByCategory     map[string][]models.Product
	Categories     []string
	Entries        []Entry
}

// Cache owns the process-wide snapshot of synonym and category indexes plus
// the fuzzy search corpus. A read concurrent with Rebuild sees either the old
// or the new snapshot, never a partial one.
type Cache struct {
	source CatalogSource
	log    *logger.Logger
	snap   atomic.Pointer[Snapshot]
}

// NewCache builds an empty cache; call Rebuild before first use.
func NewCache(source CatalogSource, logg *logger.Logger) (*Cache, error) {
	if source == nil {
		return nil, fmt.Errorf("catalog source required")
	}
	c := &Cache{source: source, log: logg}
	c.snap.Store(emptySnapshot())
	return c, nil
}

// Snapshot returns the current view. Never nil.
func (c *Cache) Snapshot() *Snapshot {
	return c.snap.Load()
}

// Rebuild derives a fresh snapshot from the catalog and swaps it in. On load
// failure the previous snapshot stays published.
func (c *Cache) Rebuild(ctx context.Context) error {
	products, perr := c.source.ListProducts(ctx)
	synonyms, serr := c.source.ListSynonyms(ctx)
	if err := multierr.Combine(perr, serr); err != nil {
		if c.log != nil {
			c.log.Error(ctx, "catalog cache rebuild failed, serving stale snapshot", err)
		}
		return fmt.Errorf("rebuilding catalog cache: %w", err)
	}

	c.snap.Store(buildSnapshot(products, synonyms))

	if c.log != nil {
		c.log.Info(c.log.WithFields(ctx, map[string]any{
			"products": len(products),
			"synonyms": len(synonyms),
		}), "catalog cache rebuilt")
	}
	return nil
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		ProductsByName: map[string]models.Product{},
		Synonyms:       map[string][]SynonymRef{},
		ByCategory:     map[string][]models.Product{},
	}
}

func buildSnapshot(products []models.Product, synonyms []models.ProductSynonym) *Snapshot {
	snap := emptySnapshot()
	snap.Products = products

	for _, p := range products {
		snap.ProductsByName[Normalize(p.Name)] = p

		catKey := Normalize(p.Category)
		if _, seen := snap.ByCategory[catKey]; !seen && catKey != "" {
			snap.Categories = append(snap.Categories, p.Category)
		}
		snap.ByCategory[catKey] = append(snap.ByCategory[catKey], p)

		snap.Entries = append(snap.Entries, Entry{
			Text:          Normalize(p.Name),
			Field:         FieldName,
			CanonicalName: p.Name,
			Category:      Normalize(p.Category),
		})
	}

	for _, syn := range synonyms {
		term := Normalize(syn.Term)
		if term == "" {
			continue
		}
		ref := SynonymRef{CanonicalName: syn.ProductName, Weight: syn.Weight}
		snap.Synonyms[term] = append(snap.Synonyms[term], ref)

		product, ok := snap.ProductsByName[Normalize(syn.ProductName)]
		if !ok {
			// dangling name reference; the row survives but cannot match
			continue
		}
		snap.Entries = append(snap.Entries, Entry{
			Text:          term,
			Field:         FieldSynonym,
			CanonicalName: product.Name,
			Category:      Normalize(product.Category),
		})
	}

	for _, refs := range snap.Synonyms {
		sort.SliceStable(refs, func(i, j int) bool { return refs[i].Weight > refs[j].Weight })
	}
	sort.Strings(snap.Categories)

	return snap
}

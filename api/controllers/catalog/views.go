package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/supplybot/supplybot-backend/internal/matching"
	"github.com/supplybot/supplybot-backend/pkg/db/models"
)

type matchResult struct {
	Matched bool         `json:"matched"`
	Product *productView `json:"product,omitempty"`
}

type productView struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	Unit         string           `json:"unit"`
	AllowedUnits []string         `json:"allowed_units,omitempty"`
	LastPrice    *decimal.Decimal `json:"last_price,omitempty"`
}

type suggestionView struct {
	Product productView `json:"product"`
	Score   float64     `json:"score"`
	Kind    string      `json:"kind"`
}

type synonymView struct {
	Term       string  `json:"term"`
	Weight     float64 `json:"weight"`
	UsageCount int     `json:"usage_count"`
}

type addSynonymRequest struct {
	ProductName string   `json:"product_name" validate:"required"`
	Term        string   `json:"term" validate:"required"`
	Weight      *float64 `json:"weight,omitempty" validate:"omitempty,min=0,max=1"`
}

type learnRequest struct {
	Query      string `json:"query" validate:"required"`
	ChosenName string `json:"chosen_name" validate:"required"`
}

func newProductView(product models.Product) productView {
	view := productView{
		ID:           product.ID,
		Name:         product.Name,
		Category:     product.Category,
		Unit:         product.Unit,
		AllowedUnits: product.AllowedUnits,
	}
	if product.LastPrice.Valid {
		price := product.LastPrice.Decimal
		view.LastPrice = &price
	}
	return view
}

func newSuggestionViews(suggestions []matching.Suggestion) []suggestionView {
	views := make([]suggestionView, 0, len(suggestions))
	for _, suggestion := range suggestions {
		views = append(views, suggestionView{
			Product: newProductView(suggestion.Product),
			Score:   suggestion.Score,
			Kind:    string(suggestion.Kind),
		})
	}
	return views
}

func newSynonymView(synonym models.ProductSynonym) synonymView {
	return synonymView{
		Term:       synonym.Term,
		Weight:     synonym.Weight,
		UsageCount: synonym.UsageCount,
	}
}

package catalog

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/supplybot/supplybot-backend/api/responses"
	"github.com/supplybot/supplybot-backend/api/validators"
	"github.com/supplybot/supplybot-backend/internal/matching"
	"github.com/supplybot/supplybot-backend/pkg/db/models"
	pkgerrors "github.com/supplybot/supplybot-backend/pkg/errors"
	"github.com/supplybot/supplybot-backend/pkg/logger"
)

const maxQueryLength = 200

// Engine is the slice of the matching engine the catalog endpoints need.
type Engine interface {
	FindExactMatch(ctx context.Context, query string) (*models.Product, error)
	SuggestProducts(ctx context.Context, query string, limit int) ([]matching.Suggestion, error)
	SearchWithAutoComplete(ctx context.Context, query string, limit int) ([]matching.Suggestion, error)
	AddSynonym(ctx context.Context, productName, term string, weight float64) error
	LearnFromUserChoice(ctx context.Context, query, chosenName string) error
	SynonymsForProduct(ctx context.Context, productName string) ([]models.ProductSynonym, error)
	Categories(ctx context.Context) []string
	ProductsByCategory(ctx context.Context, category string) []models.Product
}

// Match resolves a query by literal name or synonym equality.
func Match(engine Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := validators.SanitizeString(r.URL.Query().Get("q"), maxQueryLength)
		if query == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "query parameter q is required"))
			return
		}

		product, err := engine.FindExactMatch(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if product == nil {
			responses.WriteSuccess(w, matchResult{Matched: false})
			return
		}
		view := newProductView(*product)
		responses.WriteSuccess(w, matchResult{Matched: true, Product: &view})
	}
}

// Suggest returns ranked fuzzy candidates for a query.
func Suggest(engine Engine, logg *logger.Logger, defaultLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := validators.SanitizeString(r.URL.Query().Get("q"), maxQueryLength)
		if query == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "query parameter q is required"))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", defaultLimit, 1, 50)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		suggestions, err := engine.SuggestProducts(r.Context(), query, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSuggestionViews(suggestions))
	}
}

// AutoComplete serves incremental search-as-you-type lookups.
func AutoComplete(engine Engine, logg *logger.Logger, defaultLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := validators.SanitizeString(r.URL.Query().Get("q"), maxQueryLength)
		limit, err := validators.ParseQueryInt(r, "limit", defaultLimit, 1, 50)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		suggestions, err := engine.SearchWithAutoComplete(r.Context(), query, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSuggestionViews(suggestions))
	}
}

// Categories lists the known catalog categories.
func Categories(engine Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, engine.Categories(r.Context()))
	}
}

// ProductsByCategory lists a category's products for disambiguation UIs.
func ProductsByCategory(engine Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := chi.URLParam(r, "category")
		if category == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "category is required"))
			return
		}

		products := engine.ProductsByCategory(r.Context(), category)
		views := make([]productView, 0, len(products))
		for _, product := range products {
			views = append(views, newProductView(product))
		}
		responses.WriteSuccess(w, views)
	}
}

// AddSynonym registers an explicit synonym for a product.
func AddSynonym(engine Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addSynonymRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		weight := 0.5
		if payload.Weight != nil {
			weight = *payload.Weight
		}
		if err := engine.AddSynonym(r.Context(), payload.ProductName, payload.Term, weight); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "created"})
	}
}

// Learn records a user's query-to-product choice for synonym learning.
func Learn(engine Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload learnRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := engine.LearnFromUserChoice(r.Context(), payload.Query, payload.ChosenName); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "learned"})
	}
}

// ProductSynonyms lists the stored synonyms of one product.
func ProductSynonyms(engine Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if name == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product name is required"))
			return
		}

		synonyms, err := engine.SynonymsForProduct(r.Context(), name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]synonymView, 0, len(synonyms))
		for _, synonym := range synonyms {
			views = append(views, newSynonymView(synonym))
		}
		responses.WriteSuccess(w, views)
	}
}

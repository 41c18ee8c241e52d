package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/supplybot/supplybot-backend/internal/matching"
	"github.com/supplybot/supplybot-backend/pkg/db/models"
	pkgerrors "github.com/supplybot/supplybot-backend/pkg/errors"
)

type stubEngine struct {
	product     *models.Product
	suggestions []matching.Suggestion
	synonyms    []models.ProductSynonym
	categories  []string
	byCategory  []models.Product
	err         error

	lastQuery   string
	lastLimit   int
	lastSynonym struct {
		productName string
		term        string
		weight      float64
	}
	lastLearn [2]string
}

func (s *stubEngine) FindExactMatch(ctx context.Context, query string) (*models.Product, error) {
	s.lastQuery = query
	return s.product, s.err
}

func (s *stubEngine) SuggestProducts(ctx context.Context, query string, limit int) ([]matching.Suggestion, error) {
	s.lastQuery = query
	s.lastLimit = limit
	return s.suggestions, s.err
}

func (s *stubEngine) SearchWithAutoComplete(ctx context.Context, query string, limit int) ([]matching.Suggestion, error) {
	s.lastQuery = query
	s.lastLimit = limit
	return s.suggestions, s.err
}

func (s *stubEngine) AddSynonym(ctx context.Context, productName, term string, weight float64) error {
	s.lastSynonym.productName = productName
	s.lastSynonym.term = term
	s.lastSynonym.weight = weight
	return s.err
}

func (s *stubEngine) LearnFromUserChoice(ctx context.Context, query, chosenName string) error {
	s.lastLearn = [2]string{query, chosenName}
	return s.err
}

func (s *stubEngine) SynonymsForProduct(ctx context.Context, productName string) ([]models.ProductSynonym, error) {
	return s.synonyms, s.err
}

func (s *stubEngine) Categories(ctx context.Context) []string {
	return s.categories
}

func (s *stubEngine) ProductsByCategory(ctx context.Context, category string) []models.Product {
	return s.byCategory
}

func TestMatchFound(t *testing.T) {
	product := &models.Product{ID: uuid.New(), Name: "Tomatoes", Category: "vegetables", Unit: "kg"}
	engine := &stubEngine{product: product}
	handler := Match(engine, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/match?q=tomatoes", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data matchResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Matched {
		t.Fatal("expected a match")
	}
	if envelope.Data.Product == nil || envelope.Data.Product.ID != product.ID {
		t.Fatalf("unexpected product view: %+v", envelope.Data.Product)
	}
	if engine.lastQuery != "tomatoes" {
		t.Fatalf("unexpected query passed to engine: %q", engine.lastQuery)
	}
}

func TestMatchMiss(t *testing.T) {
	handler := Match(&stubEngine{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/match?q=dragonfruit", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data matchResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Matched {
		t.Fatal("expected no match")
	}
	if envelope.Data.Product != nil {
		t.Fatal("expected no product in the miss payload")
	}
}

func TestMatchMissingQuery(t *testing.T) {
	handler := Match(&stubEngine{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/match", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSuggestUsesDefaultLimit(t *testing.T) {
	engine := &stubEngine{
		suggestions: []matching.Suggestion{
			{Product: models.Product{ID: uuid.New(), Name: "Tomatoes"}, Score: 0.1, Kind: matching.MatchKindFuzzy},
		},
	}
	handler := Suggest(engine, nil, 5)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/suggest?q=tomatos", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if engine.lastLimit != 5 {
		t.Fatalf("expected default limit 5, got %d", engine.lastLimit)
	}

	var envelope struct {
		Data []suggestionView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(envelope.Data))
	}
	if envelope.Data[0].Kind != "fuzzy" {
		t.Fatalf("unexpected kind: %s", envelope.Data[0].Kind)
	}
}

func TestSuggestLimitOutOfRange(t *testing.T) {
	handler := Suggest(&stubEngine{}, nil, 5)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/suggest?q=tomatos&limit=900", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAutoCompleteShortQueryReturnsEmptyList(t *testing.T) {
	handler := AutoComplete(&stubEngine{}, nil, 10)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/autocomplete?q=t", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data []suggestionView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 0 {
		t.Fatalf("expected empty list, got %d entries", len(envelope.Data))
	}
}

func TestProductsByCategory(t *testing.T) {
	engine := &stubEngine{
		byCategory: []models.Product{
			{ID: uuid.New(), Name: "Tomatoes", Category: "vegetables", Unit: "kg"},
			{ID: uuid.New(), Name: "Onion", Category: "vegetables", Unit: "kg"},
		},
	}
	router := chi.NewRouter()
	router.Get("/categories/{category}/products", ProductsByCategory(engine, nil))

	req := httptest.NewRequest(http.MethodGet, "/categories/vegetables/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data []productView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("expected 2 products, got %d", len(envelope.Data))
	}
}

func TestAddSynonymSuccess(t *testing.T) {
	engine := &stubEngine{}
	handler := AddSynonym(engine, nil)

	body := `{"product_name": "Tomatoes", "term": "pomodoro", "weight": 0.8}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/synonyms", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if engine.lastSynonym.productName != "Tomatoes" || engine.lastSynonym.term != "pomodoro" {
		t.Fatalf("unexpected synonym call: %+v", engine.lastSynonym)
	}
	if engine.lastSynonym.weight != 0.8 {
		t.Fatalf("unexpected weight: %v", engine.lastSynonym.weight)
	}
}

func TestAddSynonymDefaultWeight(t *testing.T) {
	engine := &stubEngine{}
	handler := AddSynonym(engine, nil)

	body := `{"product_name": "Tomatoes", "term": "pomodoro"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/synonyms", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if engine.lastSynonym.weight != 0.5 {
		t.Fatalf("expected default weight 0.5, got %v", engine.lastSynonym.weight)
	}
}

func TestAddSynonymValidationFails(t *testing.T) {
	handler := AddSynonym(&stubEngine{}, nil)

	body := `{"term": "pomodoro"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/synonyms", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestLearnUnknownProduct(t *testing.T) {
	engine := &stubEngine{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := Learn(engine, nil)

	body := `{"query": "pomidory", "chosen_name": "Nothing"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/learn", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestLearnSuccess(t *testing.T) {
	engine := &stubEngine{}
	handler := Learn(engine, nil)

	body := `{"query": "pomidory", "chosen_name": "Tomatoes"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/learn", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if engine.lastLearn != [2]string{"pomidory", "Tomatoes"} {
		t.Fatalf("unexpected learn call: %v", engine.lastLearn)
	}
}

func TestProductSynonyms(t *testing.T) {
	engine := &stubEngine{
		synonyms: []models.ProductSynonym{
			{ProductName: "Tomatoes", Term: "pomodoro", Weight: 0.9, UsageCount: 4},
			{ProductName: "Tomatoes", Term: "tomate", Weight: 0.5, UsageCount: 1},
		},
	}
	router := chi.NewRouter()
	router.Get("/products/{name}/synonyms", ProductSynonyms(engine, nil))

	req := httptest.NewRequest(http.MethodGet, "/products/Tomatoes/synonyms", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data []synonymView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("expected 2 synonyms, got %d", len(envelope.Data))
	}
	if envelope.Data[0].Term != "pomodoro" || envelope.Data[0].UsageCount != 4 {
		t.Fatalf("unexpected first synonym: %+v", envelope.Data[0])
	}
}

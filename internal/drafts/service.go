package drafts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/supplybot/supplybot-backend/internal/matching"
	"github.com/supplybot/supplybot-backend/internal/notifications"
	"github.com/supplybot/supplybot-backend/internal/parsing"
	"github.com/supplybot/supplybot-backend/pkg/db"
	"github.com/supplybot/supplybot-backend/pkg/db/models"
	"github.com/supplybot/supplybot-backend/pkg/enums"
	pkgerrors "github.com/supplybot/supplybot-backend/pkg/errors"
	"github.com/supplybot/supplybot-backend/pkg/logger"
	"github.com/supplybot/supplybot-backend/pkg/metrics"
	"github.com/supplybot/supplybot-backend/pkg/retry"
)

// qualityGradeKeywords mark product names that are grade variants of a base
// product. An exact hit with grade siblings is never auto-bound.
var qualityGradeKeywords = []string{"premium", "standard", "select", "economy"}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type matchEngine interface {
	FindExactMatch(ctx context.Context, query string) (*models.Product, error)
	SuggestProducts(ctx context.Context, query string, limit int) ([]matching.Suggestion, error)
	LearnFromUserChoice(ctx context.Context, query, chosenName string) error
}

type productLoader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// MatchedItem is a line bound to a product without further questions.
type MatchedItem struct {
	Item    models.DraftOrderItem
	Product models.Product
}

// UnmatchedItem is a stored line awaiting an explicit product choice.
type UnmatchedItem struct {
	Item        models.DraftOrderItem
	Suggestions []matching.Suggestion
}

// UnitClarification is a line whose unit could not be decided; nothing is
// stored until the caller answers with a concrete unit.
type UnitClarification struct {
	Line           string
	Name           string
	Quantity       decimal.Decimal
	CandidateUnits []string
}

// DuplicateCandidate flags a line whose product is already active in the
// draft. The caller decides add/replace/cancel against the existing item.
type DuplicateCandidate struct {
	Existing         models.DraftOrderItem
	Product          models.Product
	ProposedQuantity decimal.Decimal
	Unit             string
}

// LineError records a line that could not be processed at all.
type LineError struct {
	Line   string
	Reason string
}

// ResolutionBundle partitions one batch of parsed lines by outcome.
type ResolutionBundle struct {
	DraftID    uuid.UUID
	Matched    []MatchedItem
	Unmatched  []UnmatchedItem
	NeedsUnit  []UnitClarification
	Duplicates []DuplicateCandidate
	Errors     []LineError
}

// Service orchestrates draft order workflows: reconciling free-text lines
// into items, draft lifecycle, and conversion into immutable orders.
type Service interface {
	ParseAndAddProducts(ctx context.Context, draftID uuid.UUID, text string, actorID uuid.UUID) (*ResolutionBundle, error)
	ConfirmProductMatch(ctx context.Context, itemID, productID, actorID uuid.UUID) (*models.DraftOrderItem, error)
	GetOrCreateDraftOrder(ctx context.Context, actorID uuid.UUID, branchID *uuid.UUID) (*models.DraftOrder, error)
	GetCurrentDraft(ctx context.Context, actorID uuid.UUID, draftID, branchID *uuid.UUID) (*models.DraftOrder, error)
	RemoveItem(ctx context.Context, itemID, actorID uuid.UUID) error
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity decimal.Decimal, actorID uuid.UUID) error
	ConvertToOrder(ctx context.Context, draftID uuid.UUID) (*models.Order, error)
}

type service struct {
	tx              txRunner
	repo            *Repository
	engine          matchEngine
	products        productLoader
	scheduler       *Scheduler
	notifier        notifications.Notifier
	metrics         *metrics.ConversionMetrics
	log             *logger.Logger
	suggestionLimit int
	retryPolicy     retry.Policy
}

// NewService builds the draft order service.
func NewService(
	tx txRunner,
	repo *Repository,
	engine matchEngine,
	products productLoader,
	scheduler *Scheduler,
	notifier notifications.Notifier,
	m *metrics.ConversionMetrics,
	logg *logger.Logger,
	suggestionLimit int,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("draft repository required")
	}
	if engine == nil {
		return nil, fmt.Errorf("match engine required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if scheduler == nil {
		return nil, fmt.Errorf("scheduler required")
	}
	if suggestionLimit <= 0 {
		suggestionLimit = 5
	}
	return &service{
		tx:              tx,
		repo:            repo,
		engine:          engine,
		products:        products,
		scheduler:       scheduler,
		notifier:        notifier,
		metrics:         m,
		log:             logg,
		suggestionLimit: suggestionLimit,
		retryPolicy:     retry.DefaultPolicy,
	}, nil
}

// ParseAndAddProducts runs the reconciliation pipeline over a multi-line
// message. Lines are processed independently: one bad line lands in the
// bundle's error bucket and never aborts the batch.
func (s *service) ParseAndAddProducts(ctx context.Context, draftID uuid.UUID, text string, actorID uuid.UUID) (*ResolutionBundle, error) {
	draft, err := s.authorizedDraft(ctx, draftID, actorID)
	if err != nil {
		return nil, err
	}
	if draft.Status != enums.DraftOrderStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "draft is already sent")
	}

	bundle := &ResolutionBundle{DraftID: draft.ID}
	for _, raw := range strings.Split(text, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if err := s.processLine(ctx, draft, raw, bundle); err != nil {
			bundle.Errors = append(bundle.Errors, LineError{Line: strings.TrimSpace(raw), Reason: err.Error()})
		}
	}
	return bundle, nil
}

func (s *service) processLine(ctx context.Context, draft *models.DraftOrder, raw string, bundle *ResolutionBundle) error {
	line, err := parsing.ParseLine(raw)
	if err != nil {
		return err
	}

	if line.NeedsUnit {
		return s.processUnitlessLine(ctx, draft, line, bundle)
	}

	exact, err := s.engine.FindExactMatch(ctx, line.Name)
	if err != nil {
		return err
	}
	if exact == nil {
		return s.storeUnmatched(ctx, draft, line, nil, bundle)
	}

	variants, err := s.qualityVariants(ctx, line.Name, exact)
	if err != nil {
		return err
	}
	if len(variants) > 0 {
		// grade siblings exist: never auto-bind, offer the exact hit plus
		// all variants as ranked choices
		choices := append([]matching.Suggestion{{Product: *exact, Kind: matching.MatchKindFuzzy}}, variants...)
		return s.storeUnmatched(ctx, draft, line, choices, bundle)
	}

	existing, err := s.repo.ActiveItemForProduct(ctx, draft.ID, exact.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		bundle.Duplicates = append(bundle.Duplicates, DuplicateCandidate{
			Existing:         *existing,
			Product:          *exact,
			ProposedQuantity: line.Quantity,
			Unit:             line.Unit,
		})
		return nil
	}

	if line.UnitImplied && len(exact.AllowedUnits) > 1 {
		bundle.NeedsUnit = append(bundle.NeedsUnit, UnitClarification{
			Line:           line.Original,
			Name:           line.Name,
			Quantity:       line.Quantity,
			CandidateUnits: append([]string(nil), exact.AllowedUnits...),
		})
		return nil
	}

	unit := line.Unit
	if unit == "" {
		unit = exact.Unit
	}
	item := models.DraftOrderItem{
		DraftOrderID:     draft.ID,
		RequestedName:    exact.Name,
		OriginalName:     line.Original,
		Quantity:         line.Quantity,
		Unit:             unit,
		Status:           enums.DraftItemStatusMatched,
		MatchedProductID: &exact.ID,
	}
	if _, err := s.repo.CreateItem(ctx, &item); err != nil {
		return err
	}
	bundle.Matched = append(bundle.Matched, MatchedItem{Item: item, Product: *exact})
	return nil
}

// processUnitlessLine still tries an exact name hit so an already-present
// product surfaces as a duplicate instead of a unit question.
func (s *service) processUnitlessLine(ctx context.Context, draft *models.DraftOrder, line *parsing.ParsedLine, bundle *ResolutionBundle) error {
	exact, err := s.engine.FindExactMatch(ctx, line.Name)
	if err != nil {
		return err
	}
	if exact != nil {
		existing, err := s.repo.ActiveItemForProduct(ctx, draft.ID, exact.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			bundle.Duplicates = append(bundle.Duplicates, DuplicateCandidate{
				Existing:         *existing,
				Product:          *exact,
				ProposedQuantity: line.Quantity,
			})
			return nil
		}
	}

	bundle.NeedsUnit = append(bundle.NeedsUnit, UnitClarification{
		Line:           line.Original,
		Name:           line.Name,
		Quantity:       line.Quantity,
		CandidateUnits: line.CandidateUnits,
	})
	return nil
}

func (s *service) storeUnmatched(ctx context.Context, draft *models.DraftOrder, line *parsing.ParsedLine, choices []matching.Suggestion, bundle *ResolutionBundle) error {
	if choices == nil {
		suggestions, err := s.engine.SuggestProducts(ctx, line.Name, s.suggestionLimit)
		if err != nil {
			return err
		}
		choices = suggestions
	}

	item := models.DraftOrderItem{
		DraftOrderID:  draft.ID,
		RequestedName: line.Name,
		OriginalName:  line.Original,
		Quantity:      line.Quantity,
		Unit:          line.Unit,
		Status:        enums.DraftItemStatusUnmatched,
	}
	if _, err := s.repo.CreateItem(ctx, &item); err != nil {
		return err
	}
	bundle.Unmatched = append(bundle.Unmatched, UnmatchedItem{Item: item, Suggestions: choices})
	return nil
}

// qualityVariants filters fuzzy suggestions down to grade siblings of the
// exact hit: relevant, not the hit itself, and carrying a grade keyword.
func (s *service) qualityVariants(ctx context.Context, query string, exact *models.Product) ([]matching.Suggestion, error) {
	suggestions, err := s.engine.SuggestProducts(ctx, query, s.suggestionLimit)
	if err != nil {
		return nil, err
	}

	exactName := matching.Normalize(exact.Name)
	var variants []matching.Suggestion
	for _, suggestion := range suggestions {
		if suggestion.Kind != matching.MatchKindFuzzy {
			continue
		}
		name := matching.Normalize(suggestion.Product.Name)
		if name == exactName {
			continue
		}
		if containsGradeKeyword(name) {
			variants = append(variants, suggestion)
		}
	}
	return variants, nil
}

func containsGradeKeyword(normalizedName string) bool {
	for _, keyword := range qualityGradeKeywords {
		for _, token := range strings.Fields(normalizedName) {
			if token == keyword {
				return true
			}
		}
	}
	return false
}

// ConfirmProductMatch rebinds an item to the chosen product, refreshes its
// canonical name and unit, and feeds the choice back into synonym learning.
func (s *service) ConfirmProductMatch(ctx context.Context, itemID, productID, actorID uuid.UUID) (*models.DraftOrderItem, error) {
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, notFoundOr(err, "draft item not found")
	}
	if _, err := s.authorizedDraft(ctx, item.DraftOrderID, actorID); err != nil {
		return nil, err
	}

	product, err := s.products.FindProductByID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, "product not found")
	}

	// the extracted name, captured before the rebind overwrites it, is what
	// the user will type again next time
	requestedName := item.RequestedName

	item.RequestedName = product.Name
	if item.Unit == "" {
		item.Unit = product.Unit
	}
	item.Status = enums.DraftItemStatusConfirmed
	item.MatchedProductID = &product.ID
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	if err := s.engine.LearnFromUserChoice(ctx, requestedName, product.Name); err != nil && s.log != nil {
		s.log.Warn(s.log.WithField(ctx, "item_id", item.ID.String()), "synonym learning failed")
	}
	return item, nil
}

// GetOrCreateDraftOrder finds or creates the open draft for the actor's
// restaurant and branch, keeping its scheduled slot fresh.
func (s *service) GetOrCreateDraftOrder(ctx context.Context, actorID uuid.UUID, branchID *uuid.UUID) (*models.DraftOrder, error) {
	user, err := s.repo.FindUserByID(ctx, actorID)
	if err != nil {
		return nil, notFoundOr(err, "actor not found")
	}

	slot, err := s.nextSlot(ctx, user.RestaurantID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindOpenDraft(ctx, user.RestaurantID, branchID)
	if err == nil {
		// refresh the slot; a uniqueness conflict means another draft
		// already took it, which is fine to leave as-is
		if updateErr := s.repo.UpdateDraftSchedule(ctx, existing.ID, slot); updateErr != nil {
			if !db.IsUniqueViolation(updateErr) {
				return nil, updateErr
			}
			if s.log != nil {
				s.log.Warn(s.log.WithDraftID(ctx, existing.ID.String()), "slot refresh collided, keeping previous slot")
			}
		} else {
			existing.ScheduledFor = slot
		}
		return existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	occupant, err := s.repo.FindDraftBySlot(ctx, user.RestaurantID, branchID, slot)
	switch {
	case err == nil && occupant.Status == enums.DraftOrderStatusSent:
		// that delivery already went out; roll forward a day
		slot = slot.AddDate(0, 0, 1)
	case err == nil:
		return occupant, nil
	case err != gorm.ErrRecordNotFound:
		return nil, err
	}

	draft := models.DraftOrder{
		RestaurantID: user.RestaurantID,
		BranchID:     branchID,
		CreatedByID:  user.ID,
		ScheduledFor: slot,
		Status:       enums.DraftOrderStatusDraft,
	}
	return s.repo.CreateDraft(ctx, &draft)
}

// GetCurrentDraft loads a specific draft or the actor's open one.
func (s *service) GetCurrentDraft(ctx context.Context, actorID uuid.UUID, draftID, branchID *uuid.UUID) (*models.DraftOrder, error) {
	if draftID != nil {
		return s.authorizedDraft(ctx, *draftID, actorID)
	}

	user, err := s.repo.FindUserByID(ctx, actorID)
	if err != nil {
		return nil, notFoundOr(err, "actor not found")
	}
	draft, err := s.repo.FindOpenDraft(ctx, user.RestaurantID, branchID)
	if err != nil {
		return nil, notFoundOr(err, "no open draft")
	}
	return draft, nil
}

// RemoveItem deletes one line item from the actor's draft.
func (s *service) RemoveItem(ctx context.Context, itemID, actorID uuid.UUID) error {
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		return notFoundOr(err, "draft item not found")
	}
	if _, err := s.authorizedDraft(ctx, item.DraftOrderID, actorID); err != nil {
		return err
	}
	return s.repo.DeleteItem(ctx, item.ID)
}

// UpdateItemQuantity edits a line's quantity in place.
func (s *service) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity decimal.Decimal, actorID uuid.UUID) error {
	if quantity.Sign() <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		return notFoundOr(err, "draft item not found")
	}
	if _, err := s.authorizedDraft(ctx, item.DraftOrderID, actorID); err != nil {
		return err
	}

	item.Quantity = quantity
	return s.repo.UpdateItem(ctx, item)
}

func (s *service) nextSlot(ctx context.Context, restaurantID uuid.UUID) (time.Time, error) {
	restaurant, err := s.repo.FindRestaurantByID(ctx, restaurantID)
	if err != nil {
		return time.Time{}, notFoundOr(err, "restaurant not found")
	}
	schedule, err := s.repo.FindScheduleByRestaurant(ctx, restaurantID)
	if err != nil {
		return time.Time{}, err
	}
	return s.scheduler.NextScheduledTime(schedule, restaurant), nil
}

// authorizedDraft loads the draft and verifies the actor belongs to its
// restaurant.
func (s *service) authorizedDraft(ctx context.Context, draftID, actorID uuid.UUID) (*models.DraftOrder, error) {
	draft, err := s.repo.FindDraftByID(ctx, draftID)
	if err != nil {
		return nil, notFoundOr(err, "draft not found")
	}
	user, err := s.repo.FindUserByID(ctx, actorID)
	if err != nil {
		return nil, notFoundOr(err, "actor not found")
	}
	if user.RestaurantID != draft.RestaurantID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "actor does not belong to the draft's restaurant")
	}
	return draft, nil
}

func notFoundOr(err error, message string) error {
	if err == gorm.ErrRecordNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	return err
}

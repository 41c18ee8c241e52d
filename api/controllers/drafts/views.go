package drafts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	draftsvc "github.com/supplybot/supplybot-backend/internal/drafts"
	"github.com/supplybot/supplybot-backend/pkg/db/models"
)

type addLinesRequest struct {
	Text string `json:"text" validate:"required"`
}

type openDraftRequest struct {
	BranchID *uuid.UUID `json:"branch_id,omitempty"`
}

type confirmItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type updateQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
}

type itemView struct {
	ID               uuid.UUID       `json:"id"`
	RequestedName    string          `json:"requested_name"`
	OriginalName     string          `json:"original_name"`
	Quantity         decimal.Decimal `json:"quantity"`
	Unit             string          `json:"unit"`
	Status           string          `json:"status"`
	MatchedProductID *uuid.UUID      `json:"matched_product_id,omitempty"`
}

type draftView struct {
	ID           uuid.UUID  `json:"id"`
	RestaurantID uuid.UUID  `json:"restaurant_id"`
	BranchID     *uuid.UUID `json:"branch_id,omitempty"`
	ScheduledFor time.Time  `json:"scheduled_for"`
	Status       string     `json:"status"`
	Items        []itemView `json:"items"`
}

type suggestionView struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Score     float64   `json:"score"`
	Kind      string    `json:"kind"`
}

type matchedView struct {
	Item    itemView `json:"item"`
	Product string   `json:"product"`
}

type unmatchedView struct {
	Item        itemView         `json:"item"`
	Suggestions []suggestionView `json:"suggestions"`
}

type needsUnitView struct {
	Line           string          `json:"line"`
	Name           string          `json:"name"`
	Quantity       decimal.Decimal `json:"quantity"`
	CandidateUnits []string        `json:"candidate_units"`
}

type duplicateView struct {
	ExistingItem     itemView        `json:"existing_item"`
	Product          string          `json:"product"`
	ProposedQuantity decimal.Decimal `json:"proposed_quantity"`
	Unit             string          `json:"unit,omitempty"`
}

type lineErrorView struct {
	Line   string `json:"line"`
	Reason string `json:"reason"`
}

type bundleView struct {
	DraftID    uuid.UUID       `json:"draft_id"`
	Matched    []matchedView   `json:"matched"`
	Unmatched  []unmatchedView `json:"unmatched"`
	NeedsUnit  []needsUnitView `json:"needs_unit_clarification"`
	Duplicates []duplicateView `json:"duplicates"`
	Errors     []lineErrorView `json:"errors"`
}

type orderItemView struct {
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
}

type orderView struct {
	ID           uuid.UUID       `json:"id"`
	DraftOrderID uuid.UUID       `json:"draft_order_id"`
	RestaurantID uuid.UUID       `json:"restaurant_id"`
	BranchID     *uuid.UUID      `json:"branch_id,omitempty"`
	ScheduledFor time.Time       `json:"scheduled_for"`
	SentAt       time.Time       `json:"sent_at"`
	TotalCents   *int            `json:"total_cents"`
	Items        []orderItemView `json:"items"`
}

func newItemView(item models.DraftOrderItem) itemView {
	return itemView{
		ID:               item.ID,
		RequestedName:    item.RequestedName,
		OriginalName:     item.OriginalName,
		Quantity:         item.Quantity,
		Unit:             item.Unit,
		Status:           item.Status.String(),
		MatchedProductID: item.MatchedProductID,
	}
}

func newDraftView(draft *models.DraftOrder) draftView {
	items := make([]itemView, 0, len(draft.Items))
	for _, item := range draft.Items {
		items = append(items, newItemView(item))
	}
	return draftView{
		ID:           draft.ID,
		RestaurantID: draft.RestaurantID,
		BranchID:     draft.BranchID,
		ScheduledFor: draft.ScheduledFor,
		Status:       draft.Status.String(),
		Items:        items,
	}
}

func newBundleView(bundle *draftsvc.ResolutionBundle) bundleView {
	view := bundleView{
		DraftID:    bundle.DraftID,
		Matched:    make([]matchedView, 0, len(bundle.Matched)),
		Unmatched:  make([]unmatchedView, 0, len(bundle.Unmatched)),
		NeedsUnit:  make([]needsUnitView, 0, len(bundle.NeedsUnit)),
		Duplicates: make([]duplicateView, 0, len(bundle.Duplicates)),
		Errors:     make([]lineErrorView, 0, len(bundle.Errors)),
	}
	for _, matched := range bundle.Matched {
		view.Matched = append(view.Matched, matchedView{
			Item:    newItemView(matched.Item),
			Product: matched.Product.Name,
		})
	}
	for _, unmatched := range bundle.Unmatched {
		suggestions := make([]suggestionView, 0, len(unmatched.Suggestions))
		for _, suggestion := range unmatched.Suggestions {
			suggestions = append(suggestions, suggestionView{
				ProductID: suggestion.Product.ID,
				Name:      suggestion.Product.Name,
				Category:  suggestion.Product.Category,
				Score:     suggestion.Score,
				Kind:      string(suggestion.Kind),
			})
		}
		view.Unmatched = append(view.Unmatched, unmatchedView{
			Item:        newItemView(unmatched.Item),
			Suggestions: suggestions,
		})
	}
	for _, clarification := range bundle.NeedsUnit {
		view.NeedsUnit = append(view.NeedsUnit, needsUnitView{
			Line:           clarification.Line,
			Name:           clarification.Name,
			Quantity:       clarification.Quantity,
			CandidateUnits: clarification.CandidateUnits,
		})
	}
	for _, duplicate := range bundle.Duplicates {
		view.Duplicates = append(view.Duplicates, duplicateView{
			ExistingItem:     newItemView(duplicate.Existing),
			Product:          duplicate.Product.Name,
			ProposedQuantity: duplicate.ProposedQuantity,
			Unit:             duplicate.Unit,
		})
	}
	for _, lineErr := range bundle.Errors {
		view.Errors = append(view.Errors, lineErrorView{Line: lineErr.Line, Reason: lineErr.Reason})
	}
	return view
}

func newOrderView(order *models.Order) orderView {
	items := make([]orderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemView{
			Name:      item.Name,
			Quantity:  item.Quantity,
			Unit:      item.Unit,
			ProductID: item.ProductID,
		})
	}
	return orderView{
		ID:           order.ID,
		DraftOrderID: order.DraftOrderID,
		RestaurantID: order.RestaurantID,
		BranchID:     order.BranchID,
		ScheduledFor: order.ScheduledFor,
		SentAt:       order.SentAt,
		TotalCents:   order.TotalCents,
		Items:        items,
	}
}

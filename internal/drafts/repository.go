package drafts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/supplybot/supplybot-backend/pkg/db/models"
	"github.com/supplybot/supplybot-backend/pkg/enums"
)

// Repository wires draft order persistence: drafts, their line items, the
// immutable orders produced by conversion, and the recurring schedules.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindDraftByID loads a draft with its items.
func (r *Repository) FindDraftByID(ctx context.Context, id uuid.UUID) (*models.DraftOrder, error) {
	var draft models.DraftOrder
	if err := r.db.WithContext(ctx).Preload("Items").First(&draft, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

// FindDraftForUpdate loads a draft under a row-level update lock. Call this
// only inside a transaction; SQLite has no FOR UPDATE so the lock clause is
// applied on postgres only, where its file-level write lock serializes anyway.
func (r *Repository) FindDraftForUpdate(ctx context.Context, id uuid.UUID) (*models.DraftOrder, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var draft models.DraftOrder
	if err := query.First(&draft, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

// FindOpenDraft returns the draft-status row for (restaurant, branch), if any.
func (r *Repository) FindOpenDraft(ctx context.Context, restaurantID uuid.UUID, branchID *uuid.UUID) (*models.DraftOrder, error) {
	query := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND status = ?", restaurantID, enums.DraftOrderStatusDraft)
	query = scopeBranch(query, branchID)

	var draft models.DraftOrder
	if err := query.Preload("Items").First(&draft).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

// FindDraftBySlot returns whichever row occupies the exact
// (restaurant, branch, scheduled slot), regardless of status.
func (r *Repository) FindDraftBySlot(ctx context.Context, restaurantID uuid.UUID, branchID *uuid.UUID, slot time.Time) (*models.DraftOrder, error) {
	query := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND scheduled_for = ?", restaurantID, slot)
	query = scopeBranch(query, branchID)

	var draft models.DraftOrder
	if err := query.First(&draft).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

// CreateDraft inserts a new draft row.
func (r *Repository) CreateDraft(ctx context.Context, draft *models.DraftOrder) (*models.DraftOrder, error) {
	if err := r.db.WithContext(ctx).Create(draft).Error; err != nil {
		return nil, err
	}
	return draft, nil
}

// UpdateDraftSchedule moves the draft to a new scheduled slot.
func (r *Repository) UpdateDraftSchedule(ctx context.Context, draftID uuid.UUID, slot time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.DraftOrder{}).
		Where("id = ?", draftID).
		Update("scheduled_for", slot).Error
}

// UpdateDraftStatus flips the draft's lifecycle status.
func (r *Repository) UpdateDraftStatus(ctx context.Context, draftID uuid.UUID, status enums.DraftOrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.DraftOrder{}).
		Where("id = ?", draftID).
		Update("status", status).Error
}

// CreateItem inserts one draft line item.
func (r *Repository) CreateItem(ctx context.Context, item *models.DraftOrderItem) (*models.DraftOrderItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindItemByID loads one line item.
func (r *Repository) FindItemByID(ctx context.Context, id uuid.UUID) (*models.DraftOrderItem, error) {
	var item models.DraftOrderItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem persists the mutable columns of a line item.
func (r *Repository) UpdateItem(ctx context.Context, item *models.DraftOrderItem) error {
	return r.db.WithContext(ctx).
		Model(&models.DraftOrderItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"requested_name":     item.RequestedName,
			"quantity":           item.Quantity,
			"unit":               item.Unit,
			"status":             item.Status,
			"matched_product_id": item.MatchedProductID,
		}).Error
}

// DeleteItem removes one line item.
func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.DraftOrderItem{}, "id = ?", id).Error
}

// ActiveItems lists the draft's matched and confirmed items.
func (r *Repository) ActiveItems(ctx context.Context, draftID uuid.UUID) ([]models.DraftOrderItem, error) {
	var items []models.DraftOrderItem
	if err := r.db.WithContext(ctx).
		Where("draft_order_id = ? AND status IN ?", draftID, []enums.DraftItemStatus{
			enums.DraftItemStatusMatched,
			enums.DraftItemStatusConfirmed,
		}).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ActiveItemForProduct returns the draft's matched/confirmed item bound to
// the product, or nil when none exists.
func (r *Repository) ActiveItemForProduct(ctx context.Context, draftID, productID uuid.UUID) (*models.DraftOrderItem, error) {
	var item models.DraftOrderItem
	err := r.db.WithContext(ctx).
		Where("draft_order_id = ? AND matched_product_id = ? AND status IN ?", draftID, productID, []enums.DraftItemStatus{
			enums.DraftItemStatusMatched,
			enums.DraftItemStatusConfirmed,
		}).
		First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// CreateOrder inserts the immutable order snapshot with its items.
func (r *Repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindScheduleByRestaurant loads the restaurant's recurring schedule, if any.
func (r *Repository) FindScheduleByRestaurant(ctx context.Context, restaurantID uuid.UUID) (*models.Schedule, error) {
	var schedule models.Schedule
	err := r.db.WithContext(ctx).First(&schedule, "restaurant_id = ?", restaurantID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

// FindUserByID loads a staff member for authorization checks.
func (r *Repository) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindRestaurantByID loads the tenant row, mainly for its timezone.
func (r *Repository) FindRestaurantByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).First(&restaurant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func scopeBranch(query *gorm.DB, branchID *uuid.UUID) *gorm.DB {
	if branchID == nil {
		return query.Where("branch_id IS NULL")
	}
	return query.Where("branch_id = ?", *branchID)
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/supplybot/supplybot-backend/pkg/enums"
	"gorm.io/gorm"
)

// DraftOrderItem is one requested line inside a draft. MatchedProductID is a
// weak reference: absent until the line resolves to a catalog product.
type DraftOrderItem struct {
	ID               uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	DraftOrderID     uuid.UUID             `gorm:"column:draft_order_id;type:uuid;not null;index"`
	RequestedName    string                `gorm:"column:requested_name;not null"`
	OriginalName     string                `gorm:"column:original_name;not null"`
	Quantity         decimal.Decimal       `gorm:"column:quantity;type:numeric(12,3);not null"`
	Unit             string                `gorm:"column:unit;not null;default:''"`
	Status           enums.DraftItemStatus `gorm:"column:status;not null;default:'unmatched';index"`
	MatchedProductID *uuid.UUID            `gorm:"column:matched_product_id;type:uuid"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *DraftOrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

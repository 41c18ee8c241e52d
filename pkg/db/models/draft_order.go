package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/supplybot/supplybot-backend/pkg/enums"
	"gorm.io/gorm"
)

// DraftOrder is the mutable order-in-progress for one restaurant/branch pair.
// Status moves draft→sent exactly once, only through conversion.
type DraftOrder struct {
	ID           uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	RestaurantID uuid.UUID              `gorm:"column:restaurant_id;type:uuid;not null;index"`
	BranchID     *uuid.UUID             `gorm:"column:branch_id;type:uuid;index"`
	CreatedByID  uuid.UUID              `gorm:"column:created_by_id;type:uuid;not null"`
	ScheduledFor time.Time              `gorm:"column:scheduled_for;not null"`
	Status       enums.DraftOrderStatus `gorm:"column:status;not null;default:'draft';index"`
	Items        []DraftOrderItem       `gorm:"foreignKey:DraftOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (d *DraftOrder) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order is the immutable snapshot produced when a draft is sent. TotalCents
// stays null until the manual pricing step fills it in.
type Order struct {
	ID           uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	RestaurantID uuid.UUID   `gorm:"column:restaurant_id;type:uuid;not null;index"`
	BranchID     *uuid.UUID  `gorm:"column:branch_id;type:uuid"`
	DraftOrderID uuid.UUID   `gorm:"column:draft_order_id;type:uuid;not null;uniqueIndex"`
	ScheduledFor time.Time   `gorm:"column:scheduled_for;not null"`
	SentAt       time.Time   `gorm:"column:sent_at;not null"`
	TotalCents   *int        `gorm:"column:total_cents"`
	Items        []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time   `gorm:"column:created_at;autoCreateTime"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

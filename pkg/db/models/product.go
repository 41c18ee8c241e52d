package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog entry. Name is unique and doubles as the join key for
// synonym rows, which reference products by name string rather than id.
type Product struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Name          string              `gorm:"column:name;not null;uniqueIndex"`
	Category      string              `gorm:"column:category;not null;index"`
	Unit          string              `gorm:"column:unit;not null"`
	AllowedUnits  pq.StringArray      `gorm:"column:allowed_units;type:text[]"`
	LastPrice     decimal.NullDecimal `gorm:"column:last_price;type:numeric(12,2)"`
	PreviousPrice decimal.NullDecimal `gorm:"column:previous_price;type:numeric(12,2)"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

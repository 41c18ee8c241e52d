package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductSynonym maps an alternate term to a canonical product by name.
// Renaming a product must cascade to all synonym rows referencing its old
// name; nothing else keeps the weak reference consistent.
type ProductSynonym struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductName string    `gorm:"column:product_name;not null;uniqueIndex:uq_product_synonyms_term"`
	Term        string    `gorm:"column:term;not null;uniqueIndex:uq_product_synonyms_term"`
	Weight      float64   `gorm:"column:weight;not null;default:0.5"`
	UsageCount  int       `gorm:"column:usage_count;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *ProductSynonym) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

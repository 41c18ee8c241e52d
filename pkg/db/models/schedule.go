package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Schedule describes a restaurant's recurring send slot: a set of active
// weekdays plus a local time of day. NextRunAt, when present, is an already
// computed absolute instant that takes precedence over the weekly mask.
type Schedule struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	RestaurantID uuid.UUID      `gorm:"column:restaurant_id;type:uuid;not null;uniqueIndex"`
	Active       bool           `gorm:"column:active;not null;default:true"`
	Days         pq.StringArray `gorm:"column:days;type:text[]"`
	SendTime     string         `gorm:"column:send_time;not null;default:'10:00'"`
	NextRunAt    *time.Time     `gorm:"column:next_run_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *Schedule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

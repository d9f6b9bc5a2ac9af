package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Habit log statuses
const (
	LogStatusDone    = "done"
	LogStatusMissed  = "missed"
	LogStatusSkipped = "skipped"
)

// HabitLog records one dated check-in per habit. HabitID + DateKey is unique
// so re-logging the same day overwrites instead of duplicating.
type HabitLog struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	HabitID   uuid.UUID      `json:"habitId" gorm:"type:uuid;not null;index;index:idx_habit_log_day,unique"`
	DateKey   string         `json:"dateKey" gorm:"not null;index:idx_habit_log_day,unique"` // YYYY-MM-DD, UTC
	Status    string         `json:"status" gorm:"not null;default:'done'"`                  // done, missed, skipped
	Note      *string        `json:"note"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (l *HabitLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

type LogHabitRequest struct {
	DateKey string  `json:"dateKey" validate:"required"`
	Status  string  `json:"status"`
	Note    *string `json:"note"`
}

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Habit frequencies
const (
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
)

type Habit struct {
	ID                uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	Title             string         `json:"title" gorm:"not null"`
	Description       *string        `json:"description"`
	Frequency         string         `json:"frequency" gorm:"not null;default:'daily'"` // daily, weekly
	ScheduleDays      datatypes.JSON `json:"scheduleDays" gorm:"type:jsonb"`            // weekday numbers 0-6, Sunday = 0
	TargetCompletions *int           `json:"targetCompletions"`
	TargetDays        *int           `json:"targetDays"`
	TotalCompletions  int            `json:"totalCompletions" gorm:"default:0"`
	TotalDays         int            `json:"totalDays" gorm:"default:0"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
	Logs              []HabitLog     `json:"logs,omitempty" gorm:"foreignKey:HabitID"`
}

func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// HasTarget reports whether the habit has an explicit numeric target
// configured. Habits without one can only be scored via the scheduled-day
// fallback and may not be linked into a goal division.
func (h *Habit) HasTarget() bool {
	return (h.TargetCompletions != nil && *h.TargetCompletions > 0) ||
		(h.TargetDays != nil && *h.TargetDays > 0)
}

// ScheduleDaySet decodes ScheduleDays into a weekday lookup set.
// An empty or malformed column yields an empty set.
func (h *Habit) ScheduleDaySet() map[time.Weekday]bool {
	set := make(map[time.Weekday]bool)
	if len(h.ScheduleDays) == 0 {
		return set
	}
	var days []int
	if err := json.Unmarshal(h.ScheduleDays, &days); err != nil {
		return set
	}
	for _, d := range days {
		if d >= 0 && d <= 6 {
			set[time.Weekday(d)] = true
		}
	}
	return set
}

// Habit DTOs
type CreateHabitRequest struct {
	Title             string  `json:"title" validate:"required"`
	Description       *string `json:"description"`
	Frequency         string  `json:"frequency"`
	ScheduleDays      []int   `json:"scheduleDays"`
	TargetCompletions *int    `json:"targetCompletions"`
	TargetDays        *int    `json:"targetDays"`
}

type UpdateHabitRequest struct {
	Title             *string `json:"title"`
	Description       *string `json:"description"`
	Frequency         *string `json:"frequency"`
	ScheduleDays      []int   `json:"scheduleDays"`
	TargetCompletions *int    `json:"targetCompletions"`
	TargetDays        *int    `json:"targetDays"`
}

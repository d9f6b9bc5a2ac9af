package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GoalDivision is the schema-flexible document holding a goal's sub-goals and
// habit links. The JSON columns are decoded into typed lists by the division
// store; LastComputed is an advisory display cache, never a read dependency
// of progress computation.
type GoalDivision struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	GoalID       uuid.UUID      `json:"goalId" gorm:"type:uuid;uniqueIndex;not null"`
	SubGoals     datatypes.JSON `json:"subGoals" gorm:"type:jsonb;not null;default:'[]'"`
	HabitLinks   datatypes.JSON `json:"habitLinks" gorm:"type:jsonb;not null;default:'[]'"`
	LastComputed datatypes.JSON `json:"lastComputed" gorm:"type:jsonb"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

func (d *GoalDivision) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Goal struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	Title       string         `json:"title" gorm:"not null"`
	Description *string        `json:"description"`
	ImageURL    *string        `json:"imageUrl"`
	IsCompleted bool           `json:"isCompleted" gorm:"default:false"`
	CompletedAt *time.Time     `json:"completedAt"`
	StartDate   *time.Time     `json:"startDate"`
	TargetDate  *time.Time     `json:"targetDate"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// Goal DTOs
type CreateGoalRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description *string    `json:"description"`
	ImageURL    *string    `json:"imageUrl"`
	StartDate   *time.Time `json:"startDate"`
	TargetDate  *time.Time `json:"targetDate"`
}

type UpdateGoalRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	ImageURL    *string    `json:"imageUrl"`
	StartDate   *time.Time `json:"startDate"`
	TargetDate  *time.Time `json:"targetDate"`
	IsCompleted *bool      `json:"isCompleted"`
}

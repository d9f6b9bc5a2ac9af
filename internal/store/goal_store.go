package store

import (
	"context"
	"errors"

	"github.com/arnold/stridegoals-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GoalStore reads goal rows for the division engine.
type GoalStore struct {
	db *gorm.DB
}

func NewGoalStore(db *gorm.DB) *GoalStore {
	return &GoalStore{db: db}
}

func (s *GoalStore) GetGoalByID(ctx context.Context, id uuid.UUID) (*models.Goal, error) {
	var goal models.Goal
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *GoalStore) GetGoalsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Goal, error) {
	out := make(map[uuid.UUID]models.Goal, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var goals []models.Goal
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&goals).Error; err != nil {
		return nil, err
	}
	for _, g := range goals {
		out[g.ID] = g
	}
	return out, nil
}

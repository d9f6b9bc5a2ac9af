package store

import (
	"context"
	"errors"

	"github.com/arnold/stridegoals-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HabitStore reads habit configuration and counters. The division engine
// never writes through it; counters are maintained by the habit log handlers.
type HabitStore struct {
	db *gorm.DB
}

func NewHabitStore(db *gorm.DB) *HabitStore {
	return &HabitStore{db: db}
}

func (s *HabitStore) GetHabit(ctx context.Context, id, ownerID uuid.UUID) (*models.Habit, error) {
	var habit models.Habit
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).First(&habit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &habit, nil
}

func (s *HabitStore) GetHabitsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Habit, error) {
	out := make(map[uuid.UUID]models.Habit, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var habits []models.Habit
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&habits).Error; err != nil {
		return nil, err
	}
	for _, h := range habits {
		out[h.ID] = h
	}
	return out, nil
}

// HabitLogStore reads dated log entries for the scheduled-day fallback.
type HabitLogStore struct {
	db *gorm.DB
}

func NewHabitLogStore(db *gorm.DB) *HabitLogStore {
	return &HabitLogStore{db: db}
}

func (s *HabitLogStore) GetHabitLogs(ctx context.Context, habitID uuid.UUID, startKey, endKey string) ([]models.HabitLog, error) {
	var logs []models.HabitLog
	err := s.db.WithContext(ctx).
		Where("habit_id = ? AND date_key >= ? AND date_key <= ?", habitID, startKey, endKey).
		Order("date_key").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

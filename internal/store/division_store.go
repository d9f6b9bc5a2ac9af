package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/arnold/stridegoals-api/internal/division"
	"github.com/arnold/stridegoals-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DivisionStore persists GoalDivision documents, translating between the
// engine's typed lists and the schema-flexible JSON columns.
type DivisionStore struct {
	db *gorm.DB
}

func NewDivisionStore(db *gorm.DB) *DivisionStore {
	return &DivisionStore{db: db}
}

func (s *DivisionStore) Find(ctx context.Context, goalID uuid.UUID) (*division.Doc, error) {
	row, err := s.findRow(ctx, goalID)
	if err != nil || row == nil {
		return nil, err
	}
	return decodeRow(row)
}

func (s *DivisionStore) ReplaceSubGoals(ctx context.Context, goalID uuid.UUID, subGoals []division.SubGoal) (*division.Doc, error) {
	raw, err := json.Marshal(subGoals)
	if err != nil {
		return nil, err
	}
	return s.upsertColumn(ctx, goalID, "sub_goals", raw)
}

func (s *DivisionStore) ReplaceHabitLinks(ctx context.Context, goalID uuid.UUID, links []division.HabitLink) (*division.Doc, error) {
	raw, err := json.Marshal(links)
	if err != nil {
		return nil, err
	}
	return s.upsertColumn(ctx, goalID, "habit_links", raw)
}

func (s *DivisionStore) SaveSnapshot(ctx context.Context, goalID uuid.UUID, snap division.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = s.upsertColumn(ctx, goalID, "last_computed", raw)
	return err
}

// DeleteForGoal removes a goal's division; called from the goal delete
// cascade, not by the engine.
func (s *DivisionStore) DeleteForGoal(ctx context.Context, goalID uuid.UUID) error {
	return s.db.WithContext(ctx).Where("goal_id = ?", goalID).Delete(&models.GoalDivision{}).Error
}

func (s *DivisionStore) findRow(ctx context.Context, goalID uuid.UUID) (*models.GoalDivision, error) {
	var row models.GoalDivision
	err := s.db.WithContext(ctx).Where("goal_id = ?", goalID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// upsertColumn sets one JSON column, creating the division row lazily on the
// first edit.
func (s *DivisionStore) upsertColumn(ctx context.Context, goalID uuid.UUID, column string, raw []byte) (*division.Doc, error) {
	row, err := s.findRow(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		row = &models.GoalDivision{
			GoalID:     goalID,
			SubGoals:   datatypes.JSON([]byte("[]")),
			HabitLinks: datatypes.JSON([]byte("[]")),
		}
	}
	switch column {
	case "sub_goals":
		row.SubGoals = datatypes.JSON(raw)
	case "habit_links":
		row.HabitLinks = datatypes.JSON(raw)
	case "last_computed":
		row.LastComputed = datatypes.JSON(raw)
	}
	if err := s.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return decodeRow(row)
}

func decodeRow(row *models.GoalDivision) (*division.Doc, error) {
	doc := &division.Doc{}
	if len(row.SubGoals) > 0 {
		if err := json.Unmarshal(row.SubGoals, &doc.SubGoals); err != nil {
			return nil, fmt.Errorf("decode sub-goals for goal %s: %w", row.GoalID, err)
		}
	}
	if len(row.HabitLinks) > 0 {
		if err := json.Unmarshal(row.HabitLinks, &doc.HabitLinks); err != nil {
			return nil, fmt.Errorf("decode habit links for goal %s: %w", row.GoalID, err)
		}
	}
	if len(row.LastComputed) > 0 {
		var snap division.Snapshot
		if err := json.Unmarshal(row.LastComputed, &snap); err != nil {
			return nil, fmt.Errorf("decode snapshot for goal %s: %w", row.GoalID, err)
		}
		doc.LastComputed = &snap
	}
	return doc, nil
}

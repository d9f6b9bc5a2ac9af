package division

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ToggleSubGoal flips one sub-goal's completion flag, adjusting its timestamp
// and optionally its note, without touching weights or other entries. No
// recomputation happens here; progress is recomputed on the next read.
func (s *Service) ToggleSubGoal(ctx context.Context, goalID, userID uuid.UUID, index int, completed bool, note *string) (*GoalWithDivision, error) {
	goal, err := s.ownedGoal(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}

	lock := s.locks.forGoal(goalID)
	lock.Lock()
	defer lock.Unlock()

	doc, err := s.divisions.Find(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if doc == nil || index < 0 || index >= len(doc.SubGoals) {
		return nil, fmt.Errorf("%w: sub-goal index %d out of range", ErrInvalidArgument, index)
	}

	sg := doc.SubGoals[index]
	sg.Completed = completed
	if completed {
		now := time.Now().UTC()
		sg.CompletedAt = &now
	} else {
		sg.CompletedAt = nil
	}
	if note != nil {
		sg.Note = note
	}
	doc.SubGoals[index] = sg

	updated, err := s.divisions.ReplaceSubGoals(ctx, goalID, doc.SubGoals)
	if err != nil {
		return nil, err
	}

	s.emit(goalID, userID, ActionSubGoalToggled, 1, 0)

	return merged(goal, updated), nil
}

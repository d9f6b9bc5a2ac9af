// Package division implements the goal progress and division computation
// engine: weighted sub-goals (binary, optionally delegated to another goal)
// and weighted habit links (continuous, driven by habit counters) combined
// into a single completion percentage with a full contribution breakdown.
//
// The engine is transport-free. It reads goals, habits, and habit logs
// through store interfaces and owns only the GoalDivision document.
package division

import (
	"context"
	"fmt"

	"github.com/arnold/stridegoals-api/internal/models"
	"github.com/google/uuid"
)

// GoalStore reads goal ownership and completion state. Lookups return
// (nil, nil) when the goal does not exist.
type GoalStore interface {
	GetGoalByID(ctx context.Context, id uuid.UUID) (*models.Goal, error)
	GetGoalsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Goal, error)
}

// HabitStore reads habit target configuration and lifetime counters.
// The engine never writes habit state.
type HabitStore interface {
	GetHabit(ctx context.Context, id, ownerID uuid.UUID) (*models.Habit, error)
	GetHabitsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Habit, error)
}

// HabitLogStore reads dated log entries for the scheduled-day fallback.
// Date keys are YYYY-MM-DD in UTC; the range is inclusive.
type HabitLogStore interface {
	GetHabitLogs(ctx context.Context, habitID uuid.UUID, startKey, endKey string) ([]models.HabitLog, error)
}

// DivisionStore persists the division document. Find returns (nil, nil) when
// no division exists yet; the Replace methods create one lazily.
type DivisionStore interface {
	Find(ctx context.Context, goalID uuid.UUID) (*Doc, error)
	ReplaceSubGoals(ctx context.Context, goalID uuid.UUID, subGoals []SubGoal) (*Doc, error)
	ReplaceHabitLinks(ctx context.Context, goalID uuid.UUID, links []HabitLink) (*Doc, error)
	SaveSnapshot(ctx context.Context, goalID uuid.UUID, snap Snapshot) error
}

// EventSink receives collaborator-facing notifications about division edits
// (activity feed, websocket fan-out). Failures there must never affect the
// edit itself, so the sink is fire-and-forget.
type EventSink interface {
	DivisionEdited(goalID, userID uuid.UUID, action string, added, removed int)
}

// Service is the engine. Write operations are serialized per goal; reads are
// lock-free and recompute from current state on every call.
type Service struct {
	goals     GoalStore
	habits    HabitStore
	logs      HabitLogStore
	divisions DivisionStore
	events    EventSink // optional
	locks     goalLocks
}

func New(goals GoalStore, habits HabitStore, logs HabitLogStore, divisions DivisionStore, events EventSink) *Service {
	return &Service{
		goals:     goals,
		habits:    habits,
		logs:      logs,
		divisions: divisions,
		events:    events,
	}
}

// ownedGoal loads a goal and enforces that userID owns it.
func (s *Service) ownedGoal(ctx context.Context, goalID, userID uuid.UUID) (*models.Goal, error) {
	goal, err := s.goals.GetGoalByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		return nil, fmt.Errorf("%w: goal %s", ErrNotFound, goalID)
	}
	if goal.UserID != userID {
		return nil, fmt.Errorf("%w: goal %s is not owned by caller", ErrForbidden, goalID)
	}
	return goal, nil
}

func (s *Service) emit(goalID, userID uuid.UUID, action string, added, removed int) {
	if s.events != nil {
		s.events.DivisionEdited(goalID, userID, action, added, removed)
	}
}

func merged(goal *models.Goal, doc *Doc) *GoalWithDivision {
	out := &GoalWithDivision{Goal: *goal}
	if doc != nil {
		out.SubGoals = doc.SubGoals
		out.HabitLinks = doc.HabitLinks
		out.LastComputed = doc.LastComputed
	}
	if out.SubGoals == nil {
		out.SubGoals = []SubGoal{}
	}
	if out.HabitLinks == nil {
		out.HabitLinks = []HabitLink{}
	}
	return out
}

package division

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SetSubGoals validates and replaces the goal's sub-goal list.
//
// Per-item junk (out-of-range weight, no title and no link) is dropped
// silently so bad client entries don't block good ones. Invalid graph edges
// abort the whole call: a sub-goal may not link to its own goal, to a goal
// the caller doesn't own, or to a goal that already has a division of its own
// (nesting is capped at one level to keep the delegation graph acyclic).
func (s *Service) SetSubGoals(ctx context.Context, goalID, userID uuid.UUID, raw []SubGoal) (*GoalWithDivision, error) {
	goal, err := s.ownedGoal(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}

	clean := make([]SubGoal, 0, len(raw))
	var linkedIDs []uuid.UUID
	for _, sg := range raw {
		if !validWeight(sg.Weight) {
			continue
		}
		if sg.Title == "" && sg.LinkedGoalID == nil {
			continue
		}
		if sg.LinkedGoalID != nil {
			if *sg.LinkedGoalID == goalID {
				return nil, fmt.Errorf("%w: a goal cannot link to itself", ErrInvalidArgument)
			}
			linkedIDs = append(linkedIDs, *sg.LinkedGoalID)
		}
		now := time.Now().UTC()
		if sg.Completed && sg.CompletedAt == nil {
			sg.CompletedAt = &now
		}
		if !sg.Completed {
			sg.CompletedAt = nil
		}
		clean = append(clean, sg)
	}

	if len(linkedIDs) > 0 {
		linked, err := s.goals.GetGoalsByIDs(ctx, linkedIDs)
		if err != nil {
			return nil, err
		}
		for _, id := range linkedIDs {
			target, ok := linked[id]
			if !ok || target.UserID != userID {
				return nil, fmt.Errorf("%w: linked goal %s", ErrNotFound, id)
			}
			targetDoc, err := s.divisions.Find(ctx, id)
			if err != nil {
				return nil, err
			}
			if !targetDoc.Empty() {
				return nil, fmt.Errorf("%w: cannot nest: goal %s already has sub-goals or habit links", ErrInvalidArgument, id)
			}
		}
	}

	lock := s.locks.forGoal(goalID)
	lock.Lock()
	defer lock.Unlock()

	prev, err := s.divisions.Find(ctx, goalID)
	if err != nil {
		return nil, err
	}
	doc, err := s.divisions.ReplaceSubGoals(ctx, goalID, clean)
	if err != nil {
		return nil, err
	}
	if err := s.bumpSnapshot(ctx, goalID, doc); err != nil {
		return nil, err
	}

	removed := 0
	if prev != nil {
		removed = len(prev.SubGoals)
	}
	s.emit(goalID, userID, ActionSubGoalsUpdated, len(clean), removed)

	return merged(goal, doc), nil
}

// SetHabitLinks validates and replaces the goal's habit-link list.
//
// Entries with a missing or unknown habit, a habit owned by someone else, or
// an out-of-range weight are dropped. A habit that exists but has no target
// configured aborts the call: without targetCompletions or targetDays the
// continuous ratio is only defined through the scheduled fallback, and links
// are required to start from a well-defined target.
func (s *Service) SetHabitLinks(ctx context.Context, goalID, userID uuid.UUID, raw []HabitLink) (*GoalWithDivision, error) {
	goal, err := s.ownedGoal(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	for _, hl := range raw {
		if hl.HabitID != uuid.Nil {
			ids = append(ids, hl.HabitID)
		}
	}
	habits := map[uuid.UUID]struct{ hasTarget, owned bool }{}
	if len(ids) > 0 {
		found, err := s.habits.GetHabitsByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for id, h := range found {
			habits[id] = struct{ hasTarget, owned bool }{h.HasTarget(), h.UserID == userID}
		}
	}

	clean := make([]HabitLink, 0, len(raw))
	for _, hl := range raw {
		if hl.HabitID == uuid.Nil {
			continue
		}
		info, ok := habits[hl.HabitID]
		if !ok || !info.owned {
			continue
		}
		if !info.hasTarget {
			return nil, fmt.Errorf("%w: habit %s must have a target before it can be linked", ErrInvalidArgument, hl.HabitID)
		}
		if !validWeight(hl.Weight) {
			continue
		}
		clean = append(clean, hl)
	}

	lock := s.locks.forGoal(goalID)
	lock.Lock()
	defer lock.Unlock()

	prev, err := s.divisions.Find(ctx, goalID)
	if err != nil {
		return nil, err
	}
	doc, err := s.divisions.ReplaceHabitLinks(ctx, goalID, clean)
	if err != nil {
		return nil, err
	}
	if err := s.bumpSnapshot(ctx, goalID, doc); err != nil {
		return nil, err
	}

	removed := 0
	if prev != nil {
		removed = len(prev.HabitLinks)
	}
	s.emit(goalID, userID, ActionHabitLinksUpdated, len(clean), removed)

	return merged(goal, doc), nil
}

// bumpSnapshot refreshes the advisory snapshot's timestamp after an edit so
// stale percentages are recognizable as stale. The percent itself is only
// rewritten by the next computed read.
func (s *Service) bumpSnapshot(ctx context.Context, goalID uuid.UUID, doc *Doc) error {
	if doc == nil || doc.LastComputed == nil {
		return nil
	}
	snap := *doc.LastComputed
	snap.ComputedAt = time.Now().UTC()
	doc.LastComputed = &snap
	return s.divisions.SaveSnapshot(ctx, goalID, snap)
}

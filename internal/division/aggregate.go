package division

import (
	"context"
	"time"

	"github.com/arnold/stridegoals-api/internal/models"
	"github.com/google/uuid"
)

// ComputeGoalProgress recomputes the goal's completion percentage from
// current state. It is a pure read: the persisted last-computed snapshot is
// never consulted, so calling it twice without intervening writes returns
// identical results.
func (s *Service) ComputeGoalProgress(ctx context.Context, goalID, userID uuid.UUID) (*Progress, error) {
	goal, err := s.ownedGoal(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}

	doc, err := s.divisions.Find(ctx, goalID)
	if err != nil {
		return nil, err
	}

	result := &Progress{
		Breakdown: Breakdown{
			SubGoals: []SubGoalProgress{},
			Habits:   []HabitProgress{},
		},
	}

	// A completed goal with nothing divided underneath it is simply done.
	if goal.IsCompleted && doc.Empty() {
		result.Percent = 100
		return result, nil
	}
	if doc == nil {
		doc = &Doc{}
	}

	totalWeight := 0.0
	for _, sg := range doc.SubGoals {
		totalWeight += sg.Weight
	}
	for _, hl := range doc.HabitLinks {
		totalWeight += hl.Weight
	}
	norm := normalizeFactor(totalWeight)
	result.TotalWeightBeforeNormalize = totalWeight
	result.Normalized = norm != 1

	linkedGoals, err := s.fetchLinkedGoals(ctx, doc.SubGoals)
	if err != nil {
		return nil, err
	}

	percent := 0.0
	for _, sg := range doc.SubGoals {
		ratio := resolveSubGoal(sg, linkedGoals)
		contribution := ratio * sg.Weight * norm
		percent += contribution
		result.Breakdown.SubGoals = append(result.Breakdown.SubGoals, SubGoalProgress{
			Title:        sg.Title,
			Completed:    ratio >= 1,
			Weight:       sg.Weight * norm,
			Contribution: contribution,
			LinkedGoalID: sg.LinkedGoalID,
		})
	}

	habits, err := s.fetchLinkedHabits(ctx, doc.HabitLinks)
	if err != nil {
		return nil, err
	}
	for _, hl := range doc.HabitLinks {
		var habit *models.Habit
		if h, ok := habits[hl.HabitID]; ok {
			habit = &h
		}
		hp := s.resolveHabitLink(ctx, goal, hl, habit)
		hp.Weight = hl.Weight * norm
		hp.Contribution = hp.Ratio * hl.Weight * norm
		percent += hp.Contribution
		result.Breakdown.Habits = append(result.Breakdown.Habits, hp)
	}

	percent = round2(percent)
	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}
	result.Percent = percent
	return result, nil
}

// StoreLastComputed materializes a computed result into the division row as
// an advisory display snapshot. It is a separate step so the computation
// itself never depends on its own output.
func (s *Service) StoreLastComputed(ctx context.Context, goalID uuid.UUID, p *Progress) error {
	return s.divisions.SaveSnapshot(ctx, goalID, Snapshot{
		Percent:    p.Percent,
		Breakdown:  p.Breakdown,
		ComputedAt: time.Now().UTC(),
	})
}

func (s *Service) fetchLinkedGoals(ctx context.Context, subGoals []SubGoal) (map[string]models.Goal, error) {
	var ids []uuid.UUID
	for _, sg := range subGoals {
		if sg.LinkedGoalID != nil {
			ids = append(ids, *sg.LinkedGoalID)
		}
	}
	out := make(map[string]models.Goal)
	if len(ids) == 0 {
		return out, nil
	}
	goals, err := s.goals.GetGoalsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for id, g := range goals {
		out[id.String()] = g
	}
	return out, nil
}

func (s *Service) fetchLinkedHabits(ctx context.Context, links []HabitLink) (map[uuid.UUID]models.Habit, error) {
	var ids []uuid.UUID
	for _, hl := range links {
		if hl.HabitID != uuid.Nil {
			ids = append(ids, hl.HabitID)
		}
	}
	if len(ids) == 0 {
		return map[uuid.UUID]models.Habit{}, nil
	}
	return s.habits.GetHabitsByIDs(ctx, ids)
}

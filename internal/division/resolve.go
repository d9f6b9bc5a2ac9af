package division

import (
	"context"
	"log"
	"time"

	"github.com/arnold/stridegoals-api/internal/models"
)

const dateKeyLayout = "2006-01-02"

// resolveSubGoal returns the binary completion ratio for one sub-goal.
// A delegated entry takes the linked goal's completion state; the entry's own
// completed flag is not synced back, keeping resolution a pure read.
func resolveSubGoal(sg SubGoal, linkedGoals map[string]models.Goal) float64 {
	if sg.Completed {
		return 1
	}
	if sg.LinkedGoalID != nil {
		if linked, ok := linkedGoals[sg.LinkedGoalID.String()]; ok && linked.IsCompleted {
			return 1
		}
	}
	return 0
}

// resolveHabitLink computes the continuous ratio for one habit link using the
// priority chain: completions target, days target, scheduled-day fallback.
// Log-store failures degrade the entry to ratio 0 rather than failing the
// whole computation.
func (s *Service) resolveHabitLink(ctx context.Context, goal *models.Goal, link HabitLink, habit *models.Habit) HabitProgress {
	hp := HabitProgress{
		HabitID:    link.HabitID,
		TargetType: TargetUnresolved,
		EndDate:    link.EndDate,
	}
	if habit == nil {
		return hp
	}

	if habit.TargetCompletions != nil && *habit.TargetCompletions > 0 {
		hp.TargetType = TargetCompletions
		hp.TargetCount = float64(*habit.TargetCompletions)
		hp.DoneCount = float64(habit.TotalCompletions)
		hp.Ratio = clamp01(hp.DoneCount / hp.TargetCount)
		return hp
	}

	if habit.TargetDays != nil && *habit.TargetDays > 0 {
		hp.TargetType = TargetDays
		hp.TargetCount = float64(*habit.TargetDays)
		hp.DoneCount = float64(habit.TotalDays)
		hp.Ratio = clamp01(hp.DoneCount / hp.TargetCount)
		return hp
	}

	// Slow path: no explicit target, score logged done-days against the
	// habit's nominal schedule over the goal's window.
	hp.TargetType = TargetScheduled
	start, end := scheduleWindow(goal, link)
	scheduled := countScheduledDays(habit, start, end)
	hp.TargetCount = float64(scheduled)
	if scheduled == 0 {
		return hp
	}

	logs, err := s.logs.GetHabitLogs(ctx, habit.ID, start.Format(dateKeyLayout), end.Format(dateKeyLayout))
	if err != nil {
		log.Printf("division: habit log fetch failed for habit %s: %v", habit.ID, err)
		return hp
	}
	done := 0
	for _, entry := range logs {
		if entry.Status == models.LogStatusDone {
			done++
		}
	}
	hp.DoneCount = float64(done)
	hp.Ratio = clamp01(hp.DoneCount / hp.TargetCount)
	return hp
}

// scheduleWindow returns the UTC date range for the scheduled-day fallback:
// goal start (or creation) through the link's end date (or the goal's target
// date, or now).
func scheduleWindow(goal *models.Goal, link HabitLink) (time.Time, time.Time) {
	start := goal.CreatedAt
	if goal.StartDate != nil {
		start = *goal.StartDate
	}
	end := time.Now()
	if link.EndDate != nil {
		end = *link.EndDate
	} else if goal.TargetDate != nil {
		end = *goal.TargetDate
	}
	return dateOnly(start), dateOnly(end)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// countScheduledDays walks the inclusive [start, end] window and counts days
// the habit is nominally scheduled: every day for daily habits, matching
// weekdays otherwise.
func countScheduledDays(habit *models.Habit, start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	if habit.Frequency == models.FrequencyDaily {
		return int(end.Sub(start).Hours()/24) + 1
	}
	days := habit.ScheduleDaySet()
	if len(days) == 0 {
		return 0
	}
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if days[d.Weekday()] {
			count++
		}
	}
	return count
}

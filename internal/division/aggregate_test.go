package division

import (
	"context"
	"testing"
	"time"

	"github.com/arnold/stridegoals-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestComputeGoalProgressNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ComputeGoalProgress(context.Background(), uuid.New(), f.owner)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestComputeGoalProgressForbidden(t *testing.T) {
	f := newFixture(t)
	goalID := f.addGoal(false)
	_, err := f.svc.ComputeGoalProgress(context.Background(), goalID, uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCompletedGoalWithEmptyDivisionIsHundred(t *testing.T) {
	f := newFixture(t)
	goalID := f.addGoal(true)

	p, err := f.svc.ComputeGoalProgress(context.Background(), goalID, f.owner)
	require.NoError(t, err)
	assert.Equal(t, 100.0, p.Percent)
	assert.False(t, p.Normalized)
	assert.Zero(t, p.TotalWeightBeforeNormalize)
	assert.Empty(t, p.Breakdown.SubGoals)
	assert.Empty(t, p.Breakdown.Habits)
}

func TestIncompleteGoalWithEmptyDivisionIsZero(t *testing.T) {
	f := newFixture(t)
	goalID := f.addGoal(false)

	p, err := f.svc.ComputeGoalProgress(context.Background(), goalID, f.owner)
	require.NoError(t, err)
	assert.Zero(t, p.Percent)
}

// Sub-goal at weight 60 done, habit at weight 40 halfway on a days target:
// weights already sum to 100, so no normalization, and percent lands on 80.
func TestComputeMixedDivision(t *testing.T) {
	f := newFixture(t)
	goalID := f.addGoal(false)
	habitID := f.addHabit(models.Habit{TargetDays: intPtr(20), TotalDays: 10})

	f.divisions.docs[goalID] = &Doc{
		SubGoals:   []SubGoal{{Title: "A", Weight: 60, Completed: true}},
		HabitLinks: []HabitLink{{HabitID: habitID, Weight: 40}},
	}

	p, err := f.svc.ComputeGoalProgress(context.Background(), goalID, f.owner)
	require.NoError(t, err)
	assert.Equal(t, 80.0, p.Percent)
	assert.False(t, p.Normalized)
	assert.Equal(t, 100.0, p.TotalWeightBeforeNormalize)

	require.Len(t, p.Breakdown.SubGoals, 1)
	assert.Equal(t, 60.0, p.Breakdown.SubGoals[0].Contribution)
	assert.True(t, p.Breakdown.SubGoals[0].Completed)

	require.Len(t, p.Breakdown.Habits, 1)
	hp := p.Breakdown.Habits[0]
	assert.Equal(t, TargetDays, hp.TargetType)
	assert.Equal(t, 0.5, hp.Ratio)
	assert.Equal(t, 20.0, hp.Contribution)
	assert.Equal(t, 20.0, hp.TargetCount)
	assert.Equal(t, 10.0, hp.DoneCount)
}

// Two sub-goals at weight 30 each: total 60 normalizes by 100/60, the one
// completed entry contributes 50 after rounding.
func TestComputeNormalizesUnderweightedDivision(t *testing.T) {
	f := newFixture(t)
	goalID := f.addGoal(false)

	f.divisions.docs[goalID] = &Doc{
		SubGoals: []SubGoal{
			{Title: "A", Weight: 30, Completed: true},
			{Title: "B", Weight: 30},
		},
	}

	p, err := f.svc.ComputeGoalProgress(context.Background(), goalID, f.owner)
	require.NoError(t, err)
	assert.Equal(t, 50.0, p.Percent)
	assert.True(t, p.Normalized)
	assert.Equal(t, 60.0, p.TotalWeightBeforeNormalize)
	assert.InDelta(t, 50.0, p.Breakdown.SubGoals[0].Contribution, 1e-9)
	assert.Zero(t, p.Breakdown.SubGoals[1].Contribution)
}

func TestComputeDelegatedSubGoalFollowsLinkedGoal(t *testing.T) {
	f := newFixture(t)
	goalID := f.addGoal(false)
	doneGoal := f.addGoal(true)
	openGoal := f.addGoal(false)

	f.divisions.docs[goalID] = &Doc{
		SubGoals: []SubGoal{
			{LinkedGoalID: &doneGoal, Weight: 50},
			{LinkedGoalID: &openGoal, Weight: 50},
		},
	}

	p, err := f.svc.ComputeGoalProgress(context.Background(), goalID, f.owner)
	require.NoError(t, err)
	assert.Equal(t, 50.0, p.Percent)
	assert.True(t, p.Breakdown.SubGoals[0].Completed)
	assert.False(t, p.Breakdown.SubGoals[1].Completed)
}

// A habit configured with both targets must resolve through the completions
// target, never the days target.
func TestHabitTargetPriorityOrder(t *testing.T) {
	f := newFixture(t)
	goalID := f.addGoal(false)
	habitID := f.addHabit(models.Habit{
		TargetCompletions: intPtr(10),
		TotalCompletions:  5,
		TargetDays:        intPtr(100),
		TotalDays:         99,
	})

	f.divisions.docs[goalID] = &Doc{
		HabitLinks: []HabitLink{{HabitID: habitID, Weight: 100}},
	}

	p, err := f.svc.ComputeGoalProgress(context.Background(), goalID, f.owner)
	require.NoError(t, err)
	require.Len(t, p.Breakdown.Habits, 1)
	assert.Equal(t, TargetCompletions, p.Breakdown.Habits[0].TargetType)
	assert.Equal(t, 0.5, p.Breakdown.Habits[0].Ratio)
	assert.Equal(t, 50.0, p.Percent)
}

func TestHabitRatioClampsAtOne(t *testing.T) {
	f := newFixture(t)
	goalID := f.addGoal(false)
	habitID := f.addHabit(models.Habit{TargetCompletions: intPtr(10), TotalCompletions: 25})

	f.divisions.docs[goalID] = &Doc{
		HabitLinks: []HabitLink{{HabitID: habitID, Weight: 100}},
	}

	p, err := f.svc.ComputeGoalProgress(context.Background(), goalID, f.owner)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.Breakdown.Habits[0].Ratio)
	assert.Equal(t, 100.0, p.Percent)
}

// Scheduled-day fallback: a target-less daily habit scored over a fixed
// window counts done logs against calendar days.
func TestScheduledDayFallbackDaily(t *testing.T) {
	f := newFixture(t)
	goalID := f.addGoal(false)
	goal := f.goals.goals[goalID]
	goal.StartDate = timePtr(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	f.goals.goals[goalID] = goal

	habitID := f.addHabit(models.Habit{Frequency: models.FrequencyDaily})
	for _, day := range []string{"2026-01-02", "2026-01-03", "2026-01-05", "2026-01-07", "2026-01-09"} {
		f.logs.logs[habitID] = append(f.logs.logs[habitID], models.HabitLog{
			HabitID: habitID, DateKey: day, Status: models.LogStatusDone,
		})
	}
	// Outside the window and non-done entries must not count.
	f.logs.logs[habitID] = append(f.logs.logs[habitID],
		models.HabitLog{HabitID: habitID, DateKey: "2026-01-20", Status: models.LogStatusDone},
		models.HabitLog{HabitID: habitID, DateKey: "2026-01-04", Status: models.LogStatusMissed},
		models.HabitLog{HabitID: habitID, DateKey: "2026-01-06", Status: models.LogStatusSkipped},
	)

	end := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	f.divisions.docs[goalID] = &Doc{
		HabitLinks: []HabitLink{{HabitID: habitID, Weight: 100, EndDate: &end}},
	}

	p, err := f.svc.ComputeGoalProgress(context.Background(), goalID, f.owner)
	require.NoError(t, err)
	hp := p.Breakdown.Habits[0]
	assert.Equal(t, TargetScheduled, hp.TargetType)
	assert.Equal(t, 10.0, hp.TargetCount) // Jan 1 through Jan 10 inclusive
	assert.Equal(t, 5.0, hp.DoneCount)
	assert.Equal(t, 0.5, hp.Ratio)
	assert.Equal(t, 50.0, p.Percent)
}

func TestScheduledDayFallbackWeekdaySet(t *testing.T) {
	f := newFixture(t)
	goalID := f.addGoal(false)
	goal := f.goals.goals[goalID]
	goal.StartDate = timePtr(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	f.goals.goals[goalID] = goal

	// Mondays and Wednesdays only.
	habitID := f.addHabit(models.Habit{
		Frequency:    models.FrequencyWeekly,
		ScheduleDays: datatypes.JSON([]byte("[1,3]")),
	})
	f.logs.logs[habitID] = []models.HabitLog{
		{HabitID: habitID, DateKey: "2026-01-05", Status: models.LogStatusDone},
		{HabitID: habitID, DateKey: "2026-01-07", Status: models.LogStatusDone},
		{HabitID: habitID, DateKey: "2026-01-12", Status: models.LogStatusDone},
	}

	end := time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC)
	f.divisions.docs[goalID] = &Doc{
		HabitLinks: []HabitLink{{HabitID: habitID, Weight: 100, EndDate: &end}},
	}

	p, err := f.svc.ComputeGoalProgress(context.Background(), goalID, f.owner)
	require.NoError(t, err)
	hp := p.Breakdown.Habits[0]
	// Jan 5, 7, 12, 14 are the scheduled days in the window.
	assert.Equal(t, 4.0, hp.TargetCount)
	assert.Equal(t, 3.0, hp.DoneCount)
	assert.Equal(t, 0.75, hp.Ratio)
	assert.Equal(t, 75.0, p.Percent)
}

func TestScheduledFallbackEmptyWindowIsZero(t *testing.T) {
	f := newFixture(t)
	goalID := f.addGoal(false)
	goal := f.goals.goals[goalID]
	goal.StartDate = timePtr(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	f.goals.goals[goalID] = goal

	habitID := f.addHabit(models.Habit{Frequency: models.FrequencyDaily})
	end := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC) // before the start
	f.divisions.docs[goalID] = &Doc{
		HabitLinks: []HabitLink{{HabitID: habitID, Weight: 100, EndDate: &end}},
	}

	p, err := f.svc.ComputeGoalProgress(context.Background(), goalID, f.owner)
	require.NoError(t, err)
	assert.Zero(t, p.Breakdown.Habits[0].Ratio)
	assert.Zero(t, p.Percent)
}

// A dangling habit link degrades to ratio 0 instead of failing the read.
func TestMissingHabitResolvesToZero(t *testing.T) {
	f := newFixture(t)
	goalID := f.addGoal(false)

	f.divisions.docs[goalID] = &Doc{
		SubGoals:   []SubGoal{{Title: "A", Weight: 50, Completed: true}},
		HabitLinks: []HabitLink{{HabitID: uuid.New(), Weight: 50}},
	}

	p, err := f.svc.ComputeGoalProgress(context.Background(), goalID, f.owner)
	require.NoError(t, err)
	require.Len(t, p.Breakdown.Habits, 1)
	assert.Equal(t, TargetUnresolved, p.Breakdown.Habits[0].TargetType)
	assert.Zero(t, p.Breakdown.Habits[0].Ratio)
	assert.Equal(t, 50.0, p.Percent)
}

func TestComputeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	goalID := f.addGoal(false)
	habitID := f.addHabit(models.Habit{TargetCompletions: intPtr(7), TotalCompletions: 3})

	f.divisions.docs[goalID] = &Doc{
		SubGoals:   []SubGoal{{Title: "A", Weight: 45, Completed: true}, {Title: "B", Weight: 15}},
		HabitLinks: []HabitLink{{HabitID: habitID, Weight: 25}},
	}

	first, err := f.svc.ComputeGoalProgress(context.Background(), goalID, f.owner)
	require.NoError(t, err)
	second, err := f.svc.ComputeGoalProgress(context.Background(), goalID, f.owner)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// Computing never reads the advisory snapshot, even a wildly wrong one.
func TestComputeIgnoresStoredSnapshot(t *testing.T) {
	f := newFixture(t)
	goalID := f.addGoal(false)

	f.divisions.docs[goalID] = &Doc{
		SubGoals:     []SubGoal{{Title: "A", Weight: 100, Completed: true}},
		LastComputed: &Snapshot{Percent: 3, ComputedAt: time.Now()},
	}

	p, err := f.svc.ComputeGoalProgress(context.Background(), goalID, f.owner)
	require.NoError(t, err)
	assert.Equal(t, 100.0, p.Percent)
}

func TestStoreLastComputedWritesSnapshot(t *testing.T) {
	f := newFixture(t)
	goalID := f.addGoal(false)
	f.divisions.docs[goalID] = &Doc{
		SubGoals: []SubGoal{{Title: "A", Weight: 100, Completed: true}},
	}

	p, err := f.svc.ComputeGoalProgress(context.Background(), goalID, f.owner)
	require.NoError(t, err)
	require.NoError(t, f.svc.StoreLastComputed(context.Background(), goalID, p))

	doc := f.divisions.docs[goalID]
	require.NotNil(t, doc.LastComputed)
	assert.Equal(t, 100.0, doc.LastComputed.Percent)
	assert.False(t, doc.LastComputed.ComputedAt.IsZero())
}

package division

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestToggleSubGoal(t *testing.T) {
	f := newFixture(t)
	goalID := f.addGoal(false)
	f.divisions.docs[goalID] = &Doc{
		SubGoals: []SubGoal{
			{Title: "A", Weight: 50},
			{Title: "B", Weight: 50},
		},
	}

	out, err := f.svc.ToggleSubGoal(context.Background(), goalID, f.owner, 1, true, strPtr("finally"))
	require.NoError(t, err)
	assert.True(t, out.SubGoals[1].Completed)
	require.NotNil(t, out.SubGoals[1].CompletedAt)
	assert.Equal(t, "finally", *out.SubGoals[1].Note)

	// The sibling entry is untouched.
	assert.False(t, out.SubGoals[0].Completed)
	assert.Equal(t, 50.0, out.SubGoals[0].Weight)

	out, err = f.svc.ToggleSubGoal(context.Background(), goalID, f.owner, 1, false, nil)
	require.NoError(t, err)
	assert.False(t, out.SubGoals[1].Completed)
	assert.Nil(t, out.SubGoals[1].CompletedAt)
	// Note persists when the toggle doesn't carry one.
	require.NotNil(t, out.SubGoals[1].Note)
	assert.Equal(t, "finally", *out.SubGoals[1].Note)
}

func TestToggleSubGoalIndexBounds(t *testing.T) {
	f := newFixture(t)
	goalID := f.addGoal(false)
	f.divisions.docs[goalID] = &Doc{SubGoals: []SubGoal{{Title: "A", Weight: 100}}}

	_, err := f.svc.ToggleSubGoal(context.Background(), goalID, f.owner, -1, true, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = f.svc.ToggleSubGoal(context.Background(), goalID, f.owner, 1, true, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	empty := f.addGoal(false)
	_, err = f.svc.ToggleSubGoal(context.Background(), empty, f.owner, 0, true, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestToggleSubGoalOwnership(t *testing.T) {
	f := newFixture(t)
	goalID := f.addGoal(false)
	f.divisions.docs[goalID] = &Doc{SubGoals: []SubGoal{{Title: "A", Weight: 100}}}

	_, err := f.svc.ToggleSubGoal(context.Background(), goalID, uuid.New(), 0, true, nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

// Concurrent toggles on different indices of the same goal must both land;
// the per-goal lock prevents the lost-update race.
func TestConcurrentTogglesAreSerialized(t *testing.T) {
	f := newFixture(t)
	goalID := f.addGoal(false)
	subGoals := make([]SubGoal, 8)
	for i := range subGoals {
		subGoals[i] = SubGoal{Title: "item", Weight: 10}
	}
	f.divisions.docs[goalID] = &Doc{SubGoals: subGoals}

	var wg sync.WaitGroup
	for i := range subGoals {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, err := f.svc.ToggleSubGoal(context.Background(), goalID, f.owner, idx, true, nil)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	doc := f.divisions.docs[goalID]
	for i, sg := range doc.SubGoals {
		assert.True(t, sg.Completed, "index %d lost its toggle", i)
	}
}

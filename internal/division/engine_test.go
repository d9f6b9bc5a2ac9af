package division

import (
	"context"
	"testing"
	"time"

	"github.com/arnold/stridegoals-api/internal/models"
	"github.com/google/uuid"
)

// In-memory stores backing the engine tests.

type fakeGoalStore struct {
	goals map[uuid.UUID]models.Goal
}

func (f *fakeGoalStore) GetGoalByID(_ context.Context, id uuid.UUID) (*models.Goal, error) {
	g, ok := f.goals[id]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (f *fakeGoalStore) GetGoalsByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Goal, error) {
	out := make(map[uuid.UUID]models.Goal)
	for _, id := range ids {
		if g, ok := f.goals[id]; ok {
			out[id] = g
		}
	}
	return out, nil
}

type fakeHabitStore struct {
	habits map[uuid.UUID]models.Habit
}

func (f *fakeHabitStore) GetHabit(_ context.Context, id, ownerID uuid.UUID) (*models.Habit, error) {
	h, ok := f.habits[id]
	if !ok || h.UserID != ownerID {
		return nil, nil
	}
	return &h, nil
}

func (f *fakeHabitStore) GetHabitsByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Habit, error) {
	out := make(map[uuid.UUID]models.Habit)
	for _, id := range ids {
		if h, ok := f.habits[id]; ok {
			out[id] = h
		}
	}
	return out, nil
}

type fakeLogStore struct {
	logs map[uuid.UUID][]models.HabitLog
}

func (f *fakeLogStore) GetHabitLogs(_ context.Context, habitID uuid.UUID, startKey, endKey string) ([]models.HabitLog, error) {
	var out []models.HabitLog
	for _, entry := range f.logs[habitID] {
		if entry.DateKey >= startKey && entry.DateKey <= endKey {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeDivisionStore struct {
	docs map[uuid.UUID]*Doc
}

func (f *fakeDivisionStore) Find(_ context.Context, goalID uuid.UUID) (*Doc, error) {
	doc, ok := f.docs[goalID]
	if !ok {
		return nil, nil
	}
	copied := *doc
	copied.SubGoals = append([]SubGoal(nil), doc.SubGoals...)
	copied.HabitLinks = append([]HabitLink(nil), doc.HabitLinks...)
	return &copied, nil
}

func (f *fakeDivisionStore) ReplaceSubGoals(_ context.Context, goalID uuid.UUID, subGoals []SubGoal) (*Doc, error) {
	doc, ok := f.docs[goalID]
	if !ok {
		doc = &Doc{}
		f.docs[goalID] = doc
	}
	doc.SubGoals = append([]SubGoal(nil), subGoals...)
	copied := *doc
	return &copied, nil
}

func (f *fakeDivisionStore) ReplaceHabitLinks(_ context.Context, goalID uuid.UUID, links []HabitLink) (*Doc, error) {
	doc, ok := f.docs[goalID]
	if !ok {
		doc = &Doc{}
		f.docs[goalID] = doc
	}
	doc.HabitLinks = append([]HabitLink(nil), links...)
	copied := *doc
	return &copied, nil
}

func (f *fakeDivisionStore) SaveSnapshot(_ context.Context, goalID uuid.UUID, snap Snapshot) error {
	doc, ok := f.docs[goalID]
	if !ok {
		doc = &Doc{}
		f.docs[goalID] = doc
	}
	doc.LastComputed = &snap
	return nil
}

type recordedEvent struct {
	goalID, userID uuid.UUID
	action         string
	added, removed int
}

type fakeEvents struct {
	events []recordedEvent
}

func (f *fakeEvents) DivisionEdited(goalID, userID uuid.UUID, action string, added, removed int) {
	f.events = append(f.events, recordedEvent{goalID, userID, action, added, removed})
}

type fixture struct {
	svc       *Service
	goals     *fakeGoalStore
	habits    *fakeHabitStore
	logs      *fakeLogStore
	divisions *fakeDivisionStore
	events    *fakeEvents

	owner uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		goals:     &fakeGoalStore{goals: make(map[uuid.UUID]models.Goal)},
		habits:    &fakeHabitStore{habits: make(map[uuid.UUID]models.Habit)},
		logs:      &fakeLogStore{logs: make(map[uuid.UUID][]models.HabitLog)},
		divisions: &fakeDivisionStore{docs: make(map[uuid.UUID]*Doc)},
		events:    &fakeEvents{},
		owner:     uuid.New(),
	}
	f.svc = New(f.goals, f.habits, f.logs, f.divisions, f.events)
	return f
}

func (f *fixture) addGoal(completed bool) uuid.UUID {
	g := models.Goal{
		ID:          uuid.New(),
		UserID:      f.owner,
		Title:       "goal",
		IsCompleted: completed,
		CreatedAt:   time.Now().UTC(),
	}
	if completed {
		now := time.Now().UTC()
		g.CompletedAt = &now
	}
	f.goals.goals[g.ID] = g
	return g.ID
}

func (f *fixture) addHabit(h models.Habit) uuid.UUID {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.UserID == uuid.Nil {
		h.UserID = f.owner
	}
	if h.Frequency == "" {
		h.Frequency = models.FrequencyDaily
	}
	f.habits.habits[h.ID] = h
	return h.ID
}

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

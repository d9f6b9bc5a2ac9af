package division

import (
	"time"

	"github.com/arnold/stridegoals-api/internal/models"
	"github.com/google/uuid"
)

// Ratio sources for a habit link, in resolution priority order.
const (
	TargetCompletions = "completions"
	TargetDays        = "days"
	TargetScheduled   = "scheduled"
	TargetUnresolved  = "unresolved"
)

// Division edit actions reported to the activity sink.
const (
	ActionSubGoalsUpdated   = "sub_goals_updated"
	ActionHabitLinksUpdated = "habit_links_updated"
	ActionSubGoalToggled    = "sub_goal_toggled"
)

// SubGoal is one binary piece of a goal's division: a free-standing checklist
// item, or a delegation to another goal's completion when LinkedGoalID is set.
type SubGoal struct {
	Title        string     `json:"title"`
	LinkedGoalID *uuid.UUID `json:"linkedGoalId,omitempty"`
	Weight       float64    `json:"weight"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	Note         *string    `json:"note,omitempty"`
}

// HabitLink ties a habit's continuous progress into a goal's division.
// EndDate overrides the window end used by the scheduled-day fallback.
type HabitLink struct {
	HabitID uuid.UUID  `json:"habitId"`
	Weight  float64    `json:"weight"`
	EndDate *time.Time `json:"endDate,omitempty"`
}

// Doc is a goal's division as the store hands it to the engine.
type Doc struct {
	SubGoals     []SubGoal   `json:"subGoals"`
	HabitLinks   []HabitLink `json:"habitLinks"`
	LastComputed *Snapshot   `json:"lastComputed,omitempty"`
}

// Empty reports whether the division has no sub-goals and no habit links.
func (d *Doc) Empty() bool {
	return d == nil || (len(d.SubGoals) == 0 && len(d.HabitLinks) == 0)
}

type SubGoalProgress struct {
	Title        string     `json:"title"`
	Completed    bool       `json:"completed"`
	Weight       float64    `json:"weight"`
	Contribution float64    `json:"contribution"`
	LinkedGoalID *uuid.UUID `json:"linkedGoalId,omitempty"`
}

type HabitProgress struct {
	HabitID      uuid.UUID  `json:"habitId"`
	Weight       float64    `json:"weight"`
	Ratio        float64    `json:"ratio"`
	Contribution float64    `json:"contribution"`
	TargetType   string     `json:"targetType"`
	TargetCount  float64    `json:"targetCount"`
	DoneCount    float64    `json:"doneCount"`
	EndDate      *time.Time `json:"endDate,omitempty"`
}

type Breakdown struct {
	SubGoals []SubGoalProgress `json:"subGoals"`
	Habits   []HabitProgress   `json:"habits"`
}

// Progress is the full result of one computation.
type Progress struct {
	Percent                    float64   `json:"percent"`
	Breakdown                  Breakdown `json:"breakdown"`
	Normalized                 bool      `json:"normalized"`
	TotalWeightBeforeNormalize float64   `json:"totalWeightBeforeNormalize"`
}

// Snapshot is the advisory last-computed projection persisted for display.
type Snapshot struct {
	Percent    float64   `json:"percent"`
	Breakdown  Breakdown `json:"breakdown"`
	ComputedAt time.Time `json:"computedAt"`
}

// GoalWithDivision is what the write operations return: the goal merged with
// its fresh division state.
type GoalWithDivision struct {
	Goal         models.Goal `json:"goal"`
	SubGoals     []SubGoal   `json:"subGoals"`
	HabitLinks   []HabitLink `json:"habitLinks"`
	LastComputed *Snapshot   `json:"lastComputed,omitempty"`
}

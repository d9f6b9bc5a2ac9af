package services

import (
	"encoding/json"
	"log"

	"github.com/arnold/stridegoals-api/internal/database"
	"github.com/arnold/stridegoals-api/internal/models"
	"github.com/google/uuid"
)

// LogActivity writes one activity feed row. Failures are logged, never
// propagated; the feed is a side channel.
func LogActivity(userID uuid.UUID, actionType string, targetID *uuid.UUID, metadata map[string]interface{}) {
	activity := models.Activity{
		UserID:     userID,
		ActionType: actionType,
		TargetID:   targetID,
	}
	if metadata != nil {
		if raw, err := json.Marshal(metadata); err == nil {
			s := string(raw)
			activity.Metadata = &s
		}
	}
	if err := database.DB.Create(&activity).Error; err != nil {
		log.Printf("activity: failed to log %s for user %s: %v", actionType, userID, err)
	}
}

// ActivityRecorder feeds division edit events into the activity feed.
// It satisfies the engine's EventSink interface.
type ActivityRecorder struct{}

func (ActivityRecorder) DivisionEdited(goalID, userID uuid.UUID, action string, added, removed int) {
	LogActivity(userID, action, &goalID, map[string]interface{}{
		"added":   added,
		"removed": removed,
	})
}

// NotifyGoalCompleted records a notification and pushes it when a goal's
// computed progress first reaches 100%.
func NotifyGoalCompleted(userID uuid.UUID, goal *models.Goal) {
	meta, _ := json.Marshal(map[string]string{"goalId": goal.ID.String()})
	metaStr := string(meta)
	notification := models.Notification{
		UserID:   userID,
		Type:     "goal_completed",
		Title:    "Goal complete!",
		Body:     "\"" + goal.Title + "\" reached 100%",
		Metadata: &metaStr,
	}
	if err := database.DB.Create(&notification).Error; err != nil {
		log.Printf("activity: failed to create notification for user %s: %v", userID, err)
	}

	if Push != nil {
		Push.SendToUser(userID, notification.Title, notification.Body, map[string]string{
			"goalId": goal.ID.String(),
		})
	}
}

package handlers

import (
	"encoding/json"
	"time"

	"github.com/arnold/stridegoals-api/internal/database"
	"github.com/arnold/stridegoals-api/internal/middleware"
	"github.com/arnold/stridegoals-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func findOwnedHabit(c *fiber.Ctx) (*models.Habit, error) {
	userID := middleware.GetUserID(c)
	habitID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid habit ID",
		})
	}

	var habit models.Habit
	if err := database.DB.Where("id = ? AND user_id = ?", habitID, userID).First(&habit).Error; err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Habit not found",
		})
	}
	return &habit, nil
}

func encodeScheduleDays(days []int) datatypes.JSON {
	if len(days) == 0 {
		return nil
	}
	raw, err := json.Marshal(days)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func validFrequency(f string) bool {
	return f == models.FrequencyDaily || f == models.FrequencyWeekly
}

func CreateHabit(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateHabitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}
	if req.Frequency == "" {
		req.Frequency = models.FrequencyDaily
	}
	if !validFrequency(req.Frequency) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Frequency must be daily or weekly",
		})
	}

	habit := models.Habit{
		UserID:            userID,
		Title:             req.Title,
		Description:       req.Description,
		Frequency:         req.Frequency,
		ScheduleDays:      encodeScheduleDays(req.ScheduleDays),
		TargetCompletions: req.TargetCompletions,
		TargetDays:        req.TargetDays,
	}

	if err := database.DB.Create(&habit).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create habit",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(habit)
}

func GetHabits(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var habits []models.Habit
	database.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&habits)

	return c.JSON(habits)
}

func GetHabit(c *fiber.Ctx) error {
	habit, fiberErr := findOwnedHabit(c)
	if fiberErr != nil {
		return fiberErr
	}
	return c.JSON(habit)
}

func UpdateHabit(c *fiber.Ctx) error {
	habit, fiberErr := findOwnedHabit(c)
	if fiberErr != nil {
		return fiberErr
	}

	var req models.UpdateHabitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title != nil {
		habit.Title = *req.Title
	}
	if req.Description != nil {
		habit.Description = req.Description
	}
	if req.Frequency != nil {
		if !validFrequency(*req.Frequency) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Frequency must be daily or weekly",
			})
		}
		habit.Frequency = *req.Frequency
	}
	if req.ScheduleDays != nil {
		habit.ScheduleDays = encodeScheduleDays(req.ScheduleDays)
	}
	if req.TargetCompletions != nil {
		habit.TargetCompletions = req.TargetCompletions
	}
	if req.TargetDays != nil {
		habit.TargetDays = req.TargetDays
	}

	if err := database.DB.Save(habit).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update habit",
		})
	}

	return c.JSON(habit)
}

func DeleteHabit(c *fiber.Ctx) error {
	habit, fiberErr := findOwnedHabit(c)
	if fiberErr != nil {
		return fiberErr
	}

	database.DB.Where("habit_id = ?", habit.ID).Delete(&models.HabitLog{})

	if err := database.DB.Delete(habit).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete habit",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// LogHabit upserts the check-in for one day and refreshes the habit's
// lifetime counters. The division engine reads those counters but never
// writes them; this handler is the single write path.
func LogHabit(c *fiber.Ctx) error {
	habit, fiberErr := findOwnedHabit(c)
	if fiberErr != nil {
		return fiberErr
	}

	var req models.LogHabitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if _, err := time.Parse("2006-01-02", req.DateKey); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "dateKey must be YYYY-MM-DD",
		})
	}
	if req.Status == "" {
		req.Status = models.LogStatusDone
	}
	switch req.Status {
	case models.LogStatusDone, models.LogStatusMissed, models.LogStatusSkipped:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Status must be done, missed, or skipped",
		})
	}

	var entry models.HabitLog
	err := database.DB.Where("habit_id = ? AND date_key = ?", habit.ID, req.DateKey).First(&entry).Error
	if err != nil {
		entry = models.HabitLog{
			HabitID: habit.ID,
			DateKey: req.DateKey,
		}
	}
	entry.Status = req.Status
	entry.Note = req.Note

	if entry.ID == uuid.Nil {
		err = database.DB.Create(&entry).Error
	} else {
		err = database.DB.Save(&entry).Error
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to log habit",
		})
	}

	refreshHabitCounters(habit)

	return c.JSON(fiber.Map{
		"log":   entry,
		"habit": habit,
	})
}

func GetHabitLogs(c *fiber.Ctx) error {
	habit, fiberErr := findOwnedHabit(c)
	if fiberErr != nil {
		return fiberErr
	}

	query := database.DB.Where("habit_id = ?", habit.ID)
	if start := c.Query("start"); start != "" {
		query = query.Where("date_key >= ?", start)
	}
	if end := c.Query("end"); end != "" {
		query = query.Where("date_key <= ?", end)
	}

	var logs []models.HabitLog
	query.Order("date_key DESC").Find(&logs)

	return c.JSON(logs)
}

// refreshHabitCounters recounts done log entries into the lifetime counters.
// Recounting keeps re-logged days idempotent; one log per day means both
// counters track distinct done days.
func refreshHabitCounters(habit *models.Habit) {
	var done int64
	database.DB.Model(&models.HabitLog{}).
		Where("habit_id = ? AND status = ?", habit.ID, models.LogStatusDone).
		Count(&done)

	habit.TotalCompletions = int(done)
	habit.TotalDays = int(done)
	database.DB.Model(&models.Habit{}).Where("id = ?", habit.ID).Updates(map[string]interface{}{
		"total_completions": habit.TotalCompletions,
		"total_days":        habit.TotalDays,
	})
}

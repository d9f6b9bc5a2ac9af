package handlers

import (
	"time"

	"github.com/arnold/stridegoals-api/internal/database"
	"github.com/arnold/stridegoals-api/internal/middleware"
	"github.com/arnold/stridegoals-api/internal/models"
	"github.com/arnold/stridegoals-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// findOwnedGoal loads a goal and verifies the caller owns it. Missing and
// foreign goals both answer 404 so goal IDs don't leak across accounts.
func findOwnedGoal(c *fiber.Ctx) (*models.Goal, error) {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var goal models.Goal
	if err := database.DB.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	}
	return &goal, nil
}

func CreateGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateGoalRequest
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

	goal := models.Goal{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		StartDate:   req.StartDate,
		TargetDate:  req.TargetDate,
	}

	if err := database.DB.Create(&goal).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create goal",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(goal)
}

func GetGoals(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var goals []models.Goal
	database.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&goals)

	return c.JSON(goals)
}

func GetGoal(c *fiber.Ctx) error {
	goal, fiberErr := findOwnedGoal(c)
	if fiberErr != nil {
		return fiberErr
	}
	return c.JSON(goal)
}

func UpdateGoal(c *fiber.Ctx) error {
	goal, fiberErr := findOwnedGoal(c)
	if fiberErr != nil {
		return fiberErr
	}

	var req models.UpdateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title != nil {
		goal.Title = *req.Title
	}
	if req.Description != nil {
		goal.Description = req.Description
	}
	if req.ImageURL != nil {
		goal.ImageURL = req.ImageURL
	}
	if req.StartDate != nil {
		goal.StartDate = req.StartDate
	}
	if req.TargetDate != nil {
		goal.TargetDate = req.TargetDate
	}
	if req.IsCompleted != nil {
		goal.IsCompleted = *req.IsCompleted
		if *req.IsCompleted {
			now := time.Now()
			goal.CompletedAt = &now
		} else {
			goal.CompletedAt = nil
		}
	}

	if err := database.DB.Save(goal).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update goal",
		})
	}

	return c.JSON(goal)
}

func ToggleGoalCompletion(c *fiber.Ctx) error {
	goal, fiberErr := findOwnedGoal(c)
	if fiberErr != nil {
		return fiberErr
	}
	userID := middleware.GetUserID(c)

	goal.IsCompleted = !goal.IsCompleted
	if goal.IsCompleted {
		now := time.Now()
		goal.CompletedAt = &now
	} else {
		goal.CompletedAt = nil
	}

	if err := database.DB.Save(goal).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to toggle goal",
		})
	}

	if goal.IsCompleted {
		services.LogActivity(userID, "goal_completed", &goal.ID, fiber.Map{
			"goalTitle": goal.Title,
		})
		updateStreak(userID)
	}

	WS.Broadcast(userID, WSEvent{
		Type:   EventGoalUpdated,
		GoalID: goal.ID.String(),
		Data:   goal,
	})

	return c.JSON(goal)
}

func DeleteGoal(c *fiber.Ctx) error {
	goal, fiberErr := findOwnedGoal(c)
	if fiberErr != nil {
		return fiberErr
	}

	// Cascade: the division document dies with its goal.
	database.DB.Where("goal_id = ?", goal.ID).Delete(&models.GoalDivision{})

	if err := database.DB.Delete(goal).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete goal",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// updateStreak maintains the user's daily streak on meaningful completions.
func updateStreak(userID uuid.UUID) {
	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return
	}

	today := time.Now().Truncate(24 * time.Hour)
	if user.LastActiveDate != nil {
		lastActive := user.LastActiveDate.Truncate(24 * time.Hour)
		daysSince := int(today.Sub(lastActive).Hours() / 24)
		if daysSince == 1 {
			user.DailyStreak++
		} else if daysSince > 1 {
			user.DailyStreak = 1
		}
	} else {
		user.DailyStreak = 1
	}
	user.LastActiveDate = &today

	database.DB.Save(&user)
}

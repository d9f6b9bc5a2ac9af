package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/arnold/stridegoals-api/internal/cache"
	"github.com/arnold/stridegoals-api/internal/database"
	"github.com/arnold/stridegoals-api/internal/division"
	"github.com/arnold/stridegoals-api/internal/middleware"
	"github.com/arnold/stridegoals-api/internal/models"
	"github.com/arnold/stridegoals-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	engine        *division.Service
	progressCache *cache.ProgressCache
)

// InitDivision wires the engine and the redis mirror into the handlers.
// Called once from main after the stores are constructed.
func InitDivision(svc *division.Service, pc *cache.ProgressCache) {
	engine = svc
	progressCache = pc
}

// divisionError translates engine sentinels into HTTP responses.
func divisionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, division.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, division.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, division.ErrInvalidArgument):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("division: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal error",
		})
	}
}

// GetGoalProgress recomputes the goal's completion percentage from current
// state and returns the full breakdown. The result is also materialized into
// the division row and the redis mirror as advisory display state.
func GetGoalProgress(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	progress, err := engine.ComputeGoalProgress(c.Context(), goalID, userID)
	if err != nil {
		return divisionError(c, err)
	}

	// Advisory write-backs; the computation above never reads either.
	previous := progressCache.Get(c.Context(), goalID)
	if err := engine.StoreLastComputed(c.Context(), goalID, progress); err != nil {
		log.Printf("division: materialize snapshot for goal %s: %v", goalID, err)
	}
	progressCache.Store(c.Context(), goalID, progress)

	if progress.Percent >= 100 && (previous == nil || previous.Percent < 100) {
		notifyProgressComplete(userID, goalID)
	}

	WS.Broadcast(userID, WSEvent{
		Type:   EventProgressUpdated,
		GoalID: goalID.String(),
		Data:   progress,
	})

	return c.JSON(progress)
}

// GetGoalProgressCached serves the redis mirror when present, falling back
// to a fresh computation. Display-only; the mirror may lag behind edits.
func GetGoalProgressCached(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	// Ownership gate before serving anything, cached or not.
	var goal models.Goal
	if err := database.DB.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	}

	if cached := progressCache.Get(c.Context(), goalID); cached != nil {
		return c.JSON(fiber.Map{"progress": cached, "cached": true})
	}

	progress, err := engine.ComputeGoalProgress(c.Context(), goalID, userID)
	if err != nil {
		return divisionError(c, err)
	}
	progressCache.Store(c.Context(), goalID, progress)

	return c.JSON(fiber.Map{"progress": progress, "cached": false})
}

type setSubGoalsRequest struct {
	SubGoals []division.SubGoal `json:"subGoals"`
}

func SetSubGoals(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var req setSubGoalsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	out, err := engine.SetSubGoals(c.Context(), goalID, userID, req.SubGoals)
	if err != nil {
		return divisionError(c, err)
	}

	progressCache.Invalidate(c.Context(), goalID)
	WS.Broadcast(userID, WSEvent{
		Type:   EventDivisionUpdated,
		GoalID: goalID.String(),
		Data:   out,
	})

	return c.JSON(out)
}

type setHabitLinksRequest struct {
	HabitLinks []division.HabitLink `json:"habitLinks"`
}

func SetHabitLinks(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var req setHabitLinksRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	out, err := engine.SetHabitLinks(c.Context(), goalID, userID, req.HabitLinks)
	if err != nil {
		return divisionError(c, err)
	}

	progressCache.Invalidate(c.Context(), goalID)
	WS.Broadcast(userID, WSEvent{
		Type:   EventDivisionUpdated,
		GoalID: goalID.String(),
		Data:   out,
	})

	return c.JSON(out)
}

type toggleSubGoalRequest struct {
	Completed bool    `json:"completed"`
	Note      *string `json:"note"`
}

func ToggleSubGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid sub-goal index",
		})
	}

	var req toggleSubGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	out, err := engine.ToggleSubGoal(c.Context(), goalID, userID, index, req.Completed, req.Note)
	if err != nil {
		return divisionError(c, err)
	}

	progressCache.Invalidate(c.Context(), goalID)
	WS.Broadcast(userID, WSEvent{
		Type:   EventDivisionUpdated,
		GoalID: goalID.String(),
		Data:   out,
	})

	return c.JSON(out)
}

// SuggestWeights returns an equal-weight split for client-side forms.
func SuggestWeights(c *fiber.Ctx) error {
	count, err := strconv.Atoi(c.Query("count", "0"))
	if err != nil || count < 1 || count > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "count must be between 1 and 100",
		})
	}

	return c.JSON(fiber.Map{
		"weights": division.SuggestEqualWeights(count),
	})
}

func notifyProgressComplete(userID, goalID uuid.UUID) {
	var goal models.Goal
	if err := database.DB.Where("id = ?", goalID).First(&goal).Error; err != nil {
		return
	}
	services.NotifyGoalCompleted(userID, &goal)
}

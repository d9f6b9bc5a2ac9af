package handlers

import (
	"strconv"

	"github.com/arnold/stridegoals-api/internal/database"
	"github.com/arnold/stridegoals-api/internal/middleware"
	"github.com/arnold/stridegoals-api/internal/models"
	"github.com/gofiber/fiber/v2"
)

// GetActivity returns the caller's paginated activity feed.
func GetActivity(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	// Pagination
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	offset := (page - 1) * limit

	var activities []models.Activity
	database.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&activities)

	var total int64
	database.DB.Model(&models.Activity{}).Where("user_id = ?", userID).Count(&total)

	return c.JSON(fiber.Map{
		"activities": activities,
		"total":      total,
		"page":       page,
		"limit":      limit,
	})
}

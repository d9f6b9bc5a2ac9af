package routes

import (
	"github.com/arnold/stridegoals-api/internal/handlers"
	"github.com/arnold/stridegoals-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func Setup(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)

	protected := api.Group("/", middleware.Protected())

	protected.Get("/me", handlers.GetMe)
	protected.Put("/me", handlers.UpdateProfile)

	goals := protected.Group("/goals")
	goals.Get("/", handlers.GetGoals)
	goals.Post("/", handlers.CreateGoal)
	goals.Get("/:id", handlers.GetGoal)
	goals.Put("/:id", handlers.UpdateGoal)
	goals.Delete("/:id", handlers.DeleteGoal)
	goals.Post("/:id/toggle", handlers.ToggleGoalCompletion)

	// Division: weighted sub-goals and habit links with computed progress
	goals.Get("/:id/progress", handlers.GetGoalProgress)
	goals.Get("/:id/progress/cached", handlers.GetGoalProgressCached)
	goals.Put("/:id/sub-goals", handlers.SetSubGoals)
	goals.Post("/:id/sub-goals/:index/toggle", handlers.ToggleSubGoal)
	goals.Put("/:id/habit-links", handlers.SetHabitLinks)

	protected.Get("/weights/suggest", handlers.SuggestWeights)

	habits := protected.Group("/habits")
	habits.Get("/", handlers.GetHabits)
	habits.Post("/", handlers.CreateHabit)
	habits.Get("/:id", handlers.GetHabit)
	habits.Put("/:id", handlers.UpdateHabit)
	habits.Delete("/:id", handlers.DeleteHabit)
	habits.Post("/:id/logs", handlers.LogHabit)
	habits.Get("/:id/logs", handlers.GetHabitLogs)

	// Activity feed
	protected.Get("/activity", handlers.GetActivity)

	// Notifications
	notifications := protected.Group("/notifications")
	notifications.Get("/", handlers.GetNotifications)
	notifications.Put("/:id/read", handlers.MarkNotificationRead)
	notifications.Post("/read-all", handlers.MarkAllRead)

	// Device token for push notifications
	protected.Post("/device-token", handlers.RegisterDeviceToken)

	// WebSocket for live progress updates across a user's sessions
	app.Use("/ws", handlers.WebSocketUpgrade())
	app.Get("/ws", websocket.New(handlers.HandleWebSocket))
}

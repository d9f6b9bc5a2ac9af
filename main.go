package main

import (
	"log"

	"github.com/arnold/stridegoals-api/internal/cache"
	"github.com/arnold/stridegoals-api/internal/config"
	"github.com/arnold/stridegoals-api/internal/database"
	"github.com/arnold/stridegoals-api/internal/division"
	"github.com/arnold/stridegoals-api/internal/handlers"
	"github.com/arnold/stridegoals-api/internal/middleware"
	"github.com/arnold/stridegoals-api/internal/routes"
	"github.com/arnold/stridegoals-api/internal/services"
	"github.com/arnold/stridegoals-api/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()
	middleware.Init(cfg.JWTSecret)

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := services.InitPush(cfg.FCMServiceAccount); err != nil {
		log.Printf("Push init failed: %v", err)
	}

	progressCache := cache.New(cfg)

	engine := division.New(
		store.NewGoalStore(database.DB),
		store.NewHabitStore(database.DB),
		store.NewHabitLogStore(database.DB),
		store.NewDivisionStore(database.DB),
		services.ActivityRecorder{},
	)
	handlers.InitDivision(engine, progressCache)

	app := fiber.New(fiber.Config{
		AppName: "stridegoals-api",
	})
	app.Use(logger.New())
	app.Use(cors.New())

	routes.Setup(app)

	log.Printf("Listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

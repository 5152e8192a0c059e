package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/youssefelghamour/movie-recommendation-system/internal/cache"
	"github.com/youssefelghamour/movie-recommendation-system/internal/config"
	"github.com/youssefelghamour/movie-recommendation-system/internal/database"
	"github.com/youssefelghamour/movie-recommendation-system/internal/handler"
	"github.com/youssefelghamour/movie-recommendation-system/internal/repository"
	"github.com/youssefelghamour/movie-recommendation-system/internal/service"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to Redis
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Error("failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	// Initialize layers
	movieRepo := repository.NewMovieRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	watchRepo := repository.NewWatchHistoryRepository(db)
	recCache := cache.NewRecommendationCache(rdb)

	ranking := service.NewRankingService(movieRepo, ratingRepo, watchRepo, recCache)
	activity := service.NewActivityService(movieRepo, ratingRepo, watchRepo, ranking)

	rankingHandler := handler.NewRankingHandler(ranking)
	activityHandler := handler.NewActivityHandler(activity)

	// Load swagger spec
	swaggerYAML, err := os.ReadFile("docs/swagger.yaml")
	if err != nil {
		slog.Warn("swagger spec not found, swagger UI will be unavailable", "error", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "movie-recommendation-system",
		ServerHeader: "movie-recommendation-system",
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// Swagger
	if swaggerYAML != nil {
		handler.RegisterSwagger(app, swaggerYAML)
	}

	// Routes
	app.Get("/health", rankingHandler.Health)

	api := app.Group("/api/v1")
	api.Get("/movies/popular", rankingHandler.GetPopular)
	api.Get("/movies/top-rated", rankingHandler.GetTopRated)
	api.Get("/movies/trending", rankingHandler.GetTrending)
	api.Get("/users/:id/recommendations", rankingHandler.GetRecommendations)

	api.Post("/movies/:id/ratings", activityHandler.RateMovie)
	api.Put("/movies/:id/ratings", activityHandler.UpdateRating)
	api.Delete("/movies/:id/ratings", activityHandler.DeleteRating)
	api.Post("/movies/:id/watch", activityHandler.WatchMovie)
	api.Delete("/movies/:id/watch", activityHandler.DeleteWatch)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("movie-recommendation-system starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server error", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down movie-recommendation-system")
	_ = app.Shutdown()
}

package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/youssefelghamour/movie-recommendation-system/internal/service"
)

type RankingHandler struct {
	svc *service.RankingService
}

func NewRankingHandler(svc *service.RankingService) *RankingHandler {
	return &RankingHandler{svc: svc}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Health godoc
// GET /health
func (h *RankingHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "movie-recommendation-system",
	})
}

// GetPopular godoc
// GET /api/v1/movies/popular
func (h *RankingHandler) GetPopular(c fiber.Ctx) error {
	page := fiber.Query(c, "page", 1)

	resp, err := h.svc.ComputePopular(c.Context(), page)
	if err != nil {
		slog.Error("failed to compute popular movies", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to compute popular movies"})
	}
	return c.JSON(resp)
}

// GetTopRated godoc
// GET /api/v1/movies/top-rated
func (h *RankingHandler) GetTopRated(c fiber.Ctx) error {
	page := fiber.Query(c, "page", 1)

	resp, err := h.svc.ComputeTopRated(c.Context(), page)
	if err != nil {
		slog.Error("failed to compute top rated movies", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to compute top rated movies"})
	}
	return c.JSON(resp)
}

// GetTrending godoc
// GET /api/v1/movies/trending
func (h *RankingHandler) GetTrending(c fiber.Ctx) error {
	page := fiber.Query(c, "page", 1)
	days := fiber.Query(c, "days", 30)

	resp, err := h.svc.ComputeTrending(c.Context(), days, page)
	if err != nil {
		slog.Error("failed to compute trending movies", "days", days, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to compute trending movies"})
	}
	return c.JSON(resp)
}

// GetRecommendations godoc
// GET /api/v1/users/:id/recommendations
func (h *RankingHandler) GetRecommendations(c fiber.Ctx) error {
	userID, err := uuid.Parse(fiber.Params[string](c, "id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid user ID"})
	}
	page := fiber.Query(c, "page", 1)

	resp, err := h.svc.GetRecommended(c.Context(), userID, page)
	if err != nil {
		slog.Error("failed to generate recommendations", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to generate recommendations"})
	}
	return c.JSON(resp)
}

package handler

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/youssefelghamour/movie-recommendation-system/internal/models"
	"github.com/youssefelghamour/movie-recommendation-system/internal/service"
)

type ActivityHandler struct {
	svc      *service.ActivityService
	validate *validator.Validate
}

func NewActivityHandler(svc *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc, validate: validator.New()}
}

// RateMovie godoc
// POST /api/v1/movies/:id/ratings
func (h *ActivityHandler) RateMovie(c fiber.Ctx) error {
	movieID, err := uuid.Parse(fiber.Params[string](c, "id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid movie ID"})
	}

	var req models.RateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	rating, err := h.svc.RateMovie(c.Context(), req.UserID, movieID, req.Score, req.ReviewText)
	if err != nil {
		return h.writeError(c, err, "failed to rate movie")
	}
	return c.Status(fiber.StatusCreated).JSON(rating)
}

// UpdateRating godoc
// PUT /api/v1/movies/:id/ratings
func (h *ActivityHandler) UpdateRating(c fiber.Ctx) error {
	movieID, err := uuid.Parse(fiber.Params[string](c, "id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid movie ID"})
	}

	var req models.RateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	rating, err := h.svc.UpdateRating(c.Context(), req.UserID, movieID, req.Score, req.ReviewText)
	if err != nil {
		return h.writeError(c, err, "failed to update rating")
	}
	return c.JSON(rating)
}

// DeleteRating godoc
// DELETE /api/v1/movies/:id/ratings?user_id=
func (h *ActivityHandler) DeleteRating(c fiber.Ctx) error {
	movieID, err := uuid.Parse(fiber.Params[string](c, "id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid movie ID"})
	}
	userID, err := uuid.Parse(fiber.Query[string](c, "user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid user ID"})
	}

	if err := h.svc.DeleteRating(c.Context(), userID, movieID); err != nil {
		return h.writeError(c, err, "failed to delete rating")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// WatchMovie godoc
// POST /api/v1/movies/:id/watch
func (h *ActivityHandler) WatchMovie(c fiber.Ctx) error {
	movieID, err := uuid.Parse(fiber.Params[string](c, "id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid movie ID"})
	}

	var req models.WatchRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	entry, err := h.svc.WatchMovie(c.Context(), req.UserID, movieID)
	if err != nil {
		return h.writeError(c, err, "failed to record watch")
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// DeleteWatch godoc
// DELETE /api/v1/movies/:id/watch?user_id=
func (h *ActivityHandler) DeleteWatch(c fiber.Ctx) error {
	movieID, err := uuid.Parse(fiber.Params[string](c, "id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid movie ID"})
	}
	userID, err := uuid.Parse(fiber.Query[string](c, "user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid user ID"})
	}

	if err := h.svc.DeleteWatch(c.Context(), userID, movieID); err != nil {
		return h.writeError(c, err, "failed to delete watch history")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ActivityHandler) writeError(c fiber.Ctx, err error, logMsg string) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrAlreadyRated),
		errors.Is(err, service.ErrAlreadyWatched),
		errors.Is(err, service.ErrRatingExists),
		errors.Is(err, service.ErrInvalidScore):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	default:
		slog.Error(logMsg, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: logMsg})
	}
}

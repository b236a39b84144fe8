package handlers

import (
	"github.com/fenilmodi00/lotto-backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type GameHandler struct {
	Service *services.SavedSelectionService
}

func NewGameHandler(service *services.SavedSelectionService) *GameHandler {
	return &GameHandler{Service: service}
}

func (h *GameHandler) ListGames(c *fiber.Ctx) error {
	games, err := h.Service.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, games)
}

func (h *GameHandler) SaveGame(c *fiber.Ctx) error {
	var req services.SaveSelectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	game, err := h.Service.Save(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    game,
	})
}

func (h *GameHandler) DeleteGame(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid game id",
		})
	}

	if err := h.Service.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
	})
}

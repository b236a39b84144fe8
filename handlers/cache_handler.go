package handlers

import (
	"strconv"

	"github.com/fenilmodi00/lotto-backend/services"
	"github.com/fenilmodi00/lotto-backend/shared"
	"github.com/gofiber/fiber/v2"
)

type CacheHandler struct {
	Service *services.CacheService
}

func NewCacheHandler(service *services.CacheService) *CacheHandler {
	return &CacheHandler{Service: service}
}

// GetStats reports entry counts and limits of the suggestion cache
func (h *CacheHandler) GetStats(c *fiber.Ctx) error {
	return respondData(c, h.Service.GetStats())
}

// ClearCache drops every cached suggestion
func (h *CacheHandler) ClearCache(c *fiber.Ctx) error {
	h.Service.Clear()
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cache cleared",
	})
}

// EvictSuggestions drops the cached suggestions generated for one concourse
func (h *CacheHandler) EvictSuggestions(c *fiber.Ctx) error {
	concourse, err := strconv.Atoi(c.Params("concourse"))
	if err != nil || concourse < 0 {
		return respondError(c, shared.NewValidationError("EvictSuggestions", "concourse must be a non-negative integer"))
	}

	key := services.SuggestionCacheKey(concourse)
	_, cached := h.Service.Get(key)
	if !cached {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "No cached suggestions found",
		})
	}

	h.Service.Delete(key)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cached suggestions evicted",
	})
}

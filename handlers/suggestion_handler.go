package handlers

import (
	"github.com/fenilmodi00/lotto-backend/services"
	"github.com/gofiber/fiber/v2"
)

type SuggestionHandler struct {
	Service *services.SuggestionService
}

func NewSuggestionHandler(service *services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{Service: service}
}

// GetSuggestions always answers 200; data.offline tells whether the fallback was used
func (h *SuggestionHandler) GetSuggestions(c *fiber.Ctx) error {
	return respondData(c, h.Service.Suggest(c.Context()))
}

func (h *SuggestionHandler) GetStats(c *fiber.Ctx) error {
	return respondData(c, h.Service.Stats())
}

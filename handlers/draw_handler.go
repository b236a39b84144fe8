package handlers

import (
	"strconv"

	"github.com/fenilmodi00/lotto-backend/services"
	"github.com/gofiber/fiber/v2"
)

type DrawHandler struct {
	Archive *services.DrawArchive
}

func NewDrawHandler(archive *services.DrawArchive) *DrawHandler {
	return &DrawHandler{Archive: archive}
}

// GetDraws lists archived draws newest first; ?limit=n returns only the newest n
func (h *DrawHandler) GetDraws(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", -1)
	draws := h.Archive.Recent(limit)
	return c.JSON(fiber.Map{
		"success": true,
		"data":    draws,
		"total":   h.Archive.Size(),
	})
}

func (h *DrawHandler) GetLatestDraw(c *fiber.Ctx) error {
	latest := h.Archive.LatestSequenceNumber()
	if latest == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Archive is empty",
		})
	}
	draw, _ := h.Archive.Get(latest)
	return respondData(c, draw)
}

func (h *DrawHandler) GetDrawByConcourse(c *fiber.Ctx) error {
	concourse, err := strconv.Atoi(c.Params("concourse"))
	if err != nil || concourse <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid concourse",
		})
	}
	draw, ok := h.Archive.Get(concourse)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Draw not found",
		})
	}
	return respondData(c, draw)
}

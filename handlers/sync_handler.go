package handlers

import (
	"github.com/fenilmodi00/lotto-backend/services"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type SyncHandler struct {
	Controller *services.SyncController
}

func NewSyncHandler(controller *services.SyncController) *SyncHandler {
	return &SyncHandler{Controller: controller}
}

// TriggerSync runs a sync and reports what it merged. An archive that is already
// current answers with fetched_count 0.
func (h *SyncHandler) TriggerSync(c *fiber.Ctx) error {
	logrus.Info("Manual sync triggered via API")

	report, err := h.Controller.Sync(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, report)
}

func (h *SyncHandler) GetSyncState(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.Controller.State(),
		"metrics": h.Controller.Stats(),
	})
}

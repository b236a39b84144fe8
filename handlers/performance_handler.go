package handlers

import (
	"time"

	"github.com/fenilmodi00/lotto-backend/database"
	"github.com/fenilmodi00/lotto-backend/models"
	"github.com/fenilmodi00/lotto-backend/services"
	"github.com/gofiber/fiber/v2"
)

type PerformanceHandler struct {
	Store      database.Store
	Archive    *services.DrawArchive
	Controller *services.SyncController
	Cache      *services.CacheService
}

func NewPerformanceHandler(store database.Store, archive *services.DrawArchive, controller *services.SyncController, cache *services.CacheService) *PerformanceHandler {
	return &PerformanceHandler{
		Store:      store,
		Archive:    archive,
		Controller: controller,
		Cache:      cache,
	}
}

// Health reports process liveness plus store reachability. An unconfigured
// store is reported but does not make the service unhealthy.
func (h *PerformanceHandler) Health(c *fiber.Ctx) error {
	overall := "ok"
	storeStatus := "ok"
	status := fiber.StatusOK

	if h.Store.Kind() == "none" {
		storeStatus = "not_configured"
	} else if err := h.Store.HealthCheck(c.Context()); err != nil {
		overall = "degraded"
		storeStatus = "unavailable"
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status":           overall,
		"timestamp":        time.Now().Unix(),
		"store":            h.Store.Kind(),
		"store_status":     storeStatus,
		"archive_size":     h.Archive.Size(),
		"latest_concourse": h.Archive.LatestSequenceNumber(),
	})
}

// GetPerformanceMetrics returns sync, cache and scoring metrics
func (h *PerformanceHandler) GetPerformanceMetrics(c *fiber.Ctx) error {
	metrics := make(map[string]interface{})

	draws := h.Archive.All()
	sample := models.Selection{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	start := time.Now()
	results, _ := services.Score(sample, draws)
	metrics["score_full_archive"] = map[string]interface{}{
		"duration_us": time.Since(start).Microseconds(),
		"draws":       len(results),
	}

	metrics["sync"] = h.Controller.Stats()
	metrics["sync_state"] = h.Controller.State()

	if h.Cache != nil {
		metrics["cache_stats"] = h.Cache.GetStats()
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    metrics,
	})
}

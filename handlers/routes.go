package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler the API serves
type Handlers struct {
	Draw        *DrawHandler
	Sync        *SyncHandler
	Check       *CheckHandler
	Suggestion  *SuggestionHandler
	Game        *GameHandler
	Performance *PerformanceHandler
	Cache       *CacheHandler
}

// RegisterRoutes mounts the API on app
func RegisterRoutes(app *fiber.App, h Handlers) {
	app.Get("/health", h.Performance.Health)

	api := app.Group("/api/v1")
	api.Get("/health", h.Performance.Health)

	// Draw Routes
	api.Get("/draws", h.Draw.GetDraws)
	api.Get("/draws/latest", h.Draw.GetLatestDraw)
	api.Get("/draws/:concourse", h.Draw.GetDrawByConcourse)

	// Sync Routes
	api.Post("/sync", h.Sync.TriggerSync)
	api.Get("/sync/state", h.Sync.GetSyncState)

	// Check Route
	api.Post("/check", h.Check.CheckSelection)

	// Suggestion Routes
	api.Get("/suggestions", h.Suggestion.GetSuggestions)
	api.Get("/stats", h.Suggestion.GetStats)

	// Saved Game Routes
	api.Get("/games", h.Game.ListGames)
	api.Post("/games", h.Game.SaveGame)
	api.Delete("/games/:id", h.Game.DeleteGame)

	// Performance Routes
	perf := api.Group("/performance")
	perf.Get("/metrics", h.Performance.GetPerformanceMetrics)
	perf.Get("/cache", h.Cache.GetStats)
	perf.Delete("/cache", h.Cache.ClearCache)
	perf.Delete("/cache/suggestions/:concourse", h.Cache.EvictSuggestions)
}

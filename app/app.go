package app

import (
	"context"

	"github.com/fenilmodi00/lotto-backend/config"
	"github.com/fenilmodi00/lotto-backend/database"
	"github.com/fenilmodi00/lotto-backend/services"
	"github.com/fenilmodi00/lotto-backend/shared"
	"github.com/sirupsen/logrus"
)

// App holds the wired services shared by the HTTP server and the CLI
type App struct {
	Config          *shared.UnifiedConfiguration
	Store           database.Store
	Archive         *services.DrawArchive
	Controller      *services.SyncController
	Suggestions     *services.SuggestionService
	SavedSelections *services.SavedSelectionService
	Cache           *services.CacheService
	httpFactory     *shared.HTTPClientFactory
}

// New opens the store, loads the archive and wires the remote collaborators
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	unified, err := cfg.ToUnified()
	if err != nil {
		return nil, err
	}
	config.SetupLogging(unified.Logging)

	store, err := database.OpenStore(ctx, cfg.DatabaseURL, unified.Database)
	if err != nil {
		return nil, err
	}

	archive := services.NewDrawArchive(store)
	if err := archive.Load(ctx); err != nil {
		logrus.WithError(err).Warn("Starting with an empty archive")
	}

	factory := shared.NewHTTPClientFactory(unified.Remote.HTTPRequestTimeout)
	source, generator := buildRemotes(unified, cfg.GenerationAPIKey, factory)

	retryPolicy := shared.NewRetryPolicyFromConfig("FetchHistory", unified.Retry)
	suggestionRetry := shared.NewRetryPolicyFromConfig("RequestSuggestions", unified.Retry)

	controller := services.NewSyncController(archive, source, retryPolicy).
		WithDefaultWindow(unified.Sync.DefaultWindow)
	cache := services.NewCacheServiceWithConfig(unified.Cache.DefaultTTL, unified.Cache.MaxSize)

	a := &App{
		Config:          unified,
		Store:           store,
		Archive:         archive,
		Controller:      controller,
		Suggestions:     services.NewSuggestionService(archive, generator, suggestionRetry, cache),
		SavedSelections: services.NewSavedSelectionService(store),
		Cache:           cache,
		httpFactory:     factory,
	}

	logrus.WithFields(logrus.Fields{
		"store":            store.Kind(),
		"archive_size":     archive.Size(),
		"latest_concourse": archive.LatestSequenceNumber(),
		"generation":       unified.Remote.GenerationURL != "",
		"results_page":     unified.Remote.ResultsPageURL != "",
		"retry_attempts":   unified.Retry.MaxAttempts,
		"retry_worst_case": retryPolicy.WorstCaseDelay(),
	}).Info("Lotto backend services initialized")

	return a, nil
}

// buildRemotes prefers the official results page for history when configured
// and uses the generation service for suggestions.
func buildRemotes(unified *shared.UnifiedConfiguration, apiKey string, factory *shared.HTTPClientFactory) (services.HistorySource, services.SuggestionGenerator) {
	var (
		source    services.HistorySource = services.UnconfiguredSource{}
		generator services.SuggestionGenerator
	)

	if unified.Remote.GenerationURL != "" {
		client := services.NewGenerationClient(services.GenerationClientConfig{
			BaseURL:          unified.Remote.GenerationURL,
			APIKey:           apiKey,
			HTTPTimeout:      unified.Remote.HTTPRequestTimeout,
			RequestRateLimit: unified.Remote.RequestRateLimit,
			HistoryWindow:    unified.Sync.DefaultWindow,
		}, factory)
		source = client
		generator = client
	}

	if unified.Remote.ResultsPageURL != "" {
		source = services.NewResultsPageSource(services.ResultsPageConfig{
			URL:              unified.Remote.ResultsPageURL,
			RenderJavaScript: unified.Remote.RenderResultsPage,
			HTTPTimeout:      unified.Remote.HTTPRequestTimeout,
			RequestRateLimit: unified.Remote.RequestRateLimit,
			HistoryWindow:    unified.Sync.DefaultWindow,
		})
	}

	if _, ok := source.(services.UnconfiguredSource); ok {
		logrus.Warn("Neither GENERATION_URL nor RESULTS_PAGE_URL is set, sync will fail until one is configured")
	}
	return source, generator
}

// Close releases the store and pooled HTTP connections
func (a *App) Close() {
	a.Controller.LogSummary()
	a.httpFactory.CleanupAllClients()
	if err := a.Store.Close(); err != nil {
		logrus.WithError(err).Warn("Failed to close store")
	}
}

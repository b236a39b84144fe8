package services

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fenilmodi00/lotto-backend/models"
	"github.com/fenilmodi00/lotto-backend/shared"
	"github.com/sirupsen/logrus"
)

const generationServiceName = "GenerationService"

// GenerationClientConfig configures the JSON client for the generation service
type GenerationClientConfig struct {
	BaseURL          string
	APIKey           string
	HTTPTimeout      time.Duration
	RequestRateLimit time.Duration
	HistoryWindow    int
}

// GenerationClient talks to the external generation service over JSON/HTTP.
// It serves both as a HistorySource and as a SuggestionGenerator. Responses are
// classified into the error taxonomy here and nowhere else.
type GenerationClient struct {
	baseURL       string
	apiKey        string
	historyWindow int
	httpClient    *http.Client
	rateLimiter   *shared.HTTPRequestRateLimiter
	logger        *logrus.Entry
}

// historyRequest is the body of POST /history
type historyRequest struct {
	Since  int `json:"since"`
	Window int `json:"window,omitempty"`
}

// wireDraw is a draw as the generation service returns it
type wireDraw struct {
	Concourse int    `json:"concourse"`
	Date      string `json:"date"`
	Numbers   []int  `json:"numbers"`
}

// NewGenerationClient creates a client using factory for its HTTP transport
func NewGenerationClient(config GenerationClientConfig, factory *shared.HTTPClientFactory) *GenerationClient {
	if config.HistoryWindow <= 0 {
		config.HistoryWindow = models.DefaultHistoryWindow
	}
	return &GenerationClient{
		baseURL:       strings.TrimRight(config.BaseURL, "/"),
		apiKey:        config.APIKey,
		historyWindow: config.HistoryWindow,
		httpClient:    factory.CreateOptimizedHTTPClient(config.HTTPTimeout),
		rateLimiter:   shared.NewHTTPRequestRateLimiter(config.RequestRateLimit),
		logger:        logrus.WithField("component", "GenerationClient"),
	}
}

// FetchHistory asks for contests after since, newest first. since == 0 asks for
// the most recent historyWindow contests.
func (g *GenerationClient) FetchHistory(ctx context.Context, since int) ([]models.Draw, error) {
	if err := g.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	request := historyRequest{Since: since}
	if since <= 0 {
		request = historyRequest{Since: 0, Window: g.historyWindow}
	}

	var payload []wireDraw
	err := shared.DoJSON(ctx, g.httpClient, shared.JSONRequest{
		ServiceName: generationServiceName,
		Operation:   "FetchHistory",
		Method:      http.MethodPost,
		URL:         g.baseURL + "/history",
		Headers:     g.authHeaders(),
		Body:        request,
	}, &payload)
	if err != nil {
		return nil, err
	}

	draws := make([]models.Draw, 0, len(payload))
	for _, item := range payload {
		draws = append(draws, item.toDraw(g.logger))
	}

	g.logger.WithFields(logrus.Fields{
		"since":    since,
		"received": len(draws),
	}).Debug("Fetched history from generation service")

	return draws, nil
}

// RequestSuggestions sends the history context and returns the generated games
func (g *GenerationClient) RequestSuggestions(ctx context.Context, generation models.GenerationContext) (models.Suggestion, error) {
	if err := g.rateLimiter.Wait(ctx); err != nil {
		return models.Suggestion{}, err
	}

	var suggestion models.Suggestion
	err := shared.DoJSON(ctx, g.httpClient, shared.JSONRequest{
		ServiceName: generationServiceName,
		Operation:   "RequestSuggestions",
		Method:      http.MethodPost,
		URL:         g.baseURL + "/suggestions",
		Headers:     g.authHeaders(),
		Body:        generation,
	}, &suggestion)
	if err != nil {
		return models.Suggestion{}, err
	}

	if len(suggestion.Games) == 0 {
		return models.Suggestion{}, shared.NewPermanentRemoteError(generationServiceName, "RequestSuggestions", "response carried no games", nil)
	}

	suggestion.Offline = false
	return suggestion, nil
}

func (g *GenerationClient) authHeaders() map[string]string {
	if g.apiKey == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + g.apiKey}
}

// toDraw keeps the record even when the date is unreadable; the numbers are
// what validation cares about.
func (w wireDraw) toDraw(logger *logrus.Entry) models.Draw {
	draw := models.Draw{SequenceNumber: w.Concourse, Numbers: w.Numbers}
	if w.Date != "" {
		date, err := models.ParseDrawDate(w.Date)
		if err != nil {
			logger.WithField("concourse", w.Concourse).WithError(err).Debug("Ignoring unreadable draw date")
		} else {
			draw.OccurredOn = date
		}
	}
	return draw
}

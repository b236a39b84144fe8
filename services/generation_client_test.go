package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fenilmodi00/lotto-backend/models"
	"github.com/fenilmodi00/lotto-backend/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerationServer(t *testing.T, handler http.HandlerFunc) *GenerationClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewGenerationClient(GenerationClientConfig{
		BaseURL:     server.URL + "/",
		APIKey:      "secret",
		HTTPTimeout: 5 * time.Second,
	}, shared.NewHTTPClientFactory(5*time.Second))
}

func TestGenerationClientFetchHistory(t *testing.T) {
	var received historyRequest
	client := newGenerationServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/history", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Write([]byte(`[
			{"concourse": 3002, "date": "03/01/2024", "numbers": [15,14,13,12,11,10,9,8,7,6,5,4,3,2,1]},
			{"concourse": 3001, "date": "not a date", "numbers": [1,2,3]}
		]`))
	})

	draws, err := client.FetchHistory(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, 0, received.Since)
	assert.Equal(t, models.DefaultHistoryWindow, received.Window)
	require.Len(t, draws, 2)
	assert.Equal(t, 3002, draws[0].SequenceNumber)
	assert.Equal(t, "2024-01-03", draws[0].OccurredOn.String())
	assert.True(t, draws[1].OccurredOn.IsZero())
}

func TestGenerationClientFetchHistorySinceOmitsWindow(t *testing.T) {
	var raw map[string]interface{}
	client := newGenerationServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.Write([]byte(`[]`))
	})

	draws, err := client.FetchHistory(context.Background(), 3000)

	require.NoError(t, err)
	assert.Empty(t, draws)
	assert.Equal(t, float64(3000), raw["since"])
	assert.NotContains(t, raw, "window")
}

func TestGenerationClientClassifiesFailures(t *testing.T) {
	status := http.StatusTooManyRequests
	client := newGenerationServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})

	_, err := client.FetchHistory(context.Background(), 1)
	assert.True(t, shared.IsTransient(err))

	status = http.StatusForbidden
	_, err = client.FetchHistory(context.Background(), 1)
	assert.True(t, shared.IsPermanentRemote(err))
}

func TestGenerationClientRequestSuggestions(t *testing.T) {
	client := newGenerationServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/suggestions", r.URL.Path)

		var generation models.GenerationContext
		require.NoError(t, json.NewDecoder(r.Body).Decode(&generation))
		assert.Equal(t, 3003, generation.NextSequenceNumber)

		w.Write([]byte(`{
			"games": [{"numbers": [1,2,3,4,5,6,7,8,9,10,11,12,13,14,15], "reasoning": "hot", "probabilityScore": 77, "tags": ["hot"]}],
			"frequentCombinations": [{"numbers": [1,2], "count": 40, "type": "pair", "description": "common"}],
			"offline": true
		}`))
	})

	suggestion, err := client.RequestSuggestions(context.Background(), models.GenerationContext{NextSequenceNumber: 3003})

	require.NoError(t, err)
	assert.False(t, suggestion.Offline)
	require.Len(t, suggestion.Games, 1)
	assert.Equal(t, 77, suggestion.Games[0].ProbabilityScore)
	assert.Equal(t, 40, suggestion.FrequentCombinations[0].Count)
}

func TestGenerationClientRejectsEmptySuggestions(t *testing.T) {
	client := newGenerationServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"games": []}`))
	})

	_, err := client.RequestSuggestions(context.Background(), models.GenerationContext{})
	assert.True(t, shared.IsPermanentRemote(err))
}

package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fenilmodi00/lotto-backend/models"
	"github.com/fenilmodi00/lotto-backend/shared"
	"github.com/sirupsen/logrus"
)

const (
	hotNumberCount    = 12
	coldNumberCount   = 5
	suggestionContext = 100
)

// SuggestionGenerator produces suggested games from a history context
type SuggestionGenerator interface {
	RequestSuggestions(ctx context.Context, generation models.GenerationContext) (models.Suggestion, error)
}

// SuggestionService builds the history context, asks the generator for games
// and falls back to fixed games when the generator cannot be reached.
type SuggestionService struct {
	archive   *DrawArchive
	generator SuggestionGenerator
	retry     *shared.RetryPolicy
	cache     *CacheService
	logger    *logrus.Entry
}

// NewSuggestionService creates the service. generator may be nil, in which case
// every request is answered offline.
func NewSuggestionService(archive *DrawArchive, generator SuggestionGenerator, retry *shared.RetryPolicy, cache *CacheService) *SuggestionService {
	if retry == nil {
		retry = shared.NewDefaultRetryPolicy("RequestSuggestions")
	}
	s := &SuggestionService{
		archive:   archive,
		generator: generator,
		retry:     retry,
		cache:     cache,
		logger:    logrus.WithField("component", "SuggestionService"),
	}
	if cache != nil {
		// Cached games were generated for an older latest contest once a new draw lands.
		archive.Subscribe(func([]models.Draw) {
			if dropped := cache.DeletePrefix(suggestionCachePrefix); dropped > 0 {
				s.logger.WithField("dropped", dropped).Debug("Dropped stale cached suggestions")
			}
		})
	}
	return s
}

// Stats counts how often each number was drawn. Hot holds the 12 most frequent
// numbers and Cold the 5 least frequent; ties go to the lower number.
func Stats(draws []models.Draw) models.HistoryStats {
	stats := models.HistoryStats{
		Total:     len(draws),
		Frequency: make(map[int]int, models.MaxNumber),
	}
	if len(draws) == 0 {
		stats.Hot = []int{}
		stats.Cold = []int{}
		return stats
	}

	for n := models.MinNumber; n <= models.MaxNumber; n++ {
		stats.Frequency[n] = 0
	}
	for _, draw := range draws {
		for _, n := range draw.Numbers {
			stats.Frequency[n]++
		}
	}

	ranked := make([]int, 0, models.MaxNumber)
	for n := models.MinNumber; n <= models.MaxNumber; n++ {
		ranked = append(ranked, n)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return stats.Frequency[ranked[i]] > stats.Frequency[ranked[j]]
	})

	stats.Hot = append([]int(nil), ranked[:hotNumberCount]...)
	stats.Cold = append([]int(nil), ranked[len(ranked)-coldNumberCount:]...)
	return stats
}

// Stats summarizes the whole archive
func (s *SuggestionService) Stats() models.HistoryStats {
	return Stats(s.archive.All())
}

// Suggest returns generated games for the next contest. Results are cached per
// latest archived contest. Any generator failure yields the offline fallback.
func (s *SuggestionService) Suggest(ctx context.Context) models.Suggestion {
	latest := s.archive.LatestSequenceNumber()
	cacheKey := SuggestionCacheKey(latest)

	if s.cache != nil {
		if cached, ok := s.cache.Get(cacheKey); ok {
			if suggestion, ok := cached.(models.Suggestion); ok {
				s.logger.WithField("concourse", latest).Debug("Serving cached suggestions")
				return suggestion
			}
		}
	}

	if s.generator == nil {
		return OfflineSuggestion(latest)
	}

	generation := models.GenerationContext{
		Stats:              s.Stats(),
		RecentDraws:        s.archive.Recent(suggestionContext),
		NextSequenceNumber: latest + 1,
	}

	suggestion, err := shared.Execute(ctx, s.retry, func(ctx context.Context) (models.Suggestion, error) {
		return s.generator.RequestSuggestions(ctx, generation)
	})
	if err != nil {
		s.logger.WithError(err).WithField("category", shared.CategoryOf(err)).Warn("Generator unavailable, returning offline suggestions")
		return OfflineSuggestion(latest)
	}

	suggestion.BasedOnConcourse = latest
	if suggestion.GeneratedAt.IsZero() {
		suggestion.GeneratedAt = time.Now()
	}
	if s.cache != nil {
		s.cache.Set(cacheKey, suggestion)
	}
	return suggestion
}

const suggestionCachePrefix = "suggestions:"

// SuggestionCacheKey names the cache entry for suggestions based on latest
func SuggestionCacheKey(latest int) string {
	return fmt.Sprintf("%s%d", suggestionCachePrefix, latest)
}

// OfflineSuggestion is the fixed answer used when the generator cannot help
func OfflineSuggestion(latest int) models.Suggestion {
	return models.Suggestion{
		Games: []models.Game{
			{
				Numbers:          []int{1, 2, 4, 6, 7, 8, 10, 12, 13, 15, 20, 21, 23, 24, 25},
				Reasoning:        "Modo Offline: Análise baseada em probabilidade fixa devido a erro de conexão.",
				ProbabilityScore: 92,
				Tags:             []string{"Offline", "Probabilidade Fixa"},
			},
			{
				Numbers:          []int{1, 2, 4, 5, 8, 10, 11, 13, 15, 17, 20, 21, 23, 24, 25},
				Reasoning:        "Modo Offline: Estratégia de segurança.",
				ProbabilityScore: 88,
				Tags:             []string{"Offline", "Segurança"},
			},
		},
		FrequentCombinations: []models.FrequentCombination{
			{
				Numbers:     []int{4, 1, 8, 20},
				Count:       0,
				Type:        "Erro",
				Description: "Não foi possível conectar à IA para realizar o backtest.",
			},
		},
		Offline:          true,
		BasedOnConcourse: latest,
		GeneratedAt:      time.Now(),
	}
}

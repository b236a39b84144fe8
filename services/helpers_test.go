package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fenilmodi00/lotto-backend/models"
	"github.com/google/uuid"
)

var errStoreDown = errors.New("connection refused")

// memoryStore is an in-process DrawStore and SelectionStore for tests
type memoryStore struct {
	mu         sync.Mutex
	draws      map[int]models.Draw
	selections map[uuid.UUID]models.SavedSelection
	fail       bool
	upserts    int
	upserted   int
}

func newMemoryStore(draws ...models.Draw) *memoryStore {
	store := &memoryStore{
		draws:      make(map[int]models.Draw),
		selections: make(map[uuid.UUID]models.SavedSelection),
	}
	for _, draw := range draws {
		store.draws[draw.SequenceNumber] = draw
	}
	return store
}

func (s *memoryStore) setFailing(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

func (s *memoryStore) LoadDraws(ctx context.Context) ([]models.Draw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errStoreDown
	}
	out := make([]models.Draw, 0, len(s.draws))
	for _, draw := range s.draws {
		out = append(out, draw)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SequenceNumber > out[j].SequenceNumber })
	return out, nil
}

func (s *memoryStore) UpsertDraws(ctx context.Context, draws []models.Draw) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errStoreDown
	}
	s.upserts++
	s.upserted += len(draws)
	for _, draw := range draws {
		s.draws[draw.SequenceNumber] = draw
	}
	return nil
}

func (s *memoryStore) LatestSequenceNumber(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	latest := 0
	for seq := range s.draws {
		if seq > latest {
			latest = seq
		}
	}
	return latest, nil
}

func (s *memoryStore) SaveSelection(ctx context.Context, selection models.SavedSelection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errStoreDown
	}
	s.selections[selection.ID] = selection
	return nil
}

func (s *memoryStore) ListSelections(ctx context.Context) ([]models.SavedSelection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errStoreDown
	}
	out := make([]models.SavedSelection, 0, len(s.selections))
	for _, selection := range s.selections {
		out = append(out, selection)
	}
	return out, nil
}

func (s *memoryStore) DeleteSelection(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errStoreDown
	}
	delete(s.selections, id)
	return nil
}

func (s *memoryStore) stats() (upserts, upserted int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upserts, s.upserted
}

// testDraw builds a valid draw whose numbers depend on seq: 1..25 without
// the ten numbers starting at seq%16+1.
func testDraw(seq int) models.Draw {
	skipFrom := seq%16 + 1
	numbers := make([]int, 0, models.DrawSize)
	for n := models.MinNumber; n <= models.MaxNumber; n++ {
		if n >= skipFrom && n < skipFrom+10 {
			continue
		}
		numbers = append(numbers, n)
	}
	date := models.DrawDate{Time: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, seq)}
	return models.Draw{SequenceNumber: seq, OccurredOn: date, Numbers: numbers}
}

func drawWithNumbers(seq int, numbers ...int) models.Draw {
	if len(numbers) != models.DrawSize {
		panic(fmt.Sprintf("drawWithNumbers needs %d numbers", models.DrawSize))
	}
	draw := testDraw(seq)
	draw.Numbers = numbers
	return draw.Normalized()
}

func testDraws(from, to int) []models.Draw {
	draws := make([]models.Draw, 0, to-from+1)
	for seq := to; seq >= from; seq-- {
		draws = append(draws, testDraw(seq))
	}
	return draws
}

func sequenceNumbers(draws []models.Draw) []int {
	out := make([]int, len(draws))
	for i, draw := range draws {
		out[i] = draw.SequenceNumber
	}
	return out
}

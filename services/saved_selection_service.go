package services

import (
	"context"
	"sort"
	"time"

	"github.com/fenilmodi00/lotto-backend/models"
	"github.com/fenilmodi00/lotto-backend/shared"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SelectionStore persists saved selections
type SelectionStore interface {
	SaveSelection(ctx context.Context, selection models.SavedSelection) error
	ListSelections(ctx context.Context) ([]models.SavedSelection, error)
	DeleteSelection(ctx context.Context, id uuid.UUID) error
}

// SaveSelectionRequest is what a caller supplies when keeping a combination
type SaveSelectionRequest struct {
	Numbers   []int    `json:"numbers"`
	Reasoning string   `json:"reasoning"`
	Score     int      `json:"score"`
	Tags      []string `json:"tags"`
}

// SavedSelectionService keeps the player's chosen combinations
type SavedSelectionService struct {
	store  SelectionStore
	now    func() time.Time
	logger *logrus.Entry
}

func NewSavedSelectionService(store SelectionStore) *SavedSelectionService {
	return &SavedSelectionService{
		store:  store,
		now:    time.Now,
		logger: logrus.WithField("component", "SavedSelectionService"),
	}
}

// Save validates the request and stores it under a new id with the current schema version
func (s *SavedSelectionService) Save(ctx context.Context, request SaveSelectionRequest) (models.SavedSelection, error) {
	numbers := append([]int(nil), request.Numbers...)
	sort.Ints(numbers)

	reasoning := request.Reasoning
	if reasoning == "" {
		reasoning = "Sem análise"
	}

	selection := models.SavedSelection{
		ID:            uuid.New(),
		SchemaVersion: models.CurrentSelectionSchemaVersion,
		CreatedAt:     s.now().UTC(),
		Numbers:       numbers,
		Reasoning:     reasoning,
		Score:         request.Score,
	}
	if len(request.Tags) > 0 {
		selection.Tags = append([]string(nil), request.Tags...)
	}

	if err := selection.Validate(); err != nil {
		return models.SavedSelection{}, err
	}

	if err := s.store.SaveSelection(ctx, selection); err != nil {
		s.logger.WithError(err).WithField("category", shared.CategoryOf(err)).Warn("Failed to save selection")
		return models.SavedSelection{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"id":      selection.ID,
		"numbers": len(selection.Numbers),
	}).Info("Saved selection")
	return selection, nil
}

// List returns saved selections, newest first
func (s *SavedSelectionService) List(ctx context.Context) ([]models.SavedSelection, error) {
	selections, err := s.store.ListSelections(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(selections, func(i, j int) bool {
		return selections[i].CreatedAt.After(selections[j].CreatedAt)
	})
	return selections, nil
}

// Delete removes a saved selection by id
func (s *SavedSelectionService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return shared.NewValidationError("DeleteSelection", "selection id is required")
	}
	if err := s.store.DeleteSelection(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("id", id).Info("Deleted selection")
	return nil
}

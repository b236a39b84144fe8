package database

import (
	"context"
	"errors"

	"github.com/fenilmodi00/lotto-backend/models"
	"github.com/fenilmodi00/lotto-backend/shared"
	"github.com/google/uuid"
)

// ErrStoreNotConfigured is the cause attached to every write on a NoopStore
var ErrStoreNotConfigured = errors.New("database not configured")

const noopServiceName = "NoopStore"

// NoopStore stands in when no database is configured. Reads are always empty
// and draw upserts are discarded, so the archive runs memory-only. Selection
// writes fail with StorageUnavailable.
type NoopStore struct{}

func NewNoopStore() *NoopStore {
	return &NoopStore{}
}

func (s *NoopStore) Kind() string { return "none" }

func (s *NoopStore) Close() error { return nil }

func (s *NoopStore) HealthCheck(ctx context.Context) error {
	return shared.NewStorageUnavailableError(noopServiceName, "HealthCheck", ErrStoreNotConfigured)
}

func (s *NoopStore) LoadDraws(ctx context.Context) ([]models.Draw, error) {
	return nil, nil
}

func (s *NoopStore) UpsertDraws(ctx context.Context, draws []models.Draw) error {
	return nil
}

func (s *NoopStore) LatestSequenceNumber(ctx context.Context) (int, error) {
	return 0, nil
}

func (s *NoopStore) SaveSelection(ctx context.Context, selection models.SavedSelection) error {
	return shared.NewStorageUnavailableError(noopServiceName, "SaveSelection", ErrStoreNotConfigured)
}

func (s *NoopStore) ListSelections(ctx context.Context) ([]models.SavedSelection, error) {
	return []models.SavedSelection{}, nil
}

func (s *NoopStore) DeleteSelection(ctx context.Context, id uuid.UUID) error {
	return shared.NewStorageUnavailableError(noopServiceName, "DeleteSelection", ErrStoreNotConfigured)
}

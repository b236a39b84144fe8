package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/fenilmodi00/lotto-backend/models"
	"github.com/fenilmodi00/lotto-backend/shared"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Store is the durable keyed storage for draws and saved selections.
// Every failure to reach the backend is reported as a StorageUnavailable error.
type Store interface {
	LoadDraws(ctx context.Context) ([]models.Draw, error)
	UpsertDraws(ctx context.Context, draws []models.Draw) error
	LatestSequenceNumber(ctx context.Context) (int, error)

	SaveSelection(ctx context.Context, selection models.SavedSelection) error
	ListSelections(ctx context.Context) ([]models.SavedSelection, error)
	DeleteSelection(ctx context.Context, id uuid.UUID) error

	HealthCheck(ctx context.Context) error
	Kind() string
	Close() error
}

// OpenStore picks a backend from the database URL:
//
//	""                          no-op store, always empty, writes fail softly
//	postgres://, postgresql://  PostgreSQL
//	sqlite:<path>, file:<path>  SQLite file
func OpenStore(ctx context.Context, databaseURL string, config shared.DatabaseConfig) (Store, error) {
	logger := logrus.WithField("component", "OpenStore")

	switch {
	case strings.TrimSpace(databaseURL) == "":
		logger.Warn("DATABASE_URL not set, running with a no-op store")
		return NewNoopStore(), nil

	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		db, err := ConnectWithConfig(ctx, databaseURL, &config)
		if err != nil {
			return nil, err
		}
		if err := Migrate(ctx, db, schemaSQL); err != nil {
			db.Close()
			return nil, err
		}
		return NewPostgresStore(ctx, db)

	case strings.HasPrefix(databaseURL, "sqlite:"):
		return OpenSQLite(strings.TrimPrefix(databaseURL, "sqlite:"))

	case strings.HasPrefix(databaseURL, "file:"):
		return OpenSQLite(databaseURL)

	default:
		return nil, fmt.Errorf("unsupported database URL scheme in %q", redactURL(databaseURL))
	}
}

func redactURL(databaseURL string) string {
	if at := strings.LastIndex(databaseURL, "@"); at >= 0 {
		if scheme := strings.Index(databaseURL, "://"); scheme >= 0 && scheme < at {
			return databaseURL[:scheme+3] + "***" + databaseURL[at:]
		}
	}
	return databaseURL
}

func toInt64s(numbers []int) []int64 {
	out := make([]int64, len(numbers))
	for i, n := range numbers {
		out[i] = int64(n)
	}
	return out
}

func toInts(numbers []int64) []int {
	out := make([]int, len(numbers))
	for i, n := range numbers {
		out[i] = int(n)
	}
	return out
}

package database

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fenilmodi00/lotto-backend/models"
	"github.com/fenilmodi00/lotto-backend/shared"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

//go:embed sqlite_schema.sql
var sqliteSchemaSQL string

// Schema version tracking (PRAGMA user_version):
// 1 - draw_results and saved_games
// 2 - saved_games.tags
const currentSQLiteSchemaVersion = 2

const (
	sqliteServiceName = "SQLiteStore"
	sqliteTimeLayout  = "2006-01-02T15:04:05.000000000Z07:00"
)

// SQLiteStore persists draws and saved selections in a local SQLite file.
// Numbers and tags are stored as JSON arrays.
type SQLiteStore struct {
	db            *sql.DB
	path          string
	schemaVersion int
}

// OpenSQLite creates or opens the database at path and migrates it to the current schema
func OpenSQLite(path string) (*SQLiteStore, error) {
	return openSQLite(path, currentSQLiteSchemaVersion)
}

func openSQLite(path string, targetVersion int) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, shared.NewStorageUnavailableError(sqliteServiceName, "Open", fmt.Errorf("failed to open database: %w", err))
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, shared.NewStorageUnavailableError(sqliteServiceName, "Open", fmt.Errorf("failed to connect to database: %w", err))
	}

	// SQLite allows a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, shared.NewStorageUnavailableError(sqliteServiceName, "Open", fmt.Errorf("failed to apply pragmas: %w", err))
	}

	version, err := applySQLiteSchema(db, targetVersion)
	if err != nil {
		db.Close()
		return nil, shared.NewStorageUnavailableError(sqliteServiceName, "Open", fmt.Errorf("failed to apply schema: %w", err))
	}

	logrus.WithFields(logrus.Fields{
		"component":      sqliteServiceName,
		"path":           path,
		"schema_version": version,
	}).Info("SQLite store ready")

	return &SQLiteStore{db: db, path: path, schemaVersion: version}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySQLiteSchema creates the base tables and migrates up to targetVersion.
// It returns the resulting user_version.
func applySQLiteSchema(db *sql.DB, targetVersion int) (int, error) {
	if _, err := db.Exec(sqliteSchemaSQL); err != nil {
		return 0, fmt.Errorf("failed to execute schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}
	if version < 1 {
		version = 1
	}

	if version < 2 && targetVersion >= 2 {
		if _, err := db.Exec(`ALTER TABLE saved_games ADD COLUMN tags TEXT NOT NULL DEFAULT '[]'`); err != nil {
			return 0, fmt.Errorf("migrate to v2: %w", err)
		}
		version = 2
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return 0, fmt.Errorf("set user_version: %w", err)
	}
	return version, nil
}

func (s *SQLiteStore) Kind() string { return "sqlite" }

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return shared.NewStorageUnavailableError(sqliteServiceName, "HealthCheck", err)
	}
	return nil
}

// LoadDraws returns every stored draw, newest first
func (s *SQLiteStore) LoadDraws(ctx context.Context) ([]models.Draw, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT concourse, draw_date, numbers FROM draw_results ORDER BY concourse DESC`)
	if err != nil {
		return nil, shared.NewStorageUnavailableError(sqliteServiceName, "LoadDraws", err)
	}
	defer rows.Close()

	var draws []models.Draw
	for rows.Next() {
		var (
			concourse   int
			drawDate    string
			numbersJSON string
		)
		if err := rows.Scan(&concourse, &drawDate, &numbersJSON); err != nil {
			return nil, shared.NewStorageUnavailableError(sqliteServiceName, "LoadDraws", err)
		}

		draw := models.Draw{SequenceNumber: concourse}
		if err := json.Unmarshal([]byte(numbersJSON), &draw.Numbers); err != nil {
			return nil, shared.NewStorageUnavailableError(sqliteServiceName, "LoadDraws",
				fmt.Errorf("corrupt numbers for draw %d: %w", concourse, err))
		}
		if drawDate != "" {
			if parsed, err := models.ParseDrawDate(drawDate); err == nil {
				draw.OccurredOn = parsed
			}
		}
		draws = append(draws, draw.Normalized())
	}
	if err := rows.Err(); err != nil {
		return nil, shared.NewStorageUnavailableError(sqliteServiceName, "LoadDraws", err)
	}
	return draws, nil
}

// UpsertDraws writes the batch in one transaction, replacing rows with the same concourse
func (s *SQLiteStore) UpsertDraws(ctx context.Context, draws []models.Draw) error {
	if len(draws) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return shared.NewStorageUnavailableError(sqliteServiceName, "UpsertDraws", fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO draw_results (concourse, draw_date, numbers, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (concourse) DO UPDATE SET
			draw_date = excluded.draw_date,
			numbers = excluded.numbers,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return shared.NewStorageUnavailableError(sqliteServiceName, "UpsertDraws", fmt.Errorf("failed to prepare statement: %w", err))
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(sqliteTimeLayout)
	for _, draw := range draws {
		numbersJSON, err := json.Marshal(draw.Numbers)
		if err != nil {
			return shared.NewValidationError("UpsertDraws", fmt.Sprintf("cannot encode draw %d: %v", draw.SequenceNumber, err))
		}
		if _, err := stmt.ExecContext(ctx, draw.SequenceNumber, draw.OccurredOn.String(), string(numbersJSON), now); err != nil {
			return shared.NewStorageUnavailableError(sqliteServiceName, "UpsertDraws",
				fmt.Errorf("failed to upsert draw %d: %w", draw.SequenceNumber, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return shared.NewStorageUnavailableError(sqliteServiceName, "UpsertDraws", fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// LatestSequenceNumber returns the highest stored concourse, or 0
func (s *SQLiteStore) LatestSequenceNumber(ctx context.Context) (int, error) {
	var latest int
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(concourse), 0) FROM draw_results`).Scan(&latest); err != nil {
		return 0, shared.NewStorageUnavailableError(sqliteServiceName, "LatestSequenceNumber", err)
	}
	return latest, nil
}

// SaveSelection inserts a saved selection. Records needing a newer schema than
// the file carries are rejected rather than stored without their extra fields.
func (s *SQLiteStore) SaveSelection(ctx context.Context, selection models.SavedSelection) error {
	if selection.SchemaVersion > s.schemaVersion && len(selection.Tags) > 0 {
		return shared.NewValidationError("SaveSelection",
			fmt.Sprintf("database supports schema version %d, record needs %d", s.schemaVersion, selection.SchemaVersion))
	}

	numbersJSON, err := json.Marshal(selection.Numbers)
	if err != nil {
		return shared.NewValidationError("SaveSelection", err.Error())
	}
	createdAt := selection.CreatedAt.UTC().Format(sqliteTimeLayout)

	if s.schemaVersion >= models.SelectionSchemaV2 {
		tagsJSON, err := json.Marshal(nonNilTags(selection.Tags))
		if err != nil {
			return shared.NewValidationError("SaveSelection", err.Error())
		}
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO saved_games (id, schema_version, created_at, numbers, reasoning, score, tags)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, selection.ID.String(), selection.SchemaVersion, createdAt, string(numbersJSON),
			selection.Reasoning, selection.Score, string(tagsJSON))
		if err != nil {
			return shared.NewStorageUnavailableError(sqliteServiceName, "SaveSelection", err)
		}
		return nil
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saved_games (id, schema_version, created_at, numbers, reasoning, score)
		VALUES (?, ?, ?, ?, ?, ?)
	`, selection.ID.String(), models.SelectionSchemaV1, createdAt, string(numbersJSON),
		selection.Reasoning, selection.Score)
	if err != nil {
		return shared.NewStorageUnavailableError(sqliteServiceName, "SaveSelection", err)
	}
	return nil
}

// ListSelections returns saved selections, newest first
func (s *SQLiteStore) ListSelections(ctx context.Context) ([]models.SavedSelection, error) {
	tagsColumn := "'[]'"
	if s.schemaVersion >= models.SelectionSchemaV2 {
		tagsColumn = "tags"
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, schema_version, created_at, numbers, reasoning, score, `+tagsColumn+`
		FROM saved_games
		ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, shared.NewStorageUnavailableError(sqliteServiceName, "ListSelections", err)
	}
	defer rows.Close()

	selections := make([]models.SavedSelection, 0)
	for rows.Next() {
		var (
			selection   models.SavedSelection
			id          string
			createdAt   string
			numbersJSON string
			tagsJSON    string
		)
		if err := rows.Scan(&id, &selection.SchemaVersion, &createdAt, &numbersJSON,
			&selection.Reasoning, &selection.Score, &tagsJSON); err != nil {
			return nil, shared.NewStorageUnavailableError(sqliteServiceName, "ListSelections", err)
		}

		if selection.ID, err = uuid.Parse(id); err != nil {
			return nil, shared.NewStorageUnavailableError(sqliteServiceName, "ListSelections", fmt.Errorf("corrupt id %q: %w", id, err))
		}
		if selection.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
			return nil, shared.NewStorageUnavailableError(sqliteServiceName, "ListSelections", fmt.Errorf("corrupt created_at %q: %w", createdAt, err))
		}
		if err := json.Unmarshal([]byte(numbersJSON), &selection.Numbers); err != nil {
			return nil, shared.NewStorageUnavailableError(sqliteServiceName, "ListSelections", fmt.Errorf("corrupt numbers: %w", err))
		}
		var tags []string
		if err := json.Unmarshal([]byte(tagsJSON), &tags); err != nil {
			return nil, shared.NewStorageUnavailableError(sqliteServiceName, "ListSelections", fmt.Errorf("corrupt tags: %w", err))
		}
		if len(tags) > 0 {
			selection.Tags = tags
		}
		selections = append(selections, selection)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.NewStorageUnavailableError(sqliteServiceName, "ListSelections", err)
	}
	return selections, nil
}

// DeleteSelection removes a saved selection; deleting a missing id is not an error
func (s *SQLiteStore) DeleteSelection(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM saved_games WHERE id = ?`, id.String()); err != nil {
		return shared.NewStorageUnavailableError(sqliteServiceName, "DeleteSelection", err)
	}
	return nil
}

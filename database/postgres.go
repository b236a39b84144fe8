package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/fenilmodi00/lotto-backend/models"
	"github.com/fenilmodi00/lotto-backend/shared"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

//go:embed schema.sql
var schemaSQL string

const postgresServiceName = "PostgresStore"

// ConnectWithConfig opens a PostgreSQL pool with the given settings and pings it
func ConnectWithConfig(ctx context.Context, dbURL string, config *shared.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, shared.NewStorageUnavailableError(postgresServiceName, "Connect", fmt.Errorf("failed to open database connection: %w", err))
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, config.PingTimeout)
	defer cancel()

	if err = db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, shared.NewStorageUnavailableError(postgresServiceName, "Connect", fmt.Errorf("failed to ping database: %w", err))
	}

	logrus.WithFields(logrus.Fields{
		"max_open_conns":     config.MaxOpenConns,
		"max_idle_conns":     config.MaxIdleConns,
		"conn_max_lifetime":  config.ConnMaxLifetime,
		"conn_max_idle_time": config.ConnMaxIdleTime,
	}).Info("Connected to database successfully")

	return db, nil
}

// Migrate runs every statement of schema. A failing statement is logged and
// skipped so re-running against an existing database is harmless.
func Migrate(ctx context.Context, db *sql.DB, schema string) error {
	statements := parseSQLStatements(schema)

	failed := 0
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failed++
			logrus.Warnf("Migration statement failed (continuing): %v", err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"statements": len(statements),
		"failed":     failed,
	}).Info("Database migration completed")
	return nil
}

// parseSQLStatements splits a schema file on trailing semicolons, skipping comment lines
func parseSQLStatements(content string) []string {
	var statements []string
	var currentStatement strings.Builder

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}

		if currentStatement.Len() > 0 {
			currentStatement.WriteString(" ")
		}
		currentStatement.WriteString(line)

		if strings.HasSuffix(line, ";") {
			stmt := strings.TrimSpace(strings.TrimSuffix(currentStatement.String(), ";"))
			if stmt != "" {
				statements = append(statements, stmt)
			}
			currentStatement.Reset()
		}
	}

	if currentStatement.Len() > 0 {
		if stmt := strings.TrimSpace(currentStatement.String()); stmt != "" {
			statements = append(statements, stmt)
		}
	}

	return statements
}

// PostgresStore persists draws and saved selections in PostgreSQL
type PostgresStore struct {
	db *sql.DB
	// selectionSchema is the highest saved_games schema version the live table supports
	selectionSchema int
}

// NewPostgresStore wraps an open pool and detects which saved_games schema version is deployed
func NewPostgresStore(ctx context.Context, db *sql.DB) (*PostgresStore, error) {
	columns, err := getTableColumns(ctx, db, "saved_games")
	if err != nil {
		return nil, shared.NewStorageUnavailableError(postgresServiceName, "DetectSchema", err)
	}

	store := &PostgresStore{db: db, selectionSchema: models.SelectionSchemaV1}
	if _, ok := columns["tags"]; ok {
		store.selectionSchema = models.SelectionSchemaV2
	}

	logrus.WithFields(logrus.Fields{
		"component":        postgresServiceName,
		"selection_schema": store.selectionSchema,
	}).Info("PostgreSQL store ready")

	return store, nil
}

func (s *PostgresStore) Kind() string { return "postgres" }

func (s *PostgresStore) Close() error {
	logrus.Info("Database connection closed")
	return s.db.Close()
}

// HealthCheck pings the pool and logs its statistics
func (s *PostgresStore) HealthCheck(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.db.PingContext(pingCtx); err != nil {
		return shared.NewStorageUnavailableError(postgresServiceName, "HealthCheck", fmt.Errorf("database ping failed: %w", err))
	}

	stats := s.db.Stats()
	logrus.WithFields(logrus.Fields{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration":        stats.WaitDuration,
	}).Debug("Database connection pool health check")

	return nil
}

// LoadDraws returns every stored draw, newest first
func (s *PostgresStore) LoadDraws(ctx context.Context) ([]models.Draw, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT concourse, draw_date, numbers
		FROM draw_results
		ORDER BY concourse DESC
	`)
	if err != nil {
		return nil, shared.NewStorageUnavailableError(postgresServiceName, "LoadDraws", err)
	}
	defer rows.Close()

	var draws []models.Draw
	for rows.Next() {
		var (
			concourse int
			drawDate  sql.NullTime
			numbers   pq.Int64Array
		)
		if err := rows.Scan(&concourse, &drawDate, &numbers); err != nil {
			return nil, shared.NewStorageUnavailableError(postgresServiceName, "LoadDraws", err)
		}
		draw := models.Draw{SequenceNumber: concourse, Numbers: toInts(numbers)}
		if drawDate.Valid {
			draw.OccurredOn = models.DrawDate{Time: drawDate.Time.UTC()}
		}
		draws = append(draws, draw.Normalized())
	}
	if err := rows.Err(); err != nil {
		return nil, shared.NewStorageUnavailableError(postgresServiceName, "LoadDraws", err)
	}
	return draws, nil
}

// UpsertDraws writes the batch in one transaction, replacing rows with the same concourse
func (s *PostgresStore) UpsertDraws(ctx context.Context, draws []models.Draw) error {
	if len(draws) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return shared.NewStorageUnavailableError(postgresServiceName, "UpsertDraws", fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO draw_results (concourse, draw_date, numbers, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (concourse) DO UPDATE SET
			draw_date = EXCLUDED.draw_date,
			numbers = EXCLUDED.numbers,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return shared.NewStorageUnavailableError(postgresServiceName, "UpsertDraws", fmt.Errorf("failed to prepare statement: %w", err))
	}
	defer stmt.Close()

	for _, draw := range draws {
		var drawDate interface{}
		if !draw.OccurredOn.IsZero() {
			drawDate = draw.OccurredOn.Time
		}
		if _, err := stmt.ExecContext(ctx, draw.SequenceNumber, drawDate, pq.Array(toInt64s(draw.Numbers))); err != nil {
			return shared.NewStorageUnavailableError(postgresServiceName, "UpsertDraws",
				fmt.Errorf("failed to upsert draw %d: %w", draw.SequenceNumber, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return shared.NewStorageUnavailableError(postgresServiceName, "UpsertDraws", fmt.Errorf("failed to commit transaction: %w", err))
	}

	logrus.WithFields(logrus.Fields{
		"component": postgresServiceName,
		"count":     len(draws),
	}).Debug("Upserted draws")
	return nil
}

// LatestSequenceNumber returns the highest stored concourse, or 0
func (s *PostgresStore) LatestSequenceNumber(ctx context.Context) (int, error) {
	var latest int
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(concourse), 0) FROM draw_results`).Scan(&latest)
	if err != nil {
		return 0, shared.NewStorageUnavailableError(postgresServiceName, "LatestSequenceNumber", err)
	}
	return latest, nil
}

// SaveSelection inserts a saved selection. A record carrying fields the deployed
// table cannot hold is rejected instead of being written partially.
func (s *PostgresStore) SaveSelection(ctx context.Context, selection models.SavedSelection) error {
	if selection.SchemaVersion > s.selectionSchema && len(selection.Tags) > 0 {
		return shared.NewValidationError("SaveSelection",
			fmt.Sprintf("saved_games table supports schema version %d, record needs %d", s.selectionSchema, selection.SchemaVersion))
	}

	var err error
	if s.selectionSchema >= models.SelectionSchemaV2 {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO saved_games (id, schema_version, created_at, numbers, reasoning, score, tags)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, selection.ID, selection.SchemaVersion, selection.CreatedAt,
			pq.Array(toInt64s(selection.Numbers)), selection.Reasoning, selection.Score, pq.Array(nonNilTags(selection.Tags)))
	} else {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO saved_games (id, schema_version, created_at, numbers, reasoning, score)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, selection.ID, models.SelectionSchemaV1, selection.CreatedAt,
			pq.Array(toInt64s(selection.Numbers)), selection.Reasoning, selection.Score)
	}
	if err != nil {
		return shared.NewStorageUnavailableError(postgresServiceName, "SaveSelection", err)
	}
	return nil
}

// ListSelections returns saved selections, newest first
func (s *PostgresStore) ListSelections(ctx context.Context) ([]models.SavedSelection, error) {
	tagsColumn := "'{}'::text[]"
	if s.selectionSchema >= models.SelectionSchemaV2 {
		tagsColumn = "tags"
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, schema_version, created_at, numbers, reasoning, score, `+tagsColumn+`
		FROM saved_games
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, shared.NewStorageUnavailableError(postgresServiceName, "ListSelections", err)
	}
	defer rows.Close()

	selections := make([]models.SavedSelection, 0)
	for rows.Next() {
		var (
			selection models.SavedSelection
			numbers   pq.Int64Array
			tags      pq.StringArray
		)
		if err := rows.Scan(&selection.ID, &selection.SchemaVersion, &selection.CreatedAt,
			&numbers, &selection.Reasoning, &selection.Score, &tags); err != nil {
			return nil, shared.NewStorageUnavailableError(postgresServiceName, "ListSelections", err)
		}
		selection.Numbers = toInts(numbers)
		if len(tags) > 0 {
			selection.Tags = []string(tags)
		}
		selections = append(selections, selection)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.NewStorageUnavailableError(postgresServiceName, "ListSelections", err)
	}
	return selections, nil
}

// DeleteSelection removes a saved selection; deleting a missing id is not an error
func (s *PostgresStore) DeleteSelection(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM saved_games WHERE id = $1`, id); err != nil {
		return shared.NewStorageUnavailableError(postgresServiceName, "DeleteSelection", err)
	}
	return nil
}

// getTableColumns returns column name to data type for a public table
func getTableColumns(ctx context.Context, db *sql.DB, tableName string) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
	`, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := make(map[string]string)
	for rows.Next() {
		var columnName, dataType string
		if err := rows.Scan(&columnName, &dataType); err != nil {
			return nil, err
		}
		columns[columnName] = dataType
	}

	return columns, rows.Err()
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

package models

import (
	"fmt"
	"time"

	"github.com/fenilmodi00/lotto-backend/shared"
	"github.com/google/uuid"
)

const (
	// SelectionSchemaV1 records carry numbers, reasoning and score
	SelectionSchemaV1 = 1
	// SelectionSchemaV2 adds tags
	SelectionSchemaV2 = 2
	// CurrentSelectionSchemaVersion is written by this build
	CurrentSelectionSchemaVersion = SelectionSchemaV2

	// MinSavedSelectionSize is the smallest playable bet
	MinSavedSelectionSize = DrawSize
)

// SavedSelection is a combination the player chose to keep.
// SchemaVersion identifies which optional fields the record carries.
type SavedSelection struct {
	ID            uuid.UUID `json:"id"`
	SchemaVersion int       `json:"schema_version"`
	CreatedAt     time.Time `json:"created_at"`
	Numbers       []int     `json:"numbers"`
	Reasoning     string    `json:"reasoning"`
	Score         int       `json:"score"`
	Tags          []string  `json:"tags,omitempty"`
}

// Validate checks the numbers, the score range and that the fields present
// are allowed by SchemaVersion.
func (s SavedSelection) Validate() error {
	if len(s.Numbers) < MinSavedSelectionSize || len(s.Numbers) > MaxSelectionSize {
		return shared.NewValidationError("ValidateSavedSelection",
			fmt.Sprintf("saved selection needs %d to %d numbers, got %d", MinSavedSelectionSize, MaxSelectionSize, len(s.Numbers)))
	}
	if err := checkNumbers("ValidateSavedSelection", s.Numbers); err != nil {
		return err
	}
	if s.Score < 0 || s.Score > 100 {
		return shared.NewValidationError("ValidateSavedSelection", fmt.Sprintf("score %d is outside 0..100", s.Score))
	}
	switch s.SchemaVersion {
	case SelectionSchemaV1:
		if len(s.Tags) > 0 {
			return shared.NewValidationError("ValidateSavedSelection", "schema version 1 does not carry tags")
		}
	case SelectionSchemaV2:
	default:
		return shared.NewValidationError("ValidateSavedSelection", fmt.Sprintf("unsupported schema version %d", s.SchemaVersion))
	}
	return nil
}

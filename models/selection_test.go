package models

import (
	"testing"
	"time"

	"github.com/fenilmodi00/lotto-backend/shared"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Selection
	}{
		{"comma separated", "01,02,03", Selection{1, 2, 3}},
		{"mixed separators", "5 - 3; 25\n1", Selection{1, 3, 5, 25}},
		{"drops out of range", "0 26 99 4", Selection{4}},
		{"drops repeats", "7 7 07 8", Selection{7, 8}},
		{"no numbers", "abc", Selection{}},
		{"truncates to max", "1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 16 17 18 19 20 21 22", Selection{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19}},
		{"keeps first in order of appearance", "25 24 23 22 21 20 19 18 17 16 15 14 13 12 11 10 9 8 7 6 5", Selection{7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSelection(tt.text))
		})
	}
}

func TestParseSelectionAlwaysYieldsValidSelection(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("parsed selections are sorted, distinct and in range", prop.ForAll(
		func(text string) bool {
			selection := ParseSelection(text)
			if selection.Validate() != nil {
				return false
			}
			for i := 1; i < len(selection); i++ {
				if selection[i-1] >= selection[i] {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.Property("numbers written out are parsed back", prop.ForAll(
		func(numbers []int) bool {
			text := ""
			for _, n := range numbers {
				text += " " + string(rune('0'+n/10)) + string(rune('0'+n%10))
			}
			selection := ParseSelection(text)
			for _, n := range numbers {
				if !selection.Contains(n) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(MaxSelectionSize, gen.IntRange(MinNumber, MaxNumber)),
	))

	properties.TestingRun(t)
}

func TestSelectionToggle(t *testing.T) {
	selection := Selection{}

	assert.True(t, selection.Toggle(5))
	assert.True(t, selection.Toggle(2))
	assert.Equal(t, Selection{2, 5}, selection)

	assert.True(t, selection.Toggle(5))
	assert.Equal(t, Selection{2}, selection)

	assert.False(t, selection.Toggle(0))
	assert.False(t, selection.Toggle(26))
	assert.Equal(t, Selection{2}, selection)
}

func TestSelectionToggleIgnoresAdditionWhenFull(t *testing.T) {
	selection := Selection{}
	for n := 1; n <= MaxSelectionSize; n++ {
		require.True(t, selection.Toggle(n))
	}

	assert.False(t, selection.Toggle(25))
	assert.Len(t, selection, MaxSelectionSize)

	// Removal still works on a full selection
	assert.True(t, selection.Toggle(1))
	assert.Len(t, selection, MaxSelectionSize-1)
}

func TestSelectionToggleDoesNotAliasClones(t *testing.T) {
	selection := Selection{1, 2, 3}
	clone := selection.Clone()

	selection.Toggle(2)
	assert.Equal(t, Selection{1, 2, 3}, clone)
}

func TestNewSelectionRejectsInvalidInput(t *testing.T) {
	_, err := NewSelection([]int{1, 1})
	assert.True(t, shared.IsValidation(err))

	_, err = NewSelection([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20})
	assert.True(t, shared.IsValidation(err))

	selection, err := NewSelection([]int{9, 3, 1})
	require.NoError(t, err)
	assert.Equal(t, Selection{1, 3, 9}, selection)
}

func TestSavedSelectionValidate(t *testing.T) {
	base := SavedSelection{
		ID:            uuid.New(),
		SchemaVersion: SelectionSchemaV2,
		CreatedAt:     time.Now(),
		Numbers:       []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
		Score:         80,
		Tags:          []string{"favorite"},
	}
	require.NoError(t, base.Validate())

	short := base
	short.Numbers = base.Numbers[:14]
	assert.True(t, shared.IsValidation(short.Validate()))

	badScore := base
	badScore.Score = 101
	assert.True(t, shared.IsValidation(badScore.Validate()))

	v1WithTags := base
	v1WithTags.SchemaVersion = SelectionSchemaV1
	assert.True(t, shared.IsValidation(v1WithTags.Validate()))

	v1 := v1WithTags
	v1.Tags = nil
	assert.NoError(t, v1.Validate())

	unknown := base
	unknown.SchemaVersion = 9
	assert.True(t, shared.IsValidation(unknown.Validate()))
}

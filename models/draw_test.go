package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fenilmodi00/lotto-backend/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fifteen() []int {
	return []int{25, 1, 3, 5, 7, 9, 11, 13, 15, 17, 19, 21, 23, 2, 4}
}

func TestNewDrawSortsNumbers(t *testing.T) {
	date, err := ParseDrawDate("2024-03-01")
	require.NoError(t, err)

	draw, err := NewDraw(3050, date, fifteen())
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 7, 9, 11, 13, 15, 17, 19, 21, 23, 25}, draw.Numbers)
	assert.Equal(t, 3050, draw.SequenceNumber)
}

func TestDrawValidate(t *testing.T) {
	tests := []struct {
		name    string
		draw    Draw
		wantErr bool
	}{
		{"valid", Draw{SequenceNumber: 1, Numbers: fifteen()}, false},
		{"zero sequence", Draw{SequenceNumber: 0, Numbers: fifteen()}, true},
		{"fourteen numbers", Draw{SequenceNumber: 1, Numbers: fifteen()[:14]}, true},
		{"sixteen numbers", Draw{SequenceNumber: 1, Numbers: append(fifteen(), 6)}, true},
		{"out of range", Draw{SequenceNumber: 1, Numbers: append(fifteen()[:14], 26)}, true},
		{"zero number", Draw{SequenceNumber: 1, Numbers: append(fifteen()[:14], 0)}, true},
		{"repeated number", Draw{SequenceNumber: 1, Numbers: append(fifteen()[:14], 1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draw.Validate()
			if tt.wantErr {
				assert.True(t, shared.IsValidation(err), "expected validation error, got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseDrawDateLayouts(t *testing.T) {
	for _, value := range []string{"2024-03-01", "01/03/2024", "2024-03-01T00:00:00Z", " 2024-03-01 "} {
		date, err := ParseDrawDate(value)
		require.NoError(t, err, value)
		assert.Equal(t, "2024-03-01", date.String())
	}

	_, err := ParseDrawDate("March 1st")
	assert.Error(t, err)
}

func TestParseDrawDateKeepsCalendarDayOfOffsetTimestamps(t *testing.T) {
	date, err := ParseDrawDate("2024-05-10T21:00:00-03:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-10", date.String())
	assert.Equal(t, time.UTC, date.Location())

	date, err = ParseDrawDate("2024-05-10T01:30:00+09:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-10", date.String())
}

func TestDrawJSONUsesWireNames(t *testing.T) {
	date, _ := ParseDrawDate("2024-03-01")
	draw, err := NewDraw(3050, date, fifteen())
	require.NoError(t, err)

	payload, err := json.Marshal(draw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"concourse":3050,"date":"2024-03-01","numbers":[1,2,3,4,5,7,9,11,13,15,17,19,21,23,25]}`, string(payload))

	var decoded Draw
	require.NoError(t, json.Unmarshal([]byte(`{"concourse":7,"date":"15/02/2024","numbers":[1]}`), &decoded))
	assert.Equal(t, 7, decoded.SequenceNumber)
	assert.Equal(t, "2024-02-15", decoded.OccurredOn.String())
}

func TestDrawEqualIgnoresNumberOrder(t *testing.T) {
	date, _ := ParseDrawDate("2024-03-01")
	a := Draw{SequenceNumber: 1, OccurredOn: date, Numbers: fifteen()}
	b := a.Normalized()

	assert.True(t, a.Equal(b))

	b.Numbers = append(append([]int(nil), b.Numbers[:14]...), 6)
	assert.False(t, a.Equal(b))
}

func TestCountCommon(t *testing.T) {
	draw := Draw{SequenceNumber: 1, Numbers: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}}
	selection := Selection{1, 2, 3, 16, 17}

	assert.Equal(t, 3, CountCommon(draw.Mask(), selection.Mask()))
	assert.Equal(t, 15, CountCommon(draw.Mask(), draw.Mask()))
	assert.Equal(t, 0, CountCommon(draw.Mask(), 0))
}

func TestTierJSON(t *testing.T) {
	payload, err := json.Marshal(SecondTier)
	require.NoError(t, err)
	assert.Equal(t, `"second_tier"`, string(payload))

	var tier Tier
	require.NoError(t, json.Unmarshal([]byte(`"jackpot"`), &tier))
	assert.Equal(t, Jackpot, tier)

	assert.Error(t, json.Unmarshal([]byte(`"grand"`), &tier))
}

package models

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"sort"
	"strings"
	"time"

	"github.com/fenilmodi00/lotto-backend/shared"
)

const (
	// DrawSize is the number of winning numbers in every draw
	DrawSize = 15
	// MinNumber and MaxNumber bound every drawable number
	MinNumber = 1
	MaxNumber = 25
	// MaxSelectionSize is the largest bet a player can check or save
	MaxSelectionSize = 19
	// DefaultHistoryWindow is how many recent draws are requested when the archive is empty
	DefaultHistoryWindow = 50
)

const drawDateLayout = "2006-01-02"

var acceptedDrawDateLayouts = []string{
	drawDateLayout,
	"02/01/2006",
	time.RFC3339,
}

// DrawDate is a calendar date serialized as YYYY-MM-DD. Remote payloads
// may also use DD/MM/YYYY.
type DrawDate struct {
	time.Time
}

// ParseDrawDate accepts any of the known remote date layouts.
func ParseDrawDate(value string) (DrawDate, error) {
	value = strings.TrimSpace(value)
	for _, layout := range acceptedDrawDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return DrawDate{Time: time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)}, nil
		}
	}
	return DrawDate{}, fmt.Errorf("unrecognized draw date %q", value)
}

func (d DrawDate) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(drawDateLayout)
}

func (d DrawDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DrawDate) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*d = DrawDate{}
		return nil
	}
	parsed, err := ParseDrawDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Draw is one official result: the contest number and its fifteen winning numbers.
// Draws are never mutated after construction.
type Draw struct {
	SequenceNumber int      `json:"concourse"`
	OccurredOn     DrawDate `json:"date"`
	Numbers        []int    `json:"numbers"`
}

// NewDraw validates the input and returns a draw with its numbers sorted ascending.
func NewDraw(sequenceNumber int, occurredOn DrawDate, numbers []int) (Draw, error) {
	draw := Draw{
		SequenceNumber: sequenceNumber,
		OccurredOn:     occurredOn,
		Numbers:        sortedCopy(numbers),
	}
	if err := draw.Validate(); err != nil {
		return Draw{}, err
	}
	return draw, nil
}

// Validate checks the contest number and that there are exactly 15 distinct numbers in 1..25.
func (d Draw) Validate() error {
	if d.SequenceNumber <= 0 {
		return shared.NewValidationError("ValidateDraw", fmt.Sprintf("sequence number must be positive, got %d", d.SequenceNumber))
	}
	if len(d.Numbers) != DrawSize {
		return shared.NewValidationError("ValidateDraw",
			fmt.Sprintf("draw %d has %d numbers, expected %d", d.SequenceNumber, len(d.Numbers), DrawSize))
	}
	if err := checkNumbers("ValidateDraw", d.Numbers); err != nil {
		return err
	}
	return nil
}

// Normalized returns a copy whose numbers are sorted ascending.
func (d Draw) Normalized() Draw {
	d.Numbers = sortedCopy(d.Numbers)
	return d
}

// Mask returns the draw's numbers as a bit set, bit n set for number n.
func (d Draw) Mask() uint32 {
	return maskOf(d.Numbers)
}

// Equal reports whether two draws carry the same contest, date and numbers.
func (d Draw) Equal(other Draw) bool {
	return d.SequenceNumber == other.SequenceNumber &&
		d.OccurredOn.Equal(other.OccurredOn.Time) &&
		d.Mask() == other.Mask() &&
		len(d.Numbers) == len(other.Numbers)
}

func checkNumbers(operation string, numbers []int) error {
	var seen uint32
	for _, n := range numbers {
		if n < MinNumber || n > MaxNumber {
			return shared.NewValidationError(operation, fmt.Sprintf("number %d is outside %d..%d", n, MinNumber, MaxNumber))
		}
		bit := uint32(1) << uint(n)
		if seen&bit != 0 {
			return shared.NewValidationError(operation, fmt.Sprintf("number %d is repeated", n))
		}
		seen |= bit
	}
	return nil
}

func maskOf(numbers []int) uint32 {
	var mask uint32
	for _, n := range numbers {
		if n >= MinNumber && n <= MaxNumber {
			mask |= uint32(1) << uint(n)
		}
	}
	return mask
}

// CountCommon returns how many numbers two bit sets share.
func CountCommon(a, b uint32) int {
	return bits.OnesCount32(a & b)
}

func sortedCopy(numbers []int) []int {
	out := make([]int, len(numbers))
	copy(out, numbers)
	sort.Ints(out)
	return out
}

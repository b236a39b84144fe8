package models

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/fenilmodi00/lotto-backend/shared"
)

var integerPattern = regexp.MustCompile(`\d+`)

// Selection is the set of numbers a player is checking, kept sorted ascending.
// It may be empty while being edited and never exceeds MaxSelectionSize.
type Selection []int

// NewSelection validates numbers and returns them as a sorted selection.
func NewSelection(numbers []int) (Selection, error) {
	selection := Selection(sortedCopy(numbers))
	if err := selection.Validate(); err != nil {
		return nil, err
	}
	return selection, nil
}

// ParseSelection extracts every integer from free text, keeps those in range,
// drops repeats and truncates to MaxSelectionSize in order of appearance.
func ParseSelection(text string) Selection {
	var mask uint32
	selection := make(Selection, 0, MaxSelectionSize)

	for _, token := range integerPattern.FindAllString(text, -1) {
		n, err := strconv.Atoi(token)
		if err != nil || n < MinNumber || n > MaxNumber {
			continue
		}
		bit := uint32(1) << uint(n)
		if mask&bit != 0 {
			continue
		}
		mask |= bit
		selection = append(selection, n)
		if len(selection) == MaxSelectionSize {
			break
		}
	}

	sort.Ints(selection)
	return selection
}

// Validate rejects out-of-range numbers, repeats and selections larger than MaxSelectionSize.
func (s Selection) Validate() error {
	if len(s) > MaxSelectionSize {
		return shared.NewValidationError("ValidateSelection",
			fmt.Sprintf("selection has %d numbers, at most %d allowed", len(s), MaxSelectionSize))
	}
	return checkNumbers("ValidateSelection", s)
}

// Contains reports whether n is selected.
func (s Selection) Contains(n int) bool {
	i := sort.SearchInts(s, n)
	return i < len(s) && s[i] == n
}

// Toggle adds n if absent or removes it if present. Adding to a full
// selection or toggling an out-of-range number is ignored. It reports
// whether the selection changed.
func (s *Selection) Toggle(n int) bool {
	if n < MinNumber || n > MaxNumber {
		return false
	}
	current := *s
	i := sort.SearchInts(current, n)
	if i < len(current) && current[i] == n {
		next := make(Selection, 0, len(current)-1)
		next = append(next, current[:i]...)
		*s = append(next, current[i+1:]...)
		return true
	}
	if len(current) >= MaxSelectionSize {
		return false
	}
	next := make(Selection, 0, len(current)+1)
	next = append(next, current[:i]...)
	next = append(next, n)
	*s = append(next, current[i:]...)
	return true
}

// Clear empties the selection.
func (s *Selection) Clear() {
	*s = Selection{}
}

// Mask returns the selection as a bit set, bit n set for number n.
func (s Selection) Mask() uint32 {
	return maskOf(s)
}

// Clone returns an independent copy.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	copy(out, s)
	return out
}

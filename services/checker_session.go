package services

import (
	"sync"

	"github.com/fenilmodi00/lotto-backend/models"
)

// CheckerView is what listeners receive after each recompute
type CheckerView struct {
	Selection models.Selection     `json:"selection"`
	Results   []models.ScoreResult `json:"results"`
	Summary   models.ScoreSummary  `json:"summary"`
}

// CheckerSession holds a live selection and keeps its scores current. Scores
// are recomputed whenever the selection changes or the archive publishes a
// new snapshot.
type CheckerSession struct {
	archive     *DrawArchive
	unsubscribe func()

	// recomputeMu orders recomputes so the last one always sees the newest snapshot
	recomputeMu sync.Mutex

	mu        sync.Mutex
	selection models.Selection
	view      CheckerView
	listeners []func(CheckerView)
}

// NewCheckerSession starts a session with an empty selection. Call Close to
// stop following the archive.
func NewCheckerSession(archive *DrawArchive) *CheckerSession {
	session := &CheckerSession{
		archive:   archive,
		selection: models.Selection{},
	}
	session.unsubscribe = archive.Subscribe(func([]models.Draw) { session.recompute() })
	session.recompute()
	return session
}

// OnChange registers fn to receive every recomputed view
func (s *CheckerSession) OnChange(fn func(CheckerView)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Toggle adds or removes n. It reports whether the selection changed.
func (s *CheckerSession) Toggle(n int) bool {
	s.mu.Lock()
	changed := s.selection.Toggle(n)
	s.mu.Unlock()

	if changed {
		s.recompute()
	}
	return changed
}

// Clear empties the selection
func (s *CheckerSession) Clear() {
	s.mu.Lock()
	s.selection.Clear()
	s.mu.Unlock()

	s.recompute()
}

// SetFromText replaces the selection with the numbers found in text
func (s *CheckerSession) SetFromText(text string) models.Selection {
	parsed := models.ParseSelection(text)

	s.mu.Lock()
	s.selection = parsed
	s.mu.Unlock()

	s.recompute()
	return parsed.Clone()
}

// Selection returns a copy of the current selection
func (s *CheckerSession) Selection() models.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Clone()
}

// Results returns the most recent view
func (s *CheckerSession) Results() CheckerView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Close stops following archive changes
func (s *CheckerSession) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *CheckerSession) recompute() {
	s.recomputeMu.Lock()
	defer s.recomputeMu.Unlock()

	draws := s.archive.All()
	s.mu.Lock()
	selection := s.selection.Clone()
	s.mu.Unlock()

	// The selection is kept valid by Toggle and ParseSelection, so Score cannot fail here.
	results, _ := Score(selection, draws)
	view := CheckerView{
		Selection: selection,
		Results:   results,
		Summary:   Summarize(results),
	}

	s.mu.Lock()
	s.view = view
	listeners := make([]func(CheckerView), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(view)
	}
}

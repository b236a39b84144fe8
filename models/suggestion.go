package models

import "time"

// Game is one suggested combination
type Game struct {
	Numbers          []int    `json:"numbers"`
	Reasoning        string   `json:"reasoning"`
	ProbabilityScore int      `json:"probabilityScore"`
	Tags             []string `json:"tags"`
}

// FrequentCombination is a pattern the generator found in the history
type FrequentCombination struct {
	Numbers     []int  `json:"numbers"`
	Count       int    `json:"count"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Suggestion is the generator response. Offline is set when it came from the
// built-in fallback instead of the remote service.
type Suggestion struct {
	Games                []Game                `json:"games"`
	FrequentCombinations []FrequentCombination `json:"frequentCombinations"`
	Offline              bool                  `json:"offline"`
	BasedOnConcourse     int                   `json:"based_on_concourse"`
	GeneratedAt          time.Time             `json:"generated_at"`
}

// HistoryStats summarizes number frequency over a set of draws
type HistoryStats struct {
	Total     int         `json:"total"`
	Hot       []int       `json:"hot"`
	Cold      []int       `json:"cold"`
	Frequency map[int]int `json:"frequency"`
}

// GenerationContext is what the generation service receives. Its content is
// opaque to this service beyond being built from the archive.
type GenerationContext struct {
	Stats              HistoryStats `json:"stats"`
	RecentDraws        []Draw       `json:"recent_draws"`
	NextSequenceNumber int          `json:"next_concourse"`
}

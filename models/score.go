package models

import (
	"encoding/json"
	"fmt"
)

// Tier is the prize band for a number of hits against a single draw
type Tier int

const (
	NoTier Tier = iota
	ThirdTier
	SecondTier
	Jackpot
)

func (t Tier) String() string {
	switch t {
	case Jackpot:
		return "jackpot"
	case SecondTier:
		return "second_tier"
	case ThirdTier:
		return "third_tier"
	default:
		return "no_tier"
	}
}

func (t Tier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Tier) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw {
	case "jackpot":
		*t = Jackpot
	case "second_tier":
		*t = SecondTier
	case "third_tier":
		*t = ThirdTier
	case "no_tier":
		*t = NoTier
	default:
		return fmt.Errorf("unknown tier %q", raw)
	}
	return nil
}

// ScoreResult is a selection scored against one archived draw. Derived, never stored.
type ScoreResult struct {
	Draw     Draw `json:"draw"`
	HitCount int  `json:"hit_count"`
	Tier     Tier `json:"tier"`
}

// ScoreSummary aggregates a slice of results
type ScoreSummary struct {
	TotalDraws         int  `json:"total_draws"`
	JackpotCount       int  `json:"jackpot_count"`
	SecondTierCount    int  `json:"second_tier_count"`
	ThirdTierCount     int  `json:"third_tier_count"`
	BestHitCount       int  `json:"best_hit_count"`
	BestSequenceNumber int  `json:"best_sequence_number,omitempty"`
	BestTier           Tier `json:"best_tier"`
}

// PrizeCount is the number of draws that would have paid any prize.
func (s ScoreSummary) PrizeCount() int {
	return s.JackpotCount + s.SecondTierCount + s.ThirdTierCount
}

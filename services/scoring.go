package services

import "github.com/fenilmodi00/lotto-backend/models"

// Prize thresholds in hits per draw
const (
	JackpotHits    = 15
	SecondTierHits = 14
	ThirdTierHits  = 11
)

// HitCount is the number of selected numbers present in the draw
func HitCount(draw models.Draw, selection models.Selection) int {
	return models.CountCommon(draw.Mask(), selection.Mask())
}

// ClassifyTier maps a hit count to its prize tier
func ClassifyTier(hits int) models.Tier {
	switch {
	case hits >= JackpotHits:
		return models.Jackpot
	case hits == SecondTierHits:
		return models.SecondTier
	case hits >= ThirdTierHits:
		return models.ThirdTier
	default:
		return models.NoTier
	}
}

// Score checks selection against every draw and returns one result per draw in
// the same order. A malformed selection is rejected before anything is computed.
func Score(selection models.Selection, draws []models.Draw) ([]models.ScoreResult, error) {
	if err := selection.Validate(); err != nil {
		return nil, err
	}

	mask := selection.Mask()
	results := make([]models.ScoreResult, len(draws))
	for i, draw := range draws {
		hits := models.CountCommon(draw.Mask(), mask)
		results[i] = models.ScoreResult{
			Draw:     draw,
			HitCount: hits,
			Tier:     ClassifyTier(hits),
		}
	}
	return results, nil
}

// Summarize counts results per tier and picks the best one. Ties keep the first,
// which is the newest draw for archive-ordered input.
func Summarize(results []models.ScoreResult) models.ScoreSummary {
	summary := models.ScoreSummary{TotalDraws: len(results)}
	for _, result := range results {
		switch result.Tier {
		case models.Jackpot:
			summary.JackpotCount++
		case models.SecondTier:
			summary.SecondTierCount++
		case models.ThirdTier:
			summary.ThirdTierCount++
		}
		if result.HitCount > summary.BestHitCount || summary.BestSequenceNumber == 0 {
			summary.BestHitCount = result.HitCount
			summary.BestSequenceNumber = result.Draw.SequenceNumber
			summary.BestTier = result.Tier
		}
	}
	return summary
}

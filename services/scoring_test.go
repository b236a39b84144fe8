package services

import (
	"testing"

	"github.com/fenilmodi00/lotto-backend/models"
	"github.com/fenilmodi00/lotto-backend/shared"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyTierBoundaries(t *testing.T) {
	tests := []struct {
		hits int
		want models.Tier
	}{
		{15, models.Jackpot},
		{14, models.SecondTier},
		{13, models.ThirdTier},
		{12, models.ThirdTier},
		{11, models.ThirdTier},
		{10, models.NoTier},
		{0, models.NoTier},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyTier(tt.hits), "hits=%d", tt.hits)
	}
}

func TestScoreAgainstDraw(t *testing.T) {
	draw := drawWithNumbers(100, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15)

	tests := []struct {
		name      string
		selection models.Selection
		hits      int
		tier      models.Tier
	}{
		{"exact match", models.Selection{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, 15, models.Jackpot},
		{"one miss", models.Selection{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 16}, 14, models.SecondTier},
		{"eleven hits", models.Selection{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 16, 17, 18, 19}, 11, models.ThirdTier},
		{"ten hits", models.Selection{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 16, 17, 18, 19, 20}, 10, models.NoTier},
		{"nineteen numbers", models.Selection{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19}, 15, models.Jackpot},
		{"partial selection", models.Selection{1, 25}, 1, models.NoTier},
		{"empty selection", models.Selection{}, 0, models.NoTier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := Score(tt.selection, []models.Draw{draw})
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, tt.hits, results[0].HitCount)
			assert.Equal(t, tt.tier, results[0].Tier)
			assert.Equal(t, 100, results[0].Draw.SequenceNumber)
		})
	}
}

func TestScoreRejectsMalformedSelection(t *testing.T) {
	draws := []models.Draw{testDraw(1)}

	_, err := Score(models.Selection{0, 1}, draws)
	assert.True(t, shared.IsValidation(err))

	_, err = Score(models.Selection{1, 1}, draws)
	assert.True(t, shared.IsValidation(err))

	tooMany := models.Selection{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}
	_, err = Score(tooMany, draws)
	assert.True(t, shared.IsValidation(err))
}

func TestScoreKeepsArchiveOrder(t *testing.T) {
	draws := testDraws(1, 5)
	results, err := Score(models.Selection{1, 2, 3}, draws)

	require.NoError(t, err)
	assert.Equal(t, sequenceNumbers(draws), func() []int {
		out := make([]int, len(results))
		for i, result := range results {
			out[i] = result.Draw.SequenceNumber
		}
		return out
	}())
}

func TestSummarize(t *testing.T) {
	draws := []models.Draw{
		drawWithNumbers(4, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 16),
		drawWithNumbers(3, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15),
		drawWithNumbers(2, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 21, 22, 23, 24),
		drawWithNumbers(1, 1, 2, 3, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 14, 15),
	}
	results, err := Score(models.Selection{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, draws)
	require.NoError(t, err)

	summary := Summarize(results)

	assert.Equal(t, 4, summary.TotalDraws)
	assert.Equal(t, 1, summary.JackpotCount)
	assert.Equal(t, 1, summary.SecondTierCount)
	assert.Equal(t, 1, summary.ThirdTierCount)
	assert.Equal(t, 3, summary.PrizeCount())
	assert.Equal(t, 15, summary.BestHitCount)
	assert.Equal(t, 3, summary.BestSequenceNumber)
	assert.Equal(t, models.Jackpot, summary.BestTier)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Zero(t, summary.TotalDraws)
	assert.Zero(t, summary.BestSequenceNumber)
	assert.Equal(t, models.NoTier, summary.BestTier)
}

func TestHitCountMatchesSetIntersection(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("bit set hit count equals naive intersection", prop.ForAll(
		func(seq int, picks []int) bool {
			draw := testDraw(seq)
			selection := models.ParseSelection(joinInts(picks))

			naive := 0
			for _, n := range selection {
				for _, m := range draw.Numbers {
					if n == m {
						naive++
					}
				}
			}
			hits := HitCount(draw, selection)
			return hits == naive && hits <= len(selection) && hits <= models.DrawSize
		},
		gen.IntRange(1, 5000),
		gen.SliceOf(gen.IntRange(models.MinNumber, models.MaxNumber)),
	))

	properties.TestingRun(t)
}

func joinInts(numbers []int) string {
	out := make([]byte, 0, len(numbers)*3)
	for _, n := range numbers {
		out = append(out, byte('0'+n/10), byte('0'+n%10), ' ')
	}
	return string(out)
}

package handlers

import (
	"github.com/fenilmodi00/lotto-backend/models"
	"github.com/fenilmodi00/lotto-backend/services"
	"github.com/fenilmodi00/lotto-backend/shared"
	"github.com/gofiber/fiber/v2"
)

type CheckHandler struct {
	Archive *services.DrawArchive
}

func NewCheckHandler(archive *services.DrawArchive) *CheckHandler {
	return &CheckHandler{Archive: archive}
}

// CheckSelection scores a selection against the whole archive. The selection is
// given either as a numbers array or as free text to extract numbers from.
func (h *CheckHandler) CheckSelection(c *fiber.Ctx) error {
	type Request struct {
		Numbers    []int  `json:"numbers"`
		Text       string `json:"text"`
		OnlyPrizes bool   `json:"only_prizes"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	var selection models.Selection
	if len(req.Numbers) > 0 {
		parsed, err := models.NewSelection(req.Numbers)
		if err != nil {
			return respondError(c, err)
		}
		selection = parsed
	} else {
		selection = models.ParseSelection(req.Text)
	}
	if len(selection) == 0 {
		return respondError(c, shared.NewValidationError("CheckSelection", "no numbers between 1 and 25 were given"))
	}

	results, err := services.Score(selection, h.Archive.All())
	if err != nil {
		return respondError(c, err)
	}
	summary := services.Summarize(results)

	if req.OnlyPrizes {
		prizes := make([]models.ScoreResult, 0, summary.PrizeCount())
		for _, result := range results {
			if result.Tier != models.NoTier {
				prizes = append(prizes, result)
			}
		}
		results = prizes
	}

	return respondData(c, fiber.Map{
		"selection": selection,
		"summary":   summary,
		"results":   results,
	})
}

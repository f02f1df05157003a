package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/skillpilot/internal/repositories"
)

type RunHandler struct {
	runRepo repositories.GenerationRunRepository
}

func NewRunHandler(runRepo repositories.GenerationRunRepository) *RunHandler {
	return &RunHandler{
		runRepo: runRepo,
	}
}

// HandleGetRun handles GET /runs/:id
func (h *RunHandler) HandleGetRun(c *fiber.Ctx) error {
	runID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid run ID format")
	}

	run, err := h.runRepo.FindByID(runID)
	if err != nil {
		if errors.Is(err, repositories.ErrRunNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Run not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(run)
}

// HandleListRuns handles GET /runs?task=&limit=
func (h *RunHandler) HandleListRuns(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		return badRequest(c, "limit must be between 1 and 100")
	}

	runs, err := h.runRepo.FindRecent(c.Query("task"), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"runs":  runs,
		"count": len(runs),
	})
}

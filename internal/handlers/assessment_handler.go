package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/skillpilot/internal/models"
	"alfredoptarigan/skillpilot/internal/services"
)

type AssessmentHandler struct {
	pipeline *services.Pipeline
}

func NewAssessmentHandler(pipeline *services.Pipeline) *AssessmentHandler {
	return &AssessmentHandler{pipeline: pipeline}
}

// HandleGenerateQuiz handles POST /quiz/generate
func (h *AssessmentHandler) HandleGenerateQuiz(c *fiber.Ctx) error {
	var req models.QuizGenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resp, err := h.pipeline.GenerateQuiz(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// HandleScoreQuiz handles POST /quiz/score. The body carries either a
// completed session or bare answer counts, never both.
func (h *AssessmentHandler) HandleScoreQuiz(c *fiber.Ctx) error {
	var req models.QuizScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	var (
		result *models.AssessmentResult
		err    error
	)
	switch {
	case req.Session != nil && req.Counts != nil:
		return badRequest(c, "provide either session or counts, not both")
	case req.Session != nil:
		result, err = h.pipeline.AssessSession(c.UserContext(), req.Session)
	case req.Counts != nil:
		result, err = h.pipeline.ScoreQuiz(c.UserContext(), *req.Counts)
	default:
		return badRequest(c, "session or counts is required")
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

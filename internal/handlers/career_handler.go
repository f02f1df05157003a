package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/skillpilot/internal/models"
	"alfredoptarigan/skillpilot/internal/services"
)

type CareerHandler struct {
	pipeline *services.Pipeline
}

func NewCareerHandler(pipeline *services.Pipeline) *CareerHandler {
	return &CareerHandler{pipeline: pipeline}
}

// HandleCareerPath handles POST /career/path
func (h *CareerHandler) HandleCareerPath(c *fiber.Ctx) error {
	var req models.CareerPathRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resp, err := h.pipeline.GenerateCareerPath(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// HandleCareerAdvice handles POST /career/advice
func (h *CareerHandler) HandleCareerAdvice(c *fiber.Ctx) error {
	var req models.CareerAdviceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resp, err := h.pipeline.CareerAdvice(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

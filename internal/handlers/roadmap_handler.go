package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/skillpilot/internal/models"
	"alfredoptarigan/skillpilot/internal/services"
)

type RoadmapHandler struct {
	pipeline *services.Pipeline
}

func NewRoadmapHandler(pipeline *services.Pipeline) *RoadmapHandler {
	return &RoadmapHandler{pipeline: pipeline}
}

// HandleGenerateRoadmap handles POST /roadmap/generate
func (h *RoadmapHandler) HandleGenerateRoadmap(c *fiber.Ctx) error {
	var req models.RoadmapRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resp, err := h.pipeline.GenerateRoadmap(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

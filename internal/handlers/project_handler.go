package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/skillpilot/internal/models"
	"alfredoptarigan/skillpilot/internal/services"
)

type ProjectHandler struct {
	pipeline *services.Pipeline
}

func NewProjectHandler(pipeline *services.Pipeline) *ProjectHandler {
	return &ProjectHandler{pipeline: pipeline}
}

// HandleSearchProjects handles POST /projects/search
func (h *ProjectHandler) HandleSearchProjects(c *fiber.Ctx) error {
	var req models.ProjectSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resp, err := h.pipeline.SearchProjects(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// HandleRecommendProjects handles POST /projects/recommend
func (h *ProjectHandler) HandleRecommendProjects(c *fiber.Ctx) error {
	var req models.ProjectRecommendationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resp, err := h.pipeline.RecommendProjects(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/skillpilot/internal/models"
	"alfredoptarigan/skillpilot/internal/services"
)

type SearchHandler struct {
	pipeline *services.Pipeline
}

func NewSearchHandler(pipeline *services.Pipeline) *SearchHandler {
	return &SearchHandler{pipeline: pipeline}
}

// HandleSearchJobs handles POST /jobs/search
func (h *SearchHandler) HandleSearchJobs(c *fiber.Ctx) error {
	var req models.JobSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resp, err := h.pipeline.SearchJobs(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// HandleSearchCourses handles POST /courses/search
func (h *SearchHandler) HandleSearchCourses(c *fiber.Ctx) error {
	var req models.CourseSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resp, err := h.pipeline.SearchCourses(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// HandleSearchVideos handles POST /videos/search
func (h *SearchHandler) HandleSearchVideos(c *fiber.Ctx) error {
	var req models.VideoSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resp, err := h.pipeline.SearchVideos(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

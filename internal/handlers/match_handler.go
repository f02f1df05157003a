package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/skillpilot/internal/models"
	"alfredoptarigan/skillpilot/internal/services"
)

type MatchHandler struct {
	pipeline *services.Pipeline
}

func NewMatchHandler(pipeline *services.Pipeline) *MatchHandler {
	return &MatchHandler{pipeline: pipeline}
}

// HandleMatchJobs handles POST /jobs/match
func (h *MatchHandler) HandleMatchJobs(c *fiber.Ctx) error {
	var req models.JobMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resp, err := h.pipeline.MatchJobs(c.UserContext(), req.Profile(), req.Jobs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// HandleMatchCourses handles POST /courses/match
func (h *MatchHandler) HandleMatchCourses(c *fiber.Ctx) error {
	var req models.CourseMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resp, err := h.pipeline.MatchCourses(c.UserContext(), req.Profile(), req.Courses)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// HandleSearchAndMatchJobs handles POST /jobs/search-and-match
func (h *MatchHandler) HandleSearchAndMatchJobs(c *fiber.Ctx) error {
	var req models.JobSearchAndMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resp, err := h.pipeline.SearchAndMatchJobs(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// HandleSearchAndMatchCourses handles POST /courses/search-and-match
func (h *MatchHandler) HandleSearchAndMatchCourses(c *fiber.Ctx) error {
	var req models.CourseSearchAndMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resp, err := h.pipeline.SearchAndMatchCourses(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

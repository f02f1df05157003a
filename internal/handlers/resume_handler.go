package handlers

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/skillpilot/internal/models"
	"alfredoptarigan/skillpilot/internal/services"
)

type ResumeHandler struct {
	parser      services.ResumeParserService
	pipeline    *services.Pipeline
	maxFileSize int64
}

func NewResumeHandler(
	parser services.ResumeParserService,
	pipeline *services.Pipeline,
	maxFileSize int64,
) *ResumeHandler {
	return &ResumeHandler{
		parser:      parser,
		pipeline:    pipeline,
		maxFileSize: maxFileSize,
	}
}

// HandleParse handles POST /resume/parse with a multipart "file" field.
func (h *ResumeHandler) HandleParse(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "No file provided")
	}

	if fileHeader.Size > h.maxFileSize {
		return badRequest(c, fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to open uploaded file",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read uploaded file",
		})
	}

	parsed, err := h.parser.ExtractText(fileHeader.Filename, data)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(parsed)
}

// HandleAnalyze handles POST /resume/analyze
func (h *ResumeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.ResumeAnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resp, err := h.pipeline.AnalyzeResume(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

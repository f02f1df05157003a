package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"alfredoptarigan/skillpilot/internal/logger"
	"alfredoptarigan/skillpilot/internal/models"
)

type GenerationRequest struct {
	Task        Task
	Prompt      string
	Schema      *genai.Schema
	Temperature float32
}

// GenerationClient executes one structured generation. It either fills out
// with a value that passed schema validation or returns an error wrapping
// ErrSchemaViolation or ErrUpstreamUnavailable. It never retries.
type GenerationClient interface {
	Generate(ctx context.Context, req GenerationRequest, out any) error
}

type generationClient struct {
	llm       GeminiService
	validator *Validator
	log       *logger.Logger
}

// NewGenerationClient accepts a nil llm; every call then reports the
// generation endpoint as unavailable.
func NewGenerationClient(llm GeminiService, validator *Validator, log *logger.Logger) GenerationClient {
	return &generationClient{llm: llm, validator: validator, log: log}
}

func (g *generationClient) Generate(ctx context.Context, req GenerationRequest, out any) error {
	if g.llm == nil {
		return fmt.Errorf("%w: generation client not configured", models.ErrUpstreamUnavailable)
	}

	raw, err := g.llm.GenerateJSON(ctx, req.Prompt, req.Schema, req.Temperature)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %s generation aborted: %v", models.ErrUpstreamUnavailable, req.Task, ctxErr)
		}
		if errors.Is(err, models.ErrSchemaViolation) || errors.Is(err, models.ErrUpstreamUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %s generation failed: %v", models.ErrUpstreamUnavailable, req.Task, err)
	}

	if err := decodeStrict(raw, out); err != nil {
		g.log.Warn("model reply rejected", "task", req.Task, "reason", err.Error(), "chars", len(raw))
		return fmt.Errorf("%w: %s reply is not valid json: %v", models.ErrSchemaViolation, req.Task, err)
	}
	if err := g.validator.ValidateOutput(out); err != nil {
		g.log.Warn("model reply rejected", "task", req.Task, "reason", err.Error())
		return err
	}
	return nil
}

// decodeStrict rejects unknown fields and trailing content.
func decodeStrict(raw string, out any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(extractJSON(raw))))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected content after json value")
	}
	return nil
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	} else if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}

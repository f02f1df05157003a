package services

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"alfredoptarigan/skillpilot/internal/logger"
	"alfredoptarigan/skillpilot/internal/models"
)

// GeminiService is the raw LLM transport. It returns the reply text and
// leaves parsing and validation to the generation client.
type GeminiService interface {
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema, temperature float32) (string, error)
}

type geminiService struct {
	client    *genai.Client
	modelName string
	log       *logger.Logger
}

func NewGeminiService(ctx context.Context, apiKey, modelName string, log *logger.Logger) (GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini api key not configured", models.ErrUpstreamUnavailable)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:    client,
		modelName: modelName,
		log:       log,
	}, nil
}

// GenerateJSON implements GeminiService.
func (g *geminiService) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  8192,
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		g.log.Error("gemini request failed", "model", g.modelName, "error", err)
		return "", fmt.Errorf("%w: failed to generate content: %v", models.ErrUpstreamUnavailable, err)
	}
	if resp == nil {
		return "", fmt.Errorf("%w: nil response from gemini", models.ErrUpstreamUnavailable)
	}

	text := resp.Text()
	g.log.Debug("gemini response received", "model", g.modelName, "chars", len(text))
	if text == "" {
		return "", fmt.Errorf("%w: empty response from gemini", models.ErrSchemaViolation)
	}
	return text, nil
}

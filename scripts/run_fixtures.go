package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"alfredoptarigan/skillpilot/internal/config"
	"alfredoptarigan/skillpilot/internal/logger"
	"alfredoptarigan/skillpilot/internal/models"
	"alfredoptarigan/skillpilot/internal/repositories"
	"alfredoptarigan/skillpilot/internal/services"
)

// Runs the matching and assessment tasks once against fixture data and
// prints the responses. Pass a JSON file holding a job match request to
// match your own jobs; without one the fallback jobs are used. With no
// GEMINI_API_KEY every task runs in degraded mode.
func main() {
	cfg := config.Load()

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	ctx := context.Background()

	gemini, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, appLog)
	if err != nil {
		if !errors.Is(err, models.ErrUpstreamUnavailable) {
			appLog.Fatal("failed to initialize Gemini", "error", err)
		}
		gemini = nil
	}

	prompts, err := services.NewPromptBuilder()
	if err != nil {
		appLog.Fatal("failed to load prompt templates", "error", err)
	}

	validator := services.NewValidator()
	fallback := services.NewFallbackProvider()
	pipeline := services.NewPipeline(
		prompts,
		services.NewGenerationClient(gemini, validator, appLog),
		validator,
		fallback,
		nil, nil, nil, nil,
		repositories.NewNopGenerationRunRepository(),
		services.PipelineOptions{
			CorrelationMode:   services.ParseCorrelationMode(cfg.Pipeline.CorrelationMode),
			GenerationTimeout: cfg.Pipeline.GenerationTimeout,
		},
		appLog,
	)

	req := models.JobMatchRequest{
		UserSkills:     []string{"React", "TypeScript", "Docker"},
		UserExperience: "mid",
		Jobs:           fallback.Jobs(),
	}
	if len(os.Args) > 1 {
		raw, err := os.ReadFile(os.Args[1])
		if err != nil {
			appLog.Fatal("failed to read fixture", "path", os.Args[1], "error", err)
		}
		if err := json.Unmarshal(raw, &req); err != nil {
			appLog.Fatal("failed to parse fixture", "path", os.Args[1], "error", err)
		}
	}

	matched, err := pipeline.MatchJobs(ctx, req.Profile(), req.Jobs)
	if err != nil {
		appLog.Fatal("job matching rejected input", "error", err)
	}
	printJSON("jobs", matched)

	assessment, err := pipeline.ScoreQuiz(ctx, models.AssessmentInput{
		Skill:               "React",
		Difficulty:          models.DifficultyIntermediate,
		TotalQuestions:      10,
		CorrectAnswers:      7,
		IncorrectCategories: []string{"Hooks", "Performance", "Hooks"},
	})
	if err != nil {
		appLog.Fatal("quiz scoring rejected input", "error", err)
	}
	printJSON("assessment", assessment)
}

func printJSON(label string, v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("failed to encode %s: %v", label, err)
		return
	}
	fmt.Printf("=== %s ===\n%s\n", label, out)
}

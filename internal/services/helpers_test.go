package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"alfredoptarigan/skillpilot/internal/logger"
	"alfredoptarigan/skillpilot/internal/models"
	"alfredoptarigan/skillpilot/internal/repositories"
)

// fakeLLM answers every call through respond and counts invocations.
type fakeLLM struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	schemas []*genai.Schema
	respond func(prompt string) (string, error)
}

func replyWith(body string) *fakeLLM {
	return &fakeLLM{respond: func(string) (string, error) { return body, nil }}
}

func failWith(err error) *fakeLLM {
	return &fakeLLM{respond: func(string) (string, error) { return "", err }}
}

func (f *fakeLLM) GenerateJSON(_ context.Context, prompt string, schema *genai.Schema, _ float32) (string, error) {
	f.mu.Lock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	f.schemas = append(f.schemas, schema)
	f.mu.Unlock()
	return f.respond(prompt)
}

func (f *fakeLLM) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// recordingRuns captures audit rows in memory.
type recordingRuns struct {
	mu   sync.Mutex
	runs []models.GenerationRun
}

func (r *recordingRuns) Create(run *models.GenerationRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, *run)
	return nil
}

func (r *recordingRuns) FindByID(uuid.UUID) (*models.GenerationRun, error) {
	return nil, repositories.ErrRunNotFound
}

func (r *recordingRuns) FindRecent(string, int) ([]models.GenerationRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.GenerationRun(nil), r.runs...), nil
}

type stubJobs struct {
	jobs []models.Job
	err  error
}

func (s stubJobs) SearchJobs(context.Context, models.JobSearchRequest) ([]models.Job, error) {
	return s.jobs, s.err
}

type stubVideos struct {
	mu      sync.Mutex
	queries []string
	err     error
}

func (s *stubVideos) SearchVideos(_ context.Context, req models.VideoSearchRequest) ([]models.Video, error) {
	s.mu.Lock()
	s.queries = append(s.queries, req.Query)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return []models.Video{{ID: "vid-" + req.Query, Title: req.Query, URL: "https://www.youtube.com/watch?v=x"}}, nil
}

type pipelineDeps struct {
	llm      GeminiService
	jobs     JobSource
	courses  CourseSource
	videos   VideoSource
	projects ProjectSource
	runs     *recordingRuns
	mode     CorrelationMode
}

func newTestPipeline(t *testing.T, deps pipelineDeps) *Pipeline {
	t.Helper()

	prompts, err := NewPromptBuilder()
	require.NoError(t, err)

	if deps.runs == nil {
		deps.runs = &recordingRuns{}
	}
	if deps.mode == "" {
		deps.mode = CorrelationIdentifier
	}

	validator := NewValidator()
	log := logger.Nop()
	return NewPipeline(
		prompts,
		NewGenerationClient(deps.llm, validator, log),
		validator,
		NewFallbackProvider(),
		deps.jobs,
		deps.courses,
		deps.videos,
		deps.projects,
		deps.runs,
		PipelineOptions{CorrelationMode: deps.mode},
		log,
	)
}

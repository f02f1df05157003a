package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/skillpilot/internal/models"
)

var projectRequest = models.ProjectRecommendationRequest{
	Skills:            []string{"Go", "PostgreSQL"},
	CareerGoals:       "Senior backend engineer",
	PortfolioProjects: []string{"todo-api"},
}

func TestSearchProjects_LiveSource(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, `{"items":[
		{"id":7,"name":"kit","full_name":"go-kit/kit","html_url":"https://github.com/go-kit/kit","updated_at":"2025-01-01T00:00:00Z","owner":{"login":"go-kit"}}
	]}`, nil)
	source := NewGitHubSource(srv.Client(), "")
	source.BaseURL = srv.URL
	p := newTestPipeline(t, pipelineDeps{projects: source})

	set, err := p.SearchProjects(context.Background(), models.ProjectSearchRequest{Query: "microservices"})
	require.NoError(t, err)
	assert.Equal(t, models.ModeLive, set.Mode)
	require.Len(t, set.Items, 1)
	assert.Equal(t, "7", set.Items[0].ID)
}

func TestSearchProjects_FallbackKeepsFilters(t *testing.T) {
	srv := serveJSON(t, http.StatusServiceUnavailable, `{}`, nil)
	source := NewGitHubSource(srv.Client(), "")
	source.BaseURL = srv.URL
	p := newTestPipeline(t, pipelineDeps{projects: source})

	set, err := p.SearchProjects(context.Background(), models.ProjectSearchRequest{
		Query: "cli", Language: "Rust", Topics: []string{"terminal"},
	})
	require.NoError(t, err)
	assert.True(t, set.IsDegraded())
	assert.True(t, strings.HasPrefix(set.DegradedReason, "project search"), set.DegradedReason)
	require.Len(t, set.Items, 3)
	for _, project := range set.Items {
		assert.True(t, strings.HasPrefix(project.ID, MockPrefix), project.ID)
		assert.Equal(t, "Rust", project.Language)
		assert.Equal(t, []string{"terminal"}, project.Topics)
	}

	_, err = p.SearchProjects(context.Background(), models.ProjectSearchRequest{Query: "cli", PerPage: 100})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestRecommendProjects_Live(t *testing.T) {
	llm := replyWith(`{"projects":[
		{"title":"Job queue","description":"Postgres-backed job queue","difficulty":"Advanced",
		 "skills_required":["Go","PostgreSQL"],"estimated_time":"4 weeks"},
		{"title":"URL shortener","description":"With analytics","difficulty":"Beginner",
		 "skills_required":["Go"],"estimated_time":"1 week"}
	]}`)
	runs := &recordingRuns{}
	p := newTestPipeline(t, pipelineDeps{llm: llm, runs: runs})

	resp, err := p.RecommendProjects(context.Background(), projectRequest)
	require.NoError(t, err)
	assert.Equal(t, models.ModeLive, resp.Mode)
	require.Len(t, resp.Projects, 2)
	assert.Equal(t, models.ProjectAdvanced, resp.Projects[0].Difficulty)

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "Go, PostgreSQL")
	assert.Contains(t, llm.prompts[0], "todo-api")
	require.Len(t, runs.runs, 1)
	assert.Equal(t, string(TaskRecommendProjects), runs.runs[0].Task)
	assert.Equal(t, 2, runs.runs[0].MergedCount)
}

func TestRecommendProjects_InvalidDifficultyFallsBack(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"lowercase enum", `{"projects":[{"title":"a","description":"b","difficulty":"beginner","skills_required":[],"estimated_time":"1w"}]}`},
		{"unknown enum", `{"projects":[{"title":"a","description":"b","difficulty":"Expert","skills_required":[],"estimated_time":"1w"}]}`},
		{"empty list", `{"projects":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPipeline(t, pipelineDeps{llm: replyWith(tt.body)})

			resp, err := p.RecommendProjects(context.Background(), projectRequest)
			require.NoError(t, err)
			assert.True(t, resp.IsDegraded())
			assert.Contains(t, resp.DegradedReason, "schema violation")
			require.Len(t, resp.Projects, 3)
		})
	}
}

func TestRecommendProjects_InvalidInput(t *testing.T) {
	llm := replyWith(`{}`)
	p := newTestPipeline(t, pipelineDeps{llm: llm})

	_, err := p.RecommendProjects(context.Background(), models.ProjectRecommendationRequest{CareerGoals: "x"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = p.RecommendProjects(context.Background(), models.ProjectRecommendationRequest{Skills: []string{"Go"}})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Zero(t, llm.Calls())
}

func TestGenerateCareerPath(t *testing.T) {
	req := models.CareerPathRequest{Skills: "Go, SQL", Experience: "3 years backend", CareerGoals: "Engineering manager"}

	p := newTestPipeline(t, pipelineDeps{llm: replyWith(`{"career_path":"Lead a team first","course_recommendations":"Management 101"}`)})
	resp, err := p.GenerateCareerPath(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.ModeLive, resp.Mode)
	assert.Equal(t, "Lead a team first", resp.CareerPath.CareerPath)

	p = newTestPipeline(t, pipelineDeps{llm: replyWith(`{"career_path":"","course_recommendations":"x"}`)})
	resp, err = p.GenerateCareerPath(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.IsDegraded())
	assert.Contains(t, resp.CareerPath.CareerPath, "Engineering manager")
	assert.NotEmpty(t, resp.CourseRecommendations)

	_, err = p.GenerateCareerPath(context.Background(), models.CareerPathRequest{Skills: "Go"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestCareerAdvice(t *testing.T) {
	llm := replyWith(`{"response":"Anchor high and justify with market data."}`)
	p := newTestPipeline(t, pipelineDeps{llm: llm})

	resp, err := p.CareerAdvice(context.Background(), models.CareerAdviceRequest{Query: "How do I negotiate an offer?"})
	require.NoError(t, err)
	assert.Equal(t, models.ModeLive, resp.Mode)
	assert.Equal(t, "Anchor high and justify with market data.", resp.Response)
	assert.Contains(t, llm.prompts[0], "How do I negotiate an offer?")

	p = newTestPipeline(t, pipelineDeps{llm: failWith(errors.New("deadline exceeded"))})
	resp, err = p.CareerAdvice(context.Background(), models.CareerAdviceRequest{Query: "Should I learn Rust?"})
	require.NoError(t, err)
	assert.True(t, resp.IsDegraded())
	assert.Contains(t, resp.Response, "Should I learn Rust?")

	_, err = p.CareerAdvice(context.Background(), models.CareerAdviceRequest{Query: strings.Repeat("a", 4001)})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

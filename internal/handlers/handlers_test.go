package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"alfredoptarigan/skillpilot/internal/logger"
	"alfredoptarigan/skillpilot/internal/models"
	"alfredoptarigan/skillpilot/internal/repositories"
	"alfredoptarigan/skillpilot/internal/services"
)

// staticGemini replies with the same body to every prompt.
type staticGemini struct {
	body string
}

func (s staticGemini) GenerateJSON(context.Context, string, *genai.Schema, float32) (string, error) {
	return s.body, nil
}

const maxUpload = 1024

func newTestApp(t *testing.T, llm services.GeminiService) *fiber.App {
	t.Helper()

	prompts, err := services.NewPromptBuilder()
	require.NoError(t, err)
	validator := services.NewValidator()
	log := logger.Nop()
	runs := repositories.NewNopGenerationRunRepository()

	pipeline := services.NewPipeline(
		prompts,
		services.NewGenerationClient(llm, validator, log),
		validator,
		services.NewFallbackProvider(),
		nil, nil, nil, nil,
		runs,
		services.PipelineOptions{CorrelationMode: services.CorrelationIdentifier},
		log,
	)

	match := NewMatchHandler(pipeline)
	search := NewSearchHandler(pipeline)
	assessment := NewAssessmentHandler(pipeline)
	roadmap := NewRoadmapHandler(pipeline)
	project := NewProjectHandler(pipeline)
	career := NewCareerHandler(pipeline)
	resume := NewResumeHandler(services.NewResumeParserService(), pipeline, maxUpload)
	run := NewRunHandler(runs)

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Post("/jobs/match", match.HandleMatchJobs)
	api.Post("/jobs/search-and-match", match.HandleSearchAndMatchJobs)
	api.Post("/courses/match", match.HandleMatchCourses)
	api.Post("/videos/search", search.HandleSearchVideos)
	api.Post("/quiz/generate", assessment.HandleGenerateQuiz)
	api.Post("/quiz/score", assessment.HandleScoreQuiz)
	api.Post("/roadmap/generate", roadmap.HandleGenerateRoadmap)
	api.Post("/projects/search", project.HandleSearchProjects)
	api.Post("/projects/recommend", project.HandleRecommendProjects)
	api.Post("/career/path", career.HandleCareerPath)
	api.Post("/career/advice", career.HandleCareerAdvice)
	api.Post("/resume/parse", resume.HandleParse)
	api.Post("/resume/analyze", resume.HandleAnalyze)
	api.Get("/runs", run.HandleListRuns)
	api.Get("/runs/:id", run.HandleGetRun)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return do(t, app, req)
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return resp.StatusCode, body
}

const jobsBody = `{
	"user_skills": ["Go", "SQL"],
	"jobs": [
		{"id": "j1", "title": "Backend Engineer", "skills": ["Go", "SQL"]},
		{"id": "j2", "title": "Frontend Engineer", "skills": ["React"]}
	]
}`

func TestHandleMatchJobs_LiveResults(t *testing.T) {
	app := newTestApp(t, staticGemini{body: `{"matched_jobs":[
		{"job_id":"j2","match_score":20,"match_reason":"little overlap"},
		{"job_id":"j1","match_score":95,"match_reason":"full overlap","title":"ignored"}
	]}`})

	// The unknown "title" field is a schema violation, so this degrades.
	status, body := postJSON(t, app, "/api/v1/jobs/match", jobsBody)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "degraded", body["mode"])

	app = newTestApp(t, staticGemini{body: `{"matched_jobs":[
		{"job_id":"j2","match_score":20,"match_reason":"little overlap"},
		{"job_id":"j1","match_score":95,"match_reason":"full overlap"}
	]}`})
	status, body = postJSON(t, app, "/api/v1/jobs/match", jobsBody)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "live", body["mode"])

	results := body["results"].([]any)
	require.Len(t, results, 2)
	first := results[0].(map[string]any)
	assert.Equal(t, "j1", first["id"])
	assert.Equal(t, "Backend Engineer", first["title"])
	assert.Equal(t, "high", first["priority"])
	assert.Equal(t, []any{}, body["unscored"])
}

func TestHandleMatchJobs_DegradedWithoutModel(t *testing.T) {
	app := newTestApp(t, nil)

	status, body := postJSON(t, app, "/api/v1/jobs/match", jobsBody)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "degraded", body["mode"])
	assert.NotEmpty(t, body["degraded_reason"])
	assert.Len(t, body["results"], 2)
}

func TestHandleMatchJobs_BadRequests(t *testing.T) {
	app := newTestApp(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"user_skills": [`},
		{"no jobs", `{"user_skills": ["Go"], "jobs": []}`},
		{"no skills", `{"jobs": [{"id": "j1", "title": "x"}]}`},
		{"duplicate ids", `{"user_skills": ["Go"], "jobs": [{"id": "a", "title": "x"}, {"id": "a", "title": "y"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := postJSON(t, app, "/api/v1/jobs/match", tt.body)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleSearchAndMatchJobs_FallbackIDs(t *testing.T) {
	app := newTestApp(t, nil)

	status, body := postJSON(t, app, "/api/v1/jobs/search-and-match", `{"query": "react developer", "user_skills": ["React"]}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "degraded", body["mode"])
	for _, r := range body["results"].([]any) {
		assert.Contains(t, r.(map[string]any)["id"], services.MockPrefix)
	}
}

func TestHandleSearchVideos(t *testing.T) {
	app := newTestApp(t, nil)

	status, body := postJSON(t, app, "/api/v1/videos/search", `{"query": "kubernetes", "max_results": 2}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["items"], 2)

	status, _ = postJSON(t, app, "/api/v1/videos/search", `{"max_results": 2}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandleScoreQuiz(t *testing.T) {
	app := newTestApp(t, nil)

	status, body := postJSON(t, app, "/api/v1/quiz/score", `{"counts": {
		"skill": "React", "difficulty": "intermediate", "total_questions": 10, "correct_answers": 8
	}}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 80.0, body["percentage"])
	assert.Equal(t, 75.0, body["threshold"])
	assert.Equal(t, true, body["passed"])

	status, _ = postJSON(t, app, "/api/v1/quiz/score", `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = postJSON(t, app, "/api/v1/quiz/score", `{"counts": {"skill": "Go", "difficulty": "beginner", "total_questions": 5, "correct_answers": 9}}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandleScoreQuiz_RejectsSessionAndCounts(t *testing.T) {
	app := newTestApp(t, nil)

	status, body := postJSON(t, app, "/api/v1/quiz/score", `{
		"session": {"skill": "Go", "difficulty": "beginner", "questions": [], "answers": []},
		"counts": {"skill": "Go", "difficulty": "beginner", "total_questions": 5, "correct_answers": 4}
	}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"], "not both")
}

func TestHandleGenerateQuizThenScoreSession(t *testing.T) {
	app := newTestApp(t, nil)

	status, body := postJSON(t, app, "/api/v1/quiz/generate", `{"skill": "Go", "difficulty": "beginner", "question_count": 5}`)
	require.Equal(t, fiber.StatusOK, status)

	rawSession, err := json.Marshal(body["session"])
	require.NoError(t, err)
	var session models.QuizSession
	require.NoError(t, json.Unmarshal(rawSession, &session))
	require.Len(t, session.Questions, 5)
	for i, q := range session.Questions {
		require.NoError(t, session.RecordAnswer(i, q.CorrectAnswer))
	}

	payload, err := json.Marshal(models.QuizScoreRequest{Session: &session})
	require.NoError(t, err)
	status, body = postJSON(t, app, "/api/v1/quiz/score", string(payload))
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 100.0, body["percentage"])
	assert.Equal(t, true, body["passed"])
}

func TestHandleGenerateRoadmap(t *testing.T) {
	app := newTestApp(t, nil)

	status, body := postJSON(t, app, "/api/v1/roadmap/generate", `{"current_skills": ["HTML"], "target_role": "Frontend Developer", "include_videos": true}`)
	require.Equal(t, fiber.StatusOK, status)

	roadmap := body["roadmap"].(map[string]any)
	stages := roadmap["stages"].([]any)
	require.Len(t, stages, 3)
	assert.NotEmpty(t, stages[0].(map[string]any)["videos"])

	status, _ = postJSON(t, app, "/api/v1/roadmap/generate", `{"current_skills": [], "target_role": "SRE"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func multipartFile(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/parse", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandleParseResume(t *testing.T) {
	app := newTestApp(t, nil)
	text := []byte("Jane Doe\nBackend engineer with six years of Go, PostgreSQL and Kubernetes experience.")

	status, body := do(t, app, multipartFile(t, "resume.txt", text))
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "resume.txt", body["filename"])
	assert.Contains(t, body["text"], "Kubernetes")

	status, _ = do(t, app, multipartFile(t, "resume.exe", text))
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = do(t, app, multipartFile(t, "resume.txt", bytes.Repeat([]byte("a"), maxUpload+1)))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"], "File too large")

	status, _ = postJSON(t, app, "/api/v1/resume/parse", `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandleAnalyzeResume(t *testing.T) {
	app := newTestApp(t, nil)

	status, body := postJSON(t, app, "/api/v1/resume/analyze", `{"resume_text": "React and TypeScript developer who also writes Python APIs."}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "degraded", body["mode"])
	assert.NotNil(t, body["analysis"])

	status, _ = postJSON(t, app, "/api/v1/resume/analyze", `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestRunHandler(t *testing.T) {
	app := newTestApp(t, nil)

	status, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/runs/not-a-uuid", nil))
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+uuid.NewString(), nil))
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/runs?task=match_jobs&limit=5", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 0.0, body["count"])

	status, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/runs?limit=500", nil))
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandleSearchProjects_FallbackIDs(t *testing.T) {
	app := newTestApp(t, nil)

	status, body := postJSON(t, app, "/api/v1/projects/search", `{"query":"cli","language":"Go"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "degraded", body["mode"])
	items := body["items"].([]any)
	require.Len(t, items, 3)
	first := items[0].(map[string]any)
	assert.Equal(t, "mock-project-1", first["id"])
	assert.Equal(t, "Go", first["language"])

	status, _ = postJSON(t, app, "/api/v1/projects/search", `{"language":"Go"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandleRecommendProjects(t *testing.T) {
	app := newTestApp(t, staticGemini{body: `{"projects":[
		{"title":"Rate limiter","description":"Token bucket service","difficulty":"Intermediate",
		 "skills_required":["Go","Redis"],"estimated_time":"2 weeks"}
	]}`})

	status, body := postJSON(t, app, "/api/v1/projects/recommend", `{"skills":["Go"],"career_goals":"Backend engineer"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "live", body["mode"])
	projects := body["projects"].([]any)
	require.Len(t, projects, 1)
	assert.Equal(t, "Rate limiter", projects[0].(map[string]any)["title"])

	status, _ = postJSON(t, app, "/api/v1/projects/recommend", `{"skills":[],"career_goals":"Backend engineer"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = postJSON(t, app, "/api/v1/projects/recommend", `{"skills":["Go"]}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandleRecommendProjects_LowercaseDifficultyDegrades(t *testing.T) {
	app := newTestApp(t, staticGemini{body: `{"projects":[
		{"title":"Rate limiter","description":"Token bucket service","difficulty":"intermediate",
		 "skills_required":["Go"],"estimated_time":"2 weeks"}
	]}`})

	status, body := postJSON(t, app, "/api/v1/projects/recommend", `{"skills":["Go"],"career_goals":"Backend engineer"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "degraded", body["mode"])
	assert.Len(t, body["projects"], 3)
}

func TestHandleCareerPath(t *testing.T) {
	app := newTestApp(t, staticGemini{body: `{"career_path":"Junior to senior in 18 months","course_recommendations":"Distributed systems course"}`})

	status, body := postJSON(t, app, "/api/v1/career/path",
		`{"skills":"Go, SQL","experience":"2 years backend","career_goals":"Staff engineer"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "live", body["mode"])
	assert.Equal(t, "Junior to senior in 18 months", body["career_path"])
	assert.Equal(t, "Distributed systems course", body["course_recommendations"])

	status, _ = postJSON(t, app, "/api/v1/career/path", `{"skills":"Go","career_goals":"Staff engineer"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandleCareerAdvice_DegradedWithoutModel(t *testing.T) {
	app := newTestApp(t, nil)

	status, body := postJSON(t, app, "/api/v1/career/advice", `{"query":"How do I negotiate salary?"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "degraded", body["mode"])
	assert.Contains(t, body["response"], "How do I negotiate salary?")

	status, _ = postJSON(t, app, "/api/v1/career/advice", `{"query":""}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

package services

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"alfredoptarigan/skillpilot/internal/models"
)

//go:embed templates/prompts.yaml
var promptsYAML []byte

type promptEntry struct {
	Description string `yaml:"description"`
	Template    string `yaml:"template"`
}

// PromptBuilder renders task prompts from the embedded template table.
// Rendering is pure: the same input always yields the same text.
type PromptBuilder struct {
	templates map[string]*template.Template
}

func NewPromptBuilder() (*PromptBuilder, error) {
	return newPromptBuilder(promptsYAML)
}

func newPromptBuilder(raw []byte) (*PromptBuilder, error) {
	var entries map[string]promptEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse prompt templates: %w", err)
	}

	funcs := template.FuncMap{
		"join": strings.Join,
		"inc":  func(i int) int { return i + 1 },
	}

	pb := &PromptBuilder{templates: make(map[string]*template.Template, len(entries))}
	for id, entry := range entries {
		tmpl, err := template.New(id).Funcs(funcs).Option("missingkey=error").Parse(entry.Template)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", id, err)
		}
		pb.templates[id] = tmpl
	}

	for task, spec := range taskTable {
		if _, ok := pb.templates[spec.TemplateID]; !ok {
			return nil, fmt.Errorf("missing template %s for task %s", spec.TemplateID, task)
		}
	}
	return pb, nil
}

func (pb *PromptBuilder) render(task Task, data any) (string, error) {
	spec, err := LookupTask(task)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := pb.templates[spec.TemplateID].Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", task, err)
	}
	return buf.String(), nil
}

// BuildJobMatchPrompt embeds every job's id and fields verbatim.
func (pb *PromptBuilder) BuildJobMatchPrompt(profile models.UserProfile, jobs []models.Job, mode CorrelationMode) (string, error) {
	if len(nonEmpty(profile.Skills)) == 0 {
		return "", fmt.Errorf("%w: user skills are required", models.ErrInvalidInput)
	}
	if len(jobs) == 0 {
		return "", fmt.Errorf("%w: jobs array is required", models.ErrInvalidInput)
	}
	return pb.render(TaskMatchJobs, struct {
		Profile models.UserProfile
		Jobs    []models.Job
		WithIDs bool
	}{profile, jobs, mode != CorrelationPositional})
}

func (pb *PromptBuilder) BuildCourseMatchPrompt(profile models.UserProfile, courses []models.Course, mode CorrelationMode) (string, error) {
	if len(nonEmpty(profile.Skills)) == 0 {
		return "", fmt.Errorf("%w: user skills are required", models.ErrInvalidInput)
	}
	if len(courses) == 0 {
		return "", fmt.Errorf("%w: courses array is required", models.ErrInvalidInput)
	}
	return pb.render(TaskMatchCourses, struct {
		Profile models.UserProfile
		Courses []models.Course
		WithIDs bool
	}{profile, courses, mode != CorrelationPositional})
}

func (pb *PromptBuilder) BuildResumeAnalysisPrompt(req models.ResumeAnalysisRequest) (string, error) {
	if strings.TrimSpace(req.ResumeText) == "" {
		return "", fmt.Errorf("%w: resume text is required", models.ErrInvalidInput)
	}
	return pb.render(TaskAnalyzeResume, struct {
		Request models.ResumeAnalysisRequest
	}{req})
}

func (pb *PromptBuilder) BuildQuizPrompt(skill string, difficulty models.Difficulty, questionCount, passingScore int) (string, error) {
	if strings.TrimSpace(skill) == "" {
		return "", fmt.Errorf("%w: skill is required", models.ErrInvalidInput)
	}
	if questionCount <= 0 {
		return "", fmt.Errorf("%w: question count must be positive", models.ErrInvalidInput)
	}
	return pb.render(TaskGenerateQuiz, struct {
		Skill         string
		Difficulty    models.Difficulty
		QuestionCount int
		PassingScore  int
	}{skill, difficulty, questionCount, passingScore})
}

// BuildFeedbackPrompt receives the locally computed score so the model
// never has to derive percentage or pass/fail itself.
func (pb *PromptBuilder) BuildFeedbackPrompt(input models.AssessmentInput, score QuizScore, weakAreas []string) (string, error) {
	if strings.TrimSpace(input.Skill) == "" {
		return "", fmt.Errorf("%w: skill is required", models.ErrInvalidInput)
	}
	return pb.render(TaskScoreQuiz, struct {
		Input      models.AssessmentInput
		Percentage int
		Threshold  int
		Passed     bool
		WeakAreas  []string
	}{input, score.Percentage, score.Threshold, score.Passed, weakAreas})
}

func (pb *PromptBuilder) BuildRoadmapPrompt(req models.RoadmapRequest) (string, error) {
	if strings.TrimSpace(req.TargetRole) == "" {
		return "", fmt.Errorf("%w: target role is required", models.ErrInvalidInput)
	}
	if len(nonEmpty(req.CurrentSkills)) == 0 {
		return "", fmt.Errorf("%w: current skills are required", models.ErrInvalidInput)
	}
	return pb.render(TaskGenerateRoadmap, struct {
		Request models.RoadmapRequest
	}{req})
}

func (pb *PromptBuilder) BuildProjectRecommendationPrompt(req models.ProjectRecommendationRequest) (string, error) {
	if len(nonEmpty(req.Skills)) == 0 {
		return "", fmt.Errorf("%w: skills are required", models.ErrInvalidInput)
	}
	if strings.TrimSpace(req.CareerGoals) == "" {
		return "", fmt.Errorf("%w: career goals are required", models.ErrInvalidInput)
	}
	return pb.render(TaskRecommendProjects, struct {
		Request models.ProjectRecommendationRequest
	}{req})
}

func (pb *PromptBuilder) BuildCareerPathPrompt(req models.CareerPathRequest) (string, error) {
	if strings.TrimSpace(req.CareerGoals) == "" {
		return "", fmt.Errorf("%w: career goals are required", models.ErrInvalidInput)
	}
	return pb.render(TaskCareerPath, struct {
		Request models.CareerPathRequest
	}{req})
}

func (pb *PromptBuilder) BuildCareerAdvicePrompt(req models.CareerAdviceRequest) (string, error) {
	if strings.TrimSpace(req.Query) == "" {
		return "", fmt.Errorf("%w: query is required", models.ErrInvalidInput)
	}
	return pb.render(TaskCareerAdvice, struct {
		Request models.CareerAdviceRequest
	}{req})
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

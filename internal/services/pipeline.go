package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"alfredoptarigan/skillpilot/internal/logger"
	"alfredoptarigan/skillpilot/internal/models"
	"alfredoptarigan/skillpilot/internal/repositories"
)

// roadmapVideosPerStage bounds the enrichment lookup for each stage.
const roadmapVideosPerStage = 3

const defaultQuestionCount = 10

type PipelineOptions struct {
	CorrelationMode   CorrelationMode
	GenerationTimeout time.Duration
	UpstreamTimeout   time.Duration
}

// Pipeline runs every structured-generation task. Only ErrInvalidInput is
// returned to the caller; every other failure degrades to fallback data and
// is reported through the response's Outcome.
type Pipeline struct {
	prompts   *PromptBuilder
	generator GenerationClient
	validator *Validator
	fallback  *FallbackProvider
	jobs      JobSource
	courses   CourseSource
	videos    VideoSource
	projects  ProjectSource
	runs      repositories.GenerationRunRepository
	opts      PipelineOptions
	log       *logger.Logger
}

func NewPipeline(
	prompts *PromptBuilder,
	generator GenerationClient,
	validator *Validator,
	fallback *FallbackProvider,
	jobs JobSource,
	courses CourseSource,
	videos VideoSource,
	projects ProjectSource,
	runs repositories.GenerationRunRepository,
	opts PipelineOptions,
	log *logger.Logger,
) *Pipeline {
	if runs == nil {
		runs = repositories.NewNopGenerationRunRepository()
	}
	return &Pipeline{
		prompts:   prompts,
		generator: generator,
		validator: validator,
		fallback:  fallback,
		jobs:      jobs,
		courses:   courses,
		videos:    videos,
		projects:  projects,
		runs:      runs,
		opts:      opts,
		log:       log,
	}
}

func (p *Pipeline) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func (p *Pipeline) generate(ctx context.Context, spec TaskSpec, prompt string, opts SchemaOptions, out any) error {
	genCtx, cancel := p.withTimeout(ctx, p.opts.GenerationTimeout)
	defer cancel()
	return p.generator.Generate(genCtx, GenerationRequest{
		Task:        spec.Task,
		Prompt:      prompt,
		Schema:      spec.OutputSchema(opts),
		Temperature: spec.Temperature,
	}, out)
}

func (p *Pipeline) degrade(task Task, stage string, err error) models.Outcome {
	p.log.Warn("falling back to synthetic data", "task", task, "stage", stage, "error", err.Error())
	return models.Degraded(fmt.Sprintf("%s: %v", stage, err))
}

type runCounts struct {
	candidates, merged, unscored, orphans int
}

func (p *Pipeline) record(task Task, outcome models.Outcome, counts runCounts, started time.Time) {
	run := &models.GenerationRun{
		Task:           string(task),
		Mode:           outcome.Mode,
		DegradedReason: outcome.DegradedReason,
		CandidateCount: counts.candidates,
		MergedCount:    counts.merged,
		UnscoredCount:  counts.unscored,
		OrphanCount:    counts.orphans,
		LatencyMs:      time.Since(started).Milliseconds(),
		CreatedAt:      time.Now(),
	}
	if err := p.runs.Create(run); err != nil {
		p.log.Error("failed to record generation run", "task", task, "error", err)
	}
}

func (p *Pipeline) SearchJobs(ctx context.Context, req models.JobSearchRequest) (*models.CandidateSet[models.Job], error) {
	if err := p.validator.ValidateInput(req); err != nil {
		return nil, err
	}
	jobs, outcome := p.fetchJobs(ctx, req)
	return &models.CandidateSet[models.Job]{Outcome: outcome, Items: jobs}, nil
}

func (p *Pipeline) fetchJobs(ctx context.Context, req models.JobSearchRequest) ([]models.Job, models.Outcome) {
	fetchCtx, cancel := p.withTimeout(ctx, p.opts.UpstreamTimeout)
	defer cancel()

	if p.jobs != nil {
		jobs, err := p.jobs.SearchJobs(fetchCtx, req)
		if err == nil {
			err = checkFetched(jobs)
		}
		if err == nil {
			return jobs, models.Live()
		}
		return p.fallback.Jobs(), p.degrade(TaskMatchJobs, "job search", err)
	}
	return p.fallback.Jobs(), p.degrade(TaskMatchJobs, "job search", models.ErrUpstreamUnavailable)
}

// checkFetched reports a fetched set that cannot be correlated, such as one
// with repeated ids, as an upstream failure rather than a caller error.
func checkFetched[C models.Candidate](candidates []C) error {
	if _, err := indexCandidates(candidates); err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return nil
}

func (p *Pipeline) SearchCourses(ctx context.Context, req models.CourseSearchRequest) (*models.CandidateSet[models.Course], error) {
	if err := p.validator.ValidateInput(req); err != nil {
		return nil, err
	}
	courses, outcome := p.fetchCourses(ctx, req)
	return &models.CandidateSet[models.Course]{Outcome: outcome, Items: courses}, nil
}

func (p *Pipeline) fetchCourses(ctx context.Context, req models.CourseSearchRequest) ([]models.Course, models.Outcome) {
	fetchCtx, cancel := p.withTimeout(ctx, p.opts.UpstreamTimeout)
	defer cancel()

	if p.courses != nil {
		courses, err := p.courses.SearchCourses(fetchCtx, req)
		if err == nil {
			err = checkFetched(courses)
		}
		if err == nil {
			return courses, models.Live()
		}
		return p.fallback.Courses(), p.degrade(TaskMatchCourses, "course search", err)
	}
	return p.fallback.Courses(), p.degrade(TaskMatchCourses, "course search", models.ErrUpstreamUnavailable)
}

func (p *Pipeline) SearchVideos(ctx context.Context, req models.VideoSearchRequest) (*models.CandidateSet[models.Video], error) {
	if err := p.validator.ValidateInput(req); err != nil {
		return nil, err
	}
	videos, outcome := p.fetchVideos(ctx, req)
	return &models.CandidateSet[models.Video]{Outcome: outcome, Items: videos}, nil
}

func (p *Pipeline) fetchVideos(ctx context.Context, req models.VideoSearchRequest) ([]models.Video, models.Outcome) {
	fetchCtx, cancel := p.withTimeout(ctx, p.opts.UpstreamTimeout)
	defer cancel()

	limit := req.MaxResults
	if limit <= 0 {
		limit = 5
	}
	if p.videos != nil {
		videos, err := p.videos.SearchVideos(fetchCtx, req)
		if err == nil {
			return videos, models.Live()
		}
		return p.fallback.Videos(req.Query, limit), p.degrade(TaskGenerateRoadmap, "video search", err)
	}
	return p.fallback.Videos(req.Query, limit), p.degrade(TaskGenerateRoadmap, "video search", models.ErrUpstreamUnavailable)
}

// matchRun is the shared shape of the job and course matching tasks.
type matchRun[C models.Candidate, A models.Annotation, O any] struct {
	task       Task
	candidates []C
	prompt     func(CorrelationMode) (string, error)
	extract    func(*O) []A
	heuristic  func() []A
	priority   func(A) models.Priority
}

func runMatch[C models.Candidate, A models.Annotation, O any](ctx context.Context, p *Pipeline, run matchRun[C, A, O]) (*models.MatchResponse[C, A], error) {
	started := time.Now()
	if len(run.candidates) == 0 {
		return nil, fmt.Errorf("%w: candidate list is empty", models.ErrInvalidInput)
	}
	for _, candidate := range run.candidates {
		if err := p.validator.ValidateInput(candidate); err != nil {
			return nil, err
		}
	}
	if _, err := indexCandidates(run.candidates); err != nil {
		return nil, err
	}
	prompt, err := run.prompt(p.opts.CorrelationMode)
	if err != nil {
		return nil, err
	}
	spec, err := LookupTask(run.task)
	if err != nil {
		return nil, err
	}

	outcome := models.Live()
	var correlation *Correlation[C, A]

	var out O
	err = p.generate(ctx, spec, prompt, SchemaOptions{Mode: p.opts.CorrelationMode, ItemCount: len(run.candidates)}, &out)
	if err == nil {
		strategy := NewCorrelationStrategy[C, A](p.opts.CorrelationMode)
		correlation, err = strategy.Correlate(run.candidates, run.extract(&out))
	}
	if err != nil {
		outcome = p.degrade(run.task, "generation", err)
		// Heuristic annotations carry ids, so the identifier join always applies.
		correlation, err = IdentifierStrategy[C, A]{}.Correlate(run.candidates, run.heuristic())
		if err != nil {
			return nil, err
		}
	}

	for _, issue := range correlation.Issues {
		p.log.Warn("correlation issue", "task", run.task, "kind", issue.Kind, "id", issue.ID, "index", issue.Index)
	}
	ApplyPriority(correlation.Results, run.priority)

	resp := &models.MatchResponse[C, A]{
		Outcome:  outcome,
		Results:  correlation.Results,
		Unscored: correlation.Unscored,
	}
	if resp.Results == nil {
		resp.Results = []models.MergedResult[C, A]{}
	}
	if resp.Unscored == nil {
		resp.Unscored = []C{}
	}

	p.record(run.task, outcome, runCounts{
		candidates: len(run.candidates),
		merged:     len(resp.Results),
		unscored:   len(resp.Unscored),
		orphans:    correlation.Orphans(),
	}, started)
	return resp, nil
}

func (p *Pipeline) MatchJobs(ctx context.Context, profile models.UserProfile, jobs []models.Job) (*models.JobMatchResponse, error) {
	return runMatch(ctx, p, matchRun[models.Job, models.JobAnnotation, models.JobMatchOutput]{
		task:       TaskMatchJobs,
		candidates: jobs,
		prompt: func(mode CorrelationMode) (string, error) {
			return p.prompts.BuildJobMatchPrompt(profile, jobs, mode)
		},
		extract:   func(out *models.JobMatchOutput) []models.JobAnnotation { return out.MatchedJobs },
		heuristic: func() []models.JobAnnotation { return p.fallback.MatchJobs(profile, jobs) },
	})
}

func (p *Pipeline) MatchCourses(ctx context.Context, profile models.UserProfile, courses []models.Course) (*models.CourseMatchResponse, error) {
	return runMatch(ctx, p, matchRun[models.Course, models.CourseAnnotation, models.CourseMatchOutput]{
		task:       TaskMatchCourses,
		candidates: courses,
		prompt: func(mode CorrelationMode) (string, error) {
			return p.prompts.BuildCourseMatchPrompt(profile, courses, mode)
		},
		extract:   func(out *models.CourseMatchOutput) []models.CourseAnnotation { return out.MatchedCourses },
		heuristic: func() []models.CourseAnnotation { return p.fallback.MatchCourses(profile, courses) },
		priority:  func(a models.CourseAnnotation) models.Priority { return a.Priority },
	})
}

func (p *Pipeline) SearchAndMatchJobs(ctx context.Context, req models.JobSearchAndMatchRequest) (*models.JobMatchResponse, error) {
	if err := p.validator.ValidateInput(req); err != nil {
		return nil, err
	}
	jobs, fetched := p.fetchJobs(ctx, req.JobSearchRequest)
	resp, err := p.MatchJobs(ctx, models.UserProfile{
		Skills:          req.UserSkills,
		ExperienceLevel: req.UserExperience,
		Interests:       req.UserInterests,
	}, jobs)
	if err != nil {
		return nil, err
	}
	resp.Outcome = fetched.Merge(resp.Outcome)
	return resp, nil
}

func (p *Pipeline) SearchAndMatchCourses(ctx context.Context, req models.CourseSearchAndMatchRequest) (*models.CourseMatchResponse, error) {
	if err := p.validator.ValidateInput(req); err != nil {
		return nil, err
	}
	courses, fetched := p.fetchCourses(ctx, req.CourseSearchRequest)
	resp, err := p.MatchCourses(ctx, models.UserProfile{
		Skills:       req.UserSkills,
		TargetSkills: req.TargetSkills,
		CareerGoal:   req.CareerGoal,
	}, courses)
	if err != nil {
		return nil, err
	}
	resp.Outcome = fetched.Merge(resp.Outcome)
	return resp, nil
}

func (p *Pipeline) AnalyzeResume(ctx context.Context, req models.ResumeAnalysisRequest) (*models.ResumeAnalysisResponse, error) {
	started := time.Now()
	if err := p.validator.ValidateInput(req); err != nil {
		return nil, err
	}
	prompt, err := p.prompts.BuildResumeAnalysisPrompt(req)
	if err != nil {
		return nil, err
	}
	spec, err := LookupTask(TaskAnalyzeResume)
	if err != nil {
		return nil, err
	}

	resp := &models.ResumeAnalysisResponse{Outcome: models.Live()}
	if err := p.generate(ctx, spec, prompt, SchemaOptions{}, &resp.Analysis); err != nil {
		resp.Outcome = p.degrade(TaskAnalyzeResume, "generation", err)
		resp.Analysis = p.fallback.ResumeAnalysis(req)
	}

	p.record(TaskAnalyzeResume, resp.Outcome, runCounts{}, started)
	return resp, nil
}

func (p *Pipeline) GenerateQuiz(ctx context.Context, req models.QuizGenerateRequest) (*models.QuizSessionResponse, error) {
	started := time.Now()
	if err := p.validator.ValidateInput(req); err != nil {
		return nil, err
	}
	count := req.QuestionCount
	if count == 0 {
		count = defaultQuestionCount
	}
	threshold, err := PassThreshold(req.Difficulty)
	if err != nil {
		return nil, err
	}
	prompt, err := p.prompts.BuildQuizPrompt(req.Skill, req.Difficulty, count, threshold)
	if err != nil {
		return nil, err
	}
	spec, err := LookupTask(TaskGenerateQuiz)
	if err != nil {
		return nil, err
	}

	outcome := models.Live()
	var out models.QuizOutput
	err = p.generate(ctx, spec, prompt, SchemaOptions{ItemCount: count}, &out)
	if err == nil && len(out.Questions) != count {
		err = fmt.Errorf("%w: expected %d questions, got %d", models.ErrSchemaViolation, count, len(out.Questions))
	}
	if err != nil {
		outcome = p.degrade(TaskGenerateQuiz, "generation", err)
		out = p.fallback.Quiz(req.Skill, req.Difficulty, count)
	}

	if out.PassingScore != float64(threshold) {
		p.log.Debug("passing score overridden", "task", TaskGenerateQuiz, "model", out.PassingScore, "threshold", threshold)
	}
	for i := range out.Questions {
		out.Questions[i].ID = i + 1
	}

	session := models.NewQuizSession(req.Skill, req.Difficulty, out.Questions, threshold)
	p.record(TaskGenerateQuiz, outcome, runCounts{candidates: count, merged: len(out.Questions)}, started)
	return &models.QuizSessionResponse{Outcome: outcome, Session: session}, nil
}

// AssessSession scores a completed session.
func (p *Pipeline) AssessSession(ctx context.Context, session *models.QuizSession) (*models.AssessmentResult, error) {
	if session == nil {
		return nil, fmt.Errorf("%w: session is required", models.ErrInvalidInput)
	}
	if err := p.validator.ValidateInput(session); err != nil {
		return nil, err
	}
	input, err := SessionInput(session)
	if err != nil {
		return nil, err
	}
	return p.ScoreQuiz(ctx, input)
}

// ScoreQuiz derives percentage and pass/fail locally, then asks the model
// for feedback. The model's score and pass flag never override local values.
func (p *Pipeline) ScoreQuiz(ctx context.Context, input models.AssessmentInput) (*models.AssessmentResult, error) {
	started := time.Now()
	if err := p.validator.ValidateInput(input); err != nil {
		return nil, err
	}
	score, err := ScoreQuiz(input.CorrectAnswers, input.TotalQuestions, input.Difficulty)
	if err != nil {
		return nil, err
	}
	if err := CheckIncorrectCategories(input); err != nil {
		return nil, err
	}
	weakAreas := WeakAreas(input.IncorrectCategories)

	prompt, err := p.prompts.BuildFeedbackPrompt(input, score, weakAreas)
	if err != nil {
		return nil, err
	}
	spec, err := LookupTask(TaskScoreQuiz)
	if err != nil {
		return nil, err
	}

	outcome := models.Live()
	var feedback models.AssessmentFeedback
	if err := p.generate(ctx, spec, prompt, SchemaOptions{}, &feedback); err != nil {
		outcome = p.degrade(TaskScoreQuiz, "generation", err)
		feedback = p.fallback.Feedback(input, score, weakAreas)
	}
	for _, correction := range ReconcileFeedback(&feedback, score) {
		p.log.Warn("model feedback corrected", "task", TaskScoreQuiz, "correction", correction)
	}

	p.record(TaskScoreQuiz, outcome, runCounts{candidates: input.TotalQuestions}, started)
	return &models.AssessmentResult{
		Outcome:         outcome,
		Skill:           input.Skill,
		Difficulty:      input.Difficulty,
		CorrectAnswers:  input.CorrectAnswers,
		TotalQuestions:  input.TotalQuestions,
		Percentage:      score.Percentage,
		Threshold:       score.Threshold,
		Passed:          score.Passed,
		Level:           feedback.Level,
		WeakAreas:       weakAreas,
		Strengths:       feedback.Strengths,
		Weaknesses:      feedback.Weaknesses,
		Recommendations: feedback.Recommendations,
		NextSteps:       feedback.NextSteps,
	}, nil
}

func (p *Pipeline) GenerateRoadmap(ctx context.Context, req models.RoadmapRequest) (*models.RoadmapResponse, error) {
	started := time.Now()
	if err := p.validator.ValidateInput(req); err != nil {
		return nil, err
	}
	prompt, err := p.prompts.BuildRoadmapPrompt(req)
	if err != nil {
		return nil, err
	}
	spec, err := LookupTask(TaskGenerateRoadmap)
	if err != nil {
		return nil, err
	}

	outcome := models.Live()
	var out models.RoadmapOutput
	err = p.generate(ctx, spec, prompt, SchemaOptions{}, &out)
	if err == nil {
		err = checkStageNumbers(out.Roadmap.Stages)
	}
	if err != nil {
		outcome = p.degrade(TaskGenerateRoadmap, "generation", err)
		out.Roadmap = p.fallback.Roadmap(req)
	}

	if req.IncludeVideos {
		outcome = outcome.Merge(p.enrichStages(ctx, out.Roadmap.Stages))
	}

	p.record(TaskGenerateRoadmap, outcome, runCounts{merged: len(out.Roadmap.Stages)}, started)
	return &models.RoadmapResponse{Outcome: outcome, Roadmap: out.Roadmap}, nil
}

func checkStageNumbers(stages []models.RoadmapStage) error {
	for i, stage := range stages {
		if stage.StageNumber != i+1 {
			return fmt.Errorf("%w: stage %d is numbered %d", models.ErrSchemaViolation, i+1, stage.StageNumber)
		}
	}
	return nil
}

// enrichStages looks up videos for every stage concurrently. Each stage
// degrades on its own; the first degraded outcome is reported.
func (p *Pipeline) enrichStages(ctx context.Context, stages []models.RoadmapStage) models.Outcome {
	outcomes := make([]models.Outcome, len(stages))
	g, gctx := errgroup.WithContext(ctx)
	for i := range stages {
		g.Go(func() error {
			videos, outcome := p.fetchVideos(gctx, models.VideoSearchRequest{
				Query:      stages[i].YouTubeSearchQuery,
				MaxResults: roadmapVideosPerStage,
			})
			stages[i].Videos = videos
			outcomes[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.log.Warn("roadmap enrichment interrupted", "error", err)
	}

	merged := models.Live()
	for _, outcome := range outcomes {
		merged = merged.Merge(outcome)
	}
	return merged
}

func (p *Pipeline) SearchProjects(ctx context.Context, req models.ProjectSearchRequest) (*models.CandidateSet[models.Project], error) {
	if err := p.validator.ValidateInput(req); err != nil {
		return nil, err
	}
	fetchCtx, cancel := p.withTimeout(ctx, p.opts.UpstreamTimeout)
	defer cancel()

	resp := &models.CandidateSet[models.Project]{Outcome: models.Live()}
	err := fmt.Errorf("%w: project source not configured", models.ErrUpstreamUnavailable)
	if p.projects != nil {
		resp.Items, err = p.projects.SearchProjects(fetchCtx, req)
	}
	if err != nil {
		resp.Outcome = p.degrade(TaskRecommendProjects, "project search", err)
		resp.Items = p.fallback.Projects(req)
	}
	return resp, nil
}

func (p *Pipeline) RecommendProjects(ctx context.Context, req models.ProjectRecommendationRequest) (*models.ProjectRecommendationResponse, error) {
	started := time.Now()
	if err := p.validator.ValidateInput(req); err != nil {
		return nil, err
	}
	prompt, err := p.prompts.BuildProjectRecommendationPrompt(req)
	if err != nil {
		return nil, err
	}
	spec, err := LookupTask(TaskRecommendProjects)
	if err != nil {
		return nil, err
	}

	resp := &models.ProjectRecommendationResponse{Outcome: models.Live()}
	var out models.ProjectRecommendationOutput
	if err := p.generate(ctx, spec, prompt, SchemaOptions{}, &out); err != nil {
		resp.Outcome = p.degrade(TaskRecommendProjects, "generation", err)
		out.Projects = p.fallback.ProjectIdeas(req)
	}
	resp.Projects = out.Projects

	p.record(TaskRecommendProjects, resp.Outcome, runCounts{merged: len(resp.Projects)}, started)
	return resp, nil
}

func (p *Pipeline) GenerateCareerPath(ctx context.Context, req models.CareerPathRequest) (*models.CareerPathResponse, error) {
	started := time.Now()
	if err := p.validator.ValidateInput(req); err != nil {
		return nil, err
	}
	prompt, err := p.prompts.BuildCareerPathPrompt(req)
	if err != nil {
		return nil, err
	}
	spec, err := LookupTask(TaskCareerPath)
	if err != nil {
		return nil, err
	}

	resp := &models.CareerPathResponse{Outcome: models.Live()}
	if err := p.generate(ctx, spec, prompt, SchemaOptions{}, &resp.CareerPath); err != nil {
		resp.Outcome = p.degrade(TaskCareerPath, "generation", err)
		resp.CareerPath = p.fallback.CareerPath(req)
	}

	p.record(TaskCareerPath, resp.Outcome, runCounts{}, started)
	return resp, nil
}

func (p *Pipeline) CareerAdvice(ctx context.Context, req models.CareerAdviceRequest) (*models.CareerAdviceResponse, error) {
	started := time.Now()
	if err := p.validator.ValidateInput(req); err != nil {
		return nil, err
	}
	prompt, err := p.prompts.BuildCareerAdvicePrompt(req)
	if err != nil {
		return nil, err
	}
	spec, err := LookupTask(TaskCareerAdvice)
	if err != nil {
		return nil, err
	}

	resp := &models.CareerAdviceResponse{Outcome: models.Live()}
	if err := p.generate(ctx, spec, prompt, SchemaOptions{}, &resp.CareerAdvice); err != nil {
		resp.Outcome = p.degrade(TaskCareerAdvice, "generation", err)
		resp.CareerAdvice = p.fallback.CareerAdvice(req)
	}

	p.record(TaskCareerAdvice, resp.Outcome, runCounts{}, started)
	return resp, nil
}

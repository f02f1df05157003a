package services

import (
	"fmt"

	"google.golang.org/genai"

	"alfredoptarigan/skillpilot/internal/models"
)

type Task string

const (
	TaskMatchJobs       Task = "match_jobs"
	TaskMatchCourses    Task = "match_courses"
	TaskAnalyzeResume   Task = "analyze_resume"
	TaskGenerateQuiz    Task = "generate_quiz"
	TaskScoreQuiz       Task = "score_quiz"
	TaskGenerateRoadmap Task = "generate_roadmap"

	TaskRecommendProjects Task = "recommend_projects"
	TaskCareerPath        Task = "career_path"
	TaskCareerAdvice      Task = "career_advice"
)

// SchemaOptions parameterizes the output schema of a task for one run.
type SchemaOptions struct {
	Mode CorrelationMode
	// ItemCount fixes the length of the output list when it is known.
	ItemCount int
}

// TaskSpec is the per-task configuration record resolved from the task table.
type TaskSpec struct {
	Task        Task
	TemplateID  string
	Temperature float32
	schema      func(SchemaOptions) *genai.Schema
}

func (s TaskSpec) OutputSchema(opts SchemaOptions) *genai.Schema {
	return s.schema(opts)
}

var taskTable = map[Task]TaskSpec{
	TaskMatchJobs:       {Task: TaskMatchJobs, TemplateID: "match_jobs", Temperature: 0.3, schema: jobMatchSchema},
	TaskMatchCourses:    {Task: TaskMatchCourses, TemplateID: "match_courses", Temperature: 0.3, schema: courseMatchSchema},
	TaskAnalyzeResume:   {Task: TaskAnalyzeResume, TemplateID: "analyze_resume", Temperature: 0.3, schema: resumeAnalysisSchema},
	TaskGenerateQuiz:    {Task: TaskGenerateQuiz, TemplateID: "generate_quiz", Temperature: 0.7, schema: quizSchema},
	TaskScoreQuiz:       {Task: TaskScoreQuiz, TemplateID: "score_quiz", Temperature: 0.5, schema: feedbackSchema},
	TaskGenerateRoadmap: {Task: TaskGenerateRoadmap, TemplateID: "generate_roadmap", Temperature: 0.5, schema: roadmapSchema},

	TaskRecommendProjects: {Task: TaskRecommendProjects, TemplateID: "recommend_projects", Temperature: 0.7, schema: projectIdeasSchema},
	TaskCareerPath:        {Task: TaskCareerPath, TemplateID: "career_path", Temperature: 0.5, schema: careerPathSchema},
	TaskCareerAdvice:      {Task: TaskCareerAdvice, TemplateID: "career_advice", Temperature: 0.7, schema: careerAdviceSchema},
}

func LookupTask(task Task) (TaskSpec, error) {
	spec, ok := taskTable[task]
	if !ok {
		return TaskSpec{}, fmt.Errorf("%w: unknown task %q", models.ErrInvalidInput, task)
	}
	return spec, nil
}

func stringSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString}
}

func stringList() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: stringSchema()}
}

func enumSchema(values ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Format: "enum", Enum: values}
}

func scoreSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeNumber, Minimum: genai.Ptr(0.0), Maximum: genai.Ptr(100.0)}
}

func objectSchema(properties map[string]*genai.Schema, order ...string) *genai.Schema {
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       properties,
		Required:         order,
		PropertyOrdering: order,
	}
}

func fixedList(items *genai.Schema, count int) *genai.Schema {
	list := &genai.Schema{Type: genai.TypeArray, Items: items}
	if count > 0 {
		list.MinItems = genai.Ptr(int64(count))
		list.MaxItems = genai.Ptr(int64(count))
	}
	return list
}

// annotationSchema adds the identifier property only when correlating by id,
// so the positional variant never asks the model to echo ids back.
func annotationSchema(idField string, opts SchemaOptions, properties map[string]*genai.Schema, order []string) *genai.Schema {
	if opts.Mode != CorrelationPositional {
		properties[idField] = stringSchema()
		order = append([]string{idField}, order...)
	}
	return objectSchema(properties, order...)
}

func jobMatchSchema(opts SchemaOptions) *genai.Schema {
	item := annotationSchema("job_id", opts, map[string]*genai.Schema{
		"match_score":    scoreSchema(),
		"match_reason":   stringSchema(),
		"matched_skills": stringList(),
		"missing_skills": stringList(),
	}, []string{"match_score", "match_reason", "matched_skills", "missing_skills"})

	return objectSchema(map[string]*genai.Schema{
		"matched_jobs": fixedList(item, opts.ItemCount),
	}, "matched_jobs")
}

func courseMatchSchema(opts SchemaOptions) *genai.Schema {
	item := annotationSchema("course_id", opts, map[string]*genai.Schema{
		"match_score":     scoreSchema(),
		"match_reason":    stringSchema(),
		"relevant_skills": stringList(),
		"learning_path":   stringSchema(),
		"difficulty":      enumSchema("beginner", "intermediate", "advanced"),
		"priority":        enumSchema("high", "medium", "low"),
	}, []string{"match_score", "match_reason", "relevant_skills", "learning_path", "difficulty", "priority"})

	return objectSchema(map[string]*genai.Schema{
		"matched_courses": fixedList(item, opts.ItemCount),
	}, "matched_courses")
}

func resumeAnalysisSchema(SchemaOptions) *genai.Schema {
	categories := objectSchema(map[string]*genai.Schema{
		"frontend": scoreSchema(),
		"backend":  scoreSchema(),
		"ai_ml":    scoreSchema(),
		"design":   scoreSchema(),
		"devops":   scoreSchema(),
	}, "frontend", "backend", "ai_ml", "design", "devops")

	return objectSchema(map[string]*genai.Schema{
		"overall_skill_index": scoreSchema(),
		"category_scores":     categories,
		"strengths":           stringList(),
		"weaknesses":          stringList(),
		"summary":             stringSchema(),
	}, "overall_skill_index", "category_scores", "strengths", "weaknesses", "summary")
}

func quizSchema(opts SchemaOptions) *genai.Schema {
	question := objectSchema(map[string]*genai.Schema{
		"id":       {Type: genai.TypeInteger},
		"question": stringSchema(),
		"options":  fixedList(stringSchema(), models.QuizOptionCount),
		"correct_answer": {
			Type:    genai.TypeInteger,
			Minimum: genai.Ptr(0.0),
			Maximum: genai.Ptr(float64(models.QuizOptionCount - 1)),
		},
		"explanation": stringSchema(),
		"category":    stringSchema(),
	}, "id", "question", "options", "correct_answer", "explanation", "category")

	return objectSchema(map[string]*genai.Schema{
		"skill":         stringSchema(),
		"difficulty":    stringSchema(),
		"questions":     fixedList(question, opts.ItemCount),
		"passing_score": scoreSchema(),
	}, "skill", "difficulty", "questions", "passing_score")
}

func feedbackSchema(SchemaOptions) *genai.Schema {
	recommendation := objectSchema(map[string]*genai.Schema{
		"topic":     stringSchema(),
		"reason":    stringSchema(),
		"resources": stringList(),
	}, "topic", "reason", "resources")

	return objectSchema(map[string]*genai.Schema{
		"overall_score":   scoreSchema(),
		"level":           enumSchema("beginner", "intermediate", "advanced", "expert"),
		"passed":          {Type: genai.TypeBoolean},
		"strengths":       stringList(),
		"weaknesses":      stringList(),
		"recommendations": {Type: genai.TypeArray, Items: recommendation},
		"next_steps":      stringList(),
	}, "overall_score", "level", "passed", "strengths", "weaknesses", "recommendations", "next_steps")
}

func roadmapSchema(SchemaOptions) *genai.Schema {
	resource := objectSchema(map[string]*genai.Schema{
		"type":        enumSchema("course", "book", "practice", "project"),
		"title":       stringSchema(),
		"description": stringSchema(),
	}, "type", "title", "description")

	stage := objectSchema(map[string]*genai.Schema{
		"stage_number": {
			Type:    genai.TypeInteger,
			Minimum: genai.Ptr(1.0),
			Maximum: genai.Ptr(float64(models.RoadmapStageCount)),
		},
		"title":                stringSchema(),
		"duration":             stringSchema(),
		"objective":            stringSchema(),
		"skills":               stringList(),
		"milestones":           stringList(),
		"resources":            {Type: genai.TypeArray, Items: resource},
		"youtube_search_query": stringSchema(),
	}, "stage_number", "title", "duration", "objective", "skills", "milestones", "resources", "youtube_search_query")

	roadmap := objectSchema(map[string]*genai.Schema{
		"overview":       stringSchema(),
		"total_duration": stringSchema(),
		"stages":         fixedList(stage, models.RoadmapStageCount),
		"next_steps":     stringList(),
	}, "overview", "total_duration", "stages", "next_steps")

	return objectSchema(map[string]*genai.Schema{"roadmap": roadmap}, "roadmap")
}

func projectIdeasSchema(SchemaOptions) *genai.Schema {
	idea := objectSchema(map[string]*genai.Schema{
		"title":           stringSchema(),
		"description":     stringSchema(),
		"difficulty":      enumSchema(models.ProjectBeginner, models.ProjectIntermediate, models.ProjectAdvanced),
		"skills_required": stringList(),
		"estimated_time":  stringSchema(),
	}, "title", "description", "difficulty", "skills_required", "estimated_time")

	return objectSchema(map[string]*genai.Schema{
		"projects": {Type: genai.TypeArray, Items: idea, MinItems: genai.Ptr(int64(1))},
	}, "projects")
}

func careerPathSchema(SchemaOptions) *genai.Schema {
	return objectSchema(map[string]*genai.Schema{
		"career_path":            stringSchema(),
		"course_recommendations": stringSchema(),
	}, "career_path", "course_recommendations")
}

func careerAdviceSchema(SchemaOptions) *genai.Schema {
	return objectSchema(map[string]*genai.Schema{"response": stringSchema()}, "response")
}

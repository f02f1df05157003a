package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/skillpilot/internal/models"
)

func TestLookupTask_UnknownTask(t *testing.T) {
	_, err := LookupTask(Task("write_poem"))
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestLookupTask_EveryTaskHasSchema(t *testing.T) {
	for _, task := range []Task{
		TaskMatchJobs, TaskMatchCourses, TaskAnalyzeResume, TaskGenerateQuiz, TaskScoreQuiz, TaskGenerateRoadmap,
		TaskRecommendProjects, TaskCareerPath, TaskCareerAdvice,
	} {
		spec, err := LookupTask(task)
		require.NoError(t, err, task)
		assert.Equal(t, task, spec.Task)
		assert.NotEmpty(t, spec.TemplateID)
		assert.NotNil(t, spec.OutputSchema(SchemaOptions{}), task)
	}
}

func TestTaskTemperatures(t *testing.T) {
	match, _ := LookupTask(TaskMatchJobs)
	quiz, _ := LookupTask(TaskGenerateQuiz)
	feedback, _ := LookupTask(TaskScoreQuiz)

	assert.InDelta(t, 0.3, match.Temperature, 1e-6)
	assert.InDelta(t, 0.7, quiz.Temperature, 1e-6)
	assert.InDelta(t, 0.5, feedback.Temperature, 1e-6)
}

func TestJobMatchSchema_IdentifierRequiresJobID(t *testing.T) {
	spec, _ := LookupTask(TaskMatchJobs)
	schema := spec.OutputSchema(SchemaOptions{Mode: CorrelationIdentifier, ItemCount: 3})

	list := schema.Properties["matched_jobs"]
	require.NotNil(t, list)
	require.NotNil(t, list.MinItems)
	require.NotNil(t, list.MaxItems)
	assert.Equal(t, int64(3), *list.MinItems)
	assert.Equal(t, int64(3), *list.MaxItems)

	item := list.Items
	assert.Contains(t, item.Properties, "job_id")
	assert.Equal(t, "job_id", item.Required[0])

	score := item.Properties["match_score"]
	require.NotNil(t, score.Minimum)
	require.NotNil(t, score.Maximum)
	assert.Equal(t, 0.0, *score.Minimum)
	assert.Equal(t, 100.0, *score.Maximum)
}

func TestJobMatchSchema_PositionalOmitsJobID(t *testing.T) {
	spec, _ := LookupTask(TaskMatchJobs)
	item := spec.OutputSchema(SchemaOptions{Mode: CorrelationPositional}).Properties["matched_jobs"].Items

	assert.NotContains(t, item.Properties, "job_id")
	assert.NotContains(t, item.Required, "job_id")
}

func TestCourseMatchSchema_EnumsAndID(t *testing.T) {
	spec, _ := LookupTask(TaskMatchCourses)
	item := spec.OutputSchema(SchemaOptions{Mode: CorrelationIdentifier}).Properties["matched_courses"].Items

	assert.Contains(t, item.Properties, "course_id")
	assert.Equal(t, []string{"beginner", "intermediate", "advanced"}, item.Properties["difficulty"].Enum)
	assert.Equal(t, []string{"high", "medium", "low"}, item.Properties["priority"].Enum)
}

func TestQuizSchema_FixedCounts(t *testing.T) {
	spec, _ := LookupTask(TaskGenerateQuiz)
	questions := spec.OutputSchema(SchemaOptions{ItemCount: 12}).Properties["questions"]

	require.NotNil(t, questions.MinItems)
	assert.Equal(t, int64(12), *questions.MinItems)

	options := questions.Items.Properties["options"]
	require.NotNil(t, options.MaxItems)
	assert.Equal(t, int64(models.QuizOptionCount), *options.MaxItems)

	unbounded := spec.OutputSchema(SchemaOptions{}).Properties["questions"]
	assert.Nil(t, unbounded.MinItems)
}

func TestRoadmapSchema_ThreeStages(t *testing.T) {
	spec, _ := LookupTask(TaskGenerateRoadmap)
	stages := spec.OutputSchema(SchemaOptions{}).Properties["roadmap"].Properties["stages"]

	require.NotNil(t, stages.MinItems)
	assert.Equal(t, int64(models.RoadmapStageCount), *stages.MinItems)
	assert.Contains(t, stages.Items.Required, "youtube_search_query")
}

func TestProjectIdeasSchema_DifficultyEnum(t *testing.T) {
	spec, _ := LookupTask(TaskRecommendProjects)
	schema := spec.OutputSchema(SchemaOptions{})

	list := schema.Properties["projects"]
	require.NotNil(t, list)
	require.NotNil(t, list.MinItems)
	assert.Equal(t, int64(1), *list.MinItems)
	assert.Nil(t, list.MaxItems)

	difficulty := list.Items.Properties["difficulty"]
	assert.Equal(t, []string{"Beginner", "Intermediate", "Advanced"}, difficulty.Enum)
	assert.ElementsMatch(t, []string{"title", "description", "difficulty", "skills_required", "estimated_time"}, list.Items.Required)
}

func TestCareerSchemas_RequireEveryField(t *testing.T) {
	path, _ := LookupTask(TaskCareerPath)
	assert.Equal(t, []string{"career_path", "course_recommendations"}, path.OutputSchema(SchemaOptions{}).Required)

	advice, _ := LookupTask(TaskCareerAdvice)
	assert.Equal(t, []string{"response"}, advice.OutputSchema(SchemaOptions{}).Required)
}

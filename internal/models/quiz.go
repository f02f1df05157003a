package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

type SkillLevel string

const (
	LevelBeginner     SkillLevel = "beginner"
	LevelIntermediate SkillLevel = "intermediate"
	LevelAdvanced     SkillLevel = "advanced"
	LevelExpert       SkillLevel = "expert"
)

const QuizOptionCount = 4

type QuizQuestion struct {
	ID            int      `json:"id"`
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"len=4,dive,required"`
	CorrectAnswer int      `json:"correct_answer" validate:"gte=0,lte=3"`
	Explanation   string   `json:"explanation" validate:"required"`
	Category      string   `json:"category" validate:"required"`
}

// QuizOutput is the structured reply of the quiz generation task.
type QuizOutput struct {
	Skill        string         `json:"skill"`
	Difficulty   string         `json:"difficulty"`
	Questions    []QuizQuestion `json:"questions" validate:"min=1,dive"`
	PassingScore float64        `json:"passing_score" validate:"gte=0,lte=100"`
}

// QuizSession is an ordered sequence of questions plus the answers recorded
// so far. Answers are appended in question order and the session is frozen
// once every question has an answer.
type QuizSession struct {
	ID           uuid.UUID      `json:"id"`
	Skill        string         `json:"skill" validate:"required"`
	Difficulty   Difficulty     `json:"difficulty" validate:"oneof=beginner intermediate advanced"`
	Questions    []QuizQuestion `json:"questions" validate:"min=1,dive"`
	Answers      []int          `json:"answers" validate:"dive,gte=0,lte=3"`
	PassingScore int            `json:"passing_score"`
	CreatedAt    time.Time      `json:"created_at"`
}

func NewQuizSession(skill string, difficulty Difficulty, questions []QuizQuestion, passingScore int) *QuizSession {
	return &QuizSession{
		ID:           uuid.New(),
		Skill:        skill,
		Difficulty:   difficulty,
		Questions:    questions,
		Answers:      make([]int, 0, len(questions)),
		PassingScore: passingScore,
		CreatedAt:    time.Now(),
	}
}

// RecordAnswer appends the selected option for the question at index.
// Answers must arrive in order, one per question.
func (s *QuizSession) RecordAnswer(index, option int) error {
	if s.IsComplete() {
		return fmt.Errorf("%w: session %s is already complete", ErrInvalidInput, s.ID)
	}
	if index != len(s.Answers) {
		return fmt.Errorf("%w: expected answer for question %d, got %d", ErrInvalidInput, len(s.Answers), index)
	}
	if option < 0 || option >= QuizOptionCount {
		return fmt.Errorf("%w: option %d out of range", ErrInvalidInput, option)
	}
	s.Answers = append(s.Answers, option)
	return nil
}

func (s *QuizSession) IsComplete() bool {
	return len(s.Answers) >= len(s.Questions)
}

type Recommendation struct {
	Topic     string   `json:"topic" validate:"required"`
	Reason    string   `json:"reason"`
	Resources []string `json:"resources"`
}

// AssessmentFeedback is the structured reply of the feedback task.
type AssessmentFeedback struct {
	OverallScore    float64          `json:"overall_score" validate:"gte=0,lte=100"`
	Level           SkillLevel       `json:"level" validate:"oneof=beginner intermediate advanced expert"`
	Passed          bool             `json:"passed"`
	Strengths       []string         `json:"strengths"`
	Weaknesses      []string         `json:"weaknesses"`
	Recommendations []Recommendation `json:"recommendations" validate:"dive"`
	NextSteps       []string         `json:"next_steps"`
}

// AssessmentInput is what the feedback task is rendered from.
type AssessmentInput struct {
	Skill               string     `json:"skill" validate:"required"`
	Difficulty          Difficulty `json:"difficulty" validate:"oneof=beginner intermediate advanced"`
	TotalQuestions      int        `json:"total_questions" validate:"gte=1"`
	CorrectAnswers      int        `json:"correct_answers" validate:"gte=0,ltefield=TotalQuestions"`
	IncorrectCategories []string   `json:"incorrect_categories"`
}

// AssessmentResult is derived once from a completed session and never mutated.
type AssessmentResult struct {
	Outcome
	Skill           string           `json:"skill"`
	Difficulty      Difficulty       `json:"difficulty"`
	CorrectAnswers  int              `json:"correct_answers"`
	TotalQuestions  int              `json:"total_questions"`
	Percentage      int              `json:"percentage"`
	Threshold       int              `json:"threshold"`
	Passed          bool             `json:"passed"`
	Level           SkillLevel       `json:"level"`
	WeakAreas       []string         `json:"weak_areas"`
	Strengths       []string         `json:"strengths"`
	Weaknesses      []string         `json:"weaknesses"`
	Recommendations []Recommendation `json:"recommendations"`
	NextSteps       []string         `json:"next_steps"`
}

type QuizSessionResponse struct {
	Outcome
	Session *QuizSession `json:"session"`
}

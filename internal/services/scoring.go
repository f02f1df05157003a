package services

import (
	"fmt"
	"math"
	"strings"

	"alfredoptarigan/skillpilot/internal/models"
)

// PriorityFor buckets a match score: high >= 80, medium >= 60, low otherwise.
func PriorityFor(score float64) models.Priority {
	switch {
	case score >= 80:
		return models.PriorityHigh
	case score >= 60:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

// ApplyPriority sets each result's priority from the annotation's own bucket
// when it supplies one, from its score otherwise.
func ApplyPriority[C models.Candidate, A models.Annotation](results []models.MergedResult[C, A], own func(A) models.Priority) {
	for i := range results {
		if own != nil {
			if p := own(results[i].Annotation); p != "" {
				results[i].Priority = p
				continue
			}
		}
		results[i].Priority = PriorityFor(results[i].Score())
	}
}

var passThresholds = map[models.Difficulty]int{
	models.DifficultyBeginner:     70,
	models.DifficultyIntermediate: 75,
	models.DifficultyAdvanced:     80,
}

func PassThreshold(difficulty models.Difficulty) (int, error) {
	threshold, ok := passThresholds[difficulty]
	if !ok {
		return 0, fmt.Errorf("%w: unknown difficulty %q", models.ErrInvalidInput, difficulty)
	}
	return threshold, nil
}

type QuizScore struct {
	Percentage int
	Threshold  int
	Passed     bool
}

// ScoreQuiz computes round(100*correct/total) and compares it to the
// threshold for difficulty.
func ScoreQuiz(correct, total int, difficulty models.Difficulty) (QuizScore, error) {
	if total <= 0 {
		return QuizScore{}, fmt.Errorf("%w: total questions must be positive", models.ErrInvalidInput)
	}
	if correct < 0 || correct > total {
		return QuizScore{}, fmt.Errorf("%w: correct answers %d outside [0,%d]", models.ErrInvalidInput, correct, total)
	}
	threshold, err := PassThreshold(difficulty)
	if err != nil {
		return QuizScore{}, err
	}

	percentage := int(math.Round(100 * float64(correct) / float64(total)))
	return QuizScore{
		Percentage: percentage,
		Threshold:  threshold,
		Passed:     percentage >= threshold,
	}, nil
}

// CheckIncorrectCategories rejects input naming more incorrect categories
// than there are incorrect answers.
func CheckIncorrectCategories(input models.AssessmentInput) error {
	incorrect := input.TotalQuestions - input.CorrectAnswers
	if len(input.IncorrectCategories) > incorrect {
		return fmt.Errorf("%w: %d incorrect categories for %d incorrect answers",
			models.ErrInvalidInput, len(input.IncorrectCategories), incorrect)
	}
	return nil
}

// LevelFor is the local skill level used when no model feedback is available.
func LevelFor(percentage int) models.SkillLevel {
	switch {
	case percentage >= 90:
		return models.LevelExpert
	case percentage >= 75:
		return models.LevelAdvanced
	case percentage >= 50:
		return models.LevelIntermediate
	default:
		return models.LevelBeginner
	}
}

// WeakAreas collapses the given categories to a set, keeping first-seen order.
func WeakAreas(categories []string) []string {
	seen := make(map[string]struct{}, len(categories))
	out := make([]string, 0, len(categories))
	for _, category := range categories {
		category = strings.TrimSpace(category)
		if category == "" {
			continue
		}
		key := strings.ToLower(category)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, category)
	}
	return out
}

// SessionInput derives assessment input from a completed session: the
// correct count and the categories of every incorrectly answered question.
func SessionInput(session *models.QuizSession) (models.AssessmentInput, error) {
	if session == nil || len(session.Questions) == 0 {
		return models.AssessmentInput{}, fmt.Errorf("%w: session has no questions", models.ErrInvalidInput)
	}
	if !session.IsComplete() || len(session.Answers) != len(session.Questions) {
		return models.AssessmentInput{}, fmt.Errorf("%w: session %s has %d of %d answers",
			models.ErrInvalidInput, session.ID, len(session.Answers), len(session.Questions))
	}

	input := models.AssessmentInput{
		Skill:          session.Skill,
		Difficulty:     session.Difficulty,
		TotalQuestions: len(session.Questions),
	}
	for i, question := range session.Questions {
		if session.Answers[i] == question.CorrectAnswer {
			input.CorrectAnswers++
			continue
		}
		input.IncorrectCategories = append(input.IncorrectCategories, question.Category)
	}
	return input, nil
}

// ReconcileFeedback overwrites the model's score and pass flag with the
// locally computed values and reports what it changed.
func ReconcileFeedback(feedback *models.AssessmentFeedback, score QuizScore) []string {
	var corrections []string
	if int(math.Round(feedback.OverallScore)) != score.Percentage {
		corrections = append(corrections, fmt.Sprintf("overall_score %.0f -> %d", feedback.OverallScore, score.Percentage))
	}
	if feedback.Passed != score.Passed {
		corrections = append(corrections, fmt.Sprintf("passed %t -> %t", feedback.Passed, score.Passed))
	}
	feedback.OverallScore = float64(score.Percentage)
	feedback.Passed = score.Passed
	return corrections
}

package models

// Annotation is the model's judgment about one candidate. It is untrusted
// until the generation client has validated it against the output schema.
type Annotation interface {
	AnnotationID() string
	AnnotationScore() float64
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type JobAnnotation struct {
	JobID         string   `json:"job_id,omitempty"`
	MatchScore    float64  `json:"match_score" validate:"gte=0,lte=100"`
	MatchReason   string   `json:"match_reason" validate:"required"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
}

func (a JobAnnotation) AnnotationID() string     { return a.JobID }
func (a JobAnnotation) AnnotationScore() float64 { return a.MatchScore }

type CourseAnnotation struct {
	CourseID       string   `json:"course_id,omitempty"`
	MatchScore     float64  `json:"match_score" validate:"gte=0,lte=100"`
	MatchReason    string   `json:"match_reason" validate:"required"`
	RelevantSkills []string `json:"relevant_skills"`
	LearningPath   string   `json:"learning_path"`
	Difficulty     string   `json:"difficulty" validate:"oneof=beginner intermediate advanced"`
	Priority       Priority `json:"priority,omitempty" validate:"omitempty,oneof=high medium low"`
}

func (a CourseAnnotation) AnnotationID() string     { return a.CourseID }
func (a CourseAnnotation) AnnotationScore() float64 { return a.MatchScore }

type JobMatchOutput struct {
	MatchedJobs []JobAnnotation `json:"matched_jobs" validate:"dive"`
}

type CourseMatchOutput struct {
	MatchedCourses []CourseAnnotation `json:"matched_courses" validate:"dive"`
}

package models

type JobMatchRequest struct {
	UserSkills     []string `json:"user_skills" validate:"required,min=1,dive,required"`
	UserExperience string   `json:"user_experience,omitempty"`
	UserInterests  []string `json:"user_interests,omitempty"`
	Jobs           []Job    `json:"jobs" validate:"required,min=1,dive"`
}

func (r JobMatchRequest) Profile() UserProfile {
	return UserProfile{
		Skills:          r.UserSkills,
		ExperienceLevel: r.UserExperience,
		Interests:       r.UserInterests,
	}
}

type CourseMatchRequest struct {
	UserSkills   []string `json:"user_skills" validate:"required,min=1,dive,required"`
	TargetSkills []string `json:"target_skills,omitempty"`
	CareerGoal   string   `json:"career_goal,omitempty"`
	Courses      []Course `json:"courses" validate:"required,min=1,dive"`
}

func (r CourseMatchRequest) Profile() UserProfile {
	return UserProfile{
		Skills:       r.UserSkills,
		TargetSkills: r.TargetSkills,
		CareerGoal:   r.CareerGoal,
	}
}

type JobSearchRequest struct {
	Query    string `json:"query" validate:"required"`
	Location string `json:"location,omitempty"`
	NumPages int    `json:"num_pages,omitempty" validate:"omitempty,gte=1,lte=5"`
}

type CourseSearchRequest struct {
	Query string `json:"query" validate:"required"`
	Limit int    `json:"limit,omitempty" validate:"omitempty,gte=1,lte=50"`
}

type VideoSearchRequest struct {
	Query      string `json:"query" validate:"required"`
	MaxResults int    `json:"max_results,omitempty" validate:"omitempty,gte=1,lte=25"`
}

type JobSearchAndMatchRequest struct {
	JobSearchRequest
	UserSkills     []string `json:"user_skills" validate:"required,min=1,dive,required"`
	UserExperience string   `json:"user_experience,omitempty"`
	UserInterests  []string `json:"user_interests,omitempty"`
}

type CourseSearchAndMatchRequest struct {
	CourseSearchRequest
	UserSkills   []string `json:"user_skills" validate:"required,min=1,dive,required"`
	TargetSkills []string `json:"target_skills,omitempty"`
	CareerGoal   string   `json:"career_goal,omitempty"`
}

type ResumeAnalysisRequest struct {
	ResumeText string `json:"resume_text" validate:"required"`
	UserName   string `json:"user_name,omitempty"`
	JobField   string `json:"job_field,omitempty"`
	Skills     string `json:"skills,omitempty"`
}

type QuizGenerateRequest struct {
	Skill         string     `json:"skill" validate:"required"`
	Difficulty    Difficulty `json:"difficulty" validate:"oneof=beginner intermediate advanced"`
	QuestionCount int        `json:"question_count,omitempty" validate:"omitempty,gte=5,lte=20"`
}

// QuizScoreRequest scores either a completed session or bare counts.
type QuizScoreRequest struct {
	Session *QuizSession     `json:"session,omitempty"`
	Counts  *AssessmentInput `json:"counts,omitempty"`
}

type RoadmapRequest struct {
	CurrentSkills []string `json:"current_skills" validate:"required,min=1,dive,required"`
	TargetRole    string   `json:"target_role" validate:"required"`
	Experience    string   `json:"experience,omitempty"`
	Timeframe     string   `json:"timeframe,omitempty"`
	IncludeVideos bool     `json:"include_videos,omitempty"`
}

type ProjectSearchRequest struct {
	Query    string   `json:"query" validate:"required"`
	Language string   `json:"language,omitempty"`
	Topics   []string `json:"topics,omitempty"`
	PerPage  int      `json:"per_page,omitempty" validate:"omitempty,gte=1,lte=30"`
}

type ProjectRecommendationRequest struct {
	Skills            []string `json:"skills" validate:"required,min=1,dive,required"`
	CareerGoals       string   `json:"career_goals" validate:"required"`
	PortfolioProjects []string `json:"portfolio_projects,omitempty"`
}

type CareerPathRequest struct {
	Skills      string `json:"skills" validate:"required"`
	Experience  string `json:"experience" validate:"required"`
	CareerGoals string `json:"career_goals" validate:"required"`
}

type CareerAdviceRequest struct {
	Query string `json:"query" validate:"required,max=4000"`
}

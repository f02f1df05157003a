package models

type CategoryScores struct {
	Frontend float64 `json:"frontend" validate:"gte=0,lte=100"`
	Backend  float64 `json:"backend" validate:"gte=0,lte=100"`
	AIML     float64 `json:"ai_ml" validate:"gte=0,lte=100"`
	Design   float64 `json:"design" validate:"gte=0,lte=100"`
	DevOps   float64 `json:"devops" validate:"gte=0,lte=100"`
}

type ResumeAnalysis struct {
	OverallSkillIndex float64        `json:"overall_skill_index" validate:"gte=0,lte=100"`
	CategoryScores    CategoryScores `json:"category_scores"`
	Strengths         []string       `json:"strengths"`
	Weaknesses        []string       `json:"weaknesses"`
	Summary           string         `json:"summary" validate:"required"`
}

type ResumeAnalysisResponse struct {
	Outcome
	Analysis ResumeAnalysis `json:"analysis"`
}

type ParsedResume struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

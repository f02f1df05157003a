package models

type ProjectOwner struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// Project is an open source repository offered as a reference project.
type Project struct {
	ID          string       `json:"id" validate:"required"`
	Name        string       `json:"name" validate:"required"`
	FullName    string       `json:"full_name"`
	Description string       `json:"description"`
	URL         string       `json:"url"`
	Stars       int64        `json:"stars"`
	Forks       int64        `json:"forks"`
	Language    string       `json:"language"`
	Topics      []string     `json:"topics"`
	OpenIssues  int64        `json:"open_issues"`
	LastUpdated string       `json:"last_updated"`
	Owner       ProjectOwner `json:"owner"`
}

func (p Project) CandidateID() string { return p.ID }

// Project idea difficulties are capitalized, unlike course difficulty.
const (
	ProjectBeginner     = "Beginner"
	ProjectIntermediate = "Intermediate"
	ProjectAdvanced     = "Advanced"
)

type ProjectIdea struct {
	Title          string   `json:"title" validate:"required"`
	Description    string   `json:"description" validate:"required"`
	Difficulty     string   `json:"difficulty" validate:"oneof=Beginner Intermediate Advanced"`
	SkillsRequired []string `json:"skills_required"`
	EstimatedTime  string   `json:"estimated_time"`
}

type ProjectRecommendationOutput struct {
	Projects []ProjectIdea `json:"projects" validate:"required,min=1,dive"`
}

type ProjectRecommendationResponse struct {
	Outcome
	Projects []ProjectIdea `json:"projects"`
}

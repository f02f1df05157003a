package models

const RoadmapStageCount = 3

type RoadmapResource struct {
	Type        string `json:"type" validate:"oneof=course book practice project"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

type RoadmapStage struct {
	StageNumber        int               `json:"stage_number" validate:"gte=1,lte=3"`
	Title              string            `json:"title" validate:"required"`
	Duration           string            `json:"duration"`
	Objective          string            `json:"objective"`
	Skills             []string          `json:"skills"`
	Milestones         []string          `json:"milestones"`
	Resources          []RoadmapResource `json:"resources" validate:"dive"`
	YouTubeSearchQuery string            `json:"youtube_search_query" validate:"required"`
	// Videos is filled by enrichment after generation, never by the model.
	Videos []Video `json:"videos,omitempty"`
}

type Roadmap struct {
	Overview      string         `json:"overview" validate:"required"`
	TotalDuration string         `json:"total_duration"`
	Stages        []RoadmapStage `json:"stages" validate:"len=3,dive"`
	NextSteps     []string       `json:"next_steps"`
}

type RoadmapOutput struct {
	Roadmap Roadmap `json:"roadmap"`
}

type RoadmapResponse struct {
	Outcome
	Roadmap Roadmap `json:"roadmap"`
}

package models

// UserProfile is the caller's view of the learner. Skills are an unordered set.
type UserProfile struct {
	Skills          []string `json:"skills"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
	Interests       []string `json:"interests,omitempty"`
	TargetSkills    []string `json:"target_skills,omitempty"`
	CareerGoal      string   `json:"career_goal,omitempty"`
	Context         string   `json:"context,omitempty"`
}

package models

// Candidate is a canonical record submitted to a matching run. The pipeline
// treats it as opaque apart from its identifier.
type Candidate interface {
	CandidateID() string
}

type Job struct {
	ID             string   `json:"id" validate:"required"`
	Title          string   `json:"title" validate:"required"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	Description    string   `json:"description"`
	Skills         []string `json:"skills"`
	ApplyLink      string   `json:"apply_link"`
	PostedAt       string   `json:"posted_at"`
	EmploymentType string   `json:"employment_type"`
	Salary         string   `json:"salary"`
}

func (j Job) CandidateID() string { return j.ID }

type Course struct {
	ID                   string   `json:"id" validate:"required"`
	Title                string   `json:"title" validate:"required"`
	Description          string   `json:"description"`
	Provider             string   `json:"provider"`
	Skills               []string `json:"skills"`
	Level                string   `json:"level"`
	Rating               float64  `json:"rating"`
	EnrollmentCount      int64    `json:"enrollment_count"`
	ImageURL             string   `json:"image_url"`
	Duration             string   `json:"duration"`
	URL                  string   `json:"url"`
	CertificateAvailable bool     `json:"certificate_available"`
}

func (c Course) CandidateID() string { return c.ID }

type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Thumbnail    string `json:"thumbnail"`
	ChannelTitle string `json:"channel_title"`
	PublishedAt  string `json:"published_at"`
	URL          string `json:"url"`
	Duration     string `json:"duration"`
	ViewCount    int64  `json:"view_count"`
}

func (v Video) CandidateID() string { return v.ID }

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GenerationRun is an audit row for one pipeline invocation. It records
// counts and the degraded tag only; model output is never stored.
type GenerationRun struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Task           string    `gorm:"type:text;not null;index" json:"task"`
	Mode           Mode      `gorm:"type:text;not null" json:"mode"`
	DegradedReason string    `gorm:"type:text" json:"degraded_reason,omitempty"`
	CandidateCount int       `json:"candidate_count"`
	MergedCount    int       `json:"merged_count"`
	UnscoredCount  int       `json:"unscored_count"`
	OrphanCount    int       `json:"orphan_count"`
	LatencyMs      int64     `json:"latency_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

func (GenerationRun) TableName() string {
	return "generation_runs"
}

func (r *GenerationRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

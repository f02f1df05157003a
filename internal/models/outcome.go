package models

// Mode tags every pipeline response so callers can tell synthetic data from
// live model output.
type Mode string

const (
	ModeLive     Mode = "live"
	ModeDegraded Mode = "degraded"
)

type Outcome struct {
	Mode           Mode   `json:"mode"`
	DegradedReason string `json:"degraded_reason,omitempty"`
}

func Live() Outcome {
	return Outcome{Mode: ModeLive}
}

func Degraded(reason string) Outcome {
	return Outcome{Mode: ModeDegraded, DegradedReason: reason}
}

func (o Outcome) IsDegraded() bool {
	return o.Mode == ModeDegraded
}

// Merge keeps the first degraded reason seen across pipeline stages.
func (o Outcome) Merge(other Outcome) Outcome {
	if o.IsDegraded() {
		return o
	}
	return other
}

type MatchResponse[C Candidate, A Annotation] struct {
	Outcome
	Results  []MergedResult[C, A] `json:"results"`
	Unscored []C                  `json:"unscored"`
}

type JobMatchResponse = MatchResponse[Job, JobAnnotation]

type CourseMatchResponse = MatchResponse[Course, CourseAnnotation]

type CandidateSet[C Candidate] struct {
	Outcome
	Items []C `json:"items"`
}

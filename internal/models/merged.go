package models

import (
	"encoding/json"
	"fmt"
)

// MergedResult pairs a canonical candidate with the annotation correlated to
// it. Candidate fields are authoritative: when serialized, an annotation key
// that collides with a candidate key is dropped.
type MergedResult[C Candidate, A Annotation] struct {
	Candidate  C
	Annotation A
	Priority   Priority
	// InputIndex is the candidate's position in the submitted list.
	InputIndex int
}

func (m MergedResult[C, A]) ID() string     { return m.Candidate.CandidateID() }
func (m MergedResult[C, A]) Score() float64 { return m.Annotation.AnnotationScore() }

func (m MergedResult[C, A]) MarshalJSON() ([]byte, error) {
	fields, err := toFieldMap(m.Candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to encode candidate: %w", err)
	}

	annotation, err := toFieldMap(m.Annotation)
	if err != nil {
		return nil, fmt.Errorf("failed to encode annotation: %w", err)
	}

	for key, value := range annotation {
		if _, canonical := fields[key]; canonical {
			continue
		}
		fields[key] = value
	}
	if _, present := fields["priority"]; !present && m.Priority != "" {
		fields["priority"], _ = json.Marshal(m.Priority)
	}

	return json.Marshal(fields)
}

func toFieldMap(v any) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

type MatchedJob = MergedResult[Job, JobAnnotation]

type MatchedCourse = MergedResult[Course, CourseAnnotation]

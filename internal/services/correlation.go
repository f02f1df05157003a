package services

import (
	"fmt"
	"sort"
	"strings"

	"alfredoptarigan/skillpilot/internal/models"
)

type CorrelationMode string

const (
	// CorrelationIdentifier joins annotations to candidates by the echoed id.
	CorrelationIdentifier CorrelationMode = "identifier"
	// CorrelationPositional pairs annotation i with candidate i.
	CorrelationPositional CorrelationMode = "positional"
)

// ParseCorrelationMode defaults to identifier for unknown values.
func ParseCorrelationMode(s string) CorrelationMode {
	if CorrelationMode(strings.ToLower(strings.TrimSpace(s))) == CorrelationPositional {
		return CorrelationPositional
	}
	return CorrelationIdentifier
}

type IssueKind string

const (
	IssueOrphanAnnotation  IssueKind = "orphan_annotation"
	IssueUnscoredCandidate IssueKind = "unscored_candidate"
)

// CorrelationIssue is a partial failure that does not abort the batch.
type CorrelationIssue struct {
	Kind IssueKind
	ID   string
	// Index is the position in the annotation list for orphans and in the
	// candidate list for unscored candidates.
	Index int
}

type Correlation[C models.Candidate, A models.Annotation] struct {
	Results  []models.MergedResult[C, A]
	Unscored []C
	Issues   []CorrelationIssue
}

func (c *Correlation[C, A]) Orphans() int {
	n := 0
	for _, issue := range c.Issues {
		if issue.Kind == IssueOrphanAnnotation {
			n++
		}
	}
	return n
}

// CorrelationStrategy reconciles model annotations with the caller's
// canonical candidates. Results are sorted by score descending with input
// order kept between ties.
type CorrelationStrategy[C models.Candidate, A models.Annotation] interface {
	Mode() CorrelationMode
	Correlate(candidates []C, annotations []A) (*Correlation[C, A], error)
}

func NewCorrelationStrategy[C models.Candidate, A models.Annotation](mode CorrelationMode) CorrelationStrategy[C, A] {
	if mode == CorrelationPositional {
		return PositionalStrategy[C, A]{}
	}
	return IdentifierStrategy[C, A]{}
}

type IdentifierStrategy[C models.Candidate, A models.Annotation] struct{}

func (IdentifierStrategy[C, A]) Mode() CorrelationMode { return CorrelationIdentifier }

func (IdentifierStrategy[C, A]) Correlate(candidates []C, annotations []A) (*Correlation[C, A], error) {
	index, err := indexCandidates(candidates)
	if err != nil {
		return nil, err
	}

	out := &Correlation[C, A]{}
	matched := make(map[int]A, len(annotations))
	for i, annotation := range annotations {
		id := annotation.AnnotationID()
		pos, known := index[id]
		if !known {
			out.Issues = append(out.Issues, CorrelationIssue{Kind: IssueOrphanAnnotation, ID: id, Index: i})
			continue
		}
		// A second annotation for the same candidate is an orphan; the first wins.
		if _, dup := matched[pos]; dup {
			out.Issues = append(out.Issues, CorrelationIssue{Kind: IssueOrphanAnnotation, ID: id, Index: i})
			continue
		}
		matched[pos] = annotation
	}

	for pos, candidate := range candidates {
		annotation, ok := matched[pos]
		if !ok {
			out.Unscored = append(out.Unscored, candidate)
			out.Issues = append(out.Issues, CorrelationIssue{Kind: IssueUnscoredCandidate, ID: candidate.CandidateID(), Index: pos})
			continue
		}
		out.Results = append(out.Results, models.MergedResult[C, A]{
			Candidate:  candidate,
			Annotation: annotation,
			InputIndex: pos,
		})
	}

	sortByScore(out.Results)
	return out, nil
}

type PositionalStrategy[C models.Candidate, A models.Annotation] struct{}

func (PositionalStrategy[C, A]) Mode() CorrelationMode { return CorrelationPositional }

// Correlate requires equal counts before pairing. An annotation that does
// carry an id must agree with the candidate at its position.
func (PositionalStrategy[C, A]) Correlate(candidates []C, annotations []A) (*Correlation[C, A], error) {
	if _, err := indexCandidates(candidates); err != nil {
		return nil, err
	}
	if len(annotations) != len(candidates) {
		return nil, fmt.Errorf("%w: %d annotations for %d candidates", models.ErrCorrelationFailure, len(annotations), len(candidates))
	}

	out := &Correlation[C, A]{Results: make([]models.MergedResult[C, A], 0, len(candidates))}
	for i, candidate := range candidates {
		annotation := annotations[i]
		if id := annotation.AnnotationID(); id != "" && id != candidate.CandidateID() {
			return nil, fmt.Errorf("%w: annotation %d references %q but candidate is %q",
				models.ErrCorrelationFailure, i, id, candidate.CandidateID())
		}
		out.Results = append(out.Results, models.MergedResult[C, A]{
			Candidate:  candidate,
			Annotation: annotation,
			InputIndex: i,
		})
	}

	sortByScore(out.Results)
	return out, nil
}

func indexCandidates[C models.Candidate](candidates []C) (map[string]int, error) {
	index := make(map[string]int, len(candidates))
	for i, candidate := range candidates {
		id := candidate.CandidateID()
		if id == "" {
			return nil, fmt.Errorf("%w: candidate %d has no id", models.ErrInvalidInput, i)
		}
		if prev, dup := index[id]; dup {
			return nil, fmt.Errorf("%w: candidates %d and %d share id %q", models.ErrInvalidInput, prev, i, id)
		}
		index[id] = i
	}
	return index, nil
}

func sortByScore[C models.Candidate, A models.Annotation](results []models.MergedResult[C, A]) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score() > results[j].Score()
	})
}

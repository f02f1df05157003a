package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/skillpilot/internal/models"
)

func jobsWithIDs(ids ...string) []models.Job {
	jobs := make([]models.Job, 0, len(ids))
	for _, id := range ids {
		jobs = append(jobs, models.Job{
			ID:          id,
			Title:       "Title " + id,
			Company:     "Company " + id,
			Location:    "Remote",
			Description: "Description " + id,
			Skills:      []string{"Go"},
			ApplyLink:   "https://example.com/" + id,
		})
	}
	return jobs
}

func annotate(id string, score float64) models.JobAnnotation {
	return models.JobAnnotation{JobID: id, MatchScore: score, MatchReason: "reason " + id}
}

func resultIDs[C models.Candidate, A models.Annotation](results []models.MergedResult[C, A]) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID())
	}
	return ids
}

func TestIdentifierStrategy_MissingAnnotationIsUnscored(t *testing.T) {
	candidates := jobsWithIDs("a", "b", "c")
	annotations := []models.JobAnnotation{annotate("c", 70), annotate("a", 85)}

	got, err := IdentifierStrategy[models.Job, models.JobAnnotation]{}.Correlate(candidates, annotations)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "c"}, resultIDs(got.Results))
	assert.Equal(t, 85.0, got.Results[0].Score())
	assert.Equal(t, 70.0, got.Results[1].Score())

	require.Len(t, got.Unscored, 1)
	assert.Equal(t, "b", got.Unscored[0].ID)
	assert.Equal(t, []CorrelationIssue{{Kind: IssueUnscoredCandidate, ID: "b", Index: 1}}, got.Issues)
	assert.NotContains(t, resultIDs(got.Results), "b")
}

func TestIdentifierStrategy_PreservesCanonicalFields(t *testing.T) {
	candidates := jobsWithIDs("a", "b")
	annotations := []models.JobAnnotation{annotate("b", 40), annotate("a", 60)}

	got, err := IdentifierStrategy[models.Job, models.JobAnnotation]{}.Correlate(candidates, annotations)
	require.NoError(t, err)
	require.Len(t, got.Results, 2)

	byID := map[string]models.Job{"a": candidates[0], "b": candidates[1]}
	for _, r := range got.Results {
		assert.Equal(t, byID[r.ID()], r.Candidate)
		assert.Equal(t, r.ID(), r.Annotation.JobID)
	}
	assert.Equal(t, 0, got.Results[0].InputIndex)
	assert.Equal(t, 1, got.Results[1].InputIndex)
}

func TestIdentifierStrategy_OrphansAreDropped(t *testing.T) {
	candidates := jobsWithIDs("a", "b")
	annotations := []models.JobAnnotation{
		annotate("a", 50),
		annotate("zzz", 99),
		annotate("a", 10),
		annotate("b", 20),
	}

	got, err := IdentifierStrategy[models.Job, models.JobAnnotation]{}.Correlate(candidates, annotations)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, resultIDs(got.Results))
	assert.Equal(t, 50.0, got.Results[0].Score(), "first annotation for a candidate wins")
	assert.Empty(t, got.Unscored)
	assert.Equal(t, 2, got.Orphans())
	assert.Contains(t, got.Issues, CorrelationIssue{Kind: IssueOrphanAnnotation, ID: "zzz", Index: 1})
	assert.Contains(t, got.Issues, CorrelationIssue{Kind: IssueOrphanAnnotation, ID: "a", Index: 2})
}

func TestIdentifierStrategy_AtMostOneResultPerCandidate(t *testing.T) {
	candidates := jobsWithIDs("a", "b", "c")
	annotations := []models.JobAnnotation{
		annotate("a", 1), annotate("a", 2), annotate("b", 3), annotate("b", 4), annotate("x", 5),
	}

	got, err := IdentifierStrategy[models.Job, models.JobAnnotation]{}.Correlate(candidates, annotations)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(got.Results), len(candidates))
	assert.Equal(t, len(candidates), len(got.Results)+len(got.Unscored))
}

func TestCorrelate_RejectsDuplicateCandidateIDs(t *testing.T) {
	candidates := jobsWithIDs("a", "a")

	for _, mode := range []CorrelationMode{CorrelationIdentifier, CorrelationPositional} {
		strategy := NewCorrelationStrategy[models.Job, models.JobAnnotation](mode)
		_, err := strategy.Correlate(candidates, []models.JobAnnotation{annotate("a", 1), annotate("a", 2)})
		assert.ErrorIs(t, err, models.ErrInvalidInput, string(mode))
	}
}

func TestPositionalStrategy_CountMismatchFails(t *testing.T) {
	candidates := jobsWithIDs("a", "b", "c")
	annotations := []models.JobAnnotation{{MatchScore: 90, MatchReason: "x"}, {MatchScore: 10, MatchReason: "y"}}

	got, err := PositionalStrategy[models.Job, models.JobAnnotation]{}.Correlate(candidates, annotations)
	assert.ErrorIs(t, err, models.ErrCorrelationFailure)
	assert.Nil(t, got)

	extra := append(annotations, models.JobAnnotation{}, models.JobAnnotation{})
	_, err = PositionalStrategy[models.Job, models.JobAnnotation]{}.Correlate(candidates, extra)
	assert.ErrorIs(t, err, models.ErrCorrelationFailure)
}

func TestPositionalStrategy_MismatchedEchoedIDFails(t *testing.T) {
	candidates := jobsWithIDs("a", "b")
	annotations := []models.JobAnnotation{annotate("b", 10), annotate("a", 20)}

	_, err := PositionalStrategy[models.Job, models.JobAnnotation]{}.Correlate(candidates, annotations)
	assert.ErrorIs(t, err, models.ErrCorrelationFailure)
}

func TestPositionalStrategy_PairsByIndex(t *testing.T) {
	candidates := jobsWithIDs("a", "b")
	annotations := []models.JobAnnotation{{MatchScore: 30, MatchReason: "x"}, {MatchScore: 60, MatchReason: "y"}}

	got, err := PositionalStrategy[models.Job, models.JobAnnotation]{}.Correlate(candidates, annotations)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, resultIDs(got.Results))
	assert.Equal(t, candidates[1], got.Results[0].Candidate)
	assert.Empty(t, got.Unscored)
	assert.Empty(t, got.Issues)
}

func TestCorrelate_StableSortByScore(t *testing.T) {
	candidates := jobsWithIDs("j1", "j2", "j3", "j4")
	scores := []float64{40, 90, 90, 10}

	t.Run("identifier", func(t *testing.T) {
		var annotations []models.JobAnnotation
		for i, c := range candidates {
			annotations = append(annotations, annotate(c.ID, scores[i]))
		}
		got, err := IdentifierStrategy[models.Job, models.JobAnnotation]{}.Correlate(candidates, annotations)
		require.NoError(t, err)
		assert.Equal(t, []string{"j2", "j3", "j1", "j4"}, resultIDs(got.Results))
	})

	t.Run("positional", func(t *testing.T) {
		var annotations []models.JobAnnotation
		for _, s := range scores {
			annotations = append(annotations, models.JobAnnotation{MatchScore: s, MatchReason: "r"})
		}
		got, err := PositionalStrategy[models.Job, models.JobAnnotation]{}.Correlate(candidates, annotations)
		require.NoError(t, err)
		assert.Equal(t, []string{"j2", "j3", "j1", "j4"}, resultIDs(got.Results))
	})
}

func TestParseCorrelationMode(t *testing.T) {
	assert.Equal(t, CorrelationPositional, ParseCorrelationMode(" Positional "))
	assert.Equal(t, CorrelationIdentifier, ParseCorrelationMode("identifier"))
	assert.Equal(t, CorrelationIdentifier, ParseCorrelationMode("bogus"))
	assert.Equal(t, CorrelationIdentifier, ParseCorrelationMode(""))
}

func TestNewCorrelationStrategy_Mode(t *testing.T) {
	assert.Equal(t, CorrelationIdentifier, NewCorrelationStrategy[models.Course, models.CourseAnnotation](CorrelationIdentifier).Mode())
	assert.Equal(t, CorrelationPositional, NewCorrelationStrategy[models.Course, models.CourseAnnotation](CorrelationPositional).Mode())
}

package progress

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmorales/devdiary/internal/github"
	"github.com/jmorales/devdiary/internal/models"
)

type fakeSource struct {
	refs    []github.CommitRef
	listErr error
	commits map[string]*models.Commit
	fail    map[string]bool

	detailCalls int
	gotSince    time.Time
	gotUntil    time.Time
}

func (f *fakeSource) ListCommits(ctx context.Context, repoRef, branch string, since, until time.Time) ([]github.CommitRef, error) {
	f.gotSince = since
	f.gotUntil = until
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.refs, nil
}

func (f *fakeSource) GetCommitDetails(ctx context.Context, repoRef, sha string) (*models.Commit, error) {
	f.detailCalls++
	if f.fail[sha] {
		return nil, fmt.Errorf("detail fetch failed for %s", sha)
	}
	return f.commits[sha], nil
}

func TestAggregateDayEmptyWindow(t *testing.T) {
	source := &fakeSource{}
	agg := NewAggregator(source)

	day := time.Date(2024, 1, 15, 10, 30, 0, 0, time.Local)
	files, err := agg.AggregateDay(context.Background(), "jmorales/devdiary", "main", day)

	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Equal(t, 0, source.detailCalls, "no detail fetches for an empty window")
}

func TestAggregateDayWindowBounds(t *testing.T) {
	source := &fakeSource{}
	agg := NewAggregator(source)

	day := time.Date(2024, 1, 15, 10, 30, 0, 0, time.Local)
	_, err := agg.AggregateDay(context.Background(), "jmorales/devdiary", "main", day)
	require.NoError(t, err)

	wantSince := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)
	wantUntil := time.Date(2024, 1, 15, 23, 59, 59, 999_000_000, time.Local)
	assert.True(t, source.gotSince.Equal(wantSince), "since = start of local day")
	assert.True(t, source.gotUntil.Equal(wantUntil), "until = end of local day")
}

func TestAggregateDayListFailureIsFatal(t *testing.T) {
	source := &fakeSource{listErr: fmt.Errorf("boom")}
	agg := NewAggregator(source)

	files, err := agg.AggregateDay(context.Background(), "jmorales/devdiary", "main", time.Now())

	require.Error(t, err)
	assert.Nil(t, files)
	assert.Equal(t, 0, source.detailCalls)
}

func TestAggregateDayPartialDetailFailure(t *testing.T) {
	source := &fakeSource{
		refs: []github.CommitRef{{SHA: "c1"}, {SHA: "c2"}, {SHA: "c3"}},
		commits: map[string]*models.Commit{
			"c1": {SHA: "c1", Files: []models.CommitFile{{Filename: "one.go", PatchURL: "http://x/c1"}}},
			"c3": {SHA: "c3", Files: []models.CommitFile{{Filename: "three.go", PatchURL: "http://x/c3"}}},
		},
		fail: map[string]bool{"c2": true},
	}
	agg := NewAggregator(source)

	files, err := agg.AggregateDay(context.Background(), "jmorales/devdiary", "main", time.Now())

	require.NoError(t, err, "a single failed detail fetch is not fatal")
	require.Len(t, files, 2)
	assert.Equal(t, "one.go", files[0].Filename)
	assert.Equal(t, "three.go", files[1].Filename)
}

func TestAggregateDayDeduplicatesAcrossCommits(t *testing.T) {
	source := &fakeSource{
		refs: []github.CommitRef{{SHA: "c1"}, {SHA: "c2"}},
		commits: map[string]*models.Commit{
			"c1": {SHA: "c1", Files: []models.CommitFile{
				{Filename: "shared.go", Status: "modified", Additions: 5, Deletions: 1, PatchURL: "http://x/c1"},
			}},
			"c2": {SHA: "c2", Files: []models.CommitFile{
				{Filename: "shared.go", Status: "modified", Additions: 9, Deletions: 9, PatchURL: "http://x/c2"},
				{Filename: "new.go", Status: "added", Additions: 30, Deletions: 0, PatchURL: "http://x/c2"},
			}},
		},
	}
	agg := NewAggregator(source)

	files, err := agg.AggregateDay(context.Background(), "jmorales/devdiary", "main", time.Now())

	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "shared.go", files[0].Filename)
	assert.Equal(t, "http://x/c1", files[0].PatchURL, "first commit's patch reference wins")
	assert.Equal(t, 5, files[0].Additions)
	assert.Equal(t, "new.go", files[1].Filename)
}

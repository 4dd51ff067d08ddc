package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/jmorales/devdiary/internal/github"
	"github.com/jmorales/devdiary/internal/models"
)

// ChangeSource is the slice of the repository API the aggregator consumes.
// *github.Client satisfies it.
type ChangeSource interface {
	ListCommits(ctx context.Context, repoRef, branch string, since, until time.Time) ([]github.CommitRef, error)
	GetCommitDetails(ctx context.Context, repoRef, sha string) (*models.Commit, error)
}

type Aggregator struct {
	source ChangeSource
}

func NewAggregator(source ChangeSource) *Aggregator {
	return &Aggregator{source: source}
}

// AggregateDay lists the commits landed on branch during day (local midnight
// through 23:59:59.999) and reduces their file diffs to one deduplicated
// list. A failed commit listing is fatal; a failed detail fetch skips that
// commit and the aggregation continues with the rest.
func (a *Aggregator) AggregateDay(ctx context.Context, repoRef, branch string, day time.Time) ([]models.ChangedFile, error) {
	since := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	until := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 999_000_000, day.Location())

	refs, err := a.source.ListCommits(ctx, repoRef, branch, since, until)
	if err != nil {
		return nil, fmt.Errorf("listing commits for %s@%s: %w", repoRef, branch, err)
	}

	if len(refs) == 0 {
		return []models.ChangedFile{}, nil
	}

	commits := make([]models.Commit, 0, len(refs))
	for _, ref := range refs {
		commit, err := a.source.GetCommitDetails(ctx, repoRef, ref.SHA)
		if err != nil {
			// Tolerate individual detail failures; the day is still useful
			// with the commits that resolved.
			continue
		}
		commits = append(commits, *commit)
	}

	return DedupFiles(commits), nil
}

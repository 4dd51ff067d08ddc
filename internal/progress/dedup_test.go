package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmorales/devdiary/internal/models"
)

func TestDedupFilesKeepsFirstOccurrence(t *testing.T) {
	commits := []models.Commit{
		{SHA: "c1", Files: []models.CommitFile{
			{Filename: "a.go", Status: "modified", Additions: 12, Deletions: 3, PatchURL: "http://x/1"},
		}},
		{SHA: "c2", Files: []models.CommitFile{
			{Filename: "a.go", Status: "modified", Additions: 50, Deletions: 40, PatchURL: "http://x/2"},
		}},
		{SHA: "c3", Files: []models.CommitFile{
			{Filename: "a.go", Status: "deleted", Additions: 0, Deletions: 99, PatchURL: "http://x/3"},
		}},
	}

	files := DedupFiles(commits)

	require.Len(t, files, 1)
	assert.Equal(t, "a.go", files[0].Filename)
	assert.Equal(t, "http://x/1", files[0].PatchURL)
	assert.Equal(t, 12, files[0].Additions)
	assert.Equal(t, 3, files[0].Deletions)
	assert.Equal(t, "modified", files[0].Status)
}

func TestDedupFilesDiscoveryOrder(t *testing.T) {
	commits := []models.Commit{
		{SHA: "c1", Files: []models.CommitFile{
			{Filename: "b.go", PatchURL: "http://x/1"},
			{Filename: "a.go", PatchURL: "http://x/1"},
		}},
		{SHA: "c2", Files: []models.CommitFile{
			{Filename: "a.go", PatchURL: "http://x/2"},
			{Filename: "c.go", PatchURL: "http://x/2"},
		}},
	}

	files := DedupFiles(commits)

	require.Len(t, files, 3)
	assert.Equal(t, "b.go", files[0].Filename)
	assert.Equal(t, "a.go", files[1].Filename)
	assert.Equal(t, "c.go", files[2].Filename)
}

func TestDedupFilesStartsUnreviewed(t *testing.T) {
	commits := []models.Commit{
		{SHA: "c1", Files: []models.CommitFile{
			{Filename: "a.go"},
			{Filename: "b.go"},
		}},
	}

	for _, f := range DedupFiles(commits) {
		assert.False(t, f.Reviewed)
	}
}

func TestDedupFilesEmptyInput(t *testing.T) {
	files := DedupFiles(nil)
	require.NotNil(t, files)
	assert.Empty(t, files)
}

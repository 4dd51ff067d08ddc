package repository

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmorales/devdiary/internal/db"
	"github.com/jmorales/devdiary/internal/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// The pool must not open a second connection: each in-memory connection
	// is its own database.
	conn.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(conn))

	t.Cleanup(func() { conn.Close() })
	return conn
}

func createTestProject(t *testing.T, conn *sql.DB) *models.Project {
	t.Helper()

	project, err := NewProjectRepo(conn).Create("devdiary", "jmorales", "devdiary", "main")
	require.NoError(t, err)
	require.NotNil(t, project)
	return project
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseDay(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func TestEntryCreateAndRoundTrip(t *testing.T) {
	conn := openTestDB(t)
	project := createTestProject(t, conn)
	repo := NewEntryRepo(conn)

	created, err := repo.Create(&models.DailyEntry{
		ProjectID:  project.ID,
		Date:       day(2024, 1, 15),
		BranchName: "main",
		ChangedFiles: []models.ChangedFile{
			{Filename: "a.ts", Status: "modified", Additions: 12, Deletions: 3, PatchURL: "http://x/1", Reviewed: true},
		},
		Summary:   "wired up the sync engine",
		Learnings: "sqlite json columns are fine",
		Questions: "why does the diff api paginate at 300 files?",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	loaded, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, project.ID, loaded.ProjectID)
	assert.Equal(t, "main", loaded.BranchName)
	assert.True(t, loaded.Date.Equal(day(2024, 1, 15)))
	assert.Equal(t, "wired up the sync engine", loaded.Summary)
	assert.Equal(t, "devdiary", loaded.ProjectName)

	require.Len(t, loaded.ChangedFiles, 1)
	f := loaded.ChangedFiles[0]
	assert.Equal(t, "a.ts", f.Filename)
	assert.Equal(t, "modified", f.Status)
	assert.Equal(t, 12, f.Additions)
	assert.Equal(t, 3, f.Deletions)
	assert.Equal(t, "http://x/1", f.PatchURL)
	assert.True(t, f.Reviewed)
}

func TestEntryCreateRequiresSummary(t *testing.T) {
	conn := openTestDB(t)
	project := createTestProject(t, conn)
	repo := NewEntryRepo(conn)

	_, err := repo.Create(&models.DailyEntry{
		ProjectID:  project.ID,
		Date:       day(2024, 1, 15),
		BranchName: "main",
		Summary:    "   ",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "summary")
}

func TestEntryCreateAllowsEmptyChangedFiles(t *testing.T) {
	conn := openTestDB(t)
	project := createTestProject(t, conn)
	repo := NewEntryRepo(conn)

	created, err := repo.Create(&models.DailyEntry{
		ProjectID:  project.ID,
		Date:       day(2024, 1, 15),
		BranchName: "main",
		Summary:    "no code changes, planning day",
	})
	require.NoError(t, err)

	loaded, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.ChangedFiles)
	assert.Empty(t, loaded.ChangedFiles)
}

func TestEntryTimelineOrdering(t *testing.T) {
	conn := openTestDB(t)
	project := createTestProject(t, conn)
	repo := NewEntryRepo(conn)

	for _, d := range []time.Time{day(2024, 1, 3), day(2024, 1, 1), day(2024, 1, 2)} {
		_, err := repo.Create(&models.DailyEntry{
			ProjectID:  project.ID,
			Date:       d,
			BranchName: "main",
			Summary:    "work",
		})
		require.NoError(t, err)
	}

	entries, err := repo.GetByProjectID(project.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.True(t, entries[0].Date.Equal(day(2024, 1, 3)))
	assert.True(t, entries[1].Date.Equal(day(2024, 1, 2)))
	assert.True(t, entries[2].Date.Equal(day(2024, 1, 1)))
}

func TestEntryMalformedChangedFilesIsolated(t *testing.T) {
	conn := openTestDB(t)
	project := createTestProject(t, conn)
	repo := NewEntryRepo(conn)

	for _, d := range []time.Time{day(2024, 1, 1), day(2024, 1, 3)} {
		_, err := repo.Create(&models.DailyEntry{
			ProjectID:  project.ID,
			Date:       d,
			BranchName: "main",
			ChangedFiles: []models.ChangedFile{
				{Filename: "ok.go", Status: "added", Additions: 1},
			},
			Summary: "fine",
		})
		require.NoError(t, err)
	}

	// Simulate a corrupted row written by an older version.
	_, err := conn.Exec(`
		INSERT INTO daily_entries (id, project_id, date, branch_name, changed_files, summary, created_at)
		VALUES ('corrupt', ?, '2024-01-02', 'main', 'not a json array', 'legacy', ?)
	`, project.ID, time.Now())
	require.NoError(t, err)

	entries, err := repo.GetByProjectID(project.ID)
	require.NoError(t, err, "one malformed entry must not block the timeline")
	require.Len(t, entries, 3)

	var corrupt *models.DailyEntry
	for i := range entries {
		if entries[i].ID == "corrupt" {
			corrupt = &entries[i]
		} else {
			assert.Len(t, entries[i].ChangedFiles, 1)
		}
	}
	require.NotNil(t, corrupt)
	assert.Empty(t, corrupt.ChangedFiles)
}

func TestEntryUpdateReplacesContentNotIdentity(t *testing.T) {
	conn := openTestDB(t)
	project := createTestProject(t, conn)
	repo := NewEntryRepo(conn)

	created, err := repo.Create(&models.DailyEntry{
		ProjectID:  project.ID,
		Date:       day(2024, 1, 15),
		BranchName: "main",
		ChangedFiles: []models.ChangedFile{
			{Filename: "a.go", Status: "modified", Additions: 1},
		},
		Summary: "first pass",
	})
	require.NoError(t, err)

	err = repo.Update(created.ID, &models.DailyEntry{
		ProjectID:  999, // must be ignored
		Date:       day(2030, 12, 31),
		BranchName: "other",
		ChangedFiles: []models.ChangedFile{
			{Filename: "a.go", Status: "modified", Additions: 1, Reviewed: true},
			{Filename: "b.go", Status: "added", Additions: 7},
		},
		Summary:   "second pass",
		Learnings: "learned things",
		Answers:   "the pagination limit is documented after all",
	})
	require.NoError(t, err)

	loaded, err := repo.GetByID(created.ID)
	require.NoError(t, err)

	assert.Equal(t, project.ID, loaded.ProjectID, "project is immutable")
	assert.True(t, loaded.Date.Equal(day(2024, 1, 15)), "date is immutable")
	assert.Equal(t, "main", loaded.BranchName, "branch is immutable")
	assert.Equal(t, created.CreatedAt.Unix(), loaded.CreatedAt.Unix())

	assert.Equal(t, "second pass", loaded.Summary)
	assert.Equal(t, "learned things", loaded.Learnings)
	assert.Equal(t, "the pagination limit is documented after all", loaded.Answers)
	require.Len(t, loaded.ChangedFiles, 2)
	assert.True(t, loaded.ChangedFiles[0].Reviewed)
}

func TestEntryUpdateMissingID(t *testing.T) {
	conn := openTestDB(t)
	repo := NewEntryRepo(conn)

	err := repo.Update("nope", &models.DailyEntry{Summary: "text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestEntryGetByProjectDateBranch(t *testing.T) {
	conn := openTestDB(t)
	project := createTestProject(t, conn)
	repo := NewEntryRepo(conn)

	created, err := repo.Create(&models.DailyEntry{
		ProjectID:  project.ID,
		Date:       day(2024, 2, 1),
		BranchName: "feature/sync",
		Summary:    "branch work",
	})
	require.NoError(t, err)

	found, err := repo.GetByProjectDateBranch(project.ID, day(2024, 2, 1), "feature/sync")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	missing, err := repo.GetByProjectDateBranch(project.ID, day(2024, 2, 1), "main")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

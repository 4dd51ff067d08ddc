package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmorales/devdiary/internal/models"
)

func TestProjectCreateDefaults(t *testing.T) {
	conn := openTestDB(t)
	repo := NewProjectRepo(conn)

	project, err := repo.Create("blog", "jmorales", "blog", "")
	require.NoError(t, err)

	assert.Equal(t, "main", project.DefaultBranch)
	assert.Equal(t, "public", project.Visibility)
	assert.Equal(t, "active", project.Status)
	assert.Equal(t, "jmorales/blog", project.RepoRef())
}

func TestProjectUpdateAndStatus(t *testing.T) {
	conn := openTestDB(t)
	repo := NewProjectRepo(conn)

	project, err := repo.Create("blog", "jmorales", "blog", "main")
	require.NoError(t, err)

	require.NoError(t, repo.Update(project.ID, "blog v2", "jmorales", "blog-v2", "develop"))
	require.NoError(t, repo.SetStatus(project.ID, "paused"))
	require.NoError(t, repo.SetVisibility(project.ID, "hidden"))

	loaded, err := repo.GetByID(project.ID)
	require.NoError(t, err)
	assert.Equal(t, "blog v2", loaded.Name)
	assert.Equal(t, "develop", loaded.DefaultBranch)
	assert.Equal(t, "paused", loaded.Status)
	assert.Equal(t, "hidden", loaded.Visibility)
}

func TestProjectStatsCountEntries(t *testing.T) {
	conn := openTestDB(t)
	project := createTestProject(t, conn)
	entryRepo := NewEntryRepo(conn)

	for _, d := range []string{"2024-03-01", "2024-03-02"} {
		date, err := parseDay(d)
		require.NoError(t, err)
		_, err = entryRepo.Create(&models.DailyEntry{
			ProjectID:  project.ID,
			Date:       date,
			BranchName: "main",
			Summary:    "work",
		})
		require.NoError(t, err)
	}

	stats, err := NewProjectRepo(conn).GetAllWithStats()
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 2, stats[0].EntryCount)
	assert.Equal(t, "2024-03-02", stats[0].LastEntryDate)
}

func TestProjectDelete(t *testing.T) {
	conn := openTestDB(t)
	repo := NewProjectRepo(conn)

	project, err := repo.Create("tmp", "jmorales", "tmp", "main")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(project.ID))

	loaded, err := repo.GetByID(project.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jmorales/devdiary/internal/models"
)

const dateLayout = "2006-01-02"

type EntryRepo struct {
	db *sql.DB
}

func NewEntryRepo(db *sql.DB) *EntryRepo {
	return &EntryRepo{db: db}
}

// Create persists a new daily entry. The id and created_at are assigned
// here; project, date and branch are fixed for the life of the entry.
// Summary must be non-empty. An empty changed-file list is valid (a day with
// no changes).
func (r *EntryRepo) Create(entry *models.DailyEntry) (*models.DailyEntry, error) {
	if strings.TrimSpace(entry.Summary) == "" {
		return nil, fmt.Errorf("summary is required")
	}
	if entry.ProjectID == 0 {
		return nil, fmt.Errorf("project is required")
	}
	if entry.Date.IsZero() {
		return nil, fmt.Errorf("date is required")
	}
	if entry.BranchName == "" {
		return nil, fmt.Errorf("branch is required")
	}

	filesJSON, err := json.Marshal(changedFilesOrEmpty(entry.ChangedFiles))
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()

	_, err = r.db.Exec(`
		INSERT INTO daily_entries (id, project_id, date, branch_name, changed_files, summary, learnings, questions, answers, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, entry.ProjectID, entry.Date.Format(dateLayout), entry.BranchName,
		string(filesJSON), entry.Summary, entry.Learnings, entry.Questions, entry.Answers, time.Now())
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// Update replaces the entry's changed files and reflection text wholesale.
// Identity fields (project, date, branch) are never touched.
func (r *EntryRepo) Update(id string, entry *models.DailyEntry) error {
	if strings.TrimSpace(entry.Summary) == "" {
		return fmt.Errorf("summary is required")
	}

	filesJSON, err := json.Marshal(changedFilesOrEmpty(entry.ChangedFiles))
	if err != nil {
		return err
	}

	result, err := r.db.Exec(`
		UPDATE daily_entries
		SET changed_files = ?, summary = ?, learnings = ?, questions = ?, answers = ?
		WHERE id = ?
	`, string(filesJSON), entry.Summary, entry.Learnings, entry.Questions, entry.Answers, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("entry %s not found", id)
	}

	return nil
}

func (r *EntryRepo) GetByID(id string) (*models.DailyEntry, error) {
	var e models.DailyEntry
	var dateStr, filesJSON string
	var projectName sql.NullString

	err := r.db.QueryRow(`
		SELECT e.id, e.project_id, e.date, e.branch_name, e.changed_files,
		       e.summary, e.learnings, e.questions, e.answers, e.created_at, p.name
		FROM daily_entries e
		LEFT JOIN projects p ON p.id = e.project_id
		WHERE e.id = ?
	`, id).Scan(
		&e.ID, &e.ProjectID, &dateStr, &e.BranchName, &filesJSON,
		&e.Summary, &e.Learnings, &e.Questions, &e.Answers, &e.CreatedAt, &projectName,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	e.Date, err = time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing entry date %q: %w", dateStr, err)
	}
	e.ChangedFiles = decodeChangedFiles(filesJSON)
	e.ProjectName = projectName.String

	return &e, nil
}

// GetByProjectID returns all of a project's entries ordered by date
// descending (most recent day first). Entries on the same date keep the
// store's return order.
func (r *EntryRepo) GetByProjectID(projectID int64) ([]models.DailyEntry, error) {
	rows, err := r.db.Query(`
		SELECT e.id, e.project_id, e.date, e.branch_name, e.changed_files,
		       e.summary, e.learnings, e.questions, e.answers, e.created_at, p.name
		FROM daily_entries e
		LEFT JOIN projects p ON p.id = e.project_id
		WHERE e.project_id = ?
		ORDER BY e.date DESC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.DailyEntry
	for rows.Next() {
		var e models.DailyEntry
		var dateStr, filesJSON string
		var projectName sql.NullString

		if err := rows.Scan(
			&e.ID, &e.ProjectID, &dateStr, &e.BranchName, &filesJSON,
			&e.Summary, &e.Learnings, &e.Questions, &e.Answers, &e.CreatedAt, &projectName,
		); err != nil {
			return nil, err
		}

		e.Date, err = time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing entry date %q: %w", dateStr, err)
		}
		e.ChangedFiles = decodeChangedFiles(filesJSON)
		e.ProjectName = projectName.String

		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetByProjectDateBranch looks up the entry for a (project, date, branch)
// triple, if one exists. The schema does not enforce uniqueness; when
// duplicates exist the most recently created one is returned.
func (r *EntryRepo) GetByProjectDateBranch(projectID int64, date time.Time, branch string) (*models.DailyEntry, error) {
	var id string

	err := r.db.QueryRow(`
		SELECT id
		FROM daily_entries
		WHERE project_id = ? AND date = ? AND branch_name = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, projectID, date.Format(dateLayout), branch).Scan(&id)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// decodeChangedFiles tolerates malformed or legacy-shaped changed_files
// values: one corrupted entry renders with zero files instead of failing the
// whole timeline.
func decodeChangedFiles(raw string) []models.ChangedFile {
	var files []models.ChangedFile
	if err := json.Unmarshal([]byte(raw), &files); err != nil {
		return []models.ChangedFile{}
	}
	if files == nil {
		return []models.ChangedFile{}
	}
	return files
}

func changedFilesOrEmpty(files []models.ChangedFile) []models.ChangedFile {
	if files == nil {
		return []models.ChangedFile{}
	}
	return files
}

package repository

import (
	"database/sql"

	"github.com/jmorales/devdiary/internal/models"
)

type ProjectRepo struct {
	db *sql.DB
}

func NewProjectRepo(db *sql.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

func (r *ProjectRepo) Create(name, repoOwner, repoName, defaultBranch string) (*models.Project, error) {
	if defaultBranch == "" {
		defaultBranch = "main"
	}

	result, err := r.db.Exec(`
		INSERT INTO projects (name, repo_owner, repo_name, default_branch)
		VALUES (?, ?, ?, ?)
	`, name, repoOwner, repoName, defaultBranch)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

func (r *ProjectRepo) GetByID(id int64) (*models.Project, error) {
	var p models.Project

	err := r.db.QueryRow(`
		SELECT id, name, repo_owner, repo_name, default_branch, visibility, status, created_at
		FROM projects
		WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.RepoOwner, &p.RepoName, &p.DefaultBranch, &p.Visibility, &p.Status, &p.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *ProjectRepo) GetAll() ([]models.Project, error) {
	rows, err := r.db.Query(`
		SELECT id, name, repo_owner, repo_name, default_branch, visibility, status, created_at
		FROM projects
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.RepoOwner, &p.RepoName, &p.DefaultBranch, &p.Visibility, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepo) Update(id int64, name, repoOwner, repoName, defaultBranch string) error {
	_, err := r.db.Exec(`
		UPDATE projects
		SET name = ?, repo_owner = ?, repo_name = ?, default_branch = ?
		WHERE id = ?
	`, name, repoOwner, repoName, defaultBranch, id)
	return err
}

func (r *ProjectRepo) SetVisibility(id int64, visibility string) error {
	_, err := r.db.Exec("UPDATE projects SET visibility = ? WHERE id = ?", visibility, id)
	return err
}

func (r *ProjectRepo) SetStatus(id int64, status string) error {
	_, err := r.db.Exec("UPDATE projects SET status = ? WHERE id = ?", status, id)
	return err
}

func (r *ProjectRepo) Delete(id int64) error {
	_, err := r.db.Exec("DELETE FROM projects WHERE id = ?", id)
	return err
}

type ProjectWithStats struct {
	models.Project
	EntryCount    int
	LastEntryDate string
}

func (r *ProjectRepo) GetAllWithStats() ([]ProjectWithStats, error) {
	query := `
		SELECT
			p.id, p.name, p.repo_owner, p.repo_name, p.default_branch,
			p.visibility, p.status, p.created_at,
			COUNT(e.id) as entry_count,
			COALESCE(MAX(e.date), '') as last_entry_date
		FROM projects p
		LEFT JOIN daily_entries e ON e.project_id = p.id
		GROUP BY p.id
		ORDER BY p.name
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []ProjectWithStats
	for rows.Next() {
		var p ProjectWithStats
		if err := rows.Scan(
			&p.ID, &p.Name, &p.RepoOwner, &p.RepoName, &p.DefaultBranch,
			&p.Visibility, &p.Status, &p.CreatedAt,
			&p.EntryCount, &p.LastEntryDate,
		); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

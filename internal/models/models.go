package models

import "time"

type Project struct {
	ID            int64
	Name          string
	RepoOwner     string
	RepoName      string
	DefaultBranch string
	Visibility    string // "public" or "hidden"
	Status        string // "active", "paused", "done"
	CreatedAt     time.Time
}

// RepoRef returns the owner/name form used by the change source API.
func (p *Project) RepoRef() string {
	return p.RepoOwner + "/" + p.RepoName
}

// ChangedFile is one file's state within a single daily entry. Filename is
// the dedup key, unique within an entry. Reviewed is operator-controlled and
// independent of the diff statistics.
type ChangedFile struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"` // added, modified, deleted, renamed
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	PatchURL  string `json:"patch_url"`
	Reviewed  bool   `json:"reviewed"`
}

// DailyEntry is one persisted record summarizing a project's code changes and
// reflections for a single calendar day and branch. ProjectID, Date and
// BranchName identify the entry and never change after creation.
type DailyEntry struct {
	ID           string
	ProjectID    int64
	Date         time.Time // day granularity, stored as YYYY-MM-DD
	BranchName   string
	ChangedFiles []ChangedFile
	Summary      string
	Learnings    string
	Questions    string
	Answers      string
	CreatedAt    time.Time

	// Joined fields
	ProjectName string
}

// CommitFile is a single file diff record within one commit, as reported by
// the change source.
type CommitFile struct {
	Filename  string
	Status    string
	Additions int
	Deletions int
	PatchURL  string
}

// Commit holds a commit's sha and its file diffs, in reported order.
type Commit struct {
	SHA   string
	Files []CommitFile
}

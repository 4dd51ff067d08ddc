package progress

import "github.com/jmorales/devdiary/internal/models"

// DedupFiles collapses per-commit file diffs into one ChangedFile per
// distinct filename. Commits must be in chronological order (oldest first):
// the first commit that touches a file supplies its stats and patch URL, and
// later occurrences of the same filename are ignored. Output order is
// discovery order. Reviewed always starts false.
func DedupFiles(commits []models.Commit) []models.ChangedFile {
	seen := make(map[string]bool)
	files := []models.ChangedFile{}

	for _, commit := range commits {
		for _, f := range commit.Files {
			if seen[f.Filename] {
				continue
			}
			seen[f.Filename] = true

			files = append(files, models.ChangedFile{
				Filename:  f.Filename,
				Status:    f.Status,
				Additions: f.Additions,
				Deletions: f.Deletions,
				PatchURL:  f.PatchURL,
				Reviewed:  false,
			})
		}
	}

	return files
}

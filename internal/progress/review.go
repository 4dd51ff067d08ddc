package progress

import "github.com/jmorales/devdiary/internal/models"

// ToggleReviewed returns a copy of files with exactly the named file's
// Reviewed flag flipped. Toggling a filename that is not present is a no-op.
// The input slice is never modified.
func ToggleReviewed(files []models.ChangedFile, filename string) []models.ChangedFile {
	out := make([]models.ChangedFile, len(files))
	copy(out, files)

	for i := range out {
		if out[i].Filename == filename {
			out[i].Reviewed = !out[i].Reviewed
			break
		}
	}

	return out
}

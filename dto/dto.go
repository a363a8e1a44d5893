package dto

import "github.com/google/uuid"

// JobMessage is the work item produced by the upload backend and the
// retry/sweep commands. Delivery is at-least-once; the repository's
// idempotent terminal writes make duplicates safe.
type JobMessage struct {
	JobId      uuid.UUID `json:"job_id"`
	SourcePath string    `json:"source_path"`
}

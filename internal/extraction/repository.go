package extraction

import "context"

// Job lifecycle states.
const (
	StatusUploaded   = "UPLOADED"
	StatusProcessing = "PROCESSING"
	StatusExtracted  = "EXTRACTED"
	StatusFailed     = "FAILED"
)

type Job struct {
	ID        int     `json:"id"`
	UserID    string  `json:"user_id"`
	ImageURL  string  `json:"image_url"`
	Filename  string  `json:"filename"`
	Status    string  `json:"status"`
	LastError *string `json:"last_error,omitempty"`
}

// Repository defines all database operations for extraction jobs.
type Repository interface {
	CreateJob(ctx context.Context, userID, imageURL, filename string) (int, error)

	// ClaimPending atomically claims the next UPLOADED job.
	// Returns (nil, nil) when no jobs are available (NOT an error).
	ClaimPending(ctx context.Context) (*Job, error)

	MarkExtracted(ctx context.Context, id int, result *Result) error
	MarkFailed(ctx context.Context, id int, reason string) error

	GetJob(ctx context.Context, id int) (*Job, error)
	ResetForRetry(ctx context.Context, id int) error
}

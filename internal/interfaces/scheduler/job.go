package scheduler

import "context"

// Job is a unit of work executed by the worker pool.
type Job interface {
	// Execute runs the job. Context should be respected for cancellation
	// and timeouts.
	Execute(ctx context.Context) error

	// UserID returns the user the job works on behalf of, for logging.
	UserID() string

	// Description returns a human-readable description of the job.
	Description() string
}

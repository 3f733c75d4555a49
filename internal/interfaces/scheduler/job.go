// Package scheduler runs the periodic Starling syncs through a worker pool.
package scheduler

import "context"

// Job is a unit of work executed by the worker pool.
type Job interface {
	// Execute runs the job. The context carries the pool's cancellation
	// and a per-job timeout.
	Execute(ctx context.Context) error

	// Target names what the job operates on, for logging and tracing.
	Target() string

	// Description returns a human-readable description of the job.
	Description() string
}

package ports

import (
	"context"

	"workspace-registry-service/internal/core/domain"
)

// JobState is the runner-side lifecycle of a submitted job, normalized across
// compute targets.
type JobState string

const (
	JobStateQueued    JobState = "QUEUED"
	JobStateRunning   JobState = "RUNNING"
	JobStateSucceeded JobState = "SUCCEEDED"
	JobStateFailed    JobState = "FAILED"
	JobStateCanceled  JobState = "CANCELED"
	JobStateUnknown   JobState = "UNKNOWN"
)

// JobSubmission is what a runner returns after accepting a run.
type JobSubmission struct {
	ExternalID string
	Details    string
}

// JobStatus is a point-in-time view of a submitted job.
type JobStatus struct {
	State   JobState
	Message string
}

// JobRunner submits experiment runs to a compute target and reports on them.
type JobRunner interface {
	IsAvailable() bool
	Submit(ctx context.Context, run *domain.ExperimentRun) (*JobSubmission, error)
	Status(ctx context.Context, run *domain.ExperimentRun) (*JobStatus, error)
	Cancel(ctx context.Context, run *domain.ExperimentRun) error
}

package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunStatusPending   RunStatus = "PENDING"
	RunStatusSubmitted RunStatus = "SUBMITTED"
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
	RunStatusCanceled  RunStatus = "CANCELED"
)

// IsTerminal reports whether a run in this status can no longer change state.
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed || s == RunStatusCanceled
}

type ComputeTarget string

const (
	ComputeTargetAzureML    ComputeTarget = "azureml"
	ComputeTargetKubernetes ComputeTarget = "kubernetes"
)

var supportedComputeTargets = map[ComputeTarget]bool{
	ComputeTargetAzureML:    true,
	ComputeTargetKubernetes: true,
}

func ValidateComputeTarget(target string) error {
	if !supportedComputeTargets[ComputeTarget(target)] {
		return ErrUnsupportedComputeTarget
	}
	return nil
}

var commitPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// ValidateGitCommit requires a full 40-hex commit id. Short refs and branch
// names are rejected: a run must pin the exact tree it was built from.
func ValidateGitCommit(commit string) error {
	if !commitPattern.MatchString(commit) {
		return ErrInvalidGitCommit
	}
	return nil
}

// DataBinding mounts one READY data asset version into a run.
type DataBinding struct {
	AssetName string    `json:"asset_name"`
	Version   int       `json:"version"`
	VersionID uuid.UUID `json:"version_id"`
	URI       string    `json:"uri"`
	MountPath string    `json:"mount_path"`
}

type ExperimentRun struct {
	ID             uuid.UUID         `json:"id"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	ProjectID      uuid.UUID         `json:"project_id"`
	PackageName    string            `json:"package_name"`
	DisplayName    string            `json:"display_name"`
	GitCommit      string            `json:"git_commit"`
	ComputeTarget  ComputeTarget     `json:"compute_target"`
	Status         RunStatus         `json:"status"`
	ExternalJobID  string            `json:"external_job_id"`
	ContainerImage string            `json:"container_image"`
	Command        string            `json:"command"`
	DataBindings   []DataBinding     `json:"data_bindings"`
	Parameters     map[string]string `json:"parameters"`
	CreatedBy      string            `json:"created_by"`
	StartedAt      *time.Time        `json:"started_at"`
	FinishedAt     *time.Time        `json:"finished_at"`
}

type RunMetric struct {
	ID       uuid.UUID `json:"id"`
	RunID    uuid.UUID `json:"run_id"`
	Name     string    `json:"name"`
	Value    float64   `json:"value"`
	Step     int       `json:"step"`
	LoggedAt time.Time `json:"logged_at"`
}

type RunArtifact struct {
	ID        uuid.UUID `json:"id"`
	RunID     uuid.UUID `json:"run_id"`
	Name      string    `json:"name"`
	URI       string    `json:"uri"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

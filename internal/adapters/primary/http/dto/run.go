package dto

import (
	"time"

	"github.com/google/uuid"

	"workspace-registry-service/internal/core/domain"
)

type DataBindingRequest struct {
	AssetName string `json:"asset_name" binding:"required"`
	Version   int    `json:"version"`
	MountPath string `json:"mount_path" binding:"required"`
}

type SubmitRunRequest struct {
	PackageName    string               `json:"package_name" binding:"required,max=100"`
	DisplayName    string               `json:"display_name"`
	GitCommit      string               `json:"git_commit" binding:"required"`
	ComputeTarget  string               `json:"compute_target" binding:"required"`
	ContainerImage string               `json:"container_image"`
	Command        string               `json:"command"`
	CreatedBy      string               `json:"created_by"`
	DataBindings   []DataBindingRequest `json:"data_bindings" binding:"required"`
	Parameters     map[string]string    `json:"parameters"`
}

type LogMetricRequest struct {
	Name  string  `json:"name" binding:"required"`
	Value float64 `json:"value"`
	Step  int     `json:"step"`
}

type LogArtifactRequest struct {
	Name      string `json:"name" binding:"required"`
	URI       string `json:"uri" binding:"required"`
	SizeBytes int64  `json:"size_bytes"`
}

type DataBindingResponse struct {
	AssetName string    `json:"asset_name"`
	Version   int       `json:"version"`
	VersionID uuid.UUID `json:"version_id"`
	URI       string    `json:"uri"`
	MountPath string    `json:"mount_path"`
}

type ExperimentRunResponse struct {
	ID             uuid.UUID             `json:"id"`
	CreatedAt      string                `json:"created_at"`
	UpdatedAt      string                `json:"updated_at"`
	ProjectID      uuid.UUID             `json:"project_id"`
	PackageName    string                `json:"package_name"`
	DisplayName    string                `json:"display_name"`
	GitCommit      string                `json:"git_commit"`
	ComputeTarget  string                `json:"compute_target"`
	Status         string                `json:"status"`
	ExternalJobID  string                `json:"external_job_id,omitempty"`
	ContainerImage string                `json:"container_image,omitempty"`
	Command        string                `json:"command,omitempty"`
	DataBindings   []DataBindingResponse `json:"data_bindings"`
	Parameters     map[string]string     `json:"parameters"`
	CreatedBy      string                `json:"created_by,omitempty"`
	StartedAt      *string               `json:"started_at"`
	FinishedAt     *string               `json:"finished_at"`
}

type ListRunsResponse struct {
	Items      []ExperimentRunResponse `json:"items"`
	Total      int                     `json:"total"`
	PageSize   int                     `json:"page_size"`
	NextOffset int                     `json:"next_offset"`
}

type RunMetricResponse struct {
	ID       uuid.UUID `json:"id"`
	RunID    uuid.UUID `json:"run_id"`
	Name     string    `json:"name"`
	Value    float64   `json:"value"`
	Step     int       `json:"step"`
	LoggedAt string    `json:"logged_at"`
}

type RunArtifactResponse struct {
	ID        uuid.UUID `json:"id"`
	RunID     uuid.UUID `json:"run_id"`
	Name      string    `json:"name"`
	URI       string    `json:"uri"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt string    `json:"created_at"`
}

func ToExperimentRunResponse(r *domain.ExperimentRun) ExperimentRunResponse {
	bindings := make([]DataBindingResponse, 0, len(r.DataBindings))
	for _, b := range r.DataBindings {
		bindings = append(bindings, DataBindingResponse{
			AssetName: b.AssetName,
			Version:   b.Version,
			VersionID: b.VersionID,
			URI:       b.URI,
			MountPath: b.MountPath,
		})
	}

	resp := ExperimentRunResponse{
		ID:             r.ID,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      r.UpdatedAt.Format(time.RFC3339),
		ProjectID:      r.ProjectID,
		PackageName:    r.PackageName,
		DisplayName:    r.DisplayName,
		GitCommit:      r.GitCommit,
		ComputeTarget:  string(r.ComputeTarget),
		Status:         string(r.Status),
		ExternalJobID:  r.ExternalJobID,
		ContainerImage: r.ContainerImage,
		Command:        r.Command,
		DataBindings:   bindings,
		Parameters:     r.Parameters,
		CreatedBy:      r.CreatedBy,
	}
	if r.StartedAt != nil {
		s := r.StartedAt.Format(time.RFC3339)
		resp.StartedAt = &s
	}
	if r.FinishedAt != nil {
		s := r.FinishedAt.Format(time.RFC3339)
		resp.FinishedAt = &s
	}
	return resp
}

func ToRunMetricResponse(m *domain.RunMetric) RunMetricResponse {
	return RunMetricResponse{
		ID:       m.ID,
		RunID:    m.RunID,
		Name:     m.Name,
		Value:    m.Value,
		Step:     m.Step,
		LoggedAt: m.LoggedAt.Format(time.RFC3339),
	}
}

func ToRunArtifactResponse(a *domain.RunArtifact) RunArtifactResponse {
	return RunArtifactResponse{
		ID:        a.ID,
		RunID:     a.RunID,
		Name:      a.Name,
		URI:       a.URI,
		SizeBytes: a.SizeBytes,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

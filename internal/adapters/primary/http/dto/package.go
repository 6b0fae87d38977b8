package dto

import (
	"time"

	"github.com/google/uuid"

	"workspace-registry-service/internal/core/domain"
)

type SyncPackageRequest struct {
	Name            string            `json:"name" binding:"required,max=100"`
	Kind            string            `json:"kind" binding:"required"`
	Path            string            `json:"path"`
	ManifestVersion string            `json:"manifest_version"`
	DependencyCount int               `json:"dependency_count"`
	Labels          map[string]string `json:"labels"`
}

type FindingDTO struct {
	RuleID   string `json:"rule_id"`
	Severity string `json:"severity"`
	Path     string `json:"path"`
	Message  string `json:"message"`
}

type RecordReportRequest struct {
	GitCommit string       `json:"git_commit"`
	Findings  []FindingDTO `json:"findings"`
}

type WorkspacePackageResponse struct {
	ID              uuid.UUID         `json:"id"`
	CreatedAt       string            `json:"created_at"`
	UpdatedAt       string            `json:"updated_at"`
	ProjectID       uuid.UUID         `json:"project_id"`
	Name            string            `json:"name"`
	Kind            string            `json:"kind"`
	Path            string            `json:"path"`
	ManifestVersion string            `json:"manifest_version"`
	DependencyCount int               `json:"dependency_count"`
	Labels          map[string]string `json:"labels"`
}

type ListPackagesResponse struct {
	Items      []WorkspacePackageResponse `json:"items"`
	Total      int                        `json:"total"`
	PageSize   int                        `json:"page_size"`
	NextOffset int                        `json:"next_offset"`
}

type ComplianceReportResponse struct {
	ID           uuid.UUID    `json:"id"`
	CreatedAt    string       `json:"created_at"`
	PackageID    uuid.UUID    `json:"package_id"`
	GitCommit    string       `json:"git_commit,omitempty"`
	Findings     []FindingDTO `json:"findings"`
	ErrorCount   int          `json:"error_count"`
	WarningCount int          `json:"warning_count"`
	Passed       bool         `json:"passed"`
}

func ToWorkspacePackageResponse(p *domain.WorkspacePackage) WorkspacePackageResponse {
	return WorkspacePackageResponse{
		ID:              p.ID,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       p.UpdatedAt.Format(time.RFC3339),
		ProjectID:       p.ProjectID,
		Name:            p.Name,
		Kind:            string(p.Kind),
		Path:            p.Path,
		ManifestVersion: p.ManifestVersion,
		DependencyCount: p.DependencyCount,
		Labels:          p.Labels,
	}
}

func ToComplianceReportResponse(r *domain.ComplianceReport) ComplianceReportResponse {
	findings := make([]FindingDTO, 0, len(r.Findings))
	for _, f := range r.Findings {
		findings = append(findings, FindingDTO{
			RuleID:   f.RuleID,
			Severity: string(f.Severity),
			Path:     f.Path,
			Message:  f.Message,
		})
	}
	return ComplianceReportResponse{
		ID:           r.ID,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		PackageID:    r.PackageID,
		GitCommit:    r.GitCommit,
		Findings:     findings,
		ErrorCount:   r.ErrorCount,
		WarningCount: r.WarningCount,
		Passed:       r.Passed(),
	}
}

func ToFindings(dtos []FindingDTO) []domain.Finding {
	findings := make([]domain.Finding, 0, len(dtos))
	for _, f := range dtos {
		findings = append(findings, domain.Finding{
			RuleID:   f.RuleID,
			Severity: domain.FindingSeverity(f.Severity),
			Path:     f.Path,
			Message:  f.Message,
		})
	}
	return findings
}

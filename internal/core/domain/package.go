package domain

import (
	"time"

	"github.com/google/uuid"
)

type PackageKind string

const (
	PackageKindExperiment PackageKind = "experiment"
	PackageKindShared     PackageKind = "shared"
)

var supportedPackageKinds = map[PackageKind]bool{
	PackageKindExperiment: true,
	PackageKindShared:     true,
}

func ValidatePackageKind(kind string) error {
	if !supportedPackageKinds[PackageKind(kind)] {
		return ErrUnsupportedPackageKind
	}
	return nil
}

// WorkspacePackage is the registry's record of one package under packages/.
type WorkspacePackage struct {
	ID              uuid.UUID         `json:"id"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	ProjectID       uuid.UUID         `json:"project_id"`
	Name            string            `json:"name"`
	Kind            PackageKind       `json:"kind"`
	Path            string            `json:"path"`
	ManifestVersion string            `json:"manifest_version"`
	DependencyCount int               `json:"dependency_count"`
	Labels          map[string]string `json:"labels"`
}

type FindingSeverity string

const (
	SeverityError   FindingSeverity = "error"
	SeverityWarning FindingSeverity = "warning"
)

// Finding is one lint rule violation inside a compliance report.
type Finding struct {
	RuleID   string          `json:"rule_id"`
	Severity FindingSeverity `json:"severity"`
	Path     string          `json:"path"`
	Message  string          `json:"message"`
}

// ComplianceReport is the persisted result of linting one package at a commit.
type ComplianceReport struct {
	ID           uuid.UUID `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	PackageID    uuid.UUID `json:"package_id"`
	GitCommit    string    `json:"git_commit"`
	Findings     []Finding `json:"findings"`
	ErrorCount   int       `json:"error_count"`
	WarningCount int       `json:"warning_count"`
}

func (r *ComplianceReport) Passed() bool {
	return r.ErrorCount == 0
}

package ports

import (
	"context"

	"github.com/google/uuid"

	"workspace-registry-service/internal/core/domain"
)

type PackageListFilter struct {
	ProjectID uuid.UUID
	Kind      string
	Search    string
	SortBy    string
	Order     string
	Limit     int
	Offset    int
}

type PackageRepository interface {
	Create(ctx context.Context, pkg *domain.WorkspacePackage) error
	GetByID(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.WorkspacePackage, error)
	GetByName(ctx context.Context, projectID uuid.UUID, name string) (*domain.WorkspacePackage, error)
	Update(ctx context.Context, projectID uuid.UUID, pkg *domain.WorkspacePackage) error
	Delete(ctx context.Context, projectID uuid.UUID, id uuid.UUID) error
	List(ctx context.Context, filter PackageListFilter) ([]*domain.WorkspacePackage, int, error)
}

type ComplianceReportRepository interface {
	Create(ctx context.Context, report *domain.ComplianceReport) error
	GetLatestByPackage(ctx context.Context, packageID uuid.UUID) (*domain.ComplianceReport, error)
	ListByPackage(ctx context.Context, packageID uuid.UUID, limit int) ([]*domain.ComplianceReport, error)
}

type EvaluationReportRepository interface {
	Create(ctx context.Context, report *domain.EvaluationReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.EvaluationReport, error)
	ListByRun(ctx context.Context, runID uuid.UUID) ([]*domain.EvaluationReport, error)
}

package ports

import (
	"context"

	"github.com/google/uuid"

	"workspace-registry-service/internal/core/domain"
)

type RunListFilter struct {
	ProjectID   uuid.UUID
	PackageName string
	Status      string
	Target      string
	SortBy      string
	Order       string
	Limit       int
	Offset      int
}

type ExperimentRunRepository interface {
	Create(ctx context.Context, run *domain.ExperimentRun) error
	GetByID(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.ExperimentRun, error)
	Update(ctx context.Context, projectID uuid.UUID, run *domain.ExperimentRun) error
	List(ctx context.Context, filter RunListFilter) ([]*domain.ExperimentRun, int, error)
}

type RunMetricRepository interface {
	Create(ctx context.Context, metric *domain.RunMetric) error
	ListByRun(ctx context.Context, runID uuid.UUID) ([]*domain.RunMetric, error)
}

type RunArtifactRepository interface {
	Create(ctx context.Context, artifact *domain.RunArtifact) error
	ListByRun(ctx context.Context, runID uuid.UUID) ([]*domain.RunArtifact, error)
}

package ports

import (
	"context"

	"github.com/google/uuid"

	"workspace-registry-service/internal/core/domain"
)

type AssetListFilter struct {
	ProjectID uuid.UUID
	State     string
	Kind      string
	Search    string
	SortBy    string
	Order     string
	Limit     int
	Offset    int
}

type VersionListFilter struct {
	ProjectID   uuid.UUID
	DataAssetID uuid.UUID
	Status      string
	SortBy      string
	Order       string
	Limit       int
	Offset      int
}

type DataAssetRepository interface {
	Create(ctx context.Context, asset *domain.DataAsset) error
	GetByID(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.DataAsset, error)
	GetByName(ctx context.Context, projectID uuid.UUID, name string) (*domain.DataAsset, error)
	Update(ctx context.Context, projectID uuid.UUID, asset *domain.DataAsset) error
	Delete(ctx context.Context, projectID uuid.UUID, id uuid.UUID) error
	List(ctx context.Context, filter AssetListFilter) ([]*domain.DataAsset, int, error)
}

type DataAssetVersionRepository interface {
	// Create assigns the next dense version number for the asset and fills it
	// into version.Version.
	Create(ctx context.Context, version *domain.DataAssetVersion) error
	GetByID(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.DataAssetVersion, error)
	GetByAssetAndVersion(ctx context.Context, projectID uuid.UUID, assetID uuid.UUID, versionNum int) (*domain.DataAssetVersion, error)
	FindByChecksum(ctx context.Context, assetID uuid.UUID, checksum string) (*domain.DataAssetVersion, error)
	Update(ctx context.Context, projectID uuid.UUID, version *domain.DataAssetVersion) error
	List(ctx context.Context, filter VersionListFilter) ([]*domain.DataAssetVersion, int, error)
	CountReferencedByRuns(ctx context.Context, assetID uuid.UUID) (int, error)
}

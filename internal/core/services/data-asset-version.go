package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"workspace-registry-service/internal/core/domain"
	ports "workspace-registry-service/internal/core/ports/output"
)

type DataAssetVersionService struct {
	repo      ports.DataAssetVersionRepository
	assetRepo ports.DataAssetRepository
}

func NewDataAssetVersionService(repo ports.DataAssetVersionRepository, assetRepo ports.DataAssetRepository) *DataAssetVersionService {
	return &DataAssetVersionService{repo: repo, assetRepo: assetRepo}
}

// Register creates the next version of an asset. Registering a checksum the
// asset already carries is idempotent and returns the existing version without
// bumping the counter.
func (s *DataAssetVersionService) Register(ctx context.Context, projectID uuid.UUID, assetID uuid.UUID, uri, checksum, format, description, createdBy string, sizeBytes int64, labels map[string]string) (*domain.DataAssetVersion, error) {
	// Verify parent asset exists AND belongs to this project
	if _, err := s.assetRepo.GetByID(ctx, projectID, assetID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(uri) == "" {
		return nil, domain.ErrInvalidURI
	}
	checksum = strings.ToLower(strings.TrimSpace(checksum))
	if err := domain.ValidateChecksum(checksum); err != nil {
		return nil, err
	}

	if existing, err := s.repo.FindByChecksum(ctx, assetID, checksum); err == nil {
		return existing, nil
	} else if !errors.Is(err, domain.ErrVersionNotFound) {
		return nil, err
	}

	if labels == nil {
		labels = make(map[string]string)
	}

	now := time.Now()
	version := &domain.DataAssetVersion{
		ID:          uuid.New(),
		CreatedAt:   now,
		UpdatedAt:   now,
		DataAssetID: assetID,
		URI:         uri,
		Checksum:    checksum,
		SizeBytes:   sizeBytes,
		Format:      format,
		Description: description,
		Status:      domain.VersionStatusReady,
		CreatedBy:   createdBy,
		Labels:      labels,
	}

	if err := s.repo.Create(ctx, version); err != nil {
		// A concurrent registration of the same checksum can win the insert
		// after our pre-check; resolve to the row it created.
		if errors.Is(err, domain.ErrVersionConflict) {
			if existing, findErr := s.repo.FindByChecksum(ctx, assetID, checksum); findErr == nil {
				return existing, nil
			}
		}
		return nil, err
	}

	return s.repo.GetByID(ctx, projectID, version.ID)
}

func (s *DataAssetVersionService) Get(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.DataAssetVersion, error) {
	return s.repo.GetByID(ctx, projectID, id)
}

func (s *DataAssetVersionService) GetByAssetAndVersion(ctx context.Context, projectID uuid.UUID, assetID uuid.UUID, versionNum int) (*domain.DataAssetVersion, error) {
	return s.repo.GetByAssetAndVersion(ctx, projectID, assetID, versionNum)
}

// Resolve looks a version up by asset name, with versionNum <= 0 meaning the
// latest READY version. Used by run submission to pin data bindings.
func (s *DataAssetVersionService) Resolve(ctx context.Context, projectID uuid.UUID, assetName string, versionNum int) (*domain.DataAssetVersion, error) {
	asset, err := s.assetRepo.GetByName(ctx, projectID, assetName)
	if err != nil {
		return nil, err
	}

	if versionNum > 0 {
		version, err := s.repo.GetByAssetAndVersion(ctx, projectID, asset.ID, versionNum)
		if err != nil {
			return nil, err
		}
		if version.Status != domain.VersionStatusReady {
			return nil, domain.ErrVersionNotReady
		}
		return version, nil
	}

	versions, _, err := s.repo.List(ctx, ports.VersionListFilter{
		ProjectID:   projectID,
		DataAssetID: asset.ID,
		Status:      string(domain.VersionStatusReady),
		SortBy:      "version",
		Order:       "desc",
		Limit:       1,
	})
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, domain.ErrVersionNotFound
	}
	return versions[0], nil
}

func (s *DataAssetVersionService) List(ctx context.Context, filter ports.VersionListFilter) ([]*domain.DataAssetVersion, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

// Update may touch description, labels and status only. URI and checksum are
// immutable once registered.
func (s *DataAssetVersionService) Update(ctx context.Context, projectID uuid.UUID, id uuid.UUID, updates map[string]interface{}) (*domain.DataAssetVersion, error) {
	if _, ok := updates["uri"]; ok {
		return nil, domain.ErrVersionImmutable
	}
	if _, ok := updates["checksum"]; ok {
		return nil, domain.ErrVersionImmutable
	}

	version, err := s.repo.GetByID(ctx, projectID, id)
	if err != nil {
		return nil, err
	}

	if v, ok := updates["description"]; ok && v != nil {
		version.Description = v.(string)
	}
	if v, ok := updates["status"]; ok && v != nil {
		status := v.(string)
		if err := domain.ValidateVersionStatus(status); err != nil {
			return nil, err
		}
		version.Status = domain.VersionStatus(status)
	}
	if v, ok := updates["labels"]; ok && v != nil {
		version.Labels = v.(map[string]string)
	}

	if err := s.repo.Update(ctx, projectID, version); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, projectID, id)
}

package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"workspace-registry-service/internal/core/domain"
	ports "workspace-registry-service/internal/core/ports/output"
)

type DataAssetService struct {
	repo        ports.DataAssetRepository
	versionRepo ports.DataAssetVersionRepository
}

func NewDataAssetService(repo ports.DataAssetRepository, versionRepo ports.DataAssetVersionRepository) *DataAssetService {
	return &DataAssetService{repo: repo, versionRepo: versionRepo}
}

func (s *DataAssetService) Create(ctx context.Context, projectID uuid.UUID, name, description, kind, ownerEmail string, labels map[string]string) (*domain.DataAsset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidAssetName
	}
	k, err := domain.NormalizeAssetKind(kind)
	if err != nil {
		return nil, err
	}
	if k == "" {
		k = domain.AssetKindFolder
	}
	if labels == nil {
		labels = make(map[string]string)
	}

	now := time.Now()
	asset := &domain.DataAsset{
		ID:          uuid.New(),
		CreatedAt:   now,
		UpdatedAt:   now,
		ProjectID:   projectID,
		Name:        name,
		Slug:        domain.Slugify(name),
		Description: description,
		Kind:        k,
		State:       domain.AssetStateLive,
		OwnerEmail:  ownerEmail,
		Labels:      labels,
	}

	if err := s.repo.Create(ctx, asset); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, projectID, asset.ID)
}

func (s *DataAssetService) Get(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.DataAsset, error) {
	return s.repo.GetByID(ctx, projectID, id)
}

func (s *DataAssetService) GetByName(ctx context.Context, projectID uuid.UUID, name string) (*domain.DataAsset, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrInvalidAssetName
	}
	return s.repo.GetByName(ctx, projectID, name)
}

func (s *DataAssetService) List(ctx context.Context, filter ports.AssetListFilter) ([]*domain.DataAsset, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

func (s *DataAssetService) Update(ctx context.Context, projectID uuid.UUID, id uuid.UUID, updates map[string]interface{}) (*domain.DataAsset, error) {
	asset, err := s.repo.GetByID(ctx, projectID, id)
	if err != nil {
		return nil, err
	}

	if v, ok := updates["description"]; ok && v != nil {
		asset.Description = v.(string)
	}
	if v, ok := updates["state"]; ok && v != nil {
		state := domain.AssetState(v.(string))
		if state != domain.AssetStateLive && state != domain.AssetStateArchived {
			return nil, domain.ErrInvalidAssetState
		}
		asset.State = state
	}
	if v, ok := updates["labels"]; ok && v != nil {
		asset.Labels = v.(map[string]string)
	}

	if err := s.repo.Update(ctx, projectID, asset); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, projectID, id)
}

func (s *DataAssetService) Archive(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.DataAsset, error) {
	return s.Update(ctx, projectID, id, map[string]interface{}{"state": string(domain.AssetStateArchived)})
}

// Delete removes an asset only when it is archived and none of its versions is
// referenced by an experiment run.
func (s *DataAssetService) Delete(ctx context.Context, projectID uuid.UUID, id uuid.UUID) error {
	asset, err := s.repo.GetByID(ctx, projectID, id)
	if err != nil {
		return err
	}
	if asset.State != domain.AssetStateArchived {
		return domain.ErrAssetNotArchived
	}

	referenced, err := s.versionRepo.CountReferencedByRuns(ctx, id)
	if err != nil {
		return err
	}
	if referenced > 0 {
		return domain.ErrVersionReferenced
	}

	return s.repo.Delete(ctx, projectID, id)
}

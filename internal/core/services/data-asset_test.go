package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"workspace-registry-service/internal/core/domain"
	"workspace-registry-service/internal/core/ports/output"
	"workspace-registry-service/internal/testutil"
)

func TestDataAssetService_Create(t *testing.T) {
	repo := new(testutil.MockDataAssetRepo)
	versionRepo := new(testutil.MockDataAssetVersionRepo)
	svc := NewDataAssetService(repo, versionRepo)

	projectID := uuid.New()
	assetID := uuid.New()

	returned := &domain.DataAsset{
		ID:        assetID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		ProjectID: projectID,
		Name:      "sec-filings",
		Slug:      "sec-filings",
		Kind:      domain.AssetKindFolder,
		State:     domain.AssetStateLive,
		Labels:    map[string]string{},
	}

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.DataAsset")).Return(nil)
	repo.On("GetByID", mock.Anything, projectID, mock.AnythingOfType("uuid.UUID")).Return(returned, nil)

	asset, err := svc.Create(context.Background(), projectID, "sec-filings", "10-K documents", "uri_folder", "owner@test.com", nil)
	assert.NoError(t, err)
	assert.Equal(t, "sec-filings", asset.Name)
	assert.Equal(t, domain.AssetStateLive, asset.State)
	repo.AssertExpectations(t)
}

func TestDataAssetService_Create_EmptyName(t *testing.T) {
	svc := NewDataAssetService(new(testutil.MockDataAssetRepo), new(testutil.MockDataAssetVersionRepo))

	_, err := svc.Create(context.Background(), uuid.New(), "  ", "", "uri_folder", "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidAssetName)
}

func TestDataAssetService_Create_BadKind(t *testing.T) {
	svc := NewDataAssetService(new(testutil.MockDataAssetRepo), new(testutil.MockDataAssetVersionRepo))

	_, err := svc.Create(context.Background(), uuid.New(), "x", "", "zip", "", nil)
	assert.ErrorIs(t, err, domain.ErrUnsupportedAssetKind)
}

func TestDataAssetService_Create_KindAlias(t *testing.T) {
	repo := new(testutil.MockDataAssetRepo)
	svc := NewDataAssetService(repo, new(testutil.MockDataAssetVersionRepo))

	projectID := uuid.New()
	returned := &domain.DataAsset{ID: uuid.New(), Kind: domain.AssetKindFolder}

	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.DataAsset) bool {
		return a.Kind == domain.AssetKindFolder
	})).Return(nil)
	repo.On("GetByID", mock.Anything, projectID, mock.AnythingOfType("uuid.UUID")).Return(returned, nil)

	asset, err := svc.Create(context.Background(), projectID, "sec-filings", "", "folder", "", nil)
	assert.NoError(t, err)
	assert.Equal(t, domain.AssetKindFolder, asset.Kind)
	repo.AssertExpectations(t)
}

func TestNormalizeAssetKind_Aliases(t *testing.T) {
	for alias, want := range map[string]domain.AssetKind{
		"file":    domain.AssetKindFile,
		"folder":  domain.AssetKindFolder,
		"table":   domain.AssetKindTable,
		"MLTable": domain.AssetKindTable,
	} {
		kind, err := domain.NormalizeAssetKind(alias)
		assert.NoError(t, err)
		assert.Equal(t, want, kind)
	}
}

func TestDataAssetService_Create_NameConflict(t *testing.T) {
	repo := new(testutil.MockDataAssetRepo)
	svc := NewDataAssetService(repo, new(testutil.MockDataAssetVersionRepo))

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.DataAsset")).Return(domain.ErrAssetNameConflict)

	_, err := svc.Create(context.Background(), uuid.New(), "dup", "", "uri_file", "", nil)
	assert.ErrorIs(t, err, domain.ErrAssetNameConflict)
}

func TestDataAssetService_List_ClampsLimit(t *testing.T) {
	repo := new(testutil.MockDataAssetRepo)
	svc := NewDataAssetService(repo, new(testutil.MockDataAssetVersionRepo))

	repo.On("List", mock.Anything, mock.MatchedBy(func(f ports.AssetListFilter) bool {
		return f.Limit == 100
	})).Return([]*domain.DataAsset{}, 0, nil)

	_, _, err := svc.List(context.Background(), ports.AssetListFilter{Limit: 500})
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDataAssetService_Update_InvalidState(t *testing.T) {
	repo := new(testutil.MockDataAssetRepo)
	svc := NewDataAssetService(repo, new(testutil.MockDataAssetVersionRepo))

	projectID := uuid.New()
	id := uuid.New()
	repo.On("GetByID", mock.Anything, projectID, id).Return(&domain.DataAsset{ID: id, State: domain.AssetStateLive}, nil)

	_, err := svc.Update(context.Background(), projectID, id, map[string]interface{}{"state": "RETIRED"})
	assert.ErrorIs(t, err, domain.ErrInvalidAssetState)
}

func TestDataAssetService_Delete_RequiresArchived(t *testing.T) {
	repo := new(testutil.MockDataAssetRepo)
	svc := NewDataAssetService(repo, new(testutil.MockDataAssetVersionRepo))

	projectID := uuid.New()
	id := uuid.New()
	repo.On("GetByID", mock.Anything, projectID, id).Return(&domain.DataAsset{ID: id, State: domain.AssetStateLive}, nil)

	err := svc.Delete(context.Background(), projectID, id)
	assert.ErrorIs(t, err, domain.ErrAssetNotArchived)
}

func TestDataAssetService_Delete_ReferencedVersions(t *testing.T) {
	repo := new(testutil.MockDataAssetRepo)
	versionRepo := new(testutil.MockDataAssetVersionRepo)
	svc := NewDataAssetService(repo, versionRepo)

	projectID := uuid.New()
	id := uuid.New()
	repo.On("GetByID", mock.Anything, projectID, id).Return(&domain.DataAsset{ID: id, State: domain.AssetStateArchived}, nil)
	versionRepo.On("CountReferencedByRuns", mock.Anything, id).Return(2, nil)

	err := svc.Delete(context.Background(), projectID, id)
	assert.ErrorIs(t, err, domain.ErrVersionReferenced)
}

func TestDataAssetService_Delete_Archived(t *testing.T) {
	repo := new(testutil.MockDataAssetRepo)
	versionRepo := new(testutil.MockDataAssetVersionRepo)
	svc := NewDataAssetService(repo, versionRepo)

	projectID := uuid.New()
	id := uuid.New()
	repo.On("GetByID", mock.Anything, projectID, id).Return(&domain.DataAsset{ID: id, State: domain.AssetStateArchived}, nil)
	versionRepo.On("CountReferencedByRuns", mock.Anything, id).Return(0, nil)
	repo.On("Delete", mock.Anything, projectID, id).Return(nil)

	err := svc.Delete(context.Background(), projectID, id)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

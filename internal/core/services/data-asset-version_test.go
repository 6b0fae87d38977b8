package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"workspace-registry-service/internal/core/domain"
	"workspace-registry-service/internal/core/ports/output"
	"workspace-registry-service/internal/testutil"
)

const testChecksum = "a665a45920422f9d417e4867efdc4fb8a04a1f3fff1fa07e998e86f7f7a27ae3"

func TestDataAssetVersionService_Register(t *testing.T) {
	repo := new(testutil.MockDataAssetVersionRepo)
	assetRepo := new(testutil.MockDataAssetRepo)
	svc := NewDataAssetVersionService(repo, assetRepo)

	projectID := uuid.New()
	assetID := uuid.New()

	assetRepo.On("GetByID", mock.Anything, projectID, assetID).Return(&domain.DataAsset{ID: assetID}, nil)
	repo.On("FindByChecksum", mock.Anything, assetID, testChecksum).Return(nil, domain.ErrVersionNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.DataAssetVersion")).Return(nil)
	repo.On("GetByID", mock.Anything, projectID, mock.AnythingOfType("uuid.UUID")).Return(&domain.DataAssetVersion{
		ID:          uuid.New(),
		DataAssetID: assetID,
		Version:     1,
		URI:         "azureml://data/sec-filings",
		Checksum:    testChecksum,
		Status:      domain.VersionStatusReady,
	}, nil)

	version, err := svc.Register(context.Background(), projectID, assetID, "azureml://data/sec-filings", testChecksum, "parquet", "", "me@test.com", 1024, nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, version.Version)
	assert.Equal(t, domain.VersionStatusReady, version.Status)
	repo.AssertExpectations(t)
}

func TestDataAssetVersionService_Register_IdempotentChecksum(t *testing.T) {
	repo := new(testutil.MockDataAssetVersionRepo)
	assetRepo := new(testutil.MockDataAssetRepo)
	svc := NewDataAssetVersionService(repo, assetRepo)

	projectID := uuid.New()
	assetID := uuid.New()
	existing := &domain.DataAssetVersion{ID: uuid.New(), DataAssetID: assetID, Version: 3, Checksum: testChecksum}

	assetRepo.On("GetByID", mock.Anything, projectID, assetID).Return(&domain.DataAsset{ID: assetID}, nil)
	repo.On("FindByChecksum", mock.Anything, assetID, testChecksum).Return(existing, nil)

	version, err := svc.Register(context.Background(), projectID, assetID, "azureml://data/other-uri", testChecksum, "", "", "", 0, nil)
	assert.NoError(t, err)
	assert.Equal(t, 3, version.Version)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDataAssetVersionService_Register_ConcurrentChecksumRace(t *testing.T) {
	repo := new(testutil.MockDataAssetVersionRepo)
	assetRepo := new(testutil.MockDataAssetRepo)
	svc := NewDataAssetVersionService(repo, assetRepo)

	projectID := uuid.New()
	assetID := uuid.New()
	winner := &domain.DataAssetVersion{ID: uuid.New(), DataAssetID: assetID, Version: 2, Checksum: testChecksum}

	// Pre-check misses, a concurrent registration wins the insert, and the
	// loser resolves the existing row instead of surfacing an error.
	assetRepo.On("GetByID", mock.Anything, projectID, assetID).Return(&domain.DataAsset{ID: assetID}, nil)
	repo.On("FindByChecksum", mock.Anything, assetID, testChecksum).Return(nil, domain.ErrVersionNotFound).Once()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.DataAssetVersion")).Return(domain.ErrVersionConflict)
	repo.On("FindByChecksum", mock.Anything, assetID, testChecksum).Return(winner, nil).Once()

	version, err := svc.Register(context.Background(), projectID, assetID, "azureml://data/sec-filings", testChecksum, "", "", "", 0, nil)
	assert.NoError(t, err)
	assert.Equal(t, 2, version.Version)
	repo.AssertExpectations(t)
}

func TestDataAssetVersionService_Register_ConflictWithoutExistingRow(t *testing.T) {
	repo := new(testutil.MockDataAssetVersionRepo)
	assetRepo := new(testutil.MockDataAssetRepo)
	svc := NewDataAssetVersionService(repo, assetRepo)

	projectID := uuid.New()
	assetID := uuid.New()

	assetRepo.On("GetByID", mock.Anything, projectID, assetID).Return(&domain.DataAsset{ID: assetID}, nil)
	repo.On("FindByChecksum", mock.Anything, assetID, testChecksum).Return(nil, domain.ErrVersionNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.DataAssetVersion")).Return(domain.ErrVersionConflict)

	_, err := svc.Register(context.Background(), projectID, assetID, "azureml://data/sec-filings", testChecksum, "", "", "", 0, nil)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
}

func TestDataAssetVersionService_Register_ChecksumNormalized(t *testing.T) {
	repo := new(testutil.MockDataAssetVersionRepo)
	assetRepo := new(testutil.MockDataAssetRepo)
	svc := NewDataAssetVersionService(repo, assetRepo)

	projectID := uuid.New()
	assetID := uuid.New()
	existing := &domain.DataAssetVersion{ID: uuid.New(), Version: 1, Checksum: testChecksum}

	assetRepo.On("GetByID", mock.Anything, projectID, assetID).Return(&domain.DataAsset{ID: assetID}, nil)
	repo.On("FindByChecksum", mock.Anything, assetID, testChecksum).Return(existing, nil)

	_, err := svc.Register(context.Background(), projectID, assetID, "uri", "  "+strings.ToUpper(testChecksum)+"  ", "", "", "", 0, nil)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDataAssetVersionService_Register_BadChecksum(t *testing.T) {
	repo := new(testutil.MockDataAssetVersionRepo)
	assetRepo := new(testutil.MockDataAssetRepo)
	svc := NewDataAssetVersionService(repo, assetRepo)

	projectID := uuid.New()
	assetID := uuid.New()
	assetRepo.On("GetByID", mock.Anything, projectID, assetID).Return(&domain.DataAsset{ID: assetID}, nil)

	_, err := svc.Register(context.Background(), projectID, assetID, "uri", "not-a-sha", "", "", "", 0, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidChecksum)
}

func TestDataAssetVersionService_Register_EmptyURI(t *testing.T) {
	repo := new(testutil.MockDataAssetVersionRepo)
	assetRepo := new(testutil.MockDataAssetRepo)
	svc := NewDataAssetVersionService(repo, assetRepo)

	projectID := uuid.New()
	assetID := uuid.New()
	assetRepo.On("GetByID", mock.Anything, projectID, assetID).Return(&domain.DataAsset{ID: assetID}, nil)

	_, err := svc.Register(context.Background(), projectID, assetID, "   ", testChecksum, "", "", "", 0, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidURI)
}

func TestDataAssetVersionService_Resolve_Pinned(t *testing.T) {
	repo := new(testutil.MockDataAssetVersionRepo)
	assetRepo := new(testutil.MockDataAssetRepo)
	svc := NewDataAssetVersionService(repo, assetRepo)

	projectID := uuid.New()
	assetID := uuid.New()
	assetRepo.On("GetByName", mock.Anything, projectID, "sec-filings").Return(&domain.DataAsset{ID: assetID, Name: "sec-filings"}, nil)
	repo.On("GetByAssetAndVersion", mock.Anything, projectID, assetID, 2).Return(&domain.DataAssetVersion{
		Version: 2, Status: domain.VersionStatusReady,
	}, nil)

	version, err := svc.Resolve(context.Background(), projectID, "sec-filings", 2)
	assert.NoError(t, err)
	assert.Equal(t, 2, version.Version)
}

func TestDataAssetVersionService_Resolve_PinnedNotReady(t *testing.T) {
	repo := new(testutil.MockDataAssetVersionRepo)
	assetRepo := new(testutil.MockDataAssetRepo)
	svc := NewDataAssetVersionService(repo, assetRepo)

	projectID := uuid.New()
	assetID := uuid.New()
	assetRepo.On("GetByName", mock.Anything, projectID, "sec-filings").Return(&domain.DataAsset{ID: assetID}, nil)
	repo.On("GetByAssetAndVersion", mock.Anything, projectID, assetID, 4).Return(&domain.DataAssetVersion{
		Version: 4, Status: domain.VersionStatusPending,
	}, nil)

	_, err := svc.Resolve(context.Background(), projectID, "sec-filings", 4)
	assert.ErrorIs(t, err, domain.ErrVersionNotReady)
}

func TestDataAssetVersionService_Resolve_Latest(t *testing.T) {
	repo := new(testutil.MockDataAssetVersionRepo)
	assetRepo := new(testutil.MockDataAssetRepo)
	svc := NewDataAssetVersionService(repo, assetRepo)

	projectID := uuid.New()
	assetID := uuid.New()
	assetRepo.On("GetByName", mock.Anything, projectID, "sec-filings").Return(&domain.DataAsset{ID: assetID}, nil)
	repo.On("List", mock.Anything, mock.MatchedBy(func(f ports.VersionListFilter) bool {
		return f.DataAssetID == assetID && f.Status == string(domain.VersionStatusReady) && f.Limit == 1
	})).Return([]*domain.DataAssetVersion{{Version: 7, Status: domain.VersionStatusReady}}, 7, nil)

	version, err := svc.Resolve(context.Background(), projectID, "sec-filings", 0)
	assert.NoError(t, err)
	assert.Equal(t, 7, version.Version)
}

func TestDataAssetVersionService_Resolve_NoReadyVersion(t *testing.T) {
	repo := new(testutil.MockDataAssetVersionRepo)
	assetRepo := new(testutil.MockDataAssetRepo)
	svc := NewDataAssetVersionService(repo, assetRepo)

	projectID := uuid.New()
	assetID := uuid.New()
	assetRepo.On("GetByName", mock.Anything, projectID, "empty-asset").Return(&domain.DataAsset{ID: assetID}, nil)
	repo.On("List", mock.Anything, mock.AnythingOfType("ports.VersionListFilter")).Return([]*domain.DataAssetVersion{}, 0, nil)

	_, err := svc.Resolve(context.Background(), projectID, "empty-asset", 0)
	assert.ErrorIs(t, err, domain.ErrVersionNotFound)
}

func TestDataAssetVersionService_Update_ImmutableFields(t *testing.T) {
	svc := NewDataAssetVersionService(new(testutil.MockDataAssetVersionRepo), new(testutil.MockDataAssetRepo))

	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), map[string]interface{}{"uri": "new-uri"})
	assert.ErrorIs(t, err, domain.ErrVersionImmutable)

	_, err = svc.Update(context.Background(), uuid.New(), uuid.New(), map[string]interface{}{"checksum": testChecksum})
	assert.ErrorIs(t, err, domain.ErrVersionImmutable)
}

func TestDataAssetVersionService_Update_MutableFields(t *testing.T) {
	repo := new(testutil.MockDataAssetVersionRepo)
	svc := NewDataAssetVersionService(repo, new(testutil.MockDataAssetRepo))

	projectID := uuid.New()
	id := uuid.New()
	stored := &domain.DataAssetVersion{ID: id, CreatedAt: time.Now(), Status: domain.VersionStatusPending}

	repo.On("GetByID", mock.Anything, projectID, id).Return(stored, nil)
	repo.On("Update", mock.Anything, projectID, mock.AnythingOfType("*domain.DataAssetVersion")).Return(nil)

	_, err := svc.Update(context.Background(), projectID, id, map[string]interface{}{
		"description": "validated",
		"status":      string(domain.VersionStatusReady),
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.VersionStatusReady, stored.Status)
	repo.AssertExpectations(t)
}

func TestDataAssetVersionService_Update_InvalidStatus(t *testing.T) {
	repo := new(testutil.MockDataAssetVersionRepo)
	svc := NewDataAssetVersionService(repo, new(testutil.MockDataAssetRepo))

	projectID := uuid.New()
	id := uuid.New()
	stored := &domain.DataAssetVersion{ID: id, CreatedAt: time.Now(), Status: domain.VersionStatusPending}

	repo.On("GetByID", mock.Anything, projectID, id).Return(stored, nil)

	_, err := svc.Update(context.Background(), projectID, id, map[string]interface{}{"status": "ARCHIVED"})
	assert.ErrorIs(t, err, domain.ErrInvalidVersionStatus)
	assert.Equal(t, domain.VersionStatusPending, stored.Status)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

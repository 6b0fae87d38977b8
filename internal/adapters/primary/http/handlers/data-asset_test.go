package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"workspace-registry-service/internal/core/domain"
	"workspace-registry-service/internal/core/ports/output"
	"workspace-registry-service/internal/core/services"
	"workspace-registry-service/internal/testutil"
)

type handlerFixture struct {
	assetRepo    *testutil.MockDataAssetRepo
	versionRepo  *testutil.MockDataAssetVersionRepo
	runRepo      *testutil.MockExperimentRunRepo
	metricRepo   *testutil.MockRunMetricRepo
	artifactRepo *testutil.MockRunArtifactRepo
	packageRepo  *testutil.MockPackageRepo
	reportRepo   *testutil.MockComplianceReportRepo
	evalRepo     *testutil.MockEvaluationReportRepo
	runner       *testutil.MockJobRunner
	router       *gin.Engine
}

func setupRouter() *handlerFixture {
	gin.SetMode(gin.TestMode)
	f := &handlerFixture{
		assetRepo:    new(testutil.MockDataAssetRepo),
		versionRepo:  new(testutil.MockDataAssetVersionRepo),
		runRepo:      new(testutil.MockExperimentRunRepo),
		metricRepo:   new(testutil.MockRunMetricRepo),
		artifactRepo: new(testutil.MockRunArtifactRepo),
		packageRepo:  new(testutil.MockPackageRepo),
		reportRepo:   new(testutil.MockComplianceReportRepo),
		evalRepo:     new(testutil.MockEvaluationReportRepo),
		runner:       new(testutil.MockJobRunner),
	}

	assetSvc := services.NewDataAssetService(f.assetRepo, f.versionRepo)
	versionSvc := services.NewDataAssetVersionService(f.versionRepo, f.assetRepo)
	runSvc := services.NewExperimentRunService(f.runRepo, f.metricRepo, f.artifactRepo, versionSvc, map[domain.ComputeTarget]ports.JobRunner{
		domain.ComputeTargetAzureML: f.runner,
	})
	packageSvc := services.NewPackageService(f.packageRepo, f.reportRepo)
	evalSvc := services.NewEvaluationService(f.evalRepo, f.runRepo)

	h := New(assetSvc, versionSvc, runSvc, packageSvc, evalSvc)
	r := gin.New()
	api := r.Group("/api/v1/workspace-registry")
	h.RegisterRoutes(api)

	f.router = r
	return f
}

func (f *handlerFixture) do(method, path string, projectID uuid.UUID, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, "/api/v1/workspace-registry"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if projectID != uuid.Nil {
		req.Header.Set("Project-ID", projectID.String())
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func testAsset(projectID uuid.UUID) *domain.DataAsset {
	return &domain.DataAsset{
		ID: uuid.New(), ProjectID: projectID,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
		Name: "sec-filings", Slug: "sec-filings",
		Kind: domain.AssetKindFolder, State: domain.AssetStateLive,
		Labels: map[string]string{},
	}
}

func TestListDataAssets(t *testing.T) {
	f := setupRouter()
	projectID := uuid.New()

	f.assetRepo.On("List", mock.Anything, mock.AnythingOfType("ports.AssetListFilter")).
		Return([]*domain.DataAsset{testAsset(projectID)}, 1, nil)

	w := f.do("GET", "/data_assets?limit=10", projectID, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, float64(1), resp["total"])
	assert.Equal(t, float64(10), resp["page_size"])
}

func TestListDataAssets_MissingProjectID(t *testing.T) {
	f := setupRouter()

	w := f.do("GET", "/data_assets", uuid.Nil, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDataAsset(t *testing.T) {
	f := setupRouter()
	projectID := uuid.New()
	asset := testAsset(projectID)

	f.assetRepo.On("GetByID", mock.Anything, projectID, asset.ID).Return(asset, nil)

	w := f.do("GET", "/data_assets/"+asset.ID.String(), projectID, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sec-filings")
}

func TestGetDataAsset_NotFound(t *testing.T) {
	f := setupRouter()
	projectID := uuid.New()
	id := uuid.New()

	f.assetRepo.On("GetByID", mock.Anything, projectID, id).Return(nil, domain.ErrAssetNotFound)

	w := f.do("GET", "/data_assets/"+id.String(), projectID, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetDataAsset_InvalidID(t *testing.T) {
	f := setupRouter()

	w := f.do("GET", "/data_assets/not-a-uuid", uuid.New(), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateDataAsset(t *testing.T) {
	f := setupRouter()
	projectID := uuid.New()

	f.assetRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.DataAsset) bool {
		return a.Name == "sec-filings" && a.Kind == domain.AssetKindFolder && a.State == domain.AssetStateLive
	})).Return(nil)
	f.assetRepo.On("GetByID", mock.Anything, projectID, mock.AnythingOfType("uuid.UUID")).
		Return(testAsset(projectID), nil)

	w := f.do("POST", "/data_assets", projectID, map[string]interface{}{
		"name": "sec-filings",
		"kind": "uri_folder",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	f.assetRepo.AssertExpectations(t)
}

func TestCreateDataAsset_NameConflict(t *testing.T) {
	f := setupRouter()
	projectID := uuid.New()

	f.assetRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.DataAsset")).
		Return(domain.ErrAssetNameConflict)

	w := f.do("POST", "/data_assets", projectID, map[string]interface{}{
		"name": "sec-filings",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateDataAsset_BadKind(t *testing.T) {
	f := setupRouter()

	w := f.do("POST", "/data_assets", uuid.New(), map[string]interface{}{
		"name": "sec-filings",
		"kind": "parquet",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateDataAsset_MissingName(t *testing.T) {
	f := setupRouter()

	w := f.do("POST", "/data_assets", uuid.New(), map[string]interface{}{
		"kind": "uri_folder",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterVersion(t *testing.T) {
	f := setupRouter()
	projectID := uuid.New()
	asset := testAsset(projectID)
	checksum := "a665a45920422f9d417e4867efdc4fb8a04a1f3fff1fa07e998e86f7f7a27ae3"

	f.assetRepo.On("GetByID", mock.Anything, projectID, asset.ID).Return(asset, nil)
	f.versionRepo.On("FindByChecksum", mock.Anything, asset.ID, checksum).Return(nil, domain.ErrVersionNotFound)
	f.versionRepo.On("Create", mock.Anything, mock.MatchedBy(func(v *domain.DataAssetVersion) bool {
		return v.DataAssetID == asset.ID && v.Checksum == checksum
	})).Return(nil)
	f.versionRepo.On("GetByID", mock.Anything, projectID, mock.AnythingOfType("uuid.UUID")).
		Return(&domain.DataAssetVersion{
			ID: uuid.New(), DataAssetID: asset.ID, Version: 1,
			URI: "abfss://data/filings", Checksum: checksum,
			Status: domain.VersionStatusReady, Labels: map[string]string{},
		}, nil)

	w := f.do("POST", "/data_assets/"+asset.ID.String()+"/versions", projectID, map[string]interface{}{
		"uri":      "abfss://data/filings",
		"checksum": checksum,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	f.versionRepo.AssertExpectations(t)
}

func TestRegisterVersion_BadChecksum(t *testing.T) {
	f := setupRouter()
	projectID := uuid.New()
	asset := testAsset(projectID)

	f.assetRepo.On("GetByID", mock.Anything, projectID, asset.ID).Return(asset, nil)

	w := f.do("POST", "/data_assets/"+asset.ID.String()+"/versions", projectID, map[string]interface{}{
		"uri":      "abfss://data/filings",
		"checksum": "not-a-digest",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"workspace-registry-service/internal/core/domain"
	"workspace-registry-service/internal/core/ports/output"
)

const testCommit = "0123456789abcdef0123456789abcdef01234567"

func testRun(projectID uuid.UUID) *domain.ExperimentRun {
	return &domain.ExperimentRun{
		ID: uuid.New(), ProjectID: projectID,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
		PackageName: "materiality", GitCommit: testCommit,
		ComputeTarget: domain.ComputeTargetAzureML,
		Status:        domain.RunStatusSubmitted,
		DataBindings:  []domain.DataBinding{{AssetName: "sec-filings", Version: 3, MountPath: "/mnt/data/sec-filings"}},
		Parameters:    map[string]string{},
	}
}

func submitBody() map[string]interface{} {
	return map[string]interface{}{
		"package_name":   "materiality",
		"git_commit":     testCommit,
		"compute_target": "azureml",
		"data_bindings": []map[string]interface{}{
			{"asset_name": "sec-filings", "version": 3, "mount_path": "/mnt/data/sec-filings"},
		},
	}
}

func TestSubmitRun(t *testing.T) {
	f := setupRouter()
	projectID := uuid.New()
	assetID := uuid.New()

	f.assetRepo.On("GetByName", mock.Anything, projectID, "sec-filings").
		Return(&domain.DataAsset{ID: assetID, ProjectID: projectID, Name: "sec-filings"}, nil)
	f.versionRepo.On("GetByAssetAndVersion", mock.Anything, projectID, assetID, 3).
		Return(&domain.DataAssetVersion{
			ID: uuid.New(), DataAssetID: assetID, Version: 3,
			URI: "abfss://data/filings/v3", Status: domain.VersionStatusReady,
		}, nil)
	f.runRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ExperimentRun")).Return(nil)
	f.runner.On("IsAvailable").Return(true)
	f.runner.On("Submit", mock.Anything, mock.AnythingOfType("*domain.ExperimentRun")).
		Return(&ports.JobSubmission{ExternalID: "aml-job-7"}, nil)
	f.runRepo.On("Update", mock.Anything, projectID, mock.MatchedBy(func(r *domain.ExperimentRun) bool {
		return r.Status == domain.RunStatusSubmitted && r.ExternalJobID == "aml-job-7"
	})).Return(nil)
	f.runRepo.On("GetByID", mock.Anything, projectID, mock.AnythingOfType("uuid.UUID")).
		Return(testRun(projectID), nil)

	w := f.do("POST", "/runs", projectID, submitBody())

	assert.Equal(t, http.StatusCreated, w.Code)
	f.runRepo.AssertExpectations(t)
	f.runner.AssertExpectations(t)
}

func TestSubmitRun_BadCommit(t *testing.T) {
	f := setupRouter()

	body := submitBody()
	body["git_commit"] = "HEAD"
	w := f.do("POST", "/runs", uuid.New(), body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitRun_RunnerNotConfigured(t *testing.T) {
	f := setupRouter()
	projectID := uuid.New()
	assetID := uuid.New()

	f.assetRepo.On("GetByName", mock.Anything, projectID, "sec-filings").
		Return(&domain.DataAsset{ID: assetID, ProjectID: projectID, Name: "sec-filings"}, nil)
	f.versionRepo.On("GetByAssetAndVersion", mock.Anything, projectID, assetID, 3).
		Return(&domain.DataAssetVersion{ID: uuid.New(), DataAssetID: assetID, Version: 3, Status: domain.VersionStatusReady}, nil)

	body := submitBody()
	body["compute_target"] = "kubernetes"
	w := f.do("POST", "/runs", projectID, body)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSubmitRun_MissingBindings(t *testing.T) {
	f := setupRouter()

	w := f.do("POST", "/runs", uuid.New(), map[string]interface{}{
		"package_name":   "materiality",
		"git_commit":     testCommit,
		"compute_target": "azureml",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRun_NotFound(t *testing.T) {
	f := setupRouter()
	projectID := uuid.New()
	id := uuid.New()

	f.runRepo.On("GetByID", mock.Anything, projectID, id).Return(nil, domain.ErrRunNotFound)

	w := f.do("GET", "/runs/"+id.String(), projectID, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelRun_AlreadyFinished(t *testing.T) {
	f := setupRouter()
	projectID := uuid.New()
	run := testRun(projectID)
	run.Status = domain.RunStatusCompleted

	f.runRepo.On("GetByID", mock.Anything, projectID, run.ID).Return(run, nil)

	w := f.do("POST", "/runs/"+run.ID.String()+"/cancel", projectID, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogRunMetric(t *testing.T) {
	f := setupRouter()
	projectID := uuid.New()
	run := testRun(projectID)

	f.runRepo.On("GetByID", mock.Anything, projectID, run.ID).Return(run, nil)
	f.metricRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.RunMetric) bool {
		return m.RunID == run.ID && m.Name == "materiality_precision" && m.Value == 0.92
	})).Return(nil)

	w := f.do("POST", "/runs/"+run.ID.String()+"/metrics", projectID, map[string]interface{}{
		"name":  "materiality_precision",
		"value": 0.92,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	f.metricRepo.AssertExpectations(t)
}

func TestEvaluateRun(t *testing.T) {
	f := setupRouter()
	projectID := uuid.New()
	run := testRun(projectID)

	f.runRepo.On("GetByID", mock.Anything, projectID, run.ID).Return(run, nil)
	f.evalRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.EvaluationReport) bool {
		return r.RunID == run.ID && r.RowCount == 2 && r.MatchedCount == 1
	})).Return(nil)

	w := f.do("POST", "/runs/"+run.ID.String()+"/evaluations", projectID, map[string]interface{}{
		"ground_truth": []map[string]interface{}{
			{"company_id": "acme", "metric_name": "revenue", "latest_yoy_pct": 5.0},
			{"company_id": "acme", "metric_name": "opex", "latest_yoy_pct": 1.0},
		},
		"responses": []map[string]interface{}{
			{"company_id": "acme", "metric_name": "revenue", "latest_yoy_pct": 5.0},
			{"company_id": "acme", "metric_name": "opex", "latest_yoy_pct": 2.0},
		},
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, 0.5, resp["materiality_precision"])
	assert.Equal(t, 0.5, resp["materiality_recall"])
	f.evalRepo.AssertExpectations(t)
}

func TestEvaluateRun_DuplicateKey(t *testing.T) {
	f := setupRouter()
	projectID := uuid.New()
	run := testRun(projectID)

	f.runRepo.On("GetByID", mock.Anything, projectID, run.ID).Return(run, nil)

	w := f.do("POST", "/runs/"+run.ID.String()+"/evaluations", projectID, map[string]interface{}{
		"ground_truth": []map[string]interface{}{
			{"company_id": "acme", "metric_name": "revenue", "latest_yoy_pct": 5.0},
			{"company_id": "acme", "metric_name": "revenue", "latest_yoy_pct": 6.0},
		},
		"responses": []map[string]interface{}{
			{"company_id": "acme", "metric_name": "revenue", "latest_yoy_pct": 5.0},
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEvaluation_NotFound(t *testing.T) {
	f := setupRouter()
	id := uuid.New()

	f.evalRepo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrEvaluationNotFound)

	w := f.do("GET", "/evaluations/"+id.String(), uuid.New(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

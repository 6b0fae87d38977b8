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
)

func testPackage(projectID uuid.UUID) *domain.WorkspacePackage {
	return &domain.WorkspacePackage{
		ID: uuid.New(), ProjectID: projectID,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
		Name: "materiality", Kind: domain.PackageKindExperiment,
		Path:   "packages/materiality",
		Labels: map[string]string{},
	}
}

func TestSyncPackage_CreatesNew(t *testing.T) {
	f := setupRouter()
	projectID := uuid.New()

	f.packageRepo.On("GetByName", mock.Anything, projectID, "materiality").
		Return(nil, domain.ErrPackageNotFound)
	f.packageRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.WorkspacePackage) bool {
		return p.Name == "materiality" && p.Kind == domain.PackageKindExperiment
	})).Return(nil)
	f.packageRepo.On("GetByID", mock.Anything, projectID, mock.AnythingOfType("uuid.UUID")).
		Return(testPackage(projectID), nil)

	w := f.do("PUT", "/packages", projectID, map[string]interface{}{
		"name": "materiality",
		"kind": "experiment",
		"path": "packages/materiality",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	f.packageRepo.AssertExpectations(t)
}

func TestSyncPackage_BadKind(t *testing.T) {
	f := setupRouter()

	w := f.do("PUT", "/packages", uuid.New(), map[string]interface{}{
		"name": "materiality",
		"kind": "notebook",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPackage_NotFound(t *testing.T) {
	f := setupRouter()
	projectID := uuid.New()

	f.packageRepo.On("GetByName", mock.Anything, projectID, "ghost").
		Return(nil, domain.ErrPackageNotFound)

	w := f.do("GET", "/packages/ghost", projectID, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordReport(t *testing.T) {
	f := setupRouter()
	projectID := uuid.New()
	pkg := testPackage(projectID)

	f.packageRepo.On("GetByName", mock.Anything, projectID, "materiality").Return(pkg, nil)
	f.reportRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.ComplianceReport) bool {
		return r.PackageID == pkg.ID && r.ErrorCount == 1 && r.WarningCount == 1
	})).Return(nil)

	w := f.do("POST", "/packages/materiality/reports", projectID, map[string]interface{}{
		"git_commit": testCommit,
		"findings": []map[string]interface{}{
			{"rule_id": "R003", "severity": "error", "path": "packages/materiality", "message": "no tests"},
			{"rule_id": "R008", "severity": "warning", "path": "bin/data/register", "message": "no usage text"},
		},
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, false, resp["passed"])
	f.reportRepo.AssertExpectations(t)
}

func TestRecordReport_CleanPasses(t *testing.T) {
	f := setupRouter()
	projectID := uuid.New()
	pkg := testPackage(projectID)

	f.packageRepo.On("GetByName", mock.Anything, projectID, "materiality").Return(pkg, nil)
	f.reportRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.ComplianceReport) bool {
		return r.ErrorCount == 0 && r.WarningCount == 0
	})).Return(nil)

	w := f.do("POST", "/packages/materiality/reports", projectID, map[string]interface{}{
		"git_commit": testCommit,
		"findings":   []map[string]interface{}{},
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, true, resp["passed"])
}

func TestGetLatestReport_NotFound(t *testing.T) {
	f := setupRouter()
	projectID := uuid.New()
	pkg := testPackage(projectID)

	f.packageRepo.On("GetByName", mock.Anything, projectID, "materiality").Return(pkg, nil)
	f.reportRepo.On("GetLatestByPackage", mock.Anything, pkg.ID).
		Return(nil, domain.ErrReportNotFound)

	w := f.do("GET", "/packages/materiality/reports/latest", projectID, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"workspace-registry-service/internal/core/domain"
	"workspace-registry-service/internal/core/ports/output"
	"workspace-registry-service/internal/testutil"
)

const testCommit = "0123456789abcdef0123456789abcdef01234567"

type runServiceFixture struct {
	repo         *testutil.MockExperimentRunRepo
	metricRepo   *testutil.MockRunMetricRepo
	artifactRepo *testutil.MockRunArtifactRepo
	versionRepo  *testutil.MockDataAssetVersionRepo
	assetRepo    *testutil.MockDataAssetRepo
	runner       *testutil.MockJobRunner
	svc          *ExperimentRunService
}

func newRunServiceFixture() *runServiceFixture {
	f := &runServiceFixture{
		repo:         new(testutil.MockExperimentRunRepo),
		metricRepo:   new(testutil.MockRunMetricRepo),
		artifactRepo: new(testutil.MockRunArtifactRepo),
		versionRepo:  new(testutil.MockDataAssetVersionRepo),
		assetRepo:    new(testutil.MockDataAssetRepo),
		runner:       new(testutil.MockJobRunner),
	}
	versionSvc := NewDataAssetVersionService(f.versionRepo, f.assetRepo)
	f.svc = NewExperimentRunService(f.repo, f.metricRepo, f.artifactRepo, versionSvc, map[domain.ComputeTarget]ports.JobRunner{
		domain.ComputeTargetAzureML: f.runner,
	})
	return f
}

func (f *runServiceFixture) expectResolve(projectID uuid.UUID, assetName string, version int) {
	assetID := uuid.New()
	f.assetRepo.On("GetByName", mock.Anything, projectID, assetName).Return(&domain.DataAsset{ID: assetID, Name: assetName}, nil)
	f.versionRepo.On("List", mock.Anything, mock.AnythingOfType("ports.VersionListFilter")).Return([]*domain.DataAssetVersion{{
		ID:      uuid.New(),
		Version: version,
		URI:     "azureml://data/" + assetName,
		Status:  domain.VersionStatusReady,
	}}, version, nil)
}

func TestExperimentRunService_Submit(t *testing.T) {
	f := newRunServiceFixture()
	projectID := uuid.New()

	f.expectResolve(projectID, "sec-filings", 3)
	f.runner.On("IsAvailable").Return(true)
	f.runner.On("Submit", mock.Anything, mock.AnythingOfType("*domain.ExperimentRun")).Return(&ports.JobSubmission{ExternalID: "aml-job-1"}, nil)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ExperimentRun")).Return(nil)
	f.repo.On("Update", mock.Anything, projectID, mock.MatchedBy(func(r *domain.ExperimentRun) bool {
		return r.Status == domain.RunStatusSubmitted && r.ExternalJobID == "aml-job-1"
	})).Return(nil)
	f.repo.On("GetByID", mock.Anything, projectID, mock.AnythingOfType("uuid.UUID")).Return(&domain.ExperimentRun{
		Status:        domain.RunStatusSubmitted,
		ExternalJobID: "aml-job-1",
		DataBindings:  []domain.DataBinding{{AssetName: "sec-filings", Version: 3}},
	}, nil)

	run, err := f.svc.Submit(context.Background(), projectID, "materiality", "", testCommit, "azureml", "img:latest", "python -m materiality", "me@test.com",
		[]RunBindingRequest{{AssetName: "sec-filings", MountPath: "/mnt/data/sec-filings"}}, nil)
	assert.NoError(t, err)
	assert.Equal(t, domain.RunStatusSubmitted, run.Status)
	assert.Equal(t, "aml-job-1", run.ExternalJobID)
	f.repo.AssertExpectations(t)
	f.runner.AssertExpectations(t)
}

func TestExperimentRunService_Submit_BadCommit(t *testing.T) {
	f := newRunServiceFixture()

	_, err := f.svc.Submit(context.Background(), uuid.New(), "materiality", "", "abc123", "azureml", "", "", "",
		[]RunBindingRequest{{AssetName: "x", MountPath: "/mnt"}}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidGitCommit)

	_, err = f.svc.Submit(context.Background(), uuid.New(), "materiality", "", strings.ToUpper(testCommit), "azureml", "", "", "",
		[]RunBindingRequest{{AssetName: "x", MountPath: "/mnt"}}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidGitCommit)
}

func TestExperimentRunService_Submit_NoBindings(t *testing.T) {
	f := newRunServiceFixture()

	_, err := f.svc.Submit(context.Background(), uuid.New(), "materiality", "", testCommit, "azureml", "", "", "", nil, nil)
	assert.ErrorIs(t, err, domain.ErrNoDataBindings)
}

func TestExperimentRunService_Submit_UnknownTarget(t *testing.T) {
	f := newRunServiceFixture()

	_, err := f.svc.Submit(context.Background(), uuid.New(), "materiality", "", testCommit, "slurm", "", "", "",
		[]RunBindingRequest{{AssetName: "x", MountPath: "/mnt"}}, nil)
	assert.ErrorIs(t, err, domain.ErrUnsupportedComputeTarget)
}

func TestExperimentRunService_Submit_RunnerNotConfigured(t *testing.T) {
	f := newRunServiceFixture()

	// kubernetes is a valid target but no runner is wired for it
	_, err := f.svc.Submit(context.Background(), uuid.New(), "materiality", "", testCommit, "kubernetes", "", "", "",
		[]RunBindingRequest{{AssetName: "x", MountPath: "/mnt"}}, nil)
	assert.ErrorIs(t, err, domain.ErrRunnerNotAvailable)
}

func TestExperimentRunService_Submit_RunnerFailureMarksRunFailed(t *testing.T) {
	f := newRunServiceFixture()
	projectID := uuid.New()

	f.expectResolve(projectID, "sec-filings", 1)
	f.runner.On("IsAvailable").Return(true)
	f.runner.On("Submit", mock.Anything, mock.AnythingOfType("*domain.ExperimentRun")).Return(nil, errors.New("azureml 503"))
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ExperimentRun")).Return(nil)
	f.repo.On("Update", mock.Anything, projectID, mock.MatchedBy(func(r *domain.ExperimentRun) bool {
		return r.Status == domain.RunStatusFailed && r.FinishedAt != nil
	})).Return(nil)

	_, err := f.svc.Submit(context.Background(), projectID, "materiality", "", testCommit, "azureml", "", "", "",
		[]RunBindingRequest{{AssetName: "sec-filings", MountPath: "/mnt/data"}}, nil)
	assert.Error(t, err)
	f.repo.AssertExpectations(t)
}

func TestExperimentRunService_SyncStatus_TerminalShortCircuits(t *testing.T) {
	f := newRunServiceFixture()
	projectID := uuid.New()
	id := uuid.New()

	f.repo.On("GetByID", mock.Anything, projectID, id).Return(&domain.ExperimentRun{
		ID: id, Status: domain.RunStatusCompleted,
	}, nil)

	run, err := f.svc.SyncStatus(context.Background(), projectID, id)
	assert.NoError(t, err)
	assert.Equal(t, domain.RunStatusCompleted, run.Status)
	f.runner.AssertNotCalled(t, "Status", mock.Anything, mock.Anything)
}

func TestExperimentRunService_SyncStatus_MapsJobState(t *testing.T) {
	f := newRunServiceFixture()
	projectID := uuid.New()
	id := uuid.New()

	f.repo.On("GetByID", mock.Anything, projectID, id).Return(&domain.ExperimentRun{
		ID: id, ComputeTarget: domain.ComputeTargetAzureML, Status: domain.RunStatusSubmitted,
	}, nil)
	f.runner.On("IsAvailable").Return(true)
	f.runner.On("Status", mock.Anything, mock.AnythingOfType("*domain.ExperimentRun")).Return(&ports.JobStatus{State: ports.JobStateSucceeded}, nil)
	f.repo.On("Update", mock.Anything, projectID, mock.MatchedBy(func(r *domain.ExperimentRun) bool {
		return r.Status == domain.RunStatusCompleted && r.FinishedAt != nil
	})).Return(nil)

	run, err := f.svc.SyncStatus(context.Background(), projectID, id)
	assert.NoError(t, err)
	assert.Equal(t, domain.RunStatusCompleted, run.Status)
	f.repo.AssertExpectations(t)
}

func TestExperimentRunService_Cancel_AlreadyFinished(t *testing.T) {
	f := newRunServiceFixture()
	projectID := uuid.New()
	id := uuid.New()

	f.repo.On("GetByID", mock.Anything, projectID, id).Return(&domain.ExperimentRun{
		ID: id, Status: domain.RunStatusFailed,
	}, nil)

	_, err := f.svc.Cancel(context.Background(), projectID, id)
	assert.ErrorIs(t, err, domain.ErrRunAlreadyFinished)
}

func TestExperimentRunService_LogMetric(t *testing.T) {
	f := newRunServiceFixture()
	projectID := uuid.New()
	id := uuid.New()

	f.repo.On("GetByID", mock.Anything, projectID, id).Return(&domain.ExperimentRun{ID: id}, nil)
	f.metricRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.RunMetric")).Return(nil)

	metric, err := f.svc.LogMetric(context.Background(), projectID, id, "materiality_precision", 0.92, 0)
	assert.NoError(t, err)
	assert.Equal(t, "materiality_precision", metric.Name)
	assert.Equal(t, 0.92, metric.Value)
	f.metricRepo.AssertExpectations(t)
}

func TestExperimentRunService_LogMetric_RunNotFound(t *testing.T) {
	f := newRunServiceFixture()
	projectID := uuid.New()
	id := uuid.New()

	f.repo.On("GetByID", mock.Anything, projectID, id).Return(nil, domain.ErrRunNotFound)

	_, err := f.svc.LogMetric(context.Background(), projectID, id, "x", 1, 0)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

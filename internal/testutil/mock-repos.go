package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"workspace-registry-service/internal/core/domain"
	"workspace-registry-service/internal/core/ports/output"
)

// MockDataAssetRepo is a mock of DataAssetRepository.
type MockDataAssetRepo struct {
	mock.Mock
}

func (m *MockDataAssetRepo) Create(ctx context.Context, asset *domain.DataAsset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockDataAssetRepo) GetByID(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.DataAsset, error) {
	args := m.Called(ctx, projectID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DataAsset), args.Error(1)
}

func (m *MockDataAssetRepo) GetByName(ctx context.Context, projectID uuid.UUID, name string) (*domain.DataAsset, error) {
	args := m.Called(ctx, projectID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DataAsset), args.Error(1)
}

func (m *MockDataAssetRepo) Update(ctx context.Context, projectID uuid.UUID, asset *domain.DataAsset) error {
	args := m.Called(ctx, projectID, asset)
	return args.Error(0)
}

func (m *MockDataAssetRepo) Delete(ctx context.Context, projectID uuid.UUID, id uuid.UUID) error {
	args := m.Called(ctx, projectID, id)
	return args.Error(0)
}

func (m *MockDataAssetRepo) List(ctx context.Context, filter ports.AssetListFilter) ([]*domain.DataAsset, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.DataAsset), args.Int(1), args.Error(2)
}

// MockDataAssetVersionRepo is a mock of DataAssetVersionRepository.
type MockDataAssetVersionRepo struct {
	mock.Mock
}

func (m *MockDataAssetVersionRepo) Create(ctx context.Context, version *domain.DataAssetVersion) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

func (m *MockDataAssetVersionRepo) GetByID(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.DataAssetVersion, error) {
	args := m.Called(ctx, projectID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DataAssetVersion), args.Error(1)
}

func (m *MockDataAssetVersionRepo) GetByAssetAndVersion(ctx context.Context, projectID uuid.UUID, assetID uuid.UUID, versionNum int) (*domain.DataAssetVersion, error) {
	args := m.Called(ctx, projectID, assetID, versionNum)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DataAssetVersion), args.Error(1)
}

func (m *MockDataAssetVersionRepo) FindByChecksum(ctx context.Context, assetID uuid.UUID, checksum string) (*domain.DataAssetVersion, error) {
	args := m.Called(ctx, assetID, checksum)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DataAssetVersion), args.Error(1)
}

func (m *MockDataAssetVersionRepo) Update(ctx context.Context, projectID uuid.UUID, version *domain.DataAssetVersion) error {
	args := m.Called(ctx, projectID, version)
	return args.Error(0)
}

func (m *MockDataAssetVersionRepo) List(ctx context.Context, filter ports.VersionListFilter) ([]*domain.DataAssetVersion, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.DataAssetVersion), args.Int(1), args.Error(2)
}

func (m *MockDataAssetVersionRepo) CountReferencedByRuns(ctx context.Context, assetID uuid.UUID) (int, error) {
	args := m.Called(ctx, assetID)
	return args.Int(0), args.Error(1)
}

// MockExperimentRunRepo is a mock of ExperimentRunRepository.
type MockExperimentRunRepo struct {
	mock.Mock
}

func (m *MockExperimentRunRepo) Create(ctx context.Context, run *domain.ExperimentRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockExperimentRunRepo) GetByID(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.ExperimentRun, error) {
	args := m.Called(ctx, projectID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExperimentRun), args.Error(1)
}

func (m *MockExperimentRunRepo) Update(ctx context.Context, projectID uuid.UUID, run *domain.ExperimentRun) error {
	args := m.Called(ctx, projectID, run)
	return args.Error(0)
}

func (m *MockExperimentRunRepo) List(ctx context.Context, filter ports.RunListFilter) ([]*domain.ExperimentRun, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.ExperimentRun), args.Int(1), args.Error(2)
}

// MockRunMetricRepo is a mock of RunMetricRepository.
type MockRunMetricRepo struct {
	mock.Mock
}

func (m *MockRunMetricRepo) Create(ctx context.Context, metric *domain.RunMetric) error {
	args := m.Called(ctx, metric)
	return args.Error(0)
}

func (m *MockRunMetricRepo) ListByRun(ctx context.Context, runID uuid.UUID) ([]*domain.RunMetric, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RunMetric), args.Error(1)
}

// MockRunArtifactRepo is a mock of RunArtifactRepository.
type MockRunArtifactRepo struct {
	mock.Mock
}

func (m *MockRunArtifactRepo) Create(ctx context.Context, artifact *domain.RunArtifact) error {
	args := m.Called(ctx, artifact)
	return args.Error(0)
}

func (m *MockRunArtifactRepo) ListByRun(ctx context.Context, runID uuid.UUID) ([]*domain.RunArtifact, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RunArtifact), args.Error(1)
}

// MockPackageRepo is a mock of PackageRepository.
type MockPackageRepo struct {
	mock.Mock
}

func (m *MockPackageRepo) Create(ctx context.Context, pkg *domain.WorkspacePackage) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

func (m *MockPackageRepo) GetByID(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.WorkspacePackage, error) {
	args := m.Called(ctx, projectID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkspacePackage), args.Error(1)
}

func (m *MockPackageRepo) GetByName(ctx context.Context, projectID uuid.UUID, name string) (*domain.WorkspacePackage, error) {
	args := m.Called(ctx, projectID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkspacePackage), args.Error(1)
}

func (m *MockPackageRepo) Update(ctx context.Context, projectID uuid.UUID, pkg *domain.WorkspacePackage) error {
	args := m.Called(ctx, projectID, pkg)
	return args.Error(0)
}

func (m *MockPackageRepo) Delete(ctx context.Context, projectID uuid.UUID, id uuid.UUID) error {
	args := m.Called(ctx, projectID, id)
	return args.Error(0)
}

func (m *MockPackageRepo) List(ctx context.Context, filter ports.PackageListFilter) ([]*domain.WorkspacePackage, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.WorkspacePackage), args.Int(1), args.Error(2)
}

// MockComplianceReportRepo is a mock of ComplianceReportRepository.
type MockComplianceReportRepo struct {
	mock.Mock
}

func (m *MockComplianceReportRepo) Create(ctx context.Context, report *domain.ComplianceReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockComplianceReportRepo) GetLatestByPackage(ctx context.Context, packageID uuid.UUID) (*domain.ComplianceReport, error) {
	args := m.Called(ctx, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ComplianceReport), args.Error(1)
}

func (m *MockComplianceReportRepo) ListByPackage(ctx context.Context, packageID uuid.UUID, limit int) ([]*domain.ComplianceReport, error) {
	args := m.Called(ctx, packageID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ComplianceReport), args.Error(1)
}

// MockEvaluationReportRepo is a mock of EvaluationReportRepository.
type MockEvaluationReportRepo struct {
	mock.Mock
}

func (m *MockEvaluationReportRepo) Create(ctx context.Context, report *domain.EvaluationReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockEvaluationReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.EvaluationReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EvaluationReport), args.Error(1)
}

func (m *MockEvaluationReportRepo) ListByRun(ctx context.Context, runID uuid.UUID) ([]*domain.EvaluationReport, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EvaluationReport), args.Error(1)
}

// MockJobRunner is a mock of JobRunner.
type MockJobRunner struct {
	mock.Mock
}

func (m *MockJobRunner) IsAvailable() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockJobRunner) Submit(ctx context.Context, run *domain.ExperimentRun) (*ports.JobSubmission, error) {
	args := m.Called(ctx, run)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.JobSubmission), args.Error(1)
}

func (m *MockJobRunner) Status(ctx context.Context, run *domain.ExperimentRun) (*ports.JobStatus, error) {
	args := m.Called(ctx, run)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.JobStatus), args.Error(1)
}

func (m *MockJobRunner) Cancel(ctx context.Context, run *domain.ExperimentRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"workspace-registry-service/internal/core/domain"
	ports "workspace-registry-service/internal/core/ports/output"
)

// RunBindingRequest names a data asset to mount. Version <= 0 resolves to the
// latest READY version at submission time.
type RunBindingRequest struct {
	AssetName string
	Version   int
	MountPath string
}

type ExperimentRunService struct {
	repo         ports.ExperimentRunRepository
	metricRepo   ports.RunMetricRepository
	artifactRepo ports.RunArtifactRepository
	versionSvc   *DataAssetVersionService
	runners      map[domain.ComputeTarget]ports.JobRunner
}

func NewExperimentRunService(
	repo ports.ExperimentRunRepository,
	metricRepo ports.RunMetricRepository,
	artifactRepo ports.RunArtifactRepository,
	versionSvc *DataAssetVersionService,
	runners map[domain.ComputeTarget]ports.JobRunner,
) *ExperimentRunService {
	if runners == nil {
		runners = make(map[domain.ComputeTarget]ports.JobRunner)
	}
	return &ExperimentRunService{
		repo:         repo,
		metricRepo:   metricRepo,
		artifactRepo: artifactRepo,
		versionSvc:   versionSvc,
		runners:      runners,
	}
}

func (s *ExperimentRunService) runner(target domain.ComputeTarget) (ports.JobRunner, error) {
	r, ok := s.runners[target]
	if !ok || r == nil || !r.IsAvailable() {
		return nil, domain.ErrRunnerNotAvailable
	}
	return r, nil
}

// Submit validates the run, pins every data binding to a concrete READY
// version, records the run, and hands it to the compute target's runner.
func (s *ExperimentRunService) Submit(ctx context.Context, projectID uuid.UUID, packageName, displayName, gitCommit, target, containerImage, command, createdBy string, bindings []RunBindingRequest, parameters map[string]string) (*domain.ExperimentRun, error) {
	packageName = strings.TrimSpace(packageName)
	if packageName == "" {
		return nil, domain.ErrInvalidRunPackage
	}
	if err := domain.ValidateGitCommit(gitCommit); err != nil {
		return nil, err
	}
	if err := domain.ValidateComputeTarget(target); err != nil {
		return nil, err
	}
	if len(bindings) == 0 {
		return nil, domain.ErrNoDataBindings
	}

	computeTarget := domain.ComputeTarget(target)
	runner, err := s.runner(computeTarget)
	if err != nil {
		return nil, err
	}

	resolved := make([]domain.DataBinding, 0, len(bindings))
	for _, b := range bindings {
		if strings.TrimSpace(b.MountPath) == "" {
			return nil, domain.ErrInvalidMountPath
		}
		version, err := s.versionSvc.Resolve(ctx, projectID, b.AssetName, b.Version)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, domain.DataBinding{
			AssetName: b.AssetName,
			Version:   version.Version,
			VersionID: version.ID,
			URI:       version.URI,
			MountPath: b.MountPath,
		})
	}

	if parameters == nil {
		parameters = make(map[string]string)
	}
	if displayName == "" {
		displayName = packageName + "-" + gitCommit[:8]
	}

	now := time.Now()
	run := &domain.ExperimentRun{
		ID:             uuid.New(),
		CreatedAt:      now,
		UpdatedAt:      now,
		ProjectID:      projectID,
		PackageName:    packageName,
		DisplayName:    displayName,
		GitCommit:      gitCommit,
		ComputeTarget:  computeTarget,
		Status:         domain.RunStatusPending,
		ContainerImage: containerImage,
		Command:        command,
		DataBindings:   resolved,
		Parameters:     parameters,
		CreatedBy:      createdBy,
	}

	if err := s.repo.Create(ctx, run); err != nil {
		return nil, err
	}

	submission, err := runner.Submit(ctx, run)
	if err != nil {
		run.Status = domain.RunStatusFailed
		finished := time.Now()
		run.FinishedAt = &finished
		if updateErr := s.repo.Update(ctx, projectID, run); updateErr != nil {
			log.WithError(updateErr).Error("mark run failed after submit error")
		}
		return nil, err
	}

	run.Status = domain.RunStatusSubmitted
	run.ExternalJobID = submission.ExternalID
	if err := s.repo.Update(ctx, projectID, run); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, projectID, run.ID)
}

func (s *ExperimentRunService) Get(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.ExperimentRun, error) {
	return s.repo.GetByID(ctx, projectID, id)
}

func (s *ExperimentRunService) List(ctx context.Context, filter ports.RunListFilter) ([]*domain.ExperimentRun, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

// SyncStatus polls the runner and folds the job state into the run status.
func (s *ExperimentRunService) SyncStatus(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.ExperimentRun, error) {
	run, err := s.repo.GetByID(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	if run.Status.IsTerminal() {
		return run, nil
	}

	runner, err := s.runner(run.ComputeTarget)
	if err != nil {
		return nil, err
	}

	status, err := runner.Status(ctx, run)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	switch status.State {
	case ports.JobStateRunning:
		if run.StartedAt == nil {
			run.StartedAt = &now
		}
		run.Status = domain.RunStatusRunning
	case ports.JobStateSucceeded:
		run.Status = domain.RunStatusCompleted
		run.FinishedAt = &now
	case ports.JobStateFailed:
		run.Status = domain.RunStatusFailed
		run.FinishedAt = &now
	case ports.JobStateCanceled:
		run.Status = domain.RunStatusCanceled
		run.FinishedAt = &now
	}

	if err := s.repo.Update(ctx, projectID, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *ExperimentRunService) Cancel(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.ExperimentRun, error) {
	run, err := s.repo.GetByID(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	if run.Status.IsTerminal() {
		return nil, domain.ErrRunAlreadyFinished
	}

	runner, err := s.runner(run.ComputeTarget)
	if err != nil {
		return nil, err
	}
	if err := runner.Cancel(ctx, run); err != nil {
		return nil, err
	}

	now := time.Now()
	run.Status = domain.RunStatusCanceled
	run.FinishedAt = &now
	if err := s.repo.Update(ctx, projectID, run); err != nil {
		return nil, err
	}
	return run, nil
}

// LogMetric records one metric point reported by a running job.
func (s *ExperimentRunService) LogMetric(ctx context.Context, projectID uuid.UUID, runID uuid.UUID, name string, value float64, step int) (*domain.RunMetric, error) {
	if _, err := s.repo.GetByID(ctx, projectID, runID); err != nil {
		return nil, err
	}

	metric := &domain.RunMetric{
		ID:       uuid.New(),
		RunID:    runID,
		Name:     name,
		Value:    value,
		Step:     step,
		LoggedAt: time.Now(),
	}
	if err := s.metricRepo.Create(ctx, metric); err != nil {
		return nil, err
	}
	return metric, nil
}

func (s *ExperimentRunService) ListMetrics(ctx context.Context, projectID uuid.UUID, runID uuid.UUID) ([]*domain.RunMetric, error) {
	if _, err := s.repo.GetByID(ctx, projectID, runID); err != nil {
		return nil, err
	}
	return s.metricRepo.ListByRun(ctx, runID)
}

// LogArtifact records an output artifact reported by a running job.
func (s *ExperimentRunService) LogArtifact(ctx context.Context, projectID uuid.UUID, runID uuid.UUID, name, uri string, sizeBytes int64) (*domain.RunArtifact, error) {
	if _, err := s.repo.GetByID(ctx, projectID, runID); err != nil {
		return nil, err
	}

	artifact := &domain.RunArtifact{
		ID:        uuid.New(),
		RunID:     runID,
		Name:      name,
		URI:       uri,
		SizeBytes: sizeBytes,
		CreatedAt: time.Now(),
	}
	if err := s.artifactRepo.Create(ctx, artifact); err != nil {
		return nil, err
	}
	return artifact, nil
}

func (s *ExperimentRunService) ListArtifacts(ctx context.Context, projectID uuid.UUID, runID uuid.UUID) ([]*domain.RunArtifact, error) {
	if _, err := s.repo.GetByID(ctx, projectID, runID); err != nil {
		return nil, err
	}
	return s.artifactRepo.ListByRun(ctx, runID)
}

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

type PackageService struct {
	repo       ports.PackageRepository
	reportRepo ports.ComplianceReportRepository
}

func NewPackageService(repo ports.PackageRepository, reportRepo ports.ComplianceReportRepository) *PackageService {
	return &PackageService{repo: repo, reportRepo: reportRepo}
}

// Sync upserts a package as seen by the workspace scanner. The CLI calls this
// for every package on `wsctl check --sync`.
func (s *PackageService) Sync(ctx context.Context, projectID uuid.UUID, name, kind, path, manifestVersion string, dependencyCount int, labels map[string]string) (*domain.WorkspacePackage, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidPackageName
	}
	if err := domain.ValidatePackageKind(kind); err != nil {
		return nil, err
	}
	if labels == nil {
		labels = make(map[string]string)
	}

	existing, err := s.repo.GetByName(ctx, projectID, name)
	switch {
	case err == nil:
		existing.Kind = domain.PackageKind(kind)
		existing.Path = path
		existing.ManifestVersion = manifestVersion
		existing.DependencyCount = dependencyCount
		existing.Labels = labels
		if err := s.repo.Update(ctx, projectID, existing); err != nil {
			return nil, err
		}
		return s.repo.GetByID(ctx, projectID, existing.ID)
	case errors.Is(err, domain.ErrPackageNotFound):
		now := time.Now()
		pkg := &domain.WorkspacePackage{
			ID:              uuid.New(),
			CreatedAt:       now,
			UpdatedAt:       now,
			ProjectID:       projectID,
			Name:            name,
			Kind:            domain.PackageKind(kind),
			Path:            path,
			ManifestVersion: manifestVersion,
			DependencyCount: dependencyCount,
			Labels:          labels,
		}
		if err := s.repo.Create(ctx, pkg); err != nil {
			return nil, err
		}
		return s.repo.GetByID(ctx, projectID, pkg.ID)
	default:
		return nil, err
	}
}

func (s *PackageService) Get(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.WorkspacePackage, error) {
	return s.repo.GetByID(ctx, projectID, id)
}

func (s *PackageService) GetByName(ctx context.Context, projectID uuid.UUID, name string) (*domain.WorkspacePackage, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrInvalidPackageName
	}
	return s.repo.GetByName(ctx, projectID, name)
}

func (s *PackageService) List(ctx context.Context, filter ports.PackageListFilter) ([]*domain.WorkspacePackage, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

func (s *PackageService) Delete(ctx context.Context, projectID uuid.UUID, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, projectID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, projectID, id)
}

// RecordReport stores a compliance report for a package at a commit.
func (s *PackageService) RecordReport(ctx context.Context, projectID uuid.UUID, packageName, gitCommit string, findings []domain.Finding) (*domain.ComplianceReport, error) {
	pkg, err := s.GetByName(ctx, projectID, packageName)
	if err != nil {
		return nil, err
	}
	if gitCommit != "" {
		if err := domain.ValidateGitCommit(gitCommit); err != nil {
			return nil, err
		}
	}

	errorCount, warningCount := 0, 0
	for _, f := range findings {
		if f.Severity == domain.SeverityError {
			errorCount++
		} else {
			warningCount++
		}
	}
	if findings == nil {
		findings = []domain.Finding{}
	}

	report := &domain.ComplianceReport{
		ID:           uuid.New(),
		CreatedAt:    time.Now(),
		PackageID:    pkg.ID,
		GitCommit:    gitCommit,
		Findings:     findings,
		ErrorCount:   errorCount,
		WarningCount: warningCount,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *PackageService) LatestReport(ctx context.Context, projectID uuid.UUID, packageName string) (*domain.ComplianceReport, error) {
	pkg, err := s.GetByName(ctx, projectID, packageName)
	if err != nil {
		return nil, err
	}
	return s.reportRepo.GetLatestByPackage(ctx, pkg.ID)
}

package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"workspace-registry-service/internal/core/domain"
	"workspace-registry-service/internal/core/evaluation"
	ports "workspace-registry-service/internal/core/ports/output"
)

type EvaluationService struct {
	repo    ports.EvaluationReportRepository
	runRepo ports.ExperimentRunRepository
}

func NewEvaluationService(repo ports.EvaluationReportRepository, runRepo ports.ExperimentRunRepository) *EvaluationService {
	return &EvaluationService{repo: repo, runRepo: runRepo}
}

// Evaluate joins ground truth against agent responses, computes the overall
// materiality metrics, and persists a report against the run.
func (s *EvaluationService) Evaluate(ctx context.Context, projectID uuid.UUID, runID uuid.UUID, groundTruth, responses []evaluation.Record) (*domain.EvaluationReport, map[string]float64, error) {
	if _, err := s.runRepo.GetByID(ctx, projectID, runID); err != nil {
		return nil, nil, err
	}

	rows, err := evaluation.BuildTable(groundTruth, responses)
	if err != nil {
		return nil, nil, err
	}

	metrics := evaluation.OverallMetrics(rows)

	matched := 0
	for _, row := range rows {
		if evaluation.ExactMatch(row.Expected, row.Extracted) == 1 {
			matched++
		}
	}

	report := &domain.EvaluationReport{
		ID:           uuid.New(),
		CreatedAt:    time.Now(),
		RunID:        runID,
		Precision:    metrics["materiality_precision"],
		Recall:       metrics["materiality_recall"],
		RowCount:     len(rows),
		MatchedCount: matched,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, nil, err
	}

	return report, metrics, nil
}

func (s *EvaluationService) Get(ctx context.Context, id uuid.UUID) (*domain.EvaluationReport, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EvaluationService) ListByRun(ctx context.Context, projectID uuid.UUID, runID uuid.UUID) ([]*domain.EvaluationReport, error) {
	if _, err := s.runRepo.GetByID(ctx, projectID, runID); err != nil {
		return nil, err
	}
	return s.repo.ListByRun(ctx, runID)
}

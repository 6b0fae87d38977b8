package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workspace-registry-service/internal/core/domain"
	ports "workspace-registry-service/internal/core/ports/output"
)

type evaluationReportRepo struct {
	pool *pgxpool.Pool
}

func NewEvaluationReportRepository(pool *pgxpool.Pool) ports.EvaluationReportRepository {
	return &evaluationReportRepo{pool: pool}
}

// NaN metrics (empty precision/recall denominators) are stored as NULL.
func (r *evaluationReportRepo) Create(ctx context.Context, report *domain.EvaluationReport) error {
	query := `
		INSERT INTO evaluation_report
			(id, created_at, run_id, precision_score, recall_score, row_count, matched_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`
	_, err := r.pool.Exec(ctx, query,
		report.ID, report.CreatedAt, report.RunID,
		nanToNull(report.Precision), nanToNull(report.Recall),
		report.RowCount, report.MatchedCount,
	)
	if err != nil {
		return fmt.Errorf("create evaluation report: %w", err)
	}
	return nil
}

func (r *evaluationReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.EvaluationReport, error) {
	query := `
		SELECT id, created_at, run_id, precision_score, recall_score, row_count, matched_count
		FROM evaluation_report
		WHERE id = $1
	`
	report, err := scanEvaluation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEvaluationNotFound
		}
		return nil, fmt.Errorf("get evaluation report by id: %w", err)
	}
	return report, nil
}

func (r *evaluationReportRepo) ListByRun(ctx context.Context, runID uuid.UUID) ([]*domain.EvaluationReport, error) {
	query := `
		SELECT id, created_at, run_id, precision_score, recall_score, row_count, matched_count
		FROM evaluation_report
		WHERE run_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list evaluation reports: %w", err)
	}
	defer rows.Close()

	var reports []*domain.EvaluationReport
	for rows.Next() {
		report, err := scanEvaluation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan evaluation report row: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evaluation report rows: %w", err)
	}
	return reports, nil
}

func scanEvaluation(row pgx.Row) (*domain.EvaluationReport, error) {
	var report domain.EvaluationReport
	var precision, recall *float64

	err := row.Scan(
		&report.ID, &report.CreatedAt, &report.RunID,
		&precision, &recall, &report.RowCount, &report.MatchedCount,
	)
	if err != nil {
		return nil, err
	}

	report.Precision = nullToNaN(precision)
	report.Recall = nullToNaN(recall)
	return &report, nil
}

func nanToNull(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func nullToNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

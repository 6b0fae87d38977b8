package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"workspace-registry-service/internal/core/domain"
	ports "workspace-registry-service/internal/core/ports/output"
)

type runMetricRepo struct {
	pool *pgxpool.Pool
}

func NewRunMetricRepository(pool *pgxpool.Pool) ports.RunMetricRepository {
	return &runMetricRepo{pool: pool}
}

func (r *runMetricRepo) Create(ctx context.Context, metric *domain.RunMetric) error {
	query := `
		INSERT INTO run_metric (id, run_id, name, value, step, logged_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`
	_, err := r.pool.Exec(ctx, query,
		metric.ID, metric.RunID, metric.Name, metric.Value, metric.Step, metric.LoggedAt,
	)
	if err != nil {
		return fmt.Errorf("create run metric: %w", err)
	}
	return nil
}

func (r *runMetricRepo) ListByRun(ctx context.Context, runID uuid.UUID) ([]*domain.RunMetric, error) {
	query := `
		SELECT id, run_id, name, value, step, logged_at
		FROM run_metric
		WHERE run_id = $1
		ORDER BY logged_at ASC
	`
	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list run metrics: %w", err)
	}
	defer rows.Close()

	var metrics []*domain.RunMetric
	for rows.Next() {
		var m domain.RunMetric
		if err := rows.Scan(&m.ID, &m.RunID, &m.Name, &m.Value, &m.Step, &m.LoggedAt); err != nil {
			return nil, fmt.Errorf("scan run metric row: %w", err)
		}
		metrics = append(metrics, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run metric rows: %w", err)
	}
	return metrics, nil
}

type runArtifactRepo struct {
	pool *pgxpool.Pool
}

func NewRunArtifactRepository(pool *pgxpool.Pool) ports.RunArtifactRepository {
	return &runArtifactRepo{pool: pool}
}

func (r *runArtifactRepo) Create(ctx context.Context, artifact *domain.RunArtifact) error {
	query := `
		INSERT INTO run_artifact (id, run_id, name, uri, size_bytes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`
	_, err := r.pool.Exec(ctx, query,
		artifact.ID, artifact.RunID, artifact.Name, artifact.URI,
		artifact.SizeBytes, artifact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create run artifact: %w", err)
	}
	return nil
}

func (r *runArtifactRepo) ListByRun(ctx context.Context, runID uuid.UUID) ([]*domain.RunArtifact, error) {
	query := `
		SELECT id, run_id, name, uri, size_bytes, created_at
		FROM run_artifact
		WHERE run_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list run artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []*domain.RunArtifact
	for rows.Next() {
		var a domain.RunArtifact
		if err := rows.Scan(&a.ID, &a.RunID, &a.Name, &a.URI, &a.SizeBytes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run artifact row: %w", err)
		}
		artifacts = append(artifacts, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run artifact rows: %w", err)
	}
	return artifacts, nil
}

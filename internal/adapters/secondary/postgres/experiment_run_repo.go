package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workspace-registry-service/internal/core/domain"
	ports "workspace-registry-service/internal/core/ports/output"
)

type experimentRunRepo struct {
	pool *pgxpool.Pool
}

func NewExperimentRunRepository(pool *pgxpool.Pool) ports.ExperimentRunRepository {
	return &experimentRunRepo{pool: pool}
}

const runColumns = `
	er.id, er.created_at, er.updated_at, er.project_id, er.package_name,
	er.display_name, er.git_commit, er.compute_target, er.status,
	COALESCE(er.external_job_id, '') AS external_job_id,
	COALESCE(er.container_image, '') AS container_image,
	COALESCE(er.command, '') AS command,
	er.data_bindings, er.parameters,
	COALESCE(er.created_by, '') AS created_by,
	er.started_at, er.finished_at
`

func (r *experimentRunRepo) Create(ctx context.Context, run *domain.ExperimentRun) error {
	bindingsJSON, err := json.Marshal(run.DataBindings)
	if err != nil {
		return fmt.Errorf("marshal data bindings: %w", err)
	}
	paramsJSON, err := json.Marshal(run.Parameters)
	if err != nil {
		return fmt.Errorf("marshal parameters: %w", err)
	}

	query := `
		INSERT INTO experiment_run
			(id, created_at, updated_at, project_id, package_name, display_name,
			 git_commit, compute_target, status, external_job_id,
			 container_image, command, data_bindings, parameters, created_by,
			 started_at, finished_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`
	_, err = r.pool.Exec(ctx, query,
		run.ID, run.CreatedAt, run.UpdatedAt, run.ProjectID, run.PackageName,
		run.DisplayName, run.GitCommit, string(run.ComputeTarget), string(run.Status),
		run.ExternalJobID, run.ContainerImage, run.Command,
		bindingsJSON, paramsJSON, run.CreatedBy, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("create experiment run: %w", err)
	}
	return nil
}

func (r *experimentRunRepo) GetByID(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.ExperimentRun, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM experiment_run er
		WHERE er.id = $1 AND er.project_id = $2
	`, runColumns)
	run, err := scanRun(r.pool.QueryRow(ctx, query, id, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("get experiment run by id: %w", err)
	}
	return run, nil
}

func (r *experimentRunRepo) Update(ctx context.Context, projectID uuid.UUID, run *domain.ExperimentRun) error {
	bindingsJSON, err := json.Marshal(run.DataBindings)
	if err != nil {
		return fmt.Errorf("marshal data bindings: %w", err)
	}
	paramsJSON, err := json.Marshal(run.Parameters)
	if err != nil {
		return fmt.Errorf("marshal parameters: %w", err)
	}

	query := `
		UPDATE experiment_run
		SET display_name=$1, status=$2, external_job_id=$3, data_bindings=$4,
			parameters=$5, started_at=$6, finished_at=$7, updated_at=NOW()
		WHERE id=$8 AND project_id=$9
	`
	result, err := r.pool.Exec(ctx, query,
		run.DisplayName, string(run.Status), run.ExternalJobID,
		bindingsJSON, paramsJSON, run.StartedAt, run.FinishedAt,
		run.ID, projectID,
	)
	if err != nil {
		return fmt.Errorf("update experiment run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrRunNotFound
	}
	return nil
}

func (r *experimentRunRepo) List(ctx context.Context, filter ports.RunListFilter) ([]*domain.ExperimentRun, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.ProjectID != uuid.Nil {
		conditions = append(conditions, fmt.Sprintf("er.project_id = $%d", argPos))
		args = append(args, filter.ProjectID)
		argPos++
	}
	if filter.PackageName != "" {
		conditions = append(conditions, fmt.Sprintf("er.package_name = $%d", argPos))
		args = append(args, filter.PackageName)
		argPos++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("er.status = $%d", argPos))
		args = append(args, filter.Status)
		argPos++
	}
	if filter.Target != "" {
		conditions = append(conditions, fmt.Sprintf("er.compute_target = $%d", argPos))
		args = append(args, filter.Target)
		argPos++
	}

	whereClause := "1=1"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM experiment_run er WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count experiment runs: %w", err)
	}

	orderBy := "er.created_at DESC"
	if filter.SortBy != "" {
		dir := "DESC"
		if filter.Order == "asc" {
			dir = "ASC"
		}
		orderBy = fmt.Sprintf("er.%s %s", filter.SortBy, dir)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM experiment_run er
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, runColumns, whereClause, orderBy, argPos, argPos+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list experiment runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.ExperimentRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan experiment run row: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate experiment run rows: %w", err)
	}

	return runs, total, nil
}

func scanRun(row pgx.Row) (*domain.ExperimentRun, error) {
	var run domain.ExperimentRun
	var target, status string
	var bindingsJSON, paramsJSON []byte

	err := row.Scan(
		&run.ID, &run.CreatedAt, &run.UpdatedAt, &run.ProjectID, &run.PackageName,
		&run.DisplayName, &run.GitCommit, &target, &status,
		&run.ExternalJobID, &run.ContainerImage, &run.Command,
		&bindingsJSON, &paramsJSON, &run.CreatedBy,
		&run.StartedAt, &run.FinishedAt,
	)
	if err != nil {
		return nil, err
	}

	run.ComputeTarget = domain.ComputeTarget(target)
	run.Status = domain.RunStatus(status)
	run.DataBindings = []domain.DataBinding{}
	if len(bindingsJSON) > 0 {
		if err := json.Unmarshal(bindingsJSON, &run.DataBindings); err != nil {
			return nil, fmt.Errorf("unmarshal data bindings: %w", err)
		}
	}
	run.Parameters = map[string]string{}
	if len(paramsJSON) > 0 {
		if err := json.Unmarshal(paramsJSON, &run.Parameters); err != nil {
			return nil, fmt.Errorf("unmarshal parameters: %w", err)
		}
	}
	return &run, nil
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"workspace-registry-service/internal/core/domain"
	ports "workspace-registry-service/internal/core/ports/output"
)

type packageRepo struct {
	pool *pgxpool.Pool
}

func NewPackageRepository(pool *pgxpool.Pool) ports.PackageRepository {
	return &packageRepo{pool: pool}
}

const packageColumns = `
	wp.id, wp.created_at, wp.updated_at, wp.project_id, wp.name, wp.kind,
	wp.path, COALESCE(wp.manifest_version, '') AS manifest_version,
	wp.dependency_count, wp.labels
`

func (r *packageRepo) Create(ctx context.Context, pkg *domain.WorkspacePackage) error {
	labelsJSON, err := json.Marshal(pkg.Labels)
	if err != nil {
		return fmt.Errorf("marshal labels: %w", err)
	}

	query := `
		INSERT INTO workspace_package
			(id, created_at, updated_at, project_id, name, kind, path,
			 manifest_version, dependency_count, labels)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`
	_, err = r.pool.Exec(ctx, query,
		pkg.ID, pkg.CreatedAt, pkg.UpdatedAt, pkg.ProjectID, pkg.Name,
		string(pkg.Kind), pkg.Path, pkg.ManifestVersion, pkg.DependencyCount, labelsJSON,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrPackageNameConflict
		}
		return fmt.Errorf("create workspace package: %w", err)
	}
	return nil
}

func (r *packageRepo) GetByID(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.WorkspacePackage, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM workspace_package wp
		WHERE wp.id = $1 AND wp.project_id = $2
	`, packageColumns)
	pkg, err := scanPackage(r.pool.QueryRow(ctx, query, id, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPackageNotFound
		}
		return nil, fmt.Errorf("get workspace package by id: %w", err)
	}
	return pkg, nil
}

func (r *packageRepo) GetByName(ctx context.Context, projectID uuid.UUID, name string) (*domain.WorkspacePackage, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM workspace_package wp
		WHERE wp.project_id = $1 AND wp.name = $2
	`, packageColumns)
	pkg, err := scanPackage(r.pool.QueryRow(ctx, query, projectID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPackageNotFound
		}
		return nil, fmt.Errorf("get workspace package by name: %w", err)
	}
	return pkg, nil
}

func (r *packageRepo) Update(ctx context.Context, projectID uuid.UUID, pkg *domain.WorkspacePackage) error {
	labelsJSON, err := json.Marshal(pkg.Labels)
	if err != nil {
		return fmt.Errorf("marshal labels: %w", err)
	}

	query := `
		UPDATE workspace_package
		SET kind=$1, path=$2, manifest_version=$3, dependency_count=$4,
			labels=$5, updated_at=NOW()
		WHERE id=$6 AND project_id=$7
	`
	result, err := r.pool.Exec(ctx, query,
		string(pkg.Kind), pkg.Path, pkg.ManifestVersion, pkg.DependencyCount,
		labelsJSON, pkg.ID, projectID,
	)
	if err != nil {
		return fmt.Errorf("update workspace package: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrPackageNotFound
	}
	return nil
}

func (r *packageRepo) Delete(ctx context.Context, projectID uuid.UUID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM workspace_package WHERE id = $1 AND project_id = $2`, id, projectID)
	if err != nil {
		return fmt.Errorf("delete workspace package: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrPackageNotFound
	}
	return nil
}

func (r *packageRepo) List(ctx context.Context, filter ports.PackageListFilter) ([]*domain.WorkspacePackage, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.ProjectID != uuid.Nil {
		conditions = append(conditions, fmt.Sprintf("wp.project_id = $%d", argPos))
		args = append(args, filter.ProjectID)
		argPos++
	}
	if filter.Kind != "" {
		conditions = append(conditions, fmt.Sprintf("wp.kind = $%d", argPos))
		args = append(args, filter.Kind)
		argPos++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("wp.name ILIKE $%d", argPos))
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	whereClause := "1=1"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM workspace_package wp WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count workspace packages: %w", err)
	}

	orderBy := "wp.name ASC"
	if filter.SortBy != "" {
		dir := "ASC"
		if filter.Order == "desc" {
			dir = "DESC"
		}
		orderBy = fmt.Sprintf("wp.%s %s", filter.SortBy, dir)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM workspace_package wp
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, packageColumns, whereClause, orderBy, argPos, argPos+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list workspace packages: %w", err)
	}
	defer rows.Close()

	var pkgs []*domain.WorkspacePackage
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan workspace package row: %w", err)
		}
		pkgs = append(pkgs, pkg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate workspace package rows: %w", err)
	}

	return pkgs, total, nil
}

func scanPackage(row pgx.Row) (*domain.WorkspacePackage, error) {
	var pkg domain.WorkspacePackage
	var kind string
	var labelsJSON []byte

	err := row.Scan(
		&pkg.ID, &pkg.CreatedAt, &pkg.UpdatedAt, &pkg.ProjectID, &pkg.Name,
		&kind, &pkg.Path, &pkg.ManifestVersion, &pkg.DependencyCount, &labelsJSON,
	)
	if err != nil {
		return nil, err
	}

	pkg.Kind = domain.PackageKind(kind)
	pkg.Labels = map[string]string{}
	if len(labelsJSON) > 0 {
		if err := json.Unmarshal(labelsJSON, &pkg.Labels); err != nil {
			return nil, fmt.Errorf("unmarshal labels: %w", err)
		}
	}
	return &pkg, nil
}

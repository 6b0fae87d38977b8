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

type dataAssetVersionRepo struct {
	pool *pgxpool.Pool
}

func NewDataAssetVersionRepository(pool *pgxpool.Pool) ports.DataAssetVersionRepository {
	return &dataAssetVersionRepo{pool: pool}
}

const versionColumns = `
	dav.id, dav.created_at, dav.updated_at, dav.data_asset_id, dav.version,
	dav.uri, dav.checksum, dav.size_bytes, dav.format, dav.description,
	dav.status, COALESCE(dav.created_by, '') AS created_by, dav.labels
`

// Create assigns the next version number inside a transaction. The parent row
// is locked so concurrent registrations of the same asset serialize.
func (r *dataAssetVersionRepo) Create(ctx context.Context, version *domain.DataAssetVersion) error {
	labelsJSON, err := json.Marshal(version.Labels)
	if err != nil {
		return fmt.Errorf("marshal labels: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin version tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var assetID uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT id FROM data_asset WHERE id = $1 FOR UPDATE`, version.DataAssetID,
	).Scan(&assetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrAssetNotFound
		}
		return fmt.Errorf("lock data asset: %w", err)
	}

	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM data_asset_version WHERE data_asset_id = $1`,
		version.DataAssetID,
	).Scan(&version.Version)
	if err != nil {
		return fmt.Errorf("next version number: %w", err)
	}

	query := `
		INSERT INTO data_asset_version
			(id, created_at, updated_at, data_asset_id, version, uri, checksum,
			 size_bytes, format, description, status, created_by, labels)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`
	_, err = tx.Exec(ctx, query,
		version.ID, version.CreatedAt, version.UpdatedAt,
		version.DataAssetID, version.Version, version.URI, version.Checksum,
		version.SizeBytes, version.Format, version.Description,
		string(version.Status), version.CreatedBy, labelsJSON,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrVersionConflict
		}
		return fmt.Errorf("create data asset version: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit version tx: %w", err)
	}
	return nil
}

func (r *dataAssetVersionRepo) GetByID(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.DataAssetVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM data_asset_version dav
		JOIN data_asset da ON da.id = dav.data_asset_id
		WHERE dav.id = $1 AND da.project_id = $2
	`, versionColumns)
	v, err := scanVersion(r.pool.QueryRow(ctx, query, id, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("get data asset version by id: %w", err)
	}
	return v, nil
}

func (r *dataAssetVersionRepo) GetByAssetAndVersion(ctx context.Context, projectID uuid.UUID, assetID uuid.UUID, versionNum int) (*domain.DataAssetVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM data_asset_version dav
		JOIN data_asset da ON da.id = dav.data_asset_id
		WHERE dav.data_asset_id = $1 AND dav.version = $2 AND da.project_id = $3
	`, versionColumns)
	v, err := scanVersion(r.pool.QueryRow(ctx, query, assetID, versionNum, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("get data asset version by asset and version: %w", err)
	}
	return v, nil
}

func (r *dataAssetVersionRepo) FindByChecksum(ctx context.Context, assetID uuid.UUID, checksum string) (*domain.DataAssetVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM data_asset_version dav
		WHERE dav.data_asset_id = $1 AND dav.checksum = $2
	`, versionColumns)
	v, err := scanVersion(r.pool.QueryRow(ctx, query, assetID, checksum))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("find data asset version by checksum: %w", err)
	}
	return v, nil
}

func (r *dataAssetVersionRepo) Update(ctx context.Context, projectID uuid.UUID, version *domain.DataAssetVersion) error {
	labelsJSON, err := json.Marshal(version.Labels)
	if err != nil {
		return fmt.Errorf("marshal labels: %w", err)
	}

	query := `
		UPDATE data_asset_version
		SET description=$1, status=$2, labels=$3, updated_at=NOW()
		WHERE id=$4
			AND data_asset_id IN (
				SELECT id FROM data_asset WHERE project_id = $5
			)
	`
	result, err := r.pool.Exec(ctx, query,
		version.Description, string(version.Status), labelsJSON, version.ID, projectID,
	)
	if err != nil {
		return fmt.Errorf("update data asset version: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrVersionNotFound
	}
	return nil
}

func (r *dataAssetVersionRepo) List(ctx context.Context, filter ports.VersionListFilter) ([]*domain.DataAssetVersion, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	needProjectJoin := filter.ProjectID != uuid.Nil

	if filter.DataAssetID != uuid.Nil {
		conditions = append(conditions, fmt.Sprintf("dav.data_asset_id = $%d", argPos))
		args = append(args, filter.DataAssetID)
		argPos++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("dav.status = $%d", argPos))
		args = append(args, filter.Status)
		argPos++
	}
	if needProjectJoin {
		conditions = append(conditions, fmt.Sprintf("da.project_id = $%d", argPos))
		args = append(args, filter.ProjectID)
		argPos++
	}

	whereClause := "1=1"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	joinClause := ""
	if needProjectJoin {
		joinClause = "JOIN data_asset da ON da.id = dav.data_asset_id"
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM data_asset_version dav %s WHERE %s", joinClause, whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count data asset versions: %w", err)
	}

	orderBy := "dav.version DESC"
	if filter.SortBy != "" {
		dir := "DESC"
		if filter.Order == "asc" {
			dir = "ASC"
		}
		orderBy = fmt.Sprintf("dav.%s %s", filter.SortBy, dir)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM data_asset_version dav
		%s
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, versionColumns, joinClause, whereClause, orderBy, argPos, argPos+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list data asset versions: %w", err)
	}
	defer rows.Close()

	var versions []*domain.DataAssetVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan data asset version row: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate data asset version rows: %w", err)
	}

	return versions, total, nil
}

// CountReferencedByRuns counts run data bindings pointing at any version of
// the asset. Bindings live in the experiment_run JSONB column.
func (r *dataAssetVersionRepo) CountReferencedByRuns(ctx context.Context, assetID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM experiment_run er,
			 jsonb_array_elements(er.data_bindings) AS binding
		WHERE (binding->>'version_id')::uuid IN (
			SELECT id FROM data_asset_version WHERE data_asset_id = $1
		)
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, assetID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count referenced versions: %w", err)
	}
	return count, nil
}

func scanVersion(row pgx.Row) (*domain.DataAssetVersion, error) {
	var v domain.DataAssetVersion
	var status string
	var labelsJSON []byte

	err := row.Scan(
		&v.ID, &v.CreatedAt, &v.UpdatedAt, &v.DataAssetID, &v.Version,
		&v.URI, &v.Checksum, &v.SizeBytes, &v.Format, &v.Description,
		&status, &v.CreatedBy, &labelsJSON,
	)
	if err != nil {
		return nil, err
	}

	v.Status = domain.VersionStatus(status)
	v.Labels = map[string]string{}
	if len(labelsJSON) > 0 {
		if err := json.Unmarshal(labelsJSON, &v.Labels); err != nil {
			return nil, fmt.Errorf("unmarshal labels: %w", err)
		}
	}
	return &v, nil
}

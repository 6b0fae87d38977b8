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

type dataAssetRepo struct {
	pool *pgxpool.Pool
}

func NewDataAssetRepository(pool *pgxpool.Pool) ports.DataAssetRepository {
	return &dataAssetRepo{pool: pool}
}

const assetColumns = `
	da.id, da.created_at, da.updated_at, da.project_id,
	da.name, da.slug, da.description, da.kind, da.state,
	COALESCE(da.owner_email, '') AS owner_email, da.labels,
	(SELECT COUNT(*) FROM data_asset_version dav WHERE dav.data_asset_id = da.id) AS version_count
`

func (r *dataAssetRepo) Create(ctx context.Context, asset *domain.DataAsset) error {
	labelsJSON, err := json.Marshal(asset.Labels)
	if err != nil {
		return fmt.Errorf("marshal labels: %w", err)
	}

	query := `
		INSERT INTO data_asset
			(id, created_at, updated_at, project_id, name, slug, description,
			 kind, state, owner_email, labels)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`
	_, err = r.pool.Exec(ctx, query,
		asset.ID, asset.CreatedAt, asset.UpdatedAt, asset.ProjectID,
		asset.Name, asset.Slug, asset.Description,
		string(asset.Kind), string(asset.State), asset.OwnerEmail, labelsJSON,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAssetNameConflict
		}
		return fmt.Errorf("create data asset: %w", err)
	}
	return nil
}

func (r *dataAssetRepo) GetByID(ctx context.Context, projectID uuid.UUID, id uuid.UUID) (*domain.DataAsset, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM data_asset da
		WHERE da.id = $1 AND da.project_id = $2
	`, assetColumns)
	asset, err := scanAsset(r.pool.QueryRow(ctx, query, id, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, fmt.Errorf("get data asset by id: %w", err)
	}
	return asset, nil
}

func (r *dataAssetRepo) GetByName(ctx context.Context, projectID uuid.UUID, name string) (*domain.DataAsset, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM data_asset da
		WHERE da.project_id = $1 AND (da.name = $2 OR da.slug = $2)
	`, assetColumns)
	asset, err := scanAsset(r.pool.QueryRow(ctx, query, projectID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, fmt.Errorf("get data asset by name: %w", err)
	}
	return asset, nil
}

func (r *dataAssetRepo) Update(ctx context.Context, projectID uuid.UUID, asset *domain.DataAsset) error {
	labelsJSON, err := json.Marshal(asset.Labels)
	if err != nil {
		return fmt.Errorf("marshal labels: %w", err)
	}

	query := `
		UPDATE data_asset
		SET description=$1, state=$2, labels=$3, updated_at=NOW()
		WHERE id=$4 AND project_id=$5
	`
	result, err := r.pool.Exec(ctx, query,
		asset.Description, string(asset.State), labelsJSON, asset.ID, projectID,
	)
	if err != nil {
		return fmt.Errorf("update data asset: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAssetNotFound
	}
	return nil
}

func (r *dataAssetRepo) Delete(ctx context.Context, projectID uuid.UUID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM data_asset WHERE id = $1 AND project_id = $2`, id, projectID)
	if err != nil {
		return fmt.Errorf("delete data asset: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAssetNotFound
	}
	return nil
}

func (r *dataAssetRepo) List(ctx context.Context, filter ports.AssetListFilter) ([]*domain.DataAsset, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.ProjectID != uuid.Nil {
		conditions = append(conditions, fmt.Sprintf("da.project_id = $%d", argPos))
		args = append(args, filter.ProjectID)
		argPos++
	}
	if filter.State != "" {
		conditions = append(conditions, fmt.Sprintf("da.state = $%d", argPos))
		args = append(args, filter.State)
		argPos++
	}
	if filter.Kind != "" {
		conditions = append(conditions, fmt.Sprintf("da.kind = $%d", argPos))
		args = append(args, filter.Kind)
		argPos++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(da.name ILIKE $%d OR da.description ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	whereClause := "1=1"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM data_asset da WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count data assets: %w", err)
	}

	orderBy := "da.created_at DESC"
	if filter.SortBy != "" {
		dir := "DESC"
		if filter.Order == "asc" {
			dir = "ASC"
		}
		orderBy = fmt.Sprintf("da.%s %s", filter.SortBy, dir)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM data_asset da
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, assetColumns, whereClause, orderBy, argPos, argPos+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list data assets: %w", err)
	}
	defer rows.Close()

	var assets []*domain.DataAsset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan data asset row: %w", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate data asset rows: %w", err)
	}

	return assets, total, nil
}

func scanAsset(row pgx.Row) (*domain.DataAsset, error) {
	var asset domain.DataAsset
	var kind, state string
	var labelsJSON []byte

	err := row.Scan(
		&asset.ID, &asset.CreatedAt, &asset.UpdatedAt, &asset.ProjectID,
		&asset.Name, &asset.Slug, &asset.Description, &kind, &state,
		&asset.OwnerEmail, &labelsJSON, &asset.VersionCount,
	)
	if err != nil {
		return nil, err
	}

	asset.Kind = domain.AssetKind(kind)
	asset.State = domain.AssetState(state)
	asset.Labels = map[string]string{}
	if len(labelsJSON) > 0 {
		if err := json.Unmarshal(labelsJSON, &asset.Labels); err != nil {
			return nil, fmt.Errorf("unmarshal labels: %w", err)
		}
	}
	return &asset, nil
}

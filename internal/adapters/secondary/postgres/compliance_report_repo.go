package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workspace-registry-service/internal/core/domain"
	ports "workspace-registry-service/internal/core/ports/output"
)

type complianceReportRepo struct {
	pool *pgxpool.Pool
}

func NewComplianceReportRepository(pool *pgxpool.Pool) ports.ComplianceReportRepository {
	return &complianceReportRepo{pool: pool}
}

func (r *complianceReportRepo) Create(ctx context.Context, report *domain.ComplianceReport) error {
	findingsJSON, err := json.Marshal(report.Findings)
	if err != nil {
		return fmt.Errorf("marshal findings: %w", err)
	}

	query := `
		INSERT INTO compliance_report
			(id, created_at, package_id, git_commit, findings, error_count, warning_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`
	_, err = r.pool.Exec(ctx, query,
		report.ID, report.CreatedAt, report.PackageID, report.GitCommit,
		findingsJSON, report.ErrorCount, report.WarningCount,
	)
	if err != nil {
		return fmt.Errorf("create compliance report: %w", err)
	}
	return nil
}

func (r *complianceReportRepo) GetLatestByPackage(ctx context.Context, packageID uuid.UUID) (*domain.ComplianceReport, error) {
	query := `
		SELECT id, created_at, package_id, COALESCE(git_commit, '') AS git_commit,
			   findings, error_count, warning_count
		FROM compliance_report
		WHERE package_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	report, err := scanReport(r.pool.QueryRow(ctx, query, packageID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("get latest compliance report: %w", err)
	}
	return report, nil
}

func (r *complianceReportRepo) ListByPackage(ctx context.Context, packageID uuid.UUID, limit int) ([]*domain.ComplianceReport, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, created_at, package_id, COALESCE(git_commit, '') AS git_commit,
			   findings, error_count, warning_count
		FROM compliance_report
		WHERE package_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, packageID, limit)
	if err != nil {
		return nil, fmt.Errorf("list compliance reports: %w", err)
	}
	defer rows.Close()

	var reports []*domain.ComplianceReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan compliance report row: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate compliance report rows: %w", err)
	}
	return reports, nil
}

func scanReport(row pgx.Row) (*domain.ComplianceReport, error) {
	var report domain.ComplianceReport
	var findingsJSON []byte

	err := row.Scan(
		&report.ID, &report.CreatedAt, &report.PackageID, &report.GitCommit,
		&findingsJSON, &report.ErrorCount, &report.WarningCount,
	)
	if err != nil {
		return nil, err
	}

	report.Findings = []domain.Finding{}
	if len(findingsJSON) > 0 {
		if err := json.Unmarshal(findingsJSON, &report.Findings); err != nil {
			return nil, fmt.Errorf("unmarshal findings: %w", err)
		}
	}
	return &report, nil
}

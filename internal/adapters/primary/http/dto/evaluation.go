package dto

import (
	"math"
	"time"

	"github.com/google/uuid"

	"workspace-registry-service/internal/core/domain"
	"workspace-registry-service/internal/core/evaluation"
)

type EvaluationRecordDTO struct {
	CompanyID  string  `json:"company_id" binding:"required"`
	MetricName string  `json:"metric_name" binding:"required"`
	YoYPct     float64 `json:"latest_yoy_pct"`
}

type EvaluateRunRequest struct {
	GroundTruth []EvaluationRecordDTO `json:"ground_truth" binding:"required"`
	Responses   []EvaluationRecordDTO `json:"responses" binding:"required"`
}

// EvaluationReportResponse serializes NaN scores as null, since JSON has no
// NaN literal.
type EvaluationReportResponse struct {
	ID           uuid.UUID `json:"id"`
	CreatedAt    string    `json:"created_at"`
	RunID        uuid.UUID `json:"run_id"`
	Precision    *float64  `json:"materiality_precision"`
	Recall       *float64  `json:"materiality_recall"`
	RowCount     int       `json:"row_count"`
	MatchedCount int       `json:"matched_count"`
}

type ListEvaluationsResponse struct {
	Items []EvaluationReportResponse `json:"items"`
	Total int                        `json:"total"`
}

func ToEvaluationRecords(dtos []EvaluationRecordDTO) []evaluation.Record {
	records := make([]evaluation.Record, 0, len(dtos))
	for _, d := range dtos {
		records = append(records, evaluation.Record{
			CompanyID:  d.CompanyID,
			MetricName: d.MetricName,
			YoYPct:     d.YoYPct,
		})
	}
	return records
}

func ToEvaluationReportResponse(r *domain.EvaluationReport) EvaluationReportResponse {
	return EvaluationReportResponse{
		ID:           r.ID,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		RunID:        r.RunID,
		Precision:    scoreOrNil(r.Precision),
		Recall:       scoreOrNil(r.Recall),
		RowCount:     r.RowCount,
		MatchedCount: r.MatchedCount,
	}
}

func scoreOrNil(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

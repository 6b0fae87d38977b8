package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaterialChange is a single extracted finding from an agent response: a
// financial metric whose latest year-over-year change crossed the materiality
// threshold.
type MaterialChange struct {
	Name         string  `json:"name"`
	LatestYoYPct float64 `json:"latest_yoy_pct"`
}

// EvaluationReport stores the overall metrics of one evaluation against a run.
type EvaluationReport struct {
	ID           uuid.UUID `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	RunID        uuid.UUID `json:"run_id"`
	Precision    float64   `json:"materiality_precision"`
	Recall       float64   `json:"materiality_recall"`
	RowCount     int       `json:"row_count"`
	MatchedCount int       `json:"matched_count"`
}

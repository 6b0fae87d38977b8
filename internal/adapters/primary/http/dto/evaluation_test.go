package dto

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workspace-registry-service/internal/core/domain"
)

func TestToEvaluationReportResponse_NaNBecomesNull(t *testing.T) {
	report := &domain.EvaluationReport{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		RunID:     uuid.New(),
		Precision: math.NaN(),
		Recall:    0.75,
		RowCount:  4,
	}

	resp := ToEvaluationReportResponse(report)
	assert.Nil(t, resp.Precision)
	require.NotNil(t, resp.Recall)
	assert.Equal(t, 0.75, *resp.Recall)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"materiality_precision":null`)
	assert.Contains(t, string(data), `"materiality_recall":0.75`)
}

func TestToEvaluationRecords(t *testing.T) {
	records := ToEvaluationRecords([]EvaluationRecordDTO{
		{CompanyID: "acme", MetricName: "revenue", YoYPct: 5.5},
	})

	require.Len(t, records, 1)
	assert.Equal(t, "acme", records[0].CompanyID)
	assert.Equal(t, "revenue", records[0].MetricName)
	assert.Equal(t, 5.5, records[0].YoYPct)
}

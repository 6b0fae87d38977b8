package evaluation

import (
	"fmt"
	"sort"

	"workspace-registry-service/internal/core/domain"
)

// Record is one (company, metric) observation, from either the ground truth
// or an agent response.
type Record struct {
	CompanyID  string
	MetricName string
	YoYPct     float64
}

// Row is one line of the evaluation table after the outer join: the expected
// and extracted year-over-year change for a (company, metric) key. A nil side
// means that key was absent from the corresponding input.
type Row struct {
	CompanyID  string
	MetricName string
	Expected   *float64
	Extracted  *float64
}

type tableKey struct {
	companyID string
	metric    string
}

// BuildTable outer-joins ground truth against agent responses on
// (company id, metric name). Each side must contribute a key at most once.
func BuildTable(groundTruth, responses []Record) ([]Row, error) {
	if len(groundTruth) == 0 && len(responses) == 0 {
		return nil, domain.ErrEmptyEvaluation
	}

	expected, err := index(groundTruth)
	if err != nil {
		return nil, err
	}
	extracted, err := index(responses)
	if err != nil {
		return nil, err
	}

	keys := make(map[tableKey]bool, len(expected)+len(extracted))
	for k := range expected {
		keys[k] = true
	}
	for k := range extracted {
		keys[k] = true
	}

	rows := make([]Row, 0, len(keys))
	for k := range keys {
		row := Row{CompanyID: k.companyID, MetricName: k.metric}
		if v, ok := expected[k]; ok {
			row.Expected = ptr(v)
		}
		if v, ok := extracted[k]; ok {
			row.Extracted = ptr(v)
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CompanyID != rows[j].CompanyID {
			return rows[i].CompanyID < rows[j].CompanyID
		}
		return rows[i].MetricName < rows[j].MetricName
	})

	return rows, nil
}

func index(records []Record) (map[tableKey]float64, error) {
	out := make(map[tableKey]float64, len(records))
	for _, r := range records {
		k := tableKey{companyID: r.CompanyID, metric: r.MetricName}
		if _, dup := out[k]; dup {
			return nil, fmt.Errorf("%w: id=%s name=%s", domain.ErrDuplicateEvalKey, r.CompanyID, r.MetricName)
		}
		out[k] = r.YoYPct
	}
	return out, nil
}

func ptr(v float64) *float64 { return &v }

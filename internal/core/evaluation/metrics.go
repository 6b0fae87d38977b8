// Package evaluation computes extraction-quality metrics for experiment
// outputs: agent responses are joined against ground truth and scored with
// precision, recall and extraction accuracy. Missing values on both sides of
// a comparison count as a match; metrics over an empty row set are NaN.
package evaluation

import "math"

// ExtractionAccuracy is the proportion of rows whose extracted value equals
// the expected value. A row where both sides are missing counts as correct.
func ExtractionAccuracy(rows []Row) float64 {
	if len(rows) == 0 {
		return math.NaN()
	}
	matched := 0
	for _, row := range rows {
		if ExactMatch(row.Expected, row.Extracted) == 1 {
			matched++
		}
	}
	return float64(matched) / float64(len(rows))
}

// Precision scores only the rows where the agent extracted a value: among the
// material changes identified, the proportion that are correct.
func Precision(rows []Row) float64 {
	total, matched := 0, 0
	for _, row := range rows {
		if row.Extracted == nil {
			continue
		}
		total++
		if row.Expected != nil && *row.Expected == *row.Extracted {
			matched++
		}
	}
	if total == 0 {
		return math.NaN()
	}
	return float64(matched) / float64(total)
}

// Recall scores only the rows the ground truth expected: among the material
// changes we expected, the proportion extracted correctly.
func Recall(rows []Row) float64 {
	total, matched := 0, 0
	for _, row := range rows {
		if row.Expected == nil {
			continue
		}
		total++
		if row.Extracted != nil && *row.Expected == *row.Extracted {
			matched++
		}
	}
	if total == 0 {
		return math.NaN()
	}
	return float64(matched) / float64(total)
}

// ExactMatch returns 1 when the two values are equal, treating two missing
// values as equal, and 0 otherwise.
func ExactMatch(expected, extracted *float64) int {
	if expected == nil && extracted == nil {
		return 1
	}
	if expected == nil || extracted == nil {
		return 0
	}
	if *expected == *extracted {
		return 1
	}
	return 0
}

// OverallMetrics is the metric map reported for one evaluation table.
func OverallMetrics(rows []Row) map[string]float64 {
	return map[string]float64{
		"materiality_precision": Precision(rows),
		"materiality_recall":    Recall(rows),
	}
}

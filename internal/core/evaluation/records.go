package evaluation

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"workspace-registry-service/internal/core/domain"
)

// ReadGroundTruthCSV parses the tabular ground truth. The header must carry
// id, name and latest_yoy_pct columns; extra columns are ignored.
func ReadGroundTruthCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read ground truth header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"id", "name", "latest_yoy_pct"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("ground truth is missing column %q", required)
		}
	}

	var records []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ground truth row: %w", err)
		}
		pct, err := strconv.ParseFloat(strings.TrimSpace(row[cols["latest_yoy_pct"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("parse latest_yoy_pct %q: %w", row[cols["latest_yoy_pct"]], err)
		}
		records = append(records, Record{
			CompanyID:  strings.TrimSpace(row[cols["id"]]),
			MetricName: strings.TrimSpace(row[cols["name"]]),
			YoYPct:     pct,
		})
	}
	return records, nil
}

// ReadResponsesJSONL parses one agent response file: JSON lines, one material
// change per line, all belonging to companyID. Blank lines are skipped.
func ReadResponsesJSONL(r io.Reader, companyID string) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var change domain.MaterialChange
		if err := json.Unmarshal([]byte(text), &change); err != nil {
			return nil, fmt.Errorf("parse response line %d: %w", line, err)
		}
		records = append(records, Record{
			CompanyID:  companyID,
			MetricName: change.Name,
			YoYPct:     change.LatestYoYPct,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read responses: %w", err)
	}
	return records, nil
}

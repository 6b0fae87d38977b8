package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"workspace-registry-service/internal/adapters/primary/http/dto"
	"workspace-registry-service/internal/core/evaluation"
)

func newEvalCmd() *cobra.Command {
	evalCmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate agent responses against ground truth",
		Long: `Joins a ground-truth CSV with agent response JSONL files (one file per
company, company id from the file name) and prints the materiality metrics.
With --run, the report is also recorded against that run in the registry.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := newCommandContext(cmd)
			if err != nil {
				return err
			}

			groundTruthPath, _ := cmd.Flags().GetString("ground-truth")
			responsesDir, _ := cmd.Flags().GetString("responses")
			runID, _ := cmd.Flags().GetString("run")

			groundTruth, err := readGroundTruth(groundTruthPath)
			if err != nil {
				return err
			}
			responses, err := readResponsesDir(responsesDir)
			if err != nil {
				return err
			}

			rows, err := evaluation.BuildTable(groundTruth, responses)
			if err != nil {
				return err
			}
			metrics := evaluation.OverallMetrics(rows)

			fmt.Fprintf(cmd.OutOrStdout(), "rows: %d\n", len(rows))
			fmt.Fprintf(cmd.OutOrStdout(), "materiality_precision: %.4f\n", metrics["materiality_precision"])
			fmt.Fprintf(cmd.OutOrStdout(), "materiality_recall: %.4f\n", metrics["materiality_recall"])

			if runID == "" {
				return nil
			}
			if err := cc.requireProject(); err != nil {
				return err
			}

			report, err := cc.Client.EvaluateRun(cmd.Context(), runID, dto.EvaluateRunRequest{
				GroundTruth: toRecordDTOs(groundTruth),
				Responses:   toRecordDTOs(responses),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recorded evaluation %s for run %s\n", report.ID, runID)
			return nil
		},
	}

	evalCmd.Flags().String("ground-truth", "", "Ground truth CSV path (required)")
	evalCmd.Flags().String("responses", "", "Directory of agent response JSONL files (required)")
	evalCmd.Flags().String("run", "", "Run id to record the report against")
	_ = evalCmd.MarkFlagRequired("ground-truth")
	_ = evalCmd.MarkFlagRequired("responses")

	return evalCmd
}

func readGroundTruth(path string) ([]evaluation.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ground truth: %w", err)
	}
	defer f.Close()
	return evaluation.ReadGroundTruthCSV(f)
}

// readResponsesDir reads every *.jsonl file in dir; the company id is the file
// name without extension.
func readResponsesDir(dir string) ([]evaluation.Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read responses dir: %w", err)
	}

	var records []evaluation.Record
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		companyID := strings.TrimSuffix(entry.Name(), ".jsonl")

		f, err := os.Open(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("open responses %s: %w", entry.Name(), err)
		}
		fileRecords, err := evaluation.ReadResponsesJSONL(f, companyID)
		f.Close()
		if err != nil {
			return nil, err
		}
		records = append(records, fileRecords...)
	}
	return records, nil
}

func toRecordDTOs(records []evaluation.Record) []dto.EvaluationRecordDTO {
	out := make([]dto.EvaluationRecordDTO, 0, len(records))
	for _, r := range records {
		out = append(out, dto.EvaluationRecordDTO{
			CompanyID:  r.CompanyID,
			MetricName: r.MetricName,
			YoYPct:     r.YoYPct,
		})
	}
	return out
}

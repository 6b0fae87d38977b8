package cli

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"workspace-registry-service/internal/adapters/primary/http/dto"
	"workspace-registry-service/internal/core/domain"
	"workspace-registry-service/internal/lint"
	"workspace-registry-service/internal/workspace"
)

var errComplianceFailed = fmt.Errorf("compliance check failed")

func newCheckCmd() *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Lint the workspace against its conventions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := newCommandContext(cmd)
			if err != nil {
				return err
			}

			watch, _ := cmd.Flags().GetBool("watch")
			sync, _ := cmd.Flags().GetBool("sync")
			linter := lint.New()

			if watch {
				watcher := lint.NewWatcher(cc.Root, linter, func(result *lint.Result) {
					printResult(cmd.OutOrStdout(), result)
				})
				return watcher.Run(cmd.Context())
			}

			ws, err := workspace.Scan(cc.Root)
			if err != nil {
				return err
			}

			result := linter.Run(ws)
			printResult(cmd.OutOrStdout(), result)

			if sync {
				if err := syncWorkspace(cmd, cc, ws, result); err != nil {
					return err
				}
			}

			if !result.Passed() {
				return errComplianceFailed
			}
			return nil
		},
	}

	checkCmd.Flags().Bool("watch", false, "Re-lint on filesystem change")
	checkCmd.Flags().Bool("sync", false, "Sync packages and reports to the registry")
	return checkCmd
}

func printResult(w io.Writer, result *lint.Result) {
	for _, f := range result.Findings {
		fmt.Fprintf(w, "%s %-7s %s: %s\n", f.RuleID, f.Severity, f.Path, f.Message)
	}
	fmt.Fprintf(w, "%d errors, %d warnings\n", result.Errors, result.Warnings)
}

func syncWorkspace(cmd *cobra.Command, cc *commandContext, ws *workspace.Workspace, result *lint.Result) error {
	if err := cc.requireProject(); err != nil {
		return err
	}

	commit, err := headCommit(cc.Root)
	if err != nil {
		log.WithError(err).Warn("reports will be recorded without a commit")
		commit = ""
	}

	for _, pkg := range ws.Packages {
		manifestVersion := ""
		dependencyCount := 0
		if pkg.Manifest != nil {
			manifestVersion = pkg.Manifest.Version
			dependencyCount = len(pkg.Manifest.Dependencies)
		}

		if _, err := cc.Client.SyncPackage(cmd.Context(), dto.SyncPackageRequest{
			Name:            pkg.Name,
			Kind:            string(pkg.Kind),
			Path:            ws.Rel(pkg.Path),
			ManifestVersion: manifestVersion,
			DependencyCount: dependencyCount,
		}); err != nil {
			return fmt.Errorf("sync package %s: %w", pkg.Name, err)
		}

		findings := result.FindingsFor(ws.Rel(pkg.Path))
		report := dto.RecordReportRequest{GitCommit: commit, Findings: toFindingDTOs(findings)}
		if _, err := cc.Client.RecordReport(cmd.Context(), pkg.Name, report); err != nil {
			return fmt.Errorf("record report for %s: %w", pkg.Name, err)
		}

		log.WithFields(log.Fields{"package": pkg.Name, "findings": len(findings)}).Info("synced")
	}
	return nil
}

func toFindingDTOs(findings []domain.Finding) []dto.FindingDTO {
	out := make([]dto.FindingDTO, 0, len(findings))
	for _, f := range findings {
		out = append(out, dto.FindingDTO{
			RuleID:   f.RuleID,
			Severity: string(f.Severity),
			Path:     f.Path,
			Message:  f.Message,
		})
	}
	return out
}

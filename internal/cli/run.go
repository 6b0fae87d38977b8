package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"workspace-registry-service/internal/adapters/primary/http/dto"
)

// jobSpec is the package-local aml-job.yaml: the base job definition a run
// submission starts from.
type jobSpec struct {
	DisplayName string `yaml:"display_name"`
	Compute     string `yaml:"compute"`
	Environment struct {
		Image string `yaml:"image"`
	} `yaml:"environment"`
	Command string            `yaml:"command"`
	Inputs  map[string]string `yaml:"inputs"`
}

func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Submit and track experiment runs",
	}

	runCmd.AddCommand(newRunSubmitCmd(), newRunStatusCmd(), newRunCancelCmd(), newRunListCmd())
	return runCmd
}

func newRunSubmitCmd() *cobra.Command {
	submitCmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit an experiment run pinned to HEAD and versioned data",
		Long: `Submits an experiment run for a package. The git commit is taken from the
workspace HEAD; a dirty tree is rejected. Data bindings are given as
name[@version][:mount-path]; version defaults to the latest READY version,
mount path to /mnt/data/<name>. The package's aml-job.yaml supplies the
container image and command unless overridden.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := newCommandContext(cmd)
			if err != nil {
				return err
			}
			if err := cc.requireProject(); err != nil {
				return err
			}

			pkgName, _ := cmd.Flags().GetString("package")
			target, _ := cmd.Flags().GetString("target")
			commit, _ := cmd.Flags().GetString("commit")
			image, _ := cmd.Flags().GetString("image")
			command, _ := cmd.Flags().GetString("command")
			displayName, _ := cmd.Flags().GetString("name")
			dataFlags, _ := cmd.Flags().GetStringArray("data")
			paramFlags, _ := cmd.Flags().GetStringArray("param")

			if target == "" {
				target = cc.Config.DefaultTarget
			}
			if commit == "" {
				commit, err = headCommit(cc.Root)
				if err != nil {
					return err
				}
			}

			spec, err := loadJobSpec(filepath.Join(cc.Root, "packages", pkgName, "aml-job.yaml"))
			if err != nil {
				return err
			}
			if image == "" {
				image = spec.Environment.Image
			}
			if command == "" {
				command = spec.Command
			}
			if displayName == "" {
				displayName = spec.DisplayName
			}

			bindings, err := parseBindings(dataFlags)
			if err != nil {
				return err
			}

			parameters := make(map[string]string)
			for _, p := range paramFlags {
				key, value, ok := strings.Cut(p, "=")
				if !ok {
					return fmt.Errorf("invalid --param %q: expected key=value", p)
				}
				parameters[key] = value
			}

			run, err := cc.Client.SubmitRun(cmd.Context(), dto.SubmitRunRequest{
				PackageName:    pkgName,
				DisplayName:    displayName,
				GitCommit:      commit,
				ComputeTarget:  target,
				ContainerImage: image,
				Command:        command,
				CreatedBy:      cc.Config.CreatedBy,
				DataBindings:   bindings,
				Parameters:     parameters,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "run %s submitted (%s, job %s)\n", run.ID, run.Status, run.ExternalJobID)
			return nil
		},
	}

	submitCmd.Flags().String("package", "", "Package to run (required)")
	submitCmd.Flags().String("target", "", "Compute target (azureml, kubernetes)")
	submitCmd.Flags().String("commit", "", "Git commit to pin (defaults to clean HEAD)")
	submitCmd.Flags().String("image", "", "Container image override")
	submitCmd.Flags().String("command", "", "Job command override")
	submitCmd.Flags().String("name", "", "Display name override")
	submitCmd.Flags().StringArray("data", nil, "Data binding name[@version][:mount-path], repeatable")
	submitCmd.Flags().StringArray("param", nil, "Job parameter key=value, repeatable")
	_ = submitCmd.MarkFlagRequired("package")
	_ = submitCmd.MarkFlagRequired("data")

	return submitCmd
}

func newRunStatusCmd() *cobra.Command {
	statusCmd := &cobra.Command{
		Use:   "status <run-id>",
		Short: "Sync and print the status of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := newCommandContext(cmd)
			if err != nil {
				return err
			}
			if err := cc.requireProject(); err != nil {
				return err
			}

			run, err := cc.Client.SyncRunStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s@%s  %s\n",
				run.ID, run.Status, run.PackageName, run.GitCommit[:8], run.ComputeTarget)
			for _, b := range run.DataBindings {
				fmt.Fprintf(cmd.OutOrStdout(), "  data %s@%d -> %s\n", b.AssetName, b.Version, b.MountPath)
			}
			return nil
		},
	}
	return statusCmd
}

func newRunCancelCmd() *cobra.Command {
	cancelCmd := &cobra.Command{
		Use:   "cancel <run-id>",
		Short: "Cancel a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := newCommandContext(cmd)
			if err != nil {
				return err
			}
			if err := cc.requireProject(); err != nil {
				return err
			}

			run, err := cc.Client.CancelRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %s %s\n", run.ID, run.Status)
			return nil
		},
	}
	return cancelCmd
}

func newRunListCmd() *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List runs in the project",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := newCommandContext(cmd)
			if err != nil {
				return err
			}
			if err := cc.requireProject(); err != nil {
				return err
			}

			limit, _ := cmd.Flags().GetInt("limit")
			resp, err := cc.Client.ListRuns(cmd.Context(), limit, 0)
			if err != nil {
				return err
			}

			for _, run := range resp.Items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-9s  %-20s  %s\n",
					run.ID, run.Status, run.PackageName, run.CreatedAt)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d runs\n", len(resp.Items), resp.Total)
			return nil
		},
	}

	listCmd.Flags().Int("limit", 20, "Maximum runs to list")
	return listCmd
}

func loadJobSpec(path string) (*jobSpec, error) {
	spec := &jobSpec{}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return spec, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read job spec: %w", err)
	}

	if err := yaml.Unmarshal(data, spec); err != nil {
		return nil, fmt.Errorf("parse job spec %s: %w", path, err)
	}
	return spec, nil
}

// parseBindings parses name[@version][:mount-path] flags.
func parseBindings(flags []string) ([]dto.DataBindingRequest, error) {
	bindings := make([]dto.DataBindingRequest, 0, len(flags))
	for _, raw := range flags {
		ref, mount, _ := strings.Cut(raw, ":")
		name, versionStr, hasVersion := strings.Cut(ref, "@")

		if name == "" {
			return nil, fmt.Errorf("invalid --data %q: empty asset name", raw)
		}

		version := 0
		if hasVersion {
			v, err := strconv.Atoi(versionStr)
			if err != nil || v <= 0 {
				return nil, fmt.Errorf("invalid --data %q: bad version %q", raw, versionStr)
			}
			version = v
		}

		if mount == "" {
			mount = "/mnt/data/" + name
		}

		bindings = append(bindings, dto.DataBindingRequest{
			AssetName: name,
			Version:   version,
			MountPath: mount,
		})
	}
	return bindings, nil
}

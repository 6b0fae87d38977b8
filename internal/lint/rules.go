package lint

import (
	"fmt"
	"path/filepath"
	"strings"

	"workspace-registry-service/internal/core/domain"
	"workspace-registry-service/internal/workspace"
)

// Rule checks one workspace convention and reports findings.
type Rule interface {
	ID() string
	Check(ws *workspace.Workspace) []domain.Finding
}

// DefaultRules is the full workspace convention rule set.
func DefaultRules() []Rule {
	return []Rule{
		manifestPresent{},
		srcLayout{},
		testsPresent{},
		sharedNoDeps{},
		nameMatchesManifest{},
		experimentJobFiles{},
		scriptStrictMode{},
		scriptHelpText{},
	}
}

// manifestPresent: every package under packages/ has a pyproject.toml.
type manifestPresent struct{}

func (manifestPresent) ID() string { return "R001" }

func (r manifestPresent) Check(ws *workspace.Workspace) []domain.Finding {
	var findings []domain.Finding
	for _, pkg := range ws.Packages {
		switch {
		case pkg.Manifest == nil && pkg.ManifestErr == nil:
			findings = append(findings, domain.Finding{
				RuleID:   r.ID(),
				Severity: domain.SeverityError,
				Path:     ws.Rel(pkg.Path),
				Message:  "package has no pyproject.toml",
			})
		case pkg.ManifestErr != nil:
			findings = append(findings, domain.Finding{
				RuleID:   r.ID(),
				Severity: domain.SeverityError,
				Path:     ws.Rel(filepath.Join(pkg.Path, "pyproject.toml")),
				Message:  fmt.Sprintf("pyproject.toml is unreadable: %v", pkg.ManifestErr),
			})
		}
	}
	return findings
}

// srcLayout: package uses src layout, src/<package_name>/ exists.
type srcLayout struct{}

func (srcLayout) ID() string { return "R002" }

func (r srcLayout) Check(ws *workspace.Workspace) []domain.Finding {
	var findings []domain.Finding
	for _, pkg := range ws.Packages {
		if !pkg.HasSrcLayout {
			importName := strings.ReplaceAll(pkg.Name, "-", "_")
			findings = append(findings, domain.Finding{
				RuleID:   r.ID(),
				Severity: domain.SeverityError,
				Path:     ws.Rel(pkg.Path),
				Message:  fmt.Sprintf("missing src layout: expected src/%s/", importName),
			})
		}
	}
	return findings
}

// testsPresent: every package has tests/ with at least one test_*.py.
type testsPresent struct{}

func (testsPresent) ID() string { return "R003" }

func (r testsPresent) Check(ws *workspace.Workspace) []domain.Finding {
	var findings []domain.Finding
	for _, pkg := range ws.Packages {
		if len(pkg.TestFiles) == 0 {
			findings = append(findings, domain.Finding{
				RuleID:   r.ID(),
				Severity: domain.SeverityError,
				Path:     ws.Rel(pkg.Path),
				Message:  "no tests: expected tests/ with at least one test_*.py",
			})
		}
	}
	return findings
}

// sharedNoDeps: the shared package declares zero runtime dependencies.
type sharedNoDeps struct{}

func (sharedNoDeps) ID() string { return "R004" }

func (r sharedNoDeps) Check(ws *workspace.Workspace) []domain.Finding {
	var findings []domain.Finding
	for _, pkg := range ws.Packages {
		if pkg.Kind != domain.PackageKindShared || pkg.Manifest == nil {
			continue
		}
		if n := len(pkg.Manifest.Dependencies); n > 0 {
			findings = append(findings, domain.Finding{
				RuleID:   r.ID(),
				Severity: domain.SeverityError,
				Path:     ws.Rel(filepath.Join(pkg.Path, "pyproject.toml")),
				Message:  fmt.Sprintf("shared package declares %d runtime dependencies, expected zero", n),
			})
		}
	}
	return findings
}

// nameMatchesManifest: package directory name matches the pyproject project
// name.
type nameMatchesManifest struct{}

func (nameMatchesManifest) ID() string { return "R005" }

func (r nameMatchesManifest) Check(ws *workspace.Workspace) []domain.Finding {
	var findings []domain.Finding
	for _, pkg := range ws.Packages {
		if pkg.Manifest == nil || pkg.Manifest.Name == "" {
			continue
		}
		if pkg.Manifest.Name != pkg.Name {
			findings = append(findings, domain.Finding{
				RuleID:   r.ID(),
				Severity: domain.SeverityError,
				Path:     ws.Rel(filepath.Join(pkg.Path, "pyproject.toml")),
				Message:  fmt.Sprintf("project name %q does not match directory name %q", pkg.Manifest.Name, pkg.Name),
			})
		}
	}
	return findings
}

// experimentJobFiles: experiment packages carry an aml-job.yaml and a
// Dockerfile.
type experimentJobFiles struct{}

func (experimentJobFiles) ID() string { return "R006" }

func (r experimentJobFiles) Check(ws *workspace.Workspace) []domain.Finding {
	var findings []domain.Finding
	for _, pkg := range ws.Packages {
		if pkg.Kind != domain.PackageKindExperiment {
			continue
		}
		if !pkg.HasAMLJob {
			findings = append(findings, domain.Finding{
				RuleID:   r.ID(),
				Severity: domain.SeverityError,
				Path:     ws.Rel(pkg.Path),
				Message:  "experiment package is missing aml-job.yaml",
			})
		}
		if !pkg.HasDockerfile {
			findings = append(findings, domain.Finding{
				RuleID:   r.ID(),
				Severity: domain.SeverityError,
				Path:     ws.Rel(pkg.Path),
				Message:  "experiment package is missing a Dockerfile",
			})
		}
	}
	return findings
}

// scriptStrictMode: bin/ scripts start with a shebang and set strict shell
// options.
type scriptStrictMode struct{}

func (scriptStrictMode) ID() string { return "R007" }

func (r scriptStrictMode) Check(ws *workspace.Workspace) []domain.Finding {
	var findings []domain.Finding
	for _, script := range ws.Scripts {
		if !strings.HasPrefix(script.Content, "#!") {
			findings = append(findings, domain.Finding{
				RuleID:   r.ID(),
				Severity: domain.SeverityError,
				Path:     ws.Rel(script.Path),
				Message:  "script does not start with a shebang",
			})
			continue
		}
		if !strings.Contains(script.Content, "set -eo pipefail") &&
			!strings.Contains(script.Content, "set -euo pipefail") {
			findings = append(findings, domain.Finding{
				RuleID:   r.ID(),
				Severity: domain.SeverityError,
				Path:     ws.Rel(script.Path),
				Message:  "script does not set -eo pipefail",
			})
		}
	}
	return findings
}

// scriptHelpText: bin/ scripts respond to --help. Static heuristic: the script
// mentions a help flag or usage text.
type scriptHelpText struct{}

func (scriptHelpText) ID() string { return "R008" }

func (r scriptHelpText) Check(ws *workspace.Workspace) []domain.Finding {
	var findings []domain.Finding
	for _, script := range ws.Scripts {
		lower := strings.ToLower(script.Content)
		if !strings.Contains(lower, "--help") && !strings.Contains(lower, "usage") {
			findings = append(findings, domain.Finding{
				RuleID:   r.ID(),
				Severity: domain.SeverityWarning,
				Path:     ws.Rel(script.Path),
				Message:  "script has no --help handling or usage text",
			})
		}
	}
	return findings
}

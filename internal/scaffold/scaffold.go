package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	log "github.com/sirupsen/logrus"

	"workspace-registry-service/internal/core/domain"
)

// params feeds the file templates.
type params struct {
	Name       string
	ImportName string
	Kind       string
}

// Generate writes a convention-compliant package skeleton under
// packages/<name> in the workspace root. It refuses to overwrite an existing
// package.
func Generate(root, name, kind string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrInvalidPackageName
	}
	if err := domain.ValidatePackageKind(kind); err != nil {
		return "", err
	}

	pkgDir := filepath.Join(root, "packages", name)
	if _, err := os.Stat(pkgDir); err == nil {
		return "", fmt.Errorf("package %s already exists at %s: %w", name, pkgDir, domain.ErrPackageNameConflict)
	}

	p := params{
		Name:       name,
		ImportName: strings.ReplaceAll(name, "-", "_"),
		Kind:       kind,
	}

	files := map[string]string{
		"pyproject.toml": pyprojectTmpl,
		filepath.Join("src", p.ImportName, "__init__.py"): initTmpl,
		filepath.Join("tests", "test_smoke.py"):           smokeTestTmpl,
	}
	if domain.PackageKind(kind) == domain.PackageKindExperiment {
		files["Dockerfile"] = dockerfileTmpl
		files["aml-job.yaml"] = amlJobTmpl
	}

	for rel, tmpl := range files {
		if err := renderFile(filepath.Join(pkgDir, rel), rel, tmpl, p); err != nil {
			return "", err
		}
	}

	log.WithFields(log.Fields{"package": name, "kind": kind, "path": pkgDir}).Info("package scaffolded")
	return pkgDir, nil
}

func renderFile(path, name, tmplText string, p params) error {
	t, err := template.New(name).Parse(tmplText)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", name, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", name, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	if err := t.Execute(f, p); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"workspace-registry-service/internal/core/domain"
)

// SharedPackageName is the one package every experiment may depend on. It is
// held to stricter rules than experiment packages.
const SharedPackageName = "shared"

// Package is one directory under packages/ as found on disk.
type Package struct {
	Name        string
	Path        string
	Kind        domain.PackageKind
	Manifest    *Manifest
	ManifestErr error

	HasSrcLayout  bool
	TestFiles     []string
	HasDockerfile bool
	HasAMLJob     bool
}

// Script is one entry under bin/, kept with its content for static checks.
type Script struct {
	Path    string
	Content string
}

// Workspace is the scanned state of one workspace checkout.
type Workspace struct {
	Root     string
	Packages []Package
	Scripts  []Script
}

// Scan walks a workspace root and collects packages and bin scripts. Missing
// packages/ or bin/ directories are not errors; the lint rules decide what to
// make of an empty workspace.
func Scan(root string) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}

	ws := &Workspace{Root: abs}

	pkgDir := filepath.Join(abs, "packages")
	entries, err := os.ReadDir(pkgDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read packages dir: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pkg := scanPackage(filepath.Join(pkgDir, entry.Name()), entry.Name())
		ws.Packages = append(ws.Packages, pkg)
	}
	sort.Slice(ws.Packages, func(i, j int) bool { return ws.Packages[i].Name < ws.Packages[j].Name })

	scripts, err := scanScripts(filepath.Join(abs, "bin"))
	if err != nil {
		return nil, err
	}
	ws.Scripts = scripts

	log.WithFields(log.Fields{
		"root":     abs,
		"packages": len(ws.Packages),
		"scripts":  len(ws.Scripts),
	}).Debug("workspace scanned")

	return ws, nil
}

func scanPackage(path, name string) Package {
	pkg := Package{
		Name: name,
		Path: path,
		Kind: domain.PackageKindExperiment,
	}
	if name == SharedPackageName {
		pkg.Kind = domain.PackageKindShared
	}

	manifestPath := filepath.Join(path, "pyproject.toml")
	if _, err := os.Stat(manifestPath); err == nil {
		pkg.Manifest, pkg.ManifestErr = ParseManifest(manifestPath)
	}

	// src layout is src/<import name>/, underscores for dashes
	importName := strings.ReplaceAll(name, "-", "_")
	if info, err := os.Stat(filepath.Join(path, "src", importName)); err == nil && info.IsDir() {
		pkg.HasSrcLayout = true
	}

	if testEntries, err := os.ReadDir(filepath.Join(path, "tests")); err == nil {
		for _, e := range testEntries {
			if !e.IsDir() && strings.HasPrefix(e.Name(), "test_") && strings.HasSuffix(e.Name(), ".py") {
				pkg.TestFiles = append(pkg.TestFiles, e.Name())
			}
		}
	}

	if _, err := os.Stat(filepath.Join(path, "Dockerfile")); err == nil {
		pkg.HasDockerfile = true
	}
	if _, err := os.Stat(filepath.Join(path, "aml-job.yaml")); err == nil {
		pkg.HasAMLJob = true
	}

	return pkg
}

func scanScripts(binDir string) ([]Script, error) {
	var scripts []Script

	err := filepath.WalkDir(binDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read script %s: %w", path, err)
		}
		scripts = append(scripts, Script{Path: path, Content: string(data)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan bin scripts: %w", err)
	}

	sort.Slice(scripts, func(i, j int) bool { return scripts[i].Path < scripts[j].Path })
	return scripts, nil
}

// Rel returns p relative to the workspace root, for finding paths in reports.
func (w *Workspace) Rel(p string) string {
	rel, err := filepath.Rel(w.Root, p)
	if err != nil {
		return p
	}
	return rel
}

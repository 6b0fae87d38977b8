package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workspace-registry-service/internal/core/domain"
	"workspace-registry-service/internal/lint"
	"workspace-registry-service/internal/workspace"
)

func TestGenerate_ExperimentPackage(t *testing.T) {
	root := t.TempDir()

	pkgDir, err := Generate(root, "doc-extract", "experiment")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "packages", "doc-extract"), pkgDir)

	for _, rel := range []string{
		"pyproject.toml",
		"src/doc_extract/__init__.py",
		"tests/test_smoke.py",
		"Dockerfile",
		"aml-job.yaml",
	} {
		_, err := os.Stat(filepath.Join(pkgDir, rel))
		assert.NoError(t, err, rel)
	}

	manifest, err := workspace.ParseManifest(filepath.Join(pkgDir, "pyproject.toml"))
	require.NoError(t, err)
	assert.Equal(t, "doc-extract", manifest.Name)
	assert.Equal(t, "0.1.0", manifest.Version)
	assert.Empty(t, manifest.Dependencies)

	smoke, err := os.ReadFile(filepath.Join(pkgDir, "tests", "test_smoke.py"))
	require.NoError(t, err)
	assert.Contains(t, string(smoke), "import doc_extract")
}

func TestGenerate_SharedPackageSkipsJobFiles(t *testing.T) {
	root := t.TempDir()

	pkgDir, err := Generate(root, "shared", "shared")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(pkgDir, "Dockerfile"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(pkgDir, "aml-job.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerate_PassesLint(t *testing.T) {
	root := t.TempDir()

	_, err := Generate(root, "materiality", "experiment")
	require.NoError(t, err)
	_, err = Generate(root, "shared", "shared")
	require.NoError(t, err)

	ws, err := workspace.Scan(root)
	require.NoError(t, err)

	result := lint.New().Run(ws)
	assert.Empty(t, result.Findings)
	assert.True(t, result.Passed())
}

func TestGenerate_RefusesExistingPackage(t *testing.T) {
	root := t.TempDir()

	_, err := Generate(root, "materiality", "experiment")
	require.NoError(t, err)

	_, err = Generate(root, "materiality", "experiment")
	assert.ErrorIs(t, err, domain.ErrPackageNameConflict)
}

func TestGenerate_InvalidInputs(t *testing.T) {
	root := t.TempDir()

	_, err := Generate(root, "  ", "experiment")
	assert.ErrorIs(t, err, domain.ErrInvalidPackageName)

	_, err = Generate(root, "materiality", "notebook")
	assert.ErrorIs(t, err, domain.ErrUnsupportedPackageKind)
}

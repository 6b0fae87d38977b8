package domain

import "errors"

// ============================================================================
// Data Asset Errors
// ============================================================================

var (
	ErrAssetNotFound        = errors.New("data asset not found")
	ErrAssetNameConflict    = errors.New("data asset with this name already exists in the project")
	ErrVersionNotFound      = errors.New("data asset version not found")
	ErrInvalidAssetName     = errors.New("data asset name is required")
	ErrInvalidAssetID       = errors.New("data asset ID is required")
	ErrUnsupportedAssetKind = errors.New("unsupported data asset kind")
	ErrInvalidAssetState    = errors.New("invalid data asset state")
	ErrInvalidURI           = errors.New("data asset version URI is required")
	ErrInvalidChecksum      = errors.New("checksum must be a lowercase hex sha256 digest")
	ErrMissingProjectID     = errors.New("project ID is required (Project-ID header)")
	ErrAssetNotArchived     = errors.New("cannot delete data asset: must be archived first")
	ErrVersionReferenced    = errors.New("cannot delete data asset: versions are referenced by experiment runs")
	ErrVersionImmutable     = errors.New("data asset version URI and checksum are immutable")
	ErrVersionNotReady      = errors.New("data asset version is not ready")
	ErrVersionConflict      = errors.New("data asset version already exists")
	ErrInvalidVersionStatus = errors.New("invalid data asset version status")
)

// ============================================================================
// Package / Compliance Errors
// ============================================================================

var (
	ErrPackageNotFound        = errors.New("workspace package not found")
	ErrPackageNameConflict    = errors.New("package with this name already exists in the project")
	ErrInvalidPackageName     = errors.New("package name is required")
	ErrUnsupportedPackageKind = errors.New("unsupported package kind")
	ErrReportNotFound         = errors.New("compliance report not found")
)

// ============================================================================
// Experiment Run Errors
// ============================================================================

// Validation errors
var (
	ErrInvalidGitCommit         = errors.New("git commit must be a full 40-character hex id")
	ErrUnsupportedComputeTarget = errors.New("unsupported compute target")
	ErrInvalidRunPackage        = errors.New("run package name is required")
	ErrNoDataBindings           = errors.New("run must bind at least one data asset version")
	ErrInvalidMountPath         = errors.New("data binding mount path is required")
)

// Not found / state errors
var (
	ErrRunNotFound        = errors.New("experiment run not found")
	ErrRunAlreadyFinished = errors.New("experiment run already finished")
	ErrRunnerNotAvailable = errors.New("job runner for this compute target is not configured")
)

// ============================================================================
// Evaluation Errors
// ============================================================================

var (
	ErrEvaluationNotFound = errors.New("evaluation report not found")
	ErrDuplicateEvalKey   = errors.New("duplicate (id, name) key in evaluation input")
	ErrEmptyEvaluation    = errors.New("evaluation input has no rows")
)

package handlers

import (
	"errors"
	"net/http"

	"workspace-registry-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrAssetNotFound),
		errors.Is(err, domain.ErrVersionNotFound),
		errors.Is(err, domain.ErrPackageNotFound),
		errors.Is(err, domain.ErrReportNotFound),
		errors.Is(err, domain.ErrRunNotFound),
		errors.Is(err, domain.ErrEvaluationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Conflict errors
	case errors.Is(err, domain.ErrAssetNameConflict),
		errors.Is(err, domain.ErrPackageNameConflict),
		errors.Is(err, domain.ErrVersionConflict),
		errors.Is(err, domain.ErrVersionReferenced),
		errors.Is(err, domain.ErrRunAlreadyFinished):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrInvalidAssetName),
		errors.Is(err, domain.ErrInvalidAssetID),
		errors.Is(err, domain.ErrMissingProjectID),
		errors.Is(err, domain.ErrUnsupportedAssetKind),
		errors.Is(err, domain.ErrInvalidAssetState),
		errors.Is(err, domain.ErrInvalidURI),
		errors.Is(err, domain.ErrInvalidChecksum),
		errors.Is(err, domain.ErrAssetNotArchived),
		errors.Is(err, domain.ErrVersionImmutable),
		errors.Is(err, domain.ErrVersionNotReady),
		errors.Is(err, domain.ErrInvalidVersionStatus),
		errors.Is(err, domain.ErrInvalidPackageName),
		errors.Is(err, domain.ErrUnsupportedPackageKind),
		errors.Is(err, domain.ErrInvalidGitCommit),
		errors.Is(err, domain.ErrUnsupportedComputeTarget),
		errors.Is(err, domain.ErrInvalidRunPackage),
		errors.Is(err, domain.ErrNoDataBindings),
		errors.Is(err, domain.ErrInvalidMountPath),
		errors.Is(err, domain.ErrDuplicateEvalKey),
		errors.Is(err, domain.ErrEmptyEvaluation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Service unavailable errors
	case errors.Is(err, domain.ErrRunnerNotAvailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

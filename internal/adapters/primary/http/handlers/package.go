package handlers

import (
	"net/http"
	"strconv"

	"workspace-registry-service/internal/adapters/primary/http/dto"
	"workspace-registry-service/internal/core/domain"
	"workspace-registry-service/internal/core/ports/output"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) ListPackages(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.PackageListFilter{
		ProjectID: projectID,
		Kind:      c.Query("kind"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		Order:     c.Query("order"),
		Limit:     limit,
		Offset:    offset,
	}

	packages, total, err := h.packageSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list packages failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.WorkspacePackageResponse, 0, len(packages))
	for _, p := range packages {
		items = append(items, dto.ToWorkspacePackageResponse(p))
	}

	c.JSON(http.StatusOK, dto.ListPackagesResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetPackage(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	pkg, err := h.packageSvc.GetByName(c.Request.Context(), projectID, c.Param("name"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspacePackageResponse(pkg))
}

// SyncPackage upserts one package. PUT because the scanner calls it repeatedly
// with whatever it found on disk.
func (h *Handler) SyncPackage(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	var req dto.SyncPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pkg, err := h.packageSvc.Sync(
		c.Request.Context(), projectID,
		req.Name, req.Kind, req.Path, req.ManifestVersion,
		req.DependencyCount, req.Labels,
	)
	if err != nil {
		log.WithError(err).Error("sync package failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspacePackageResponse(pkg))
}

func (h *Handler) DeletePackage(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	pkg, err := h.packageSvc.GetByName(c.Request.Context(), projectID, c.Param("name"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	if err := h.packageSvc.Delete(c.Request.Context(), projectID, pkg.ID); err != nil {
		log.WithError(err).Error("delete package failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) GetLatestReport(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	report, err := h.packageSvc.LatestReport(c.Request.Context(), projectID, c.Param("name"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToComplianceReportResponse(report))
}

func (h *Handler) RecordReport(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	var req dto.RecordReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.packageSvc.RecordReport(
		c.Request.Context(), projectID,
		c.Param("name"), req.GitCommit, dto.ToFindings(req.Findings),
	)
	if err != nil {
		log.WithError(err).Error("record compliance report failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToComplianceReportResponse(report))
}

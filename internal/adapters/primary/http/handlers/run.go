package handlers

import (
	"net/http"
	"strconv"

	"workspace-registry-service/internal/adapters/primary/http/dto"
	"workspace-registry-service/internal/core/domain"
	"workspace-registry-service/internal/core/ports/output"
	"workspace-registry-service/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) ListRuns(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.RunListFilter{
		ProjectID:   projectID,
		PackageName: c.Query("package"),
		Status:      c.Query("status"),
		Target:      c.Query("compute_target"),
		SortBy:      c.Query("sort_by"),
		Order:       c.Query("order"),
		Limit:       limit,
		Offset:      offset,
	}

	runs, total, err := h.runSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list runs failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ExperimentRunResponse, 0, len(runs))
	for _, r := range runs {
		items = append(items, dto.ToExperimentRunResponse(r))
	}

	c.JSON(http.StatusOK, dto.ListRunsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetRun(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	run, err := h.runSvc.Get(c.Request.Context(), projectID, id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToExperimentRunResponse(run))
}

func (h *Handler) SubmitRun(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	var req dto.SubmitRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bindings := make([]services.RunBindingRequest, 0, len(req.DataBindings))
	for _, b := range req.DataBindings {
		bindings = append(bindings, services.RunBindingRequest{
			AssetName: b.AssetName,
			Version:   b.Version,
			MountPath: b.MountPath,
		})
	}

	run, err := h.runSvc.Submit(
		c.Request.Context(), projectID,
		req.PackageName, req.DisplayName, req.GitCommit, req.ComputeTarget,
		req.ContainerImage, req.Command, req.CreatedBy,
		bindings, req.Parameters,
	)
	if err != nil {
		log.WithError(err).Error("submit run failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToExperimentRunResponse(run))
}

func (h *Handler) SyncRunStatus(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	run, err := h.runSvc.SyncStatus(c.Request.Context(), projectID, id)
	if err != nil {
		log.WithError(err).Error("sync run status failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToExperimentRunResponse(run))
}

func (h *Handler) CancelRun(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	run, err := h.runSvc.Cancel(c.Request.Context(), projectID, id)
	if err != nil {
		log.WithError(err).Error("cancel run failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToExperimentRunResponse(run))
}

func (h *Handler) ListRunMetrics(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	metrics, err := h.runSvc.ListMetrics(c.Request.Context(), projectID, id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items := make([]dto.RunMetricResponse, 0, len(metrics))
	for _, m := range metrics {
		items = append(items, dto.ToRunMetricResponse(m))
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (h *Handler) LogRunMetric(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	var req dto.LogMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	metric, err := h.runSvc.LogMetric(c.Request.Context(), projectID, id, req.Name, req.Value, req.Step)
	if err != nil {
		log.WithError(err).Error("log run metric failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRunMetricResponse(metric))
}

func (h *Handler) ListRunArtifacts(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	artifacts, err := h.runSvc.ListArtifacts(c.Request.Context(), projectID, id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items := make([]dto.RunArtifactResponse, 0, len(artifacts))
	for _, a := range artifacts {
		items = append(items, dto.ToRunArtifactResponse(a))
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (h *Handler) LogRunArtifact(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	var req dto.LogArtifactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	artifact, err := h.runSvc.LogArtifact(c.Request.Context(), projectID, id, req.Name, req.URI, req.SizeBytes)
	if err != nil {
		log.WithError(err).Error("log run artifact failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRunArtifactResponse(artifact))
}

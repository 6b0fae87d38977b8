package handlers

import (
	"net/http"

	"workspace-registry-service/internal/adapters/primary/http/dto"
	"workspace-registry-service/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) EvaluateRun(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	var req dto.EvaluateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, _, err := h.evalSvc.Evaluate(
		c.Request.Context(), projectID, runID,
		dto.ToEvaluationRecords(req.GroundTruth),
		dto.ToEvaluationRecords(req.Responses),
	)
	if err != nil {
		log.WithError(err).Error("evaluate run failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEvaluationReportResponse(report))
}

func (h *Handler) ListRunEvaluations(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	reports, err := h.evalSvc.ListByRun(c.Request.Context(), projectID, runID)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items := make([]dto.EvaluationReportResponse, 0, len(reports))
	for _, r := range reports {
		items = append(items, dto.ToEvaluationReportResponse(r))
	}

	c.JSON(http.StatusOK, dto.ListEvaluationsResponse{Items: items, Total: len(items)})
}

func (h *Handler) GetEvaluation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid evaluation id"})
		return
	}

	report, err := h.evalSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEvaluationReportResponse(report))
}

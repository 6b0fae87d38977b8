package handlers

import (
	"net/http"
	"strconv"

	"workspace-registry-service/internal/adapters/primary/http/dto"
	"workspace-registry-service/internal/core/domain"
	"workspace-registry-service/internal/core/ports/output"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) ListDataAssets(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.AssetListFilter{
		ProjectID: projectID,
		State:     c.Query("state"),
		Kind:      c.Query("kind"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		Order:     c.Query("order"),
		Limit:     limit,
		Offset:    offset,
	}

	assets, total, err := h.assetSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list data assets failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.DataAssetResponse, 0, len(assets))
	for _, a := range assets {
		items = append(items, dto.ToDataAssetResponse(a))
	}

	c.JSON(http.StatusOK, dto.ListDataAssetsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetDataAsset(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data asset id"})
		return
	}

	asset, err := h.assetSvc.Get(c.Request.Context(), projectID, id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDataAssetResponse(asset))
}

func (h *Handler) GetDataAssetByName(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	asset, err := h.assetSvc.GetByName(c.Request.Context(), projectID, c.Query("name"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDataAssetResponse(asset))
}

func (h *Handler) CreateDataAsset(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	var req dto.CreateDataAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	asset, err := h.assetSvc.Create(
		c.Request.Context(), projectID,
		req.Name, req.Description, req.Kind, req.OwnerEmail, req.Labels,
	)
	if err != nil {
		log.WithError(err).Error("create data asset failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToDataAssetResponse(asset))
}

func (h *Handler) UpdateDataAsset(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data asset id"})
		return
	}

	var req dto.UpdateDataAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.State != nil {
		updates["state"] = *req.State
	}
	if req.Labels != nil {
		updates["labels"] = req.Labels
	}

	asset, err := h.assetSvc.Update(c.Request.Context(), projectID, id, updates)
	if err != nil {
		log.WithError(err).Error("update data asset failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDataAssetResponse(asset))
}

func (h *Handler) ArchiveDataAsset(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data asset id"})
		return
	}

	asset, err := h.assetSvc.Archive(c.Request.Context(), projectID, id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDataAssetResponse(asset))
}

func (h *Handler) DeleteDataAsset(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data asset id"})
		return
	}

	if err := h.assetSvc.Delete(c.Request.Context(), projectID, id); err != nil {
		log.WithError(err).Error("delete data asset failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) ListVersions(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data asset id"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.VersionListFilter{
		ProjectID:   projectID,
		DataAssetID: assetID,
		Status:      c.Query("status"),
		SortBy:      c.Query("sort_by"),
		Order:       c.Query("order"),
		Limit:       limit,
		Offset:      offset,
	}

	versions, total, err := h.versionSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list versions failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.DataAssetVersionResponse, 0, len(versions))
	for _, v := range versions {
		items = append(items, dto.ToDataAssetVersionResponse(v))
	}

	c.JSON(http.StatusOK, dto.ListVersionsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetVersion(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data asset id"})
		return
	}

	versionNum, err := strconv.Atoi(c.Param("ver"))
	if err != nil || versionNum <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version number"})
		return
	}

	version, err := h.versionSvc.GetByAssetAndVersion(c.Request.Context(), projectID, assetID, versionNum)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDataAssetVersionResponse(version))
}

func (h *Handler) RegisterVersion(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data asset id"})
		return
	}

	var req dto.RegisterVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	version, err := h.versionSvc.Register(
		c.Request.Context(), projectID, assetID,
		req.URI, req.Checksum, req.Format, req.Description, req.CreatedBy,
		req.SizeBytes, req.Labels,
	)
	if err != nil {
		log.WithError(err).Error("register version failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToDataAssetVersionResponse(version))
}

func (h *Handler) GetVersionDirect(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version id"})
		return
	}

	version, err := h.versionSvc.Get(c.Request.Context(), projectID, id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDataAssetVersionResponse(version))
}

func (h *Handler) UpdateVersionDirect(c *gin.Context) {
	projectID, err := getProjectID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingProjectID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version id"})
		return
	}

	var req dto.UpdateVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Labels != nil {
		updates["labels"] = req.Labels
	}

	version, err := h.versionSvc.Update(c.Request.Context(), projectID, id, updates)
	if err != nil {
		log.WithError(err).Error("update version failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDataAssetVersionResponse(version))
}

func getProjectID(c *gin.Context) (uuid.UUID, error) {
	header := c.GetHeader("Project-ID")
	if header == "" {
		return uuid.Nil, domain.ErrMissingProjectID
	}
	return uuid.Parse(header)
}

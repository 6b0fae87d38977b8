package dto

import (
	"time"

	"github.com/google/uuid"

	"workspace-registry-service/internal/core/domain"
)

type CreateDataAssetRequest struct {
	Name        string            `json:"name" binding:"required,max=100"`
	Description string            `json:"description"`
	Kind        string            `json:"kind"`
	OwnerEmail  string            `json:"owner_email"`
	Labels      map[string]string `json:"labels"`
}

type UpdateDataAssetRequest struct {
	Description *string           `json:"description"`
	State       *string           `json:"state"`
	Labels      map[string]string `json:"labels"`
}

type RegisterVersionRequest struct {
	URI         string            `json:"uri" binding:"required"`
	Checksum    string            `json:"checksum" binding:"required"`
	SizeBytes   int64             `json:"size_bytes"`
	Format      string            `json:"format"`
	Description string            `json:"description"`
	CreatedBy   string            `json:"created_by"`
	Labels      map[string]string `json:"labels"`
}

type UpdateVersionRequest struct {
	Description *string           `json:"description"`
	Status      *string           `json:"status"`
	Labels      map[string]string `json:"labels"`
}

type DataAssetResponse struct {
	ID            uuid.UUID              `json:"id"`
	CreatedAt     string                 `json:"created_at"`
	UpdatedAt     string                 `json:"updated_at"`
	ProjectID     uuid.UUID              `json:"project_id"`
	Name          string                 `json:"name"`
	Slug          string                 `json:"slug"`
	Description   string                 `json:"description"`
	Kind          string                 `json:"kind"`
	State         string                 `json:"state"`
	OwnerEmail    string                 `json:"owner_email,omitempty"`
	Labels        map[string]string      `json:"labels"`
	VersionCount  int                    `json:"version_count"`
	LatestVersion *DataAssetVersionResponse `json:"latest_version,omitempty"`
}

type DataAssetVersionResponse struct {
	ID          uuid.UUID         `json:"id"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
	DataAssetID uuid.UUID         `json:"data_asset_id"`
	Version     int               `json:"version"`
	URI         string            `json:"uri"`
	Checksum    string            `json:"checksum"`
	SizeBytes   int64             `json:"size_bytes"`
	Format      string            `json:"format"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	CreatedBy   string            `json:"created_by,omitempty"`
	Labels      map[string]string `json:"labels"`
}

type ListDataAssetsResponse struct {
	Items      []DataAssetResponse `json:"items"`
	Total      int                 `json:"total"`
	PageSize   int                 `json:"page_size"`
	NextOffset int                 `json:"next_offset"`
}

type ListVersionsResponse struct {
	Items      []DataAssetVersionResponse `json:"items"`
	Total      int                        `json:"total"`
	PageSize   int                        `json:"page_size"`
	NextOffset int                        `json:"next_offset"`
}

func ToDataAssetResponse(a *domain.DataAsset) DataAssetResponse {
	resp := DataAssetResponse{
		ID:           a.ID,
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    a.UpdatedAt.Format(time.RFC3339),
		ProjectID:    a.ProjectID,
		Name:         a.Name,
		Slug:         a.Slug,
		Description:  a.Description,
		Kind:         string(a.Kind),
		State:        string(a.State),
		OwnerEmail:   a.OwnerEmail,
		Labels:       a.Labels,
		VersionCount: a.VersionCount,
	}
	if a.LatestVersion != nil {
		v := ToDataAssetVersionResponse(a.LatestVersion)
		resp.LatestVersion = &v
	}
	return resp
}

func ToDataAssetVersionResponse(v *domain.DataAssetVersion) DataAssetVersionResponse {
	return DataAssetVersionResponse{
		ID:          v.ID,
		CreatedAt:   v.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   v.UpdatedAt.Format(time.RFC3339),
		DataAssetID: v.DataAssetID,
		Version:     v.Version,
		URI:         v.URI,
		Checksum:    v.Checksum,
		SizeBytes:   v.SizeBytes,
		Format:      v.Format,
		Description: v.Description,
		Status:      string(v.Status),
		CreatedBy:   v.CreatedBy,
		Labels:      v.Labels,
	}
}

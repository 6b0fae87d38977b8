package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type AssetState string

const (
	AssetStateLive     AssetState = "LIVE"
	AssetStateArchived AssetState = "ARCHIVED"
)

type AssetKind string

const (
	AssetKindFile   AssetKind = "uri_file"
	AssetKindFolder AssetKind = "uri_folder"
	AssetKindTable  AssetKind = "mltable"
)

type VersionStatus string

const (
	VersionStatusPending VersionStatus = "PENDING"
	VersionStatusReady   VersionStatus = "READY"
	VersionStatusFailed  VersionStatus = "FAILED"
)

var supportedAssetKinds = map[AssetKind]bool{
	AssetKindFile:   true,
	AssetKindFolder: true,
	AssetKindTable:  true,
}

// Short spellings accepted at the API and CLI boundary.
var assetKindAliases = map[string]AssetKind{
	"file":   AssetKindFile,
	"folder": AssetKindFolder,
	"table":  AssetKindTable,
}

// NormalizeAssetKind resolves a user-supplied kind to its canonical value.
// file/folder/table map to the AzureML asset type names.
func NormalizeAssetKind(kind string) (AssetKind, error) {
	k := strings.ToLower(strings.TrimSpace(kind))
	if k == "" {
		return "", nil
	}
	if canonical, ok := assetKindAliases[k]; ok {
		return canonical, nil
	}
	if supportedAssetKinds[AssetKind(k)] {
		return AssetKind(k), nil
	}
	return "", ErrUnsupportedAssetKind
}

func ValidateAssetKind(kind string) error {
	_, err := NormalizeAssetKind(kind)
	return err
}

var supportedVersionStatuses = map[VersionStatus]bool{
	VersionStatusPending: true,
	VersionStatusReady:   true,
	VersionStatusFailed:  true,
}

func ValidateVersionStatus(status string) error {
	if !supportedVersionStatuses[VersionStatus(status)] {
		return ErrInvalidVersionStatus
	}
	return nil
}

var checksumPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// ValidateChecksum accepts lowercase hex sha256 digests only.
func ValidateChecksum(checksum string) error {
	if !checksumPattern.MatchString(checksum) {
		return ErrInvalidChecksum
	}
	return nil
}

type DataAsset struct {
	ID          uuid.UUID         `json:"id"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	ProjectID   uuid.UUID         `json:"project_id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	Kind        AssetKind         `json:"kind"`
	State       AssetState        `json:"state"`
	OwnerEmail  string            `json:"owner_email"`
	Labels      map[string]string `json:"labels"`

	// Computed fields
	VersionCount  int               `json:"version_count"`
	LatestVersion *DataAssetVersion `json:"latest_version,omitempty"`
}

type DataAssetVersion struct {
	ID          uuid.UUID         `json:"id"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DataAssetID uuid.UUID         `json:"data_asset_id"`
	Version     int               `json:"version"`
	URI         string            `json:"uri"`
	Checksum    string            `json:"checksum"`
	SizeBytes   int64             `json:"size_bytes"`
	Format      string            `json:"format"`
	Description string            `json:"description"`
	Status      VersionStatus     `json:"status"`
	CreatedBy   string            `json:"created_by"`
	Labels      map[string]string `json:"labels"`
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func Slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

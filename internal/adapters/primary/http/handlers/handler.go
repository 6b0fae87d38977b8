package handlers

import (
	"workspace-registry-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	assetSvc   *services.DataAssetService
	versionSvc *services.DataAssetVersionService
	runSvc     *services.ExperimentRunService
	packageSvc *services.PackageService
	evalSvc    *services.EvaluationService
}

func New(
	assetSvc *services.DataAssetService,
	versionSvc *services.DataAssetVersionService,
	runSvc *services.ExperimentRunService,
	packageSvc *services.PackageService,
	evalSvc *services.EvaluationService,
) *Handler {
	return &Handler{
		assetSvc:   assetSvc,
		versionSvc: versionSvc,
		runSvc:     runSvc,
		packageSvc: packageSvc,
		evalSvc:    evalSvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Data Assets
	r.GET("/data_assets", h.ListDataAssets)
	r.GET("/data_assets/:id", h.GetDataAsset)
	r.GET("/data_asset", h.GetDataAssetByName)
	r.POST("/data_assets", h.CreateDataAsset)
	r.PATCH("/data_assets/:id", h.UpdateDataAsset)
	r.POST("/data_assets/:id/archive", h.ArchiveDataAsset)
	r.DELETE("/data_assets/:id", h.DeleteDataAsset)

	// Data Asset Versions (nested under asset)
	r.GET("/data_assets/:id/versions", h.ListVersions)
	r.GET("/data_assets/:id/versions/:ver", h.GetVersion)
	r.POST("/data_assets/:id/versions", h.RegisterVersion)

	// Data Asset Versions (direct access)
	r.GET("/data_asset_versions/:id", h.GetVersionDirect)
	r.PATCH("/data_asset_versions/:id", h.UpdateVersionDirect)

	// Experiment Runs
	r.GET("/runs", h.ListRuns)
	r.GET("/runs/:id", h.GetRun)
	r.POST("/runs", h.SubmitRun)
	r.POST("/runs/:id/sync", h.SyncRunStatus)
	r.POST("/runs/:id/cancel", h.CancelRun)

	// Run Metrics and Artifacts
	r.GET("/runs/:id/metrics", h.ListRunMetrics)
	r.POST("/runs/:id/metrics", h.LogRunMetric)
	r.GET("/runs/:id/artifacts", h.ListRunArtifacts)
	r.POST("/runs/:id/artifacts", h.LogRunArtifact)

	// Workspace Packages
	r.GET("/packages", h.ListPackages)
	r.GET("/packages/:name", h.GetPackage)
	r.PUT("/packages", h.SyncPackage)
	r.DELETE("/packages/:name", h.DeletePackage)

	// Compliance Reports
	r.GET("/packages/:name/reports/latest", h.GetLatestReport)
	r.POST("/packages/:name/reports", h.RecordReport)

	// Evaluations
	r.POST("/runs/:id/evaluations", h.EvaluateRun)
	r.GET("/runs/:id/evaluations", h.ListRunEvaluations)
	r.GET("/evaluations/:id", h.GetEvaluation)
}

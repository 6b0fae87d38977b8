package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"workspace-registry-service/internal/adapters/primary/http/handlers"
	"workspace-registry-service/internal/adapters/primary/http/middleware"
	"workspace-registry-service/internal/adapters/secondary/azureml"
	"workspace-registry-service/internal/adapters/secondary/kubernetes"
	"workspace-registry-service/internal/adapters/secondary/postgres"
	"workspace-registry-service/internal/config"
	"workspace-registry-service/internal/core/domain"
	ports "workspace-registry-service/internal/core/ports/output"
	"workspace-registry-service/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Create database pool
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("parse db config: %v", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Fatalf("create db pool: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("ping db: %v", err)
	}
	log.Info("database connection established")

	// Secondary adapters
	assetRepo := postgres.NewDataAssetRepository(pool)
	versionRepo := postgres.NewDataAssetVersionRepository(pool)
	runRepo := postgres.NewExperimentRunRepository(pool)
	metricRepo := postgres.NewRunMetricRepository(pool)
	artifactRepo := postgres.NewRunArtifactRepository(pool)
	packageRepo := postgres.NewPackageRepository(pool)
	reportRepo := postgres.NewComplianceReportRepository(pool)
	evalRepo := postgres.NewEvaluationReportRepository(pool)

	// Job runners (optional, per compute target)
	runners := make(map[domain.ComputeTarget]ports.JobRunner)

	if cfg.AzureML.Enabled {
		runners[domain.ComputeTargetAzureML] = azureml.NewJobRunner(&cfg.AzureML)
		log.Info("AzureML job runner initialized")
	} else {
		log.Info("AzureML integration disabled")
	}

	if cfg.Kubernetes.Enabled {
		runner, err := kubernetes.NewJobRunner(&cfg.Kubernetes)
		if err != nil {
			log.Warnf("Kubernetes runner init failed (continuing without K8s compute): %v", err)
		} else {
			runners[domain.ComputeTargetKubernetes] = runner
			log.Info("Kubernetes job runner initialized")
		}
	} else {
		log.Info("Kubernetes integration disabled")
	}

	// Core services
	assetSvc := services.NewDataAssetService(assetRepo, versionRepo)
	versionSvc := services.NewDataAssetVersionService(versionRepo, assetRepo)
	runSvc := services.NewExperimentRunService(runRepo, metricRepo, artifactRepo, versionSvc, runners)
	packageSvc := services.NewPackageService(packageRepo, reportRepo)
	evalSvc := services.NewEvaluationService(evalRepo, runRepo)

	// Primary adapter
	h := handlers.New(assetSvc, versionSvc, runSvc, packageSvc, evalSvc)

	// Setup router
	metrics := middleware.NewHTTPMetrics()

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), metrics.Middleware(), gin.Recovery())

	api := router.Group("/api/v1/workspace-registry")
	h.RegisterRoutes(api)

	router.GET("/metrics", metrics.Handler())

	// Health check with DB ping
	router.GET("/healthz", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/citypages/directory-api/api/swagger"
	"github.com/citypages/directory-api/internal/handler"
	"github.com/citypages/directory-api/internal/middleware"
	"github.com/citypages/directory-api/internal/models"
	"github.com/citypages/directory-api/internal/repository"
	"github.com/citypages/directory-api/internal/service"
	"github.com/citypages/directory-api/pkg/cache"
	"github.com/citypages/directory-api/pkg/config"
	"github.com/citypages/directory-api/pkg/database"
	"github.com/citypages/directory-api/pkg/jobs"
	"github.com/citypages/directory-api/pkg/logger"
	corsmiddleware "github.com/citypages/directory-api/pkg/middleware/cors"
	reqidmiddleware "github.com/citypages/directory-api/pkg/middleware/requestid"
	"github.com/citypages/directory-api/pkg/storage"
)

// @title CityPages Directory API
// @version 1.0.0
// @description Business directory backend: public search, ownership claims, featured promotions, and admin tooling
// @BasePath /api/v1
// @schemes http https

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, directory cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	businessRepo := repository.NewBusinessRepository(db)
	claimRepo := repository.NewClaimRepository(db)
	featuredRepo := repository.NewFeaturedRepository(db)
	socialRepo := repository.NewSocialRepository(db)
	exportRepo := repository.NewExportRepository(db)

	var cacheRepo *repository.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "citypages-directory",
	})

	var directoryCache service.DirectoryCache
	if cacheRepo != nil {
		directoryCache = cacheRepo
	}
	directoryService := service.NewDirectoryService(businessRepo, directoryCache, cfg.Directory.CacheTTL, cfg.Directory.PageSize, logr)

	businessService := service.NewBusinessService(businessRepo, userRepo, directoryService, validate, logr)
	claimService := service.NewClaimService(claimRepo, businessRepo, userRepo, directoryService, cfg.Claims.MinMessageLength, validate, logr)
	featuredService := service.NewFeaturedService(featuredRepo, businessRepo, userRepo, directoryService, validate, logr)
	socialService := service.NewSocialService(socialRepo, userRepo, validate, logr)
	metricsService := service.NewMetricsService()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var exportHandler *handler.ExportHandler
	var exportQueue *jobs.Queue
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportService := service.NewExportService(exportRepo, businessRepo, claimRepo, store, signer, logr)
		exportQueue = jobs.NewQueue("exports", exportService.Process, jobs.QueueConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
			Logger:     logr,
		})
		exportService.SetQueue(exportQueue)
		exportQueue.Start(ctx)
		defer exportQueue.Stop()
		if err := exportService.RequeuePending(ctx, 100); err != nil {
			logr.Sugar().Warnw("failed to requeue pending exports", "error", err)
		}
		exportHandler = handler.NewExportHandler(exportService)

		go func() {
			ticker := time.NewTicker(cfg.Exports.CleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					removed, err := store.CleanupOlderThan(cfg.Exports.SignedURLTTL)
					if err != nil {
						logr.Sugar().Warnw("export cleanup failed", "error", err)
					} else if len(removed) > 0 {
						logr.Sugar().Infow("removed expired export files", "count", len(removed))
					}
				}
			}
		}()
	}

	authHandler := handler.NewAuthHandler(authService)
	businessHandler := handler.NewBusinessHandler(businessService)
	claimHandler := handler.NewClaimHandler(claimService)
	featuredHandler := handler.NewFeaturedHandler(featuredService)
	socialHandler := handler.NewSocialHandler(socialService)
	directoryHandler := handler.NewDirectoryHandler(directoryService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	// Public directory surface. Tokens are optional here; claims, when
	// present, let handlers fill in owner-specific fields.
	public := api.Group("", middleware.OptionalJWT(authService))
	public.GET("/businesses", directoryHandler.List)
	public.GET("/businesses/:id", directoryHandler.Get)
	public.GET("/categories", directoryHandler.Categories)
	public.GET("/cities", directoryHandler.Cities)
	public.GET("/social-links", socialHandler.ListPublic)
	if exportHandler != nil {
		api.GET("/exports/download", exportHandler.Download)
	}

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	authed := api.Group("")
	authed.Use(middleware.JWT(authService))
	authed.GET("/auth/me", authHandler.Me)
	authed.POST("/ownership-claims", claimHandler.Create)
	authed.GET("/ownership-claims", claimHandler.ListMine)
	authed.POST("/featured-requests", featuredHandler.Create)
	authed.GET("/featured-requests", featuredHandler.ListMine)
	authed.GET("/featured-requests/user/:id", middleware.RBAC("SELF", string(models.RoleAdmin)), featuredHandler.ListForUserByID)

	admin := api.Group("/admin")
	admin.Use(middleware.JWT(authService))
	admin.Use(middleware.RequireRoles(models.RoleAdmin))

	admin.POST("/businesses", businessHandler.Create)
	admin.GET("/businesses/:id", businessHandler.Get)
	admin.PUT("/businesses/:id", businessHandler.Update)
	admin.PATCH("/businesses/:id", businessHandler.Update)
	admin.PUT("/businesses/:id/featured", businessHandler.SetFeatured)
	admin.DELETE("/businesses/:id", businessHandler.Delete)
	admin.POST("/businesses/bulk-delete", businessHandler.BulkDelete)

	admin.GET("/ownership-claims", claimHandler.ListAll)
	admin.POST("/ownership-claims/:id/approve", claimHandler.Approve)
	admin.POST("/ownership-claims/:id/reject", claimHandler.Reject)

	admin.GET("/featured-requests", featuredHandler.ListAll)
	admin.PUT("/featured-requests/:id/review", featuredHandler.Review)

	admin.GET("/social-links", socialHandler.ListAll)
	admin.POST("/social-links", socialHandler.Create)
	admin.DELETE("/social-links/:id", socialHandler.Delete)
	admin.POST("/social-media/bulk-action", socialHandler.BulkAction)

	admin.GET("/metrics", metricsHandler.Snapshot)

	if exportHandler != nil {
		admin.POST("/exports", middleware.Audit(userRepo, models.AuditActionExportRequest, "export_job"), exportHandler.Create)
		admin.GET("/exports/:id", exportHandler.Get)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)

	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logr.Sugar().Warnw("server shutdown", "error", err)
		}
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

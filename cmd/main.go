package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"adrboard/internal/caching"
	"adrboard/internal/config"
	"adrboard/internal/guard"
	"adrboard/internal/handlers"
	"adrboard/internal/jobs"
	"adrboard/internal/middleware"
	"adrboard/internal/repositories"
	"adrboard/internal/services"
	"adrboard/pkg/database"
)

const version = "1.0.0"

const tokenTTL = 24 * time.Hour

func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	superadminEmail := os.Getenv("SUPERADMIN_EMAIL")
	superadminHash := os.Getenv("SUPERADMIN_PASSWORD_HASH")
	if superadminEmail == "" || superadminHash == "" {
		log.Fatal("SUPERADMIN_EMAIL and SUPERADMIN_PASSWORD_HASH environment variables are required")
	}

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	attachmentSvc, err := services.NewAttachmentService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize attachment storage: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	tenantRepo := repositories.NewTenantRepo(pool)
	membershipRepo := repositories.NewMembershipRepo(pool)
	roleRequestRepo := repositories.NewRoleRequestRepo(pool)
	approvalRepo := repositories.NewDomainApprovalRepo(pool)
	decisionRepo := repositories.NewDecisionRepo(pool)
	settingsRepo := repositories.NewSettingsRepo(pool)
	auditRepo := repositories.NewAuditLogsRepo(pool)

	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Services
	auditSvc := services.NewAuditService(auditRepo)
	notifier := services.NewNotificationService(cacheSvc, cfg.Notifications.WebhookURL)
	maturitySvc := services.NewMaturityService(tenantRepo, membershipRepo, cacheSvc, notifier, auditSvc)
	approvalSvc := services.NewApprovalService(approvalRepo, tenantRepo, cacheSvc, auditSvc)
	tenantSvc := services.NewTenantService(tenantRepo, cacheSvc, maturitySvc)
	provisioningSvc := services.NewProvisioningService(userRepo, tenantRepo, membershipRepo, approvalRepo,
		maturitySvc, services.TenantDefaults{
			AgeDaysThreshold: cfg.Governance.DefaultAgeDaysThreshold,
			UserThreshold:    cfg.Governance.DefaultUserThreshold,
			AdminThreshold:   cfg.Governance.DefaultAdminThreshold,
		})
	authSvc := services.NewAuthService(userRepo, membershipRepo, tenantRepo, provisioningSvc,
		jwtSecret, tokenTTL, superadminEmail, superadminHash)
	roleRequestSvc := services.NewRoleRequestService(roleRequestRepo, membershipRepo, tenantRepo,
		maturitySvc, notifier, auditSvc)
	decisionSvc := services.NewDecisionService(decisionRepo, attachmentSvc)
	settingsSvc := services.NewSettingsService(settingsRepo)

	// Middleware
	principalMw, err := middleware.NewPrincipalMiddleware(jwtSecret, os.Getenv("JWKS_URL"))
	if err != nil {
		log.Fatalf("Failed to initialize authentication middleware: %v", err)
	}
	guardMw := middleware.NewGuardMiddleware(guard.New(approvalSvc), tenantSvc)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc)
	adminHandlers := handlers.NewAdminHandlers(tenantSvc, maturitySvc, approvalSvc, auditSvc)
	roleRequestHandlers := handlers.NewRoleRequestHandlers(roleRequestSvc)
	decisionHandlers := handlers.NewDecisionHandlers(decisionSvc)
	settingsHandlers := handlers.NewSettingsHandlers(settingsSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(principalMw.Resolve())

	e.GET("/health", healthHandlers.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	auth := e.Group("/auth")
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login)

	// Superadmin surface. Isolated from every tenant surface.
	admin := e.Group("/admin", middleware.RequireSuperadmin())
	admin.GET("/tenants", adminHandlers.ListTenants)
	admin.GET("/tenants/:domain/maturity", adminHandlers.GetMaturity)
	admin.POST("/tenants/:domain/promote", adminHandlers.ForcePromote)
	admin.PUT("/tenants/:domain/thresholds", adminHandlers.UpdateThresholds)
	admin.GET("/tenants/:domain/audit-logs", adminHandlers.ListAuditLogs)
	admin.GET("/domains", adminHandlers.ListDomainApprovals)
	admin.PUT("/domains/:domain/approval", adminHandlers.SetDomainApproval)

	// Tenant surfaces behind the guard pipeline.
	tenant := e.Group("/tenants/:domain", guardMw.RequireTenant())
	tenant.POST("/role-requests", roleRequestHandlers.Submit)
	tenant.GET("/role-requests", roleRequestHandlers.ListPending)
	tenant.POST("/role-requests/:id/resolve", roleRequestHandlers.Resolve)
	tenant.GET("/decisions", decisionHandlers.List)
	tenant.POST("/decisions", decisionHandlers.Create)
	tenant.GET("/decisions/:id", decisionHandlers.Get)
	tenant.PUT("/decisions/:id", decisionHandlers.Update)
	tenant.DELETE("/decisions/:id", decisionHandlers.Delete)
	tenant.POST("/decisions/:id/attachment", decisionHandlers.UploadAttachment)
	tenant.GET("/decisions/:id/attachment", decisionHandlers.AttachmentURL)

	tenantAdmin := e.Group("/tenants/:domain", guardMw.RequireTenantAdmin())
	tenantAdmin.GET("/settings", settingsHandlers.Get)
	tenantAdmin.PUT("/settings", settingsHandlers.Update)

	if cfg.Fixtures.Enabled {
		log.Println("WARN: fixture endpoints are enabled")
		fixtureSvc := services.NewFixtureService(provisioningSvc, membershipRepo, tenantRepo, maturitySvc, cacheSvc)
		fixtureHandlers := handlers.NewFixtureHandlers(fixtureSvc)
		fixtures := e.Group("/fixtures")
		fixtures.POST("/users", fixtureHandlers.SeedUser)
		fixtures.PUT("/tenants/:domain/maturity", fixtureHandlers.SetMaturity)
	}

	if err := attachmentSvc.EnsureBucketExists(context.Background(), "adr-attachments"); err != nil {
		log.Printf("WARN: could not ensure attachment bucket: %v", err)
	}

	scheduler, err := jobs.NewScheduler(tenantRepo, maturitySvc,
		time.Duration(cfg.Governance.SweepIntervalMinutes)*time.Minute)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	scheduler.Start()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		log.Printf("adrboard v%s starting on port %s", version, port)
		if err := e.Start(fmt.Sprintf(":%s", port)); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := scheduler.Stop(); err != nil {
		log.Printf("WARN: scheduler shutdown: %v", err)
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
}

package api

import (
	"errors"
	"time"

	"github.com/ComplyTrail/audit_service/config"
	"github.com/ComplyTrail/audit_service/infra/queue"
	"github.com/ComplyTrail/audit_service/internal/api/rest/handlers"
	"github.com/ComplyTrail/audit_service/internal/api/rest/middleware"
	"github.com/ComplyTrail/audit_service/internal/domain"
	"github.com/ComplyTrail/audit_service/internal/helper"
	"github.com/ComplyTrail/audit_service/internal/repository"
	"github.com/ComplyTrail/audit_service/internal/services"
	"github.com/ComplyTrail/audit_service/pkg/metrics"
	"github.com/ComplyTrail/audit_service/pkg/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const apiVersion = "1.0.0"

func StartServer(cfg config.Config, logger *logrus.Logger) {
	app := fiber.New(fiber.Config{
		ErrorHandler: jsonErrorHandler,
	})

	// ---------- Observability ----------
	m := metrics.New()
	app.Use(m.Middleware())

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	// ---------- DB ----------
	// TranslateError maps driver unique-violation errors onto
	// gorm.ErrDuplicatedKey, which the user repository relies on.
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.WithError(err).Fatal("database connection error")
	}
	logger.Info("database connected")

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Audit{},
		&domain.AuditComment{},
		&domain.AuditAttachment{},
		&domain.ComplianceStandard{},
		&domain.ComplianceRequirement{},
		&domain.ComplianceAssessment{},
		&domain.Report{},
		&domain.ReportAttachment{},
	); err != nil {
		logger.WithError(err).Fatal("migration error")
	}
	logger.Info("migration successful")

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)
	fileStore := storage.NewLocalStore(cfg.UploadDir)
	authHelper := helper.SetupAuth(cfg.AccessSecret)

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db, logger)
	auditRepo := repository.NewAuditRepository(db, logger)
	reportRepo := repository.NewReportRepository(db, logger)
	complianceRepo := repository.NewComplianceRepository(db, logger)

	// ---------- Services ----------
	userSvc := services.NewUserService(userRepo, authHelper, kafkaProducer, logger)
	auditSvc := services.NewAuditService(auditRepo, fileStore, logger)
	reportSvc := services.NewReportService(reportRepo, fileStore, kafkaProducer, logger)
	complianceSvc := services.NewComplianceService(complianceRepo, logger)

	// ---------- Handlers ----------
	authHandler := handlers.NewAuthHandler(userSvc, logger)
	userAdminHandler := handlers.NewUserAdminHandler(userSvc, logger)
	auditHandler := handlers.NewAuditHandler(auditSvc, logger)
	reportHandler := handlers.NewReportHandler(reportSvc, logger)
	complianceHandler := handlers.NewComplianceHandler(complianceSvc, logger)

	authHandler.SetupRoutes(app)

	authMW := middleware.AuthMiddleware(authHelper)

	userGroup := app.Group("/user", authMW, middleware.UserOnly())
	auditHandler.SetupUserRoutes(userGroup)
	reportHandler.SetupUserRoutes(userGroup)

	adminGroup := app.Group("/admin", authMW, middleware.AdminOnly())
	auditHandler.SetupAdminRoutes(adminGroup)
	reportHandler.SetupAdminRoutes(adminGroup)
	complianceHandler.SetupAdminRoutes(adminGroup)
	userAdminHandler.SetupAdminRoutes(adminGroup)

	// ---------- Health ----------
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   apiVersion,
		})
	})
	app.Get("/metrics", m.Handler())

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})

	// ---------- Listen ----------
	logger.WithField("addr", cfg.ServerPort).Info("listening")
	logger.Fatal(app.Listen(cfg.ServerPort))
}

// jsonErrorHandler keeps the error envelope consistent for failures
// raised by the router itself, such as an oversized request body.
func jsonErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	return ctx.Status(code).JSON(fiber.Map{"error": message})
}

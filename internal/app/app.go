package app

import (
	"context"
	"fmt"

	"braindump_backend/internal/config"
	"braindump_backend/internal/email"
	"braindump_backend/internal/handlers"
	"braindump_backend/internal/logger"
	"braindump_backend/internal/middleware"
	"braindump_backend/internal/models"
	"braindump_backend/internal/repositories"
	"braindump_backend/internal/routes"
	"braindump_backend/internal/services"
	"braindump_backend/internal/validator"
	"braindump_backend/internal/workers"
	"braindump_backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("logger initialized", "env", cfg.Server.Env)

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("database unavailable", "error", err)
	}
	logger.Info("database connected")

	if err := migrate(gormDB); err != nil {
		logger.Fatal("failed to run migrations", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := SetupRouter(ctx, cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting", "address", address)
	if err := router.Run(address); err != nil {
		logger.Fatal("server startup error", "error", err)
	}
}

// SetupRouter builds the full application: services, handlers, websocket
// hub, background workers and the gin engine. Workers and the hub run on
// goroutines tied to ctx.
func SetupRouter(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	emailProvider := newEmailProvider(cfg)

	wsManager := ws.NewManager()
	go wsManager.Run()

	serviceContainer := services.NewServiceContainer(gormDB, cfg, emailProvider, wsManager)

	appHandlers := handlers.NewAppHandlers(serviceContainer, validator.New())
	wsHandler := ws.NewHandler(wsManager)

	quotaWorker := workers.NewQuotaWorker(
		repositories.NewProfileRepository(gormDB),
		repositories.NewRefreshTokenRepository(gormDB),
	)
	quotaWorker.Start(ctx)

	router := newGinRouter(cfg)
	routes.RegisterRoutes(router, appHandlers, wsHandler)

	return router
}

func newGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())

	return router
}

func newEmailProvider(cfg *config.Config) email.Provider {
	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP not configured, emails will be logged instead of sent")
		return email.NewLogProvider()
	}

	provider := email.NewSMTPProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		UseTLS:    cfg.Email.UseTLS,
		BaseURL:   cfg.Email.BaseURL,
	})
	if err := provider.Validate(); err != nil {
		logger.Fatal("invalid email configuration", "error", err)
	}
	return provider
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Profile{},
		&models.BrainDump{},
	)
}

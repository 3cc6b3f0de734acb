package services

import (
	"time"

	"braindump_backend/internal/config"
	"braindump_backend/internal/email"
	"braindump_backend/internal/repositories"

	"gorm.io/gorm"
)

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService          AuthService
	ProfileService       ProfileService
	QuotaService         QuotaService
	CategorizeService    CategorizeService
	DumpService          DumpService
	SubscriptionService  SubscriptionService
	TranscriptionService TranscriptionService
	EmailService         email.Provider
}

// NewServiceContainer wires repositories and services together.
func NewServiceContainer(db *gorm.DB, cfg *config.Config, emails email.Provider, broadcaster Broadcaster) *ServiceContainer {
	userRepo := repositories.NewUserRepository(db)
	tokenRepo := repositories.NewRefreshTokenRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	dumpRepo := repositories.NewDumpRepository(db)

	quotaService := NewQuotaService(profileRepo, cfg.Quota.FreeDailyLimit)

	categorizeService := NewCategorizeService(CategorizeConfig{
		APIKey:  cfg.AI.APIKey,
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
		Timeout: time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
	})

	transcriptionService := NewTranscriptionService(TranscriptionConfig{
		APIKey:  cfg.Transcription.APIKey,
		BaseURL: cfg.Transcription.BaseURL,
		Model:   cfg.Transcription.Model,
		Timeout: time.Duration(cfg.Transcription.TimeoutSeconds) * time.Second,
	})

	paypalClient := NewPayPalClient(PayPalConfig{
		ClientID:  cfg.PayPal.ClientID,
		Secret:    cfg.PayPal.Secret,
		BaseURL:   cfg.PayPal.BaseURL,
		ProductID: cfg.PayPal.ProductID,
		PlanID:    cfg.PayPal.PlanID,
		ReturnURL: cfg.PayPal.ReturnURL,
		CancelURL: cfg.PayPal.CancelURL,
	})

	return &ServiceContainer{
		AuthService:          NewAuthService(userRepo, tokenRepo, profileRepo, emails),
		ProfileService:       NewProfileService(profileRepo, quotaService),
		QuotaService:         quotaService,
		CategorizeService:    categorizeService,
		DumpService:          NewDumpService(dumpRepo, quotaService, categorizeService, broadcaster),
		SubscriptionService:  NewSubscriptionService(paypalClient, profileRepo, userRepo),
		TranscriptionService: transcriptionService,
		EmailService:         emails,
	}
}

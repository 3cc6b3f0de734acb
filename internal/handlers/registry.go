package handlers

import (
	"braindump_backend/internal/services"
	"braindump_backend/internal/validator"
)

// AppHandlers holds every HTTP handler of the application.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	DumpHandler         *DumpHandler
	ProfileHandler      *ProfileHandler
	SubscriptionHandler *SubscriptionHandler
	VoiceHandler        *VoiceHandler
}

func NewAppHandlers(container *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		AuthHandler:         NewAuthHandler(base, container.AuthService),
		DumpHandler:         NewDumpHandler(base, container.DumpService, container.QuotaService),
		ProfileHandler:      NewProfileHandler(base, container.ProfileService),
		SubscriptionHandler: NewSubscriptionHandler(base, container.SubscriptionService),
		VoiceHandler:        NewVoiceHandler(base, container.TranscriptionService),
	}
}

package email

import (
	"braindump_backend/internal/logger"
)

// LogProvider is the development fallback used when SMTP is not
// configured: messages are logged instead of sent, so flows that depend
// on email tokens stay testable locally.
type LogProvider struct{}

func NewLogProvider() *LogProvider {
	return &LogProvider{}
}

func (p *LogProvider) Send(email *Email) error {
	logger.Info("email (not sent, SMTP unconfigured)",
		"to", email.To,
		"subject", email.Subject,
	)
	return nil
}

func (p *LogProvider) SendVerification(to string, token string) error {
	logger.Info("verification email (not sent, SMTP unconfigured)", "to", to, "token", token)
	return nil
}

func (p *LogProvider) SendPasswordReset(to string, token string) error {
	logger.Info("password reset email (not sent, SMTP unconfigured)", "to", to, "token", token)
	return nil
}

func (p *LogProvider) Validate() error {
	return nil
}

package email

// Provider is the outbound email interface.
type Provider interface {
	Send(email *Email) error

	// SendVerification sends the email-verification message.
	SendVerification(to string, token string) error

	// SendPasswordReset sends the password-reset message.
	SendPasswordReset(to string, token string) error

	// Validate checks the provider configuration.
	Validate() error
}

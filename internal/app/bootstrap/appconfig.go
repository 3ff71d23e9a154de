// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS, timeouts); AppConfig is everything specific to this
// application. Values come from environment variables, config files, or
// flags, loaded in LoadConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // signing key for session cookies
	SessionName   string // cookie name
	SessionDomain string // cookie domain (blank means current host)

	// Email/SMTP configuration
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string

	// Push gateway configuration (FCM-compatible endpoint; blank
	// disables push)
	PushEndpoint  string
	PushServerKey string

	// Base URL for links embedded in email
	BaseURL string
}

package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderContentType        = "Content-Type"
	HeaderAuthorization      = "Authorization"
	HeaderXRequestID         = "X-Request-ID"
	HeaderIfModifiedSince    = "If-Modified-Since"
	HeaderContentDisposition = "Content-Disposition"

	// Content Types
	ContentTypeJSON   = "application/json"
	ContentTypePkpass = "application/vnd.apple.pkpass"

	// Authorization scheme used by Wallet devices on write calls.
	ApplePassScheme = "ApplePass"

	// Context keys
	ContextKeyRequestID = "request_id"
	ContextKeyTenantID  = "tenant_id"

	// Database table names
	TableTenants             = "tenants"
	TableCards               = "cards"
	TableDeviceRegistrations = "device_registrations"
	TableTenantCertificates  = "tenant_certificates"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgResourceNotFound    = "Resource not found"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgValidationFailed    = "Validation failed"
)

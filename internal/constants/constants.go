package constants

// Analytics defaults
const (
	DefaultTopUsersLimit = 5
	MinTopUsersLimit     = 1
)

// Context keys shared between middleware and handlers
const (
	ContextKeyRequestID = "request_id"
	ContextKeyEntityID  = "entity_id"
)

// HeaderRequestID is echoed back on every response.
const HeaderRequestID = "X-Request-ID"

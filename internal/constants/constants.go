package constants

import "time"

// Context keys
const (
	ContextKeyPrincipal = "principal"
)

// Session settings
const (
	SessionCookieName = "board_session"
	SessionTokenKey   = "token"
	SessionMaxAge     = 86400 * 7 // 7 days
)

// Credential defaults
const (
	DefaultBcryptCost = 10
	DefaultTokenTTL   = 7 * 24 * time.Hour
)

// AI task suggestions
const (
	MaxAIGeneratedTasks = 20
	MaxAIInputLength    = 8000
)

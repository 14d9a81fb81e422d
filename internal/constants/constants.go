package constants

// Context and header keys
const (
	ContextKeyUserID = "user_id"
	HeaderToken      = "token"
)

// Authentication
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

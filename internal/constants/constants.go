package constants

const (
	ContextKeyUserID    = "user_id"
	ContextKeyRequestID = "request_id"
	SessionCookieName   = "forum_session"
	HeaderRequestID     = "X-Request-ID"

	MinUsernameLength = 3
	MaxUsernameLength = 80
	MinPasswordLength = 6
	MaxTagNameLength  = 50

	MinDMSearchLength = 2
	DMSearchLimit     = 10

	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

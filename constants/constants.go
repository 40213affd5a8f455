package constants

import "time"

// Session owner types stored on session records.
const (
	OwnerMember = "member"
	OwnerAdmin  = "admin"
)

// Cookie names for the two session surfaces. Both are HTTP-only and
// SameSite=Strict; the token never appears in a response body.
const (
	MemberSessionCookie = "member_session"
	AdminSessionCookie  = "admin_session"
)

// Protocol defaults. Each can be overridden through the environment
// (OTP_TTL_MINUTES, SESSION_DURATION_MINUTES, ELECTION_DURATION_HOURS).
const (
	OTPCodeLength   = 6
	OTPMaxAttempts  = 5
	OTPDefaultTTL   = 10 * time.Minute
	SessionDuration = 30 * time.Minute

	// Default election duration when start() is called without one.
	ElectionDefaultDuration = 24 * time.Hour
)

// Default admin credentials seeded at first initialization. The login
// response flags the account until the password is changed.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

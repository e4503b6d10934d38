package constants

import "time"

// Cookie names
const (
	DefaultTokenCookie = "token"
	ProfileCookie      = "profile"
	DeviceCookie       = "device_id"
	SessionCookie      = "myloggi_session"
)

// Remember-me keys
const (
	RememberCredentialsKey = "credentials"
)

// OTP purposes stored in the flow session
const (
	OTPPurposeVerifyAccount = "verify-account"
	OTPPurposeReset         = "reset"
)

// Default user role sent on sign-up
const DefaultSignupRole = "user"

// OTP shape
const (
	OTPLength = 6
)

// Durations
const (
	// DefaultAPITimeout bounds a single call to the remote API
	DefaultAPITimeout = 30 * time.Second

	// DefaultRememberMeTTL is how long remembered sign-in data survives
	DefaultRememberMeTTL = 30 * 24 * time.Hour

	// ProfileTokenDuration is the lifetime of the signed profile cookie
	ProfileTokenDuration = 24 * time.Hour

	// FlowSessionMaxAge is the lifetime of the flow session cookie in seconds
	FlowSessionMaxAge = 30 * 60

	// DeviceCookieMaxAge is one year in seconds
	DeviceCookieMaxAge = 365 * 24 * 60 * 60

	// CircuitFailureThreshold opens the API circuit after this many transport failures
	CircuitFailureThreshold = 5

	// CircuitOpenTimeout is how long an open circuit fails fast
	CircuitOpenTimeout = 60 * time.Second
)

// User-facing messages
const (
	MsgUnexpectedError   = "An unexpected error occurred."
	MsgSomethingWrong    = "Something went wrong."
	MsgSignupFailed      = "Something went wrong please try again later"
	MsgInvalidOTPFormat  = "Please enter a valid 6-digit OTP"
	MsgInvalidOTP        = "Invalid OTP. Please try again."
	MsgPasswordsMismatch = "Passwords do not match"
	MsgNoResponse        = "No response received"
	MsgResetEmailMissing = "Your reset session expired. Please request a new code."
	MsgPasswordChanged   = "Your password has been changed. Please sign in."
	MsgAccountVerified   = "Your account is verified. Please sign in."
)

package apipaths

// Remote account API paths. Used by the auth service; relative to API_BASE_URL.

const (
	Login          = "/login"
	Signup         = "/signup"
	VerifyAccount  = "/verify-account"
	ForgetPassword = "/forget-password"
	CheckOTP       = "/check-otp"
	ResetPassword  = "/reset-password"
)

// Pages served by the web shell itself.
const (
	Home           = "/"
	ProtectedPage  = "/protected-page"
	Profile        = "/profile"
	Settings       = "/settings"
	SignIn         = "/auth/signin"
	SignUp         = "/auth/signup"
	OTP            = "/auth/otp"
	ForgotPassword = "/auth/forget-password"
	NewPassword    = "/auth/new-password"
	Logout         = "/auth/logout"
	Health         = "/api/health"
)

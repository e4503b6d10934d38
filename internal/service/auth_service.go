package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/myloggi/internal/apiclient"
	"github.com/myloggi/internal/apipaths"
	"github.com/myloggi/internal/constants"
	"github.com/myloggi/internal/domain"
	"github.com/myloggi/internal/validation"
)

// APIPoster is the part of the API client the auth service calls
type APIPoster interface {
	Post(ctx context.Context, path string, body any, token string) (*apiclient.Response, error)
}

// LoginResult is a successful sign-in
type LoginResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// SignupResult is a successful registration; Token is empty when the API sent none
type SignupResult struct {
	Token string `json:"token"`
}

// AuthService wraps the account API calls behind the auth pages.
// Every method returns a *domain.FormError for anything the page should show.
type AuthService struct {
	api    APIPoster
	logger *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(api APIPoster, logger *slog.Logger) *AuthService {
	return &AuthService{
		api:    api,
		logger: logger,
	}
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
	FCMToken        string `json:"fcmToken,omitempty"`
}

// Login signs the user in and returns the account token and user
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials, fcmToken string) (*LoginResult, error) {
	identifier, err := validation.ValidateUsernameOrEmail(creds.UsernameOrEmail)
	if err != nil {
		return nil, &domain.FormError{
			Fields: domain.FieldErrors{"usernameOrEmail": err.Error()},
			Cause:  domain.WrapValidationError("usernameOrEmail", err),
		}
	}
	if creds.Password == "" {
		return nil, &domain.FormError{
			Fields: domain.FieldErrors{"password": "Password is required"},
			Cause:  domain.ErrRequiredFieldMissing,
		}
	}

	resp, err := s.api.Post(ctx, apipaths.Login, loginRequest{
		UsernameOrEmail: identifier,
		Password:        creds.Password,
		FCMToken:        fcmToken,
	}, "")
	if err != nil {
		return nil, s.loginError(ctx, err)
	}

	if resp.Status != http.StatusOK {
		s.logger.WarnContext(ctx, "login returned unexpected status", "status", resp.Status)
		return nil, domain.NewGeneralError(constants.MsgUnexpectedError, nil)
	}

	var result LoginResult
	if err := resp.Decode(&result); err != nil || result.Token == "" {
		s.logger.ErrorContext(ctx, "login response missing token", "error", err)
		return nil, domain.NewGeneralError(constants.MsgUnexpectedError, err)
	}

	s.logger.InfoContext(ctx, "user signed in", "user_id", userID(result.User))
	return &result, nil
}

// loginError prefers the API's field errors, then its error string as the credentials message
func (s *AuthService) loginError(ctx context.Context, err error) *domain.FormError {
	apiErr, ok := apiclient.AsError(err)
	if !ok || !apiErr.HasResponse() {
		return unreachableError("login", err)
	}

	if fields := apiErr.FieldErrors(); !fields.Empty() {
		return &domain.FormError{Fields: fields, Cause: rejected(apiErr)}
	}

	if apiErr.Body.Error != "" {
		s.logger.InfoContext(ctx, "sign-in rejected", "status", apiErr.Status)
		return &domain.FormError{
			Fields:  domain.FieldErrors{},
			General: apiErr.Body.Error,
			Cause:   domain.NewDomainError(domain.ErrInvalidCredentials.Code, apiErr.Body.Error, apiErr),
		}
	}

	return generalFromAPI(apiErr, constants.MsgUnexpectedError)
}

type signupRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Signup registers a new account. The retyped password is checked locally first.
func (s *AuthService) Signup(ctx context.Context, form domain.SignupForm) (*SignupResult, error) {
	if err := validation.ValidatePasswordConfirmation(form.Password, form.RetypePassword); err != nil {
		return nil, &domain.FormError{
			Fields: domain.FieldErrors{"retype_password": err.Error()},
			Cause:  domain.WrapValidationError("retype_password", err),
		}
	}

	role := strings.TrimSpace(form.Role)
	if role == "" {
		role = constants.DefaultSignupRole
	}

	resp, err := s.api.Post(ctx, apipaths.Signup, signupRequest{
		Username: strings.TrimSpace(form.Username),
		FullName: strings.TrimSpace(form.FullName),
		Email:    strings.TrimSpace(form.Email),
		Phone:    strings.TrimSpace(form.Phone),
		Password: form.Password,
		Role:     role,
	}, "")
	if err != nil {
		apiErr, ok := apiclient.AsError(err)
		if !ok || !apiErr.HasResponse() {
			return nil, unreachableError("signup", err)
		}
		if fields := apiErr.FieldErrors(); !fields.Empty() {
			return nil, &domain.FormError{Fields: fields, Cause: rejected(apiErr)}
		}
		return nil, domain.NewGeneralError(constants.MsgSignupFailed, rejected(apiErr))
	}

	if resp.Status != http.StatusOK && resp.Status != http.StatusCreated {
		s.logger.WarnContext(ctx, "signup returned unexpected status", "status", resp.Status)
		return nil, domain.NewGeneralError(constants.MsgSignupFailed, nil)
	}

	// the token is optional; a body without one still means the account was created
	var result SignupResult
	_ = resp.Decode(&result)

	s.logger.InfoContext(ctx, "account registered", "has_token", result.Token != "")
	return &result, nil
}

type otpRequest struct {
	OTP   string `json:"otp"`
	Email string `json:"email,omitempty"`
}

// VerifyAccount confirms a new account with the OTP sent after sign-up.
// The OTP format is checked before any network call.
func (s *AuthService) VerifyAccount(ctx context.Context, token, otp string) error {
	if err := validation.ValidateOTP(otp); err != nil {
		return &domain.FormError{
			Fields: domain.FieldErrors{"otp": err.Error()},
			Cause:  domain.WrapValidationError("otp", err),
		}
	}
	if token == "" {
		return &domain.FormError{
			Fields: domain.FieldErrors{"otp": constants.MsgSomethingWrong},
			Cause:  domain.ErrTokenMissing,
		}
	}

	resp, err := s.api.Post(ctx, apipaths.VerifyAccount, otpRequest{OTP: otp}, token)
	if err != nil {
		msg := constants.MsgSomethingWrong
		apiErr, ok := apiclient.AsError(err)
		if ok && apiErr.Body.Message != "" {
			msg = apiErr.Body.Message
		}
		cause := domain.WrapUpstreamUnavailable("verify-account", err)
		if ok && apiErr.HasResponse() {
			cause = rejected(apiErr)
		}
		return &domain.FormError{
			Fields: domain.FieldErrors{"otp": msg},
			Cause:  cause,
		}
	}

	if resp.Status != http.StatusOK {
		return &domain.FormError{
			Fields: domain.FieldErrors{"otp": constants.MsgInvalidOTP},
			Cause:  domain.ErrInvalidOTP,
		}
	}

	s.logger.InfoContext(ctx, "account verified")
	return nil
}

type emailRequest struct {
	Email string `json:"email"`
}

// ForgetPassword asks the API to send a reset OTP. It returns the normalized email.
func (s *AuthService) ForgetPassword(ctx context.Context, email string) (string, error) {
	normalized, err := validation.ValidateEmail(email)
	if err != nil {
		return "", &domain.FormError{
			Fields: domain.FieldErrors{"email": err.Error()},
			Cause:  domain.WrapValidationError("email", err),
		}
	}

	resp, err := s.api.Post(ctx, apipaths.ForgetPassword, emailRequest{Email: normalized}, "")
	if err != nil {
		return "", formErrorFromAPI("forget-password", err, constants.MsgUnexpectedError)
	}
	if resp.Status != http.StatusOK {
		return "", domain.NewGeneralError(constants.MsgUnexpectedError, nil)
	}

	s.logger.InfoContext(ctx, "password reset requested")
	return normalized, nil
}

// CheckOTP validates the reset OTP for the pending email
func (s *AuthService) CheckOTP(ctx context.Context, email, otp string) error {
	if err := validation.ValidateOTP(otp); err != nil {
		return &domain.FormError{
			Fields: domain.FieldErrors{"otp": err.Error()},
			Cause:  domain.WrapValidationError("otp", err),
		}
	}
	if email == "" {
		return domain.NewGeneralError(constants.MsgResetEmailMissing, domain.ErrResetEmailMissing)
	}

	resp, err := s.api.Post(ctx, apipaths.CheckOTP, otpRequest{OTP: otp, Email: email}, "")
	if err != nil {
		apiErr, ok := apiclient.AsError(err)
		if !ok || !apiErr.HasResponse() {
			return unreachableError("check-otp", err)
		}
		if fields := apiErr.FieldErrors(); !fields.Empty() {
			return &domain.FormError{Fields: fields, Cause: rejected(apiErr)}
		}
		return &domain.FormError{
			Fields: domain.FieldErrors{"otp": firstNonEmpty(apiErr.Body.Message, apiErr.Body.Error, constants.MsgInvalidOTP)},
			Cause:  domain.NewDomainError(domain.ErrInvalidOTP.Code, domain.ErrInvalidOTP.Message, apiErr),
		}
	}
	if resp.Status != http.StatusOK {
		return &domain.FormError{
			Fields: domain.FieldErrors{"otp": constants.MsgInvalidOTP},
			Cause:  domain.ErrInvalidOTP,
		}
	}
	return nil
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
	Email       string `json:"email"`
}

// ResetPassword sets a new password for the pending email
func (s *AuthService) ResetPassword(ctx context.Context, email, password, confirm string) error {
	if email == "" {
		return domain.NewGeneralError(constants.MsgResetEmailMissing, domain.ErrResetEmailMissing)
	}
	if password == "" {
		return &domain.FormError{
			Fields: domain.FieldErrors{"password": "Password is required"},
			Cause:  domain.ErrRequiredFieldMissing,
		}
	}
	if err := validation.ValidatePasswordConfirmation(password, confirm); err != nil {
		return &domain.FormError{
			Fields: domain.FieldErrors{"confirmPassword": err.Error()},
			Cause:  domain.WrapValidationError("confirmPassword", err),
		}
	}

	resp, err := s.api.Post(ctx, apipaths.ResetPassword, resetPasswordRequest{
		NewPassword: password,
		Email:       email,
	}, "")
	if err != nil {
		return formErrorFromAPI("reset-password", err, constants.MsgUnexpectedError)
	}
	if resp.Status != http.StatusOK {
		return domain.NewGeneralError(constants.MsgUnexpectedError, nil)
	}

	s.logger.InfoContext(ctx, "password reset completed")
	return nil
}

// formErrorFromAPI maps a failed call: field errors win, then the API's message, then fallback
func formErrorFromAPI(operation string, err error, fallback string) *domain.FormError {
	apiErr, ok := apiclient.AsError(err)
	if !ok || !apiErr.HasResponse() {
		return unreachableError(operation, err)
	}
	if fields := apiErr.FieldErrors(); !fields.Empty() {
		return &domain.FormError{Fields: fields, Cause: rejected(apiErr)}
	}
	return generalFromAPI(apiErr, fallback)
}

func generalFromAPI(apiErr *apiclient.Error, fallback string) *domain.FormError {
	return &domain.FormError{
		Fields:  domain.FieldErrors{},
		General: firstNonEmpty(apiErr.Body.Message, apiErr.Body.Error, fallback),
		Cause:   rejected(apiErr),
	}
}

// unreachableError is shown when the API never answered; a message in the body still wins
func unreachableError(operation string, err error) *domain.FormError {
	msg := constants.MsgUnexpectedError
	if apiErr, ok := apiclient.AsError(err); ok && apiErr.Body.Message != "" {
		msg = apiErr.Body.Message
	}
	return &domain.FormError{
		Fields:  domain.FieldErrors{},
		General: msg,
		Cause:   domain.WrapUpstreamUnavailable(operation, err),
	}
}

func rejected(apiErr *apiclient.Error) error {
	return domain.NewDomainError(domain.ErrUpstreamRejected.Code, domain.ErrUpstreamRejected.Message, apiErr)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func userID(u *domain.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}

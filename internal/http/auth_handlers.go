package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/myloggi/internal/apipaths"
	"github.com/myloggi/internal/constants"
	"github.com/myloggi/internal/domain"
	"github.com/myloggi/internal/httputil"
	"github.com/myloggi/internal/service"
	"github.com/myloggi/internal/validation"
)

const (
	tmplSignIn         = "signin.html"
	tmplSignUp         = "signup.html"
	tmplOTP            = "otp.html"
	tmplForgetPassword = "forget_password.html"
	tmplNewPassword    = "new_password.html"
)

// formStatus picks the status a re-rendered form is sent with
func formStatus(err error) int {
	if domain.IsInfrastructureError(err) {
		return http.StatusBadGateway
	}
	return http.StatusUnprocessableEntity
}

// saveFlow persists the flow session; a failure is logged and the request carries on
func (s *Server) saveFlow(c *gin.Context, f *flowState) {
	if err := f.Save(); err != nil {
		s.logger.ErrorContext(c.Request.Context(), "failed to save flow session", "error", err)
	}
}

// showSignIn renders the sign-in form, prefilled from remember-me data
func (s *Server) showSignIn(c *gin.Context) {
	f := flow(c)
	data := AuthPageData{
		Title:  "Sign In",
		Flash:  f.PopFlash(),
		Values: map[string]string{},
	}
	s.saveFlow(c, f)

	if device := s.deviceID(c, false); device != "" {
		var saved service.RememberedCredentials
		found, err := s.remember.GetRememberMeData(c.Request.Context(), device, constants.RememberCredentialsKey, &saved)
		if err != nil {
			s.logger.WarnContext(c.Request.Context(), "failed to load remembered credentials", "error", err)
		}
		if found {
			data.Values["usernameOrEmail"] = saved.UsernameOrEmail
			data.Remember = true
		}
	}

	c.HTML(http.StatusOK, tmplSignIn, data)
}

// signIn handles the sign-in form
func (s *Server) signIn(c *gin.Context) {
	var creds domain.Credentials
	if err := c.ShouldBind(&creds); err != nil {
		s.logger.WarnContext(c.Request.Context(), "invalid sign-in form", "error", err)
	}
	remember := httputil.IsChecked(c, "remember")

	result, err := s.authService.Login(c.Request.Context(), creds, c.PostForm("fcmToken"))
	if err != nil {
		data := AuthPageData{
			Title:    "Sign In",
			Values:   map[string]string{"usernameOrEmail": creds.UsernameOrEmail},
			Remember: remember,
		}
		data.withFormError(err, constants.MsgUnexpectedError)
		c.HTML(formStatus(err), tmplSignIn, data)
		return
	}

	s.setTokenCookie(c, result.Token)
	if err := s.setProfile(c, result.User); err != nil {
		s.logger.ErrorContext(c.Request.Context(), "failed to set profile cookie", "error", err)
	}

	s.applyRememberMe(c, remember, creds.UsernameOrEmail)

	f := flow(c)
	f.Clear()
	s.saveFlow(c, f)

	c.Redirect(http.StatusSeeOther, apipaths.Home)
}

// applyRememberMe stores or forgets the sign-in identifier for this browser
func (s *Server) applyRememberMe(c *gin.Context, remember bool, identifier string) {
	ctx := c.Request.Context()

	if !remember {
		if device := s.deviceID(c, false); device != "" {
			if err := s.remember.RemoveFromStore(ctx, device, constants.RememberCredentialsKey); err != nil {
				s.logger.WarnContext(ctx, "failed to forget credentials", "error", err)
			}
		}
		return
	}

	device := s.deviceID(c, true)
	saved := service.RememberedCredentials{UsernameOrEmail: strings.TrimSpace(identifier)}
	if err := s.remember.RememberMe(ctx, device, constants.RememberCredentialsKey, saved); err != nil {
		s.logger.WarnContext(ctx, "failed to remember credentials", "error", err)
	}
}

func (s *Server) showSignUp(c *gin.Context) {
	c.HTML(http.StatusOK, tmplSignUp, AuthPageData{Title: "Sign Up", Values: map[string]string{}})
}

// signUp handles the registration form
func (s *Server) signUp(c *gin.Context) {
	var form domain.SignupForm
	if err := c.ShouldBind(&form); err != nil {
		s.logger.WarnContext(c.Request.Context(), "invalid sign-up form", "error", err)
	}

	result, err := s.authService.Signup(c.Request.Context(), form)
	if err != nil {
		data := AuthPageData{
			Title: "Sign Up",
			Values: map[string]string{
				"username":  form.Username,
				"full_name": form.FullName,
				"email":     form.Email,
				"phone":     form.Phone,
			},
		}
		data.withFormError(err, constants.MsgSignupFailed)
		c.HTML(formStatus(err), tmplSignUp, data)
		return
	}

	if result.Token != "" {
		s.setTokenCookie(c, result.Token)
	}

	f := flow(c)
	f.Clear()
	f.SetPurpose(constants.OTPPurposeVerifyAccount)
	s.saveFlow(c, f)

	c.Redirect(http.StatusSeeOther, apipaths.OTP)
}

// otpPurpose resolves which OTP check the page performs. Without a flow purpose
// a token cookie means an unverified sign-up.
func (s *Server) otpPurpose(c *gin.Context, f *flowState) string {
	if purpose := f.Purpose(); purpose != "" {
		return purpose
	}
	if s.tokenFromCookie(c) != "" {
		return constants.OTPPurposeVerifyAccount
	}
	return ""
}

func otpPageData(purpose string) AuthPageData {
	title := "Verify your account"
	if purpose == constants.OTPPurposeReset {
		title = "Enter reset code"
	}
	boxes := make([]int, constants.OTPLength)
	for i := range boxes {
		boxes[i] = i
	}
	return AuthPageData{
		Title:      title,
		OTPPurpose: purpose,
		OTPBoxes:   boxes,
		Values:     map[string]string{},
	}
}

func (s *Server) showOTP(c *gin.Context) {
	f := flow(c)
	purpose := s.otpPurpose(c, f)
	if purpose == "" {
		c.Redirect(http.StatusFound, apipaths.SignIn)
		return
	}

	data := otpPageData(purpose)
	data.Flash = f.PopFlash()
	s.saveFlow(c, f)

	c.HTML(http.StatusOK, tmplOTP, data)
}

// verifyOTP handles the six-box OTP form for both account verification and password reset
func (s *Server) verifyOTP(c *gin.Context) {
	ctx := c.Request.Context()
	f := flow(c)
	purpose := s.otpPurpose(c, f)
	if purpose == "" {
		c.Redirect(http.StatusSeeOther, apipaths.SignIn)
		return
	}

	otp, err := validation.JoinOTPDigits(httputil.OTPBoxes(c, "otp", constants.OTPLength))
	if err == nil {
		switch purpose {
		case constants.OTPPurposeReset:
			err = s.authService.CheckOTP(ctx, f.PendingEmail(), otp)
		default:
			err = s.authService.VerifyAccount(ctx, s.tokenFromCookie(c), otp)
		}
	} else {
		err = domain.NewFieldError("otp", err.Error())
	}

	if err != nil {
		if purpose == constants.OTPPurposeReset && domain.IsAuthError(err) {
			f.Clear()
			f.SetFlash(constants.MsgResetEmailMissing)
			s.saveFlow(c, f)
			c.Redirect(http.StatusSeeOther, apipaths.ForgotPassword)
			return
		}
		data := otpPageData(purpose)
		data.withFormError(err, constants.MsgSomethingWrong)
		c.HTML(formStatus(err), tmplOTP, data)
		return
	}

	if purpose == constants.OTPPurposeReset {
		f.SetOTPVerified(true)
		s.saveFlow(c, f)
		c.Redirect(http.StatusSeeOther, apipaths.NewPassword)
		return
	}

	// the sign-up token is only good for verification; the user signs in afresh
	s.clearTokenCookie(c)
	f.Clear()
	f.SetFlash(constants.MsgAccountVerified)
	s.saveFlow(c, f)
	c.Redirect(http.StatusSeeOther, apipaths.SignIn)
}

func (s *Server) showForgetPassword(c *gin.Context) {
	f := flow(c)
	data := AuthPageData{
		Title:  "Forget your password?",
		Flash:  f.PopFlash(),
		Values: map[string]string{},
	}
	s.saveFlow(c, f)
	c.HTML(http.StatusOK, tmplForgetPassword, data)
}

// forgetPassword requests a reset OTP and starts the reset flow
func (s *Server) forgetPassword(c *gin.Context) {
	email := c.PostForm("email")

	normalized, err := s.authService.ForgetPassword(c.Request.Context(), email)
	if err != nil {
		data := AuthPageData{
			Title:  "Forget your password?",
			Values: map[string]string{"email": email},
		}
		data.withFormError(err, constants.MsgUnexpectedError)
		c.HTML(formStatus(err), tmplForgetPassword, data)
		return
	}

	f := flow(c)
	f.Clear()
	f.SetPendingEmail(normalized)
	f.SetPurpose(constants.OTPPurposeReset)
	s.saveFlow(c, f)

	c.Redirect(http.StatusSeeOther, apipaths.OTP)
}

// resetReady reports whether the reset flow reached the new-password step
func resetReady(f *flowState) bool {
	return f.PendingEmail() != "" && f.OTPVerified()
}

func (s *Server) restartReset(c *gin.Context, f *flowState, status int) {
	f.Clear()
	f.SetFlash(constants.MsgResetEmailMissing)
	s.saveFlow(c, f)
	c.Redirect(status, apipaths.ForgotPassword)
}

func (s *Server) showNewPassword(c *gin.Context) {
	f := flow(c)
	if !resetReady(f) {
		s.restartReset(c, f, http.StatusFound)
		return
	}
	c.HTML(http.StatusOK, tmplNewPassword, AuthPageData{Title: "Reset your password"})
}

// newPassword sets the new password for the pending email
func (s *Server) newPassword(c *gin.Context) {
	f := flow(c)
	if !resetReady(f) {
		s.restartReset(c, f, http.StatusSeeOther)
		return
	}

	err := s.authService.ResetPassword(c.Request.Context(), f.PendingEmail(), c.PostForm("password"), c.PostForm("confirmPassword"))
	if err != nil {
		if domain.IsAuthError(err) {
			s.restartReset(c, f, http.StatusSeeOther)
			return
		}
		data := AuthPageData{Title: "Reset your password"}
		data.withFormError(err, constants.MsgUnexpectedError)
		c.HTML(formStatus(err), tmplNewPassword, data)
		return
	}

	f.Clear()
	f.SetFlash(constants.MsgPasswordChanged)
	s.saveFlow(c, f)

	c.Redirect(http.StatusSeeOther, apipaths.SignIn)
}

// logout drops the token and profile cookies and any flow state
func (s *Server) logout(c *gin.Context) {
	s.clearTokenCookie(c)
	s.clearProfile(c)

	f := flow(c)
	f.Clear()
	s.saveFlow(c, f)

	s.logger.InfoContext(c.Request.Context(), "user signed out")
	c.Redirect(http.StatusSeeOther, apipaths.SignIn)
}

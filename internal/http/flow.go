package http

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Session keys for the multi-page auth flows
const (
	sessionKeyPendingEmail = "pending_email"
	sessionKeyOTPPurpose   = "otp_purpose"
	sessionKeyOTPVerified  = "otp_verified"
	sessionKeyFlash        = "flash"
)

// flowState is the sign-up and password-reset state carried between pages
type flowState struct {
	session sessions.Session
}

func flow(c *gin.Context) *flowState {
	return &flowState{session: sessions.Default(c)}
}

func (f *flowState) getString(key string) string {
	v, _ := f.session.Get(key).(string)
	return v
}

// PendingEmail is the address a reset OTP was sent to
func (f *flowState) PendingEmail() string {
	return f.getString(sessionKeyPendingEmail)
}

func (f *flowState) SetPendingEmail(email string) {
	f.session.Set(sessionKeyPendingEmail, email)
}

// Purpose tells the OTP page which call to make
func (f *flowState) Purpose() string {
	return f.getString(sessionKeyOTPPurpose)
}

func (f *flowState) SetPurpose(purpose string) {
	f.session.Set(sessionKeyOTPPurpose, purpose)
}

// OTPVerified is set once the reset OTP was accepted
func (f *flowState) OTPVerified() bool {
	v, _ := f.session.Get(sessionKeyOTPVerified).(bool)
	return v
}

func (f *flowState) SetOTPVerified(verified bool) {
	f.session.Set(sessionKeyOTPVerified, verified)
}

func (f *flowState) SetFlash(msg string) {
	f.session.Set(sessionKeyFlash, msg)
}

// PopFlash returns the flash message and removes it
func (f *flowState) PopFlash() string {
	msg := f.getString(sessionKeyFlash)
	if msg != "" {
		f.session.Delete(sessionKeyFlash)
	}
	return msg
}

// Clear drops the flow keys; a pending flash survives
func (f *flowState) Clear() {
	f.session.Delete(sessionKeyPendingEmail)
	f.session.Delete(sessionKeyOTPPurpose)
	f.session.Delete(sessionKeyOTPVerified)
}

func (f *flowState) Save() error {
	return f.session.Save()
}

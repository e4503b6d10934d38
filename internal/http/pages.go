package http

import (
	"errors"

	"github.com/myloggi/internal/domain"
)

// AuthPageData holds what the sign-in, sign-up, OTP and reset templates render
type AuthPageData struct {
	Title    string
	Flash    string
	Error    string
	Fields   domain.FieldErrors
	Values   map[string]string
	Remember bool

	// OTP page only
	OTPPurpose string
	OTPBoxes   []int
}

// DashboardPageData holds what the dashboard shell renders
type DashboardPageData struct {
	Title  string
	Active string
	Flash  string
	User   *domain.User
}

// ErrorPageData holds the data needed to render the error page template
type ErrorPageData struct {
	Title   string
	Message string
}

// withFormError copies a FormError into the page; other errors become a general message
func (d *AuthPageData) withFormError(err error, fallback string) {
	var formErr *domain.FormError
	if errors.As(err, &formErr) {
		d.Fields = formErr.Fields
		d.Error = formErr.General
		return
	}
	d.Error = fallback
}

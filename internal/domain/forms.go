package domain

import (
	"sort"
	"strings"
)

// User is the signed-in account as returned by the account API
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DisplayName returns the name to show in the dashboard header
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Email
}

// Credentials is the sign-in form
type Credentials struct {
	UsernameOrEmail string `json:"usernameOrEmail" form:"usernameOrEmail"`
	Password        string `json:"password" form:"password"`
}

// SignupForm is the registration form
type SignupForm struct {
	Username       string `json:"username" form:"username"`
	FullName       string `json:"full_name" form:"full_name"`
	Email          string `json:"email" form:"email"`
	Phone          string `json:"phone" form:"phone"`
	Password       string `json:"password" form:"password"`
	RetypePassword string `json:"-" form:"retype_password"`
	Role           string `json:"role" form:"-"`
}

// FieldErrors maps a form field name to the message shown under it
type FieldErrors map[string]string

// Add records msg for field; a later message for the same field wins
func (f FieldErrors) Add(field, msg string) {
	f[field] = msg
}

// Has reports whether field has an error
func (f FieldErrors) Has(field string) bool {
	_, ok := f[field]
	return ok
}

// Get returns the message for field or ""
func (f FieldErrors) Get(field string) string {
	return f[field]
}

// Empty reports whether there are no field errors
func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

// FormError is what a form page displays after a failed submission.
// Fields holds per-input messages, General a message shown above the submit button.
type FormError struct {
	Fields  FieldErrors
	General string
	Cause   error
}

func (e *FormError) Error() string {
	if e.General != "" {
		return e.General
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

func (e *FormError) Unwrap() error {
	return e.Cause
}

// NewFieldError builds a FormError for a single field
func NewFieldError(field, msg string) *FormError {
	return &FormError{Fields: FieldErrors{field: msg}}
}

// NewGeneralError builds a FormError with only a general message
func NewGeneralError(msg string, cause error) *FormError {
	return &FormError{Fields: FieldErrors{}, General: msg, Cause: cause}
}

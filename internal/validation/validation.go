package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/badoux/checkmail"

	"github.com/myloggi/internal/constants"
)

const maxEmailLength = 255

// ValidateEmail checks the address format and returns it lowercased
func ValidateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", errors.New("Email is required")
	}
	if len(email) > maxEmailLength {
		return "", errors.New("Email address is too long")
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return "", fmt.Errorf("Invalid email address: %w", err)
	}
	return strings.ToLower(email), nil
}

// ValidateOTP requires exactly six ASCII digits
func ValidateOTP(otp string) error {
	if len(otp) != constants.OTPLength {
		return errors.New(constants.MsgInvalidOTPFormat)
	}
	for _, r := range otp {
		if r < '0' || r > '9' {
			return errors.New(constants.MsgInvalidOTPFormat)
		}
	}
	return nil
}

// JoinOTPDigits joins the per-box inputs of the OTP form.
// Each box may hold nothing or a single digit; anything else is rejected.
func JoinOTPDigits(digits []string) (string, error) {
	if len(digits) > constants.OTPLength {
		return "", errors.New(constants.MsgInvalidOTPFormat)
	}

	var b strings.Builder
	for _, d := range digits {
		d = strings.TrimSpace(d)
		switch {
		case d == "":
		case len(d) == 1 && d[0] >= '0' && d[0] <= '9':
			b.WriteString(d)
		default:
			return "", errors.New(constants.MsgInvalidOTPFormat)
		}
	}
	return b.String(), nil
}

// ValidatePasswordConfirmation checks the retyped password
func ValidatePasswordConfirmation(password, confirm string) error {
	if password != confirm {
		return errors.New(constants.MsgPasswordsMismatch)
	}
	return nil
}

// ValidateRequired trims value and fails when it is empty
func ValidateRequired(label, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s is required", label)
	}
	return value, nil
}

// ValidateUsernameOrEmail trims the sign-in identifier and requires it
func ValidateUsernameOrEmail(value string) (string, error) {
	return ValidateRequired("Username or email", value)
}

package onboarding

import (
	"regexp"
	"strings"
)

// Field names errors are attached to.
const (
	FieldIdentifier      = "identifier"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

var (
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	uppercasePattern = regexp.MustCompile(`[A-Z]`)
	digitPattern     = regexp.MustCompile(`[0-9]`)
)

// FieldErrors maps a form field to its validation message. Validation is
// purely local; no provider call is made while any field is invalid.
type FieldErrors map[string]string

// ValidationError wraps field-level validation failures as an error.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// SignInForm is the data a returning user submits.
type SignInForm struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Validate checks the sign-in form locally.
func (f *SignInForm) Validate() FieldErrors {
	errs := FieldErrors{}
	if !emailPattern.MatchString(f.Identifier) {
		errs[FieldIdentifier] = "Enter a valid email address"
	}
	if f.Password == "" {
		errs[FieldPassword] = "Password is required"
	} else if msg := passwordMessage(f.Password); msg != "" {
		errs[FieldPassword] = msg
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// SignUpForm is the data a new user submits to create an account.
type SignUpForm struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Validate checks the sign-up form locally. A password/confirmation mismatch
// is attached to the confirmation field, not the password field.
func (f *SignUpForm) Validate() FieldErrors {
	errs := FieldErrors{}
	if !emailPattern.MatchString(f.Email) {
		errs[FieldEmail] = "Enter a valid email address"
	}
	if msg := passwordMessage(f.Password); msg != "" {
		errs[FieldPassword] = msg
	}
	if f.ConfirmPassword == "" {
		errs[FieldConfirmPassword] = "Please confirm your password"
	} else if f.Password != f.ConfirmPassword {
		errs[FieldConfirmPassword] = "Passwords don't match. Please re-enter."
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// passwordMessage returns the first rule the password violates, or "".
func passwordMessage(password string) string {
	if len(password) < 8 {
		return "Password must be at least 8 characters long"
	}
	if !uppercasePattern.MatchString(password) {
		return "Include at least one uppercase letter"
	}
	if !digitPattern.MatchString(password) {
		return "Include at least one number"
	}
	return ""
}

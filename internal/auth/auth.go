// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth validates the login and registration form and turns backend
// failures into messages a user can act on.
package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/cortex-tui/internal/api"
)

// Mode selects between signing in and creating an account.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

func (m Mode) String() string {
	if m == ModeRegister {
		return "register"
	}
	return "login"
}

// MinPasswordLength is the shortest password the form accepts.
const MinPasswordLength = 6

// User-facing messages.
const (
	MsgFillAllFields    = "Please fill in all fields"
	MsgInvalidEmail     = "Please enter a valid email address (e.g., name@example.com)"
	MsgPasswordTooShort = "Password must be at least 6 characters long"
	MsgAcceptTerms      = "Please accept the Terms of Service and Privacy Policy"
	MsgAccountCreated   = "Account created! Please log in."
	MsgAlreadyExists    = "This email is already registered. Please log in instead."
	MsgBadCredentials   = "Invalid email or password. Please try again."
	MsgGenericFailure   = "Authentication failed"
)

// emailPattern accepts the same addresses as the web sign-in form.
var emailPattern = regexp.MustCompile(`^(([^<>()[\]\\.,;:\s@"]+(\.[^<>()[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)

// Form is the state of the sign-in form.
type Form struct {
	Mode          Mode
	Email         string
	Password      string
	AcceptedTerms bool
}

// ValidationError is a form problem found before any request is sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NormalizeEmail applies NFKC, trims surrounding space and lower-cases.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(email)))
}

// ValidEmail reports whether email looks like an address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(NormalizeEmail(email))
}

// Validate checks the form in a fixed order and returns the first problem.
func Validate(f Form) error {
	if strings.TrimSpace(f.Email) == "" || f.Password == "" {
		return &ValidationError{Message: MsgFillAllFields}
	}
	if !ValidEmail(f.Email) {
		return &ValidationError{Message: MsgInvalidEmail}
	}
	if utf8.RuneCountInString(f.Password) < MinPasswordLength {
		return &ValidationError{Message: MsgPasswordTooShort}
	}
	if f.Mode == ModeRegister && !f.AcceptedTerms {
		return &ValidationError{Message: MsgAcceptTerms}
	}
	return nil
}

// Backend is the subset of the API client used for authentication.
type Backend interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, email, password string) error
}

// Result tells the caller what to do after a successful submit.
type Result struct {
	// Navigate is the route to go to, "" to stay.
	Navigate string
	// Notice is a non-error message to show on the form.
	Notice string
	// SwitchToLogin clears the form and flips it to login mode.
	SwitchToLogin bool
}

// Submit validates the form and, if it passes, calls the backend. A
// validation failure returns *ValidationError and sends nothing.
func Submit(ctx context.Context, backend Backend, f Form) (Result, error) {
	if err := Validate(f); err != nil {
		return Result{}, err
	}

	email := NormalizeEmail(f.Email)
	if f.Mode == ModeRegister {
		if err := backend.Register(ctx, email, f.Password); err != nil {
			return Result{}, err
		}
		return Result{Notice: MsgAccountCreated, SwitchToLogin: true}, nil
	}

	if err := backend.Login(ctx, email, f.Password); err != nil {
		return Result{}, err
	}
	return Result{Navigate: "/chat"}, nil
}

// Humanize maps a submit error to the message shown on the form.
func Humanize(err error) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}

	msg := err.Error()
	status := 0
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		msg = apiErr.Message
		status = apiErr.Status
	}

	switch {
	case strings.Contains(msg, "already exists"):
		return MsgAlreadyExists
	case status == 401 || strings.Contains(msg, "401") || strings.Contains(msg, "credentials"):
		return MsgBadCredentials
	case strings.TrimSpace(msg) == "":
		return MsgGenericFailure
	default:
		return msg
	}
}

// IsNotice reports whether a form message is a success notice rather than
// an error, so it can be styled differently.
func IsNotice(msg string) bool {
	return strings.Contains(msg, "created") || strings.Contains(msg, "success")
}

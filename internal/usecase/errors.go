package usecase

import "errors"

var (
	// ErrUnsupportedResponse indicates none of the tolerated backend response
	// shapes matched.
	ErrUnsupportedResponse = errors.New("unsupported response format")
	// ErrNotHostAccount indicates a host login resolved to a non-host role.
	ErrNotHostAccount = errors.New("account is not registered as a host")
	// ErrNotAdminAccount indicates an admin login resolved to a non-admin role.
	ErrNotAdminAccount = errors.New("account is not an administrator")
	// ErrSessionInvalid indicates the stored session was rejected by the
	// backend; the role may have changed server-side and the user must log in
	// again.
	ErrSessionInvalid = errors.New("session no longer valid, please log in again")
	// ErrEmailNotFound indicates the password-reset email is not registered.
	ErrEmailNotFound = errors.New("email is not registered")
	// ErrInvalidEmail indicates the supplied address failed the local format check.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrInvalidOTP indicates the one-time code is not exactly six digits.
	ErrInvalidOTP = errors.New("verification code must be 6 digits")
	// ErrPasswordMismatch indicates the new password and its confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrInvalidBirthDate indicates the date of birth is unparseable or in the future.
	ErrInvalidBirthDate = errors.New("date of birth must be a valid date in the past")
	// ErrFlowStep indicates a password-reset action was attempted out of order.
	ErrFlowStep = errors.New("action not allowed at this step")
)

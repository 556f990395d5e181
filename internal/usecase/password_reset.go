package usecase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/renthaven/renthaven/internal/api"
	"github.com/renthaven/renthaven/internal/infra/logger"
	"github.com/renthaven/renthaven/internal/infra/security"
)

// ResetStep identifies the current position in the password-reset flow.
type ResetStep int

const (
	StepEnterEmail  ResetStep = 1
	StepCheckInbox  ResetStep = 2
	StepEnterOTP    ResetStep = 3
	StepSetPassword ResetStep = 4
)

const otpLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// PasswordResetFlow drives the four-step reset sequence:
//
//	1 enter email → 2 check inbox → 3 enter code → 4 set new password
//
// Transitions are forward-only; resending the code self-loops on steps 2 and 3.
// Each forward transition is gated by the corresponding backend call; client
// side checks (email format, code length, password match and length) reject
// before any network traffic. Code expiry is enforced solely by the backend
// rejecting a stale code at steps 3 or 4.
type PasswordResetFlow struct {
	client    *api.Client
	validator *security.PasswordValidator
	logger    *zap.Logger

	step      ResetStep
	email     string
	otp       string
	completed bool
}

// NewPasswordResetFlow starts a flow at step 1.
func NewPasswordResetFlow(client *api.Client, log *zap.Logger) *PasswordResetFlow {
	if log == nil {
		log = zap.NewNop()
	}
	return &PasswordResetFlow{
		client:    client,
		validator: security.DefaultPasswordValidator(),
		logger:    log,
		step:      StepEnterEmail,
	}
}

// Step returns the current step.
func (f *PasswordResetFlow) Step() ResetStep { return f.step }

// Email returns the address the flow was started for.
func (f *PasswordResetFlow) Email() string { return f.email }

// Completed reports whether the final reset call succeeded.
func (f *PasswordResetFlow) Completed() bool { return f.completed }

// SubmitEmail validates the address locally, confirms it is registered, and
// requests a one-time code. On success the flow advances to step 2; on any
// failure it stays at step 1.
func (f *PasswordResetFlow) SubmitEmail(ctx context.Context, email string) error {
	if f.step != StepEnterEmail {
		return ErrFlowStep
	}

	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}

	if err := f.requestCode(ctx, email); err != nil {
		return err
	}

	f.email = email
	f.step = StepCheckInbox
	return nil
}

// Continue acknowledges the check-inbox step and advances to code entry. It is
// purely client-side.
func (f *PasswordResetFlow) Continue() error {
	if f.step != StepCheckInbox {
		return ErrFlowStep
	}
	f.step = StepEnterOTP
	return nil
}

// Resend repeats the existence check and code request for the flow's email.
// Allowed while the flow is waiting on the code (steps 2 and 3); it does not
// change the step.
func (f *PasswordResetFlow) Resend(ctx context.Context) error {
	if f.step != StepCheckInbox && f.step != StepEnterOTP {
		return ErrFlowStep
	}
	return f.requestCode(ctx, f.email)
}

// SubmitOTP verifies the one-time code with the backend. Non-digit characters
// are stripped and input is truncated to six digits before the length check;
// short input is rejected without a network call. On success the flow advances
// to step 4, on failure it stays at step 3.
func (f *PasswordResetFlow) SubmitOTP(ctx context.Context, input string) error {
	if f.step != StepEnterOTP {
		return ErrFlowStep
	}

	otp := SanitizeOTP(input)
	if len(otp) != otpLength {
		return ErrInvalidOTP
	}

	query := url.Values{"otp": {otp}}
	if _, err := f.client.Do(ctx, http.MethodPost, "/users/password-reset/verify", query, nil); err != nil {
		return fmt.Errorf("verify code: %w", err)
	}

	f.otp = otp
	f.step = StepSetPassword
	return nil
}

// SubmitNewPassword confirms the reset. The new password must match its
// confirmation and pass the minimum-length rule before the backend is called
// with the verified code. Success is terminal.
func (f *PasswordResetFlow) SubmitNewPassword(ctx context.Context, newPassword, confirmPassword string) error {
	if f.step != StepSetPassword {
		return ErrFlowStep
	}

	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	if err := f.validator.Validate(newPassword); err != nil {
		return err
	}

	query := url.Values{
		"otp":         {f.otp},
		"newPassword": {newPassword},
	}
	if _, err := f.client.Do(ctx, http.MethodPost, "/users/password-reset/confirm", query, nil); err != nil {
		return fmt.Errorf("confirm reset: %w", err)
	}

	f.completed = true
	f.logger.Info("password reset completed",
		zap.String("email", logger.MaskEmail(f.email)))
	return nil
}

func (f *PasswordResetFlow) requestCode(ctx context.Context, email string) error {
	var exists bool
	query := url.Values{"email": {email}}
	if err := f.client.GetJSON(ctx, "/users/check-email", query, &exists); err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if !exists {
		return ErrEmailNotFound
	}

	if _, err := f.client.Do(ctx, http.MethodPost, "/users/password-reset/request", query, nil); err != nil {
		return fmt.Errorf("request reset code: %w", err)
	}
	return nil
}

// SanitizeOTP strips non-digit characters and truncates to the code length,
// mirroring what the entry field does as the user types.
func SanitizeOTP(input string) string {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == otpLength {
				break
			}
		}
	}
	return b.String()
}

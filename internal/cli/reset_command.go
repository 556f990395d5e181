package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/renthaven/renthaven/internal/usecase"
)

// newResetPasswordCommand drives the four-step reset flow interactively. The
// flow only moves forward; "resend" re-enters the code-entry step.
func newResetPasswordCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <email>",
		Short: "Reset a forgotten password with an emailed code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx := cmd.Context()

			flow := usecase.NewPasswordResetFlow(a.Clients.Public, a.Logger)

			if err := flow.SubmitEmail(ctx, args[0]); err != nil {
				return err
			}
			a.printf("A reset code was sent to %s\n", flow.Email())

			if err := flow.Continue(); err != nil {
				return err
			}

			for flow.Step() == usecase.StepEnterOTP {
				input, err := a.prompt("Code (or \"resend\"): ")
				if err != nil {
					return err
				}
				if strings.EqualFold(input, "resend") {
					if err := flow.Resend(ctx); err != nil {
						return err
					}
					a.printf("A new code was sent\n")
					continue
				}

				err = flow.SubmitOTP(ctx, input)
				if err == nil {
					break
				}
				if errors.Is(err, usecase.ErrInvalidOTP) {
					a.printf("The code must be 6 digits\n")
					continue
				}
				a.printf("Code rejected: %v\n", err)
			}

			for !flow.Completed() {
				password, err := a.prompt("New password: ")
				if err != nil {
					return err
				}
				confirm, err := a.prompt("Confirm password: ")
				if err != nil {
					return err
				}
				warnWeakPassword(a, password, flow.Email())

				if err := flow.SubmitNewPassword(ctx, password, confirm); err != nil {
					if errors.Is(err, usecase.ErrPasswordMismatch) {
						a.printf("Passwords do not match\n")
						continue
					}
					return err
				}
			}

			a.printf("Password reset. You can log in with the new password.\n")
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renthaven/renthaven/internal/infra/security"
	"github.com/renthaven/renthaven/internal/usecase"
)

func newLoginCommand(app func() *App) *cobra.Command {
	var asHost bool

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Authenticate and persist the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			password, err := a.prompt("Password: ")
			if err != nil {
				return err
			}

			login := a.Auth.Login
			if asHost {
				login = a.Auth.LoginAsHost
			}
			profile, err := login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}

			a.printf("Logged in as %s (%s)\n", profile.Username, profile.RoleName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asHost, "host", false, "require a host account")
	return cmd
}

func newRegisterCommand(app func() *App) *cobra.Command {
	var input usecase.RegisterInput

	cmd := &cobra.Command{
		Use:   "register <email>",
		Short: "Create a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			input.Email = args[0]

			password, err := a.prompt("Password: ")
			if err != nil {
				return err
			}
			confirm, err := a.prompt("Confirm password: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return usecase.ErrPasswordMismatch
			}
			warnWeakPassword(a, password, input.Email)
			input.Password = password

			message, err := a.Auth.Register(cmd.Context(), input)
			if err != nil {
				return err
			}
			if message == "" {
				message = "registration successful"
			}
			a.printf("%s\n", message)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Username, "username", "", "display name")
	cmd.Flags().StringVar(&input.FullName, "full-name", "", "full name")
	cmd.Flags().StringVar(&input.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&input.Address, "address", "", "postal address")
	return cmd
}

func newLogoutCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			a.Auth.Logout()
			a.printf("Logged out\n")
			return nil
		},
	}
}

func newWhoamiCommand(app func() *App) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the active session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			if refresh {
				profile, err := a.Auth.CurrentUser(cmd.Context())
				if err != nil {
					return err
				}
				a.printf("%s <%s> role=%s\n", profile.Username, profile.Email, profile.RoleName)
				return nil
			}

			user := a.Store.User()
			if user == nil {
				return fmt.Errorf("not logged in")
			}
			a.printf("%s <%s> role=%s\n", user.Username, user.Email, user.RoleName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "fetch the profile from the backend")
	return cmd
}

func newPasswdCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "passwd",
		Short: "Change the account password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			user := a.Store.User()
			if user == nil {
				return fmt.Errorf("not logged in")
			}

			current, err := a.prompt("Current password: ")
			if err != nil {
				return err
			}
			next, err := a.prompt("New password: ")
			if err != nil {
				return err
			}
			confirm, err := a.prompt("Confirm new password: ")
			if err != nil {
				return err
			}
			warnWeakPassword(a, next, user.Email)

			if err := a.Auth.ChangePassword(cmd.Context(), user.ID, current, next, confirm); err != nil {
				return err
			}
			a.printf("Password changed\n")
			return nil
		},
	}
}

// warnWeakPassword surfaces the zxcvbn score as advice only; the backend has
// the final say on acceptance.
func warnWeakPassword(a *App, password string, userInputs ...string) {
	if security.PasswordStrengthScore(password, userInputs...) < 2 {
		a.printf("Warning: this password is easy to guess\n")
	}
}

package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the renthaven command tree. The App is created in the
// persistent pre-run so `--help` works without touching config or state.
func NewRootCommand() *cobra.Command {
	var app *App

	root := &cobra.Command{
		Use:           "renthaven",
		Short:         "Command line client for the RentHaven marketplace",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			app, err = NewApp(cmd.OutOrStdout(), cmd.InOrStdin())
			return err
		},
	}

	appRef := func() *App { return app }

	root.AddCommand(
		newLoginCommand(appRef),
		newRegisterCommand(appRef),
		newLogoutCommand(appRef),
		newWhoamiCommand(appRef),
		newProfileCommand(appRef),
		newPasswdCommand(appRef),
		newResetPasswordCommand(appRef),
		newHousesCommand(appRef),
		newRentalsCommand(appRef),
		newHostCommand(appRef),
		newUploadCommand(appRef),
		newAdminCommand(appRef),
	)

	return root
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		os.Exit(1)
	}
}

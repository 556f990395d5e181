package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renthaven/renthaven/internal/usecase"
)

func newProfileCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show and edit the account profile",
	}
	cmd.AddCommand(newProfileShowCommand(app), newProfileUpdateCommand(app))
	return cmd
}

func newProfileShowCommand(app func() *App) *cobra.Command {
	var host bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Fetch the profile from the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			fetch := a.Auth.CurrentUser
			if host {
				fetch = a.Auth.HostProfile
			}
			profile, err := fetch(cmd.Context())
			if err != nil {
				return err
			}

			a.printf("ID:        %s\n", profile.ID)
			a.printf("Username:  %s\n", profile.Username)
			a.printf("Email:     %s\n", profile.Email)
			a.printf("Full name: %s\n", profile.FullName)
			a.printf("Phone:     %s\n", profile.Phone)
			a.printf("Address:   %s\n", profile.Address)
			a.printf("Birthdate: %s\n", profile.BirthDate)
			a.printf("Role:      %s\n", profile.RoleName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&host, "host", false, "fetch the host profile instead")
	return cmd
}

func newProfileUpdateCommand(app func() *App) *cobra.Command {
	var update usecase.ProfileUpdate

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			user := a.Store.User()
			if user == nil {
				return fmt.Errorf("not logged in")
			}

			profile, err := a.Auth.UpdateProfile(cmd.Context(), user.ID, update)
			if err != nil {
				return err
			}
			a.printf("Profile updated for %s\n", profile.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&update.FullName, "full-name", "", "full name")
	cmd.Flags().StringVar(&update.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&update.Address, "address", "", "postal address")
	cmd.Flags().StringVar(&update.DateOfBirth, "birth-date", "", "birth date (YYYY-MM-DD or DD/MM/YYYY)")
	cmd.Flags().StringVar(&update.AvatarURL, "avatar-url", "", "avatar URL")
	return cmd
}

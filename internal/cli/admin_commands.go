package cli

import (
	"github.com/spf13/cobra"

	"github.com/renthaven/renthaven/internal/core/domain"
	"github.com/renthaven/renthaven/internal/usecase"
)

func newAdminCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative operations (separate admin session)",
	}
	cmd.AddCommand(
		newAdminLoginCommand(app),
		newAdminLogoutCommand(app),
		newAdminUsersCommand(app),
		newAdminHousesCommand(app),
		newAdminApplicationsCommand(app),
		newAdminStatsCommand(app),
	)
	return cmd
}

func newAdminLoginCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Authenticate with an admin account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			password, err := a.prompt("Password: ")
			if err != nil {
				return err
			}

			profile, err := a.Auth.LoginAsAdmin(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			a.printf("Admin session opened for %s\n", profile.Username)
			return nil
		},
	}
}

func newAdminLogoutCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the admin session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			a.Store.ClearAdminSession()
			a.printf("Admin session cleared\n")
			return nil
		},
	}
}

func pageFlags(cmd *cobra.Command, page *usecase.Page) {
	cmd.Flags().IntVar(&page.Number, "page", 0, "page number")
	cmd.Flags().IntVar(&page.Size, "size", 0, "page size")
}

func newAdminUsersCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts",
	}

	var page usecase.Page
	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			users, err := a.Admin.ListUsers(cmd.Context(), page)
			if err != nil {
				return err
			}
			printUsers(a, users)
			return nil
		},
	}
	pageFlags(list, &page)

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			user, err := a.Admin.GetUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printf("%s  %s <%s>  role=%s\n", user.ID, user.Username, user.Email, user.RoleName)
			return nil
		},
	}

	var update usecase.ProfileUpdate
	edit := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			user, err := a.Admin.UpdateUser(cmd.Context(), args[0], update)
			if err != nil {
				return err
			}
			a.printf("Updated %s\n", user.ID)
			return nil
		},
	}
	edit.Flags().StringVar(&update.FullName, "full-name", "", "full name")
	edit.Flags().StringVar(&update.Phone, "phone", "", "phone number")
	edit.Flags().StringVar(&update.Address, "address", "", "postal address")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			if err := a.Admin.DeleteUser(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.printf("Deleted %s\n", args[0])
			return nil
		},
	}

	var tenantPage usecase.Page
	tenants := &cobra.Command{
		Use:   "tenants",
		Short: "List tenant accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			users, err := a.Admin.ListTenants(cmd.Context(), tenantPage)
			if err != nil {
				return err
			}
			printUsers(a, users)
			return nil
		},
	}
	pageFlags(tenants, &tenantPage)

	cmd.AddCommand(list, show, edit, del, tenants)
	return cmd
}

func printUsers(a *App, users []domain.Profile) {
	if len(users) == 0 {
		a.printf("No users\n")
		return
	}
	for _, u := range users {
		a.printf("%s  %-20s  %-30s  %s\n", u.ID, u.Username, u.Email, u.RoleName)
	}
}

func newAdminHousesCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "houses",
		Short: "Manage listings",
	}

	var page usecase.Page
	list := &cobra.Command{
		Use:   "list",
		Short: "List every house",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			houses, err := a.Admin.ListHouses(cmd.Context(), page)
			if err != nil {
				return err
			}
			printHouses(a, houses)
			return nil
		},
	}
	pageFlags(list, &page)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a house",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			if err := a.Admin.DeleteHouse(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.printf("Deleted %s\n", args[0])
			return nil
		},
	}

	var contractPage usecase.Page
	contracts := &cobra.Command{
		Use:   "contracts",
		Short: "List rental contracts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			rentals, err := a.Admin.ListContracts(cmd.Context(), contractPage)
			if err != nil {
				return err
			}
			for _, r := range rentals {
				a.printf("%s  house=%s tenant=%s  %s\n", r.ID, r.HouseID, r.TenantID, r.Status)
			}
			return nil
		},
	}
	pageFlags(contracts, &contractPage)

	cmd.AddCommand(list, del, contracts)
	return cmd
}

func newAdminApplicationsCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "applications",
		Short: "Review host applications",
	}

	var page usecase.Page
	list := &cobra.Command{
		Use:   "list",
		Short: "List applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			apps, err := a.Admin.ListHostApplications(cmd.Context(), page)
			if err != nil {
				return err
			}
			for _, appl := range apps {
				a.printf("%s  user=%s  %s\n", appl.ID, appl.UserID, appl.Status)
			}
			return nil
		},
	}
	pageFlags(list, &page)

	approve := &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			if err := a.Admin.ApproveHostApplication(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.printf("Approved %s\n", args[0])
			return nil
		},
	}

	var reason string
	reject := &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			if err := a.Admin.RejectHostApplication(cmd.Context(), args[0], reason); err != nil {
				return err
			}
			a.printf("Rejected %s\n", args[0])
			return nil
		},
	}
	reject.Flags().StringVar(&reason, "reason", "", "rejection reason")

	cmd.AddCommand(list, approve, reject)
	return cmd
}

func newAdminStatsCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			stats, err := a.Admin.DashboardStats(cmd.Context())
			if err != nil {
				return err
			}
			a.printf("Users:                %d\n", stats.TotalUsers)
			a.printf("Hosts:                %d\n", stats.TotalHosts)
			a.printf("Houses:               %d\n", stats.TotalHouses)
			a.printf("Active rentals:       %d\n", stats.ActiveRentals)
			a.printf("Pending applications: %d\n", stats.PendingApplications)
			return nil
		},
	}
}

package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/renthaven/renthaven/internal/api"
	"github.com/renthaven/renthaven/internal/core/domain"
	"github.com/renthaven/renthaven/internal/usecase"
)

func newHousesCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "houses",
		Short: "Browse and manage house listings",
	}
	cmd.AddCommand(
		newHousesListCommand(app),
		newHousesShowCommand(app),
		newHousesMineCommand(app),
		newHousesCreateCommand(app),
	)
	return cmd
}

func newHousesListCommand(app func() *App) *cobra.Command {
	var filter usecase.HouseFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List public houses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			houses, err := a.Listings.ListHouses(cmd.Context(), filter)
			if err != nil {
				return err
			}
			printHouses(a, houses)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "search title and address")
	cmd.Flags().Float64Var(&filter.MinPrice, "min-price", 0, "minimum price")
	cmd.Flags().Float64Var(&filter.MaxPrice, "max-price", 0, "maximum price")
	return cmd
}

func newHousesShowCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one house",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			house, err := a.Listings.GetHouse(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printf("%s\n", house.Title)
			a.printf("  Address: %s\n", house.Address)
			a.printf("  Price:   %.2f\n", house.Price)
			a.printf("  Area:    %.1f\n", house.Area)
			a.printf("  Status:  %s\n", house.Status)
			for _, url := range house.ImageURLs {
				a.printf("  Image:   %s\n", url)
			}
			return nil
		},
	}
}

func newHousesMineCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your own listings (host account)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			houses, err := a.Listings.MyHouses(cmd.Context())
			if err != nil {
				return err
			}
			printHouses(a, houses)
			return nil
		},
	}
}

func newHousesCreateCommand(app func() *App) *cobra.Command {
	var house domain.House

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a listing (host account)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			house.Title = args[0]

			created, err := a.Listings.CreateHouse(cmd.Context(), house)
			if err != nil {
				return err
			}
			a.printf("Created house %s\n", created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&house.Description, "description", "", "listing description")
	cmd.Flags().StringVar(&house.Address, "address", "", "house address")
	cmd.Flags().Float64Var(&house.Price, "price", 0, "monthly price")
	cmd.Flags().Float64Var(&house.Area, "area", 0, "area in square meters")
	cmd.Flags().StringSliceVar(&house.ImageURLs, "image-url", nil, "image URL (repeatable)")
	return cmd
}

func printHouses(a *App, houses []domain.House) {
	if len(houses) == 0 {
		a.printf("No houses found\n")
		return
	}
	for _, h := range houses {
		a.printf("%s  %-30s  %10.2f  %s\n", h.ID, h.Title, h.Price, h.Status)
	}
}

func newRentalsCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rentals",
		Short: "Book houses and list your rentals",
	}

	var rental domain.Rental
	request := &cobra.Command{
		Use:   "request <house-id>",
		Short: "Request to rent a house",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			rental.HouseID = args[0]

			created, err := a.Listings.RequestRental(cmd.Context(), rental)
			if err != nil {
				return err
			}
			a.printf("Rental %s requested (%s)\n", created.ID, created.Status)
			return nil
		},
	}
	request.Flags().StringVar(&rental.StartDate, "from", "", "start date (YYYY-MM-DD)")
	request.Flags().StringVar(&rental.EndDate, "to", "", "end date (YYYY-MM-DD)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List your rentals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			rentals, err := a.Listings.MyRentals(cmd.Context())
			if err != nil {
				return err
			}
			if len(rentals) == 0 {
				a.printf("No rentals\n")
				return nil
			}
			for _, r := range rentals {
				a.printf("%s  house=%s  %s..%s  %s\n", r.ID, r.HouseID, r.StartDate, r.EndDate, r.Status)
			}
			return nil
		},
	}

	cmd.AddCommand(request, list)
	return cmd
}

func newHostCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "host",
		Short: "Host tier application",
	}

	var reason string
	apply := &cobra.Command{
		Use:   "apply",
		Short: "Apply to become a host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			app, err := a.Listings.ApplyAsHost(cmd.Context(), reason)
			if err != nil {
				return err
			}
			a.printf("Application %s submitted (%s)\n", app.ID, app.Status)
			return nil
		},
	}
	apply.Flags().StringVar(&reason, "reason", "", "why you want to host")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show your host application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			app, err := a.Listings.MyHostApplication(cmd.Context())
			if err != nil {
				return err
			}
			a.printf("Application %s: %s\n", app.ID, app.Status)
			return nil
		},
	}

	cmd.AddCommand(apply, status)
	return cmd
}

func newUploadCommand(app func() *App) *cobra.Command {
	var avatar bool

	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload files to the backend",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx := cmd.Context()

			if avatar {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()

				url, err := a.Uploads.UploadAvatar(ctx, filepath.Base(args[0]), f)
				if err != nil {
					return err
				}
				a.printf("%s\n", url)
				return nil
			}

			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()

				url, err := a.Uploads.Upload(ctx, filepath.Base(args[0]), f)
				if err != nil {
					return err
				}
				a.printf("%s\n", url)
				return nil
			}

			parts := make([]api.FilePart, 0, len(args))
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()
				parts = append(parts, api.FilePart{
					Field:    "files",
					Filename: filepath.Base(path),
					Content:  f,
				})
			}

			urls, err := a.Uploads.UploadMultiple(ctx, parts)
			if err != nil {
				return err
			}
			for _, url := range urls {
				a.printf("%s\n", url)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&avatar, "avatar", false, "upload as the account avatar")
	return cmd
}

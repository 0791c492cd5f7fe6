package cli

import (
	"fmt"

	"FuelLog/Stats"
	"FuelLog/xerrors"

	"github.com/spf13/cobra"
)

func newAdminCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin views",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			snap, err := app.Session.Current()
			if err != nil {
				return err
			}
			if !snap.IsAdmin() {
				return fmt.Errorf("%w: admin session required", xerrors.ErrAuth)
			}
			return nil
		},
	}
	cmd.AddCommand(
		newAdminUsersCommand(app),
		newAdminDriverCommand(app),
	)
	return cmd
}

func newAdminUsersCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Client.FetchUsersViaAdmin(cmd.Context())
			if err != nil {
				return err
			}
			w := app.out()
			for _, user := range users {
				active := "active"
				if !user.IsActive {
					active = "inactive"
				}
				fmt.Fprintf(w, "%s  %s  %s  %s  %s\n", user.UserID, user.Name, user.MobileNumber, user.Role, active)
			}
			return nil
		},
	}
}

func newAdminDriverCommand(app *App) *cobra.Command {
	var driverName, exportPath string

	cmd := &cobra.Command{
		Use:   "driver <user-id>",
		Short: "Show one driver's trips, fill-ups and totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := Stats.FetchDriverDetails(cmd.Context(), app.Client, args[0])
			if err != nil {
				return err
			}

			w := app.out()
			if details.Partial {
				fmt.Fprintf(w, "Warning: %s\n", xerrors.ErrPartialFetch)
			}
			fmt.Fprintf(w, "Trips:          %d (%d completed, %d pending)\n",
				details.Stats.TotalTrips, details.Stats.CompletedTrips, details.Stats.PendingTrips)
			fmt.Fprintf(w, "Distance (km):  %.2f\n", details.Stats.DistanceCoveredKm)
			fmt.Fprintf(w, "Fuel records:   %d\n", details.Stats.FuelRecords)
			fmt.Fprintf(w, "Total liters:   %.2f\n", details.Stats.TotalLiters)
			fmt.Fprintf(w, "Fuel cost:      %.2f\n", details.Stats.TotalFuelCost)

			if exportPath != "" {
				if err := Stats.ExportWorkbook(details, driverName, exportPath); err != nil {
					return err
				}
				fmt.Fprintf(w, "Workbook written to %s\n", exportPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&driverName, "name", "", "driver name for the workbook summary")
	cmd.Flags().StringVar(&exportPath, "export", "", "write an xlsx workbook to this path")
	return cmd
}

package cli

import (
	"fmt"
	"regexp"

	"FuelLog/Api"
	"FuelLog/xerrors"

	"github.com/spf13/cobra"
)

// Local mobile numbers: 03 followed by nine digits.
var mobilePattern = regexp.MustCompile(`^03\d{9}$`)

func newLoginCommand(app *App) *cobra.Command {
	var mobile, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := app.Client.Login(cmd.Context(), mobile, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Logged in as %s (%s)\n", snap.Name, snap.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&mobile, "mobile", "", "mobile number (03 + 9 digits)")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.MarkFlagRequired("mobile")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Session.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(app.out(), "Logged out")
			return nil
		},
	}
}

func newProfileCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in user's profile and totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := app.Client.FetchProfile(cmd.Context())
			if err != nil {
				return err
			}
			if snap, snapErr := app.Session.Current(); snapErr == nil {
				if profile.DriverName == "" {
					profile.DriverName = snap.Name
				}
				if profile.MobileNumber == "" {
					profile.MobileNumber = snap.MobileNumber
				}
				if profile.Role == "" {
					profile.Role = snap.Role
				}
			}
			w := app.out()
			fmt.Fprintf(w, "Name:           %s\n", profile.DriverName)
			fmt.Fprintf(w, "Mobile:         %s\n", profile.MobileNumber)
			fmt.Fprintf(w, "Role:           %s\n", profile.Role)
			fmt.Fprintf(w, "Trips:          %d\n", profile.TotalTrips)
			fmt.Fprintf(w, "Fuel records:   %d\n", profile.FuelRecords)
			fmt.Fprintf(w, "Distance (km):  %.2f\n", profile.DistanceCoveredKm)
			fmt.Fprintf(w, "Fuel cost:      %.2f\n", profile.TotalFuelCost)
			return nil
		},
	}
}

func newSignupCommand(app *App) *cobra.Command {
	var name, mobile, password, role string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new account (admin session required)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !mobilePattern.MatchString(mobile) {
				return fmt.Errorf("%w: mobile number must be 03 followed by 9 digits", xerrors.ErrValidation)
			}
			if len(password) < 6 {
				return fmt.Errorf("%w: password must be at least 6 characters", xerrors.ErrValidation)
			}

			snap, err := app.Session.Current()
			if err != nil {
				return err
			}
			if !snap.IsAdmin() {
				return fmt.Errorf("%w: only admins can register accounts", xerrors.ErrAuth)
			}

			user, err := app.Client.Signup(cmd.Context(), Api.SignupRequest{
				Name:         name,
				MobileNumber: mobile,
				Password:     password,
				Role:         role,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Registered %s (%s)\n", user.Name, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&mobile, "mobile", "", "mobile number (03 + 9 digits)")
	cmd.Flags().StringVar(&password, "password", "", "password (min 6 characters)")
	cmd.Flags().StringVar(&role, "role", "user", "account role (user or admin)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("mobile")
	cmd.MarkFlagRequired("password")
	return cmd
}

package cli

import (
	"fmt"
	"io"
	"os"

	"FuelLog/Api"
	"FuelLog/Fuel"
	"FuelLog/Session"
	"FuelLog/Travel"
	"FuelLog/xerrors"

	"github.com/spf13/cobra"
)

// App bundles the wired services the commands operate on.
type App struct {
	Client  *Api.Client
	Session *Session.Store
	Travel  *Travel.Manager
	Fuel    *Fuel.Service
	Out     io.Writer
}

func (a *App) out() io.Writer {
	if a.Out != nil {
		return a.Out
	}
	return os.Stdout
}

// NewRootCommand builds the command tree.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "fuellog",
		Short:         "Field client for vehicle fuel purchases and driver travel logs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCommand(app),
		newLogoutCommand(app),
		newProfileCommand(app),
		newSignupCommand(app),
		newTravelCommand(app),
		newFuelCommand(app),
		newAdminCommand(app),
	)
	return root
}

// Execute runs the CLI and maps errors to a nonzero exit.
func Execute(app *App) {
	if err := NewRootCommand(app).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", xerrors.MessageOrDefault(err, "command failed"))
		os.Exit(1)
	}
}

package cli

import (
	"fmt"
	"io"
	"strings"

	"FuelLog/Constants"
	"FuelLog/Fuel"
	"FuelLog/Models"
	"FuelLog/xerrors"

	"github.com/spf13/cobra"
)

func newFuelCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fuel",
		Short: "Fuel purchase operations",
	}
	cmd.AddCommand(
		newFuelAddCommand(app),
		newFuelListCommand(app),
	)
	return cmd
}

func newFuelAddCommand(app *App) *cobra.Command {
	var form Fuel.SubmitForm

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Submit a fill-up with its three evidence photos",
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := app.Fuel.Submit(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Fuel record %s saved: %.2f L at %.2f = %.2f\n",
				record.RecordID, record.Liters, record.PricePerLiter, record.TotalAmount)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Vehicle, "vehicle", "", "vehicle plate ("+strings.Join(Constants.Vehicles, ", ")+")")
	cmd.Flags().StringVar(&form.Liters, "liters", "", "liters purchased")
	cmd.Flags().StringVar(&form.PricePerLiter, "price", "", "price per liter")
	cmd.Flags().StringVar(&form.PreMeter, "pre-meter", "", "odometer reading at the pump")
	cmd.Flags().StringVar(&form.PreMeterImage, "pre-meter-image", "", "odometer photo path")
	cmd.Flags().StringVar(&form.MachineMeterImage, "machine-meter-image", "", "pump display photo path")
	cmd.Flags().StringVar(&form.ReceiptImage, "receipt-image", "", "receipt photo path")
	cmd.MarkFlagRequired("vehicle")
	cmd.MarkFlagRequired("liters")
	cmd.MarkFlagRequired("price")
	cmd.MarkFlagRequired("pre-meter-image")
	cmd.MarkFlagRequired("machine-meter-image")
	cmd.MarkFlagRequired("receipt-image")
	return cmd
}

func newFuelListCommand(app *App) *cobra.Command {
	var vehicle, driver string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List fill-ups by vehicle or by driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				records []Models.FuelRecord
				err     error
			)
			switch {
			case vehicle != "":
				records, err = app.Fuel.HistoryByVehicle(cmd.Context(), vehicle)
			case driver != "":
				records, err = app.Fuel.HistoryByDriver(cmd.Context(), driver)
			default:
				return fmt.Errorf("%w: pass --vehicle or --driver", xerrors.ErrValidation)
			}
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(app.out(), "No fuel records")
				return nil
			}
			for _, record := range records {
				printFuelRecord(app.out(), record)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&vehicle, "vehicle", "", "list by vehicle plate")
	cmd.Flags().StringVar(&driver, "driver", "", "list by driver user id")
	return cmd
}

func printFuelRecord(w io.Writer, record Models.FuelRecord) {
	fmt.Fprintf(w, "%s  %s  %.2f L x %.2f = %.2f", record.RecordID, record.Vehicle,
		record.Liters, record.PricePerLiter, record.TotalAmount)
	if record.CreatedByName != "" {
		fmt.Fprintf(w, "  by %s", record.CreatedByName)
	}
	if record.Timestamp != "" {
		fmt.Fprintf(w, "  at %s", record.Timestamp)
	}
	fmt.Fprintln(w)
}

package cli

import (
	"fmt"
	"io"

	"FuelLog/Api"
	"FuelLog/Models"
	"FuelLog/Travel"
	"FuelLog/xerrors"

	"github.com/spf13/cobra"
)

func newTravelCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "travel",
		Short: "Travel log operations",
	}
	cmd.AddCommand(
		newTravelListCommand(app),
		newTravelShowCommand(app),
		newTravelStartCommand(app),
		newTravelCompleteCommand(app),
	)
	return cmd
}

func newTravelShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <trip-id>",
		Short: "Show one trip with its attached images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Travel.LoadTravelLogs(cmd.Context(), Travel.FilterAll)
			if err != nil {
				return err
			}
			var target *Models.TravelLogRecord
			for i := range result.Records {
				if result.Records[i].RecordID == args[0] {
					target = &result.Records[i]
					break
				}
			}
			if target == nil {
				return fmt.Errorf("%w: no trip with id %s", xerrors.ErrValidation, args[0])
			}

			w := app.out()
			printTravelRecord(w, *target)
			fmt.Fprintf(w, "Officer:   %s %s\n", target.Officer, target.OfficerDesignation)
			fmt.Fprintf(w, "Pre meter: %d\n", target.PreMeter)
			if target.IsCompleted() {
				fmt.Fprintf(w, "Post meter: %d\n", target.PostMeter)
				fmt.Fprintf(w, "Fuel left:  %d%%\n", target.FuelPercent)
			}
			if images := Api.CollectImages(target.Extra); len(images) > 0 {
				fmt.Fprintln(w, "Images:")
				for _, image := range images {
					fmt.Fprintf(w, "  %-12s %s\n", image.Label, image.URL)
				}
			}
			return nil
		},
	}
}

func newTravelListCommand(app *App) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trips, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Travel.LoadTravelLogs(cmd.Context(), Travel.Filter(filter))
			if err != nil {
				return err
			}
			w := app.out()
			if result.PartialFailure {
				fmt.Fprintf(w, "Warning: %s\n", xerrors.ErrPartialFetch)
			}
			if len(result.Records) == 0 {
				fmt.Fprintln(w, "No trips")
				return nil
			}
			for _, record := range result.Records {
				printTravelRecord(w, record)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", string(Travel.FilterAll), "all, pending or completed")
	return cmd
}

func printTravelRecord(w io.Writer, record Models.TravelLogRecord) {
	marker := " "
	if record.Placeholder {
		marker = "*"
	}
	fmt.Fprintf(w, "%s[%s] %s  %s  %s -> %s", marker, record.Status, record.RecordID, record.Vehicle, record.FromLocation, record.ToLocation)
	if record.IsCompleted() {
		fmt.Fprintf(w, "  %.2f km  completed %s\n", record.DistanceKm, record.CompletedAt)
	} else {
		fmt.Fprintf(w, "  started %s\n", record.StartedAt)
	}
}

func newTravelStartCommand(app *App) *cobra.Command {
	var form Travel.StartForm

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Open a new trip",
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := app.Travel.StartTravelLog(cmd.Context(), form)
			if err != nil {
				return err
			}
			if record.Placeholder {
				fmt.Fprintf(app.out(), "Trip saved locally as %s, awaiting server confirmation\n", record.RecordID)
				return nil
			}
			fmt.Fprintf(app.out(), "Trip %s started\n", record.RecordID)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Officer, "officer", "", "officer name")
	cmd.Flags().StringVar(&form.OfficerDesignation, "designation", "", "officer designation")
	cmd.Flags().StringVar(&form.Vehicle, "vehicle", "", "vehicle plate")
	cmd.Flags().StringVar(&form.From, "from", "", "origin")
	cmd.Flags().StringVar(&form.To, "to", "", "destination")
	cmd.Flags().StringVar(&form.PreMeter, "pre-meter", "", "odometer reading at departure")
	cmd.Flags().StringVar(&form.PreMeterImage, "pre-meter-image", "", "odometer photo path")
	cmd.MarkFlagRequired("officer")
	cmd.MarkFlagRequired("vehicle")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	cmd.MarkFlagRequired("pre-meter")
	cmd.MarkFlagRequired("pre-meter-image")
	return cmd
}

func newTravelCompleteCommand(app *App) *cobra.Command {
	var form Travel.CompletionForm

	cmd := &cobra.Command{
		Use:   "complete <trip-id>",
		Short: "Close a pending trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recordID := args[0]

			result, err := app.Travel.LoadTravelLogs(cmd.Context(), Travel.FilterPending)
			if err != nil {
				return err
			}
			var target *Models.TravelLogRecord
			for i := range result.Records {
				if result.Records[i].RecordID == recordID {
					target = &result.Records[i]
					break
				}
			}
			if target == nil {
				return fmt.Errorf("%w: no pending trip with id %s", xerrors.ErrValidation, recordID)
			}

			completed, err := app.Travel.CompleteTravelLog(cmd.Context(), *target, form)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out(), "Trip %s completed, distance %.2f km\n", completed.RecordID, completed.DistanceKm)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.PostMeter, "post-meter", "", "odometer reading at return")
	cmd.Flags().StringVar(&form.PostMeterImage, "post-meter-image", "", "odometer photo path")
	cmd.Flags().IntVar(&form.FuelPercent, "fuel-percent", 0, "remaining fuel percentage (0-100)")
	cmd.Flags().StringVar(&form.FuelMeterImage, "fuel-meter-image", "", "fuel gauge photo path")
	cmd.MarkFlagRequired("post-meter")
	cmd.MarkFlagRequired("post-meter-image")
	cmd.MarkFlagRequired("fuel-meter-image")
	return cmd
}

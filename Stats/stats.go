package Stats

import (
	"context"
	"fmt"
	"log"
	"sync"

	"FuelLog/Metrics"
	"FuelLog/Models"
	"FuelLog/xerrors"
)

// Fetcher is the slice of the API client the admin views need.
type Fetcher interface {
	FetchDriverTravelLogs(ctx context.Context, userID string) ([]Models.TravelLogRecord, error)
	FetchFuelRecordsByDriver(ctx context.Context, userID string) ([]Models.FuelRecord, error)
}

// DriverStats summarizes one driver's activity.
type DriverStats struct {
	TotalTrips        int
	CompletedTrips    int
	PendingTrips      int
	DistanceCoveredKm float64
	FuelRecords       int
	TotalLiters       float64
	TotalFuelCost     float64
}

// Aggregate folds trip and fuel collections into one summary. Distances and
// amounts are rounded once at the end, not per record.
func Aggregate(travel []Models.TravelLogRecord, fuel []Models.FuelRecord) DriverStats {
	stats := DriverStats{TotalTrips: len(travel), FuelRecords: len(fuel)}
	for _, record := range travel {
		if record.IsCompleted() {
			stats.CompletedTrips++
			stats.DistanceCoveredKm += record.DistanceKm
		} else {
			stats.PendingTrips++
		}
	}
	for _, record := range fuel {
		stats.TotalLiters += record.Liters
		stats.TotalFuelCost += record.TotalAmount
	}
	stats.DistanceCoveredKm = Metrics.Round2(stats.DistanceCoveredKm)
	stats.TotalLiters = Metrics.Round2(stats.TotalLiters)
	stats.TotalFuelCost = Metrics.Round2(stats.TotalFuelCost)
	return stats
}

// DriverDetails is the full admin view of one driver.
type DriverDetails struct {
	TravelLogs  []Models.TravelLogRecord
	FuelRecords []Models.FuelRecord
	Stats       DriverStats

	// Partial is set when one of the two fetches failed and the other's
	// records are shown alone.
	Partial bool
}

// FetchDriverDetails loads a driver's trips and fill-ups concurrently. Like
// the trip list, the two fetches fail independently.
func FetchDriverDetails(ctx context.Context, api Fetcher, userID string) (DriverDetails, error) {
	if userID == "" {
		return DriverDetails{}, fmt.Errorf("%w: user id is required", xerrors.ErrValidation)
	}

	var (
		wg                 sync.WaitGroup
		travel             []Models.TravelLogRecord
		fuel               []Models.FuelRecord
		travelErr, fuelErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		travel, travelErr = api.FetchDriverTravelLogs(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		fuel, fuelErr = api.FetchFuelRecordsByDriver(ctx, userID)
	}()
	wg.Wait()

	if travelErr != nil && fuelErr != nil {
		return DriverDetails{}, fmt.Errorf("%w; fuel fetch: %v", travelErr, fuelErr)
	}
	if travelErr != nil {
		log.Printf("Driver travel logs fetch failed: %v", travelErr)
	}
	if fuelErr != nil {
		log.Printf("Driver fuel records fetch failed: %v", fuelErr)
	}

	return DriverDetails{
		TravelLogs:  travel,
		FuelRecords: fuel,
		Stats:       Aggregate(travel, fuel),
		Partial:     travelErr != nil || fuelErr != nil,
	}, nil
}

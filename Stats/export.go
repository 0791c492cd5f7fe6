package Stats

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportWorkbook writes a driver's trips, fill-ups and summary to an xlsx
// file for office reporting.
func ExportWorkbook(details DriverDetails, driverName, path string) error {
	file := excelize.NewFile()
	defer file.Close()

	travelSheet := "Travel Logs"
	file.SetSheetName("Sheet1", travelSheet)
	travelHeaders := []string{"ID", "Status", "Officer", "Vehicle", "From", "To", "Pre Meter", "Post Meter", "Distance (km)", "Fuel %", "Started At", "Completed At"}
	for i, header := range travelHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(travelSheet, cell, header)
	}
	for i, record := range details.TravelLogs {
		row := i + 2
		values := []interface{}{
			record.RecordID, string(record.Status), record.Officer, record.Vehicle,
			record.FromLocation, record.ToLocation, record.PreMeter, record.PostMeter,
			record.DistanceKm, record.FuelPercent, record.StartedAt, record.CompletedAt,
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			file.SetCellValue(travelSheet, cell, value)
		}
	}

	fuelSheet := "Fuel Records"
	if _, err := file.NewSheet(fuelSheet); err != nil {
		return fmt.Errorf("failed to create fuel sheet: %w", err)
	}
	fuelHeaders := []string{"ID", "Vehicle", "Liters", "Price/Liter", "Total", "Pre Meter", "Timestamp"}
	for i, header := range fuelHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(fuelSheet, cell, header)
	}
	for i, record := range details.FuelRecords {
		row := i + 2
		values := []interface{}{
			record.RecordID, record.Vehicle, record.Liters, record.PricePerLiter,
			record.TotalAmount, record.PreMeter, record.Timestamp,
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			file.SetCellValue(fuelSheet, cell, value)
		}
	}

	summarySheet := "Summary"
	if _, err := file.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	summary := [][]interface{}{
		{"Driver", driverName},
		{"Total Trips", details.Stats.TotalTrips},
		{"Completed Trips", details.Stats.CompletedTrips},
		{"Pending Trips", details.Stats.PendingTrips},
		{"Distance Covered (km)", details.Stats.DistanceCoveredKm},
		{"Fuel Records", details.Stats.FuelRecords},
		{"Total Liters", details.Stats.TotalLiters},
		{"Total Fuel Cost", details.Stats.TotalFuelCost},
	}
	for i, pair := range summary {
		labelCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valueCell, _ := excelize.CoordinatesToCellName(2, i+1)
		file.SetCellValue(summarySheet, labelCell, pair[0])
		file.SetCellValue(summarySheet, valueCell, pair[1])
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

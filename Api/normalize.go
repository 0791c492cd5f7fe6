package Api

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"FuelLog/Metrics"
	"FuelLog/Models"

	"github.com/paulmach/orb"
	"gorm.io/datatypes"
)

// Remote record adapter: converts arbitrarily-shaped server rows into the
// canonical entity shapes, tolerating the field-name variation the different
// endpoint versions emit. Alias order matters and is fixed here.
var (
	distanceAliases     = []string{"distanceKm", "distanceKM", "DistanceKM", "distance"}
	fuelPercentAliases  = []string{"fuelPercent", "fuel"}
	preMeterImgAliases  = []string{"preMeterImg", "preMeterImage", "pre_odometer_image"}
	postMeterImgAliases = []string{"postMeterImg", "postMeterImage", "post_odometer_image"}
	fuelMeterImgAliases = []string{"fuelMeterImg", "fuelMeterImage"}
	startedAtAliases    = []string{"startedAt", "timestamp", "createdAt", "startTime"}
	completedAtAliases  = []string{"updatedAt", "completedAt", "endTime", "timestamp"}
)

// coerceNum reads the first present alias and coerces it to a number.
// Malformed values coerce to 0 rather than failing the row.
func coerceNum(row map[string]interface{}, keys ...string) float64 {
	for _, key := range keys {
		v, ok := row[key]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				return 0
			}
			return parsed
		default:
			return 0
		}
	}
	return 0
}

// strictNum returns the first alias whose value is an actual JSON number.
// Unlike coerceNum it never promotes strings; a server that sends "12" for a
// distance did not send a distance.
func strictNum(row map[string]interface{}, keys ...string) (float64, bool) {
	for _, key := range keys {
		if n, ok := row[key].(float64); ok {
			return n, true
		}
	}
	return 0, false
}

func strField(row map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := row[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// anyString renders a field that old rows store as free text and new rows as
// a number.
func anyString(row map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		switch v := row[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func passthrough(row map[string]interface{}) datatypes.JSON {
	raw, err := json.Marshal(row)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

// pointFromPair reads a [lat, lng] pair as sent in travel payloads.
func pointFromPair(v interface{}) *orb.Point {
	pair, ok := v.([]interface{})
	if !ok || len(pair) < 2 {
		return nil
	}
	lat, ok1 := pair[0].(float64)
	lng, ok2 := pair[1].(float64)
	if !ok1 || !ok2 {
		return nil
	}
	p := orb.Point{lng, lat}
	return &p
}

// NormalizeTravelRow maps one server travel row to the canonical record.
func NormalizeTravelRow(row map[string]interface{}) Models.TravelLogRecord {
	rec := Models.TravelLogRecord{
		RecordID:           strField(row, "_id", "id"),
		Officer:            strField(row, "officer", "driverName"),
		OfficerDesignation: strField(row, "officerDesignation", "designation"),
		Vehicle:            strField(row, "vehicle"),
		FromLocation:       strField(row, "travelFrom", "from"),
		ToLocation:         strField(row, "travelTo", "to"),
		PreMeterImg:        strField(row, preMeterImgAliases...),
		Extra:              passthrough(row),
	}
	if rec.RecordID == "" {
		rec.RecordID = Models.NewPlaceholderID()
		rec.Placeholder = true
	}

	pre := coerceNum(row, "preMeter", "pre_odometer")
	post := coerceNum(row, "postMeter", "post_odometer")
	rec.PreMeter = int(pre)

	var serverKm *float64
	if km, ok := strictNum(row, distanceAliases...); ok {
		serverKm = &km
	}
	rec.DistanceKm = Metrics.Distance(pre, post, serverKm)

	if pct, ok := strictNum(row, fuelPercentAliases...); ok {
		rec.FuelPercent = int(pct)
	}

	rec.StartedAt = strField(row, startedAtAliases...)
	if rec.StartedAt == "" {
		rec.StartedAt = time.Now().UTC().Format(time.RFC3339)
	}
	rec.StartCoordinates = pointFromPair(row["Coordinates"])

	if strings.ToLower(strField(row, "status")) == string(Models.TravelCompleted) {
		rec.Status = Models.TravelCompleted
		rec.PostMeter = int(post)
		rec.PostMeterImg = strField(row, postMeterImgAliases...)
		rec.FuelMeterImg = strField(row, fuelMeterImgAliases...)
		rec.CompletedAt = strField(row, completedAtAliases...)
	} else {
		rec.Status = Models.TravelPending
	}
	return rec
}

// ServerDistance extracts a server-reported distance from a preserved raw
// row, using the same alias order and strict number rule as normalization.
func ServerDistance(extra datatypes.JSON) (float64, bool) {
	if len(extra) == 0 {
		return 0, false
	}
	var row map[string]interface{}
	if err := json.Unmarshal(extra, &row); err != nil {
		return 0, false
	}
	return strictNum(row, distanceAliases...)
}

// NormalizeTravelRows maps and returns a whole collection.
func NormalizeTravelRows(rows []map[string]interface{}) []Models.TravelLogRecord {
	records := make([]Models.TravelLogRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, NormalizeTravelRow(row))
	}
	return records
}

// NormalizeFuelRow maps one server fuel row to the canonical record. Fuel
// records have no lifecycle; only numeric coercion and image aliasing apply.
func NormalizeFuelRow(row map[string]interface{}) Models.FuelRecord {
	rec := Models.FuelRecord{
		RecordID:      strField(row, "_id", "id"),
		Vehicle:       strField(row, "vehicle"),
		Liters:        coerceNum(row, "liters"),
		PricePerLiter: coerceNum(row, "pricePerLiter"),
		TotalAmount:   coerceNum(row, "totalAmount"),
		PreMeter:      anyString(row, "preMeter"),
		Timestamp:     strField(row, "timestamp", "createdAt"),
		Extra:         passthrough(row),
	}
	if rec.RecordID == "" {
		rec.RecordID = Models.NewPlaceholderID()
		rec.Placeholder = true
	}
	if rec.TotalAmount == 0 && rec.Liters > 0 && rec.PricePerLiter > 0 {
		rec.TotalAmount = Metrics.TotalAmount(rec.Liters, rec.PricePerLiter)
	}

	images, _ := row["images"].(map[string]interface{})
	if images == nil {
		images = row
	}
	rec.Images = Models.FuelImages{
		PreMeterImg:     strField(images, "preMeterImg"),
		MachineMeterImg: strField(images, "machineMeterImg"),
		ReceiptImg:      strField(images, "receiptImg"),
	}
	if rec.Images.PreMeterImg == "" {
		rec.Images.PreMeterImg = strField(row, "preMeterImg")
	}
	if rec.Images.MachineMeterImg == "" {
		rec.Images.MachineMeterImg = strField(row, "machineMeterImg")
	}
	if rec.Images.ReceiptImg == "" {
		rec.Images.ReceiptImg = strField(row, "receiptImg")
	}

	// location is GeoJSON-style: {coordinates: [lng, lat]}.
	if loc, ok := row["location"].(map[string]interface{}); ok {
		if coords, ok := loc["coordinates"].([]interface{}); ok && len(coords) >= 2 {
			lng, ok1 := coords[0].(float64)
			lat, ok2 := coords[1].(float64)
			if ok1 && ok2 {
				p := orb.Point{lng, lat}
				rec.Location = &p
			}
		}
	}

	if createdBy, ok := row["createdBy"].(map[string]interface{}); ok {
		rec.CreatedByName = strField(createdBy, "name")
		rec.CreatedByRole = strField(createdBy, "role")
	}
	return rec
}

// NormalizeFuelRows maps and returns a whole collection.
func NormalizeFuelRows(rows []map[string]interface{}) []Models.FuelRecord {
	records := make([]Models.FuelRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, NormalizeFuelRow(row))
	}
	return records
}

// NormalizeUserRow maps one admin user-list row.
func NormalizeUserRow(row map[string]interface{}) Models.UserAccount {
	user := Models.UserAccount{
		UserID:       strField(row, "userId", "_id"),
		Name:         strField(row, "name"),
		MobileNumber: strField(row, "mobileNumber"),
		Role:         strings.ToLower(strField(row, "role")),
		CreatedAt:    strField(row, "createdAt"),
	}
	if user.Name == "" {
		user.Name = "Unknown"
	}
	if user.Role == "" {
		user.Role = "user"
	}
	if active, ok := row["isActive"].(bool); ok {
		user.IsActive = active
	}
	return user
}

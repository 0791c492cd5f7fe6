package Api

import (
	"encoding/json"
	"strings"
	"testing"

	"FuelLog/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func travelRow(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var row map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &row))
	return row
}

func TestNormalizeTravelRowStringDistanceIsIgnored(t *testing.T) {
	row := travelRow(t, `{"_id":"t1","preMeter":100,"postMeter":150,"distanceKm":"12","status":"completed"}`)
	rec := NormalizeTravelRow(row)

	// "12" is not a number; the odometer delta wins.
	assert.Equal(t, 50.0, rec.DistanceKm)
}

func TestNormalizeTravelRowNumericDistanceWins(t *testing.T) {
	row := travelRow(t, `{"_id":"t1","preMeter":100,"postMeter":150,"distanceKM":42.5,"status":"completed"}`)
	rec := NormalizeTravelRow(row)
	assert.Equal(t, 42.5, rec.DistanceKm)
}

func TestNormalizeTravelRowDistanceAliasOrder(t *testing.T) {
	row := travelRow(t, `{"_id":"t1","distanceKm":10,"distance":99,"status":"completed"}`)
	rec := NormalizeTravelRow(row)
	assert.Equal(t, 10.0, rec.DistanceKm)
}

func TestNormalizeTravelRowStringOdometersCoerce(t *testing.T) {
	row := travelRow(t, `{"_id":"t1","preMeter":"100","postMeter":"150","status":"completed"}`)
	rec := NormalizeTravelRow(row)

	assert.Equal(t, 100, rec.PreMeter)
	assert.Equal(t, 150, rec.PostMeter)
	assert.Equal(t, 50.0, rec.DistanceKm)
}

func TestNormalizeTravelRowMalformedNumberCoercesToZero(t *testing.T) {
	row := travelRow(t, `{"_id":"t1","preMeter":"abc","postMeter":150,"status":"completed"}`)
	rec := NormalizeTravelRow(row)
	assert.Equal(t, 0, rec.PreMeter)
	assert.Equal(t, 150.0, rec.DistanceKm)
}

func TestNormalizeTravelRowMissingIDGetsPlaceholder(t *testing.T) {
	rec := NormalizeTravelRow(travelRow(t, `{"officer":"Ali"}`))

	assert.True(t, rec.Placeholder)
	assert.True(t, strings.HasPrefix(rec.RecordID, "srv_"))
}

func TestNormalizeTravelRowStatusCaseInsensitive(t *testing.T) {
	rec := NormalizeTravelRow(travelRow(t, `{"_id":"t1","status":"Completed"}`))
	assert.Equal(t, Models.TravelCompleted, rec.Status)

	rec = NormalizeTravelRow(travelRow(t, `{"_id":"t2","status":"in-progress"}`))
	assert.Equal(t, Models.TravelPending, rec.Status)
}

func TestNormalizeTravelRowPendingSkipsPostFields(t *testing.T) {
	row := travelRow(t, `{"_id":"t1","postMeter":150,"postMeterImg":"http://x/p.jpg","updatedAt":"2026-01-02"}`)
	rec := NormalizeTravelRow(row)

	assert.Equal(t, Models.TravelPending, rec.Status)
	assert.Zero(t, rec.PostMeter)
	assert.Empty(t, rec.PostMeterImg)
	assert.Empty(t, rec.CompletedAt)
}

func TestNormalizeTravelRowImageAliases(t *testing.T) {
	row := travelRow(t, `{"_id":"t1","status":"completed","pre_odometer_image":"http://x/pre.jpg","postMeterImage":"http://x/post.jpg","fuelMeterImage":"http://x/fuel.jpg"}`)
	rec := NormalizeTravelRow(row)

	assert.Equal(t, "http://x/pre.jpg", rec.PreMeterImg)
	assert.Equal(t, "http://x/post.jpg", rec.PostMeterImg)
	assert.Equal(t, "http://x/fuel.jpg", rec.FuelMeterImg)
}

func TestNormalizeTravelRowFuelPercentStrict(t *testing.T) {
	rec := NormalizeTravelRow(travelRow(t, `{"_id":"t1","fuel":75}`))
	assert.Equal(t, 75, rec.FuelPercent)

	rec = NormalizeTravelRow(travelRow(t, `{"_id":"t2","fuelPercent":"75"}`))
	assert.Zero(t, rec.FuelPercent)
}

func TestNormalizeTravelRowDefaultsStartedAt(t *testing.T) {
	rec := NormalizeTravelRow(travelRow(t, `{"_id":"t1"}`))
	assert.NotEmpty(t, rec.StartedAt)
}

func renormalize(t *testing.T, rec Models.TravelLogRecord) Models.TravelLogRecord {
	t.Helper()
	encoded, err := json.Marshal(rec)
	require.NoError(t, err)
	var row map[string]interface{}
	require.NoError(t, json.Unmarshal(encoded, &row))
	return NormalizeTravelRow(row)
}

func TestNormalizeTravelRowIsIdempotent(t *testing.T) {
	rows := []string{
		`{"_id":"t1","preMeter":100,"timestamp":"2026-03-01T08:00:00Z","status":"pending"}`,
		`{"_id":"t2","preMeter":100,"postMeter":150,"createdAt":"2026-03-01T08:00:00Z","updatedAt":"2026-03-02T09:00:00Z","fuel":60,"status":"completed"}`,
	}
	for _, raw := range rows {
		first := NormalizeTravelRow(travelRow(t, raw))
		second := renormalize(t, first)

		// The passthrough bag reflects whichever row was adapted; everything
		// canonical must survive a second pass unchanged.
		first.Extra, second.Extra = nil, nil
		assert.Equal(t, first, second)
	}
}

func TestNormalizeTravelRowServerDistance(t *testing.T) {
	rec := NormalizeTravelRow(travelRow(t, `{"_id":"t1","distance":31.5,"status":"completed"}`))
	km, ok := ServerDistance(rec.Extra)
	assert.True(t, ok)
	assert.Equal(t, 31.5, km)

	rec = NormalizeTravelRow(travelRow(t, `{"_id":"t2","distanceKm":"31.5"}`))
	_, ok = ServerDistance(rec.Extra)
	assert.False(t, ok)
}

func TestNormalizeFuelRowComputesMissingTotal(t *testing.T) {
	row := travelRow(t, `{"_id":"f1","liters":45.5,"pricePerLiter":3.75}`)
	rec := NormalizeFuelRow(row)
	assert.Equal(t, 170.63, rec.TotalAmount)
}

func TestNormalizeFuelRowServerTotalWins(t *testing.T) {
	row := travelRow(t, `{"_id":"f1","liters":45.5,"pricePerLiter":3.75,"totalAmount":171}`)
	rec := NormalizeFuelRow(row)
	assert.Equal(t, 171.0, rec.TotalAmount)
}

func TestNormalizeFuelRowNestedAndFlatImages(t *testing.T) {
	row := travelRow(t, `{"_id":"f1","images":{"preMeterImg":"http://x/a.jpg"},"machineMeterImg":"http://x/b.jpg"}`)
	rec := NormalizeFuelRow(row)

	assert.Equal(t, "http://x/a.jpg", rec.Images.PreMeterImg)
	assert.Equal(t, "http://x/b.jpg", rec.Images.MachineMeterImg)
}

func TestNormalizeFuelRowLocationIsLngLat(t *testing.T) {
	row := travelRow(t, `{"_id":"f1","location":{"coordinates":[73.08,33.59]}}`)
	rec := NormalizeFuelRow(row)

	require.NotNil(t, rec.Location)
	assert.Equal(t, 73.08, rec.Location.Lon())
	assert.Equal(t, 33.59, rec.Location.Lat())
}

func TestNormalizeUserRowDefaults(t *testing.T) {
	user := NormalizeUserRow(travelRow(t, `{"_id":"u1","role":"Admin"}`))

	assert.Equal(t, "u1", user.UserID)
	assert.Equal(t, "Unknown", user.Name)
	assert.Equal(t, "admin", user.Role)
	assert.False(t, user.IsActive)
}

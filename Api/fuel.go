package Api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"FuelLog/Constants"
	"FuelLog/Models"
)

// CreateFuelRequest submits one fill-up with its three evidence photos.
type CreateFuelRequest struct {
	Vehicle       string            `json:"vehicle"`
	Liters        float64           `json:"liters"`
	PricePerLiter float64           `json:"pricePerLiter"`
	TotalAmount   float64           `json:"totalAmount"`
	PreMeter      string            `json:"preMeter"`
	Images        Models.FuelImages `json:"images"`
	Coordinates   []float64         `json:"Coordinates,omitempty"`
	Timestamp     string            `json:"timestamp"`
}

// CreateFuelRecord posts a new fuel purchase and returns the server's row
// when the response contains one.
func (c *Client) CreateFuelRecord(ctx context.Context, req CreateFuelRequest) (Models.FuelRecord, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/fuel/create-fuel-records", nil, req, true, &raw); err != nil {
		return Models.FuelRecord{}, err
	}
	rows := decodeRows(raw)
	if len(rows) == 0 {
		return Models.FuelRecord{}, nil
	}
	return NormalizeFuelRow(rows[0]), nil
}

// FetchFuelRecordsByVehicle lists fill-ups of one vehicle (admin view).
func (c *Client) FetchFuelRecordsByVehicle(ctx context.Context, vehicle string) ([]Models.FuelRecord, error) {
	query := url.Values{}
	query.Set("vehicle", vehicle)

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/fuel/fuel-records", query, nil, true, &raw); err != nil {
		return nil, err
	}
	return NormalizeFuelRows(decodeRows(raw)), nil
}

// FetchFuelRecordsByDriver lists one driver's fill-ups.
func (c *Client) FetchFuelRecordsByDriver(ctx context.Context, userID string) ([]Models.FuelRecord, error) {
	query := url.Values{}
	query.Set("perPage", strconv.Itoa(Constants.PerPage))
	query.Set("pageNo", "1")

	path := "/fuel/fuel-record/driver/" + url.PathEscape(userID)
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, query, nil, true, &raw); err != nil {
		return nil, err
	}
	return NormalizeFuelRows(decodeRows(raw)), nil
}

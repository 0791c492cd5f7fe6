package Api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"FuelLog/Constants"
	"FuelLog/Models"
)

// FetchPendingTravelLogs lists the driver's pending trips. The endpoint
// requires the userId in the query.
func (c *Client) FetchPendingTravelLogs(ctx context.Context, userID string) ([]Models.TravelLogRecord, error) {
	query := url.Values{}
	query.Set("userId", userID)
	query.Set("vehicle", "")
	query.Set("perPage", strconv.Itoa(Constants.PerPage))
	query.Set("pageNo", "1")

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/travel/travel-logs/pending", query, nil, true, &raw); err != nil {
		return nil, err
	}
	return NormalizeTravelRows(decodeRows(raw)), nil
}

// FetchCompletedTravelLogs lists the driver's completed trips, resolved by
// token (no userId in the URL). Older endpoint versions omit the status field
// on these rows, so it is defaulted before normalization.
func (c *Client) FetchCompletedTravelLogs(ctx context.Context) ([]Models.TravelLogRecord, error) {
	query := url.Values{}
	query.Set("perPage", strconv.Itoa(Constants.PerPage))
	query.Set("pageNo", "1")

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/travel/travel-logs/driver/completed", query, nil, true, &raw); err != nil {
		return nil, err
	}
	rows := decodeRows(raw)
	for _, row := range rows {
		if _, ok := row["status"]; !ok {
			row["status"] = string(Models.TravelCompleted)
		}
	}
	return NormalizeTravelRows(rows), nil
}

// FetchDriverTravelLogs lists every trip of one driver (admin view).
func (c *Client) FetchDriverTravelLogs(ctx context.Context, userID string) ([]Models.TravelLogRecord, error) {
	query := url.Values{}
	query.Set("perPage", strconv.Itoa(Constants.PerPage))
	query.Set("pageNo", "1")

	path := "/travel/all-travel-logs/driver/" + url.PathEscape(userID)
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, query, nil, true, &raw); err != nil {
		return nil, err
	}
	return NormalizeTravelRows(decodeRows(raw)), nil
}

// StartTravelRequest opens a new trip. Alias fields mirror the server's
// accepted variants.
type StartTravelRequest struct {
	Officer            string    `json:"officer"`
	OfficerDesignation string    `json:"officerDesignation,omitempty"`
	Vehicle            string    `json:"vehicle"`
	TravelFrom         string    `json:"travelFrom"`
	TravelTo           string    `json:"travelTo"`
	PreMeter           int       `json:"preMeter"`
	PreMeterImg        string    `json:"preMeterImg"`
	PreMeterImage      string    `json:"preMeterImage,omitempty"`
	Coordinates        []float64 `json:"Coordinates,omitempty"`
}

// StartTravelLog submits a new pending trip and returns the server's row
// when the response contains one.
func (c *Client) StartTravelLog(ctx context.Context, req StartTravelRequest) (Models.TravelLogRecord, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/travel/travel-logs", nil, req, true, &raw); err != nil {
		return Models.TravelLogRecord{}, err
	}
	rows := decodeRows(raw)
	if len(rows) == 0 {
		return Models.TravelLogRecord{}, nil
	}
	return NormalizeTravelRow(rows[0]), nil
}

// CompleteTravelRequest closes a pending trip. Every field is sent under both
// names the server versions accept.
type CompleteTravelRequest struct {
	PostMeter      int       `json:"postMeter"`
	PostOdometer   int       `json:"post_odometer"`
	PostMeterImg   string    `json:"postMeterImg"`
	PostMeterImage string    `json:"postMeterImage"`
	FuelPercent    int       `json:"fuelPercent"`
	Fuel           int       `json:"fuel"`
	FuelMeterImg   string    `json:"fuelMeterImg"`
	FuelMeterImage string    `json:"fuelMeterImage"`
	Coordinates    []float64 `json:"Coordinates,omitempty"`
}

// CompleteTravelLog issues the pending→completed transition. The returned
// record is zero-valued when the server acknowledged without echoing a row.
func (c *Client) CompleteTravelLog(ctx context.Context, recordID string, req CompleteTravelRequest) (Models.TravelLogRecord, error) {
	if recordID == "" {
		return Models.TravelLogRecord{}, fmt.Errorf("travel log id is required")
	}

	path := "/travel/travel-logs/" + url.PathEscape(recordID) + "/complete"
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPatch, path, nil, req, true, &raw); err != nil {
		return Models.TravelLogRecord{}, err
	}
	rows := decodeRows(raw)
	if len(rows) == 0 {
		return Models.TravelLogRecord{}, nil
	}
	row := rows[0]
	if _, ok := row["status"]; !ok {
		row["status"] = string(Models.TravelCompleted)
	}
	return NormalizeTravelRow(row), nil
}

package Models

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/paulmach/orb"
	"gorm.io/datatypes"
)

type TravelStatus string

const (
	TravelPending   TravelStatus = "pending"
	TravelCompleted TravelStatus = "completed"
)

// TravelLogRecord is the canonical shape of a single trip, regardless of
// which endpoint (or endpoint version) produced the row.
type TravelLogRecord struct {
	RecordID string `json:"id"`

	// Placeholder is set when the server row carried no id. Such a record is
	// display-only and never merged with a later authoritative row.
	Placeholder bool `json:"placeholder,omitempty"`

	Status TravelStatus `json:"status"`

	// Pre-trip fields, immutable after creation.
	Officer            string     `json:"officer"`
	OfficerDesignation string     `json:"officerDesignation,omitempty"`
	Vehicle            string     `json:"vehicle,omitempty"`
	FromLocation       string     `json:"travelFrom"`
	ToLocation         string     `json:"travelTo"`
	PreMeter           int        `json:"preMeter"`
	PreMeterImg        string     `json:"preMeterImg,omitempty"`
	StartCoordinates   *orb.Point `json:"startCoordinates,omitempty"`
	StartedAt          string     `json:"startedAt"`

	// Post-trip fields, set exactly once at completion.
	PostMeter    int    `json:"postMeter,omitempty"`
	PostMeterImg string `json:"postMeterImg,omitempty"`
	FuelPercent  int    `json:"fuelPercent"`
	FuelMeterImg string `json:"fuelMeterImg,omitempty"`
	CompletedAt  string `json:"completedAt,omitempty"`

	// DistanceKm is the server-reported distance when one was present, the
	// odometer delta otherwise.
	DistanceKm float64 `json:"distanceKm"`

	// Extra preserves the raw server row for downstream display (image
	// gallery extraction); it never feeds the canonical fields above.
	Extra datatypes.JSON `json:"extra,omitempty"`
}

func (r TravelLogRecord) IsCompleted() bool {
	return r.Status == TravelCompleted
}

// SortKey is the timestamp a merged list orders by: completion time when the
// trip is done, start time otherwise.
func (r TravelLogRecord) SortKey() string {
	if r.CompletedAt != "" {
		return r.CompletedAt
	}
	return r.StartedAt
}

// NewPlaceholderID synthesizes a client-local identity for a row the server
// sent without one.
func NewPlaceholderID() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("srv_%p", &buf)
	}
	return "srv_" + hex.EncodeToString(buf)
}

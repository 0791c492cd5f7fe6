package Models

import (
	"github.com/paulmach/orb"
	"gorm.io/datatypes"
)

// FuelImages holds the three evidence photos of a fill-up.
type FuelImages struct {
	PreMeterImg     string `json:"preMeterImg,omitempty"`
	MachineMeterImg string `json:"machineMeterImg,omitempty"`
	ReceiptImg      string `json:"receiptImg,omitempty"`
}

// FuelRecord is the canonical shape of a single fuel purchase.
type FuelRecord struct {
	RecordID    string `json:"id"`
	Placeholder bool   `json:"placeholder,omitempty"`

	Vehicle       string  `json:"vehicle"`
	Liters        float64 `json:"liters"`
	PricePerLiter float64 `json:"pricePerLiter"`

	// TotalAmount = liters * pricePerLiter rounded to 2 decimals; a
	// server-recomputed value replaces the client one on fetch.
	TotalAmount float64 `json:"totalAmount"`

	// PreMeter is kept as the server sends it (free text on old rows).
	PreMeter string `json:"preMeter,omitempty"`

	Images FuelImages `json:"images"`

	Timestamp string `json:"timestamp,omitempty"`

	// Location is GeoJSON-ordered: lng first, lat second.
	Location *orb.Point `json:"location,omitempty"`

	CreatedByName string `json:"createdByName,omitempty"`
	CreatedByRole string `json:"createdByRole,omitempty"`

	Extra datatypes.JSON `json:"extra,omitempty"`
}

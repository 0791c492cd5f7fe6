package Fuel

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"FuelLog/Api"
	"FuelLog/Constants"
	"FuelLog/Metrics"
	"FuelLog/Models"
	"FuelLog/Validation"
	"FuelLog/location"
	"FuelLog/xerrors"
)

// Submitter is the slice of the API client fuel submission needs.
type Submitter interface {
	CreateFuelRecord(ctx context.Context, req Api.CreateFuelRequest) (Models.FuelRecord, error)
	FetchFuelRecordsByVehicle(ctx context.Context, vehicle string) ([]Models.FuelRecord, error)
	FetchFuelRecordsByDriver(ctx context.Context, userID string) ([]Models.FuelRecord, error)
}

// Uploader relays a local image and returns its durable URL.
type Uploader interface {
	UploadImage(ctx context.Context, localImage string) (string, error)
}

// Service drives fuel purchase submission and history listing.
type Service struct {
	api             Submitter
	uploads         Uploader
	locations       location.Provider
	checker         *Validation.Checker
	locationTimeout time.Duration
}

func NewService(api Submitter, uploads Uploader, locations location.Provider, locationTimeout time.Duration) *Service {
	return &Service{
		api:             api,
		uploads:         uploads,
		locations:       locations,
		checker:         Validation.New(),
		locationTimeout: locationTimeout,
	}
}

// SubmitForm is the operator input for one fill-up. Numeric fields arrive as
// text straight from the input fields.
type SubmitForm struct {
	Vehicle           string `validate:"required"`
	Liters            string `validate:"required"`
	PricePerLiter     string `validate:"required"`
	PreMeter          string
	PreMeterImage     string `validate:"required"`
	MachineMeterImage string `validate:"required"`
	ReceiptImage      string `validate:"required"`
}

// Submit validates the form, uploads the three evidence photos sequentially
// and posts the purchase. The total is computed client-side; the server may
// recompute it on fetch.
func (s *Service) Submit(ctx context.Context, form SubmitForm) (Models.FuelRecord, error) {
	if err := s.checker.Struct(form); err != nil {
		return Models.FuelRecord{}, err
	}
	if !Constants.KnownVehicle(form.Vehicle) {
		return Models.FuelRecord{}, fmt.Errorf("%w: unknown vehicle %q", xerrors.ErrValidation, form.Vehicle)
	}

	liters, err := strconv.ParseFloat(strings.TrimSpace(form.Liters), 64)
	if err != nil || liters <= 0 {
		return Models.FuelRecord{}, fmt.Errorf("%w: liters must be a positive number", xerrors.ErrValidation)
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(form.PricePerLiter), 64)
	if err != nil || price <= 0 {
		return Models.FuelRecord{}, fmt.Errorf("%w: price per liter must be a positive number", xerrors.ErrValidation)
	}

	preURL, err := s.uploads.UploadImage(ctx, form.PreMeterImage)
	if err != nil {
		return Models.FuelRecord{}, err
	}
	machineURL, err := s.uploads.UploadImage(ctx, form.MachineMeterImage)
	if err != nil {
		return Models.FuelRecord{}, err
	}
	receiptURL, err := s.uploads.UploadImage(ctx, form.ReceiptImage)
	if err != nil {
		return Models.FuelRecord{}, err
	}

	point := location.BestEffort(ctx, s.locations, s.locationTimeout)
	req := Api.CreateFuelRequest{
		Vehicle:       form.Vehicle,
		Liters:        liters,
		PricePerLiter: price,
		TotalAmount:   Metrics.TotalAmount(liters, price),
		PreMeter:      strings.TrimSpace(form.PreMeter),
		Images: Models.FuelImages{
			PreMeterImg:     preURL,
			MachineMeterImg: machineURL,
			ReceiptImg:      receiptURL,
		},
		Coordinates: location.PayloadPair(point),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}

	record, err := s.api.CreateFuelRecord(ctx, req)
	if err != nil {
		return Models.FuelRecord{}, err
	}
	if record.RecordID == "" || record.Placeholder {
		// Server acknowledged without echoing a row; reflect what was sent.
		return Models.FuelRecord{
			RecordID:      Models.NewPlaceholderID(),
			Placeholder:   true,
			Vehicle:       req.Vehicle,
			Liters:        req.Liters,
			PricePerLiter: req.PricePerLiter,
			TotalAmount:   req.TotalAmount,
			PreMeter:      req.PreMeter,
			Images:        req.Images,
			Timestamp:     req.Timestamp,
		}, nil
	}
	return record, nil
}

// HistoryByVehicle lists fill-ups of one vehicle (admin view).
func (s *Service) HistoryByVehicle(ctx context.Context, vehicle string) ([]Models.FuelRecord, error) {
	if vehicle == "" {
		return nil, fmt.Errorf("%w: vehicle is required", xerrors.ErrValidation)
	}
	return s.api.FetchFuelRecordsByVehicle(ctx, vehicle)
}

// HistoryByDriver lists one driver's fill-ups.
func (s *Service) HistoryByDriver(ctx context.Context, userID string) ([]Models.FuelRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", xerrors.ErrValidation)
	}
	return s.api.FetchFuelRecordsByDriver(ctx, userID)
}

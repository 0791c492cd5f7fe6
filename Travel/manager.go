package Travel

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"FuelLog/Api"
	"FuelLog/Metrics"
	"FuelLog/Models"
	"FuelLog/Session"
	"FuelLog/Validation"
	"FuelLog/location"
	"FuelLog/xerrors"
)

// Fetcher is the slice of the API client the travel lifecycle needs.
type Fetcher interface {
	FetchPendingTravelLogs(ctx context.Context, userID string) ([]Models.TravelLogRecord, error)
	FetchCompletedTravelLogs(ctx context.Context) ([]Models.TravelLogRecord, error)
	StartTravelLog(ctx context.Context, req Api.StartTravelRequest) (Models.TravelLogRecord, error)
	CompleteTravelLog(ctx context.Context, recordID string, req Api.CompleteTravelRequest) (Models.TravelLogRecord, error)
}

// Uploader relays a local image and returns its durable URL.
type Uploader interface {
	UploadImage(ctx context.Context, localImage string) (string, error)
}

type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// LoadResult carries the merged trip list plus a flag telling the caller that
// one of the two fetches failed and the list is incomplete.
type LoadResult struct {
	Records        []Models.TravelLogRecord
	PartialFailure bool
}

// Manager drives the travel-log lifecycle: listing pending and completed
// trips, opening new ones, and the one-way pending→completed transition.
type Manager struct {
	api             Fetcher
	uploads         Uploader
	locations       location.Provider
	session         *Session.Store
	drafts          *DraftStore
	checker         *Validation.Checker
	locationTimeout time.Duration
}

func NewManager(api Fetcher, uploads Uploader, locations location.Provider, session *Session.Store, drafts *DraftStore, locationTimeout time.Duration) *Manager {
	return &Manager{
		api:             api,
		uploads:         uploads,
		locations:       locations,
		session:         session,
		drafts:          drafts,
		checker:         Validation.New(),
		locationTimeout: locationTimeout,
	}
}

// LoadTravelLogs fetches the pending and completed collections concurrently.
// The two fetches fail independently: one failing still yields the other's
// records with PartialFailure set; both failing is an error. Unconfirmed
// local drafts join the pending collection.
func (m *Manager) LoadTravelLogs(ctx context.Context, filter Filter) (LoadResult, error) {
	snap, err := m.session.Current()
	if err != nil {
		return LoadResult{}, err
	}

	var (
		wg                 sync.WaitGroup
		pending, completed []Models.TravelLogRecord
		pendErr, compErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		pending, pendErr = m.api.FetchPendingTravelLogs(ctx, snap.UserID)
	}()
	go func() {
		defer wg.Done()
		completed, compErr = m.api.FetchCompletedTravelLogs(ctx)
	}()
	wg.Wait()

	if pendErr != nil && compErr != nil {
		if errAuthLike(pendErr) {
			return LoadResult{}, pendErr
		}
		if errAuthLike(compErr) {
			return LoadResult{}, compErr
		}
		return LoadResult{}, fmt.Errorf("%w; completed fetch: %v", pendErr, compErr)
	}
	if pendErr != nil {
		log.Printf("Pending travel logs fetch failed: %v", pendErr)
	}
	if compErr != nil {
		log.Printf("Completed travel logs fetch failed: %v", compErr)
	}

	if m.drafts != nil && pendErr == nil {
		drafts, draftErr := m.drafts.Pending()
		if draftErr != nil {
			log.Printf("Travel drafts unavailable: %v", draftErr)
		} else {
			pending = append(pending, drafts...)
		}
	}

	sortDescBy(pending, func(r Models.TravelLogRecord) string { return r.StartedAt })
	sortDescBy(completed, func(r Models.TravelLogRecord) string { return r.SortKey() })

	result := LoadResult{PartialFailure: pendErr != nil || compErr != nil}
	switch filter {
	case FilterPending:
		result.Records = pending
	case FilterCompleted:
		result.Records = completed
	default:
		merged := make([]Models.TravelLogRecord, 0, len(pending)+len(completed))
		merged = append(merged, pending...)
		merged = append(merged, completed...)
		sortDescBy(merged, func(r Models.TravelLogRecord) string { return r.SortKey() })
		result.Records = merged
	}
	return result, nil
}

// StartForm is the operator input for opening a trip. The odometer arrives as
// text straight from the input field.
type StartForm struct {
	Officer            string `validate:"required"`
	OfficerDesignation string
	Vehicle            string `validate:"required"`
	From               string `validate:"required"`
	To                 string `validate:"required"`
	PreMeter           string `validate:"required"`
	PreMeterImage      string `validate:"required"`
}

// StartTravelLog validates the form, saves a local draft, uploads the
// odometer photo and submits the new trip. The draft survives a failed
// submission and is confirmed once the server accepts.
func (m *Manager) StartTravelLog(ctx context.Context, form StartForm) (Models.TravelLogRecord, error) {
	if err := m.checker.Struct(form); err != nil {
		return Models.TravelLogRecord{}, err
	}

	preMeter, err := strconv.Atoi(strings.TrimSpace(form.PreMeter))
	if err != nil || preMeter < 0 {
		return Models.TravelLogRecord{}, fmt.Errorf("%w: pre meter must be a non-negative number", xerrors.ErrValidation)
	}

	draft := Models.TravelLogRecord{
		RecordID:           Models.NewPlaceholderID(),
		Placeholder:        true,
		Status:             Models.TravelPending,
		Officer:            form.Officer,
		OfficerDesignation: form.OfficerDesignation,
		Vehicle:            form.Vehicle,
		FromLocation:       form.From,
		ToLocation:         form.To,
		PreMeter:           preMeter,
		PreMeterImg:        form.PreMeterImage,
		StartedAt:          time.Now().UTC().Format(time.RFC3339),
	}
	if m.drafts != nil {
		if err := m.drafts.Save(draft); err != nil {
			log.Printf("Failed to save travel draft: %v", err)
		}
	}

	imageURL, err := m.uploads.UploadImage(ctx, form.PreMeterImage)
	if err != nil {
		return Models.TravelLogRecord{}, err
	}

	point := location.BestEffort(ctx, m.locations, m.locationTimeout)
	req := Api.StartTravelRequest{
		Officer:            form.Officer,
		OfficerDesignation: form.OfficerDesignation,
		Vehicle:            form.Vehicle,
		TravelFrom:         form.From,
		TravelTo:           form.To,
		PreMeter:           preMeter,
		PreMeterImg:        imageURL,
		PreMeterImage:      imageURL,
		Coordinates:        location.PayloadPair(point),
	}
	record, err := m.api.StartTravelLog(ctx, req)
	if err != nil {
		return Models.TravelLogRecord{}, err
	}

	if m.drafts != nil {
		if err := m.drafts.MarkSubmitted(draft.RecordID); err != nil {
			log.Printf("Failed to mark travel draft submitted: %v", err)
		} else if err := m.drafts.Purge(); err != nil {
			log.Printf("Failed to purge confirmed travel drafts: %v", err)
		}
	}
	if record.RecordID == "" || record.Placeholder {
		draft.PreMeterImg = imageURL
		draft.StartCoordinates = point
		return draft, nil
	}
	return record, nil
}

// CompletionForm is the operator input for closing a trip.
type CompletionForm struct {
	PostMeter      string `validate:"required"`
	PostMeterImage string `validate:"required"`
	FuelPercent    int    `validate:"gte=0,lte=100"`
	FuelMeterImage string `validate:"required"`
}

// CompleteTravelLog runs the full completion sequence for one pending trip:
// lifecycle and numeric checks, best-effort location, sequential image
// uploads, then the server transition. An upload failure aborts before any
// state changes server-side.
func (m *Manager) CompleteTravelLog(ctx context.Context, record Models.TravelLogRecord, form CompletionForm) (Models.TravelLogRecord, error) {
	if record.IsCompleted() {
		return Models.TravelLogRecord{}, xerrors.ErrAlreadyCompleted
	}
	if record.Placeholder || record.RecordID == "" {
		return Models.TravelLogRecord{}, fmt.Errorf("%w: trip has no server id yet; refresh and retry", xerrors.ErrValidation)
	}
	if err := m.checker.Struct(form); err != nil {
		return Models.TravelLogRecord{}, err
	}

	postMeter, err := strconv.Atoi(strings.TrimSpace(form.PostMeter))
	if err != nil {
		return Models.TravelLogRecord{}, fmt.Errorf("%w: post meter must be a valid number", xerrors.ErrValidation)
	}
	if postMeter < record.PreMeter {
		return Models.TravelLogRecord{}, fmt.Errorf("%w: post meter %d is below pre meter %d", xerrors.ErrValidation, postMeter, record.PreMeter)
	}

	point := location.BestEffort(ctx, m.locations, m.locationTimeout)

	postImgURL, err := m.uploads.UploadImage(ctx, form.PostMeterImage)
	if err != nil {
		return Models.TravelLogRecord{}, err
	}
	fuelImgURL, err := m.uploads.UploadImage(ctx, form.FuelMeterImage)
	if err != nil {
		return Models.TravelLogRecord{}, err
	}

	req := Api.CompleteTravelRequest{
		PostMeter:      postMeter,
		PostOdometer:   postMeter,
		PostMeterImg:   postImgURL,
		PostMeterImage: postImgURL,
		FuelPercent:    form.FuelPercent,
		Fuel:           form.FuelPercent,
		FuelMeterImg:   fuelImgURL,
		FuelMeterImage: fuelImgURL,
		Coordinates:    location.PayloadPair(point),
	}
	echoed, err := m.api.CompleteTravelLog(ctx, record.RecordID, req)
	if err != nil {
		return Models.TravelLogRecord{}, err
	}

	completed := record
	completed.Status = Models.TravelCompleted
	completed.PostMeter = postMeter
	completed.PostMeterImg = postImgURL
	completed.FuelPercent = form.FuelPercent
	completed.FuelMeterImg = fuelImgURL
	completed.CompletedAt = time.Now().UTC().Format(time.RFC3339)

	var serverKm *float64
	if echoed.RecordID != "" && !echoed.Placeholder {
		if km, ok := Api.ServerDistance(echoed.Extra); ok {
			serverKm = &km
		}
		if echoed.CompletedAt != "" {
			completed.CompletedAt = echoed.CompletedAt
		}
		completed.Extra = echoed.Extra
	}
	completed.DistanceKm = Metrics.Distance(float64(record.PreMeter), float64(postMeter), serverKm)
	return completed, nil
}

// errAuthLike reports whether a load failure means the session is gone rather
// than the network.
func errAuthLike(err error) bool {
	return errors.Is(err, xerrors.ErrAuth) || errors.Is(err, xerrors.ErrNoSession)
}

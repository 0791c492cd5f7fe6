package Travel

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"FuelLog/Api"
	"FuelLog/Models"
	"FuelLog/Session"
	"FuelLog/xerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeAPI struct {
	pending      []Models.TravelLogRecord
	completed    []Models.TravelLogRecord
	pendingErr   error
	completedErr error

	startResp  Models.TravelLogRecord
	startErr   error
	startCalls int

	completeResp    Models.TravelLogRecord
	completeErr     error
	completeCalls   int
	lastCompleteID  string
	lastCompleteReq Api.CompleteTravelRequest
}

func (f *fakeAPI) FetchPendingTravelLogs(ctx context.Context, userID string) ([]Models.TravelLogRecord, error) {
	return f.pending, f.pendingErr
}

func (f *fakeAPI) FetchCompletedTravelLogs(ctx context.Context) ([]Models.TravelLogRecord, error) {
	return f.completed, f.completedErr
}

func (f *fakeAPI) StartTravelLog(ctx context.Context, req Api.StartTravelRequest) (Models.TravelLogRecord, error) {
	f.startCalls++
	return f.startResp, f.startErr
}

func (f *fakeAPI) CompleteTravelLog(ctx context.Context, recordID string, req Api.CompleteTravelRequest) (Models.TravelLogRecord, error) {
	f.completeCalls++
	f.lastCompleteID = recordID
	f.lastCompleteReq = req
	return f.completeResp, f.completeErr
}

type fakeUploader struct {
	calls []string
	err   error
}

func (f *fakeUploader) UploadImage(ctx context.Context, localImage string) (string, error) {
	f.calls = append(f.calls, localImage)
	if f.err != nil {
		return "", f.err
	}
	return "https://bucket/" + localImage, nil
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cache.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Models.SessionRow{}, &Models.TravelDraft{}))
	return db
}

func testManager(t *testing.T, api *fakeAPI, uploads *fakeUploader) *Manager {
	t.Helper()
	db := testDB(t)
	session := Session.NewStore(db)
	require.NoError(t, session.Save(Session.Snapshot{Token: "opaque", UserID: "u1"}))
	return NewManager(api, uploads, nil, session, NewDraftStore(db), 10*time.Millisecond)
}

func pendingRecord(id, startedAt string, preMeter int) Models.TravelLogRecord {
	return Models.TravelLogRecord{
		RecordID:  id,
		Status:    Models.TravelPending,
		PreMeter:  preMeter,
		StartedAt: startedAt,
	}
}

func completedRecord(id, completedAt string) Models.TravelLogRecord {
	return Models.TravelLogRecord{
		RecordID:    id,
		Status:      Models.TravelCompleted,
		CompletedAt: completedAt,
	}
}

func TestLoadTravelLogsMergesNewestFirst(t *testing.T) {
	api := &fakeAPI{
		pending: []Models.TravelLogRecord{
			pendingRecord("p1", "2026-03-01T08:00:00Z", 100),
			pendingRecord("p2", "2026-03-03T08:00:00Z", 100),
		},
		completed: []Models.TravelLogRecord{
			completedRecord("c1", "2026-03-02T08:00:00Z"),
		},
	}
	manager := testManager(t, api, &fakeUploader{})

	result, err := manager.LoadTravelLogs(context.Background(), FilterAll)
	require.NoError(t, err)
	assert.False(t, result.PartialFailure)

	ids := make([]string, 0, len(result.Records))
	for _, record := range result.Records {
		ids = append(ids, record.RecordID)
	}
	assert.Equal(t, []string{"p2", "c1", "p1"}, ids)
}

func TestLoadTravelLogsFilters(t *testing.T) {
	api := &fakeAPI{
		pending:   []Models.TravelLogRecord{pendingRecord("p1", "2026-03-01T08:00:00Z", 100)},
		completed: []Models.TravelLogRecord{completedRecord("c1", "2026-03-02T08:00:00Z")},
	}
	manager := testManager(t, api, &fakeUploader{})

	result, err := manager.LoadTravelLogs(context.Background(), FilterPending)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "p1", result.Records[0].RecordID)

	result, err = manager.LoadTravelLogs(context.Background(), FilterCompleted)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "c1", result.Records[0].RecordID)
}

func TestLoadTravelLogsOneFetchFailing(t *testing.T) {
	api := &fakeAPI{
		pendingErr: xerrors.Wrap(xerrors.ErrNetwork, "timeout"),
		completed:  []Models.TravelLogRecord{completedRecord("c1", "2026-03-02T08:00:00Z")},
	}
	manager := testManager(t, api, &fakeUploader{})

	result, err := manager.LoadTravelLogs(context.Background(), FilterAll)
	require.NoError(t, err)
	assert.True(t, result.PartialFailure)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "c1", result.Records[0].RecordID)
}

func TestLoadTravelLogsBothFetchesFailing(t *testing.T) {
	api := &fakeAPI{
		pendingErr:   xerrors.Wrap(xerrors.ErrNetwork, "timeout"),
		completedErr: xerrors.Wrap(xerrors.ErrNetwork, "timeout"),
	}
	manager := testManager(t, api, &fakeUploader{})

	_, err := manager.LoadTravelLogs(context.Background(), FilterAll)
	assert.True(t, errors.Is(err, xerrors.ErrNetwork))
}

func TestLoadTravelLogsAuthFailureOnEitherFetch(t *testing.T) {
	// Pending died on the network while the completed fetch saw a 401; the
	// caller must learn the session is gone, not see a generic failure.
	api := &fakeAPI{
		pendingErr:   xerrors.Wrap(xerrors.ErrNetwork, "timeout"),
		completedErr: xerrors.Wrap(xerrors.ErrAuth, "token revoked"),
	}
	manager := testManager(t, api, &fakeUploader{})

	_, err := manager.LoadTravelLogs(context.Background(), FilterAll)
	assert.True(t, errors.Is(err, xerrors.ErrAuth))

	api = &fakeAPI{
		pendingErr:   xerrors.Wrap(xerrors.ErrAuth, "token revoked"),
		completedErr: xerrors.Wrap(xerrors.ErrNetwork, "timeout"),
	}
	manager = testManager(t, api, &fakeUploader{})

	_, err = manager.LoadTravelLogs(context.Background(), FilterAll)
	assert.True(t, errors.Is(err, xerrors.ErrAuth))
}

func TestLoadTravelLogsWithoutSession(t *testing.T) {
	db := testDB(t)
	manager := NewManager(&fakeAPI{}, &fakeUploader{}, nil, Session.NewStore(db), nil, 10*time.Millisecond)

	_, err := manager.LoadTravelLogs(context.Background(), FilterAll)
	assert.True(t, errors.Is(err, xerrors.ErrNoSession))
}

func TestLoadTravelLogsIncludesDrafts(t *testing.T) {
	api := &fakeAPI{}
	manager := testManager(t, api, &fakeUploader{})

	draft := pendingRecord("srv_abc123", "2026-03-01T08:00:00Z", 100)
	draft.Placeholder = true
	require.NoError(t, manager.drafts.Save(draft))

	result, err := manager.LoadTravelLogs(context.Background(), FilterPending)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "srv_abc123", result.Records[0].RecordID)
	assert.True(t, result.Records[0].Placeholder)
}

func completionForm() CompletionForm {
	return CompletionForm{
		PostMeter:      "1050",
		PostMeterImage: "post.jpg",
		FuelPercent:    60,
		FuelMeterImage: "fuel.jpg",
	}
}

func TestCompleteTravelLogRejectsCompletedRecord(t *testing.T) {
	api := &fakeAPI{}
	uploads := &fakeUploader{}
	manager := testManager(t, api, uploads)

	_, err := manager.CompleteTravelLog(context.Background(), completedRecord("c1", "2026-03-02T08:00:00Z"), completionForm())

	assert.True(t, errors.Is(err, xerrors.ErrAlreadyCompleted))
	assert.Empty(t, uploads.calls)
	assert.Zero(t, api.completeCalls)
}

func TestCompleteTravelLogRejectsPlaceholder(t *testing.T) {
	manager := testManager(t, &fakeAPI{}, &fakeUploader{})

	record := pendingRecord("srv_abc", "2026-03-01T08:00:00Z", 100)
	record.Placeholder = true
	_, err := manager.CompleteTravelLog(context.Background(), record, completionForm())

	assert.True(t, errors.Is(err, xerrors.ErrValidation))
}

func TestCompleteTravelLogRejectsPostBelowPre(t *testing.T) {
	api := &fakeAPI{}
	uploads := &fakeUploader{}
	manager := testManager(t, api, uploads)

	form := completionForm()
	form.PostMeter = "900"
	_, err := manager.CompleteTravelLog(context.Background(), pendingRecord("t1", "2026-03-01T08:00:00Z", 1000), form)

	assert.True(t, errors.Is(err, xerrors.ErrValidation))
	assert.Empty(t, uploads.calls)
	assert.Zero(t, api.completeCalls)
}

func TestCompleteTravelLogRejectsNonNumericPost(t *testing.T) {
	manager := testManager(t, &fakeAPI{}, &fakeUploader{})

	form := completionForm()
	form.PostMeter = "soon"
	_, err := manager.CompleteTravelLog(context.Background(), pendingRecord("t1", "2026-03-01T08:00:00Z", 1000), form)

	assert.True(t, errors.Is(err, xerrors.ErrValidation))
}

func TestCompleteTravelLogRejectsMissingImages(t *testing.T) {
	api := &fakeAPI{}
	uploads := &fakeUploader{}
	manager := testManager(t, api, uploads)

	form := completionForm()
	form.FuelMeterImage = ""
	_, err := manager.CompleteTravelLog(context.Background(), pendingRecord("t1", "2026-03-01T08:00:00Z", 1000), form)

	assert.True(t, errors.Is(err, xerrors.ErrValidation))
	assert.Empty(t, uploads.calls)
	assert.Zero(t, api.completeCalls)
}

func TestCompleteTravelLogUploadFailureAborts(t *testing.T) {
	api := &fakeAPI{}
	uploads := &fakeUploader{err: xerrors.Wrap(xerrors.ErrUpload, "bucket down")}
	manager := testManager(t, api, uploads)

	_, err := manager.CompleteTravelLog(context.Background(), pendingRecord("t1", "2026-03-01T08:00:00Z", 1000), completionForm())

	assert.True(t, errors.Is(err, xerrors.ErrUpload))
	assert.Zero(t, api.completeCalls)
}

func TestCompleteTravelLogComputesDistanceWhenServerSilent(t *testing.T) {
	api := &fakeAPI{}
	uploads := &fakeUploader{}
	manager := testManager(t, api, uploads)

	record := pendingRecord("t1", "2026-03-01T08:00:00Z", 1000)
	completed, err := manager.CompleteTravelLog(context.Background(), record, completionForm())

	require.NoError(t, err)
	assert.Equal(t, "t1", api.lastCompleteID)
	assert.Equal(t, []string{"post.jpg", "fuel.jpg"}, uploads.calls)

	assert.True(t, completed.IsCompleted())
	assert.Equal(t, 1050, completed.PostMeter)
	assert.Equal(t, 50.0, completed.DistanceKm)
	assert.Equal(t, "https://bucket/post.jpg", completed.PostMeterImg)
	assert.Equal(t, "https://bucket/fuel.jpg", completed.FuelMeterImg)
	assert.Equal(t, 60, completed.FuelPercent)
	assert.NotEmpty(t, completed.CompletedAt)

	// Both field name variants go out in the payload.
	assert.Equal(t, 1050, api.lastCompleteReq.PostMeter)
	assert.Equal(t, 1050, api.lastCompleteReq.PostOdometer)
	assert.Equal(t, 60, api.lastCompleteReq.Fuel)
	assert.Equal(t, "https://bucket/post.jpg", api.lastCompleteReq.PostMeterImage)
}

func TestCompleteTravelLogPrefersServerDistance(t *testing.T) {
	api := &fakeAPI{
		completeResp: Models.TravelLogRecord{
			RecordID:    "t1",
			Status:      Models.TravelCompleted,
			CompletedAt: "2026-03-05T09:00:00Z",
			Extra:       datatypes.JSON(`{"_id":"t1","distanceKm":47.2}`),
		},
	}
	manager := testManager(t, api, &fakeUploader{})

	record := pendingRecord("t1", "2026-03-01T08:00:00Z", 1000)
	completed, err := manager.CompleteTravelLog(context.Background(), record, completionForm())

	require.NoError(t, err)
	assert.Equal(t, 47.2, completed.DistanceKm)
	assert.Equal(t, "2026-03-05T09:00:00Z", completed.CompletedAt)
}

func TestStartTravelLogConfirmsDraft(t *testing.T) {
	api := &fakeAPI{
		startResp: Models.TravelLogRecord{RecordID: "t9", Status: Models.TravelPending},
	}
	uploads := &fakeUploader{}
	db := testDB(t)
	session := Session.NewStore(db)
	require.NoError(t, session.Save(Session.Snapshot{Token: "opaque", UserID: "u1"}))
	manager := NewManager(api, uploads, nil, session, NewDraftStore(db), 10*time.Millisecond)

	form := StartForm{
		Officer:       "Khan",
		Vehicle:       "SLJ-1112",
		From:          "Base",
		To:            "Site 4",
		PreMeter:      "1000",
		PreMeterImage: "pre.jpg",
	}
	record, err := manager.StartTravelLog(context.Background(), form)

	require.NoError(t, err)
	assert.Equal(t, "t9", record.RecordID)
	assert.Equal(t, 1, api.startCalls)
	assert.Equal(t, []string{"pre.jpg"}, uploads.calls)

	// The draft was confirmed; nothing pending remains locally.
	drafts, err := manager.drafts.Pending()
	require.NoError(t, err)
	assert.Empty(t, drafts)

	// And the confirmed draft itself was purged from the cache.
	var rows []Models.TravelDraft
	require.NoError(t, db.Find(&rows).Error)
	assert.Empty(t, rows)
}

func TestStartTravelLogKeepsDraftOnFailure(t *testing.T) {
	api := &fakeAPI{startErr: xerrors.Wrap(xerrors.ErrNetwork, "offline")}
	manager := testManager(t, api, &fakeUploader{})

	form := StartForm{
		Officer:       "Khan",
		Vehicle:       "SLJ-1112",
		From:          "Base",
		To:            "Site 4",
		PreMeter:      "1000",
		PreMeterImage: "pre.jpg",
	}
	_, err := manager.StartTravelLog(context.Background(), form)
	require.Error(t, err)

	drafts, draftErr := manager.drafts.Pending()
	require.NoError(t, draftErr)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Khan", drafts[0].Officer)
	assert.True(t, drafts[0].Placeholder)
}

func TestStartTravelLogRejectsNegativePreMeter(t *testing.T) {
	manager := testManager(t, &fakeAPI{}, &fakeUploader{})

	form := StartForm{
		Officer:       "Khan",
		Vehicle:       "SLJ-1112",
		From:          "Base",
		To:            "Site 4",
		PreMeter:      "-5",
		PreMeterImage: "pre.jpg",
	}
	_, err := manager.StartTravelLog(context.Background(), form)
	assert.True(t, errors.Is(err, xerrors.ErrValidation))
}

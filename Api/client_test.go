package Api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"FuelLog/Models"
	"FuelLog/Session"
	"FuelLog/xerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testSession(t *testing.T) *Session.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cache.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Models.SessionRow{}, &Models.TravelDraft{}))

	store := Session.NewStore(db)
	require.NoError(t, store.Save(Session.Snapshot{Token: "opaque-token", UserID: "u1", Name: "Ali", Role: "user"}))
	return store
}

func TestAuthedCallSendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, testSession(t))
	_, err := client.FetchCompletedTravelLogs(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Bearer opaque-token", gotAuth)
}

func TestUnauthorizedResponseClearsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token revoked"}`))
	}))
	defer server.Close()

	session := testSession(t)
	client := NewClient(server.URL, time.Second, session)
	_, err := client.FetchCompletedTravelLogs(context.Background())

	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrAuth))
	assert.Contains(t, err.Error(), "token revoked")

	_, err = session.Current()
	assert.True(t, xerrors.Is(err, xerrors.ErrNoSession))
}

func TestMissingSessionFailsWithoutNetwork(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	session := testSession(t)
	require.NoError(t, session.Clear())

	client := NewClient(server.URL, time.Second, session)
	_, err := client.FetchCompletedTravelLogs(context.Background())

	assert.True(t, xerrors.Is(err, xerrors.ErrNoSession))
	assert.Zero(t, calls)
}

func TestServerErrorSurfacesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"vehicle is required"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, testSession(t))
	_, err := client.FetchFuelRecordsByVehicle(context.Background(), "SLJ-1112")

	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrNetwork))
	assert.Contains(t, err.Error(), "vehicle is required")
}

func TestFetchAcceptsEnvelopeAndBareArray(t *testing.T) {
	bodies := []string{
		`{"data":[{"_id":"t1","status":"completed"}]}`,
		`[{"_id":"t1","status":"completed"}]`,
	}
	for _, body := range bodies {
		payload := body
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(payload))
		}))

		client := NewClient(server.URL, time.Second, testSession(t))
		records, err := client.FetchCompletedTravelLogs(context.Background())
		server.Close()

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "t1", records[0].RecordID)
	}
}

func TestCompletedFetchInjectsStatusOnlyWhenAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"_id":"a"},{"_id":"b","status":"pending"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, testSession(t))
	records, err := client.FetchCompletedTravelLogs(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Models.TravelCompleted, records[0].Status)
	assert.Equal(t, Models.TravelPending, records[1].Status)
}

func TestCompleteTravelLogAcceptsSingleObjectResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/travel/travel-logs/t1/complete", r.URL.Path)
		w.Write([]byte(`{"data":{"_id":"t1","postMeter":150,"distanceKm":48.0}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, testSession(t))
	record, err := client.CompleteTravelLog(context.Background(), "t1", CompleteTravelRequest{PostMeter: 150})

	require.NoError(t, err)
	assert.Equal(t, "t1", record.RecordID)
	assert.True(t, record.IsCompleted())
	assert.Equal(t, 48.0, record.DistanceKm)
}

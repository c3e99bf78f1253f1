package recordstore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedObservation struct {
	operation string
	table     string
	outcome   string
}

type fakeObserver struct {
	mu   sync.Mutex
	seen []recordedObservation
}

func (f *fakeObserver) ObserveStoreRequest(operation, table, outcome string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, recordedObservation{operation, table, outcome})
}

func TestIsConfigured(t *testing.T) {
	assert.False(t, IsConfigured(""))
	assert.False(t, IsConfigured("  "))
	assert.False(t, IsConfigured("https://script.google.com/macros/s/ISI_DENGAN_URL_ANDA/exec"))
	assert.True(t, IsConfigured("https://script.google.com/macros/s/abc/exec"))
}

func TestUnconfiguredClientRefusesCalls(t *testing.T) {
	c := New("", time.Second)
	_, err := c.FetchAll(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, c.Upsert(context.Background(), TableAttendance, map[string]string{}), ErrNotConfigured)
	assert.ErrorIs(t, c.Delete(context.Background(), TableAttendance, "x"), ErrNotConfigured)
}

func TestFetchAllAddsCacheBusterAndDecodes(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		gotQuery = r.URL.Query().Get("t")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"attendance":[{"id":"a"}],"teachers":[],"schedule":[],"settings":[{"tahunPelajaran":"2025/2026","semester":"Genap"}]}`))
	}))
	defer srv.Close()

	obs := &fakeObserver{}
	fixed := time.UnixMilli(1710489600000)
	c := New(srv.URL, time.Second, WithObserver(obs), WithClock(func() time.Time { return fixed }))

	payload, err := c.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1710489600000", gotQuery)
	assert.JSONEq(t, `[{"id":"a"}]`, string(payload.Attendance))
	assert.JSONEq(t, `[{"tahunPelajaran":"2025/2026","semester":"Genap"}]`, string(payload.Settings))
	assert.Nil(t, payload.Events)
	assert.Equal(t, []recordedObservation{{"fetch", "*", OutcomeSuccess}}, obs.seen)
}

func TestFetchAllFailsOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	obs := &fakeObserver{}
	_, err := New(srv.URL, time.Second, WithObserver(obs)).FetchAll(context.Background())
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Equal(t, OutcomeError, obs.seen[0].outcome)
}

func TestFetchAllFailsOnMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>login</html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).FetchAll(context.Background())
	assert.Error(t, err)
}

func TestUpsertAndDeleteSendCommands(t *testing.T) {
	var bodies []map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &body))
		bodies = append(bodies, body)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	require.NoError(t, c.Upsert(context.Background(), TableTeachers, map[string]string{"id": "SH"}))
	require.NoError(t, c.Delete(context.Background(), TableAttendance, "2024-03-15-7A-2"))

	require.Len(t, bodies, 2)
	assert.Equal(t, "insertOrUpdate", bodies[0]["action"])
	assert.Equal(t, "teachers", bodies[0]["table"])
	assert.Equal(t, map[string]interface{}{"id": "SH"}, bodies[0]["data"])
	assert.Equal(t, "delete", bodies[1]["action"])
	assert.Equal(t, "2024-03-15-7A-2", bodies[1]["id"])
}

func TestWriteWithErrorStatusIsStillAssumedSuccessful(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	assert.NoError(t, New(srv.URL, time.Second).Upsert(context.Background(), TableAttendance, map[string]string{"id": "x"}))
}

func TestWriteTransportErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	obs := &fakeObserver{}
	err := New(endpoint, time.Second, WithObserver(obs)).Upsert(context.Background(), TableAttendance, map[string]string{"id": "x"})
	assert.Error(t, err)
	assert.Equal(t, []recordedObservation{{"upsert", "attendance", OutcomeError}}, obs.seen)
}

func TestDeleteRequiresID(t *testing.T) {
	assert.Error(t, New("https://example.com/exec", time.Second).Delete(context.Background(), TableAttendance, ""))
}

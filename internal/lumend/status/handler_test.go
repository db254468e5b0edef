package status

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-signage/lumen-player/api/types/v1alpha1"
)

type stubState struct {
	status v1alpha1.PlayerStatus
}

func (s *stubState) Status() v1alpha1.PlayerStatus { return s.status }

func (s *stubState) CanvasStatus(id string) (v1alpha1.CanvasStatus, bool) {
	for _, cs := range s.status.Canvases {
		if cs.ID == id {
			return cs, true
		}
	}
	return v1alpha1.CanvasStatus{}, false
}

type stubSpans struct {
	spans []v1alpha1.PlaybackSpan
}

func (s *stubSpans) Recent() []v1alpha1.PlaybackSpan { return s.spans }

type stubReloader struct {
	count int
	err   error
	calls int
}

func (s *stubReloader) Reload() (int, error) {
	s.calls++
	return s.count, s.err
}

func testHandler(state *stubState, spans *stubSpans, reloader Reloader) *Handler {
	return NewHandler(state, spans, reloader, nil, "1.2.3", zerolog.Nop())
}

func testState() *stubState {
	return &stubState{
		status: v1alpha1.PlayerStatus{
			StartedAt:       time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
			ManifestVersion: 3,
			ItemCount:       5,
			Canvases: []v1alpha1.CanvasStatus{
				{ID: "default", State: "SWAPPED", CurrentItem: "promo"},
				{ID: "ticker", State: "BLACK"},
			},
		},
	}
}

func TestHandleGetStatus(t *testing.T) {
	h := testHandler(testState(), &stubSpans{}, &stubReloader{})
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1alpha1/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var status v1alpha1.PlayerStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, "1.2.3", status.Version)
	assert.Equal(t, uint64(3), status.ManifestVersion)
	assert.Equal(t, 5, status.ItemCount)
	require.Len(t, status.Canvases, 2)
	assert.Equal(t, "promo", status.Canvases[0].CurrentItem)
}

func TestHandleGetCanvas(t *testing.T) {
	h := testHandler(testState(), &stubSpans{}, &stubReloader{})
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1alpha1/canvases/ticker")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var canvas v1alpha1.CanvasStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&canvas))
	assert.Equal(t, "BLACK", canvas.State)
}

func TestHandleGetCanvas_NotFound(t *testing.T) {
	h := testHandler(testState(), &stubSpans{}, &stubReloader{})
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1alpha1/canvases/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "nope")
}

func TestHandleListSpans(t *testing.T) {
	spans := &stubSpans{spans: []v1alpha1.PlaybackSpan{
		{ID: "s1", CanvasID: "default", ItemID: "promo", DurationMillis: 15000},
	}}
	h := testHandler(testState(), spans, &stubReloader{})
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1alpha1/spans")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []v1alpha1.PlaybackSpan
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, int64(15000), got[0].DurationMillis)
}

func TestHandleListSpans_EmptyIsArray(t *testing.T) {
	h := testHandler(testState(), &stubSpans{}, &stubReloader{})
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1alpha1/spans")
	require.NoError(t, err)
	defer resp.Body.Close()

	var got []v1alpha1.PlaybackSpan
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestHandleReload(t *testing.T) {
	reloader := &stubReloader{count: 7}
	h := testHandler(testState(), &stubSpans{}, reloader)
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/v1alpha1/reload", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, reloader.calls)

	var body map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 7, body["items"])
}

func TestHandleReload_Failure(t *testing.T) {
	reloader := &stubReloader{err: fmt.Errorf("manifest is not valid JSON")}
	h := testHandler(testState(), &stubSpans{}, reloader)
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/v1alpha1/reload", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestHandleReload_NoSource(t *testing.T) {
	h := NewHandler(testState(), &stubSpans{}, nil, nil, "dev", zerolog.Nop())
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/v1alpha1/reload", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentHandlerLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/v1/event/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/v1/event/{id}", "418"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/event/12", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/v1/event/{id}", "418"))
	assert.Equal(t, before+1, after)
}

func TestRecordPhotoSweep(t *testing.T) {
	before := testutil.ToFloat64(photosSwept.WithLabelValues("deleted"))
	RecordPhotoSweep(3, 1)
	assert.Equal(t, before+3, testutil.ToFloat64(photosSwept.WithLabelValues("deleted")))
}

func TestHandlerServesRegistry(t *testing.T) {
	RecordUpload(10)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gameet_photos_uploaded_bytes_total")
}

func TestInstrumentHandlerAllowsWebsocketUpgrade(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	upgrader := websocket.Upgrader{}
	r.Get("/ws/echo", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte("hello"))
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/ws/echo", "101"))

	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/echo", nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(msg))

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/ws/echo", "101")) == before+1
	}, time.Second, 10*time.Millisecond)
}

package telemetry

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger_LogsStatusAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	hooks := NewHooks(zerolog.New(&buf))

	handler := hooks.RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The request-scoped logger must carry the request ID.
		zerolog.Ctx(r.Context()).Info().Msg("inside")
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/sheets", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var inner, served map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &inner))
	require.NoError(t, json.Unmarshal(lines[1], &served))

	require.NotEmpty(t, inner["request_id"])
	require.Equal(t, inner["request_id"], served["request_id"])
	require.Equal(t, "GET", served["method"])
	require.Equal(t, "/api/sheets", served["path"])
	require.Equal(t, float64(http.StatusNotFound), served["status"])
	require.Equal(t, "info", served["level"])
}

func TestRequestLogger_ServerErrorLogsAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	hooks := NewHooks(zerolog.New(&buf))

	handler := hooks.RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var served map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &served))
	require.Equal(t, "error", served["level"])
}

func TestRequestLogger_DefaultsToOK(t *testing.T) {
	var buf bytes.Buffer
	hooks := NewHooks(zerolog.New(&buf))

	handler := hooks.RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var served map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &served))
	require.Equal(t, float64(http.StatusOK), served["status"])
}

func TestLifecycleHooks(t *testing.T) {
	var buf bytes.Buffer
	hooks := NewHooks(zerolog.New(&buf))

	hooks.OnServerStart("127.0.0.1:8050")
	hooks.OnServerStop()

	out := buf.String()
	require.Contains(t, out, "dashboard server starting")
	require.Contains(t, out, "127.0.0.1:8050")
	require.Contains(t, out, "dashboard server stopping")
}

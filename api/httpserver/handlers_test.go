package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dadepo/rpki-mcp/rp"
)

func setupRouter(t *testing.T, upstream http.Handler) http.Handler {
	t.Helper()

	stub := httptest.NewServer(upstream)
	t.Cleanup(stub.Close)

	endpoint, err := rp.ParseEndpoint(stub.URL)
	require.NoError(t, err)

	client := rp.NewClient(endpoint, stub.Client(), zerolog.Nop())
	srv := New(Config{Log: zerolog.Nop()}, NewHandler(client, zerolog.Nop()))
	return srv.srv.Handler
}

func TestStatusRoute(t *testing.T) {
	r := setupRouter(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "/api/v1/status", req.URL.Path)
		w.Write([]byte(`{
			"version": "0.12.1",
			"serial": 1299,
			"now": "2021-04-19T08:42:50Z",
			"lastUpdateStart": "2021-04-19T08:31:02Z",
			"lastUpdateDone": "2021-04-19T08:31:48Z",
			"lastUpdateDuration": 46.18
		}`))
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "0.12.1", payload["version"])
	assert.Equal(t, float64(1299), payload["serial"])
}

func TestValidityRouteForwardsFullPrefix(t *testing.T) {
	r := setupRouter(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "/api/v1/validity/AS65000/192.0.2.0/24", req.URL.Path)
		w.Write([]byte(`{
			"route": {"originAsn": "AS65000", "prefix": "192.0.2.0/24"},
			"validity": {"state": "valid"}
		}`))
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/validity/AS65000/192.0.2.0/24", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "192.0.2.0/24")
}

func TestValidityRouteRelaysUpstreamStatus(t *testing.T) {
	r := setupRouter(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("not found"))
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/validity/AS65000/192.0.2.0/24", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, float64(404), payload["code"])
	assert.Equal(t, "not found", payload["message"])
}

func TestRoasRoute(t *testing.T) {
	r := setupRouter(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "AS65000", req.URL.Query().Get("select-asn"))
		w.Write([]byte(`{
			"metadata": {"generated": 1, "generatedTime": "t"},
			"roas": [{"asn": "AS65000", "prefix": "192.0.2.0/24", "maxLength": 24, "trustAnchor": "ripe"}]
		}`))
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/roas/AS65000", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "192.0.2.0/24")
}

func TestParseRoaRouteRejectsBadBody(t *testing.T) {
	r := setupRouter(t, http.NotFoundHandler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/roa", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/roa", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseRoaRouteMissingFile(t *testing.T) {
	r := setupRouter(t, http.NotFoundHandler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/roa",
		strings.NewReader(`{"path": "/nonexistent/test.roa"}`)))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, float64(rp.CodeNone), payload["code"])
}

func TestLivenessRoute(t *testing.T) {
	r := setupRouter(t, http.NotFoundHandler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/livez", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"alive"}`, w.Body.String())
}

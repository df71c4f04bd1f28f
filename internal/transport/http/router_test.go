package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hmiscli/internal/modeling"
)

func testServer(t *testing.T, metrics http.Handler) (*httptest.Server, *modeling.Tracker) {
	t.Helper()
	tracker := modeling.NewTracker([]modeling.Model{
		{Name: "demographics_to_CaseSuccess_by_logistic", FeatureSet: "demographics", Target: "CaseSuccess", Classifier: "logistic"},
		{Name: "program_to_CaseSuccess_by_logistic", FeatureSet: "program", Target: "CaseSuccess", Classifier: "logistic"},
	})
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	srv := httptest.NewServer(NewRouter(tracker, metrics, logger))
	t.Cleanup(srv.Close)
	return srv, tracker
}

func getJSON(t *testing.T, url string, into any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if into != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
	}
	return resp
}

func TestHealthz(t *testing.T) {
	srv, _ := testServer(t, nil)

	var body HealthResponse
	resp := getJSON(t, srv.URL+"/healthz", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 2, body.Models[modeling.StatePending])
	assert.True(t, body.Running)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestListModels(t *testing.T) {
	srv, _ := testServer(t, nil)

	var body []ModelResponse
	resp := getJSON(t, srv.URL+"/models", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body, 2)
	assert.Equal(t, "demographics_to_CaseSuccess_by_logistic", body[0].Name)
	assert.Equal(t, modeling.StatePending, body[0].State)
	assert.Nil(t, body[0].StartedAt)
}

func TestGetModel(t *testing.T) {
	srv, _ := testServer(t, nil)

	var body ModelResponse
	resp := getJSON(t, srv.URL+"/models/program_to_CaseSuccess_by_logistic", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "program", body.FeatureSet)
	assert.Equal(t, -1, body.ExitCode)

	var apiErr map[string]any
	resp = getJSON(t, srv.URL+"/models/unknown", &apiErr)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", apiErr["error_code"])
	assert.Contains(t, apiErr["message"], "model unknown")
}

func TestMetricsMount(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "models_launched_total 2\n")
	})
	srv, _ := testServer(t, metrics)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "models_launched_total")

	bare, _ := testServer(t, nil)
	resp = getJSON(t, bare.URL+"/metrics", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CrimeGraph-Intelligence/internal/application/analysis"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/application/reporting"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/config"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/domain/event"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/export"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/monitoring/logging"
	promx "github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/CrimeGraph-Intelligence/pkg/errors"
)

type stubSource struct {
	events []*event.Event
	err    error
}

func (s *stubSource) Load(_ context.Context) ([]*event.Event, error) {
	return s.events, s.err
}

func clusterEvents() []*event.Event {
	var events []*event.Event
	for i := 0; i < 4; i++ {
		events = append(events, &event.Event{
			Latitude:       34.05,
			Longitude:      -118.25,
			CrimeCategory:  event.CrimeRobbery,
			WeaponCategory: event.WeaponFirearm,
			AreaName:       "Central",
		})
	}
	events = append(events, &event.Event{
		Latitude:       34.95,
		Longitude:      -118.25,
		CrimeCategory:  event.CrimeVandalism,
		WeaponCategory: event.WeaponUndefined,
	})
	return events
}

func newTestRouter(t *testing.T, src *stubSource) *gin.Engine {
	t.Helper()
	var cfg config.Config
	config.ApplyDefaults(&cfg)
	cfg.Analysis.Workers = 1

	logger := logging.NewNopLogger()
	svc, err := analysis.NewService(cfg.Analysis,
		analysis.NewLouvainPartitioner(cfg.Analysis.PartitionSeed, logger), nil, logger)
	require.NoError(t, err)

	return NewRouter(RouterConfig{
		Analysis: handlers.NewAnalysisHandler(svc, src,
			reporting.NewReporter(logger), export.NewGraphMLWriter(logger), logger),
		Health: handlers.NewHealthHandler(),
		Logger: logger,
		Mode:   gin.TestMode,
	})
}

func doRequest(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func triggerRun(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/v1/runs")
	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	id, _ := body["run_id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(t, &stubSource{events: clusterEvents()})

	w := doRequest(r, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = doRequest(r, http.MethodGet, "/readyz")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_TriggerAndGetRun(t *testing.T) {
	r := newTestRouter(t, &stubSource{events: clusterEvents()})
	id := triggerRun(t, r)

	w := doRequest(r, http.MethodGet, "/api/v1/runs/"+id)
	require.Equal(t, http.StatusOK, w.Code)

	var res analysis.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, id, res.RunID)
	assert.Equal(t, 5, res.SampledCount)
	assert.Len(t, res.Communities, 2)
}

func TestRouter_TriggerSourceFailure(t *testing.T) {
	r := newTestRouter(t, &stubSource{
		err: errors.New(errors.ErrCodeIngestOpenFailed, "open event source"),
	})

	w := doRequest(r, http.MethodPost, "/api/v1/runs")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), string(errors.ErrCodeIngestOpenFailed))
}

func TestRouter_GetRunNotFound(t *testing.T) {
	r := newTestRouter(t, &stubSource{events: clusterEvents()})

	w := doRequest(r, http.MethodGet, "/api/v1/runs/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), string(errors.ErrCodeAnalysisRunNotFound))
}

func TestRouter_ListRuns(t *testing.T) {
	r := newTestRouter(t, &stubSource{events: clusterEvents()})
	triggerRun(t, r)

	w := doRequest(r, http.MethodGet, "/api/v1/runs")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"run_id"`)
}

func TestRouter_CommunitiesFilteredByTier(t *testing.T) {
	r := newTestRouter(t, &stubSource{events: clusterEvents()})
	id := triggerRun(t, r)

	w := doRequest(r, http.MethodGet, "/api/v1/runs/"+id+"/communities?tier=ordinary")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Communities []json.RawMessage `json:"communities"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Communities, 1)
}

func TestRouter_Tiers(t *testing.T) {
	r := newTestRouter(t, &stubSource{events: clusterEvents()})
	id := triggerRun(t, r)

	w := doRequest(r, http.MethodGet, "/api/v1/runs/"+id+"/tiers")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"priority_areas"`)
}

func TestRouter_TableIsCSV(t *testing.T) {
	r := newTestRouter(t, &stubSource{events: clusterEvents()})
	id := triggerRun(t, r)

	w := doRequest(r, http.MethodGet, "/api/v1/runs/"+id+"/table")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "community_id,size,density")
}

func TestRouter_Summary(t *testing.T) {
	r := newTestRouter(t, &stubSource{events: clusterEvents()})
	id := triggerRun(t, r)

	w := doRequest(r, http.MethodGet, "/api/v1/runs/"+id+"/summary")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "=== Priority areas")
}

func TestRouter_GraphML(t *testing.T) {
	r := newTestRouter(t, &stubSource{events: clusterEvents()})
	id := triggerRun(t, r)

	w := doRequest(r, http.MethodGet, "/api/v1/runs/"+id+"/graphml")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, w.Body.String(), "<graphml")
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	logger := logging.NewNopLogger()
	collector, err := promx.NewMetricsCollector(promx.CollectorConfig{Namespace: "crimegraph"}, logger)
	require.NoError(t, err)
	metrics := promx.NewPipelineMetrics(collector)

	r := newTestRouter(t, &stubSource{events: clusterEvents()})
	r = NewRouter(RouterConfig{
		Health:    handlers.NewHealthHandler(),
		Logger:    logger,
		Metrics:   metrics,
		Collector: collector,
		Mode:      gin.TestMode,
	})
	doRequest(r, http.MethodGet, "/healthz")

	w := doRequest(r, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "crimegraph_http_requests_total")
}

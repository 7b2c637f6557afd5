package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	trend "github.com/aouyang1/go-trend"
	"github.com/aouyang1/go-trend/internal/config"
	"github.com/aouyang1/go-trend/internal/metrics"
	"github.com/aouyang1/go-trend/internal/sink"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type recordingSink struct {
	recs []sink.Record
	err  error
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Publish(_ context.Context, rec sink.Record) error {
	s.recs = append(s.recs, rec)
	return s.err
}

func (s *recordingSink) Close() error { return nil }

type testServer struct {
	srv     *Server
	sink    *recordingSink
	metrics *metrics.Recorder
	reg     *prometheus.Registry
	spans   *tracetest.SpanRecorder
}

func newTestServer(t *testing.T, sinkErr error) *testServer {
	t.Helper()

	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	nowFunc := func() time.Time {
		clock = clock.Add(5 * time.Millisecond)
		return clock
	}

	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)
	s := &recordingSink{err: sinkErr}
	spans := tracetest.NewSpanRecorder()

	h := NewHandler(HandlerOptions{
		Sink:           s,
		Metrics:        rec,
		TracerProvider: sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)),
		Logger:         zerolog.Nop(),
		NowFunc:        nowFunc,
	})
	cfg, err := config.Default()
	require.Nil(t, err)

	return &testServer{
		srv:     New(h, cfg.Server, cfg.Metrics, reg, zerolog.Nop()),
		sink:    s,
		metrics: rec,
		reg:     reg,
		spans:   spans,
	}
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.srv.Echo().ServeHTTP(rec, req)
	return rec
}

const linearBody = `{
	"dataPoints": [
		{"timestamp": "2024-01-01T00:00:00Z", "value": 1},
		{"timestamp": "2024-01-02T00:00:00Z", "value": 2},
		{"timestamp": "2024-01-03T00:00:00Z", "value": 3},
		{"timestamp": "2024-01-04T00:00:00Z", "value": 4}
	],
	"analysisType": "linear",
	"timeWindow": {"start": "2024-01-01T00:00:00Z", "end": "2024-01-31T00:00:00Z"}
}`

func TestAnalyzeBadRequest(t *testing.T) {
	testData := map[string]struct {
		body        string
		expectedMsg string
	}{
		"not json":              {body: `{"dataPoints": [`, expectedMsg: "malformed JSON"},
		"empty body":            {body: ``},
		"wrong type":            {body: `{"dataPoints": "many"}`},
		"null points":           {body: `{"dataPoints": null, "analysisType": "linear", "timeWindow": {"start": "a", "end": "b"}}`, expectedMsg: "dataPoints is required"},
		"missing analysis type": {body: `{"dataPoints": [], "timeWindow": {"start": "a", "end": "b"}}`, expectedMsg: "analysisType is required"},
		"missing window":        {body: `{"dataPoints": [], "analysisType": "seasonal"}`, expectedMsg: "timeWindow is required"},
		"missing window start":  {body: `{"dataPoints": [], "analysisType": "seasonal", "timeWindow": {"end": "b"}}`, expectedMsg: "timeWindow.start is required"},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ts := newTestServer(t, nil)
			res := ts.do(http.MethodPost, AnalyzePath, td.body)
			require.Equal(t, http.StatusBadRequest, res.Code)

			var body map[string]string
			require.Nil(t, json.Unmarshal(res.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
			assert.Contains(t, body["error"], td.expectedMsg)

			assert.Empty(t, ts.sink.recs)
			assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.ValidationErrors()))
		})
	}
}

func TestAnalyze(t *testing.T) {
	ts := newTestServer(t, nil)
	res := ts.do(http.MethodPost, AnalyzePath, linearBody)
	require.Equal(t, http.StatusOK, res.Code)

	var body struct {
		Message string            `json:"message"`
		Data    trend.TrendResult `json:"data"`
	}
	require.Nil(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, "Trend analysis completed", body.Message)
	assert.Equal(t, trend.TrendUpward, body.Data.TrendType)
	assert.InDelta(t, 1.0, body.Data.Confidence, 1e-9)
	assert.Len(t, body.Data.Predictions, 5)

	require.Len(t, ts.sink.recs, 1)
	rec := ts.sink.recs[0]
	assert.Equal(t, res.Header().Get("X-Analysis-Id"), rec.ID)
	assert.Len(t, rec.ID, 36)
	assert.Equal(t, trend.AnalysisLinear, rec.AnalysisType)
	assert.Equal(t, 4, rec.PointCount)
	assert.Equal(t, 5*time.Millisecond, rec.Duration)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, int(5*time.Millisecond), time.UTC), rec.ReceivedAt)
	assert.Equal(t, trend.TrendUpward, rec.Result.TrendType)

	count, err := testutil.GatherAndCount(ts.reg, "trend_analyses_total")
	require.Nil(t, err)
	assert.Equal(t, 1, count)
}

func TestAnalyzeEmptyPoints(t *testing.T) {
	ts := newTestServer(t, nil)
	body := `{"dataPoints": [], "analysisType": "anomaly", "timeWindow": {"start": "2024-01-01", "end": "2024-01-31"}}`

	res := ts.do(http.MethodPost, AnalyzePath, body)
	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t,
		`{"message":"Trend analysis completed","data":{"trendType":"stable","confidence":0,"strength":0,"direction":0,"changeRate":0,"patterns":[]}}`,
		res.Body.String())
}

func TestAnalyzeSinkFailure(t *testing.T) {
	ts := newTestServer(t, errors.New("connection refused"))

	res := ts.do(http.MethodPost, AnalyzePath, linearBody)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, ts.sink.recs, 1)

	count, err := testutil.GatherAndCount(ts.reg, "trend_sink_errors_total")
	require.Nil(t, err)
	assert.Equal(t, 1, count)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, nil)

	res := ts.do(http.MethodGet, HealthPath, "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"message":"ok"}`, res.Body.String())

	ts.do(http.MethodPost, AnalyzePath, linearBody)
	res = ts.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `trend_analyses_total{analysis_type="linear",trend_type="upward"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	h := NewHandler(HandlerOptions{})
	cfg, err := config.Default()
	require.Nil(t, err)
	cfg.Metrics.Enabled = false

	srv := New(h, cfg.Server, cfg.Metrics, prometheus.NewRegistry(), zerolog.Nop())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunShutdown(t *testing.T) {
	cfg, err := config.Default()
	require.Nil(t, err)
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0

	srv := New(NewHandler(HandlerOptions{}), cfg.Server, cfg.Metrics, nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.Nil(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestAnalyzeTracing(t *testing.T) {
	testData := map[string]struct {
		body       string
		expStatus  int
		expCode    codes.Code
		expAttrs   map[attribute.Key]string
		expIntAttr map[attribute.Key]int64
	}{
		"completed": {
			body:      linearBody,
			expStatus: http.StatusOK,
			expCode:   codes.Unset,
			expAttrs: map[attribute.Key]string{
				"http.method":         http.MethodPost,
				"http.route":          AnalyzePath,
				"trend.analysis_type": "linear",
				"trend.trend_type":    "upward",
			},
			expIntAttr: map[attribute.Key]int64{
				"http.status_code": http.StatusOK,
				"trend.points":     4,
				"trend.anomalies":  0,
			},
		},
		"rejected": {
			body:      `{}`,
			expStatus: http.StatusBadRequest,
			expCode:   codes.Error,
			expAttrs: map[attribute.Key]string{
				"http.method": http.MethodPost,
				"http.route":  AnalyzePath,
			},
			expIntAttr: map[attribute.Key]int64{
				"http.status_code": http.StatusBadRequest,
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ts := newTestServer(t, nil)
			rec := ts.do(http.MethodPost, AnalyzePath, td.body)
			require.Equal(t, td.expStatus, rec.Code)

			ended := ts.spans.Ended()
			require.Len(t, ended, 1)
			span := ended[0]
			assert.Equal(t, "HTTP POST "+AnalyzePath, span.Name())
			assert.Equal(t, td.expCode, span.Status().Code)

			attrs := spanAttrs(span)
			for k, v := range td.expAttrs {
				assert.Equal(t, v, attrs[k].AsString(), k)
			}
			for k, v := range td.expIntAttr {
				assert.Equal(t, v, attrs[k].AsInt64(), k)
			}
			if td.expStatus == http.StatusOK {
				assert.Equal(t, rec.Header().Get("X-Analysis-Id"), attrs["trend.analysis_id"].AsString())
			} else {
				assert.NotContains(t, attrs, attribute.Key("trend.analysis_id"))
			}
		})
	}
}

func TestTracingContinuesRemoteTrace(t *testing.T) {
	ts := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, AnalyzePath, strings.NewReader(linearBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	rec := httptest.NewRecorder()
	ts.srv.Echo().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	ended := ts.spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", ended[0].SpanContext().TraceID().String())
	assert.Equal(t, "00f067aa0ba902b7", ended[0].Parent().SpanID().String())
	assert.True(t, ended[0].Parent().IsRemote())
}

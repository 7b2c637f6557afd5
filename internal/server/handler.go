package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	trend "github.com/aouyang1/go-trend"
	"github.com/aouyang1/go-trend/internal/metrics"
	"github.com/aouyang1/go-trend/internal/sink"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	AnalyzePath = "/api/v1/trends/analyze"
	RecentPath  = "/api/v1/trends/recent"
	HealthPath  = "/healthz"

	analysisCompleted = "Trend analysis completed"
	publishTimeout    = 5 * time.Second

	defaultRecentLimit = 10
	maxRecentLimit     = 100
)

type errorResponse struct {
	Error string `json:"error"`
}

type analysisResponse struct {
	Message string            `json:"message"`
	Data    trend.TrendResult `json:"data"`
}

type recentResponse struct {
	Message string        `json:"message"`
	Data    []sink.Record `json:"data"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// HandlerOptions are the collaborators of a Handler. Nil fields fall back to defaults: the
// wall clock, the global tracer provider, a no-op sink and unregistered metrics.
type HandlerOptions struct {
	Analyzer       *trend.Analyzer
	Sink           sink.Sink
	Metrics        *metrics.Recorder
	TracerProvider trace.TracerProvider
	Logger         zerolog.Logger
	NowFunc        func() time.Time
}

// Handler serves trend analyses over HTTP
type Handler struct {
	analyzer *trend.Analyzer
	sink     sink.Sink
	metrics  *metrics.Recorder
	tp       trace.TracerProvider
	log      zerolog.Logger
	nowFunc  func() time.Time
}

func NewHandler(opt HandlerOptions) *Handler {
	h := &Handler{
		analyzer: opt.Analyzer,
		sink:     opt.Sink,
		metrics:  opt.Metrics,
		tp:       opt.TracerProvider,
		log:      opt.Logger,
		nowFunc:  opt.NowFunc,
	}
	if h.analyzer == nil {
		h.analyzer = trend.New(&trend.Options{Logger: opt.Logger})
	}
	if h.sink == nil {
		h.sink = sink.Nop{}
	}
	if h.metrics == nil {
		h.metrics = metrics.New(nil)
	}
	if h.tp == nil {
		h.tp = otel.GetTracerProvider()
	}
	if h.nowFunc == nil {
		h.nowFunc = time.Now
	}
	return h
}

// RegisterRoutes mounts the handler. The recent records route is only mounted when the sink
// can read back what it published.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST(AnalyzePath, h.Analyze, tracing(h.tp))
	if r, ok := h.sink.(sink.Reader); ok {
		e.GET(RecentPath, h.recent(r), tracing(h.tp))
	}
	e.GET(HealthPath, h.Health)
}

// Analyze validates the request body, runs the analysis and publishes its record. Only
// malformed or incomplete requests are rejected; analyses that cannot complete return the
// empty result with a 200.
func (h *Handler) Analyze(c echo.Context) error {
	received := h.nowFunc()

	var req trend.AnalysisRequest
	if err := c.Echo().JSONSerializer.Deserialize(c, &req); err != nil {
		h.metrics.RecordValidationError()
		msg := "invalid request body"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			if s, ok := he.Message.(string); ok {
				msg = s
			}
		}
		return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
	}

	if err := req.Validate(); err != nil {
		h.metrics.RecordValidationError()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	res := h.analyzer.Analyze(req)
	elapsed := h.nowFunc().Sub(received)
	h.metrics.RecordAnalysis(string(req.AnalysisType), string(res.TrendType), len(res.Anomalies), elapsed)

	rec := sink.Record{
		ID:           uuid.NewString(),
		AnalysisType: req.AnalysisType,
		ReceivedAt:   received.UTC(),
		Duration:     elapsed,
		PointCount:   len(req.DataPoints),
		Result:       res,
	}
	trace.SpanFromContext(c.Request().Context()).SetAttributes(
		attribute.String("trend.analysis_id", rec.ID),
		attribute.String("trend.analysis_type", string(req.AnalysisType)),
		attribute.String("trend.trend_type", string(res.TrendType)),
		attribute.Int("trend.points", rec.PointCount),
		attribute.Int("trend.anomalies", len(res.Anomalies)),
	)
	h.publish(c.Request().Context(), rec)

	c.Response().Header().Set("X-Analysis-Id", rec.ID)
	return c.JSON(http.StatusOK, analysisResponse{Message: analysisCompleted, Data: res})
}

// publish hands the record to the sink. Failures are logged and counted, never returned to
// the caller.
func (h *Handler) publish(ctx context.Context, rec sink.Record) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := h.sink.Publish(ctx, rec); err != nil {
		h.metrics.RecordSinkError(h.sink.Name())
		h.log.Error().Err(err).Str("id", rec.ID).Str("sink", h.sink.Name()).Msg("unable to publish analysis record")
	}
}

// recent serves the newest published records, oldest first. The limit query parameter
// defaults to 10 and may not exceed 100.
func (h *Handler) recent(r sink.Reader) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit := int64(defaultRecentLimit)
		if raw := c.QueryParam("limit"); raw != "" {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || n < 1 || n > maxRecentLimit {
				return c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be an integer between 1 and 100"})
			}
			limit = n
		}

		recs, err := r.Recent(c.Request().Context(), limit)
		if err != nil {
			h.metrics.RecordSinkError(h.sink.Name())
			h.log.Error().Err(err).Str("sink", h.sink.Name()).Msg("unable to read recent analysis records")
			return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "recent analyses are unavailable"})
		}
		if recs == nil {
			recs = []sink.Record{}
		}
		trace.SpanFromContext(c.Request().Context()).SetAttributes(attribute.Int("trend.records", len(recs)))
		return c.JSON(http.StatusOK, recentResponse{Message: "ok", Data: recs})
	}
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "ok"})
}

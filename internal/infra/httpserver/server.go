package httpserver

import (
	"context"
	"errors"
	"formflow/internal/logger"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const _readHeaderTimeout = 5 * time.Second

// StandardServer exposes health and Prometheus metrics next to a
// long-running command.
type StandardServer struct {
	server *http.Server
	log    logger.Logger
}

func NewServer(addr string, gatherer prometheus.Gatherer, log logger.Logger, controllers ...Controller) *StandardServer {
	router := http.NewServeMux()
	router.Handle("GET /healthz", getHealthz())
	router.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	for _, controller := range controllers {
		controller.AddRoutes(router)
	}

	return &StandardServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           createTracingMiddleware()(router),
			ReadHeaderTimeout: _readHeaderTimeout,
		},
		log: logger.OrNop(log),
	}
}

func (s *StandardServer) Handler() http.Handler {
	return s.server.Handler
}

// Run blocks until the server stops. A graceful Shutdown is not an error.
func (s *StandardServer) Run() error {
	s.log.Infow("metrics server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *StandardServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func createTracingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			propagator := b3.New()
			ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			ctx, span := otel.Tracer("formflow").Start(ctx, "http.request",
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.url", r.URL.String()),
					attribute.String("component", "metrics-server"),
				),
			)
			defer span.End()

			wrapped := &statusCodeResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r.WithContext(ctx))

			span.SetAttributes(attribute.Int("http.status_code", wrapped.statusCode))
		})
	}
}

type statusCodeResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusCodeResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func getHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		GetSpanFromContext(r).SetAttributes(attribute.String("endpoint", "healthz"))
		ReplyJSONResponse(w, http.StatusOK, map[string]string{"status": "success"})
	}
}

package httpserver_test

import (
	"context"
	"encoding/json"
	"formflow/internal/infra/httpserver"
	"formflow/internal/logger"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var _ = ginkgo.Describe("StandardServer", func() {
	var (
		tp       *trace.TracerProvider
		recorder *tracetest.SpanRecorder
		registry *prometheus.Registry
		handler  http.Handler
	)

	ginkgo.BeforeEach(func() {
		recorder = tracetest.NewSpanRecorder()
		tp = trace.NewTracerProvider(trace.WithSpanProcessor(recorder))
		otel.SetTracerProvider(tp)

		registry = prometheus.NewRegistry()
		counter := prometheus.NewCounter(prometheus.CounterOpts{
			Name: "formflow_test_total",
			Help: "Test counter.",
		})
		registry.MustRegister(counter)
		counter.Add(2)

		server := httpserver.NewServer(":0", registry, logger.NewNop(),
			httpserver.ControllerFunc(func(mux *http.ServeMux) {
				mux.HandleFunc("GET /snapshot", func(w http.ResponseWriter, r *http.Request) {
					httpserver.ReplyWithError(w, http.StatusNotFound, "no snapshot yet")
				})
			}),
		)
		handler = server.Handler()
	})

	ginkgo.AfterEach(func() {
		_ = tp.Shutdown(context.Background())
	})

	ginkgo.It("reports health", func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		var body map[string]string
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
		gomega.Expect(body).To(gomega.HaveKeyWithValue("status", "success"))
	})

	ginkgo.It("exposes the registry in the Prometheus text format", func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		raw, err := io.ReadAll(rec.Body)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(string(raw)).To(gomega.ContainSubstring("formflow_test_total 2"))
	})

	ginkgo.It("mounts controller routes", func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/snapshot", nil))

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("no snapshot yet"))
	})

	ginkgo.It("records a server span with the status code", func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		spans := recorder.Ended()
		gomega.Expect(spans).To(gomega.HaveLen(1))
		gomega.Expect(spans[0].Name()).To(gomega.Equal("http.request"))

		var status int64
		for _, attr := range spans[0].Attributes() {
			if attr.Key == "http.status_code" {
				status = attr.Value.AsInt64()
			}
		}
		gomega.Expect(status).To(gomega.Equal(int64(http.StatusOK)))
	})

	ginkgo.It("continues a b3 trace from the caller", func() {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("b3", "80f198ee56343ba864fe8b2a57d3eff7-e457b5a2e4d86bd1-1")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		spans := recorder.Ended()
		gomega.Expect(spans).To(gomega.HaveLen(1))
		gomega.Expect(spans[0].SpanContext().TraceID().String()).To(gomega.Equal("80f198ee56343ba864fe8b2a57d3eff7"))
	})
})

package watch

import (
	"formflow/internal/forms/domain"
	"formflow/internal/forms/usecases"
	"formflow/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
)

var _ usecases.LiveViewObserver = (*PrometheusObserver)(nil)

// PrometheusObserver mirrors a live view into Prometheus collectors:
// applied snapshots by source, dropped pushes, and the latest totals.
type PrometheusObserver struct {
	applied        *prometheus.CounterVec
	dropped        *prometheus.CounterVec
	totalResponses *prometheus.GaugeVec
	fieldCount     *prometheus.GaugeVec
	log            logger.Logger
}

func NewPrometheusObserver(registerer prometheus.Registerer, log logger.Logger) (*PrometheusObserver, error) {
	o := &PrometheusObserver{
		applied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formflow",
			Subsystem: "watch",
			Name:      "snapshots_applied_total",
			Help:      "Analytics snapshots applied to the live view, by source.",
		}, []string{"form_id", "source"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formflow",
			Subsystem: "watch",
			Name:      "pushes_dropped_total",
			Help:      "Push messages discarded as malformed or foreign.",
		}, []string{"form_id"}),
		totalResponses: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "formflow",
			Subsystem: "watch",
			Name:      "total_responses",
			Help:      "Total responses reported by the latest snapshot.",
		}, []string{"form_id"}),
		fieldCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "formflow",
			Subsystem: "watch",
			Name:      "field_answers",
			Help:      "Answers counted per field in the latest snapshot.",
		}, []string{"form_id", "field_id"}),
		log: logger.OrNop(log),
	}

	for _, c := range []prometheus.Collector{o.applied, o.dropped, o.totalResponses, o.fieldCount} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}

	return o, nil
}

func (o *PrometheusObserver) SnapshotApplied(source usecases.SnapshotSource, snapshot domain.AnalyticsSnapshot) {
	formID := snapshot.FormID.String()
	o.applied.WithLabelValues(formID, string(source)).Inc()
	o.totalResponses.WithLabelValues(formID).Set(float64(snapshot.TotalResponses))
	for _, f := range snapshot.Fields {
		o.fieldCount.WithLabelValues(formID, f.FieldID.String()).Set(float64(f.Count))
	}

	o.log.Debugw("snapshot applied",
		"form_id", formID,
		"source", source,
		"total_responses", snapshot.TotalResponses,
	)
}

func (o *PrometheusObserver) PushDropped(formID domain.ID, reason error) {
	o.dropped.WithLabelValues(formID.String()).Inc()
	o.log.Warnw("push dropped", "form_id", formID, "reason", reason)
}

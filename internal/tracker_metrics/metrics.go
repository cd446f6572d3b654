package tracker_metrics

import (
	"mixpanel-tracker/internal/tracker"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "mixpanel_tracker"

type Metrics struct {
	registry *prometheus.Registry
}

func NewMetrics() *Metrics {
	return &Metrics{
		registry: prometheus.NewRegistry(),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry нужен тестам и для регистрации внешних коллекторов.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// CollectTracker регистрирует метрики трекера и подписывается на его отчеты.
func (m *Metrics) CollectTracker(tr *tracker.Tracker) error {
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Requests to the tracking service by operation and result.",
		},
		[]string{"operation", "success"},
	)
	records := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_sent_total",
			Help:      "Events delivered in accepted requests.",
		},
		[]string{"operation"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Request duration including retries.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Operations that returned an error.",
		},
		[]string{"operation"},
	)
	deadLetters := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dead_letters_total",
			Help:      "Batches stored to the dead letter sink.",
		},
	)
	pending := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_events",
			Help:      "Events waiting in the batch.",
		},
		func() float64 {
			return float64(tr.Pending())
		},
	)

	for _, c := range []prometheus.Collector{requests, records, duration, errorsTotal, deadLetters, pending} {
		if err := m.registry.Register(c); err != nil {
			zap.L().Error(err.Error())
			return err
		}
	}

	tr.AddListener(func(report tracker.Report) {
		requests.WithLabelValues(report.Operation, strconv.FormatBool(report.Success)).Inc()
		duration.WithLabelValues(report.Operation).Observe(report.Duration.Seconds())

		if report.Success {
			records.WithLabelValues(report.Operation).Add(float64(report.Records))
		}
		if report.Err != nil {
			errorsTotal.WithLabelValues(report.Operation).Inc()
		}
		if report.DeadLettered {
			deadLetters.Inc()
		}
	})

	return nil
}

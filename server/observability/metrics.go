package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for moisture checks & outgoing messages.
type Metrics struct {
	ChecksTotal      *prometheus.CounterVec // labels: trigger={scheduled,manual}, outcome
	MessagesSent     *prometheus.CounterVec // labels: kind={alert,manual}
	MessageFailures  prometheus.Counter
	SoilMoisture     prometheus.Gauge
	LastCheckSeconds prometheus.Gauge
}

// NewMetrics creates the collectors & registers them with 'registerer'
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		ChecksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "soilsense",
			Name:      "checks_total",
			Help:      "Moisture checks run, by trigger and outcome.",
		}, []string{"trigger", "outcome"}),
		MessagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "soilsense",
			Name:      "messages_sent_total",
			Help:      "SMS messages accepted by the provider.",
		}, []string{"kind"}),
		MessageFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "soilsense",
			Name:      "message_failures_total",
			Help:      "SMS messages the provider rejected or never answered.",
		}),
		SoilMoisture: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "soilsense",
			Name:      "soil_moisture_percent",
			Help:      "Most recent soil moisture reading.",
		}),
		LastCheckSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "soilsense",
			Name:      "last_check_timestamp_seconds",
			Help:      "Unix time of the last completed moisture check.",
		}),
	}

	registerer.MustRegister(
		m.ChecksTotal,
		m.MessagesSent,
		m.MessageFailures,
		m.SoilMoisture,
		m.LastCheckSeconds,
	)

	return m
}

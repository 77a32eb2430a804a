package poller

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	ticksTotal        prometheus.Counter
	fetchErrorsTotal  prometheus.Counter
	emptyResultsTotal prometheus.Counter
	solarWatts        prometheus.Gauge
	usageWatts        prometheus.Gauge
	lastSampleAge     prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ticksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_usage",
			Name:      "ticks_total",
			Help:      "Poll loop iterations",
		}),
		fetchErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_usage",
			Name:      "fetch_errors_total",
			Help:      "Fetches that failed on the network, the HTTP status or the response body",
		}),
		emptyResultsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_usage",
			Name:      "empty_results_total",
			Help:      "Successful fetches that returned no new samples",
		}),
		solarWatts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "solar_usage",
			Name:      "solar_watts",
			Help:      "Last displayed solar generation",
		}),
		usageWatts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "solar_usage",
			Name:      "usage_watts",
			Help:      "Last displayed home power draw",
		}),
		lastSampleAge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "solar_usage",
			Name:      "last_sample_age_seconds",
			Help:      "Age of the newest sample on display",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.ticksTotal,
			m.fetchErrorsTotal,
			m.emptyResultsTotal,
			m.solarWatts,
			m.usageWatts,
			m.lastSampleAge,
		)
	}
	return m
}

// Package metrics exposes Prometheus collectors for commands and storage.
// Each Metrics owns its registry so several runtimes can live in one process.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "listx"

// Metrics groups the collectors of one runtime. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	reg *prometheus.Registry

	commands        *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	readBytes       prometheus.Counter
	readDuration    prometheus.Histogram
	commitOps       prometheus.Counter
	commitBytes     prometheus.Counter
	commitDuration  prometheus.Histogram
}

// New builds and registers the collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands executed, by command name and outcome.",
		}, []string{"command", "status"}),
		commandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Command execution latency.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 10),
		}, []string{"command"}),
		readBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "read_bytes_total",
			Help:      "Bytes returned by point reads.",
		}),
		readDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "read_duration_seconds",
			Help:      "Point read latency.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		commitOps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "batch_ops_total",
			Help:      "Operations committed through batches.",
		}),
		commitBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "batch_bytes_total",
			Help:      "Encoded batch bytes committed.",
		}),
		commitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "batch_commit_duration_seconds",
			Help:      "Batch commit latency.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 10),
		}),
	}
	reg.MustRegister(
		m.commands, m.commandDuration,
		m.readBytes, m.readDuration,
		m.commitOps, m.commitBytes, m.commitDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// ObserveCommand records one command execution.
func (m *Metrics) ObserveCommand(name, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(name, status).Inc()
	m.commandDuration.WithLabelValues(name).Observe(elapsed.Seconds())
}

// ObserveRead implements pebblestore.MetricsHook.
func (m *Metrics) ObserveRead(elapsed time.Duration, bytes int) {
	if m == nil {
		return
	}
	m.readBytes.Add(float64(bytes))
	m.readDuration.Observe(elapsed.Seconds())
}

// ObserveBatchCommit implements pebblestore.MetricsHook.
func (m *Metrics) ObserveBatchCommit(elapsed time.Duration, numOps int, bytes int) {
	if m == nil {
		return
	}
	m.commitOps.Add(float64(numOps))
	m.commitBytes.Add(float64(bytes))
	m.commitDuration.Observe(elapsed.Seconds())
}

// RegisterGauge exposes fn as a gauge sampled at scrape time.
func (m *Metrics) RegisterGauge(name, help string, fn func() float64) error {
	if m == nil {
		return nil
	}
	return m.reg.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, fn))
}

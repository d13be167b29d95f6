// Package metrics exposes reader counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nmea-reader/internal/nmea"
)

const namespace = "nmea_reader"

// Metrics counts what flows through the framer and decoder.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	reg *prometheus.Registry

	bytesRead      prometheus.Counter
	lines          prometheus.Counter
	sentences      *prometheus.CounterVec
	checksumErrors prometheus.Counter
	ignored        prometheus.Counter
	sourceErrors   *prometheus.CounterVec
	pending        prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		bytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_read_total",
			Help:      "Bytes received from the GNSS source.",
		}),
		lines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_framed_total",
			Help:      "Non-empty lines framed from the byte stream.",
		}),
		sentences: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentences_total",
			Help:      "Checksum-valid sentences by decoded kind.",
		}, []string{"kind"}),
		checksumErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checksum_errors_total",
			Help:      "Sentences rejected for a bad checksum.",
		}),
		ignored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_ignored_total",
			Help:      "Lines dropped for not starting with '$'.",
		}),
		sourceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_errors_total",
			Help:      "Transport errors by source.",
		}, []string{"source"}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "framer_pending_bytes",
			Help:      "Bytes buffered for the unterminated line.",
		}),
	}
	m.reg.MustRegister(
		m.bytesRead,
		m.lines,
		m.sentences,
		m.checksumErrors,
		m.ignored,
		m.sourceErrors,
		m.pending,
		prometheus.NewGoCollector(),
	)
	return m
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveChunk(n int, lines int, pending int) {
	if m == nil {
		return
	}
	m.bytesRead.Add(float64(n))
	m.lines.Add(float64(lines))
	m.pending.Set(float64(pending))
}

func (m *Metrics) ObserveSentence(kind nmea.Kind) {
	if m == nil {
		return
	}
	m.sentences.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) ObserveChecksumError() {
	if m == nil {
		return
	}
	m.checksumErrors.Inc()
}

func (m *Metrics) ObserveIgnored() {
	if m == nil {
		return
	}
	m.ignored.Inc()
}

func (m *Metrics) ObserveSourceError(source string) {
	if m == nil {
		return
	}
	m.sourceErrors.WithLabelValues(source).Inc()
}

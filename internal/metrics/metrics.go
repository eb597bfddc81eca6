// Package metrics counts codec and store activity with Prometheus counters
// and exports them in the node_exporter textfile format.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/isseis/go-path-filename/internal/artifactstore"
	"github.com/isseis/go-path-filename/internal/pathname"
)

// Decode error kinds used as the "kind" label.
const (
	KindUnknownIcon     = "unknown_icon"
	KindMalformedEscape = "malformed_escape"
	KindNonCanonical    = "non_canonical"
	KindOther           = "other"
)

// Metrics holds the counters for one process. Each Metrics owns its own
// registry so that tests and commands do not share state.
type Metrics struct {
	registry *prometheus.Registry

	Encoded        prometheus.Counter
	EncodeErrors   prometheus.Counter
	Decoded        prometheus.Counter
	DecodeErrors   *prometheus.CounterVec
	FallbackNames  prometheus.Counter
	GeneratedNames prometheus.Counter
}

var _ artifactstore.Observer = (*Metrics)(nil)

// New creates and registers the counters.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Encoded: factory.NewCounter(prometheus.CounterOpts{
			Name: "pathname_encoded_total",
			Help: "Total number of paths encoded to filenames",
		}),
		EncodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "pathname_encode_errors_total",
			Help: "Total number of paths whose encoding exceeded the length limit",
		}),
		Decoded: factory.NewCounter(prometheus.CounterOpts{
			Name: "pathname_decoded_total",
			Help: "Total number of filenames decoded to paths",
		}),
		DecodeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pathname_decode_errors_total",
				Help: "Total number of filenames that could not be decoded",
			},
			[]string{"kind"},
		),
		FallbackNames: factory.NewCounter(prometheus.CounterOpts{
			Name: "pathname_store_fallback_names_total",
			Help: "Total number of record names that fell back to a hash",
		}),
		GeneratedNames: factory.NewCounter(prometheus.CounterOpts{
			Name: "pathname_store_names_total",
			Help: "Total number of record names chosen by the store",
		}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveEncode records the outcome of one ToFilename call.
func (m *Metrics) ObserveEncode(err error) {
	if err != nil {
		m.EncodeErrors.Inc()
		return
	}
	m.Encoded.Inc()
}

// ObserveDecode records the outcome of one ToPath call.
func (m *Metrics) ObserveDecode(err error) {
	if err != nil {
		m.DecodeErrors.WithLabelValues(ErrorKind(err)).Inc()
		return
	}
	m.Decoded.Inc()
}

// ObserveName records a store naming decision.
func (m *Metrics) ObserveName(fallback bool) {
	m.GeneratedNames.Inc()
	if fallback {
		m.FallbackNames.Inc()
	}
}

// WriteTextfile writes all counters to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

// ErrorKind maps a decode error to its label value.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, pathname.ErrUnknownIcon):
		return KindUnknownIcon
	case errors.Is(err, pathname.ErrMalformedEscape):
		return KindMalformedEscape
	case errors.Is(err, pathname.ErrNonCanonical):
		return KindNonCanonical
	default:
		return KindOther
	}
}

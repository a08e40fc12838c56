// Package metrics exports operation timings to Prometheus and reads runtime
// memory statistics for the verbose reports.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/agbru/limbcalc/internal/errors"
)

// Status label values of limbcalc_operations_total.
const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusCanceled = "canceled"
	StatusMismatch = "mismatch"
)

// Recorder owns a private registry so that several recorders can coexist
// in one process.
type Recorder struct {
	registry *prometheus.Registry
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
	limbs    *prometheus.HistogramVec
}

// NewRecorder returns a recorder with the operation metrics and the Go
// runtime and process collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "limbcalc_operation_seconds",
			Help:    "Wall time of one operation per strategy.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 14),
		}, []string{"op", "algorithm"}),
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "limbcalc_operations_total",
			Help: "Operations run, by outcome.",
		}, []string{"op", "status"}),
		limbs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "limbcalc_operand_limbs",
			Help:    "Operand length of each operation in limbs.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		}, []string{"op"}),
	}
	r.registry.MustRegister(
		r.duration, r.total, r.limbs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry returns the recorder's registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Observe records one run of algorithm on op.
func (r *Recorder) Observe(op, algorithm string, limbs int, d time.Duration, err error) {
	r.duration.WithLabelValues(op, algorithm).Observe(d.Seconds())
	r.limbs.WithLabelValues(op).Observe(float64(limbs))
	r.total.WithLabelValues(op, statusOf(err)).Inc()
}

// ObserveMismatch counts a cross-check failure of op.
func (r *Recorder) ObserveMismatch(op string) {
	r.total.WithLabelValues(op, StatusMismatch).Inc()
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case apperrors.IsContextError(err):
		return StatusCanceled
	default:
		return StatusError
	}
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Serve exposes Handler on addr under /metrics until stop is called or ctx
// ends. The listener is bound before Serve returns, so a busy port is
// reported immediately.
func (r *Recorder) Serve(ctx context.Context, addr string) (stop func(), err error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, apperrors.WrapError(err, "metrics listener on %s", addr)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = ln.Close()
		}
	}()

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }, nil
}

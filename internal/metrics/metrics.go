package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wcp"

var (
	registerOnce sync.Once

	parseTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_total",
			Help:      "Waveform files parsed, by input format and result.",
		},
		[]string{"format", "result"},
	)
	parseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Waveform parse duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"format"},
	)
	exportTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_total",
			Help:      "VCD exports rendered.",
		},
	)
	openFiles = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "open_files",
			Help:      "Waveforms currently held by the store.",
		},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	watchConversions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "conversions_total",
			Help:      "Files converted by the watcher, by result.",
		},
		[]string{"result"},
	)
)

// Register adds the collectors to the default registry. Safe to call
// repeatedly.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(parseTotal, parseDuration, exportTotal, openFiles, httpRequests, watchConversions)
	})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func RecordParse(format string, d time.Duration, err error) {
	Register()
	parseTotal.WithLabelValues(format, result(err)).Inc()
	parseDuration.WithLabelValues(format).Observe(d.Seconds())
}

func RecordExport() {
	Register()
	exportTotal.Inc()
}

// SetOpenFiles reports the current store size.
func SetOpenFiles(n int) {
	Register()
	openFiles.Set(float64(n))
}

func RecordHTTPRequest(method, path string, status int) {
	Register()
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

func RecordConversion(err error) {
	Register()
	watchConversions.WithLabelValues(result(err)).Inc()
}

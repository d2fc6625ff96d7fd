package curvedata

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// metricsOnce ensures metrics are registered only once
	metricsOnce sync.Once

	// calibrationsTotal tracks calibration calls by curve and outcome
	calibrationsTotal *prometheus.CounterVec

	// calibrationDuration tracks latency of single calibrations
	calibrationDuration prometheus.Histogram

	// curveFetchErrorsTotal tracks curve download/parse errors by type
	curveFetchErrorsTotal *prometheus.CounterVec

	// curvePointsLoaded tracks the size of each loaded curve
	curvePointsLoaded *prometheus.GaugeVec

	// hpdIntervalCount tracks how fragmented the 95.4% region comes out
	hpdIntervalCount prometheus.Histogram
)

// InitMetrics registers all Prometheus metrics for the calibration service.
// This should be called once at application startup.
func InitMetrics() {
	metricsOnce.Do(func() {
		calibrationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carbondate_calibrations_total",
				Help: "Total number of calibration calls by curve and status",
			},
			[]string{"curve", "status"},
		)

		calibrationDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "carbondate_calibration_duration_seconds",
				Help:    "Duration of single calibration calls in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
		)

		curveFetchErrorsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carbondate_curve_fetch_errors_total",
				Help: "Total number of curve download or parse errors by error type",
			},
			[]string{"error_type"},
		)

		curvePointsLoaded = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "carbondate_curve_points_loaded",
				Help: "Number of tabulated points in each loaded calibration curve",
			},
			[]string{"curve"},
		)

		hpdIntervalCount = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "carbondate_hpd95_interval_count",
				Help:    "Number of disjoint intervals in the 95.4% HPD region",
				Buckets: []float64{1, 2, 3, 4, 5, 8},
			},
		)
	})
}

// RecordCalibration records a completed calibration call
// status: "ok", "invalid_input", "missing_curve", "error"
func RecordCalibration(curve, status string) {
	if calibrationsTotal != nil {
		calibrationsTotal.WithLabelValues(curve, status).Inc()
	}
}

// RecordCalibrationDuration records the duration of one calibration call
func RecordCalibrationDuration(duration time.Duration) {
	if calibrationDuration != nil {
		calibrationDuration.Observe(duration.Seconds())
	}
}

// RecordFetchError records a curve fetch error by type
// errorType: "timeout", "rate_limit", "server_error", "connection", "parse", "circuit_open", "http_error"
func RecordFetchError(errorType string) {
	if curveFetchErrorsTotal != nil {
		curveFetchErrorsTotal.WithLabelValues(errorType).Inc()
	}
}

// RecordCurveLoaded records the point count of a loaded curve
func RecordCurveLoaded(curve string, points int) {
	if curvePointsLoaded != nil {
		curvePointsLoaded.WithLabelValues(curve).Set(float64(points))
	}
}

// RecordHPDIntervals records how many disjoint intervals the 95.4% region has
func RecordHPDIntervals(count int) {
	if hpdIntervalCount != nil {
		hpdIntervalCount.Observe(float64(count))
	}
}

// CalibrationTimer is a helper for timing calibration calls
type CalibrationTimer struct {
	start time.Time
}

// StartTimer creates a new timer for measuring calibration duration
func StartTimer() *CalibrationTimer {
	return &CalibrationTimer{start: time.Now()}
}

// ObserveDuration records the elapsed time since the timer started
func (t *CalibrationTimer) ObserveDuration() {
	if t != nil {
		RecordCalibrationDuration(time.Since(t.start))
	}
}

package monitoring

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Pipeline metrics
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "direction_pipeline_runs_total",
			Help: "Total number of pipeline runs by outcome",
		},
		[]string{"outcome"},
	)

	datasetRows = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "direction_pipeline_dataset_rows",
			Help: "Retained rows in the assembled dataset",
		},
		[]string{"asset"},
	)

	gridEvaluationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "direction_pipeline_grid_evaluations_total",
			Help: "Total number of hyperparameter combinations scored",
		},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "direction_pipeline_errors_total",
			Help: "Total number of errors by category",
		},
		[]string{"category"},
	)
)

func init() {
	prometheus.MustRegister(runsTotal)
	prometheus.MustRegister(datasetRows)
	prometheus.MustRegister(gridEvaluationsTotal)
	prometheus.MustRegister(errorsTotal)
}

// RecordRun records a completed pipeline run
func RecordRun(outcome string) {
	runsTotal.WithLabelValues(outcome).Inc()
}

// RecordDatasetRows records the assembled dataset size
func RecordDatasetRows(asset string, rows int) {
	datasetRows.WithLabelValues(asset).Set(float64(rows))
}

// RecordGridEvaluations records scored grid combinations
func RecordGridEvaluations(count int) {
	gridEvaluationsTotal.Add(float64(count))
}

// RecordError records an error by category
func RecordError(category string) {
	errorsTotal.WithLabelValues(category).Inc()
}

// Serve exposes the metrics endpoint on the given port. It blocks, so run
// it in its own goroutine.
func Serve(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}

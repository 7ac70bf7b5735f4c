package logs

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Subsystem metric prefix name
	Subsystem = "yarnlogs"
)

/* metric label values */
const (
	SourceLive    = "live"
	SourceArchive = "archive"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	// ContainerRetrievals metric of containers processed by source and outcome
	ContainerRetrievals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: Subsystem,
			Name:      "container_retrievals_total",
			Help:      "Number of container log retrievals",
		},
		[]string{"source", "outcome"},
	)
	// FilesFetched metric of log files written by source
	FilesFetched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: Subsystem,
			Name:      "files_fetched_total",
			Help:      "Number of log files fetched",
		},
		[]string{"source"},
	)
	// BytesFetched metric of log bytes written by source
	BytesFetched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: Subsystem,
			Name:      "bytes_fetched_total",
			Help:      "Number of log bytes fetched",
		},
		[]string{"source"},
	)
)

// Register all metrics
func init() {
	prometheus.MustRegister(ContainerRetrievals, FilesFetched, BytesFetched)
}

func observeContainer(source string, result int) {
	outcome := OutcomeSuccess
	if result != ResultSuccess {
		outcome = OutcomeFailure
	}
	ContainerRetrievals.WithLabelValues(source, outcome).Inc()
}

// ObserveFile count one fetched log file of n bytes
func ObserveFile(source string, n int64) {
	FilesFetched.WithLabelValues(source).Inc()
	if n > 0 {
		BytesFetched.WithLabelValues(source).Add(float64(n))
	}
}

// WriteMetrics write all registered metrics to file in the text exposition format
func WriteMetrics(file string) error {
	return prometheus.WriteToTextfile(file, prometheus.DefaultGatherer)
}

package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects the per-run counters/histograms a collaborator may want
// to scrape, scoped to analysis stages rather than the teacher's
// ingestion-pipeline counters.
type Metrics struct {
	EntriesParsed   prometheus.Counter
	ParseWarnings   *prometheus.CounterVec
	StageDuration   *prometheus.HistogramVec
	ClustersFound   prometheus.Counter
	OperationsTimed prometheus.Counter
	Orphans         prometheus.Counter
}

// NewMetrics registers a fresh set of metrics against reg. Pass a new
// prometheus.Registry per run (or prometheus.NewRegistry()) in tests to
// avoid duplicate-registration panics across runs.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		EntriesParsed: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "loganalyzer",
			Name:      "entries_parsed_total",
			Help:      "Total log entries successfully parsed.",
		}),
		ParseWarnings: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "loganalyzer",
			Name:      "parse_warnings_total",
			Help:      "Total non-fatal parse warnings, by code.",
		}, []string{"code"}),
		StageDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "loganalyzer",
			Name:      "stage_duration_seconds",
			Help:      "Wall time spent in each analysis stage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		ClustersFound: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "loganalyzer",
			Name:      "error_clusters_total",
			Help:      "Total distinct error clusters found.",
		}),
		OperationsTimed: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "loganalyzer",
			Name:      "operations_timed_total",
			Help:      "Total successfully paired/timed operations.",
		}),
		Orphans: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "loganalyzer",
			Name:      "orphans_total",
			Help:      "Total unpaired operation starts.",
		}),
	}
}

package observability

import (
	"time"

	"github.com/hupe1980/geoshard"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "geoshard"

var _ geoshard.MetricsCollector = (*Collector)(nil)

// Collector implements geoshard.MetricsCollector on top of Prometheus
// metrics.
type Collector struct {
	opLatency        *prometheus.HistogramVec
	partitions       *prometheus.GaugeVec
	partitionBuilds  *prometheus.CounterVec
	partitionsProbed *prometheus.CounterVec
	results          *prometheus.CounterVec
	predicateErrors  *prometheus.CounterVec
}

// NewCollector creates a collector and registers its metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of scheme builds, index builds, queries and joins",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "status"}),
		partitions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scheme_partitions",
			Help:      "Partition count of the most recent scheme per strategy",
		}, []string{"strategy"}),
		partitionBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partition_index_builds_total",
			Help:      "Per-partition index builds",
		}, []string{"kind", "status"}),
		partitionsProbed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partitions_probed_total",
			Help:      "Partition indexes probed by queries, or partition pairs by joins",
		}, []string{"op"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_total",
			Help:      "Records or pairs returned",
		}, []string{"op"}),
		predicateErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "join_predicate_errors_total",
			Help:      "Join candidate pairs excluded because the predicate failed",
		}, []string{"predicate"}),
	}

	for _, m := range []prometheus.Collector{
		c.opLatency,
		c.partitions,
		c.partitionBuilds,
		c.partitionsProbed,
		c.results,
		c.predicateErrors,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordSchemeBuild implements geoshard.MetricsCollector.
func (c *Collector) RecordSchemeBuild(strategy string, partitions int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("scheme_build", status(err)).Observe(d.Seconds())
	if err == nil {
		c.partitions.WithLabelValues(strategy).Set(float64(partitions))
	}
}

// RecordIndexBuild implements geoshard.MetricsCollector.
func (c *Collector) RecordIndexBuild(kind string, partitions, failed int, d time.Duration) {
	st := "success"
	if failed > 0 {
		st = "partial"
	}
	c.opLatency.WithLabelValues("index_build", st).Observe(d.Seconds())
	c.partitionBuilds.WithLabelValues(kind, "success").Add(float64(partitions - failed))
	c.partitionBuilds.WithLabelValues(kind, "error").Add(float64(failed))
}

// RecordQuery implements geoshard.MetricsCollector.
func (c *Collector) RecordQuery(op string, probed, results int, d time.Duration, err error) {
	c.opLatency.WithLabelValues(op, status(err)).Observe(d.Seconds())
	c.partitionsProbed.WithLabelValues(op).Add(float64(probed))
	c.results.WithLabelValues(op).Add(float64(results))
}

// RecordJoin implements geoshard.MetricsCollector.
func (c *Collector) RecordJoin(predicate string, partitionPairs, results int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("join", status(err)).Observe(d.Seconds())
	c.partitionsProbed.WithLabelValues("join").Add(float64(partitionPairs))
	c.results.WithLabelValues("join").Add(float64(results))
}

// RecordPredicateError implements geoshard.MetricsCollector.
func (c *Collector) RecordPredicateError(predicate string) {
	c.predicateErrors.WithLabelValues(predicate).Inc()
}

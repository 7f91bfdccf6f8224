package geoshard

import (
	"fmt"
	"log/slog"

	"github.com/hupe1980/geoshard/engine"
	"github.com/hupe1980/geoshard/partition"
	"github.com/hupe1980/geoshard/resource"
	"github.com/hupe1980/geoshard/sampler"
)

type options struct {
	executor         engine.Executor
	parallelism      int
	metricsCollector MetricsCollector
	logger           *Logger
	logLevel         *slog.Level
	resources        resource.Config
}

// Option configures an Engine.
type Option func(*options)

// WithExecutor runs per-partition work on ex. The caller keeps ownership:
// Engine.Close does not close ex.
func WithExecutor(ex engine.Executor) Option {
	return func(o *options) {
		o.executor = ex
	}
}

// WithParallelism sets the size of the worker pool the engine creates when
// no executor is given. Values <= 0 use GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &geoshard.BasicMetricsCollector{}
//	eng, _ := geoshard.New(geoshard.WithMetricsCollector(metrics))
//	// ... build and query ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, Avg latency: %dns\n", stats.QueryCount, stats.QueryAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := geoshard.NewJSONLogger(slog.LevelInfo)
//	eng, _ := geoshard.New(geoshard.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel enables text logging to stderr at the given level. It is
// ignored when WithLogger is also given.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logLevel = &level
	}
}

// WithResourceConfig limits the memory held by partition indexes and the
// number and rate of concurrent index probes.
func WithResourceConfig(cfg resource.Config) Option {
	return func(o *options) {
		o.resources = cfg
	}
}

func applyOptions(optFns []Option) (options, error) {
	var o options
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.resources.MemoryLimitBytes < 0 || o.resources.MaxConcurrentProbes < 0 || o.resources.ProbesPerSecond < 0 {
		return o, fmt.Errorf("%w: negative resource limit", ErrInvalidArgument)
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		if o.logLevel != nil {
			o.logger = NewTextLogger(*o.logLevel)
		} else {
			o.logger = NoopLogger()
		}
	}
	return o, nil
}

type schemeOptions struct {
	spec         sampler.Spec
	seed         int64
	hilbertOrder int
	iterations   int
}

// SchemeOption configures sampling and partitioning.
type SchemeOption func(*schemeOptions)

// WithSampleFraction samples the fraction f (0 < f <= 1) of the dataset.
// Without a sample option the size follows sampler.DefaultSize.
func WithSampleFraction(f float64) SchemeOption {
	return func(o *schemeOptions) {
		o.spec = sampler.Fraction(f)
	}
}

// WithSampleSize samples k records.
func WithSampleSize(k int) SchemeOption {
	return func(o *schemeOptions) {
		o.spec = sampler.Size(k)
	}
}

// WithSeed seeds sampling and Voronoi seed selection. The default is 0, so
// schemes are reproducible unless a different seed is given.
func WithSeed(seed int64) SchemeOption {
	return func(o *schemeOptions) {
		o.seed = seed
	}
}

// WithHilbertOrder sets the Hilbert curve order (1..31, default 16).
func WithHilbertOrder(order int) SchemeOption {
	return func(o *schemeOptions) {
		o.hilbertOrder = order
	}
}

// WithVoronoiIterations sets the number of k-means iterations used to
// place Voronoi seeds (default 10).
func WithVoronoiIterations(n int) SchemeOption {
	return func(o *schemeOptions) {
		o.iterations = n
	}
}

func applySchemeOptions(optFns []SchemeOption) schemeOptions {
	o := schemeOptions{
		hilbertOrder: partition.DefaultHilbertOrder,
		iterations:   partition.DefaultIterations,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o schemeOptions) partitionOptions() []partition.Option {
	return []partition.Option{
		partition.WithSeed(o.seed),
		partition.WithHilbertOrder(o.hilbertOrder),
		partition.WithIterations(o.iterations),
	}
}

type queryOptions struct {
	containedOnly bool
}

// QueryOption configures a range query.
type QueryOption func(*queryOptions)

// WithContainedOnly restricts a range query to records lying entirely
// inside the window. By default any record intersecting the window matches.
func WithContainedOnly() QueryOption {
	return func(o *queryOptions) {
		o.containedOnly = true
	}
}

func applyQueryOptions(optFns []QueryOption) queryOptions {
	var o queryOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

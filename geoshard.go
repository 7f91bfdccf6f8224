package geoshard

import (
	"sync/atomic"

	"github.com/hupe1980/geoshard/engine"
	"github.com/hupe1980/geoshard/geom"
	"github.com/hupe1980/geoshard/resource"
)

// Engine carries everything an operation needs: the executor, the logger,
// the metrics collector and the resource controller. Engines share no
// state, so several can run side by side in one process.
//
// An Engine is safe for concurrent use.
type Engine struct {
	executor  engine.Executor
	ownedPool *engine.Parallel
	logger    *Logger
	metrics   MetricsCollector
	resources *resource.Controller

	versions atomic.Uint64
	closed   atomic.Bool
}

// New creates an engine. Unless WithExecutor is given, the engine owns a
// parallel executor that Close shuts down.
func New(optFns ...Option) (*Engine, error) {
	opts, err := applyOptions(optFns)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		executor:  opts.executor,
		logger:    opts.logger,
		metrics:   opts.metricsCollector,
		resources: resource.NewController(opts.resources),
	}
	if e.executor == nil {
		e.ownedPool = engine.NewParallel(opts.parallelism)
		e.executor = e.ownedPool
	}
	return e, nil
}

// Close releases the engine's worker pool. Datasets built by the engine
// stay readable through other engines' queries but the engine itself
// rejects further operations with ErrClosed. Close is idempotent.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	if e.ownedPool != nil {
		e.ownedPool.Close()
	}
	return nil
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *Logger { return e.logger }

// MemoryUsage returns the bytes currently reserved by live indexes.
func (e *Engine) MemoryUsage() int64 { return e.resources.MemoryUsage() }

func (e *Engine) checkOpen() error {
	if e.closed.Load() {
		return ErrClosed
	}
	return nil
}

// NewDataset validates records and wraps them as a new Raw dataset
// version. Records with malformed geometry fail with ErrInvalidGeometry,
// repeated ids with *ErrDuplicateID.
func (e *Engine) NewDataset(records []geom.Record) (*Dataset, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}

	ds := &Dataset{
		records: make([]geom.Record, len(records)),
		byID:    make(map[uint64]int, len(records)),
		extent:  geom.EmptyEnvelope(),
	}
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, dup := ds.byID[r.ID]; dup {
			return nil, &ErrDuplicateID{ID: r.ID}
		}
		ds.byID[r.ID] = i
		ds.records[i] = r
		ds.extent = ds.extent.Union(r.Envelope())
	}
	ds.version = e.versions.Add(1)
	return ds, nil
}

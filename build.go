package geoshard

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/hupe1980/geoshard/engine"
	"github.com/hupe1980/geoshard/index"
	"github.com/hupe1980/geoshard/partition"
	"github.com/hupe1980/geoshard/sampler"
)

const (
	// entryFootprint estimates the bytes an index holds per entry,
	// including its share of tree nodes.
	entryFootprint = 96
	// partitionFootprint is the fixed cost of one partition index.
	partitionFootprint = 512
)

// Sample draws the sample a partition scheme is computed from. The sample
// size is taken from WithSampleFraction or WithSampleSize, falling back to
// sampler.DefaultSize for numPartitions.
func (e *Engine) Sample(ds *Dataset, numPartitions int, optFns ...SchemeOption) (*Sample, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, fmt.Errorf("%w: nil dataset", ErrInvalidArgument)
	}
	opts := applySchemeOptions(optFns)
	return e.sample(ds, numPartitions, opts)
}

func (e *Engine) sample(ds *Dataset, numPartitions int, opts schemeOptions) (*Sample, error) {
	spec := opts.spec
	if spec == (sampler.Spec{}) {
		if ds.Len() == 0 {
			return &Sample{dataset: ds}, nil
		}
		spec = sampler.Size(sampler.DefaultSize(ds.Len(), numPartitions))
	}

	rng := rand.New(rand.NewSource(opts.seed))
	records, err := sampler.Draw(ds.records, spec, rng)
	if err != nil {
		return nil, translateError(err)
	}
	return &Sample{dataset: ds, records: records}, nil
}

// PartitionSample computes a partition scheme from an existing sample.
func (e *Engine) PartitionSample(ctx context.Context, s *Sample, numPartitions int, strategy partition.Strategy, optFns ...SchemeOption) (*partition.Scheme, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: nil sample", ErrInvalidArgument)
	}
	return e.partitionSample(ctx, s, numPartitions, strategy, applySchemeOptions(optFns))
}

func (e *Engine) partitionSample(ctx context.Context, s *Sample, numPartitions int, strategy partition.Strategy, opts schemeOptions) (*partition.Scheme, error) {
	start := time.Now()
	logger := e.logger.WithDataset(s.dataset.version).WithStrategy(strategy.String())

	scheme, err := partition.Compute(ctx, s.records, numPartitions, strategy, opts.partitionOptions()...)
	err = translateError(err)

	actual := 0
	if scheme != nil {
		actual = scheme.Len()
	}
	logger.LogSchemeBuilt(ctx, len(s.records), numPartitions, actual, err)
	e.metrics.RecordSchemeBuild(strategy.String(), actual, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return scheme, nil
}

// BuildPartitionScheme samples ds and computes a scheme of numPartitions
// partitions with the given strategy. The partition count is reduced when
// the sample has fewer distinct locations; an empty dataset yields a single
// partition with an empty boundary.
func (e *Engine) BuildPartitionScheme(ctx context.Context, ds *Dataset, numPartitions int, strategy partition.Strategy, optFns ...SchemeOption) (*partition.Scheme, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, fmt.Errorf("%w: nil dataset", ErrInvalidArgument)
	}
	if numPartitions < 1 {
		return nil, translateError(fmt.Errorf("%w: %d", partition.ErrInvalidPartitionCount, numPartitions))
	}

	opts := applySchemeOptions(optFns)
	s, err := e.sample(ds, numPartitions, opts)
	if err != nil {
		return nil, err
	}
	return e.partitionSample(ctx, s, numPartitions, strategy, opts)
}

// BuildIndex assigns every record of ds to the partitions of scheme whose
// boundary its envelope intersects and builds one index of the given kind
// per partition.
//
// Records are replicated into every intersecting partition; a record
// outside every boundary goes to the nearest partition. Partition builds
// run through the engine's executor. When some partitions fail (for
// example because the memory budget is exhausted) BuildIndex returns the
// IndexedDataset together with a *PartialBuildError; queries touching a
// failed partition fail with ErrNotQueryable.
func (e *Engine) BuildIndex(ctx context.Context, ds *Dataset, scheme *partition.Scheme, kind index.Kind, optFns ...index.Option) (*IndexedDataset, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	if ds == nil || scheme == nil {
		return nil, fmt.Errorf("%w: nil dataset or scheme", ErrInvalidArgument)
	}
	if _, err := index.Build(kind, nil, optFns...); err != nil {
		return nil, translateError(err)
	}

	start := time.Now()
	logger := e.logger.WithDataset(ds.version)

	buckets := make([][]index.Entry, scheme.Len())
	owned := make([]int, scheme.Len())
	for _, r := range ds.records {
		env := r.Envelope()
		ids := scheme.Assign(env, partition.ModeReplicate)
		owned[scheme.Owner(env)]++
		for _, p := range ids {
			buckets[p] = append(buckets[p], index.Entry{ID: r.ID, Envelope: env})
		}
	}

	parts := make([]*partitionIndex, scheme.Len())
	for p, d := range scheme.Descriptors() {
		effective := d.Boundary
		for _, en := range buckets[p] {
			effective = effective.Union(en.Envelope)
		}
		parts[p] = &partitionIndex{
			id:        p,
			boundary:  d.Boundary,
			effective: effective,
			entries:   len(buckets[p]),
			owned:     owned[p],
		}
	}

	err := e.executor.Map(ctx, len(parts), func(ctx context.Context, p int) error {
		part := parts[p]
		mem := int64(partitionFootprint + entryFootprint*part.entries)
		if err := e.resources.ReserveMemory(mem); err != nil {
			part.err = err
			return err
		}
		part.memory = mem

		ix, err := index.Build(kind, buckets[p], optFns...)
		if err != nil {
			part.err = err
			return err
		}
		part.index = ix
		logger.WithPartition(p).WithCount(part.entries).DebugContext(ctx, "partition index built")
		return nil
	})

	release := func() {
		for _, part := range parts {
			e.resources.ReleaseMemory(part.memory)
		}
	}

	var failures []PartitionFailure
	var mapErr *engine.MapError
	switch {
	case err == nil:
	case errors.As(err, &mapErr) && ctx.Err() == nil:
		for _, f := range mapErr.Failures {
			if parts[f.Partition].err == nil {
				parts[f.Partition].err = f.Err
			}
			failures = append(failures, PartitionFailure{Partition: f.Partition, Err: f.Err})
		}
	default:
		release()
		err = translateError(err)
		logger.LogIndexBuilt(ctx, kind.String(), len(parts), 0, err)
		e.metrics.RecordIndexBuild(kind.String(), len(parts), len(parts), time.Since(start))
		return nil, err
	}

	lookupEntries := make([]index.Entry, 0, len(parts))
	for _, part := range parts {
		if !part.effective.IsEmpty() {
			lookupEntries = append(lookupEntries, index.Entry{ID: uint64(part.id), Envelope: part.effective})
		}
	}
	lookup, lerr := index.Build(index.KindRTree, lookupEntries)
	if lerr != nil {
		release()
		return nil, translateError(lerr)
	}

	ix := &IndexedDataset{
		dataset: ds,
		scheme:  scheme,
		kind:    kind,
		parts:   parts,
		lookup:  lookup,
		release: e.resources.ReleaseMemory,
	}

	var buildErr error
	if len(failures) > 0 {
		buildErr = &PartialBuildError{Failures: failures, Total: len(parts)}
	}
	logger.LogIndexBuilt(ctx, kind.String(), len(parts), len(failures), buildErr)
	e.metrics.RecordIndexBuild(kind.String(), len(parts), len(failures), time.Since(start))

	if buildErr != nil {
		return ix, buildErr
	}
	return ix, nil
}

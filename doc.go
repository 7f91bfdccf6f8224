// Package geoshard partitions collections of 2-D geometric records and
// builds a spatial index per partition, so that range queries, spatial joins
// and nearest-neighbour queries prune partitions and probe indexes instead
// of scanning every record.
//
// # Quick Start
//
//	eng, _ := geoshard.New(geoshard.WithParallelism(4))
//	defer eng.Close()
//
//	ds, _ := eng.NewDataset(records)
//	scheme, _ := eng.BuildPartitionScheme(ctx, ds, 16, partition.StrategySTR)
//	idx, _ := eng.BuildIndex(ctx, ds, scheme, index.KindRTree)
//	defer idx.Close()
//
//	rs, _ := eng.RangeQuery(ctx, idx, geom.MustRectangle(0, 0, 10, 10))
//	for _, r := range rs.Results() {
//	    fmt.Println(r.RecordID, r.Geometry)
//	}
//
// # Lifecycle
//
// Every dataset version moves through a fixed sequence of states:
//
//	Raw (Dataset) -> Sampled (Sample) -> Partitioned (partition.Scheme)
//	              -> Indexed -> Queryable (IndexedDataset)
//
// Transitions never mutate their input. Re-partitioning or re-indexing
// produces a new IndexedDataset; queries running against an older one keep
// their snapshot.
//
// # Boundary Replication
//
// A record whose envelope straddles several partition boundaries is indexed
// in all of them. Query results are deduplicated by record id (or id pair
// for joins) in a single merge step, so every result set is duplicate-free.
// For counting, each record is owned by the lowest-numbered partition it
// touches.
//
// # Execution
//
// Per-partition index builds and probes are independent tasks run through
// an engine.Executor. The engine owns a Parallel executor by default; pass
// WithExecutor(engine.Sequential{}) for single-goroutine execution.
package geoshard

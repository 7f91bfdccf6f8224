// Package partition computes spatial partition schemes from a sample of
// records and assigns records to partitions.
//
// Four strategies are supported:
//
//   - StrategyUniform: a grid of equal cells over the sample envelope.
//   - StrategySTR: Sort-Tile-Recursive cells with near-equal sample counts.
//   - StrategyHilbert: equal-count runs along a Hilbert curve.
//   - StrategyVoronoi: k-means clusters around seeded centroids.
//
// A Scheme is immutable once computed and safe for concurrent use.
package partition

// Package kmeans implements Lloyd's k-means over planar points.
//
// Used by the Voronoi partitioner to place partition seeds.
package kmeans

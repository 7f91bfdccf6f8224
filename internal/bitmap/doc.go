// Package bitmap provides the roaring-backed id sets used to deduplicate
// query results.
//
// Records replicated into several partitions surface once per partition
// during a probe. The merge step funnels every id (or id pair) through an
// IDSet or PairSet so that each one is emitted exactly once.
//
// # Example Usage
//
//	seen := bitmap.NewIDSet()
//	for _, id := range candidates {
//	    if seen.CheckedAdd(id) {
//	        // first occurrence
//	    }
//	}
package bitmap

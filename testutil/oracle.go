package testutil

import (
	"sort"

	"github.com/hupe1980/geoshard/geom"
)

// Neighbor is a brute-force nearest-neighbour result.
type Neighbor struct {
	ID       uint64
	Distance float64
}

// BruteRange returns the sorted ids of records intersecting window, or
// contained in it when contained is set.
func BruteRange(records []geom.Record, window geom.Geometry, contained bool) []uint64 {
	var ids []uint64
	for _, r := range records {
		var ok bool
		if contained {
			ok = geom.Contains(window, r.Geometry)
		} else {
			ok = geom.Intersects(r.Geometry, window)
		}
		if ok {
			ids = append(ids, r.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// BruteJoin returns every (a, b) id pair accepted by pred, ordered by a
// then b.
func BruteJoin(a, b []geom.Record, pred func(a, b geom.Geometry) bool) [][2]uint64 {
	var pairs [][2]uint64
	for _, ra := range a {
		for _, rb := range b {
			if pred(ra.Geometry, rb.Geometry) {
				pairs = append(pairs, [2]uint64{ra.ID, rb.ID})
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	return pairs
}

// BruteKNearest returns the k records closest to (x, y) ordered by
// distance then id.
func BruteKNearest(records []geom.Record, x, y float64, k int) []Neighbor {
	all := make([]Neighbor, len(records))
	for i, r := range records {
		all[i] = Neighbor{ID: r.ID, Distance: geom.DistanceToPoint(r.Geometry, x, y)}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Distance != all[j].Distance {
			return all[i].Distance < all[j].Distance
		}
		return all[i].ID < all[j].ID
	})
	return all[:min(k, len(all))]
}

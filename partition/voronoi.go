package partition

import (
	"context"
	"math/rand"

	"github.com/hupe1980/geoshard/geom"
	"github.com/hupe1980/geoshard/internal/kmeans"
)

// voronoiCells clusters centroids around n k-means seeds and approximates
// each Voronoi cell by the envelope of its cluster's records.
func voronoiCells(ctx context.Context, points []point, n int, opts options) ([]geom.Envelope, error) {
	pts := make([]kmeans.Point, len(points))
	for i, p := range points {
		pts[i] = kmeans.Point{X: p.x, Y: p.y}
	}

	rng := rand.New(rand.NewSource(opts.seed))
	res, err := kmeans.Train(ctx, pts, n, opts.iterations, rng)
	if err != nil {
		return nil, err
	}

	cells := make([]geom.Envelope, n)
	for i := range cells {
		cells[i] = geom.EmptyEnvelope()
	}
	for i, c := range res.Assignments {
		cells[c] = cells[c].Union(points[i].env)
	}
	return cells, nil
}

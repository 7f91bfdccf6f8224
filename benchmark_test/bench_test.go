package benchmark_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/hupe1980/geoshard"
	"github.com/hupe1980/geoshard/geom"
	"github.com/hupe1980/geoshard/index"
	"github.com/hupe1980/geoshard/partition"
	"github.com/hupe1980/geoshard/testutil"
)

const numRecords = 50_000

var extent = testutil.Extent(0, 0, 1000, 1000)

func setup(b *testing.B, strategy partition.Strategy, kind index.Kind) (*geoshard.Engine, *geoshard.IndexedDataset) {
	b.Helper()
	ctx := context.Background()

	eng, err := geoshard.New()
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = eng.Close() })

	ds, err := eng.NewDataset(testutil.NewRNG(1).MixedRecords(numRecords, extent))
	if err != nil {
		b.Fatal(err)
	}
	scheme, err := eng.BuildPartitionScheme(ctx, ds, 16, strategy)
	if err != nil {
		b.Fatal(err)
	}
	ix, err := eng.BuildIndex(ctx, ds, scheme, kind)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = ix.Close() })
	return eng, ix
}

func BenchmarkBuildIndex(b *testing.B) {
	for _, kind := range []index.Kind{index.KindRTree, index.KindQuadtree} {
		b.Run(kind.String(), func(b *testing.B) {
			b.ReportAllocs()
			ctx := context.Background()

			eng, err := geoshard.New()
			if err != nil {
				b.Fatal(err)
			}
			defer eng.Close()

			ds, err := eng.NewDataset(testutil.NewRNG(2).MixedRecords(numRecords, extent))
			if err != nil {
				b.Fatal(err)
			}
			scheme, err := eng.BuildPartitionScheme(ctx, ds, 16, partition.StrategySTR)
			if err != nil {
				b.Fatal(err)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				ix, err := eng.BuildIndex(ctx, ds, scheme, kind)
				if err != nil {
					b.Fatal(err)
				}
				_ = ix.Close()
			}
		})
	}
}

func BenchmarkRangeQuery(b *testing.B) {
	for _, strategy := range partition.Strategies() {
		b.Run(strategy.String(), func(b *testing.B) {
			b.ReportAllocs()
			eng, ix := setup(b, strategy, index.KindRTree)

			rng := testutil.NewRNG(3)
			windows := make([]geom.Geometry, 256)
			for i := range windows {
				windows[i] = rng.Window(extent, 0.05)
			}

			ctx := context.Background()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := eng.RangeQuery(ctx, ix, windows[i%len(windows)]); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkRangeQuery_Parallel(b *testing.B) {
	b.ReportAllocs()
	eng, ix := setup(b, partition.StrategyHilbert, index.KindQuadtree)
	window := geom.MustRectangle(400, 400, 450, 450)
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := eng.RangeQuery(ctx, ix, window); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

func BenchmarkKNearest(b *testing.B) {
	for _, k := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("k=%d", k), func(b *testing.B) {
			b.ReportAllocs()
			eng, ix := setup(b, partition.StrategySTR, index.KindRTree)
			rng := testutil.NewRNG(4)
			ctx := context.Background()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				x, y := rng.Float64()*1000, rng.Float64()*1000
				if _, err := eng.KNearest(ctx, ix, x, y, k); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSpatialJoin(b *testing.B) {
	b.ReportAllocs()
	ctx := context.Background()

	eng, err := geoshard.New()
	if err != nil {
		b.Fatal(err)
	}
	defer eng.Close()

	build := func(seed int64) *geoshard.IndexedDataset {
		ds, err := eng.NewDataset(testutil.NewRNG(seed).MixedRecords(10_000, extent))
		if err != nil {
			b.Fatal(err)
		}
		scheme, err := eng.BuildPartitionScheme(ctx, ds, 8, partition.StrategyVoronoi)
		if err != nil {
			b.Fatal(err)
		}
		ix, err := eng.BuildIndex(ctx, ds, scheme, index.KindRTree)
		if err != nil {
			b.Fatal(err)
		}
		return ix
	}
	left, right := build(5), build(6)
	defer left.Close()
	defer right.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := eng.SpatialJoin(ctx, left, right, geoshard.Intersects()); err != nil {
			b.Fatal(err)
		}
	}
}

package geoshard_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/geoshard"
	"github.com/hupe1980/geoshard/geom"
	"github.com/hupe1980/geoshard/index"
	"github.com/hupe1980/geoshard/partition"
)

func cityRecords() []geom.Record {
	return []geom.Record{
		geom.NewRecord(1, geom.MustPoint(0, 0), "depot"),
		geom.NewRecord(2, geom.MustPoint(10, 10), "harbor"),
		geom.NewRecord(3, geom.MustPoint(0, 10), "school"),
		geom.NewRecord(4, geom.MustPoint(10, 0), "station"),
		geom.NewRecord(5, geom.MustRectangle(4, 4, 6, 6), "park"),
	}
}

func Example() {
	ctx := context.Background()

	eng, err := geoshard.New()
	if err != nil {
		log.Fatal(err)
	}
	defer eng.Close()

	ds, err := eng.NewDataset(cityRecords())
	if err != nil {
		log.Fatal(err)
	}

	scheme, err := eng.BuildPartitionScheme(ctx, ds, 4, partition.StrategyUniform)
	if err != nil {
		log.Fatal(err)
	}

	ix, err := eng.BuildIndex(ctx, ds, scheme, index.KindRTree)
	if err != nil {
		log.Fatal(err)
	}
	defer ix.Close()

	rs, err := eng.RangeQuery(ctx, ix, geom.MustRectangle(-1, -1, 5, 5))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("partitions:", scheme.Len())
	fmt.Println("matches:", rs.IDs())
	// Output:
	// partitions: 4
	// matches: [1 5]
}

func ExampleEngine_SpatialJoin() {
	ctx := context.Background()

	eng, err := geoshard.New()
	if err != nil {
		log.Fatal(err)
	}
	defer eng.Close()

	build := func(records []geom.Record) *geoshard.IndexedDataset {
		ds, err := eng.NewDataset(records)
		if err != nil {
			log.Fatal(err)
		}
		scheme, err := eng.BuildPartitionScheme(ctx, ds, 2, partition.StrategySTR)
		if err != nil {
			log.Fatal(err)
		}
		ix, err := eng.BuildIndex(ctx, ds, scheme, index.KindQuadtree)
		if err != nil {
			log.Fatal(err)
		}
		return ix
	}

	zones := build([]geom.Record{
		geom.NewRecord(100, geom.MustRectangle(0, 0, 5, 5), "north"),
		geom.NewRecord(200, geom.MustRectangle(5, 0, 10, 5), "south"),
	})
	defer zones.Close()
	sites := build(cityRecords())
	defer sites.Close()

	res, err := eng.SpatialJoin(ctx, zones, sites, geoshard.Intersects())
	if err != nil {
		log.Fatal(err)
	}
	for _, p := range res.Pairs() {
		fmt.Println(p.LeftID, p.RightID)
	}
	// Output:
	// 100 1
	// 100 5
	// 200 4
	// 200 5
}

func ExampleEngine_KNearest() {
	ctx := context.Background()

	eng, err := geoshard.New()
	if err != nil {
		log.Fatal(err)
	}
	defer eng.Close()

	ds, err := eng.NewDataset(cityRecords())
	if err != nil {
		log.Fatal(err)
	}
	scheme, err := eng.BuildPartitionScheme(ctx, ds, 3, partition.StrategyHilbert)
	if err != nil {
		log.Fatal(err)
	}
	ix, err := eng.BuildIndex(ctx, ds, scheme, index.KindRTree)
	if err != nil {
		log.Fatal(err)
	}
	defer ix.Close()

	nn, err := eng.KNearest(ctx, ix, 5, 5, 2)
	if err != nil {
		log.Fatal(err)
	}
	for _, n := range nn {
		fmt.Printf("%d %.2f\n", n.RecordID, n.Distance)
	}
	// Output:
	// 5 0.00
	// 1 7.07
}

package service

import (
	"context"
	"testing"

	"github.com/aditya-wp/wayfinder/pkg/datastructure"
	"github.com/aditya-wp/wayfinder/pkg/graph"
	"github.com/aditya-wp/wayfinder/pkg/interpreter"
	"github.com/aditya-wp/wayfinder/pkg/kv"
	"github.com/aditya-wp/wayfinder/pkg/profile"
	"github.com/aditya-wp/wayfinder/pkg/routing"
	"github.com/aditya-wp/wayfinder/pkg/snap"

	"github.com/dgraph-io/badger/v4"
	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
)

/*
service fixture network, residential roads:

	0(0,0) --- 1(0,0.01) --- 2(0,0.02)
	               |
	           3(0.01,0.01)
*/
func buildServiceGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.NewGraph()
	g.AddVertex(0, 0)        // 0
	g.AddVertex(0, 0.01)     // 1
	g.AddVertex(0, 0.02)     // 2
	g.AddVertex(0.01, 0.01)  // 3
	tags := osm.Tags{{Key: "highway", Value: "residential"}}
	g.AddSegment(0, 1, tags)
	g.AddSegment(1, 2, tags)
	g.AddSegment(1, 3, tags)
	return g
}

func buildService(t *testing.T, emptySnapper bool) *NavigationService {
	t.Helper()
	g := buildServiceGraph(t)

	snapper := snap.NewRoadSnapper(g)
	if !emptySnapper {
		assert.NoError(t, snapper.Build())
	}

	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	kvdb := kv.NewKVDB(db)
	assert.NoError(t, kvdb.BuildH3IndexedEdges(context.Background(), g))

	interp := interpreter.NewInterpreter()
	profiles := map[string]routing.VehicleProfile{
		"car":  profile.NewCarProfile(),
		"foot": profile.NewFootProfile(),
	}

	return NewNavigationService(routing.NewRouteEngine(), snapper, kvdb, g, interp, profiles)
}

func TestShortestPathService(t *testing.T) {
	svc := buildService(t, false)

	path, weight, coords, err := svc.ShortestPath(context.Background(), "car",
		datastructure.NewCoordinate(0.0001, 0.0001), datastructure.NewCoordinate(0.0001, 0.0199), routing.Unreachable)
	assert.NoError(t, err)
	assert.NotEmpty(t, path)
	assert.Greater(t, weight, 0.0)
	// route passes through the middle vertex
	assert.GreaterOrEqual(t, len(coords), 2)
}

func TestShortestPathUnknownProfile(t *testing.T) {
	svc := buildService(t, false)

	_, _, _, err := svc.ShortestPath(context.Background(), "boat",
		datastructure.NewCoordinate(0, 0), datastructure.NewCoordinate(0, 0.02), routing.Unreachable)
	assert.Error(t, err)
}

func TestShortestPathToClosestService(t *testing.T) {
	svc := buildService(t, false)

	// from near vertex 0: vertex 1 is closer than vertex 2
	_, weight, idx, err := svc.ShortestPathToClosest(context.Background(), "car",
		datastructure.NewCoordinate(0.0001, 0.0001),
		[]datastructure.Coordinate{
			datastructure.NewCoordinate(0.0001, 0.0199), // near 2
			datastructure.NewCoordinate(0.0001, 0.0101), // near 1
		}, routing.Unreachable)
	assert.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Greater(t, weight, 0.0)
}

func TestDistanceMatrixService(t *testing.T) {
	svc := buildService(t, false)

	sources := []datastructure.Coordinate{
		datastructure.NewCoordinate(0.0001, 0.0001),
		datastructure.NewCoordinate(0.0099, 0.0101),
	}
	targets := []datastructure.Coordinate{
		datastructure.NewCoordinate(0.0001, 0.0199),
		datastructure.NewCoordinate(0.0001, 0.0101),
	}

	matrix, err := svc.DistanceMatrix(context.Background(), "car", sources, targets, routing.Unreachable)
	assert.NoError(t, err)
	assert.Len(t, matrix, 2)
	for i := range matrix {
		assert.Len(t, matrix[i], 2)
		for j := range matrix[i] {
			assert.True(t, IsFinite(matrix[i][j]))
			assert.GreaterOrEqual(t, matrix[i][j], 0.0)
		}
	}
}

func TestIsochroneService(t *testing.T) {
	svc := buildService(t, false)

	all, err := svc.Isochrone(context.Background(), "car",
		datastructure.NewCoordinate(0.0001, 0.0101), 1000, true)
	assert.NoError(t, err)
	assert.Len(t, all, 4)

	none, err := svc.Isochrone(context.Background(), "car",
		datastructure.NewCoordinate(0.0001, 0.0101), 0.000001, true)
	assert.NoError(t, err)
	assert.Less(t, len(none), 4)
}

func TestConnectivityService(t *testing.T) {
	svc := buildService(t, false)

	connected, err := svc.Connectivity(context.Background(), "car",
		datastructure.NewCoordinate(0.0001, 0.0101), 1000)
	assert.NoError(t, err)
	assert.True(t, connected)
}

func TestSnapFallsBackToKV(t *testing.T) {
	// empty rtree forces the h3 bucket lookup path
	svc := buildService(t, true)

	_, weight, _, err := svc.ShortestPath(context.Background(), "car",
		datastructure.NewCoordinate(0.0001, 0.0001), datastructure.NewCoordinate(0.0001, 0.0199), routing.Unreachable)
	assert.NoError(t, err)
	assert.Greater(t, weight, 0.0)
}

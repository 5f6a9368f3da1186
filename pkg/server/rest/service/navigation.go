package service

import (
	"context"
	"errors"
	"math"

	"github.com/aditya-wp/wayfinder/pkg/concurrent"
	"github.com/aditya-wp/wayfinder/pkg/datastructure"
	"github.com/aditya-wp/wayfinder/pkg/geo"
	"github.com/aditya-wp/wayfinder/pkg/kv"
	"github.com/aditya-wp/wayfinder/pkg/routing"
	"github.com/aditya-wp/wayfinder/pkg/server"
	"github.com/aditya-wp/wayfinder/pkg/snap"
)

const matrixWorkers = 10

type RoutingEngine interface {
	Calculate(g routing.Graph, interp routing.Interpreter, profile routing.VehicleProfile,
		source, target *datastructure.VisitList, maxWeight float64) (*datastructure.PathSegment, error)
	CalculateToClosest(g routing.Graph, interp routing.Interpreter, profile routing.VehicleProfile,
		source *datastructure.VisitList, targets []*datastructure.VisitList, maxWeight float64) (*datastructure.PathSegment, error)
	CalculateOneToManyWeight(g routing.Graph, interp routing.Interpreter, profile routing.VehicleProfile,
		source *datastructure.VisitList, targets []*datastructure.VisitList, maxWeight float64) ([]float64, error)
	CalculateRange(g routing.Graph, interp routing.Interpreter, profile routing.VehicleProfile,
		source *datastructure.VisitList, weight float64, forward bool) (map[int32]struct{}, error)
	CheckConnectivity(g routing.Graph, interp routing.Interpreter, profile routing.VehicleProfile,
		source *datastructure.VisitList, weight float64) (bool, error)
}

type Snapper interface {
	SnapToRoad(query datastructure.Coordinate, profile snap.VehicleProfile) (*datastructure.VisitList, error)
}

type KVDB interface {
	GetNearestEdgesFromPointCoord(lat, lon float64) ([]kv.KVEdge, error)
}

type NavigationService struct {
	engine   RoutingEngine
	snapper  Snapper
	kvdb     KVDB
	g        routing.Graph
	interp   routing.Interpreter
	profiles map[string]routing.VehicleProfile
}

func NewNavigationService(engine RoutingEngine, snapper Snapper, kvdb KVDB, g routing.Graph,
	interp routing.Interpreter, profiles map[string]routing.VehicleProfile) *NavigationService {
	return &NavigationService{
		engine:   engine,
		snapper:  snapper,
		kvdb:     kvdb,
		g:        g,
		interp:   interp,
		profiles: profiles,
	}
}

func (uc *NavigationService) profileFor(name string) (routing.VehicleProfile, error) {
	if name == "" {
		name = "car"
	}
	profile, ok := uc.profiles[name]
	if !ok {
		return nil, server.NewErrorf(server.ErrBadParamInput, "unknown vehicle profile %q", name)
	}
	return profile, nil
}

// snapPoint resolves a raw coordinate to a visit list: the in-memory rtree
// first, the h3 buckets in the kv store when the rtree has no segment nearby.
func (uc *NavigationService) snapPoint(coord datastructure.Coordinate, profile routing.VehicleProfile) (*datastructure.VisitList, error) {
	visit, err := uc.snapper.SnapToRoad(coord, profile)
	if err == nil {
		return visit, nil
	}
	if !errors.Is(err, snap.ErrNoRoadNearby) {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, "snapping failed")
	}

	edges, err := uc.kvdb.GetNearestEdgesFromPointCoord(coord.Lat, coord.Lon)
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrNotFound,
			"location (%f, %f) is not covered by the loaded road network", coord.Lat, coord.Lon)
	}

	nearest := edges[0]
	nearestDist := geo.CalculateHaversineDistance(coord.Lat, coord.Lon, nearest.CenterLoc[0], nearest.CenterLoc[1])
	for _, e := range edges[1:] {
		d := geo.CalculateHaversineDistance(coord.Lat, coord.Lon, e.CenterLoc[0], e.CenterLoc[1])
		if d < nearestDist {
			nearest, nearestDist = e, d
		}
	}

	tags, err := uc.g.GetTags(nearest.TagsRef)
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, "snapping failed")
	}
	fromCoord, err := uc.g.GetVertex(nearest.FromVertexID)
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, "snapping failed")
	}
	toCoord, err := uc.g.GetVertex(nearest.ToVertexID)
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, "snapping failed")
	}

	visit = datastructure.NewVisitList()
	visit.Add(datastructure.NewPathSegment(nearest.FromVertexID, profile.Weight(tags, coord, fromCoord), nil))
	visit.Add(datastructure.NewPathSegment(nearest.ToVertexID, profile.Weight(tags, coord, toCoord), nil))
	return visit, nil
}

func (uc *NavigationService) pathCoordinates(path *datastructure.PathSegment) ([]datastructure.Coordinate, error) {
	vertices := path.Vertices()
	coords := make([]datastructure.Coordinate, 0, len(vertices))
	for _, v := range vertices {
		c, err := uc.g.GetVertex(v)
		if err != nil {
			return nil, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
		}
		coords = append(coords, c)
	}
	return coords, nil
}

// ShortestPath polyline, total weight in minutes and the route coordinates
// between the two points.
func (uc *NavigationService) ShortestPath(ctx context.Context, profileName string,
	src, dst datastructure.Coordinate, maxWeight float64) (string, float64, []datastructure.Coordinate, error) {
	profile, err := uc.profileFor(profileName)
	if err != nil {
		return "", 0, nil, err
	}

	source, err := uc.snapPoint(src, profile)
	if err != nil {
		return "", 0, nil, err
	}
	target, err := uc.snapPoint(dst, profile)
	if err != nil {
		return "", 0, nil, err
	}

	path, err := uc.engine.Calculate(uc.g, uc.interp, profile, source, target, maxWeight)
	if err != nil {
		return "", 0, nil, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	if path == nil {
		return "", 0, nil, server.NewErrorf(server.ErrNotFound, "no route between the given points")
	}

	coords, err := uc.pathCoordinates(path)
	if err != nil {
		return "", 0, nil, err
	}
	return datastructure.CreatePolyline(coords), path.Weight, coords, nil
}

// ShortestPathToClosest route to whichever target resolves nearest; the
// returned index says which one that was.
func (uc *NavigationService) ShortestPathToClosest(ctx context.Context, profileName string,
	src datastructure.Coordinate, targets []datastructure.Coordinate, maxWeight float64) (string, float64, int, error) {
	profile, err := uc.profileFor(profileName)
	if err != nil {
		return "", 0, -1, err
	}

	source, err := uc.snapPoint(src, profile)
	if err != nil {
		return "", 0, -1, err
	}
	targetLists := make([]*datastructure.VisitList, len(targets))
	for i, t := range targets {
		targetLists[i], err = uc.snapPoint(t, profile)
		if err != nil {
			return "", 0, -1, err
		}
	}

	path, err := uc.engine.CalculateToClosest(uc.g, uc.interp, profile, source, targetLists, maxWeight)
	if err != nil {
		return "", 0, -1, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	if path == nil {
		return "", 0, -1, server.NewErrorf(server.ErrNotFound, "none of the targets is reachable")
	}

	matched := -1
	for i, vl := range targetLists {
		if vl.Contains(path.Vertex) {
			matched = i
			break
		}
	}

	coords, err := uc.pathCoordinates(path)
	if err != nil {
		return "", 0, -1, err
	}
	return datastructure.CreatePolyline(coords), path.Weight, matched, nil
}

// DistanceMatrix weight matrix sources x targets. Rows run on a worker pool;
// every row is an independent query, so order of completion does not matter.
// Unreachable pairs hold +Inf.
func (uc *NavigationService) DistanceMatrix(ctx context.Context, profileName string,
	sources, targets []datastructure.Coordinate, maxWeight float64) ([][]float64, error) {
	profile, err := uc.profileFor(profileName)
	if err != nil {
		return nil, err
	}

	sourceLists := make([]*datastructure.VisitList, len(sources))
	for i, s := range sources {
		sourceLists[i], err = uc.snapPoint(s, profile)
		if err != nil {
			return nil, err
		}
	}
	targetLists := make([]*datastructure.VisitList, len(targets))
	for i, t := range targets {
		targetLists[i], err = uc.snapPoint(t, profile)
		if err != nil {
			return nil, err
		}
	}

	type rowResult struct {
		row     int
		weights []float64
		err     error
	}

	workers := concurrent.NewWorkerPool[concurrent.MatrixRowParam, rowResult](matrixWorkers, len(sourceLists))
	for i, src := range sourceLists {
		workers.AddJob(concurrent.NewMatrixRowParam(i, src, targetLists))
	}
	workers.Close()
	workers.Start(func(job concurrent.MatrixRowParam) rowResult {
		weights, err := uc.engine.CalculateOneToManyWeight(uc.g, uc.interp, profile, job.Source, job.Targets, maxWeight)
		return rowResult{row: job.Row, weights: weights, err: err}
	})
	workers.Wait()

	matrix := make([][]float64, len(sourceLists))
	for res := range workers.CollectResults() {
		if res.err != nil {
			return nil, server.WrapErrorf(res.err, server.ErrInternalServerError, "internal server error")
		}
		matrix[res.row] = res.weights
	}
	return matrix, nil
}

// Isochrone coordinates of every vertex reachable within the weight budget.
func (uc *NavigationService) Isochrone(ctx context.Context, profileName string,
	center datastructure.Coordinate, budget float64, forward bool) ([]datastructure.Coordinate, error) {
	profile, err := uc.profileFor(profileName)
	if err != nil {
		return nil, err
	}
	source, err := uc.snapPoint(center, profile)
	if err != nil {
		return nil, err
	}

	settled, err := uc.engine.CalculateRange(uc.g, uc.interp, profile, source, budget, forward)
	if err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}

	coords := make([]datastructure.Coordinate, 0, len(settled))
	for v := range settled {
		c, err := uc.g.GetVertex(v)
		if err != nil {
			return nil, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
		}
		coords = append(coords, c)
	}
	return coords, nil
}

// Connectivity whether the snapped point can both reach and be reached from
// its surroundings within the weight budget.
func (uc *NavigationService) Connectivity(ctx context.Context, profileName string,
	point datastructure.Coordinate, budget float64) (bool, error) {
	profile, err := uc.profileFor(profileName)
	if err != nil {
		return false, err
	}
	source, err := uc.snapPoint(point, profile)
	if err != nil {
		return false, err
	}

	connected, err := uc.engine.CheckConnectivity(uc.g, uc.interp, profile, source, budget)
	if err != nil {
		return false, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	return connected, nil
}

// IsFinite reports whether a matrix cell holds a real weight.
func IsFinite(w float64) bool {
	return !math.IsInf(w, 1)
}

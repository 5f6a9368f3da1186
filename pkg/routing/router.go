package routing

import (
	"math"

	"github.com/aditya-wp/wayfinder/pkg/datastructure"
)

// Unreachable sentinel weight reported when no route exists within the
// bound. Absence of a route is an expected outcome, never an error; callers
// test it with math.IsInf.
var Unreachable = math.Inf(1)

// RouteEngine label-constrained multi-source multi-target dijkstra over a
// road network. The engine value itself carries no state: graph, interpreter
// and vehicle profile are per-query decisions and all working state (heap,
// settled set, label store, cloned visit lists) is query-local, so one engine
// value serves any number of concurrent queries as long as the graph is not
// mutated while they run.
type RouteEngine struct{}

func NewRouteEngine() *RouteEngine {
	return &RouteEngine{}
}

// Calculate best route from source to target, nil when target is not
// reachable within maxWeight. Pass math.Inf(1) for an unbounded search.
func (rt *RouteEngine) Calculate(g Graph, interp Interpreter, profile VehicleProfile,
	source, target *datastructure.VisitList, maxWeight float64) (*datastructure.PathSegment, error) {
	res, err := rt.search(g, interp, profile, source,
		[]*datastructure.VisitList{target}, maxWeight, searchMode{forward: true})
	if err != nil {
		return nil, err
	}
	return res.best[0], nil
}

// CalculateToClosest best route to whichever target resolves nearest. The
// search stops at the first resolved target instead of exhausting all of
// them.
func (rt *RouteEngine) CalculateToClosest(g Graph, interp Interpreter, profile VehicleProfile,
	source *datastructure.VisitList, targets []*datastructure.VisitList, maxWeight float64) (*datastructure.PathSegment, error) {
	res, err := rt.search(g, interp, profile, source, targets, maxWeight,
		searchMode{stopAtFirst: true, forward: true})
	if err != nil {
		return nil, err
	}
	var best *datastructure.PathSegment
	for _, b := range res.best {
		if b != nil && (best == nil || b.Weight < best.Weight) {
			best = b
		}
	}
	return best, nil
}

// CalculateWeight scalar route weight, Unreachable when no route exists
// within the bound.
func (rt *RouteEngine) CalculateWeight(g Graph, interp Interpreter, profile VehicleProfile,
	source, target *datastructure.VisitList, maxWeight float64) (float64, error) {
	path, err := rt.Calculate(g, interp, profile, source, target, maxWeight)
	if err != nil {
		return Unreachable, err
	}
	if path == nil {
		return Unreachable, nil
	}
	return path.Weight, nil
}

// CalculateOneToManyWeight weight per target from a single search, sentinel
// policy as CalculateWeight.
func (rt *RouteEngine) CalculateOneToManyWeight(g Graph, interp Interpreter, profile VehicleProfile,
	source *datastructure.VisitList, targets []*datastructure.VisitList, maxWeight float64) ([]float64, error) {
	res, err := rt.search(g, interp, profile, source, targets, maxWeight, searchMode{forward: true})
	if err != nil {
		return nil, err
	}
	weights := make([]float64, len(targets))
	for i := range weights {
		weights[i] = Unreachable
		if res.best[i] != nil {
			weights[i] = res.best[i].Weight
		}
	}
	return weights, nil
}

// CalculateManyToManyWeight weight matrix, one one-to-many row per source.
// Rows share no state; an unreachable pair leaves its sentinel in the matrix
// and never aborts the batch.
func (rt *RouteEngine) CalculateManyToManyWeight(g Graph, interp Interpreter, profile VehicleProfile,
	sources []*datastructure.VisitList, targets []*datastructure.VisitList, maxWeight float64) ([][]float64, error) {
	matrix := make([][]float64, len(sources))
	for i, source := range sources {
		row, err := rt.CalculateOneToManyWeight(g, interp, profile, source, targets, maxWeight)
		if err != nil {
			return nil, err
		}
		matrix[i] = row
	}
	return matrix, nil
}

// CalculateRange every vertex settled within the weight budget. With
// forward=false the search conceptually walks incoming arcs, answering
// "which vertices reach this point" instead of "which vertices does this
// point reach".
func (rt *RouteEngine) CalculateRange(g Graph, interp Interpreter, profile VehicleProfile,
	source *datastructure.VisitList, weight float64, forward bool) (map[int32]struct{}, error) {
	res, err := rt.search(g, interp, profile, source, nil, weight,
		searchMode{returnAtWeight: true, forward: forward})
	if err != nil {
		return nil, err
	}
	return res.settled, nil
}

// CheckConnectivity cheap proxy for "this point is not isolated": true iff
// the range set is non-empty in both directions.
func (rt *RouteEngine) CheckConnectivity(g Graph, interp Interpreter, profile VehicleProfile,
	source *datastructure.VisitList, weight float64) (bool, error) {
	forward, err := rt.CalculateRange(g, interp, profile, source, weight, true)
	if err != nil {
		return false, err
	}
	if len(forward) == 0 {
		return false, nil
	}
	backward, err := rt.CalculateRange(g, interp, profile, source, weight, false)
	if err != nil {
		return false, err
	}
	return len(backward) > 0, nil
}

package routing

import (
	"github.com/aditya-wp/wayfinder/pkg/datastructure"
)

type searchMode struct {
	stopAtFirst    bool
	returnAtWeight bool
	forward        bool
}

type searchResult struct {
	// best holds the spliced route per target, nil when the target stayed
	// unreachable within the bound
	best []*datastructure.PathSegment
	// settled is every vertex finalized within the bound, the range query
	// result
	settled map[int32]struct{}
}

// search single dijkstra routine behind every query shape. Seeds the heap
// with all source candidates, settles vertices in weight order, expands only
// arcs the profile and interpreter accept, and splices source-side and
// target-side partial chains whenever a settled vertex matches a remaining
// target candidate. Duplicate heap entries stand in for decrease-key; a
// settled vertex is never expanded again, which is correct because edge
// weights are non-negative.
func (rt *RouteEngine) search(g Graph, interp Interpreter, profile VehicleProfile,
	source *datastructure.VisitList, targets []*datastructure.VisitList,
	maxWeight float64, mode searchMode) (searchResult, error) {

	// never mutate caller state, the engine shrinks target lists as
	// candidates get settled
	src := source.Clone()
	tgts := make([]*datastructure.VisitList, len(targets))
	for i := range targets {
		tgts[i] = targets[i].Clone()
	}

	res := searchResult{
		best:    make([]*datastructure.PathSegment, len(tgts)),
		settled: make(map[int32]struct{}),
	}

	heap := datastructure.NewMinHeap[*datastructure.PathSegment]()
	labels := newLabelStore(interp.Constraints())
	settled := make(map[int32]struct{})

	for _, v := range src.Vertices() {
		path, err := src.PathTo(v)
		if err != nil {
			return res, err
		}
		heap.Insert(datastructure.NewPriorityQueueNode(path.Weight, path))
	}

	// pre-check: source and target snapped onto overlapping segments resolve
	// against each other before any graph expansion
	for i := range tgts {
		res.best[i] = overlapPath(src, tgts[i])
	}
	if len(tgts) > 0 {
		done := true
		for i := range tgts {
			if res.best[i] == nil && tgts[i].Len() > 0 {
				done = false
				break
			}
		}
		if done {
			return res, nil
		}
		if mode.stopAtFirst && anyBest(res.best) {
			return res, nil
		}
	}

	for {
		node, ok := heap.ExtractMin()
		if !ok {
			break
		}
		seg := node.Item
		cur := seg.Vertex
		if _, done := settled[cur]; done {
			// stale duplicate left behind by lazy decrease-key
			continue
		}
		if seg.Weight > maxWeight {
			// the heap is min ordered, nothing within the bound remains
			break
		}
		settled[cur] = struct{}{}
		res.settled[cur] = struct{}{}

		arcs, err := g.GetArcs(cur)
		if err != nil {
			return res, err
		}
		for _, edge := range arcs {
			if _, done := settled[edge.To]; done {
				continue
			}
			tags, err := g.GetTags(edge.TagsRef)
			if err != nil {
				return res, err
			}
			if !profile.CanTraverse(tags) {
				continue
			}
			if oneWay := profile.IsOneWay(tags); oneWay != nil {
				storedForward := edge.Forward
				if !mode.forward {
					// a backward search conceptually walks incoming arcs,
					// so the stored reverse arc plays the forward role
					storedForward = !storedForward
				}
				if *oneWay != storedForward {
					continue
				}
			}
			if seg.Prev != nil && !interp.CanBeTraversed(seg.Prev.Vertex, cur, edge) {
				// the very first hop has no previous vertex, turn
				// restrictions cannot apply there
				continue
			}
			if !labels.advance(cur, edge.To, tags) {
				continue
			}
			fromCoord, err := g.GetVertex(cur)
			if err != nil {
				return res, err
			}
			toCoord, err := g.GetVertex(edge.To)
			if err != nil {
				return res, err
			}
			next := seg.Extend(edge.To, seg.Weight+profile.Weight(tags, fromCoord, toCoord))
			if next.Weight > maxWeight {
				continue
			}
			heap.Insert(datastructure.NewPriorityQueueNode(next.Weight, next))
		}

		if len(tgts) == 0 {
			continue
		}
		for i, tgt := range tgts {
			if !tgt.Contains(cur) {
				continue
			}
			tail, err := tgt.PathTo(cur)
			if err != nil {
				return res, err
			}
			full, err := tail.Reverse().ConcatenateAfter(seg)
			if err != nil {
				return res, err
			}
			if res.best[i] == nil || full.Weight < res.best[i].Weight {
				res.best[i] = full
			}
			// any later settlement reaches this candidate with equal or
			// greater weight, so it is final and can stop matching
			tgt.Remove(cur)
		}
		if mode.stopAtFirst && anyBest(res.best) {
			return res, nil
		}
		if resolvedAll(tgts, res.best, seg.Weight) {
			return res, nil
		}
	}

	return res, nil
}

// overlapPath walks every source candidate's partial chain back to its root
// and every target candidate's chain likewise; a shared vertex between the
// two walks yields a route that never touches an expanded arc. Returns the
// lightest such route, or nil.
func overlapPath(src, tgt *datastructure.VisitList) *datastructure.PathSegment {
	byVertex := make(map[int32]*datastructure.PathSegment)
	for _, sv := range src.Vertices() {
		sp, err := src.PathTo(sv)
		if err != nil {
			continue
		}
		for cur := sp; cur != nil; cur = cur.Prev {
			if old, ok := byVertex[cur.Vertex]; !ok || cur.Weight < old.Weight {
				byVertex[cur.Vertex] = cur
			}
		}
	}

	var best *datastructure.PathSegment
	for _, tv := range tgt.Vertices() {
		tp, err := tgt.PathTo(tv)
		if err != nil {
			continue
		}
		for cur := tp; cur != nil; cur = cur.Prev {
			head, ok := byVertex[cur.Vertex]
			if !ok {
				continue
			}
			full, err := cur.Reverse().ConcatenateAfter(head)
			if err != nil {
				continue
			}
			if best == nil || full.Weight < best.Weight {
				best = full
			}
		}
	}
	return best
}

func anyBest(best []*datastructure.PathSegment) bool {
	for _, b := range best {
		if b != nil {
			return true
		}
	}
	return false
}

// resolvedAll reports whether every target either has a final best route or
// can provably not improve anymore at the current settle weight.
func resolvedAll(tgts []*datastructure.VisitList, best []*datastructure.PathSegment, settleWeight float64) bool {
	if len(tgts) == 0 {
		return false
	}
	for i, tgt := range tgts {
		if best[i] != nil && (tgt.Len() == 0 || settleWeight >= best[i].Weight) {
			continue
		}
		if best[i] == nil && tgt.Len() == 0 {
			// a target with no candidates left and no route stays
			// unreachable
			continue
		}
		return false
	}
	return true
}

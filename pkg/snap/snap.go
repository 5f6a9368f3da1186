package snap

import (
	"errors"

	"github.com/aditya-wp/wayfinder/pkg/datastructure"
	"github.com/aditya-wp/wayfinder/pkg/geo"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/osm"
)

var ErrNoRoadNearby = errors.New("no road segment near query point")

// bounding boxes get a little padding so that degenerate (axis aligned)
// segments still form a valid rect
const edgePaddingDeg = 0.0002

type Graph interface {
	GetVertex(id int32) (datastructure.Coordinate, error)
	GetTags(ref int32) (osm.Tags, error)
	ForEachArc(fn func(from int32, edge datastructure.Edge))
}

type VehicleProfile interface {
	Weight(tags osm.Tags, from, to datastructure.Coordinate) float64
}

type edgeLeaf struct {
	rect      rtreego.Rect
	from      int32
	to        int32
	tagsRef   int32
	fromCoord datastructure.Coordinate
	toCoord   datastructure.Coordinate
}

func (l *edgeLeaf) Bounds() rtreego.Rect {
	return l.rect
}

// RoadSnapper resolves a raw geographic point into a visit list: the nearest
// stored edge is looked up in an r-tree, the point is projected onto it, and
// both edge endpoints become candidate vertices with the partial weight from
// the projected virtual position.
type RoadSnapper struct {
	rtree *rtreego.Rtree
	g     Graph
}

func NewRoadSnapper(g Graph) *RoadSnapper {
	return &RoadSnapper{
		rtree: rtreego.NewTree(2, 25, 50),
		g:     g,
	}
}

// Build indexes every stored segment once (the reverse arcs describe the same
// geometry).
func (rs *RoadSnapper) Build() error {
	var buildErr error
	rs.g.ForEachArc(func(from int32, edge datastructure.Edge) {
		if !edge.Forward || buildErr != nil {
			return
		}
		fromCoord, err := rs.g.GetVertex(from)
		if err != nil {
			buildErr = err
			return
		}
		toCoord, err := rs.g.GetVertex(edge.To)
		if err != nil {
			buildErr = err
			return
		}
		rect, err := segmentRect(fromCoord, toCoord)
		if err != nil {
			buildErr = err
			return
		}
		rs.rtree.Insert(&edgeLeaf{
			rect:      rect,
			from:      from,
			to:        edge.To,
			tagsRef:   edge.TagsRef,
			fromCoord: fromCoord,
			toCoord:   toCoord,
		})
	})
	return buildErr
}

func (rs *RoadSnapper) Size() int {
	return rs.rtree.Size()
}

// SnapToRoad visit list for the query point under the given vehicle profile.
func (rs *RoadSnapper) SnapToRoad(query datastructure.Coordinate, profile VehicleProfile) (*datastructure.VisitList, error) {
	neighbors := rs.rtree.NearestNeighbors(1, rtreego.Point{query.Lat, query.Lon})
	if len(neighbors) == 0 || neighbors[0] == nil {
		return nil, ErrNoRoadNearby
	}
	leaf := neighbors[0].(*edgeLeaf)

	tags, err := rs.g.GetTags(leaf.tagsRef)
	if err != nil {
		return nil, err
	}
	virtual := geo.ProjectPointToEdge(leaf.fromCoord, leaf.toCoord, query)

	visit := datastructure.NewVisitList()
	visit.Add(datastructure.NewPathSegment(leaf.from, profile.Weight(tags, virtual, leaf.fromCoord), nil))
	visit.Add(datastructure.NewPathSegment(leaf.to, profile.Weight(tags, virtual, leaf.toCoord), nil))
	return visit, nil
}

func segmentRect(a, b datastructure.Coordinate) (rtreego.Rect, error) {
	minLat := min(a.Lat, b.Lat) - edgePaddingDeg
	minLon := min(a.Lon, b.Lon) - edgePaddingDeg
	maxLat := max(a.Lat, b.Lat) + edgePaddingDeg
	maxLon := max(a.Lon, b.Lon) + edgePaddingDeg
	return rtreego.NewRect(rtreego.Point{minLat, minLon}, []float64{maxLat - minLat, maxLon - minLon})
}

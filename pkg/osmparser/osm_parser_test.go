package osmparser

import (
	"testing"

	"github.com/aditya-wp/wayfinder/pkg/graph"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
)

func wayWithNodes(id int64, tags osm.Tags, nodeIDs ...int64) *osm.Way {
	way := &osm.Way{ID: osm.WayID(id), Tags: tags}
	for _, n := range nodeIDs {
		way.Nodes = append(way.Nodes, osm.WayNode{ID: osm.NodeID(n)})
	}
	return way
}

func (p *OsmParser) markWay(way *osm.Way) {
	for i, node := range way.Nodes {
		if _, ok := p.wayNodeMap[int64(node.ID)]; !ok {
			if i == 0 || i == len(way.Nodes)-1 {
				p.wayNodeMap[int64(node.ID)] = END_NODE
			} else {
				p.wayNodeMap[int64(node.ID)] = BETWEEN_NODE
			}
		} else {
			p.wayNodeMap[int64(node.ID)] = JUNCTION_NODE
		}
	}
}

func (p *OsmParser) stubCoords(nodeIDs ...int64) {
	for i, n := range nodeIDs {
		p.acceptedNodeMap[n] = nodeCoord{lat: float64(i) * 0.001, lon: float64(i) * 0.001}
	}
}

func TestAcceptOsmWay(t *testing.T) {
	assert.True(t, acceptOsmWay(wayWithNodes(1, osm.Tags{{Key: "highway", Value: "residential"}}, 1, 2)))
	assert.False(t, acceptOsmWay(wayWithNodes(2, osm.Tags{{Key: "highway", Value: "footway"}}, 1, 2)))
	assert.False(t, acceptOsmWay(wayWithNodes(3, osm.Tags{{Key: "building", Value: "yes"}}, 1, 2)))
	assert.True(t, acceptOsmWay(wayWithNodes(4, osm.Tags{{Key: "junction", Value: "roundabout"}}, 1, 2)))
}

/*
two crossing ways sharing node 3:

	way 10:  1 --- 2 --- 3 --- 4
	way 20:        5 --- 3 --- 6

node 3 is a junction, so way 10 splits into two segments there. the
in-between node 2 collapses into the 1-3 segment.
*/
func TestProcessWaySplitsAtJunctions(t *testing.T) {
	tags := osm.Tags{{Key: "highway", Value: "residential"}}
	way10 := wayWithNodes(10, tags, 1, 2, 3, 4)
	way20 := wayWithNodes(20, tags, 5, 3, 6)

	p := NewOsmParser()
	p.markWay(way10)
	p.markWay(way20)
	p.stubCoords(1, 2, 3, 4, 5, 6)

	g := graph.NewGraph()
	p.processWay(way10, g)
	p.processWay(way20, g)

	// vertices 1, 3, 4, 5, 6 survive; node 2 is in-between only
	assert.Equal(t, int32(5), g.NumVertices())

	three := p.nodeIDMap[3]
	arcs, err := g.GetArcs(three)
	assert.NoError(t, err)
	assert.Len(t, arcs, 4)
}

func TestResolveRestrictions(t *testing.T) {
	tags := osm.Tags{{Key: "highway", Value: "residential"}}
	way10 := wayWithNodes(10, tags, 1, 3)
	way20 := wayWithNodes(20, tags, 3, 6)
	way30 := wayWithNodes(30, tags, 3, 7)

	p := NewOsmParser()
	p.markWay(way10)
	p.markWay(way20)
	p.markWay(way30)
	p.stubCoords(1, 3, 6, 7)

	g := graph.NewGraph()
	p.processWay(way10, g)
	p.processWay(way20, g)
	p.processWay(way30, g)

	p.collectRestriction(&osm.Relation{
		Tags: osm.Tags{
			{Key: "type", Value: "restriction"},
			{Key: "restriction", Value: "no_left_turn"},
		},
		Members: osm.Members{
			{Type: osm.TypeWay, Role: "from", Ref: 10},
			{Type: osm.TypeNode, Role: "via", Ref: 3},
			{Type: osm.TypeWay, Role: "to", Ref: 20},
		},
	})

	restrictions := p.resolveRestrictions(g)
	assert.Len(t, restrictions, 1)
	assert.Equal(t, p.nodeIDMap[1], restrictions[0].From)
	assert.Equal(t, p.nodeIDMap[3], restrictions[0].Via)
	assert.Equal(t, p.nodeIDMap[6], restrictions[0].To)
}

func TestResolveOnlyRestrictionForbidsOtherTurns(t *testing.T) {
	tags := osm.Tags{{Key: "highway", Value: "residential"}}
	way10 := wayWithNodes(10, tags, 1, 3)
	way20 := wayWithNodes(20, tags, 3, 6)
	way30 := wayWithNodes(30, tags, 3, 7)

	p := NewOsmParser()
	p.markWay(way10)
	p.markWay(way20)
	p.markWay(way30)
	p.stubCoords(1, 3, 6, 7)

	g := graph.NewGraph()
	p.processWay(way10, g)
	p.processWay(way20, g)
	p.processWay(way30, g)

	p.collectRestriction(&osm.Relation{
		Tags: osm.Tags{
			{Key: "type", Value: "restriction"},
			{Key: "restriction", Value: "only_straight_on"},
		},
		Members: osm.Members{
			{Type: osm.TypeWay, Role: "from", Ref: 10},
			{Type: osm.TypeNode, Role: "via", Ref: 3},
			{Type: osm.TypeWay, Role: "to", Ref: 20},
		},
	})

	restrictions := p.resolveRestrictions(g)
	// only turning onto way 20 stays legal, the arc toward node 7 is out
	assert.Len(t, restrictions, 1)
	assert.Equal(t, p.nodeIDMap[7], restrictions[0].To)
}

func TestCollectRestrictionSkipsViaWay(t *testing.T) {
	p := NewOsmParser()
	p.collectRestriction(&osm.Relation{
		Tags: osm.Tags{
			{Key: "type", Value: "restriction"},
			{Key: "restriction", Value: "no_u_turn"},
		},
		Members: osm.Members{
			{Type: osm.TypeWay, Role: "from", Ref: 10},
			{Type: osm.TypeWay, Role: "via", Ref: 15},
			{Type: osm.TypeWay, Role: "to", Ref: 20},
		},
	})
	assert.Empty(t, p.restrictions)
}

package osmparser

import (
	"context"
	"io"
	"log"
	"os"
	"strings"

	"github.com/aditya-wp/wayfinder/pkg/graph"
	"github.com/aditya-wp/wayfinder/pkg/interpreter"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

type NodeType int

const (
	END_NODE NodeType = iota
	BETWEEN_NODE
	JUNCTION_NODE
)

type nodeCoord struct {
	lat float64
	lon float64
}

// rawRestriction is a restriction relation as found in the file; the way
// references are resolved to graph vertices after the graph is built.
type rawRestriction struct {
	fromWay int64
	viaNode int64
	toWay   int64
	kind    string
}

type segmentEnd struct {
	wayID  int64
	nodeID int64
}

type OsmParser struct {
	wayNodeMap      map[int64]NodeType
	acceptedNodeMap map[int64]nodeCoord
	barrierNodes    map[int64]bool
	nodeIDMap       map[int64]int32
	restrictions    []rawRestriction
	// for each built segment touching a way endpoint, the vertex on the
	// other side. needed to turn (fromWay, viaNode, toWay) into a vertex
	// triple.
	segNeighbor map[segmentEnd]int32
}

func NewOsmParser() *OsmParser {
	return &OsmParser{
		wayNodeMap:      make(map[int64]NodeType),
		acceptedNodeMap: make(map[int64]nodeCoord),
		barrierNodes:    make(map[int64]bool),
		nodeIDMap:       make(map[int64]int32),
		segNeighbor:     make(map[segmentEnd]int32),
	}
}

var skipHighway = map[string]struct{}{
	"footway":                {},
	"construction":           {},
	"cycleway":               {},
	"path":                   {},
	"pedestrian":             {},
	"busway":                 {},
	"steps":                  {},
	"bridleway":              {},
	"corridor":               {},
	"street_lamp":            {},
	"bus_stop":               {},
	"crossing":               {},
	"elevator":               {},
	"emergency_bay":          {},
	"emergency_access_point": {},
	"give_way":               {},
	"platform":               {},
	"speed_camera":           {},
	"bus_guideway":           {},
	"traffic_signals":        {},
	"trailhead":              {},
}

// Parse reads a .osm.pbf file and builds the road graph plus the resolved
// turn restrictions. Two sequential scans: the first marks which nodes the
// accepted ways need and classifies them (junction detection), the second
// collects coordinates and emits graph segments split at junctions.
func (p *OsmParser) Parse(mapFile string) (*graph.Graph, []interpreter.TurnRestriction, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	scanner := osmpbf.New(context.Background(), f, 0)
	// must not be parallel
	countWays := 0
	for scanner.Scan() {
		o := scanner.Object()

		switch o.ObjectID().Type() {
		case osm.TypeWay:
			way := o.(*osm.Way)
			if len(way.Nodes) < 2 || !acceptOsmWay(way) {
				continue
			}
			if (countWays+1)%50000 == 0 {
				log.Printf("reading openstreetmap ways: %d...", countWays+1)
			}
			countWays++

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
		case osm.TypeRelation:
			relation := o.(*osm.Relation)
			p.collectRestriction(relation)
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, nil, err
	}
	scanner.Close()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, nil, err
	}
	scanner = osmpbf.New(context.Background(), f, 0)
	// must not be parallel
	defer scanner.Close()

	g := graph.NewGraph()
	countWays = 0
	countNodes := 0
	for scanner.Scan() {
		o := scanner.Object()

		switch o.ObjectID().Type() {
		case osm.TypeNode:
			if (countNodes+1)%50000 == 0 {
				log.Printf("processing openstreetmap nodes: %d...", countNodes+1)
			}
			countNodes++
			node := o.(*osm.Node)

			if _, ok := p.wayNodeMap[int64(node.ID)]; ok {
				p.acceptedNodeMap[int64(node.ID)] = nodeCoord{
					lat: node.Lat,
					lon: node.Lon,
				}
			}

			if node.Tags.Find("barrier") != "" ||
				node.Tags.Find("ford") != "" {
				p.barrierNodes[int64(node.ID)] = true
			}
		case osm.TypeWay:
			way := o.(*osm.Way)
			if len(way.Nodes) < 2 || !acceptOsmWay(way) {
				continue
			}
			if (countWays+1)%50000 == 0 {
				log.Printf("processing openstreetmap ways: %d...", countWays+1)
			}
			countWays++

			p.processWay(way, g)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	restrictions := p.resolveRestrictions(g)

	log.Printf("total vertices: %d", g.NumVertices())
	log.Printf("total turn restrictions: %d", len(restrictions))

	return g, restrictions, nil
}

func acceptOsmWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	junction := way.Tags.Find("junction")
	if highway != "" {
		if _, ok := skipHighway[highway]; !ok {
			return true
		}
	} else if way.Tags.Find("route") == "road" {
		return true
	} else if junction != "" {
		return true
	}
	return false
}

// processWay splits the way at junction nodes and stores one graph segment
// per run between junctions. The full tag set rides along unchanged, the
// vehicle profile interprets it at query time.
func (p *OsmParser) processWay(way *osm.Way, g *graph.Graph) {
	segment := make([]int64, 0, len(way.Nodes))
	for i, wayNode := range way.Nodes {
		nodeID := int64(wayNode.ID)
		if _, ok := p.acceptedNodeMap[nodeID]; !ok {
			continue
		}
		segment = append(segment, nodeID)

		last := i == len(way.Nodes)-1
		if (p.isSplitNode(nodeID) || last) && len(segment) > 1 {
			p.addSegment(int64(way.ID), segment, way.Tags, g)
			segment = segment[len(segment)-1:]
		}
	}
}

func (p *OsmParser) isSplitNode(nodeID int64) bool {
	if p.wayNodeMap[nodeID] == JUNCTION_NODE {
		return true
	}
	return p.barrierNodes[nodeID]
}

func (p *OsmParser) addSegment(wayID int64, segment []int64, tags osm.Tags, g *graph.Graph) {
	fromID := segment[0]
	toID := segment[len(segment)-1]
	if fromID == toID {
		// degenerate loop run
		return
	}

	from := p.vertexFor(fromID, g)
	to := p.vertexFor(toID, g)
	g.AddSegment(from, to, tags)

	p.segNeighbor[segmentEnd{wayID: wayID, nodeID: fromID}] = to
	p.segNeighbor[segmentEnd{wayID: wayID, nodeID: toID}] = from
}

func (p *OsmParser) vertexFor(nodeID int64, g *graph.Graph) int32 {
	if id, ok := p.nodeIDMap[nodeID]; ok {
		return id
	}
	coord := p.acceptedNodeMap[nodeID]
	id := g.AddVertex(coord.lat, coord.lon)
	p.nodeIDMap[nodeID] = id
	return id
}

func (p *OsmParser) collectRestriction(relation *osm.Relation) {
	if relation.Tags.Find("type") != "restriction" {
		return
	}
	kind := relation.Tags.Find("restriction")
	if kind == "" {
		kind = relation.Tags.Find("restriction:motorcar")
	}
	if !strings.HasPrefix(kind, "no_") && !strings.HasPrefix(kind, "only_") {
		return
	}

	raw := rawRestriction{kind: kind}
	for _, member := range relation.Members {
		switch {
		case member.Type == osm.TypeWay && member.Role == "from":
			raw.fromWay = member.Ref
		case member.Type == osm.TypeWay && member.Role == "to":
			raw.toWay = member.Ref
		case member.Type == osm.TypeNode && member.Role == "via":
			raw.viaNode = member.Ref
		}
	}
	// via-way restrictions span more than two hops, skip them
	if raw.fromWay == 0 || raw.toWay == 0 || raw.viaNode == 0 {
		return
	}
	p.restrictions = append(p.restrictions, raw)
}

// resolveRestrictions maps each relation to vertex triples. A no_* relation
// forbids exactly the from->via->to turn; an only_* relation forbids every
// other turn out of via.
func (p *OsmParser) resolveRestrictions(g *graph.Graph) []interpreter.TurnRestriction {
	out := make([]interpreter.TurnRestriction, 0, len(p.restrictions))
	for _, raw := range p.restrictions {
		via, ok := p.nodeIDMap[raw.viaNode]
		if !ok {
			continue
		}
		from, ok := p.segNeighbor[segmentEnd{wayID: raw.fromWay, nodeID: raw.viaNode}]
		if !ok {
			continue
		}
		to, ok := p.segNeighbor[segmentEnd{wayID: raw.toWay, nodeID: raw.viaNode}]
		if !ok {
			continue
		}

		if strings.HasPrefix(raw.kind, "no_") {
			out = append(out, interpreter.TurnRestriction{From: from, Via: via, To: to})
			continue
		}

		arcs, err := g.GetArcs(via)
		if err != nil {
			continue
		}
		for _, arc := range arcs {
			if arc.To == to || arc.To == from {
				continue
			}
			out = append(out, interpreter.TurnRestriction{From: from, Via: via, To: arc.To})
		}
	}
	return out
}

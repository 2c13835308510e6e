package pathfinding

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"voxelpath/internal/world"
)

// ErrUnknownNode is returned when a waypoint name is not registered.
var ErrUnknownNode = errors.New("unknown waypoint")

// GraphNode is a named waypoint. Adjacent maps neighbour names to edge cost;
// links are one way unless added in both directions.
type GraphNode struct {
	Name     string
	Coord    world.BlockCoord
	Adjacent map[string]float64
}

// Graph is an immutable registry of waypoints.
type Graph struct {
	nodes  map[string]*GraphNode
	scorer Scorer
}

type graphLink struct {
	from, to string
	cost     float64
}

// GraphBuilder assembles a Graph. Links may reference nodes declared later;
// names are resolved in Build.
type GraphBuilder struct {
	nodes  map[string]*GraphNode
	order  []string
	links  []graphLink
	scorer Scorer
	err    error
}

func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{nodes: make(map[string]*GraphNode), scorer: DefaultScorer{}}
}

// Node registers a waypoint. Registering a name twice is an error.
func (b *GraphBuilder) Node(name string, coord world.BlockCoord) *GraphBuilder {
	if b.err != nil {
		return b
	}
	if name == "" {
		b.err = errors.New("waypoint name must be set")
		return b
	}
	if _, ok := b.nodes[name]; ok {
		b.err = fmt.Errorf("waypoint %q declared twice", name)
		return b
	}
	b.nodes[name] = &GraphNode{Name: name, Coord: coord}
	b.order = append(b.order, name)
	return b
}

// Link adds a one way edge. A non-positive cost uses the straight-line
// distance between the two waypoints.
func (b *GraphBuilder) Link(from, to string, cost float64) *GraphBuilder {
	if b.err == nil {
		b.links = append(b.links, graphLink{from: from, to: to, cost: cost})
	}
	return b
}

// LinkBoth adds the edge in both directions with the same cost.
func (b *GraphBuilder) LinkBoth(a, c string, cost float64) *GraphBuilder {
	return b.Link(a, c, cost).Link(c, a, cost)
}

// Scorer sets the heuristic used for routing over the built graph.
func (b *GraphBuilder) Scorer(scorer Scorer) *GraphBuilder {
	if scorer != nil {
		b.scorer = scorer
	}
	return b
}

// Build resolves the links into a new Graph. The graph owns its nodes, so
// later calls on the builder do not change graphs it already produced.
func (b *GraphBuilder) Build() (*Graph, error) {
	if b.err != nil {
		return nil, b.err
	}
	g := &Graph{nodes: make(map[string]*GraphNode, len(b.nodes)), scorer: b.scorer}
	for _, name := range b.order {
		declared := b.nodes[name]
		g.nodes[name] = &GraphNode{Name: declared.Name, Coord: declared.Coord, Adjacent: make(map[string]float64)}
	}
	for _, link := range b.links {
		from, ok := g.nodes[link.from]
		if !ok {
			return nil, fmt.Errorf("link %s->%s: %w %q", link.from, link.to, ErrUnknownNode, link.from)
		}
		to, ok := g.nodes[link.to]
		if !ok {
			return nil, fmt.Errorf("link %s->%s: %w %q", link.from, link.to, ErrUnknownNode, link.to)
		}
		cost := link.cost
		if cost <= 0 {
			cost = euclidean(from.Coord, to.Coord)
		}
		from.Adjacent[link.to] = cost
	}
	return g, nil
}

// Node returns a copy of the named waypoint.
func (g *Graph) Node(name string) (GraphNode, bool) {
	node, ok := g.nodes[name]
	if !ok {
		return GraphNode{}, false
	}
	adjacent := make(map[string]float64, len(node.Adjacent))
	for k, v := range node.Adjacent {
		adjacent[k] = v
	}
	return GraphNode{Name: node.Name, Coord: node.Coord, Adjacent: adjacent}, true
}

// Neighbors lists the outgoing link targets of name in sorted order.
func (g *Graph) Neighbors(name string) []string {
	node, ok := g.nodes[name]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(node.Adjacent))
	for neighbour := range node.Adjacent {
		names = append(names, neighbour)
	}
	sort.Strings(names)
	return names
}

func (g *Graph) Len() int { return len(g.nodes) }

// GraphRoute is the outcome of a waypoint search.
type GraphRoute struct {
	Names  []string
	Coords []world.BlockCoord
	Cost   float64
	Found  bool
}

type graphVisit struct {
	name   string
	parent NodeID
	g      float64
}

// Route runs A* over waypoint names. Unknown endpoints are errors; an
// unreachable target is a normal result with Found unset.
func (g *Graph) Route(from, to string) (GraphRoute, error) {
	start, ok := g.nodes[from]
	if !ok {
		return GraphRoute{}, fmt.Errorf("route from: %w %q", ErrUnknownNode, from)
	}
	goal, ok := g.nodes[to]
	if !ok {
		return GraphRoute{}, fmt.Errorf("route to: %w %q", ErrUnknownNode, to)
	}

	visits := []graphVisit{{name: from, parent: noParent}}
	open := NewOpenSet[string]()
	open.Add(from, 0, g.scorer.Heuristic(start.Coord, goal.Coord))
	closed := make(map[string]struct{})

	for {
		id, ok := open.RemoveBest()
		if !ok {
			return GraphRoute{}, nil
		}
		current := visits[id]
		closed[current.name] = struct{}{}
		if current.name == to {
			return g.route(visits, id), nil
		}

		// Sorted neighbour order keeps equal-cost ties deterministic.
		for _, name := range g.Neighbors(current.name) {
			if _, done := closed[name]; done {
				continue
			}
			tentative := current.g + g.nodes[current.name].Adjacent[name]
			if existing, ok := open.Get(name); ok && tentative >= visits[existing].g {
				continue
			}
			visits = append(visits, graphVisit{name: name, parent: id, g: tentative})
			next := NodeID(len(visits) - 1)
			open.Add(name, next, tentative+g.scorer.Heuristic(g.nodes[name].Coord, goal.Coord))
		}
	}
}

func (g *Graph) route(visits []graphVisit, id NodeID) GraphRoute {
	route := GraphRoute{Found: true, Cost: visits[id].g}
	for ; id != noParent; id = visits[id].parent {
		route.Names = append(route.Names, visits[id].name)
	}
	for i, j := 0, len(route.Names)-1; i < j; i, j = i+1, j-1 {
		route.Names[i], route.Names[j] = route.Names[j], route.Names[i]
	}
	route.Coords = make([]world.BlockCoord, len(route.Names))
	for i, name := range route.Names {
		route.Coords[i] = g.nodes[name].Coord
	}
	return route
}

func euclidean(a, b world.BlockCoord) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	dz := float64(a.Z - b.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

package pathfinding

import (
	"context"
	"errors"
	"fmt"
	"math"

	"voxelpath/internal/world"
)

// State tracks where a search instance is in its lifecycle.
type State int

const (
	StateInitialized State = iota
	StateSearching
	StateFound
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateSearching:
		return "searching"
	case StateFound:
		return "found"
	case StateExhausted:
		return "exhausted"
	default:
		return "initialized"
	}
}

// Result is the outcome of a path query. A search that ran out of budget and
// one that proved the goal unreachable produce the same empty result.
type Result struct {
	Path  []world.BlockCoord
	Found bool
	Cost  float64
	Stats Stats
}

// Stats summarises the work done by one search run.
type Stats struct {
	Iterations int
	Closed     int
	MaxOpen    int
	Nodes      int
}

// Option customises a Search.
type Option func(*Search)

// WithScorer replaces the default step cost and heuristic.
func WithScorer(scorer Scorer) Option {
	return func(s *Search) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// Search runs grid A* over an Oracle. An instance is single threaded and is
// reset at the start of every run, so it can serve sequential queries.
type Search struct {
	oracle Oracle
	scorer Scorer
	cfg    Config

	nodes  arena
	open   *OpenSet[world.BlockCoord]
	closed map[world.BlockCoord]NodeID

	start    world.BlockCoord
	goal     world.BlockCoord
	state    State
	stats    Stats
	profiler NavigatorProfiler

	// closeHook observes nodes as they move to the closed set.
	closeHook func(*Node)
}

func NewSearch(oracle Oracle, cfg Config, opts ...Option) (*Search, error) {
	if oracle == nil {
		return nil, errors.New("pathfinding: oracle is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Search{
		oracle: oracle,
		scorer: DefaultScorer{},
		cfg:    cfg,
		open:   NewOpenSet[world.BlockCoord](),
		closed: make(map[world.BlockCoord]NodeID),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Search) Config() Config { return s.cfg }

func (s *Search) State() State { return s.state }

// Reset discards all nodes and returns the instance to StateInitialized.
func (s *Search) Reset() {
	s.open.Clear()
	clear(s.closed)
	s.nodes.reset(s.start)
	s.stats = Stats{}
	s.state = StateInitialized
}

// FindPath searches from start to goal and returns the route in start-to-goal order.
func (s *Search) FindPath(ctx context.Context, start, goal world.BlockCoord) Result {
	id, ok := s.run(ctx, start, goal, s.cfg.MaxTravelDistance)
	result := Result{Stats: s.stats}
	if !ok {
		return result
	}
	goalNode := s.nodes.node(id)
	result.Found = true
	result.Path = s.nodes.path(id)
	result.Cost = goalNode.g
	return result
}

// Distance returns the number of steps on the found route, or -1.
func (s *Search) Distance(ctx context.Context, start, goal world.BlockCoord) int {
	return s.distance(ctx, start, goal, s.cfg.MaxTravelDistance)
}

func (s *Search) distance(ctx context.Context, start, goal world.BlockCoord, maxClosed int) int {
	id, ok := s.run(ctx, start, goal, maxClosed)
	if !ok {
		return -1
	}
	return s.nodes.node(id).depth
}

// ClosedCost reports the final G score of a closed coordinate from the last run.
func (s *Search) ClosedCost(coord world.BlockCoord) (float64, bool) {
	id, ok := s.closed[coord]
	if !ok {
		return 0, false
	}
	return s.nodes.node(id).g, true
}

// run is the A* loop. maxClosed caps the closed set size, zero meaning
// unlimited; MaxIterations caps the number of expansions.
func (s *Search) run(ctx context.Context, start, goal world.BlockCoord, maxClosed int) (NodeID, bool) {
	s.start, s.goal = start, goal
	s.Reset()
	s.profiler = profilerFromContext(ctx)

	if !s.reachable(start, goal) {
		s.state = StateExhausted
		return noParent, false
	}

	terrain, _ := probe(ctx, s.oracle, s.cfg, start)
	root := s.nodes.add(start, noParent, terrain)
	s.score(root)
	s.open.Add(start, root, s.nodes.node(root).f)
	s.state = StateSearching

	for {
		if ctx.Err() != nil {
			return s.exhaust()
		}
		id, ok := s.open.RemoveBest()
		if !ok {
			return s.exhaust()
		}
		current := s.nodes.node(id)
		s.closed[current.Coord] = id
		s.stats.Closed = len(s.closed)
		if s.closeHook != nil {
			s.closeHook(current)
		}
		if s.profiler != nil {
			s.profiler.RecordNodeExpanded()
		}
		if current.Coord == goal {
			s.state = StateFound
			s.stats.Nodes = s.nodes.len()
			return id, true
		}

		if s.cfg.MaxIterations > 0 && s.stats.Iterations >= s.cfg.MaxIterations {
			return s.exhaust()
		}
		if maxClosed > 0 && len(s.closed) > maxClosed {
			return s.exhaust()
		}

		s.stats.Iterations++
		s.expand(ctx, id)
		if open := s.open.Len(); open > s.stats.MaxOpen {
			s.stats.MaxOpen = open
		}
	}
}

func (s *Search) exhaust() (NodeID, bool) {
	s.state = StateExhausted
	s.stats.Nodes = s.nodes.len()
	return noParent, false
}

// reachable rejects goals outside the range box or farther than MaxRange in a
// straight line before any node is created.
func (s *Search) reachable(start, goal world.BlockCoord) bool {
	if !s.cfg.inRange(start, goal) {
		return false
	}
	dx := float64(goal.X - start.X)
	dy := float64(goal.Y - start.Y)
	dz := float64(goal.Z - start.Z)
	return math.Sqrt(dx*dx+dy*dy+dz*dz) <= float64(s.cfg.MaxRange)
}

// score fills in G, H and F for an unscored node. The parent is always
// scored before its children are created.
func (s *Search) score(id NodeID) {
	n := s.nodes.node(id)
	if n.scored() {
		return
	}
	if n.Parent == noParent {
		n.g = 0
	} else {
		parent := s.nodes.node(n.Parent)
		n.g = parent.g + s.scorer.StepCost(parent.Coord, n.Coord)
	}
	n.h = s.scorer.Heuristic(n.Coord, s.goal)
	n.f = n.g + n.h
	if s.profiler != nil {
		s.profiler.RecordHeuristicEvaluation()
	}
}

// offer records coord as reachable from parent. An open node at the same
// coordinate is rebound only when the new route is strictly cheaper.
func (s *Search) offer(parent NodeID, coord world.BlockCoord, terrain Terrain) {
	if existing, ok := s.open.Get(coord); ok {
		from := s.nodes.node(parent)
		tentative := from.g + s.scorer.StepCost(from.Coord, coord)
		if tentative >= s.nodes.node(existing).g {
			return
		}
		s.nodes.rebind(existing, parent)
		s.score(existing)
		s.open.Add(coord, existing, s.nodes.node(existing).f)
		return
	}
	id := s.nodes.add(coord, parent, terrain)
	s.score(id)
	s.open.Add(coord, id, s.nodes.node(id).f)
}

func (s *Search) String() string {
	return fmt.Sprintf("search %v -> %v (%s, %d closed)", s.start, s.goal, s.state, len(s.closed))
}

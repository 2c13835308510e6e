package pathfinding

import "voxelpath/internal/world"

// Per-step movement costs, approximating Euclidean step length without a
// square root.
const (
	StraightCost       = 1.0
	PlanarDiagonalCost = 1.4
	SpaceDiagonalCost  = 1.7
)

// Scorer computes step costs and goal estimates for a search.
type Scorer interface {
	StepCost(from, to world.BlockCoord) float64
	Heuristic(from, goal world.BlockCoord) float64
}

// DefaultScorer charges by the number of changed axes and estimates with the
// squared Euclidean distance to the goal. The estimate is not admissible and
// can return longer routes than a true shortest path.
type DefaultScorer struct{}

func (DefaultScorer) StepCost(from, to world.BlockCoord) float64 {
	changed := 0
	if from.X != to.X {
		changed++
	}
	if from.Y != to.Y {
		changed++
	}
	if from.Z != to.Z {
		changed++
	}
	switch changed {
	case 0:
		return 0
	case 1:
		return StraightCost
	case 2:
		return PlanarDiagonalCost
	default:
		return SpaceDiagonalCost
	}
}

func (DefaultScorer) Heuristic(from, goal world.BlockCoord) float64 {
	dx := float64(from.X - goal.X)
	dy := float64(from.Y - goal.Y)
	dz := float64(from.Z - goal.Z)
	return dx*dx + dy*dy + dz*dz
}

package engine

import (
	"fmt"
	"math/rand"
)

// Generate builds a rows×cols grid with up to obstacleTarget obstacle cells
// while keeping the start→goal route walkable.
//
// Placement picks uniformly random cells, skips anything occupied or within
// one cell of start/goal, then keeps the obstacle only if the path oracle
// still finds a route. Attempts are bounded at placementAttemptFactor ×
// obstacleTarget, so a crowded grid degrades to fewer obstacles instead of
// looping forever. Solvability is never sacrificed for density.
func Generate(rows, cols, obstacleTarget int, rng *rand.Rand) (*Grid, error) {
	if rows < MinGridDim || rows > MaxGridDim || cols < MinGridDim || cols > MaxGridDim {
		return nil, fmt.Errorf("generate: grid dimensions %dx%d outside [%d,%d]", rows, cols, MinGridDim, MaxGridDim)
	}
	if obstacleTarget < 0 {
		return nil, fmt.Errorf("generate: negative obstacle target %d", obstacleTarget)
	}

	g := NewGrid(rows, cols)

	placed := 0
	maxAttempts := obstacleTarget * placementAttemptFactor
	for attempt := 0; attempt < maxAttempts && placed < obstacleTarget; attempt++ {
		p := Position{Row: rng.Intn(rows), Col: rng.Intn(cols)}
		if g.Cells[p.Row][p.Col] != CellEmpty {
			continue
		}
		if nearEndpoint(p, g.Start) || nearEndpoint(p, g.Goal) {
			continue
		}
		g.Cells[p.Row][p.Col] = CellObstacle
		if !HasPath(g, g.Start, g.Goal) {
			g.Cells[p.Row][p.Col] = CellEmpty
			continue
		}
		placed++
	}

	// An empty grid is always solvable, and every placement above was
	// verified, so a missing route here means the oracle itself is broken.
	if !HasPath(g, g.Start, g.Goal) {
		return nil, fmt.Errorf("generate: produced unsolvable %dx%d grid with %d obstacles", rows, cols, placed)
	}
	return g, nil
}

// nearEndpoint reports whether p falls inside the one-cell safety buffer
// around an endpoint, the margin that keeps start and goal approachable.
func nearEndpoint(p, endpoint Position) bool {
	return abs(p.Row-endpoint.Row) <= 1 && abs(p.Col-endpoint.Col) <= 1
}

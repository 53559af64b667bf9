package engine

// CellType classifies a single grid cell.
type CellType string

const (
	CellEmpty    CellType = "empty"
	CellObstacle CellType = "obstacle"
	CellStart    CellType = "start"
	CellGoal     CellType = "goal"
)

const (
	// MinGridDim and MaxGridDim bound the row/column counts a grid may have.
	MinGridDim = 4
	MaxGridDim = 64

	// NoPath is the PathLength sentinel for an unreachable goal.
	NoPath = -1

	// placementAttemptFactor bounds obstacle placement at factor × target
	// attempts before the generator settles for a sparser grid.
	placementAttemptFactor = 10
)

// Position is a cell coordinate. Row 0 is the top edge, Col 0 the left edge.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// ManhattanDistance returns |Δrow| + |Δcol| between two positions.
func ManhattanDistance(a, b Position) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

// IsAdjacentMove reports whether to is exactly one cardinal step from from.
func IsAdjacentMove(from, to Position) bool {
	return ManhattanDistance(from, to) == 1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Grid is an immutable obstacle map for one round. The start cell is always
// (0,0) and the goal cell (Rows-1,Cols-1).
type Grid struct {
	Rows  int          `json:"rows"`
	Cols  int          `json:"cols"`
	Cells [][]CellType `json:"cells"`
	Start Position     `json:"start"`
	Goal  Position     `json:"goal"`
}

// NewGrid builds an empty rows×cols grid with start and goal marked.
func NewGrid(rows, cols int) *Grid {
	cells := make([][]CellType, rows)
	for r := range cells {
		cells[r] = make([]CellType, cols)
		for c := range cells[r] {
			cells[r][c] = CellEmpty
		}
	}
	g := &Grid{
		Rows:  rows,
		Cols:  cols,
		Cells: cells,
		Start: Position{Row: 0, Col: 0},
		Goal:  Position{Row: rows - 1, Col: cols - 1},
	}
	g.Cells[g.Start.Row][g.Start.Col] = CellStart
	g.Cells[g.Goal.Row][g.Goal.Col] = CellGoal
	return g
}

// InBounds reports whether p lies inside the grid.
func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.Rows && p.Col >= 0 && p.Col < g.Cols
}

// Walkable reports whether p is inside the grid and not an obstacle.
func (g *Grid) Walkable(p Position) bool {
	return g.InBounds(p) && g.Cells[p.Row][p.Col] != CellObstacle
}

// ObstacleCount returns the number of obstacle cells currently placed.
func (g *Grid) ObstacleCount() int {
	count := 0
	for _, row := range g.Cells {
		for _, cell := range row {
			if cell == CellObstacle {
				count++
			}
		}
	}
	return count
}

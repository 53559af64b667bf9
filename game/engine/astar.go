package engine

import "container/heap"

// cardinalOffsets are the four allowed step directions. No diagonals.
var cardinalOffsets = [...]Position{
	{Row: -1, Col: 0},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
}

type pathNode struct {
	pos    Position
	g      int // cost from start
	h      int // heuristic to goal
	f      int // g + h
	index  int
	parent *pathNode
}

type pathQueue []*pathNode

func (pq pathQueue) Len() int { return len(pq) }

// Less orders by total estimated cost; on ties the node closer to the goal
// wins, which keeps the returned route deterministic when several optimal
// routes exist.
func (pq pathQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].h < pq[j].h
}

func (pq pathQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *pathQueue) Push(x any) {
	n := len(*pq)
	item := x.(*pathNode)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *pathQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// FindPath runs A* over the grid and returns the shortest walkable route
// from start to goal, both inclusive. Movement is four-directional with
// uniform step cost; the Manhattan heuristic is admissible and consistent,
// so the first goal expansion is optimal. Returns nil when unreachable.
func FindPath(g *Grid, start, goal Position) []Position {
	if g == nil || !g.Walkable(start) || !g.Walkable(goal) {
		return nil
	}
	if start == goal {
		return []Position{start}
	}

	open := &pathQueue{}
	heap.Init(open)
	startNode := &pathNode{pos: start, g: 0, h: ManhattanDistance(start, goal)}
	startNode.f = startNode.h
	heap.Push(open, startNode)

	gScore := map[Position]int{start: 0}
	closed := make(map[Position]struct{})

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		if _, seen := closed[current.pos]; seen {
			continue
		}
		closed[current.pos] = struct{}{}
		if current.pos == goal {
			return reconstructPath(current)
		}

		for _, delta := range cardinalOffsets {
			next := Position{Row: current.pos.Row + delta.Row, Col: current.pos.Col + delta.Col}
			if !g.Walkable(next) {
				continue
			}
			if _, seen := closed[next]; seen {
				continue
			}
			tentative := current.g + 1
			// Re-insertion on a strictly better tentative cost is required
			// for shortest-path correctness; stale entries are skipped via
			// the closed set on pop.
			if prev, ok := gScore[next]; ok && tentative >= prev {
				continue
			}
			gScore[next] = tentative
			h := ManhattanDistance(next, goal)
			heap.Push(open, &pathNode{
				pos:    next,
				g:      tentative,
				h:      h,
				f:      tentative + h,
				parent: current,
			})
		}
	}
	return nil
}

func reconstructPath(end *pathNode) []Position {
	var path []Position
	for node := end; node != nil; node = node.parent {
		path = append(path, node.pos)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathLength returns the step count of the shortest route between start and
// goal, or NoPath when the goal is unreachable.
func PathLength(g *Grid, start, goal Position) int {
	path := FindPath(g, start, goal)
	if len(path) == 0 {
		return NoPath
	}
	return len(path) - 1
}

// HasPath reports whether any walkable route connects start and goal.
func HasPath(g *Grid, start, goal Position) bool {
	return len(FindPath(g, start, goal)) > 0
}

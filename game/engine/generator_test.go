package engine

import (
	"math/rand"
	"testing"
)

func TestGenerateAlwaysSolvable(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		g, err := Generate(8, 8, 12, rng)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if !HasPath(g, g.Start, g.Goal) {
			t.Fatalf("seed %d: generated grid has no start->goal route", seed)
		}
	}
}

func TestGenerateRespectsTarget(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g, err := Generate(10, 10, 15, rng)
	if err != nil {
		t.Fatal(err)
	}
	if got := g.ObstacleCount(); got > 15 {
		t.Errorf("placed %d obstacles, want at most 15", got)
	}
}

func TestGenerateDegradesWhenCrowded(t *testing.T) {
	// Asking for more obstacles than the grid can hold must still yield a
	// solvable grid with fewer obstacles, not an error.
	rng := rand.New(rand.NewSource(3))
	g, err := Generate(6, 6, 200, rng)
	if err != nil {
		t.Fatal(err)
	}
	if g.ObstacleCount() >= 200 {
		t.Errorf("placed %d obstacles on a 6x6 grid", g.ObstacleCount())
	}
	if !HasPath(g, g.Start, g.Goal) {
		t.Error("crowded grid lost its start->goal route")
	}
}

func TestGenerateKeepsEndpointBuffer(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		g, err := Generate(8, 8, 20, rng)
		if err != nil {
			t.Fatal(err)
		}
		for r := 0; r < g.Rows; r++ {
			for c := 0; c < g.Cols; c++ {
				if g.Cells[r][c] != CellObstacle {
					continue
				}
				p := Position{Row: r, Col: c}
				if nearEndpoint(p, g.Start) || nearEndpoint(p, g.Goal) {
					t.Fatalf("seed %d: obstacle at %v inside endpoint buffer", seed, p)
				}
			}
		}
	}
}

func TestGenerateMarksCorners(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g, err := Generate(5, 7, 4, rng)
	if err != nil {
		t.Fatal(err)
	}
	if g.Cells[0][0] != CellStart {
		t.Errorf("cell (0,0) = %s, want start", g.Cells[0][0])
	}
	if g.Cells[4][6] != CellGoal {
		t.Errorf("cell (4,6) = %s, want goal", g.Cells[4][6])
	}
	if g.Start != (Position{0, 0}) || g.Goal != (Position{4, 6}) {
		t.Errorf("endpoints = %v/%v, want (0,0)/(4,6)", g.Start, g.Goal)
	}
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	a, err := Generate(8, 8, 10, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(8, 8, 10, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatal(err)
	}
	for r := 0; r < a.Rows; r++ {
		for c := 0; c < a.Cols; c++ {
			if a.Cells[r][c] != b.Cells[r][c] {
				t.Fatalf("cell (%d,%d) differs across identical seeds", r, c)
			}
		}
	}
}

func TestGenerateRejectsBadDimensions(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := Generate(2, 8, 4, rng); err == nil {
		t.Error("expected error for 2-row grid")
	}
	if _, err := Generate(8, 8, -1, rng); err == nil {
		t.Error("expected error for negative obstacle target")
	}
}

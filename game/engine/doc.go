// Package engine implements the deterministic core of a grid arena round:
// grid generation with a guaranteed walkable route, the A* path oracle used
// for solvability checks and agent hints, and the per-move resolution
// pipeline applied to a round's live state.
//
// The engine is purely in-memory. It knows nothing about matches, prize
// pools, or persistence; participants appear only as opaque IDs. Given the
// same RNG seed and move sequence it reproduces identical outcomes.
package engine

// Package match owns the authoritative runtime state of elimination
// matches: the entrant pool, the round lifecycle state machine, move
// processing through the engine's resolution pipeline, and the per-round
// ranking/elimination algorithm that culls the pool to a single winner
// across three rounds.
//
// A Registry holds every live match keyed by ID. Each match serializes its
// own operations with a per-match mutex, so at most one move is in flight
// per match while different matches proceed fully in parallel. Downstream
// collaborators (persistence, broadcast, settlement) are fire-and-forget:
// their failure never rolls back an in-memory outcome.
package match

// Package storage persists match outcomes, round standings, and the move
// log to Postgres through GORM. Writes are asynchronous and best-effort:
// the match engine never blocks on the database, and a failed write is
// logged and dropped rather than surfaced to gameplay.
package storage

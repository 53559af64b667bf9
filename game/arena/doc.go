// Package arena loads, validates, and caches arena templates: the immutable
// per-arena configuration (grid shape, obstacle density, round time budget,
// entry stake, capacity, elimination table) that matches are created from.
// Templates live as JSON files in a directory; a built-in default is always
// available.
package arena

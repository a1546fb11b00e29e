// Package srtops holds the simple timeline transforms around the core
// pipeline: renumbering, batch concatenation, cue extraction and patch-in,
// end-time extension, and credit insertion.
package srtops

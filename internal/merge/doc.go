// Package merge fuses adjacent subtitle cues under gap, duration, and
// line-layout constraints.
//
// The engine walks the timeline once, left to right, growing a candidate
// window while every constraint holds and closing it on the first failure.
// Author-supplied control markers steer the pass: a leading [NM] tag forbids
// fusing a cue with its predecessor, and a leading [SC] tag requests
// dual-speaker formatting, which is only legal as the second member of a
// two-cue window. Markers are consumed and never appear in output.
//
// Every fusion of two or more cues is recorded as a provenance entry keyed
// by the output cue's start time. Start times are the one field no later
// pipeline stage rewrites, which is what makes the key usable for
// correspondence matching downstream.
package merge

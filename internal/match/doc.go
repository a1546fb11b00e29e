// Package match maps translated cues back to the source-language cues they
// render, surviving the merge and renumber passes that make cue indices
// meaningless.
//
// Resolution runs three tiers per target cue, best evidence first: merge
// provenance (the fusion report keyed by output start time), the pre-merge
// draft mapping snapshot, and finally plain start-time proximity. Start
// times are the one cue field no pipeline stage rewrites, so every tier
// keys on them.
package match

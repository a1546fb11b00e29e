// Command cuesmith is the subtitle merge and timing QC toolkit CLI.
//
// Each pipeline operation is a cobra subcommand: merge, draftmap,
// timingcheck, validate, renumber, concat, extract, patch, extend,
// extend-to-speech, sdh, credit, cache, and config. Configuration comes from
// ~/.config/cuesmith/config.toml (or --config); per-run flags override
// individual thresholds.
package main

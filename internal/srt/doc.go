// Package srt holds the canonical in-memory cue timeline model plus the
// SubRip wire-format reader and writer every other component builds on.
//
// Parsing is lenient where players are lenient (BOM, CRLF, comma or period
// millisecond separators, empty cue text) and strict where correctness
// matters: malformed blocks are collected as findings rather than silently
// repaired, and a file that yields zero cues is treated as unusable by
// callers. Serialization always emits UTF-8 with BOM and CRLF line endings
// for hardware-player compatibility.
package srt

// Package speech converts raw PCM audio into a smoothed speech/silence
// frame map and the boundary transitions subtitle timing is checked against.
//
// Classification runs per fixed-duration frame through a voice-activity
// classifier (WebRTC VAD behind a cgo build tag, with a stub that reports
// unavailability when cgo is off). Smoothing bridges silence runs shorter
// than the hangover so word-internal pauses do not fragment a sentence,
// while genuine sentence gaps survive. Transition extraction walks the
// smoothed map once and yields strictly increasing start and end lists that
// support binary-search nearest lookups.
package speech

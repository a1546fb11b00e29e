// Package audiocache extracts mono 16kHz PCM audio from video files via
// ffmpeg and keeps the extracted WAVs in an on-disk cache so repeated QC
// runs against the same source skip the decode.
//
// Entries are keyed by the source's absolute path and size and validated
// against a SQLite manifest (size plus SHA-256) before reuse; anything torn
// or stale falls back to re-extraction. Writes are serialized with a file
// lock because concurrent runs share the cache directory.
package audiocache

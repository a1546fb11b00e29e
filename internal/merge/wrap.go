package merge

import (
	"strings"
	"unicode/utf8"

	"cuesmith/internal/srt"
)

// Marker identifies a leading merge-control tag on a cue's text.
type Marker string

const (
	// MarkerNone means the text carries no control tag.
	MarkerNone Marker = ""
	// MarkerSpeakerChange requests dual-speaker formatting on fusion.
	MarkerSpeakerChange Marker = "SC"
	// MarkerNoMerge forbids fusing the cue with its predecessor.
	MarkerNoMerge Marker = "NM"
)

// DetectMarker strips a leading [SC] or [NM] tag and reports which one was
// present. Tags are only recognized at the very start of the text.
func DetectMarker(text string) (Marker, string) {
	stripped := strings.TrimLeft(text, " \t\n")
	if rest, ok := strings.CutPrefix(stripped, "[SC]"); ok {
		return MarkerSpeakerChange, strings.TrimLeft(rest, " \t\n")
	}
	if rest, ok := strings.CutPrefix(stripped, "[NM]"); ok {
		return MarkerNoMerge, strings.TrimLeft(rest, " \t\n")
	}
	return MarkerNone, text
}

// Wrap greedily packs words into lines of at most maxChars visible
// characters, never splitting a word. It fails when a single word exceeds
// maxChars, when more than maxLines lines would be needed, or when any
// produced line still measures over the limit.
func Wrap(text string, maxChars, maxLines int) (string, bool) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return "", true
	}

	var lines []string
	var current []string
	currentLen := 0

	for _, word := range words {
		wordLen := utf8.RuneCountInString(word)
		if wordLen > maxChars {
			return "", false
		}
		sep := 0
		if len(current) > 0 {
			sep = 1
		}
		if currentLen+sep+wordLen <= maxChars {
			current = append(current, word)
			currentLen += sep + wordLen
		} else {
			lines = append(lines, strings.Join(current, " "))
			current = []string{word}
			currentLen = wordLen
		}
	}
	lines = append(lines, strings.Join(current, " "))

	if len(lines) > maxLines {
		return "", false
	}
	for _, line := range lines {
		if srt.VisibleLength(line) > maxChars {
			return "", false
		}
	}
	return strings.Join(lines, "\n"), true
}

// fuseText combines two cue texts into one display block. Same-speaker
// fusion collapses both texts, drops the continuation ellipses that meet at
// the boundary, and rewraps. Speaker-change fusion keeps both texts as
// distinct lines with a dash prefixing the second.
func fuseText(first, second string, maxChars, maxLines int, speakerChange bool) (string, bool) {
	if speakerChange {
		line1 := strings.TrimSpace(first)
		line2 := strings.TrimSpace(second)
		line2 = strings.TrimLeft(strings.TrimPrefix(line2, "-"), " ")
		fused := line1 + "\n-" + line2
		lines := strings.Split(fused, "\n")
		if len(lines) > maxLines {
			return "", false
		}
		for _, line := range lines {
			if srt.VisibleLength(line) > maxChars {
				return "", false
			}
		}
		return fused, true
	}

	// Existing dual-speaker formatting cannot survive a collapse-and-rewrap.
	if srt.IsDualSpeaker(first) || srt.IsDualSpeaker(second) {
		return "", false
	}

	collapsed1 := strings.Join(strings.Fields(first), " ")
	collapsed2 := strings.Join(strings.Fields(second), " ")
	collapsed1 = strings.TrimRight(strings.TrimSuffix(collapsed1, "..."), " ")
	collapsed2 = strings.TrimLeft(strings.TrimPrefix(collapsed2, "..."), " ")

	return Wrap(collapsed1+" "+collapsed2, maxChars, maxLines)
}

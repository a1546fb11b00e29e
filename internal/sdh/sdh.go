// Package sdh strips hearing-impaired annotations from a cue timeline:
// bracketed and parenthesized sound descriptions, all-caps speaker labels,
// and music lines. Cues left without text are dropped.
package sdh

import (
	"regexp"
	"strings"

	"cuesmith/internal/srt"
)

var (
	bracketed   = regexp.MustCompile(`\[[^\]]*\]`)
	parenthized = regexp.MustCompile(`\([^)]*\)`)

	// Speaker labels are all-caps up to a colon at the start of a line, with
	// an optional dialogue dash kept in front of the remaining text.
	speakerLabel = regexp.MustCompile(`^(-?\s*)[A-Z][A-Z0-9 .'&-]*:\s*`)
)

// StripText removes SDH annotations from one cue text. The result may be
// empty when the cue held nothing but annotations.
func StripText(text string) string {
	text = bracketed.ReplaceAllString(text, "")
	text = parenthized.ReplaceAllString(text, "")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.ContainsAny(line, "♪♫") || strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		line = speakerLabel.ReplaceAllString(line, "$1")
		line = strings.Join(strings.Fields(line), " ")
		if line == "" || line == "-" {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Strip applies StripText to every cue, drops the ones left empty, and
// renumbers the survivors. It returns the kept cues and the number removed.
func Strip(cues []srt.Cue) ([]srt.Cue, int) {
	kept := make([]srt.Cue, 0, len(cues))
	for _, cue := range cues {
		cue.Text = StripText(cue.Text)
		if cue.Text == "" {
			continue
		}
		kept = append(kept, cue)
	}
	for i := range kept {
		kept[i].Index = i + 1
	}
	return kept, len(cues) - len(kept)
}

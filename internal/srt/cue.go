package srt

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Cue represents a single timed subtitle entry. Text keeps embedded newlines;
// all derived measurements treat the newline as invisible.
type Cue struct {
	Index   int
	StartMS int
	EndMS   int
	Text    string
}

// DurationMS returns the display duration in milliseconds.
func (c Cue) DurationMS() int {
	return c.EndMS - c.StartMS
}

// CharCount returns the number of visible characters, spaces included and
// line breaks excluded.
func (c Cue) CharCount() int {
	return utf8.RuneCountInString(strings.ReplaceAll(c.Text, "\n", ""))
}

// CPS returns the cue's characters-per-second density. Non-positive durations
// report +Inf so density checks always flag them.
func (c Cue) CPS() float64 {
	if c.DurationMS() <= 0 {
		return math.Inf(1)
	}
	return float64(c.CharCount()) / (float64(c.DurationMS()) / 1000.0)
}

// Lines splits the cue text into its display lines.
func (c Cue) Lines() []string {
	return strings.Split(c.Text, "\n")
}

// LineCount returns the number of display lines.
func (c Cue) LineCount() int {
	return len(c.Lines())
}

// MaxLineLength returns the longest visible line length.
func (c Cue) MaxLineLength() int {
	longest := 0
	for _, line := range c.Lines() {
		if l := VisibleLength(line); l > longest {
			longest = l
		}
	}
	return longest
}

// VisibleLength counts the characters a viewer actually sees: formatting
// tags such as <i> and {\an8} are invisible on screen and do not count
// against line-length limits.
func VisibleLength(line string) int {
	count := 0
	depth := 0
	braceDepth := 0
	for _, r := range line {
		switch {
		case r == '<':
			depth++
		case r == '>' && depth > 0:
			depth--
		case r == '{':
			braceDepth++
		case r == '}' && braceDepth > 0:
			braceDepth--
		case depth == 0 && braceDepth == 0:
			count++
		}
	}
	return count
}

// IsDualSpeaker reports whether the text already carries two-speaker
// formatting (a dash-prefixed second line). Such cues must not be collapsed
// and rewrapped, or the speaker separation is lost.
func IsDualSpeaker(text string) bool {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return false
	}
	for _, line := range lines[1:] {
		if strings.HasPrefix(strings.TrimSpace(line), "-") {
			return true
		}
	}
	return false
}

package validate

import (
	"fmt"
	"strings"

	"cuesmith/internal/srt"
)

// Level separates findings a delivery must not ship with from ones worth a
// look.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Finding is one rule violation on one cue.
type Finding struct {
	CueIndex int    `json:"cue_index"`
	Rule     string `json:"rule"`
	Level    Level  `json:"level"`
	Message  string `json:"message"`
}

// Limits carries the delivery constraints the rules check against.
type Limits struct {
	MaxLines      int
	MaxLineLength int
	SoftMaxCPS    float64
	HardMaxCPS    float64
	MinDurationMS int
	MaxDurationMS int
	MinGapMS      int
}

// DefaultLimits are two-line 42-character subtitles at broadcast reading
// speeds.
func DefaultLimits() Limits {
	return Limits{
		MaxLines:      2,
		MaxLineLength: 42,
		SoftMaxCPS:    17,
		HardMaxCPS:    22,
		MinDurationMS: 1000,
		MaxDurationMS: 7000,
		MinGapMS:      83,
	}
}

// Validate runs every rule over the timeline and returns the collected
// findings in cue order.
func Validate(cues []srt.Cue, limits Limits) []Finding {
	var findings []Finding
	add := func(cue srt.Cue, rule string, level Level, format string, args ...any) {
		findings = append(findings, Finding{
			CueIndex: cue.Index,
			Rule:     rule,
			Level:    level,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	for i, cue := range cues {
		if cue.DurationMS() <= 0 {
			add(cue, "non_positive_duration", LevelError, "duration %dms", cue.DurationMS())
		} else {
			if cue.DurationMS() < limits.MinDurationMS {
				add(cue, "too_short", LevelWarning, "duration %dms under %dms", cue.DurationMS(), limits.MinDurationMS)
			}
			if cue.DurationMS() > limits.MaxDurationMS {
				add(cue, "too_long", LevelWarning, "duration %dms over %dms", cue.DurationMS(), limits.MaxDurationMS)
			}
			if cps := cue.CPS(); cps > limits.HardMaxCPS {
				add(cue, "cps_hard", LevelError, "%.1f cps over hard limit %.1f", cps, limits.HardMaxCPS)
			} else if cps > limits.SoftMaxCPS {
				add(cue, "cps_soft", LevelWarning, "%.1f cps over %.1f", cps, limits.SoftMaxCPS)
			}
		}

		if cue.LineCount() > limits.MaxLines {
			add(cue, "too_many_lines", LevelError, "%d lines", cue.LineCount())
		}
		for _, line := range cue.Lines() {
			if n := srt.VisibleLength(line); n > limits.MaxLineLength {
				add(cue, "line_too_long", LevelError, "line of %d chars over %d", n, limits.MaxLineLength)
			}
		}

		checkPunctuation(cue, add)
		checkOrphanedWord(cue, add)
		checkSpeakerDash(cue, add)

		if cue.Index != i+1 {
			add(cue, "non_sequential_index", LevelWarning, "index %d at position %d", cue.Index, i+1)
		}

		if i == 0 {
			continue
		}
		prev := cues[i-1]
		if cue.StartMS < prev.StartMS {
			add(cue, "out_of_order", LevelError, "starts before cue %d", prev.Index)
		}
		if cue.StartMS < prev.EndMS {
			add(cue, "overlap", LevelError, "overlaps cue %d by %dms", prev.Index, prev.EndMS-cue.StartMS)
		} else if gap := cue.StartMS - prev.EndMS; gap < limits.MinGapMS {
			add(cue, "short_gap", LevelWarning, "%dms gap to cue %d under %dms", gap, prev.Index, limits.MinGapMS)
		}

		checkContinuation(prev, cue, add)
		checkDuplicate(prev, cue, add)
	}
	return findings
}

func checkPunctuation(cue srt.Cue, add func(srt.Cue, string, Level, string, ...any)) {
	if strings.Contains(cue.Text, "!") {
		add(cue, "exclamation", LevelWarning, "exclamation mark in text")
	}
	if strings.Contains(cue.Text, ";") {
		add(cue, "semicolon", LevelError, "semicolon in text")
	}
	if strings.Contains(cue.Text, "…") {
		add(cue, "smart_ellipsis", LevelWarning, "U+2026 ellipsis, expected ...")
	}
}

// checkContinuation flags a cue opening with a continuation ellipsis whose
// predecessor does not close with one.
func checkContinuation(prev, cue srt.Cue, add func(srt.Cue, string, Level, string, ...any)) {
	if strings.HasPrefix(strings.TrimSpace(cue.Text), "...") &&
		!strings.HasSuffix(strings.TrimSpace(prev.Text), "...") {
		add(cue, "unpaired_continuation", LevelWarning, "opens with ... but cue %d does not end with ...", prev.Index)
	}
}

// checkOrphanedWord flags a multi-line cue that strands a very short word on
// its own line.
func checkOrphanedWord(cue srt.Cue, add func(srt.Cue, string, Level, string, ...any)) {
	lines := cue.Lines()
	if len(lines) < 2 {
		return
	}
	for _, line := range lines {
		word := strings.TrimSpace(line)
		if word != "" && !strings.ContainsAny(word, " ") && len([]rune(word)) <= 3 && !strings.HasPrefix(word, "-") {
			add(cue, "orphaned_word", LevelWarning, "line holds only %q", word)
		}
	}
}

// checkSpeakerDash flags dialogue dashes written with a space after the
// dash; the house style is a bare dash glued to the word.
func checkSpeakerDash(cue srt.Cue, add func(srt.Cue, string, Level, string, ...any)) {
	for _, line := range cue.Lines() {
		if strings.HasPrefix(line, "- ") {
			add(cue, "speaker_dash", LevelWarning, "dialogue dash followed by a space")
		}
	}
}

func checkDuplicate(prev, cue srt.Cue, add func(srt.Cue, string, Level, string, ...any)) {
	a := strings.TrimSpace(prev.Text)
	b := strings.TrimSpace(cue.Text)
	if a == "" || b == "" {
		return
	}
	switch {
	case a == b:
		add(cue, "duplicate_text", LevelWarning, "identical to cue %d", prev.Index)
	case strings.Contains(a, b) || strings.Contains(b, a):
		add(cue, "substring_text", LevelWarning, "substring of cue %d", prev.Index)
	}
}

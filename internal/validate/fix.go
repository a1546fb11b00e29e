package validate

import (
	"fmt"
	"sort"
	"strings"

	"cuesmith/internal/srt"
)

// Change records one applied repair.
type Change struct {
	CueIndex int    `json:"cue_index"`
	Rule     string `json:"rule"`
	Detail   string `json:"detail"`
}

// FixResult carries the repaired timeline, what was changed, and what could
// not be repaired mechanically.
type FixResult struct {
	Cues      []srt.Cue
	Changes   []Change
	Unfixable []Finding
}

// Fix applies every mechanical repair: temporal re-sort, punctuation and
// ellipsis normalization, dialogue-dash style, bottom-heavy line re-break,
// overlap and short-gap repair by pulling the previous end time, and a final
// sequential renumber. Repairs that would damage a cue are refused and land
// in Unfixable.
func Fix(cues []srt.Cue, limits Limits) FixResult {
	out := make([]srt.Cue, len(cues))
	copy(out, cues)
	var result FixResult

	if !sort.SliceIsSorted(out, func(i, j int) bool { return out[i].StartMS < out[j].StartMS }) {
		sort.SliceStable(out, func(i, j int) bool { return out[i].StartMS < out[j].StartMS })
		result.Changes = append(result.Changes, Change{Rule: "resort", Detail: "cues re-sorted by start time"})
	}

	for i := range out {
		fixText(&out[i], limits, &result)
	}

	for i := 1; i < len(out); i++ {
		prev := &out[i-1]
		cur := out[i]
		gap := cur.StartMS - prev.EndMS
		if gap >= limits.MinGapMS {
			continue
		}
		newEnd := cur.StartMS - limits.MinGapMS
		if newEnd <= prev.StartMS {
			result.Unfixable = append(result.Unfixable, Finding{
				CueIndex: prev.Index,
				Rule:     "overlap",
				Level:    LevelWarning,
				Message:  fmt.Sprintf("cannot pull end before cue %d: previous cue would collapse", cur.Index),
			})
			continue
		}
		rule := "short_gap"
		if gap < 0 {
			rule = "overlap"
		}
		result.Changes = append(result.Changes, Change{
			CueIndex: prev.Index,
			Rule:     rule,
			Detail:   fmt.Sprintf("end pulled from %d to %d", prev.EndMS, newEnd),
		})
		prev.EndMS = newEnd
	}

	renumbered := false
	for i := range out {
		if out[i].Index != i+1 {
			out[i].Index = i + 1
			renumbered = true
		}
	}
	if renumbered {
		result.Changes = append(result.Changes, Change{Rule: "renumber", Detail: "indices made sequential"})
	}

	result.Cues = out
	return result
}

func fixText(cue *srt.Cue, limits Limits, result *FixResult) {
	text := cue.Text

	if strings.Contains(text, "…") {
		text = strings.ReplaceAll(text, "…", "...")
		result.Changes = append(result.Changes, Change{CueIndex: cue.Index, Rule: "smart_ellipsis", Detail: "U+2026 replaced with ..."})
	}
	if strings.Contains(text, "!") {
		text = strings.ReplaceAll(text, "!", ".")
		result.Changes = append(result.Changes, Change{CueIndex: cue.Index, Rule: "exclamation", Detail: "! replaced with ."})
	}
	if strings.Contains(text, ";") {
		text = strings.ReplaceAll(text, ";", ".")
		result.Changes = append(result.Changes, Change{CueIndex: cue.Index, Rule: "semicolon", Detail: "; replaced with ."})
	}

	lines := strings.Split(text, "\n")
	dashFixed := false
	for i, line := range lines {
		if strings.HasPrefix(line, "- ") {
			lines[i] = "-" + strings.TrimLeft(line[2:], " ")
			dashFixed = true
		}
	}
	if dashFixed {
		text = strings.Join(lines, "\n")
		result.Changes = append(result.Changes, Change{CueIndex: cue.Index, Rule: "speaker_dash", Detail: "space after dialogue dash removed"})
	}

	text = rebreak(cue, text, limits, result)
	cue.Text = text
}

// rebreak re-wraps a cue whose layout violates the line limits or puts the
// longer line on top. Dual-speaker cues keep their line structure.
func rebreak(cue *srt.Cue, text string, limits Limits, result *FixResult) string {
	if srt.IsDualSpeaker(text) {
		return text
	}
	lines := strings.Split(text, "\n")

	needs := len(lines) > limits.MaxLines
	for _, line := range lines {
		if srt.VisibleLength(line) > limits.MaxLineLength {
			needs = true
		}
	}
	if len(lines) == 2 && srt.VisibleLength(lines[0]) > srt.VisibleLength(lines[1]) {
		needs = true
	}
	if !needs {
		return text
	}

	fixed, ok := breakBottomHeavy(strings.Join(strings.Fields(strings.ReplaceAll(text, "\n", " ")), " "), limits.MaxLineLength, limits.MaxLines)
	if !ok {
		result.Unfixable = append(result.Unfixable, Finding{
			CueIndex: cue.Index,
			Rule:     "line_too_long",
			Level:    LevelError,
			Message:  "text cannot be re-broken within line limits",
		})
		return text
	}
	if fixed != text {
		result.Changes = append(result.Changes, Change{CueIndex: cue.Index, Rule: "rebreak", Detail: "lines re-broken bottom-heavy"})
	}
	return fixed
}

// breakBottomHeavy lays words out so the second line is at least as long as
// the first. It fails when a single word exceeds the line limit or the text
// does not fit the allowed lines.
func breakBottomHeavy(text string, maxLen, maxLines int) (string, bool) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return "", true
	}
	for _, w := range words {
		if srt.VisibleLength(w) > maxLen {
			return "", false
		}
	}
	if srt.VisibleLength(text) <= maxLen {
		return text, true
	}
	if maxLines < 2 {
		return "", false
	}

	best := ""
	bestDiff := -1
	for split := 1; split < len(words); split++ {
		top := strings.Join(words[:split], " ")
		bottom := strings.Join(words[split:], " ")
		tl, bl := srt.VisibleLength(top), srt.VisibleLength(bottom)
		if tl > maxLen || bl > maxLen || tl > bl {
			continue
		}
		if diff := bl - tl; bestDiff == -1 || diff < bestDiff {
			best = top + "\n" + bottom
			bestDiff = diff
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

package timingqc

import (
	"fmt"

	"cuesmith/internal/srt"
)

// Kind names a timing defect.
type Kind string

const (
	KindCutsOffDuringSpeech Kind = "cuts_off_during_speech"
	KindLingersAfterSpeech  Kind = "lingers_after_speech"
	KindLateStart           Kind = "late_start"
	KindEarlyStart          Kind = "early_start"
	KindMissingAnticipation Kind = "missing_anticipation"
)

// Severity buckets issues for triage.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// HandOffToleranceMS covers three distinct judgements with one value: a next
// cue starting this close counts as a continuous hand-off, a previous cue
// still visible this close to the cue start explains a late or unanticipated
// start, and a boundary this close to the matched source cue's boundary
// marks the issue as inherited rather than introduced.
const HandOffToleranceMS = 200

const (
	// EarlyStartThresholdMS flags cues that appear long before any speech.
	EarlyStartThresholdMS = 1500

	// AnticipationIdealMS is the upper bound of the preferred lead-in where
	// a subtitle appears slightly before its speech.
	AnticipationIdealMS = 200

	highEndDeltaMS    = 1000
	highLingerDeltaMS = -1500
	highLateDeltaMS   = -1000
)

// Issue is one classified timing defect on a cue boundary.
type Issue struct {
	Kind      Kind     `json:"kind"`
	Severity  Severity `json:"severity"`
	DeltaMS   int      `json:"delta_ms"`
	Inherited bool     `json:"inherited_from_source,omitempty"`
	Message   string   `json:"message"`
}

// Classify turns a cue's measured deltas into issues. prev and next are the
// neighbouring target cues, nil at the timeline edges.
func Classify(r Result, thresholdMS int, prev, next *srt.Cue) []Issue {
	var issues []Issue

	if r.EndDeltaMS != nil {
		delta := *r.EndDeltaMS
		speechEnd := r.EndMS + delta
		switch {
		case delta > thresholdMS:
			// A next cue that picks the line up before the speech ends, or
			// right on this cue's heels, makes the early cut invisible.
			handoff := next != nil &&
				(next.StartMS <= speechEnd || next.StartMS-r.EndMS <= HandOffToleranceMS)
			if !handoff {
				sev := SeverityMedium
				if delta > highEndDeltaMS {
					sev = SeverityHigh
				}
				issues = append(issues, inherit(Issue{
					Kind:     KindCutsOffDuringSpeech,
					Severity: sev,
					DeltaMS:  delta,
					Message:  fmt.Sprintf("speech continues %dms past cue end", delta),
				}, r.EndMS, r.SourceEndMS))
			}
		case delta < -thresholdMS:
			sev := SeverityMedium
			if delta < highLingerDeltaMS {
				sev = SeverityHigh
			}
			issues = append(issues, inherit(Issue{
				Kind:     KindLingersAfterSpeech,
				Severity: sev,
				DeltaMS:  delta,
				Message:  fmt.Sprintf("cue lingers %dms after speech ends", -delta),
			}, r.EndMS, r.SourceEndMS))
		}
	}

	if r.StartDeltaMS != nil {
		delta := *r.StartDeltaMS
		// A previous cue still on screen just before this one appears
		// explains both a late start and a missing lead-in: the viewer was
		// already reading.
		covered := prev != nil && prev.EndMS >= r.StartMS-HandOffToleranceMS
		switch {
		case delta < -thresholdMS:
			if !covered {
				sev := SeverityMedium
				if delta < highLateDeltaMS {
					sev = SeverityHigh
				}
				issues = append(issues, inherit(Issue{
					Kind:     KindLateStart,
					Severity: sev,
					DeltaMS:  delta,
					Message:  fmt.Sprintf("speech began %dms before cue appeared", -delta),
				}, r.StartMS, r.SourceStartMS))
			}
		case delta > EarlyStartThresholdMS:
			issues = append(issues, Issue{
				Kind:     KindEarlyStart,
				Severity: SeverityLow,
				DeltaMS:  delta,
				Message:  fmt.Sprintf("cue appears %dms before speech", delta),
			})
		case delta <= 0:
			if !covered {
				issues = append(issues, inherit(Issue{
					Kind:     KindMissingAnticipation,
					Severity: SeverityMedium,
					DeltaMS:  delta,
					Message:  "cue does not precede its speech",
				}, r.StartMS, r.SourceStartMS))
			}
		}
	}

	return issues
}

// inherit downgrades an issue when the same boundary already sits in the
// source cue: the translator did not introduce it and cannot fix it by
// editing the translation alone.
func inherit(issue Issue, boundaryMS int, sourceBoundaryMS *int) Issue {
	if sourceBoundaryMS != nil && abs(boundaryMS-*sourceBoundaryMS) <= HandOffToleranceMS {
		issue.Inherited = true
		issue.Severity = SeverityLow
	}
	return issue
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package timingqc

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Parameters records the knobs a QC run was executed with.
type Parameters struct {
	ThresholdMS    int `json:"threshold_ms"`
	SearchRangeMS  int `json:"search_range_ms"`
	FrameMS        int `json:"frame_ms"`
	HangoverFrames int `json:"hangover_frames"`
	VADMode        int `json:"vad_mode"`
}

// Entry is one cue's analysis in the report.
type Entry struct {
	CueIndex      int     `json:"cue_index"`
	StartMS       int     `json:"start_ms"`
	EndMS         int     `json:"end_ms"`
	Text          string  `json:"text"`
	StartDeltaMS  *int    `json:"start_delta_ms"`
	EndDeltaMS    *int    `json:"end_delta_ms"`
	SourceIndices []int   `json:"source_indices,omitempty"`
	Issues        []Issue `json:"issues"`
}

// Summary aggregates a run for the report header.
type Summary struct {
	TotalCues          int              `json:"total_cues"`
	FlaggedCues        int              `json:"flagged_cues"`
	IssuesBySeverity   map[Severity]int `json:"issues_by_severity"`
	IssuesByKind       map[Kind]int     `json:"issues_by_kind"`
	InheritedIssues    int              `json:"inherited_issues"`
	IdealAnticipation  int              `json:"ideal_anticipation"`
	AverageStartDelta  float64          `json:"avg_start_delta_ms"`
	AverageEndDelta    float64          `json:"avg_end_delta_ms"`
	CuesWithoutSpeech  int              `json:"cues_without_speech"`
	CuesWithoutSource  int              `json:"cues_without_source"`
}

// Report is the on-disk timing QC document.
type Report struct {
	TargetFile  string     `json:"target_file"`
	SourceFile  string     `json:"source_file,omitempty"`
	AudioFile   string     `json:"audio_file,omitempty"`
	RunID       string     `json:"run_id"`
	GeneratedAt string     `json:"generated_at"`
	Parameters  Parameters `json:"parameters"`
	Summary     Summary    `json:"summary"`
	Cues        []Entry    `json:"cues"`
}

// BuildReport assembles per-cue results and their classified issues into a
// report. results and issues run in lockstep.
func BuildReport(targetFile, sourceFile, audioFile string, params Parameters, results []Result, issues [][]Issue) Report {
	report := Report{
		TargetFile:  targetFile,
		SourceFile:  sourceFile,
		AudioFile:   audioFile,
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Parameters:  params,
	}
	report.Summary.TotalCues = len(results)
	report.Summary.IssuesBySeverity = make(map[Severity]int)
	report.Summary.IssuesByKind = make(map[Kind]int)

	var startSum, endSum, startN, endN int
	for i, r := range results {
		entry := Entry{
			CueIndex:      r.CueIndex,
			StartMS:       r.StartMS,
			EndMS:         r.EndMS,
			Text:          r.Text,
			StartDeltaMS:  r.StartDeltaMS,
			EndDeltaMS:    r.EndDeltaMS,
			SourceIndices: r.SourceIndices,
			Issues:        []Issue{},
		}
		if i < len(issues) && issues[i] != nil {
			entry.Issues = issues[i]
		}
		if len(entry.Issues) > 0 {
			report.Summary.FlaggedCues++
		}
		for _, issue := range entry.Issues {
			report.Summary.IssuesBySeverity[issue.Severity]++
			report.Summary.IssuesByKind[issue.Kind]++
			if issue.Inherited {
				report.Summary.InheritedIssues++
			}
		}
		if r.StartDeltaMS != nil {
			startSum += *r.StartDeltaMS
			startN++
			if d := *r.StartDeltaMS; d > 0 && d <= AnticipationIdealMS {
				report.Summary.IdealAnticipation++
			}
		}
		if r.StartDeltaMS == nil && r.EndDeltaMS == nil {
			report.Summary.CuesWithoutSpeech++
		}
		if r.EndDeltaMS != nil {
			endSum += *r.EndDeltaMS
			endN++
		}
		if len(r.SourceIndices) == 0 {
			report.Summary.CuesWithoutSource++
		}
		report.Cues = append(report.Cues, entry)
	}
	if startN > 0 {
		report.Summary.AverageStartDelta = float64(startSum) / float64(startN)
	}
	if endN > 0 {
		report.Summary.AverageEndDelta = float64(endSum) / float64(endN)
	}
	return report
}

// WriteReport persists the report as indented JSON, creating parent
// directories as needed.
func WriteReport(report Report, path string) error {
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode timing report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure timing report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write timing report %s: %w", path, err)
	}
	return nil
}

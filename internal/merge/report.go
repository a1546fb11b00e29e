package merge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Statistics summarizes a merge pass for the JSON report.
type Statistics struct {
	SourceCues      int     `json:"source_cues"`
	OutputCues      int     `json:"output_cues"`
	MergesPerformed int     `json:"merges_performed"`
	CuesMerged      int     `json:"cues_merged"`
	RatioPercent    float64 `json:"ratio_percent"`
}

// Report is the on-disk merge provenance document.
type Report struct {
	SourceFile string       `json:"source_file"`
	OutputFile string       `json:"output_file"`
	RunID      string       `json:"run_id,omitempty"`
	Parameters Options      `json:"parameters"`
	Statistics Statistics   `json:"statistics"`
	Merges     []Provenance `json:"merges"`
}

// MarshalJSON for Options keeps the report's parameter keys stable and
// snake_cased regardless of struct field naming.
func (o Options) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		GapThresholdMS int `json:"gap_threshold_ms"`
		MaxDurationMS  int `json:"max_duration_ms"`
		MaxLines       int `json:"max_lines"`
		MaxChars       int `json:"max_chars"`
	}{o.GapThresholdMS, o.MaxDurationMS, o.MaxLines, o.MaxChars})
}

// UnmarshalJSON mirrors MarshalJSON.
func (o *Options) UnmarshalJSON(data []byte) error {
	var raw struct {
		GapThresholdMS int `json:"gap_threshold_ms"`
		MaxDurationMS  int `json:"max_duration_ms"`
		MaxLines       int `json:"max_lines"`
		MaxChars       int `json:"max_chars"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*o = Options{raw.GapThresholdMS, raw.MaxDurationMS, raw.MaxLines, raw.MaxChars}
	return nil
}

// BuildReport assembles the report document for a completed merge pass.
func BuildReport(sourceFile, outputFile, runID string, opts Options, sourceCount, outputCount int, merges []Provenance) Report {
	stats := Statistics{
		SourceCues:      sourceCount,
		OutputCues:      outputCount,
		MergesPerformed: len(merges),
	}
	for _, m := range merges {
		stats.CuesMerged += m.SourceCount
	}
	if sourceCount > 0 {
		stats.RatioPercent = float64(outputCount) / float64(sourceCount) * 100
	} else {
		stats.RatioPercent = 100
	}
	if merges == nil {
		merges = []Provenance{}
	}
	return Report{
		SourceFile: sourceFile,
		OutputFile: outputFile,
		RunID:      runID,
		Parameters: opts,
		Statistics: stats,
		Merges:     merges,
	}
}

// WriteReport persists the report as indented JSON.
func WriteReport(report Report, path string) error {
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode merge report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write merge report %s: %w", path, err)
	}
	return nil
}

// LoadReport reads a merge report. A missing file is not an error; callers
// treat absent provenance as simply unavailable.
func LoadReport(path string) ([]Provenance, error) {
	if path == "" {
		return nil, nil
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read merge report %s: %w", path, err)
	}
	var report Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("decode merge report %s: %w", path, err)
	}
	return report.Merges, nil
}

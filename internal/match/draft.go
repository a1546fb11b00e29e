package match

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cuesmith/internal/srt"
)

// DraftEntry captures one target cue's best-effort source correspondence,
// snapshotted before any merge or renumber pass. Source fields are nil when
// no source cue sat within tolerance.
type DraftEntry struct {
	NLStartMS int   `json:"nl_start_ms"`
	NLEndMS   int   `json:"nl_end_ms"`
	ENIndices []int `json:"en_indices"`
	ENStartMS *int  `json:"en_start_ms"`
	ENEndMS   *int  `json:"en_end_ms"`
}

// DraftStatistics summarizes a draft-mapping build.
type DraftStatistics struct {
	NLCues    int `json:"nl_cues"`
	ENCues    int `json:"en_cues"`
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
}

// DraftDocument is the on-disk draft mapping file.
type DraftDocument struct {
	SourceNL   string `json:"source_nl"`
	SourceEN   string `json:"source_en"`
	Parameters struct {
		ToleranceMS int `json:"tolerance_ms"`
		FallbackMS  int `json:"fallback_ms"`
	} `json:"parameters"`
	Statistics DraftStatistics `json:"statistics"`
	Mappings   []DraftEntry    `json:"mappings"`
}

// BuildDraft matches each target cue to source cues by start-time
// proximity. Cues with no source within toleranceMS fall back to the single
// nearest source within fallbackMS, and stay unmatched past that.
func BuildDraft(target, source []srt.Cue, toleranceMS, fallbackMS int) []DraftEntry {
	entries := make([]DraftEntry, 0, len(target))
	for _, nl := range target {
		var matched []srt.Cue
		for _, en := range source {
			if abs(en.StartMS-nl.StartMS) <= toleranceMS {
				matched = append(matched, en)
			}
		}
		if len(matched) == 0 {
			if best, ok := nearestByStart(source, nl.StartMS); ok && abs(best.StartMS-nl.StartMS) <= fallbackMS {
				matched = []srt.Cue{best}
			}
		}

		entry := DraftEntry{NLStartMS: nl.StartMS, NLEndMS: nl.EndMS, ENIndices: []int{}}
		if len(matched) > 0 {
			for _, en := range matched {
				entry.ENIndices = append(entry.ENIndices, en.Index)
			}
			start := matched[0].StartMS
			end := matched[len(matched)-1].EndMS
			entry.ENStartMS = &start
			entry.ENEndMS = &end
		}
		entries = append(entries, entry)
	}
	return entries
}

// BuildDraftDocument wraps entries with provenance metadata and statistics.
func BuildDraftDocument(nlFile, enFile string, toleranceMS, fallbackMS, nlCount, enCount int, entries []DraftEntry) DraftDocument {
	doc := DraftDocument{SourceNL: nlFile, SourceEN: enFile}
	doc.Parameters.ToleranceMS = toleranceMS
	doc.Parameters.FallbackMS = fallbackMS
	doc.Statistics.NLCues = nlCount
	doc.Statistics.ENCues = enCount
	for _, e := range entries {
		if e.ENStartMS != nil {
			doc.Statistics.Matched++
		} else {
			doc.Statistics.Unmatched++
		}
	}
	if entries == nil {
		entries = []DraftEntry{}
	}
	doc.Mappings = entries
	return doc
}

// WriteDraft persists a draft mapping document as indented JSON.
func WriteDraft(doc DraftDocument, path string) error {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode draft mapping: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure draft mapping dir: %w", err)
		}
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write draft mapping %s: %w", path, err)
	}
	return nil
}

// LoadDraft reads a draft mapping file. A missing file is treated as no
// draft available.
func LoadDraft(path string) ([]DraftEntry, error) {
	if path == "" {
		return nil, nil
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read draft mapping %s: %w", path, err)
	}
	var doc DraftDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("decode draft mapping %s: %w", path, err)
	}
	return doc.Mappings, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func nearestByStart(cues []srt.Cue, startMS int) (srt.Cue, bool) {
	if len(cues) == 0 {
		return srt.Cue{}, false
	}
	best := cues[0]
	bestDist := abs(best.StartMS - startMS)
	for _, c := range cues[1:] {
		if d := abs(c.StartMS - startMS); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best, true
}

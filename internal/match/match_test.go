package match

import (
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"cuesmith/internal/merge"
	"cuesmith/internal/srt"
)

func cue(index, start, end int, text string) srt.Cue {
	return srt.Cue{Index: index, StartMS: start, EndMS: end, Text: text}
}

func indices(cues []srt.Cue) []int {
	out := make([]int, 0, len(cues))
	for _, c := range cues {
		out = append(out, c.Index)
	}
	sort.Ints(out)
	return out
}

func TestProximityTier(t *testing.T) {
	t.Parallel()
	source := []srt.Cue{
		cue(1, 1000, 2000, "one"),
		cue(2, 2500, 3500, "two"),
		cue(3, 9000, 10000, "three"),
	}
	target := []srt.Cue{cue(1, 1100, 3300, "vertaald")}
	got := Match(target, source, nil, nil, DefaultOptions())
	if !reflect.DeepEqual(indices(got[1]), []int{1, 2}) {
		t.Fatalf("proximity matches = %v", indices(got[1]))
	}
}

func TestProximityNearestFallback(t *testing.T) {
	t.Parallel()
	source := []srt.Cue{cue(1, 5000, 6000, "far")}
	// Window misses, nearest is 400ms away: inside tolerance.
	target := []srt.Cue{cue(1, 5400, 5450, "x")}
	got := Match(target, source, nil, nil, Options{ToleranceMS: 300, ProvenanceToleranceMS: 50})
	if len(got[1]) != 0 {
		// 400 > 300: must be empty.
		t.Fatalf("expected no match outside tolerance, got %v", indices(got[1]))
	}

	got = Match(target, source, nil, nil, Options{ToleranceMS: 450, ProvenanceToleranceMS: 50})
	if !reflect.DeepEqual(indices(got[1]), []int{1}) {
		t.Fatalf("nearest fallback failed: %v", indices(got[1]))
	}
}

func TestMergeProvenanceTier(t *testing.T) {
	t.Parallel()
	source := []srt.Cue{
		cue(1, 1000, 2900, "one"),
		cue(2, 3200, 5000, "two"),
		cue(3, 12000, 13000, "three"),
	}
	merges := []merge.Provenance{{
		OutputStartMS:   1000,
		OutputEndMS:     5000,
		SourceIndices:   []int{1, 2},
		SourceTimecodes: []merge.Timecode{{StartMS: 1000, EndMS: 2900}, {StartMS: 3200, EndMS: 5000}},
		SourceCount:     2,
	}}
	target := []srt.Cue{cue(1, 1000, 5000, "fused")}
	got := Match(target, source, merges, nil, DefaultOptions())
	if !reflect.DeepEqual(indices(got[1]), []int{1, 2}) {
		t.Fatalf("provenance matches = %v", indices(got[1]))
	}
}

func TestMergeProvenanceKeyTolerance(t *testing.T) {
	t.Parallel()
	source := []srt.Cue{cue(1, 1000, 2000, "one")}
	merges := []merge.Provenance{{
		OutputStartMS:   1000,
		SourceTimecodes: []merge.Timecode{{StartMS: 1000, EndMS: 2000}},
	}}
	// 40ms off the key: still resolves through provenance.
	target := []srt.Cue{cue(1, 1040, 2000, "x")}
	got := Match(target, source, merges, nil, DefaultOptions())
	if !reflect.DeepEqual(indices(got[1]), []int{1}) {
		t.Fatalf("key within tolerance must hit: %v", indices(got[1]))
	}

	// 80ms off: falls through to proximity (which still finds cue 1).
	target = []srt.Cue{cue(1, 1080, 2000, "x")}
	got = Match(target, source, merges, nil, DefaultOptions())
	if !reflect.DeepEqual(indices(got[1]), []int{1}) {
		t.Fatalf("proximity fallback failed: %v", indices(got[1]))
	}
}

func TestDraftTier(t *testing.T) {
	t.Parallel()
	source := []srt.Cue{
		cue(1, 4000, 5000, "one"),
		cue(2, 5200, 6000, "two"),
		cue(3, 20000, 21000, "three"),
	}
	enStart, enEnd := 4000, 6000
	draft := []DraftEntry{{NLStartMS: 10000, NLEndMS: 11000, ENStartMS: &enStart, ENEndMS: &enEnd}}
	// Target sits nowhere near the source cues; only the draft chain links it.
	target := []srt.Cue{cue(1, 10000, 11000, "moved")}
	got := Match(target, source, nil, draft, DefaultOptions())
	if !reflect.DeepEqual(indices(got[1]), []int{1, 2}) {
		t.Fatalf("draft matches = %v", indices(got[1]))
	}
}

func TestDraftTierIgnoresNullEntries(t *testing.T) {
	t.Parallel()
	source := []srt.Cue{cue(1, 1000, 2000, "one")}
	draft := []DraftEntry{{NLStartMS: 1000, NLEndMS: 2000}} // unmatched snapshot
	target := []srt.Cue{cue(1, 1000, 2000, "x")}
	got := Match(target, source, nil, draft, DefaultOptions())
	// Null draft entry falls through to proximity.
	if !reflect.DeepEqual(indices(got[1]), []int{1}) {
		t.Fatalf("null draft entry should fall through: %v", indices(got[1]))
	}
}

func TestMergedCuePrefersDraftPerWindow(t *testing.T) {
	t.Parallel()
	source := []srt.Cue{
		cue(1, 4000, 4900, "one"),
		cue(2, 30000, 31000, "two"),
	}
	// Pre-merge target cue at 1000 mapped to source window 4000-4900.
	enStart, enEnd := 4000, 4900
	draft := []DraftEntry{{NLStartMS: 1000, NLEndMS: 2900, ENStartMS: &enStart, ENEndMS: &enEnd}}
	merges := []merge.Provenance{{
		OutputStartMS:   1000,
		SourceTimecodes: []merge.Timecode{{StartMS: 1000, EndMS: 2900}, {StartMS: 29900, EndMS: 30500}},
	}}
	target := []srt.Cue{cue(1, 1000, 5000, "fused")}
	got := Match(target, source, merges, draft, DefaultOptions())
	// First window resolves via draft to cue 1; second window has no draft
	// entry and resolves by proximity to cue 2.
	if !reflect.DeepEqual(indices(got[1]), []int{1, 2}) {
		t.Fatalf("tiered merge resolution = %v", indices(got[1]))
	}
}

func TestMatcherCoversProvenanceExactly(t *testing.T) {
	t.Parallel()
	// Source cues spaced wider than the tolerance so proximity windows
	// cannot bleed into neighbours.
	source := []srt.Cue{
		cue(1, 0, 900, "a"),
		cue(2, 1000, 1900, "b"),
		cue(3, 4000, 4900, "c"),
		cue(4, 10000, 10900, "d"),
	}
	opts := merge.Options{GapThresholdMS: 1000, MaxDurationMS: 7000, MaxLines: 2, MaxChars: 42}
	merged, prov := merge.Merge(source, opts)
	if len(prov) == 0 {
		t.Fatal("fixture should produce at least one merge")
	}
	got := Match(merged, source, prov, nil, DefaultOptions())
	for _, entry := range prov {
		matched := got[entry.OutputIndex]
		want := append([]int(nil), entry.SourceIndices...)
		sort.Ints(want)
		if !reflect.DeepEqual(indices(matched), want) {
			t.Fatalf("coverage mismatch for output %d: got %v want %v", entry.OutputIndex, indices(matched), want)
		}
	}
}

func TestBuildDraft(t *testing.T) {
	t.Parallel()
	source := []srt.Cue{
		cue(1, 1000, 2000, "one"),
		cue(2, 5000, 6000, "two"),
	}
	target := []srt.Cue{
		cue(1, 1100, 2100, "dichtbij"),
		cue(2, 5800, 6500, "fallback"),
		cue(3, 30000, 31000, "orphan"),
	}
	entries := BuildDraft(target, source, 500, 1000)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].ENStartMS == nil || *entries[0].ENStartMS != 1000 {
		t.Fatalf("entry 0 = %+v", entries[0])
	}
	// 800ms off: outside tolerance, inside fallback.
	if entries[1].ENStartMS == nil || *entries[1].ENStartMS != 5000 {
		t.Fatalf("entry 1 = %+v", entries[1])
	}
	if entries[2].ENStartMS != nil {
		t.Fatalf("orphan should be unmatched: %+v", entries[2])
	}
}

func TestDraftDocumentRoundTrip(t *testing.T) {
	t.Parallel()
	source := []srt.Cue{cue(1, 1000, 2000, "one")}
	target := []srt.Cue{cue(1, 1100, 2100, "x"), cue(2, 40000, 41000, "y")}
	entries := BuildDraft(target, source, 500, 1000)
	doc := BuildDraftDocument("nl.srt", "en.srt", 500, 1000, len(target), len(source), entries)
	if doc.Statistics.Matched != 1 || doc.Statistics.Unmatched != 1 {
		t.Fatalf("statistics = %+v", doc.Statistics)
	}
	path := filepath.Join(t.TempDir(), "draft.json")
	if err := WriteDraft(doc, path); err != nil {
		t.Fatalf("WriteDraft failed: %v", err)
	}
	loaded, err := LoadDraft(path)
	if err != nil {
		t.Fatalf("LoadDraft failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, entries) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", loaded, entries)
	}
}

func TestLoadDraftMissing(t *testing.T) {
	t.Parallel()
	entries, err := LoadDraft(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil || entries != nil {
		t.Fatalf("missing draft should be (nil, nil), got (%v, %v)", entries, err)
	}
}

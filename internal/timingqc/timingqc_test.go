package timingqc

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"cuesmith/internal/srt"
)

func intPtr(v int) *int { return &v }

func result(start, end int, startDelta, endDelta *int) Result {
	return Result{CueIndex: 1, StartMS: start, EndMS: end, StartDeltaMS: startDelta, EndDeltaMS: endDelta}
}

func kinds(issues []Issue) []Kind {
	out := make([]Kind, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Kind)
	}
	return out
}

func findKind(t *testing.T, issues []Issue, kind Kind) Issue {
	t.Helper()
	for _, i := range issues {
		if i.Kind == kind {
			return i
		}
	}
	t.Fatalf("no %s issue in %v", kind, kinds(issues))
	return Issue{}
}

func TestAnalyzeDeltas(t *testing.T) {
	t.Parallel()
	cue := srt.Cue{Index: 3, StartMS: 1000, EndMS: 3000, Text: "hello"}
	source := []srt.Cue{
		{Index: 7, StartMS: 900, EndMS: 2000},
		{Index: 8, StartMS: 2200, EndMS: 3100},
	}
	starts := []int{850, 5000}
	ends := []int{3400, 8000}
	r := Analyze(cue, source, starts, ends, 2000)
	if r.StartDeltaMS == nil || *r.StartDeltaMS != -150 {
		t.Fatalf("start delta = %v", r.StartDeltaMS)
	}
	if r.EndDeltaMS == nil || *r.EndDeltaMS != 400 {
		t.Fatalf("end delta = %v", r.EndDeltaMS)
	}
	if r.SourceStartMS == nil || *r.SourceStartMS != 900 || r.SourceEndMS == nil || *r.SourceEndMS != 3100 {
		t.Fatalf("source boundary = %v..%v", r.SourceStartMS, r.SourceEndMS)
	}
	if len(r.SourceIndices) != 2 || r.SourceIndices[0] != 7 || r.SourceIndices[1] != 8 {
		t.Fatalf("source indices = %v", r.SourceIndices)
	}
}

func TestAnalyzeOutOfRange(t *testing.T) {
	t.Parallel()
	cue := srt.Cue{Index: 1, StartMS: 1000, EndMS: 2000}
	r := Analyze(cue, nil, []int{10000}, []int{10000}, 2000)
	if r.StartDeltaMS != nil || r.EndDeltaMS != nil {
		t.Fatalf("deltas should be nil out of range: %v %v", r.StartDeltaMS, r.EndDeltaMS)
	}
	if r.SourceStartMS != nil || len(r.SourceIndices) != 0 {
		t.Fatal("unmatched cue must carry no source boundary")
	}
}

func TestClassifyCutsOffDuringSpeech(t *testing.T) {
	t.Parallel()
	r := result(1000, 3000, nil, intPtr(600))
	issues := Classify(r, 500, nil, nil)
	issue := findKind(t, issues, KindCutsOffDuringSpeech)
	if issue.Severity != SeverityMedium {
		t.Fatalf("severity = %s", issue.Severity)
	}

	issues = Classify(result(1000, 3000, nil, intPtr(1200)), 500, nil, nil)
	if findKind(t, issues, KindCutsOffDuringSpeech).Severity != SeverityHigh {
		t.Fatal("1200ms overrun should be high severity")
	}
}

func TestCutsOffSuppressedByHandOff(t *testing.T) {
	t.Parallel()
	r := result(1000, 3000, nil, intPtr(600))

	// Next cue starts before the detected speech end (3600).
	next := &srt.Cue{Index: 2, StartMS: 3500, EndMS: 5000}
	if issues := Classify(r, 500, nil, next); len(issues) != 0 {
		t.Fatalf("continuation should suppress: %v", kinds(issues))
	}

	// Next cue starts within the hand-off window of this cue's end.
	next = &srt.Cue{Index: 2, StartMS: 3150, EndMS: 5000}
	if issues := Classify(r, 500, nil, next); len(issues) != 0 {
		t.Fatalf("hand-off should suppress: %v", kinds(issues))
	}

	// Next cue too far away: issue stands.
	next = &srt.Cue{Index: 2, StartMS: 4000, EndMS: 5000}
	issues := Classify(r, 500, nil, next)
	findKind(t, issues, KindCutsOffDuringSpeech)
}

func TestClassifyLingersAfterSpeech(t *testing.T) {
	t.Parallel()
	issues := Classify(result(1000, 3000, nil, intPtr(-800)), 500, nil, nil)
	if findKind(t, issues, KindLingersAfterSpeech).Severity != SeverityMedium {
		t.Fatal("800ms linger should be medium")
	}
	issues = Classify(result(1000, 3000, nil, intPtr(-1600)), 500, nil, nil)
	if findKind(t, issues, KindLingersAfterSpeech).Severity != SeverityHigh {
		t.Fatal("1600ms linger should be high")
	}
}

func TestClassifyLateStart(t *testing.T) {
	t.Parallel()
	issues := Classify(result(2000, 4000, intPtr(-700), nil), 500, nil, nil)
	if findKind(t, issues, KindLateStart).Severity != SeverityMedium {
		t.Fatal("700ms late should be medium")
	}
	issues = Classify(result(2000, 4000, intPtr(-1100), nil), 500, nil, nil)
	if findKind(t, issues, KindLateStart).Severity != SeverityHigh {
		t.Fatal("1100ms late should be high")
	}
}

func TestLateStartSuppressedByPreviousCue(t *testing.T) {
	t.Parallel()
	// Previous cue visible until 1850, within the hand-off window of the
	// cue start at 2000: the viewer was still reading.
	r := result(2000, 4000, intPtr(-700), nil)
	prev := &srt.Cue{Index: 1, StartMS: 0, EndMS: 1850}
	if issues := Classify(r, 500, prev, nil); len(issues) != 0 {
		t.Fatalf("previous cue coverage should suppress: %v", kinds(issues))
	}

	// Previous cue gone well before the cue start, even though it ends
	// after the speech start at 1300: issue stands.
	prev = &srt.Cue{Index: 1, StartMS: 0, EndMS: 1500}
	issues := Classify(r, 500, prev, nil)
	findKind(t, issues, KindLateStart)
}

func TestClassifyEarlyStart(t *testing.T) {
	t.Parallel()
	issues := Classify(result(1000, 3000, intPtr(1600), nil), 500, nil, nil)
	if issue := findKind(t, issues, KindEarlyStart); issue.Severity != SeverityLow {
		t.Fatalf("early start severity = %s", issue.Severity)
	}
	// 1400ms lead is unusual but under the early threshold.
	if issues := Classify(result(1000, 3000, intPtr(1400), nil), 500, nil, nil); len(issues) != 0 {
		t.Fatalf("1400ms lead should pass: %v", kinds(issues))
	}

	// A matching source boundary never marks an early start as inherited;
	// it is already the mildest verdict on the start side.
	r := result(1000, 3000, intPtr(2000), nil)
	r.SourceStartMS = intPtr(1050)
	issue := findKind(t, Classify(r, 500, nil, nil), KindEarlyStart)
	if issue.Inherited {
		t.Fatalf("early start marked inherited: %+v", issue)
	}
	if issue.Severity != SeverityLow {
		t.Fatalf("early start severity = %s", issue.Severity)
	}
}

func TestClassifyMissingAnticipation(t *testing.T) {
	t.Parallel()
	issues := Classify(result(1000, 3000, intPtr(-100), nil), 500, nil, nil)
	issue := findKind(t, issues, KindMissingAnticipation)
	if issue.Severity != SeverityMedium {
		t.Fatalf("severity = %s", issue.Severity)
	}
	// Ideal anticipation: no issue.
	if issues := Classify(result(1000, 3000, intPtr(150), nil), 500, nil, nil); len(issues) != 0 {
		t.Fatalf("ideal anticipation should pass: %v", kinds(issues))
	}

	// Previous cue visible until 100ms before the cue start: no lead-in
	// was possible, so the missing anticipation is not reported.
	prev := &srt.Cue{Index: 1, StartMS: 0, EndMS: 900}
	if issues := Classify(result(1000, 3000, intPtr(-100), nil), 500, prev, nil); len(issues) != 0 {
		t.Fatalf("previous cue coverage should suppress: %v", kinds(issues))
	}

	// Matching source start downgrades the verdict to inherited.
	r := result(1000, 3000, intPtr(-100), nil)
	r.SourceStartMS = intPtr(1050)
	issue = findKind(t, Classify(r, 500, nil, nil), KindMissingAnticipation)
	if !issue.Inherited || issue.Severity != SeverityLow {
		t.Fatalf("inherited issue must be low severity: %+v", issue)
	}
}

func TestInheritedFromSource(t *testing.T) {
	t.Parallel()
	// Source cue ends within 200ms of the target end: the overrun was
	// already present in the source timing.
	r := result(1000, 3000, nil, intPtr(1200))
	r.SourceEndMS = intPtr(3100)
	issues := Classify(r, 500, nil, nil)
	issue := findKind(t, issues, KindCutsOffDuringSpeech)
	if !issue.Inherited || issue.Severity != SeverityLow {
		t.Fatalf("inherited issue must be low severity: %+v", issue)
	}

	// Source boundary far away: issue keeps its own severity.
	r.SourceEndMS = intPtr(2000)
	issue = findKind(t, Classify(r, 500, nil, nil), KindCutsOffDuringSpeech)
	if issue.Inherited || issue.Severity != SeverityHigh {
		t.Fatalf("non-inherited issue downgraded: %+v", issue)
	}
}

func TestBuildReportSummary(t *testing.T) {
	t.Parallel()
	results := []Result{
		result(1000, 3000, intPtr(100), intPtr(1200)),
		result(4000, 6000, intPtr(-100), intPtr(0)),
		result(8000, 9000, nil, nil),
	}
	issues := [][]Issue{
		Classify(results[0], 500, nil, nil),
		Classify(results[1], 500, nil, nil),
		Classify(results[2], 500, nil, nil),
	}
	report := BuildReport("nl.srt", "en.srt", "audio.wav", Parameters{ThresholdMS: 500, SearchRangeMS: 2000}, results, issues)

	if report.Summary.TotalCues != 3 || report.Summary.FlaggedCues != 2 {
		t.Fatalf("summary = %+v", report.Summary)
	}
	if report.Summary.IssuesByKind[KindCutsOffDuringSpeech] != 1 || report.Summary.IssuesByKind[KindMissingAnticipation] != 1 {
		t.Fatalf("issue kinds = %v", report.Summary.IssuesByKind)
	}
	if report.Summary.IdealAnticipation != 1 {
		t.Fatalf("ideal anticipation = %d", report.Summary.IdealAnticipation)
	}
	if report.Summary.CuesWithoutSpeech != 1 || report.Summary.CuesWithoutSource != 3 {
		t.Fatalf("summary = %+v", report.Summary)
	}
	if report.RunID == "" || report.GeneratedAt == "" {
		t.Fatal("report must carry run id and timestamp")
	}
	if got := report.Summary.AverageStartDelta; got != 0 {
		t.Fatalf("avg start delta = %v", got)
	}
	if got := report.Summary.AverageEndDelta; got != 600 {
		t.Fatalf("avg end delta = %v", got)
	}
}

func TestWriteReport(t *testing.T) {
	t.Parallel()
	results := []Result{result(1000, 3000, intPtr(100), intPtr(0))}
	issues := [][]Issue{Classify(results[0], 500, nil, nil)}
	report := BuildReport("nl.srt", "", "", Parameters{ThresholdMS: 500}, results, issues)

	path := filepath.Join(t.TempDir(), "qc", "report.json")
	if err := WriteReport(report, path); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var loaded Report
	if err := json.Unmarshal(payload, &loaded); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if loaded.RunID != report.RunID || len(loaded.Cues) != 1 {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}

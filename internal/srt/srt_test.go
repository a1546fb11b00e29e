package srt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDocument = "1\r\n00:00:01,000 --> 00:00:03,000\r\nFirst cue\r\n\r\n2\r\n00:00:03,200 --> 00:00:05,000\r\nSecond cue\r\nsecond line\r\n\r\n3\r\n00:00:10,000 --> 00:00:12,000\r\nThird\r\n"

func TestParseBasic(t *testing.T) {
	t.Parallel()
	cues, findings := Parse(sampleDocument)
	if len(findings) != 0 {
		t.Fatalf("unexpected findings: %v", findings)
	}
	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(cues))
	}
	if cues[0].StartMS != 1000 || cues[0].EndMS != 3000 {
		t.Fatalf("cue 1 timing wrong: %d-%d", cues[0].StartMS, cues[0].EndMS)
	}
	if cues[1].Text != "Second cue\nsecond line" {
		t.Fatalf("cue 2 text wrong: %q", cues[1].Text)
	}
}

func TestParseAcceptsBOMAndPeriodSeparator(t *testing.T) {
	t.Parallel()
	cues, findings := Parse("\ufeff1\n00:00:01.500 --> 00:00:02.500\nHello\n")
	if len(findings) != 0 {
		t.Fatalf("unexpected findings: %v", findings)
	}
	if len(cues) != 1 || cues[0].StartMS != 1500 || cues[0].EndMS != 2500 {
		t.Fatalf("unexpected parse result: %+v", cues)
	}
}

func TestParseEmptyTextBlock(t *testing.T) {
	t.Parallel()
	cues, findings := Parse("1\n00:00:01,000 --> 00:00:02,000\n\n2\n00:00:03,000 --> 00:00:04,000\nText\n")
	if len(findings) != 0 {
		t.Fatalf("unexpected findings: %v", findings)
	}
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].Text != "" {
		t.Fatalf("expected empty text, got %q", cues[0].Text)
	}
}

func TestParseCollectsFindings(t *testing.T) {
	t.Parallel()
	content := "abc\n00:00:01,000 --> 00:00:02,000\nBad index\n\n2\nnot a timecode\nBad timecode\n\n3\n00:00:05,000 --> 00:00:06,000\nGood\n"
	cues, findings := Parse(content)
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d: %v", len(findings), findings)
	}
	if cues[0].Index != 3 {
		t.Fatalf("surviving cue index wrong: %d", cues[0].Index)
	}
}

func TestRoundTripStable(t *testing.T) {
	t.Parallel()
	cues, _ := Parse(sampleDocument)
	rendered := Render(cues)
	again, findings := Parse(rendered)
	if len(findings) != 0 {
		t.Fatalf("re-parse findings: %v", findings)
	}
	if Render(again) != rendered {
		t.Fatal("render is not byte-stable across a round trip")
	}
}

func TestWriteFileEmitsBOMAndCRLF(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "out.srt")
	cues := []Cue{{Index: 1, StartMS: 0, EndMS: 1000, Text: "Hi\nthere"}}
	if err := WriteFile(cues, path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.HasPrefix(string(raw), "\ufeff") {
		t.Fatal("missing BOM")
	}
	if !strings.Contains(string(raw), "Hi\r\nthere\r\n") {
		t.Fatalf("missing CRLF text: %q", raw)
	}
}

func TestParseFileCharmapFallback(t *testing.T) {
	t.Parallel()
	// "café" in Windows-1252: e9 is not valid UTF-8.
	payload := []byte("1\n00:00:01,000 --> 00:00:02,000\ncaf\xe9\n")
	path := filepath.Join(t.TempDir(), "latin.srt")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	cues, findings, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("unexpected findings: %v", findings)
	}
	if len(cues) != 1 || cues[0].Text != "café" {
		t.Fatalf("fallback decode wrong: %+v", cues)
	}
}

func TestTimecodeConversions(t *testing.T) {
	t.Parallel()
	cases := []struct {
		tc string
		ms int
	}{
		{"00:00:00,000", 0},
		{"00:00:01,000", 1000},
		{"01:02:03,456", 3723456},
		{"0:00:01.250", 1250},
	}
	for _, tc := range cases {
		got, err := ParseTimecode(tc.tc)
		if err != nil {
			t.Fatalf("ParseTimecode(%q): %v", tc.tc, err)
		}
		if got != tc.ms {
			t.Errorf("ParseTimecode(%q) = %d, want %d", tc.tc, got, tc.ms)
		}
	}
	if got := FormatTimecode(3723456); got != "01:02:03,456" {
		t.Errorf("FormatTimecode = %q", got)
	}
	if got := FormatTimecode(-5); got != "00:00:00,000" {
		t.Errorf("negative clamp = %q", got)
	}
	if _, err := ParseTimecode("garbage"); err == nil {
		t.Error("expected error for garbage timecode")
	}
}

func TestCueDerivedValues(t *testing.T) {
	t.Parallel()
	c := Cue{Index: 1, StartMS: 1000, EndMS: 3000, Text: "Hello there\nfriend"}
	if c.DurationMS() != 2000 {
		t.Fatalf("duration = %d", c.DurationMS())
	}
	if c.CharCount() != 17 {
		t.Fatalf("char count = %d", c.CharCount())
	}
	if cps := c.CPS(); cps < 8.4 || cps > 8.6 {
		t.Fatalf("cps = %f", cps)
	}
	if c.LineCount() != 2 {
		t.Fatalf("line count = %d", c.LineCount())
	}
}

func TestVisibleLengthIgnoresTags(t *testing.T) {
	t.Parallel()
	if got := VisibleLength("<i>Hello</i>"); got != 5 {
		t.Fatalf("italic tag length = %d", got)
	}
	if got := VisibleLength("{\\an8}Top"); got != 3 {
		t.Fatalf("ass tag length = %d", got)
	}
}

func TestIsDualSpeaker(t *testing.T) {
	t.Parallel()
	if !IsDualSpeaker("Hello\n-Hi yourself") {
		t.Fatal("expected dual speaker")
	}
	if IsDualSpeaker("Just one line") {
		t.Fatal("single line is not dual speaker")
	}
	if IsDualSpeaker("Two lines\nno dash") {
		t.Fatal("no dash means single speaker")
	}
}

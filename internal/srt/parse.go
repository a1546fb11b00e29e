package srt

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrNoCues indicates a file or document produced zero usable cues. Parse
// findings are advisory individually; an empty timeline is not.
var ErrNoCues = errors.New("srt: no cues parsed")

var (
	blockSplitPattern = regexp.MustCompile(`\n{2,}`)
	timecodeLine      = regexp.MustCompile(`^(\d{1,2}:\d{2}:\d{2}[,.]\d{3})\s*-->\s*(\d{1,2}:\d{2}:\d{2}[,.]\d{3})`)
)

// Parse decodes SRT content into cues. Malformed blocks are skipped and
// reported as findings; well-formed blocks around them still parse. A block
// holding only an index and a timecode is a valid empty-text cue.
func Parse(content string) ([]Cue, []string) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.TrimPrefix(content, "\ufeff")

	var cues []Cue
	var findings []string

	for blockNum, block := range blockSplitPattern.Split(strings.TrimSpace(content), -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		if len(lines) < 2 {
			findings = append(findings, fmt.Sprintf("block %d: insufficient lines (%d)", blockNum+1, len(lines)))
			continue
		}

		index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			findings = append(findings, fmt.Sprintf("block %d: invalid index %q", blockNum+1, lines[0]))
			continue
		}

		match := timecodeLine.FindStringSubmatch(strings.TrimSpace(lines[1]))
		if match == nil {
			findings = append(findings, fmt.Sprintf("block %d: invalid timecode %q", blockNum+1, lines[1]))
			continue
		}
		startMS, err := ParseTimecode(match[1])
		if err != nil {
			findings = append(findings, fmt.Sprintf("block %d: %v", blockNum+1, err))
			continue
		}
		endMS, err := ParseTimecode(match[2])
		if err != nil {
			findings = append(findings, fmt.Sprintf("block %d: %v", blockNum+1, err))
			continue
		}

		text := ""
		if len(lines) > 2 {
			text = strings.Join(lines[2:], "\n")
		}
		cues = append(cues, Cue{Index: index, StartMS: startMS, EndMS: endMS, Text: text})
	}

	return cues, findings
}

// ParseFile reads and decodes an SRT file. UTF-8 is tried first; files that
// fail UTF-8 validation fall back through the common single-byte encodings
// subtitle files ship in.
func ParseFile(path string) ([]Cue, []string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	content, err := decodeContent(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}
	cues, findings := Parse(content)
	return cues, findings, nil
}

func decodeContent(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	for _, cm := range []*charmap.Charmap{charmap.Windows1252, charmap.ISO8859_1} {
		decoded, err := cm.NewDecoder().Bytes(raw)
		if err == nil && utf8.Valid(decoded) {
			return string(decoded), nil
		}
	}
	return "", errors.New("content is not valid UTF-8 and charmap fallback failed")
}

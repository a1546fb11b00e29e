package srt

import (
	"fmt"
	"os"
	"strings"
)

// Block renders a single cue as an SRT block with CRLF line endings.
func Block(c Cue) string {
	text := strings.ReplaceAll(c.Text, "\n", "\r\n")
	return fmt.Sprintf("%d\r\n%s --> %s\r\n%s\r\n", c.Index, FormatTimecode(c.StartMS), FormatTimecode(c.EndMS), text)
}

// Render serializes a timeline to SRT text with blank-line block separators.
func Render(cues []Cue) string {
	blocks := make([]string, 0, len(cues))
	for _, c := range cues {
		blocks = append(blocks, Block(c))
	}
	return strings.Join(blocks, "\n")
}

// WriteFile serializes cues to path with a UTF-8 BOM, matching what consumer
// hardware players expect.
func WriteFile(cues []Cue, path string) error {
	payload := append([]byte("\ufeff"), []byte(Render(cues))...)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

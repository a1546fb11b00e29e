package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cuesmith/internal/srt"
)

// loadCues parses an SRT file and fails hard when nothing usable came out.
// Recoverable parse findings are printed to out.
func loadCues(path string, out io.Writer) ([]srt.Cue, error) {
	cues, findings, err := srt.ParseFile(path)
	if err != nil {
		return nil, err
	}
	for _, finding := range findings {
		fmt.Fprintf(out, "warning: %s: %s\n", filepath.Base(path), finding)
	}
	if len(cues) == 0 {
		return nil, fmt.Errorf("no cues parsed from %s", path)
	}
	return cues, nil
}

// resolveOutput derives the output path: explicit flag wins, otherwise the
// input name gains a suffix before its extension.
func resolveOutput(input, explicit, suffix string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + suffix + ext
}

// parseIndexList accepts "3,7,12" and "3-7" mixes.
func parseIndexList(spec string) ([]int, error) {
	var indices []int
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, fmt.Errorf("invalid index range %q", part)
			}
			end, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("invalid index range %q", part)
			}
			if end < start {
				return nil, fmt.Errorf("descending index range %q", part)
			}
			for i := start; i <= end; i++ {
				indices = append(indices, i)
			}
			continue
		}
		value, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid cue index %q", part)
		}
		indices = append(indices, value)
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("no cue indices in %q", spec)
	}
	return indices, nil
}

// writeCues serializes a timeline, creating parent directories as needed.
func writeCues(cues []srt.Cue, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	return srt.WriteFile(cues, path)
}

func requireFile(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("file path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file %q not found", path)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("path %q is a directory", path)
	}
	return abs, nil
}

package srt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var timecodePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2}):(\d{2})[,.](\d{3})$`)

// ParseTimecode converts an SRT timecode (HH:MM:SS,mmm) to milliseconds.
// A period millisecond separator is accepted alongside the canonical comma.
func ParseTimecode(tc string) (int, error) {
	match := timecodePattern.FindStringSubmatch(strings.TrimSpace(tc))
	if match == nil {
		return 0, fmt.Errorf("invalid timecode %q", tc)
	}
	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])
	seconds, _ := strconv.Atoi(match[3])
	millis, _ := strconv.Atoi(match[4])
	return (hours*3600+minutes*60+seconds)*1000 + millis, nil
}

// FormatTimecode converts milliseconds to the canonical SRT timecode form.
// Negative inputs clamp to zero.
func FormatTimecode(ms int) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3600000
	ms %= 3600000
	minutes := ms / 60000
	ms %= 60000
	seconds := ms / 1000
	millis := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

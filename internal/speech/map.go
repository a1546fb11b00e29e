package speech

import "sort"

// Classifier decides speech/non-speech for one fixed-size PCM frame. A
// classifier error marks the frame as non-speech rather than aborting the
// whole map.
type Classifier interface {
	IsSpeech(sampleRate int, frame []byte) (bool, error)
}

// BuildMap classifies 16-bit mono PCM audio into per-frame speech flags.
// Trailing bytes that do not fill a whole frame are ignored.
func BuildMap(pcm []byte, sampleRate, frameMS int, c Classifier) []bool {
	frameBytes := sampleRate * 2 * frameMS / 1000
	if frameBytes <= 0 || c == nil {
		return nil
	}
	total := len(pcm) / frameBytes
	frames := make([]bool, 0, total)
	for i := 0; i < total; i++ {
		frame := pcm[i*frameBytes : (i+1)*frameBytes]
		isSpeech, err := c.IsSpeech(sampleRate, frame)
		if err != nil {
			isSpeech = false
		}
		frames = append(frames, isSpeech)
	}
	return frames
}

// Smooth bridges silence runs of at most hangoverFrames frames that sit
// between two speech runs, flipping them to speech. Silence at the very end
// of the map is never bridged. The input is not modified.
func Smooth(frames []bool, hangoverFrames int) []bool {
	smoothed := make([]bool, len(frames))
	copy(smoothed, frames)
	n := len(smoothed)
	i := 0
	for i < n {
		if !smoothed[i] {
			i++
			continue
		}
		j := i + 1
		for j < n && smoothed[j] {
			j++
		}
		k := j
		for k < n && !smoothed[k] {
			k++
		}
		if k < n && k-j <= hangoverFrames {
			for x := j; x < k; x++ {
				smoothed[x] = true
			}
			i = k
		} else {
			i = j
		}
	}
	return smoothed
}

// Transitions extracts silence-to-speech and speech-to-silence boundaries
// from a frame map, each expressed in milliseconds. A map that ends
// mid-speech gets an implicit end transition at the map's end time.
func Transitions(frames []bool, frameMS int) (starts, ends []int) {
	prev := false
	for i, isSpeech := range frames {
		ms := i * frameMS
		switch {
		case isSpeech && !prev:
			starts = append(starts, ms)
		case !isSpeech && prev:
			ends = append(ends, ms)
		}
		prev = isSpeech
	}
	if prev {
		ends = append(ends, len(frames)*frameMS)
	}
	return starts, ends
}

// Nearest binary-searches a sorted transition list for the value closest to
// targetMS within searchRangeMS. The second return is false when no
// transition qualifies.
func Nearest(transitions []int, targetMS, searchRangeMS int) (int, bool) {
	if len(transitions) == 0 {
		return 0, false
	}
	idx := sort.SearchInts(transitions, targetMS)
	best := 0
	bestDist := -1
	for _, i := range []int{idx - 1, idx} {
		if i < 0 || i >= len(transitions) {
			continue
		}
		dist := transitions[i] - targetMS
		if dist < 0 {
			dist = -dist
		}
		if dist <= searchRangeMS && (bestDist < 0 || dist < bestDist) {
			bestDist = dist
			best = transitions[i]
		}
	}
	if bestDist < 0 {
		return 0, false
	}
	return best, true
}

package audiocache

import (
	"encoding/binary"
	"fmt"
	"os"
)

// ReadWAV returns the raw PCM samples and sample rate of a RIFF/WAVE file.
// Only uncompressed PCM is supported, which is all ffmpeg is asked to emit.
func ReadWAV(path string) ([]byte, int, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read wav %s: %w", path, err)
	}
	if len(payload) < 12 || string(payload[0:4]) != "RIFF" || string(payload[8:12]) != "WAVE" {
		return nil, 0, fmt.Errorf("read wav %s: not a RIFF/WAVE file", path)
	}

	sampleRate := 0
	var pcm []byte
	offset := 12
	for offset+8 <= len(payload) {
		id := string(payload[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(payload[offset+4 : offset+8]))
		body := offset + 8
		if body+size > len(payload) {
			return nil, 0, fmt.Errorf("read wav %s: truncated %q chunk", path, id)
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, 0, fmt.Errorf("read wav %s: short fmt chunk", path)
			}
			if format := binary.LittleEndian.Uint16(payload[body : body+2]); format != 1 {
				return nil, 0, fmt.Errorf("read wav %s: unsupported audio format %d", path, format)
			}
			sampleRate = int(binary.LittleEndian.Uint32(payload[body+4 : body+8]))
		case "data":
			pcm = payload[body : body+size]
		}
		// Chunks are word aligned.
		offset = body + size + size%2
	}
	if sampleRate == 0 || pcm == nil {
		return nil, 0, fmt.Errorf("read wav %s: missing fmt or data chunk", path)
	}
	return pcm, sampleRate, nil
}

// WriteWAV writes raw PCM samples as a minimal mono 16-bit RIFF/WAVE file.
func WriteWAV(path string, pcm []byte, sampleRate int) error {
	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+len(pcm)))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1)
	binary.LittleEndian.PutUint16(header[22:24], 1)
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(sampleRate*2))
	binary.LittleEndian.PutUint16(header[32:34], 2)
	binary.LittleEndian.PutUint16(header[34:36], 16)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(len(pcm)))

	payload := append(header, pcm...)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write wav %s: %w", path, err)
	}
	return nil
}

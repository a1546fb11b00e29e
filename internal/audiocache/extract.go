package audiocache

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// SampleRate is the fixed rate all cached audio is resampled to; the VAD
// classifier only accepts 8, 16, 32 or 48 kHz and 16 kHz keeps files small.
const SampleRate = 16000

// ExtractAudio decodes the source's audio track to a mono 16kHz s16le WAV
// at dest. A positive timeout bounds the ffmpeg run; hitting it is a hard
// failure.
func ExtractAudio(ctx context.Context, ffmpegBinary, source, dest string, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", SampleRate),
		"-c:a", "pcm_s16le",
		dest,
	}
	cmd := exec.CommandContext(ctx, ffmpegBinary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("ffmpeg timed out after %s extracting %s", timeout, source)
	}
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("ffmpeg binary %q not found: %w", ffmpegBinary, err)
	}
	return fmt.Errorf("ffmpeg extract %s: %w: %s", source, err, strings.TrimSpace(string(output)))
}

package audiocache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"cuesmith/internal/logging"
)

// freeSpaceFloor is the minimum free-space ratio allowed before pruning.
const freeSpaceFloor = 0.20

// statfsFunc allows tests to stub filesystem stats.
type statfsFunc func(path string) (total uint64, free uint64, err error)

// extractFunc allows tests to stub the ffmpeg invocation.
type extractFunc func(ctx context.Context, source, dest string) error

// Options configures a cache.
type Options struct {
	Root           string
	MaxGiB         int
	FFmpegBinary   string
	ExtractTimeout time.Duration
}

// Cache manages extracted audio under one directory.
type Cache struct {
	root     string
	maxBytes int64
	logger   *slog.Logger
	store    *manifestStore
	lock     *flock.Flock
	statfs   statfsFunc
	extract  extractFunc
}

// Open prepares the cache directory, manifest, and write lock.
func Open(opts Options, logger *slog.Logger) (*Cache, error) {
	root := opts.Root
	if root == "" {
		return nil, errors.New("audiocache: empty cache root")
	}
	if opts.MaxGiB <= 0 {
		return nil, fmt.Errorf("audiocache: max size %d GiB is not positive", opts.MaxGiB)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("audiocache: create root: %w", err)
	}
	store, err := openManifest(filepath.Join(root, "manifest.db"))
	if err != nil {
		return nil, err
	}
	ffmpeg := opts.FFmpegBinary
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	c := &Cache{
		root:     root,
		maxBytes: int64(opts.MaxGiB) * 1024 * 1024 * 1024,
		logger:   logging.NewComponentLogger(logger, "audiocache"),
		store:    store,
		lock:     flock.New(filepath.Join(root, ".cache.lock")),
		statfs:   realStatfs,
	}
	c.extract = func(ctx context.Context, source, dest string) error {
		return ExtractAudio(ctx, ffmpeg, source, dest, opts.ExtractTimeout)
	}
	return c, nil
}

// Close releases the manifest store.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.store.Close()
}

// Key identifies a source by absolute path and size. Size changes whenever
// the file is replaced, which is the only staleness signal available without
// hashing multi-gigabyte videos.
func Key(sourcePath string, sourceSize int64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", sourcePath, sourceSize)))
	return hex.EncodeToString(sum[:])[:16]
}

// Audio returns the path of the cached WAV for the source video, extracting
// it first on a miss or when the cached entry fails validation.
func (c *Cache) Audio(ctx context.Context, source string) (string, error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return "", fmt.Errorf("audiocache: resolve %s: %w", source, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("audiocache: stat source: %w", err)
	}
	key := Key(abs, info.Size())
	wavPath := filepath.Join(c.root, key+".wav")

	if path, ok := c.lookup(ctx, key, wavPath); ok {
		return path, nil
	}

	if err := c.lock.Lock(); err != nil {
		return "", fmt.Errorf("audiocache: acquire write lock: %w", err)
	}
	defer func() { _ = c.lock.Unlock() }()

	// Another run may have extracted while we waited on the lock.
	if path, ok := c.lookup(ctx, key, wavPath); ok {
		return path, nil
	}

	tmp := wavPath + ".tmp"
	if err := c.extract(ctx, abs, tmp); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	digest, size, err := fileDigest(tmp)
	if err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("audiocache: digest extracted audio: %w", err)
	}
	if err := os.Rename(tmp, wavPath); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("audiocache: commit extracted audio: %w", err)
	}

	now := time.Now()
	entry := manifestEntry{
		Key:        key,
		SourcePath: abs,
		SourceSize: info.Size(),
		WAVName:    filepath.Base(wavPath),
		WAVSize:    size,
		SHA256:     digest,
		CreatedAt:  now,
		LastUsedAt: now,
	}
	if err := c.store.put(ctx, entry); err != nil {
		return "", err
	}
	if err := c.prune(ctx, key); err != nil {
		return "", err
	}
	c.logger.InfoContext(ctx, "extracted audio into cache",
		logging.String("source", abs),
		logging.String("wav", wavPath),
		logging.Int64("wav_bytes", size),
	)
	return wavPath, nil
}

// lookup validates a manifest entry against the file on disk. Any mismatch
// means a torn write; the entry is discarded.
func (c *Cache) lookup(ctx context.Context, key, wavPath string) (string, bool) {
	entry, err := c.store.get(ctx, key)
	if err != nil || entry == nil {
		return "", false
	}
	info, statErr := os.Stat(wavPath)
	if statErr == nil && info.Size() == entry.WAVSize {
		if digest, _, digestErr := fileDigest(wavPath); digestErr == nil && digest == entry.SHA256 {
			_ = c.store.touch(ctx, key, time.Now())
			c.logger.DebugContext(ctx, "audio cache hit", logging.String("wav", wavPath))
			return wavPath, true
		}
	}
	c.logger.Warn("discarding invalid audio cache entry",
		logging.String("wav", wavPath),
		logging.String("key", key),
	)
	_ = c.store.remove(ctx, key)
	_ = os.Remove(wavPath)
	return "", false
}

// Prune removes least recently used entries until the size budget and
// free-space floor hold. keepKey survives unless it is the only entry left.
func (c *Cache) Prune(ctx context.Context, keepKey string) error {
	if err := c.lock.Lock(); err != nil {
		return fmt.Errorf("audiocache: acquire write lock: %w", err)
	}
	defer func() { _ = c.lock.Unlock() }()
	return c.prune(ctx, keepKey)
}

func (c *Cache) prune(ctx context.Context, keepKey string) error {
	entries, err := c.store.list(ctx)
	if err != nil {
		return err
	}
	var total int64
	for _, e := range entries {
		total += e.WAVSize
	}
	for len(entries) > 0 {
		freeOK, err := c.freeSpaceOK()
		if err != nil {
			return err
		}
		if total <= c.maxBytes && freeOK {
			return nil
		}
		oldest := entries[0]
		if oldest.Key == keepKey {
			if len(entries) == 1 {
				return fmt.Errorf("audiocache: over limits and active entry %s cannot be pruned", keepKey)
			}
			entries = entries[1:]
			continue
		}
		if err := c.store.remove(ctx, oldest.Key); err != nil {
			return err
		}
		if err := os.Remove(filepath.Join(c.root, oldest.WAVName)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("audiocache: remove %s: %w", oldest.WAVName, err)
		}
		c.logger.InfoContext(ctx, "pruned audio cache entry",
			logging.String("wav", oldest.WAVName),
			logging.Int64("wav_bytes", oldest.WAVSize),
		)
		total -= oldest.WAVSize
		entries = entries[1:]
	}
	return nil
}

func (c *Cache) freeSpaceOK() (bool, error) {
	total, free, err := c.statfs(c.root)
	if err != nil {
		return false, fmt.Errorf("audiocache: statfs: %w", err)
	}
	if total == 0 {
		return true, nil
	}
	return float64(free)/float64(total) >= freeSpaceFloor, nil
}

func fileDigest(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()
	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), size, nil
}

func realStatfs(path string) (uint64, uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, 0, err
	}
	total := stat.Blocks * uint64(stat.Bsize)
	free := stat.Bavail * uint64(stat.Bsize)
	return total, free, nil
}

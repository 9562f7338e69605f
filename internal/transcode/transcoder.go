package transcode

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"theatre-podcast/internal/library"
	"theatre-podcast/internal/metadata"
	"theatre-podcast/internal/models"
)

// ErrInputDirMissing is returned when the raw audio directory does not exist.
var ErrInputDirMissing = errors.New("input directory does not exist")

// Stats counts the per-file outcomes of a run.
type Stats struct {
	Converted int
	Skipped   int
	Failed    int
}

// Transcoder converts every supported file of InputDir into an MP3 in OutputDir.
type Transcoder struct {
	InputDir   string
	OutputDir  string
	Extensions []string
	Bitrate    string
	Codec      Codec

	// Inspect reports on the encoded output; defaults to metadata.Inspect.
	Inspect func(path string) (metadata.Info, error)
	Logger  *log.Logger
}

// Run processes the input directory once. Unsupported files are skipped and
// per-file failures are logged without stopping the batch; only setup errors
// and cancellation are returned.
func (t *Transcoder) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	if err := os.MkdirAll(t.OutputDir, 0o755); err != nil {
		return stats, fmt.Errorf("create output directory %s: %w", t.OutputDir, err)
	}

	files, err := library.Scan(t.InputDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return stats, fmt.Errorf("%w: %s", ErrInputDirMissing, t.InputDir)
		}
		return stats, err
	}

	supported := library.FilterExtensions(files, t.Extensions)
	allowed := make(map[string]struct{}, len(supported))
	for _, f := range supported {
		allowed[f.Path] = struct{}{}
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if _, ok := allowed[f.Path]; !ok {
			t.logger().Printf("skipping unsupported file format: %s", f.Path)
			stats.Skipped++
			continue
		}

		dst := OutputPath(t.OutputDir, f.Name)
		if err := t.compress(ctx, f, dst); err != nil {
			t.logger().Printf("failed to compress %s: %v", f.Path, err)
			stats.Failed++
			continue
		}
		stats.Converted++
	}

	return stats, nil
}

// OutputPath is the MP3 path in dir for a source file name.
func OutputPath(dir, name string) string {
	return filepath.Join(dir, strings.TrimSuffix(name, filepath.Ext(name))+".mp3")
}

func (t *Transcoder) compress(ctx context.Context, f models.AudioFile, dst string) error {
	pcm, err := t.Codec.Decode(ctx, f.Path)
	if err != nil {
		return err
	}

	if err := t.Codec.Encode(ctx, pcm, dst, t.Bitrate); err != nil {
		return err
	}

	t.report(f, dst, pcm)
	return nil
}

func (t *Transcoder) report(f models.AudioFile, dst string, pcm *PCM) {
	info, err := t.inspect()(dst)
	if err != nil {
		t.logger().Printf("compressed %s -> %s", f.Path, dst)
		return
	}

	duration := pcm.Duration()
	if info.DurationSeconds != nil {
		duration = time.Duration(*info.DurationSeconds * float64(time.Second))
	}

	bitrate := "unknown bitrate"
	if info.BitrateKbps != nil {
		bitrate = fmt.Sprintf("~%d kbps", *info.BitrateKbps)
	}

	t.logger().Printf("compressed %s -> %s (%s -> %s, %s, %s)",
		f.Path, dst,
		humanize.Bytes(uint64(f.Size)), humanize.Bytes(uint64(info.Size)),
		duration.Round(time.Second), bitrate)
}

func (t *Transcoder) inspect() func(string) (metadata.Info, error) {
	if t.Inspect == nil {
		return metadata.Inspect
	}
	return t.Inspect
}

func (t *Transcoder) logger() *log.Logger {
	if t.Logger == nil {
		return log.Default()
	}
	return t.Logger
}

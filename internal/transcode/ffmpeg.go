package transcode

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	"theatre-podcast/internal/metadata"
)

const bytesPerSample = 2

// PCM is decoded audio held in memory as interleaved signed 16-bit
// little-endian samples, plus the tags read from the source file.
type PCM struct {
	SampleRate int
	Channels   int
	Samples    []byte
	Tags       map[string]string
}

// Duration returns the playing time of the samples.
func (p *PCM) Duration() time.Duration {
	frameSize := p.Channels * bytesPerSample
	if p.SampleRate <= 0 || frameSize <= 0 {
		return 0
	}
	frames := int64(len(p.Samples) / frameSize)
	return time.Duration(frames) * time.Second / time.Duration(p.SampleRate)
}

// Codec decodes source files to PCM and encodes PCM to MP3.
type Codec interface {
	Decode(ctx context.Context, path string) (*PCM, error)
	Encode(ctx context.Context, pcm *PCM, dst string, bitrate string) error
}

// FFmpeg is a Codec backed by the ffmpeg and ffprobe executables.
type FFmpeg struct {
	Binary      string
	ProbeBinary string
	// Inspect reads the source tags carried into the encoded file; defaults to metadata.Inspect.
	Inspect func(path string) (metadata.Info, error)
}

// Decode probes path for its sample layout and decodes it fully into memory.
func (f *FFmpeg) Decode(ctx context.Context, path string) (*PCM, error) {
	format, err := probe(ctx, f.probeBinary(), path)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, f.binary(), DecodeArgs(path, format)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, commandError("decode", path, err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("decode %s: no audio samples", path)
	}

	pcm := &PCM{
		SampleRate: format.SampleRate,
		Channels:   format.Channels,
		Samples:    stdout.Bytes(),
	}

	if info, err := f.inspect()(path); err == nil {
		pcm.Tags = info.Tags()
	}

	return pcm, nil
}

// Encode writes pcm to dst as a constant bitrate MP3. The file is written
// under a temporary name and renamed into place once ffmpeg succeeds.
func (f *FFmpeg) Encode(ctx context.Context, pcm *PCM, dst string, bitrate string) error {
	partial := dst + ".part"

	cmd := exec.CommandContext(ctx, f.binary(), EncodeArgs(pcm, partial, bitrate)...)
	cmd.Stdin = bytes.NewReader(pcm.Samples)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		_ = os.Remove(partial)
		return commandError("encode", dst, err, stderr.String())
	}

	if err := os.Rename(partial, dst); err != nil {
		_ = os.Remove(partial)
		return fmt.Errorf("encode %s: %w", dst, err)
	}
	return nil
}

// DecodeArgs builds the ffmpeg arguments that decode path to raw PCM on stdout.
func DecodeArgs(path string, format StreamFormat) []string {
	return []string{
		"-v", "error",
		"-nostdin",
		"-i", path,
		"-vn",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(format.SampleRate),
		"-ac", strconv.Itoa(format.Channels),
		"pipe:1",
	}
}

// EncodeArgs builds the ffmpeg arguments that encode raw PCM from stdin to dst.
// Tags are emitted in key order so the command line is deterministic.
func EncodeArgs(pcm *PCM, dst string, bitrate string) []string {
	args := []string{
		"-v", "error",
		"-y",
		"-f", "s16le",
		"-ar", strconv.Itoa(pcm.SampleRate),
		"-ac", strconv.Itoa(pcm.Channels),
		"-i", "pipe:0",
	}

	keys := make([]string, 0, len(pcm.Tags))
	for key := range pcm.Tags {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		args = append(args, "-metadata", key+"="+pcm.Tags[key])
	}

	return append(args,
		"-vn",
		"-codec:a", "libmp3lame",
		"-b:a", bitrate,
		"-f", "mp3",
		dst,
	)
}

func commandError(op, path string, err error, stderr string) error {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return fmt.Errorf("ffmpeg %s %s: %w", op, path, err)
	}
	return fmt.Errorf("ffmpeg %s %s: %w, stderr: %s", op, path, err, stderr)
}

func (f *FFmpeg) binary() string {
	if f.Binary == "" {
		return "ffmpeg"
	}
	return f.Binary
}

func (f *FFmpeg) probeBinary() string {
	if f.ProbeBinary == "" {
		return "ffprobe"
	}
	return f.ProbeBinary
}

func (f *FFmpeg) inspect() func(string) (metadata.Info, error) {
	if f.Inspect == nil {
		return metadata.Inspect
	}
	return f.Inspect
}

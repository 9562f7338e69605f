package transcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"theatre-podcast/internal/metadata"
)

type fakeCodec struct {
	failDecode map[string]bool
	failEncode map[string]bool
	decoded    []string
	encoded    map[string]string
	bitrates   []string
}

func newFakeCodec() *fakeCodec {
	return &fakeCodec{
		failDecode: map[string]bool{},
		failEncode: map[string]bool{},
		encoded:    map[string]string{},
	}
}

func (f *fakeCodec) Decode(_ context.Context, path string) (*PCM, error) {
	f.decoded = append(f.decoded, filepath.Base(path))
	if f.failDecode[filepath.Base(path)] {
		return nil, errors.New("invalid data found when processing input")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &PCM{SampleRate: 8000, Channels: 1, Samples: data}, nil
}

func (f *fakeCodec) Encode(_ context.Context, pcm *PCM, dst string, bitrate string) error {
	f.bitrates = append(f.bitrates, bitrate)
	if f.failEncode[filepath.Base(dst)] {
		return errors.New("encoder libmp3lame not found")
	}
	f.encoded[filepath.Base(dst)] = string(pcm.Samples)
	return os.WriteFile(dst, append([]byte("mp3:"), pcm.Samples...), 0o644)
}

func newTestTranscoder(t *testing.T, codec Codec) (*Transcoder, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	root := t.TempDir()
	input := filepath.Join(root, "audio-raw")
	require.NoError(t, os.MkdirAll(input, 0o755))

	return &Transcoder{
		InputDir:   input,
		OutputDir:  filepath.Join(root, "audio"),
		Extensions: []string{".wav", ".mp3"},
		Bitrate:    "128k",
		Codec:      codec,
		Inspect: func(path string) (metadata.Info, error) {
			info, err := os.Stat(path)
			if err != nil {
				return metadata.Info{}, err
			}
			return metadata.Info{Path: path, Size: info.Size()}, nil
		},
		Logger: log.New(&logs, "", 0),
	}, &logs
}

func writeInputs(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("pcm-"+name), 0o644))
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRunConvertsSupportedFiles(t *testing.T) {
	codec := newFakeCodec()
	tr, logs := newTestTranscoder(t, codec)
	writeInputs(t, tr.InputDir, "01_Prince_Caspian.wav", "02_The_Silver_Chair.MP3", "cover.jpg", "notes.txt")
	require.NoError(t, os.MkdirAll(filepath.Join(tr.InputDir, "extras.wav"), 0o755))

	stats, err := tr.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Stats{Converted: 2, Skipped: 2}, stats)
	assert.Equal(t, []string{"01_Prince_Caspian.mp3", "02_The_Silver_Chair.mp3"}, listDir(t, tr.OutputDir))
	assert.Equal(t, "pcm-01_Prince_Caspian.wav", codec.encoded["01_Prince_Caspian.mp3"])
	assert.Equal(t, []string{"128k", "128k"}, codec.bitrates)

	output := logs.String()
	assert.Contains(t, output, "skipping unsupported file format: "+filepath.Join(tr.InputDir, "cover.jpg"))
	assert.Contains(t, output, "skipping unsupported file format: "+filepath.Join(tr.InputDir, "notes.txt"))
	assert.Contains(t, output, "compressed "+filepath.Join(tr.InputDir, "01_Prince_Caspian.wav"))
	assert.NotContains(t, output, "extras.wav")
}

func TestRunContinuesAfterFailures(t *testing.T) {
	codec := newFakeCodec()
	codec.failDecode["broken.wav"] = true
	codec.failEncode["unlucky.mp3"] = true

	tr, logs := newTestTranscoder(t, codec)
	writeInputs(t, tr.InputDir, "a_good.wav", "broken.wav", "unlucky.wav", "z_good.mp3")

	stats, err := tr.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Stats{Converted: 2, Failed: 2}, stats)
	assert.Equal(t, []string{"a_good.mp3", "z_good.mp3"}, listDir(t, tr.OutputDir))
	assert.Equal(t, []string{"a_good.wav", "broken.wav", "unlucky.wav", "z_good.mp3"}, codec.decoded)

	output := logs.String()
	assert.Contains(t, output, fmt.Sprintf("failed to compress %s: invalid data found when processing input", filepath.Join(tr.InputDir, "broken.wav")))
	assert.Contains(t, output, fmt.Sprintf("failed to compress %s: encoder libmp3lame not found", filepath.Join(tr.InputDir, "unlucky.wav")))
}

func TestRunOverwritesPreviousOutput(t *testing.T) {
	codec := newFakeCodec()
	tr, _ := newTestTranscoder(t, codec)
	writeInputs(t, tr.InputDir, "episode.wav")

	_, err := tr.Run(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(tr.InputDir, "episode.wav"), []byte("second take"), 0o644))
	stats, err := tr.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Converted)

	data, err := os.ReadFile(filepath.Join(tr.OutputDir, "episode.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "mp3:second take", string(data))
}

func TestRunEmptyInputDirectory(t *testing.T) {
	codec := newFakeCodec()
	tr, _ := newTestTranscoder(t, codec)

	stats, err := tr.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
	assert.Empty(t, codec.decoded)

	info, err := os.Stat(tr.OutputDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "expected output directory to be created")
}

func TestRunMissingInputDirectory(t *testing.T) {
	tr, _ := newTestTranscoder(t, newFakeCodec())
	tr.InputDir = filepath.Join(t.TempDir(), "nope")

	_, err := tr.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputDirMissing))
}

func TestRunStopsWhenCancelled(t *testing.T) {
	codec := newFakeCodec()
	tr, _ := newTestTranscoder(t, codec)
	writeInputs(t, tr.InputDir, "a.wav", "b.wav")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, codec.decoded)
}

func TestRunReportsWithoutInspector(t *testing.T) {
	codec := newFakeCodec()
	tr, logs := newTestTranscoder(t, codec)
	tr.Inspect = func(string) (metadata.Info, error) { return metadata.Info{}, errors.New("unreadable") }
	writeInputs(t, tr.InputDir, "a.wav")

	stats, err := tr.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Converted)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(logs.String()), "-> "+filepath.Join(tr.OutputDir, "a.mp3")))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("audio", "episode.mp3"), OutputPath("audio", "episode.WAV"))
	assert.Equal(t, filepath.Join("audio", "my.show.mp3"), OutputPath("audio", "my.show.mp3"))
	assert.Equal(t, filepath.Join("audio", "noext.mp3"), OutputPath("audio", "noext"))
}

func TestTranscoderDefaults(t *testing.T) {
	tr := &Transcoder{Logger: log.New(io.Discard, "", 0)}
	assert.NotNil(t, tr.inspect())
	assert.NotNil(t, (&Transcoder{}).logger())
}

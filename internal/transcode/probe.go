package transcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

const (
	defaultSampleRate = 44100
	defaultChannels   = 2
)

// StreamFormat is the PCM layout of the first audio stream of a file.
type StreamFormat struct {
	Codec      string
	SampleRate int
	Channels   int
}

var errNoAudioStream = errors.New("no audio stream")

func probe(ctx context.Context, binary, path string) (StreamFormat, error) {
	cmd := exec.CommandContext(ctx, binary,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "a:0",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return StreamFormat{}, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	format, err := ParseProbe(out)
	if err != nil {
		return StreamFormat{}, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	return format, nil
}

// ParseProbe extracts the first audio stream from ffprobe JSON output.
// Missing sample rate or channel count fall back to 44.1 kHz stereo.
func ParseProbe(data []byte) (StreamFormat, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return StreamFormat{}, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	for _, s := range raw.Streams {
		if s.CodecType != "audio" {
			continue
		}

		format := StreamFormat{
			Codec:      s.CodecName,
			SampleRate: defaultSampleRate,
			Channels:   defaultChannels,
		}
		if rate, err := strconv.Atoi(s.SampleRate); err == nil && rate > 0 {
			format.SampleRate = rate
		}
		if s.Channels > 0 {
			format.Channels = s.Channels
		}
		return format, nil
	}

	return StreamFormat{}, errNoAudioStream
}

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

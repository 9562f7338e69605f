package metadata

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/tcolgate/mp3"
)

// Info is a metadata snapshot of a single audio file.
type Info struct {
	Path            string
	Size            int64
	Title           string
	Artist          *string
	Album           *string
	DurationSeconds *float64
	BitrateKbps     *int
}

// Inspect reads the size, embedded tags and, for MP3 files, the decoded duration of path.
// Unreadable tags or undecodable frames leave the corresponding fields unset.
func Inspect(path string) (Info, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}

	title, artist, album := readTags(path)

	info := Info{
		Path:   path,
		Size:   stat.Size(),
		Title:  title,
		Artist: artist,
		Album:  album,
	}

	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		dur, err := computeMP3Duration(path)
		if err == nil && dur > 0 {
			duration := dur
			info.DurationSeconds = &duration

			bitrate := int(math.Round((float64(stat.Size()) * 8) / duration / 1000))
			if bitrate > 0 {
				info.BitrateKbps = &bitrate
			}
		}
	}

	return info, nil
}

// Tags returns the non-empty tag values keyed by ffmpeg metadata names.
func (i Info) Tags() map[string]string {
	tags := make(map[string]string, 3)
	if i.Title != "" {
		tags["title"] = i.Title
	}
	if i.Artist != nil {
		tags["artist"] = *i.Artist
	}
	if i.Album != nil {
		tags["album"] = *i.Album
	}
	return tags
}

func readTags(path string) (string, *string, *string) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, nil
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return "", nil, nil
	}

	title := strings.TrimSpace(meta.Title())
	artist := optionalString(meta.Artist())
	album := optionalString(meta.Album())
	return title, artist, album
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func computeMP3Duration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	decoder := mp3.NewDecoder(f)
	var frame mp3.Frame
	var skipped int
	var total float64

	for {
		err := decoder.Decode(&frame, &skipped)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, err
		}
		total += frame.Duration().Seconds()
	}

	return total, nil
}

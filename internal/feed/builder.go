package feed

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"theatre-podcast/internal/catalog"
	"theatre-podcast/internal/library"
	"theatre-podcast/internal/metadata"
	"theatre-podcast/internal/models"
)

// ErrAudioDirMissing is returned when the audio directory does not exist.
var ErrAudioDirMissing = errors.New("audio directory does not exist")

// Inspector reads file-level metadata for an episode.
type Inspector func(path string) (metadata.Info, error)

// Builder turns a directory of encoded audio files into a podcast feed file.
type Builder struct {
	AudioDir   string
	OutputPath string
	Channel    Channel
	Order      []string
	Tiebreak   catalog.Tiebreak

	// Extension selects the episode files; defaults to "mp3".
	Extension string
	// Now is the reference instant for publish dates; defaults to time.Now.
	Now func() time.Time
	// Inspect defaults to metadata.Inspect.
	Inspect Inspector
	Logger  *log.Logger
}

// Build scans the audio directory and returns the episodes in feed order,
// each with its publish date assigned.
func (b *Builder) Build() ([]models.Episode, error) {
	files, err := library.Scan(b.AudioDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrAudioDirMissing, b.AudioDir)
		}
		return nil, err
	}

	files = library.FilterExtensions(files, []string{b.extension()})
	catalog.Order(files, func(f models.AudioFile) catalog.Key {
		return catalog.SortKey(f.Name, b.Order, b.Tiebreak)
	})

	dates := catalog.Schedule(len(files), b.now())
	episodes := make([]models.Episode, 0, len(files))
	for i, f := range files {
		title := catalog.DeriveTitle(f.Name)
		enclosure := EnclosureURL(b.Channel.BaseURL, f.Name)

		ep := models.Episode{
			Filename:     f.Name,
			Title:        title,
			Description:  catalog.Description(title),
			EnclosureURL: enclosure,
			Length:       f.Size,
			PubDate:      dates[i],
			GUID:         GUID(enclosure),
			BookIndex:    catalog.BookIndex(f.Name, b.Order),
		}

		info, err := b.inspector()(f.Path)
		if err != nil {
			b.logger().Printf("metadata error for %s: %v", f.Path, err)
		} else {
			ep.Length = info.Size
			ep.DurationSeconds = info.DurationSeconds
			ep.Author = info.Artist
		}

		if ep.BookIndex == catalog.Unmatched {
			b.logger().Printf("no canonical title matches %s; ordering it last", f.Name)
		}

		episodes = append(episodes, ep)
	}

	return episodes, nil
}

// Generate builds the feed and replaces the output file with it.
// It returns the number of items written. Nothing is written when the audio
// directory is missing.
func (b *Builder) Generate() (int, error) {
	episodes, err := b.Build()
	if err != nil {
		return 0, err
	}

	data, err := Render(b.Channel, episodes)
	if err != nil {
		return 0, fmt.Errorf("render feed: %w", err)
	}

	if err := os.WriteFile(b.OutputPath, data, 0o644); err != nil {
		return 0, fmt.Errorf("write feed %s: %w", b.OutputPath, err)
	}

	return len(episodes), nil
}

func (b *Builder) extension() string {
	if b.Extension == "" {
		return "mp3"
	}
	return b.Extension
}

func (b *Builder) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

func (b *Builder) inspector() Inspector {
	if b.Inspect == nil {
		return metadata.Inspect
	}
	return b.Inspect
}

func (b *Builder) logger() *log.Logger {
	if b.Logger == nil {
		return log.Default()
	}
	return b.Logger
}

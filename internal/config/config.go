package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"theatre-podcast/internal/catalog"
)

var transcodeExtensions = []string{
	".wav",
	".mp3",
}

var defaultOrder = []string{
	"The Magicians Nephew",
	"The Lion the Witch and the Wardrobe",
	"The Horse and His Boy",
	"Prince Caspian",
	"The Voyage of the Dawn Treader",
	"The Silver Chair",
	"The Last Battle",
}

const (
	defaultRawAudioDir       = "audio-raw"
	defaultAudioDir          = "audio"
	defaultFeedOutput        = "podcast_feed.xml"
	defaultTargetBitrate     = "128k"
	defaultRefreshDebounceMS = 500
	defaultFeedTitle         = "The Chronicles of Narnia (Radio Theatre)"
	defaultFeedDescription   = "Focus on the Family's The Chronicles of Narnia Radio Theatre"
	defaultFeedLanguage      = "en-us"
	defaultFeedLink          = "https://amletdotco.github.io/fotf-ainran/"
	defaultBaseURL           = "https://amletdotco.github.io/fotf-ainran/audio"
	defaultArtworkURL        = "https://amletdotco.github.io/fotf-ainran/images/podcast_artwork.png"
)

var bitratePattern = regexp.MustCompile(`^[1-9][0-9]*k$`)

// TranscodeExtensions returns the source extensions the transcoder accepts (lowercase).
func TranscodeExtensions() []string {
	result := make([]string, len(transcodeExtensions))
	copy(result, transcodeExtensions)
	return result
}

// DefaultOrder returns the canonical episode title order.
func DefaultOrder() []string {
	result := make([]string, len(defaultOrder))
	copy(result, defaultOrder)
	return result
}

// RawAudioDir returns the directory holding the audio files to transcode.
func RawAudioDir() (string, error) {
	return resolvePath(envOr("PODCAST_RAW_AUDIO_DIR", defaultRawAudioDir))
}

// AudioDir returns the directory holding the encoded episodes.
// The directory is not created; callers report its absence.
func AudioDir() (string, error) {
	return resolvePath(envOr("PODCAST_AUDIO_DIR", defaultAudioDir))
}

// ResolveOutputDir returns the transcoder's output directory, creating it
// when it does not yet exist.
func ResolveOutputDir() (string, error) {
	dir, err := AudioDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	return dir, nil
}

// FeedOutputPath returns the file the RSS feed is written to.
func FeedOutputPath() (string, error) {
	return resolvePath(envOr("PODCAST_FEED_OUTPUT", defaultFeedOutput))
}

// TargetBitrate returns the constant MP3 bitrate passed to the encoder, such as "128k".
func TargetBitrate() (string, error) {
	value := strings.ToLower(envOr("PODCAST_TARGET_BITRATE", defaultTargetBitrate))
	if !bitratePattern.MatchString(value) {
		return "", fmt.Errorf("invalid bitrate %q: expected kilobits such as 128k", value)
	}
	return value, nil
}

// FFmpegPath returns the ffmpeg executable to run.
func FFmpegPath() string {
	return envOr("PODCAST_FFMPEG", "ffmpeg")
}

// FFprobePath returns the ffprobe executable to run.
func FFprobePath() string {
	return envOr("PODCAST_FFPROBE", "ffprobe")
}

// FeedWatch reports whether the feed generator should keep running and
// regenerate the feed when the audio directory changes.
func FeedWatch() bool {
	value, err := strconv.ParseBool(strings.TrimSpace(os.Getenv("PODCAST_FEED_WATCH")))
	return err == nil && value
}

// RefreshDebounce returns the duration to wait before regenerating the feed
// after file-system change events.
func RefreshDebounce() time.Duration {
	value := strings.TrimSpace(os.Getenv("PODCAST_REFRESH_DEBOUNCE_MS"))
	if value == "" {
		return time.Duration(defaultRefreshDebounceMS) * time.Millisecond
	}

	ms, err := strconv.Atoi(value)
	if err != nil || ms < 0 {
		return time.Duration(defaultRefreshDebounceMS) * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}

// FeedMetadata represents the static metadata used to render the podcast RSS feed.
type FeedMetadata struct {
	Title       string
	Description string
	Language    string
	Link        string
	ArtworkURL  string
	BaseURL     string
	Author      string
	Order       []string
	Tiebreak    catalog.Tiebreak
}

type feedMetadataYAML struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Language    string   `yaml:"language"`
	Link        string   `yaml:"link"`
	ArtworkURL  string   `yaml:"artwork_url"`
	BaseURL     string   `yaml:"base_url"`
	Author      string   `yaml:"author"`
	Order       []string `yaml:"order"`
	Tiebreak    string   `yaml:"tiebreak"`
}

// ResolveFeedMetadata returns the podcast feed metadata after applying defaults,
// YAML configuration (when enabled), and environment variable overrides.
func ResolveFeedMetadata() (FeedMetadata, error) {
	meta := FeedMetadata{
		Title:       defaultFeedTitle,
		Description: defaultFeedDescription,
		Language:    defaultFeedLanguage,
		Link:        defaultFeedLink,
		ArtworkURL:  defaultArtworkURL,
		BaseURL:     defaultBaseURL,
		Order:       DefaultOrder(),
		Tiebreak:    catalog.TiebreakNumeric,
	}
	tiebreak := ""

	configPath := strings.TrimSpace(os.Getenv("PODCAST_FEED_CONFIG"))
	if configPath != "" {
		resolved, err := resolvePath(configPath)
		if err != nil {
			return FeedMetadata{}, err
		}
		data, err := os.ReadFile(resolved)
		if err != nil {
			return FeedMetadata{}, err
		}
		var yamlConfig feedMetadataYAML
		if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
			return FeedMetadata{}, fmt.Errorf("parse %s: %w", resolved, err)
		}
		override(&meta.Title, yamlConfig.Title)
		override(&meta.Description, yamlConfig.Description)
		override(&meta.Language, yamlConfig.Language)
		override(&meta.Link, yamlConfig.Link)
		override(&meta.ArtworkURL, yamlConfig.ArtworkURL)
		override(&meta.BaseURL, yamlConfig.BaseURL)
		override(&meta.Author, yamlConfig.Author)
		override(&tiebreak, yamlConfig.Tiebreak)
		if order := cleanOrder(yamlConfig.Order); len(order) > 0 {
			meta.Order = order
		}
	}

	override(&meta.Title, os.Getenv("PODCAST_FEED_TITLE"))
	override(&meta.Description, os.Getenv("PODCAST_FEED_DESCRIPTION"))
	override(&meta.Language, os.Getenv("PODCAST_FEED_LANGUAGE"))
	override(&meta.Link, os.Getenv("PODCAST_FEED_LINK"))
	override(&meta.ArtworkURL, os.Getenv("PODCAST_FEED_ARTWORK_URL"))
	override(&meta.BaseURL, os.Getenv("PODCAST_BASE_URL"))
	override(&meta.Author, os.Getenv("PODCAST_FEED_AUTHOR"))
	override(&tiebreak, os.Getenv("PODCAST_SORT_TIEBREAK"))

	parsed, err := catalog.ParseTiebreak(tiebreak)
	if err != nil {
		return FeedMetadata{}, err
	}
	meta.Tiebreak = parsed

	return meta, nil
}

func override(target *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*target = value
	}
}

func cleanOrder(order []string) []string {
	result := make([]string, 0, len(order))
	for _, title := range order {
		if title = strings.TrimSpace(title); title != "" {
			result = append(result, title)
		}
	}
	return result
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	return filepath.Abs(path)
}

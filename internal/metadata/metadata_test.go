package metadata

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInspectWithoutTags(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "Episode One.wav")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	info, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}

	if info.Path != path {
		t.Fatalf("expected path %s, got %s", path, info.Path)
	}
	if info.Title != "" || info.Artist != nil || info.Album != nil {
		t.Fatalf("expected no tags, got %+v", info)
	}
	if info.DurationSeconds != nil {
		t.Fatalf("expected duration to be nil for non-mp3")
	}
	if info.BitrateKbps != nil {
		t.Fatalf("expected bitrate to be nil for non-mp3")
	}
}

func TestInspectWithInvalidMP3(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "broken.mp3")
	if err := os.WriteFile(path, []byte("not really an mp3"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	info, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect unexpected error: %v", err)
	}

	if info.DurationSeconds != nil {
		t.Fatalf("expected duration to be nil on decode error")
	}
	if info.BitrateKbps != nil {
		t.Fatalf("expected bitrate to remain nil on decode error")
	}
}

func TestInspectSize(t *testing.T) {
	root := t.TempDir()
	content := []byte("some audio content here")
	path := filepath.Join(root, "clip.MP3")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	info, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if info.Size != int64(len(content)) {
		t.Fatalf("expected size %d, got %d", len(content), info.Size)
	}
}

func TestInspectNonexistentFile(t *testing.T) {
	if _, err := Inspect(filepath.Join(t.TempDir(), "missing.mp3")); err == nil {
		t.Fatalf("expected error for nonexistent file")
	}
}

func TestReadTagsAndOptionalString(t *testing.T) {
	title, artist, album := readTags("/no/such/file.wav")
	if title != "" || artist != nil || album != nil {
		t.Fatalf("expected empty metadata on failure")
	}

	if optionalString("   ") != nil {
		t.Fatalf("expected nil for whitespace input")
	}

	value := optionalString(" value ")
	if value == nil || *value != "value" {
		t.Fatalf("expected pointer to trimmed value")
	}
}

func TestComputeMP3DurationErrors(t *testing.T) {
	if _, err := computeMP3Duration("/does/not/exist.mp3"); err == nil {
		t.Fatalf("expected error when file is missing")
	}

	root := t.TempDir()
	path := filepath.Join(root, "bad.mp3")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	duration, err := computeMP3Duration(path)
	if err == nil {
		t.Fatalf("expected decode error for invalid mp3 data")
	}
	if duration != 0 {
		t.Fatalf("expected zero duration on error, got %f", duration)
	}
}

func TestInfoTags(t *testing.T) {
	artist := "Focus on the Family"
	info := Info{Title: "Prince Caspian", Artist: &artist}

	tags := info.Tags()
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %v", tags)
	}
	if tags["title"] != "Prince Caspian" || tags["artist"] != artist {
		t.Fatalf("unexpected tags %v", tags)
	}
	if _, ok := tags["album"]; ok {
		t.Fatalf("expected album to be omitted")
	}

	if len((Info{}).Tags()) != 0 {
		t.Fatalf("expected no tags for empty info")
	}
}

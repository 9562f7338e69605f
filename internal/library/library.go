package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"theatre-podcast/internal/models"
)

// Scan returns the regular files directly inside dir, sorted by name.
// Symlinks are followed; subdirectories and other special entries are skipped.
// A missing dir yields an error matching fs.ErrNotExist.
func Scan(dir string) ([]models.AudioFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	files := make([]models.AudioFile, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		files = append(files, models.AudioFile{
			Path:      path,
			Name:      entry.Name(),
			Extension: Extension(entry.Name()),
			Size:      info.Size(),
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// FilterExtensions keeps the files whose extension is in allowed.
// Entries in allowed may carry a leading dot and are matched case-insensitively.
func FilterExtensions(files []models.AudioFile, allowed []string) []models.AudioFile {
	set := extensionSet(allowed)

	result := make([]models.AudioFile, 0, len(files))
	for _, f := range files {
		if _, ok := set[f.Extension]; ok {
			result = append(result, f)
		}
	}
	return result
}

// Extension returns the lowercase extension of name without its dot.
func Extension(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

func extensionSet(allowed []string) map[string]struct{} {
	set := make(map[string]struct{}, len(allowed))
	for _, ext := range allowed {
		set[strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")] = struct{}{}
	}
	return set
}

package analysis

import (
	"os"
	"path/filepath"
	"sort"
)

// FileInfo is a read-only descriptor for one directory entry. Listings are
// served straight from the filesystem and never cached.
type FileInfo struct {
	Name  string
	Path  string
	Kind  string
	Size  int64
	IsDir bool
}

// ListDir returns the immediate children of path, directories first, then
// files by name. A bad path surfaces as an IO error.
func (a *Analyzer) ListDir(path string) ([]FileInfo, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, Wrap(ErrIO, "analyzer", "list", path, err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			// Entry vanished between ReadDir and Info; drop it.
			continue
		}
		full := filepath.Join(path, entry.Name())
		fi := FileInfo{
			Name:  entry.Name(),
			Path:  full,
			IsDir: entry.IsDir(),
		}
		if !entry.IsDir() {
			fi.Kind = a.classifier.Classify(full).String()
			fi.Size = info.Size()
		}
		files = append(files, fi)
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].IsDir != files[j].IsDir {
			return files[i].IsDir
		}
		return files[i].Name < files[j].Name
	})
	return files, nil
}

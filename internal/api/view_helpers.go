package api

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// DisplayTitle derives a human-readable title from a file or directory name:
// the extension is dropped and separator characters become spaces.
// "summer_trip-2024.jpg" renders as "Summer Trip 2024".
func DisplayTitle(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" {
		return name
	}
	return titleCaser.String(base)
}

// FromFileInfo converts an analysis listing entry into its wire form.
func FromFileInfo(name, path, kind string, size int64, isDir bool) FileEntry {
	return FileEntry{
		Name:        name,
		DisplayName: DisplayTitle(name),
		Path:        path,
		Kind:        kind,
		Size:        size,
		IsDir:       isDir,
	}
}

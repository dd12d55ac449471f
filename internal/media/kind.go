package media

import (
	"path/filepath"
	"strings"
)

// Kind labels the broad media category of a file.
type Kind int

const (
	KindUnknown Kind = iota
	KindImage
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	default:
		return "unknown"
	}
}

// Classifier maps file extensions onto media kinds. Extension matching is
// case-insensitive.
type Classifier struct {
	kinds map[string]Kind
}

// NewClassifier builds a classifier from image and video extension lists.
// Extensions are expected in ".ext" form, as produced by config
// normalization.
func NewClassifier(imageExtensions, videoExtensions []string) *Classifier {
	kinds := make(map[string]Kind, len(imageExtensions)+len(videoExtensions))
	for _, ext := range imageExtensions {
		kinds[strings.ToLower(ext)] = KindImage
	}
	for _, ext := range videoExtensions {
		kinds[strings.ToLower(ext)] = KindVideo
	}
	return &Classifier{kinds: kinds}
}

// Classify returns the media kind for path based on its extension.
func (c *Classifier) Classify(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return KindUnknown
	}
	return c.kinds[ext]
}

// IsMedia reports whether path carries a recognized media extension.
func (c *Classifier) IsMedia(path string) bool {
	return c.Classify(path) != KindUnknown
}

package media

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/sochai/sochai-web/internal/pkg/apperr"
)

// DefaultMaxSizeMB applies when no limit is given.
const DefaultMaxSizeMB = 5

var supportedMime = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// File is an image held in memory between the request and the object store.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f File) Size() int64 {
	return int64(len(f.Data))
}

// canonicalMime folds the image/jpg alias onto image/jpeg.
func canonicalMime(mt string) string {
	mt = strings.ToLower(strings.TrimSpace(mt))
	if mt == "image/jpg" {
		return "image/jpeg"
	}
	return mt
}

// Validate checks the declared type, the size and that the content really is
// the declared format.
func Validate(f File, maxSizeMB float64) error {
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultMaxSizeMB
	}
	declared := strings.ToLower(strings.TrimSpace(f.ContentType))

	if !strings.HasPrefix(declared, "image/") {
		return apperr.New(apperr.KindInvalidFile, "Only image files are allowed")
	}
	if float64(f.Size()) > maxSizeMB*1024*1024 {
		return apperr.New(apperr.KindInvalidFile, fmt.Sprintf("Image size must be less than %gMB", maxSizeMB))
	}
	if !supportedMime[declared] {
		return apperr.New(apperr.KindInvalidFile, "Only JPG, PNG, and WebP formats are supported")
	}

	head := f.Data
	if len(head) > 512 {
		head = head[:512]
	}
	if detected := http.DetectContentType(head); detected != canonicalMime(declared) {
		return apperr.New(apperr.KindInvalidFile, "File content does not match its type")
	}
	return nil
}

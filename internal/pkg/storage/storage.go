// Package storage stores uploaded images in an S3 compatible bucket and maps
// object keys to and from their public URLs.
package storage

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/sochai/sochai-web/internal/pkg/apperr"
)

// ObjectStore is what the media helper needs from a bucket.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	KeyFromURL(rawURL string) (string, error)
}

// publicURL joins base and the path-escaped key segments.
func publicURL(base, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return base + "/" + strings.Join(segments, "/")
}

// keyFromURL reverses publicURL. Query strings and fragments are ignored.
func keyFromURL(base, rawURL string) (string, error) {
	prefix := base + "/"
	if base == "" || !strings.HasPrefix(rawURL, prefix) {
		return "", apperr.New(apperr.KindInvalidURL, "URL does not point into the image store")
	}
	rest := strings.TrimPrefix(rawURL, prefix)
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	key, err := url.PathUnescape(rest)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInvalidURL, "URL does not point into the image store", err)
	}
	if key == "" || strings.HasSuffix(key, "/") || strings.Contains(key, "..") {
		return "", apperr.New(apperr.KindInvalidURL, "URL does not point into the image store")
	}
	return key, nil
}

// Package media validates, resizes and stores listing images.
package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sochai/sochai-web/app/models"
	"github.com/sochai/sochai-web/internal/pkg/apperr"
	"github.com/sochai/sochai-web/internal/pkg/storage"
)

// maxUploadBytes is the hard cap Upload enforces regardless of preset.
const maxUploadBytes = 5 * 1024 * 1024

// Progress is reported while an upload runs. Fraction goes from 0 to 1; the
// final report carries URL, a failed upload reports Err.
type Progress struct {
	Fraction float64 `json:"progress"`
	URL      string  `json:"url,omitempty"`
	Err      error   `json:"-"`
}

type ProgressFunc func(Progress)

// Connector establishes the storage identity.
type Connector func(ctx context.Context) (storage.ObjectStore, error)

type Uploader struct {
	connect Connector
	now     func() time.Time

	mu    sync.Mutex
	store storage.ObjectStore
}

func NewUploader(connect Connector) *Uploader {
	return &Uploader{connect: connect, now: time.Now}
}

// NewStaticUploader uses an already connected store.
func NewStaticUploader(store storage.ObjectStore) *Uploader {
	return NewUploader(func(context.Context) (storage.ObjectStore, error) { return store, nil })
}

// ensureStore connects once. A failed attempt is retried on the next call.
func (u *Uploader) ensureStore(ctx context.Context) (storage.ObjectStore, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.store != nil {
		return u.store, nil
	}
	s, err := u.connect(ctx)
	if err != nil {
		if apperr.KindOf(err) == "" {
			err = apperr.Wrap(apperr.KindConfiguration, "Image storage is not available", err)
		}
		return nil, err
	}
	u.store = s
	return s, nil
}

// objectName builds <unix-ms>-<token>.<ext> from the original file name.
func (u *Uploader) objectName(f File) string {
	base := filepath.Base(strings.ReplaceAll(f.Name, "\\", "/"))
	ext := ""
	if i := strings.LastIndex(base, "."); i >= 0 {
		ext = base[i+1:]
	}
	if ext == "" || strings.ContainsAny(ext, "/ ") {
		ext = strings.TrimPrefix(canonicalMime(f.ContentType), "image/")
	}
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d-%s.%s", u.now().UnixMilli(), token, ext)
}

// Upload stores f under path/name, generating a name when none is given.
func (u *Uploader) Upload(ctx context.Context, f File, path, name string, progress ProgressFunc) (*models.UploadedAsset, error) {
	if progress == nil {
		progress = func(Progress) {}
	}

	store, err := u.ensureStore(ctx)
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(strings.ToLower(f.ContentType), "image/") {
		return nil, apperr.New(apperr.KindInvalidFile, "Only image files are allowed")
	}
	if f.Size() > maxUploadBytes {
		return nil, apperr.New(apperr.KindInvalidFile, "Image size must be less than 5MB")
	}

	if name == "" {
		name = u.objectName(f)
	}
	key := strings.Trim(path, "/") + "/" + name

	body := &progressReader{r: bytes.NewReader(f.Data), total: f.Size(), report: progress}
	if err := store.Put(ctx, key, body, f.Size(), f.ContentType); err != nil {
		log.Errorf("[Media] Upload of %s failed: %v", key, err)
		upErr := apperr.Wrap(apperr.KindUpload, "Image upload failed", err)
		progress(Progress{Fraction: 0, Err: upErr})
		return nil, upErr
	}

	asset := &models.UploadedAsset{
		URL:         store.PublicURL(key),
		Key:         key,
		Size:        f.Size(),
		ContentType: f.ContentType,
	}
	progress(Progress{Fraction: 1, URL: asset.URL})
	return asset, nil
}

// UploadMany uploads files concurrently. Results keep the order of files; a
// failing upload does not stop its siblings and the first error is returned.
func (u *Uploader) UploadMany(ctx context.Context, files []File, path string, progress func(index int, p Progress)) ([]*models.UploadedAsset, error) {
	assets := make([]*models.UploadedAsset, len(files))
	var g errgroup.Group
	for i, f := range files {
		g.Go(func() error {
			var report ProgressFunc
			if progress != nil {
				report = func(p Progress) { progress(i, p) }
			}
			asset, err := u.Upload(ctx, f, path, "", report)
			if err != nil {
				return err
			}
			assets[i] = asset
			return nil
		})
	}
	return assets, g.Wait()
}

// removable reports whether key is a listing image directly under one of the
// preset folders.
func removable(key string) bool {
	for _, p := range []Preset{Logos, Screenshots} {
		name, ok := strings.CutPrefix(key, p.Path+"/")
		if ok && name != "" && !strings.Contains(name, "/") {
			return true
		}
	}
	return false
}

// Remove deletes the listing image behind a public URL. URLs outside the
// image folders are rejected.
func (u *Uploader) Remove(ctx context.Context, rawURL string) error {
	store, err := u.ensureStore(ctx)
	if err != nil {
		return err
	}
	key, err := store.KeyFromURL(rawURL)
	if err != nil {
		return err
	}
	if !removable(key) {
		return apperr.New(apperr.KindInvalidURL, "URL does not point to a listing image")
	}
	if err := store.Delete(ctx, key); err != nil {
		log.Errorf("[Media] Delete of %s failed: %v", key, err)
		return apperr.Wrap(apperr.KindUpload, "Image could not be deleted", err)
	}
	return nil
}

// progressReader reports the share of bytes read so far. Reports never go
// backwards, even when the transport rewinds the body to retry.
type progressReader struct {
	r      *bytes.Reader
	total  int64
	report ProgressFunc
	last   float64
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 && p.total > 0 {
		read := p.total - int64(p.r.Len())
		frac := float64(read) / float64(p.total)
		// the final 1.0 is sent with the URL once the store confirmed the write
		if frac > p.last && frac < 1 {
			p.last = frac
			p.report(Progress{Fraction: frac})
		}
	}
	return n, err
}

func (p *progressReader) Seek(offset int64, whence int) (int64, error) {
	return p.r.Seek(offset, whence)
}

var _ io.ReadSeeker = (*progressReader)(nil)

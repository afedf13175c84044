package controllers

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/sochai/sochai-web/app/models"
	"github.com/sochai/sochai-web/internal/pkg/apperr"
	"github.com/sochai/sochai-web/internal/pkg/media"
	"github.com/sochai/sochai-web/internal/pkg/metrics/counter"
)

type UploadController struct {
	media    *media.Uploader
	counters *counter.Counters
}

// uploadResult is one slot of a multi-file upload, in request order.
type uploadResult struct {
	Name  string                `json:"name"`
	Asset *models.UploadedAsset `json:"asset,omitempty"`
	Error string                `json:"error,omitempty"`
}

// HandleLogo uploads a single listing logo from the "file" field.
func (u *UploadController) HandleLogo(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return respondError(c, apperr.New(apperr.KindInvalidFile, "Please choose an image to upload"))
	}
	f, err := readForm(fh)
	if err != nil {
		return respondError(c, err)
	}
	f, err = media.Logos.Prepare(f)
	if err != nil {
		return respondError(c, err)
	}

	asset, err := u.media.Upload(c.UserContext(), f, media.Logos.Path, "", nil)
	u.counters.AddUpload(err == nil)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, asset)
}

// HandleScreenshots uploads up to five screenshots from the "files" field.
// Each file succeeds or fails on its own.
func (u *UploadController) HandleScreenshots(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return respondError(c, apperr.New(apperr.KindInvalidFile, "Please choose images to upload"))
	}
	headers := form.File["files"]
	switch {
	case len(headers) == 0:
		return respondError(c, apperr.New(apperr.KindInvalidFile, "Please choose images to upload"))
	case len(headers) > media.Screenshots.MaxFiles:
		return respondError(c, apperr.New(apperr.KindValidation,
			fmt.Sprintf("You can upload at most %d screenshots", media.Screenshots.MaxFiles)))
	}

	results := make([]uploadResult, len(headers))
	files := make([]media.File, 0, len(headers))
	slots := make([]int, 0, len(headers))
	for i, fh := range headers {
		results[i].Name = fh.Filename
		f, err := readForm(fh)
		if err == nil {
			f, err = media.Screenshots.Prepare(f)
		}
		if err != nil {
			results[i].Error = apperr.Message(err)
			continue
		}
		files = append(files, f)
		slots = append(slots, i)
	}

	if len(files) > 0 {
		assets, err := u.media.UploadMany(c.UserContext(), files, media.Screenshots.Path, nil)
		if err != nil && assets == nil {
			return respondError(c, err)
		}
		for j, slot := range slots {
			ok := j < len(assets) && assets[j] != nil
			u.counters.AddUpload(ok)
			if ok {
				results[slot].Asset = assets[j]
			} else {
				results[slot].Error = "Upload failed"
			}
		}
	}

	status := fiber.StatusCreated
	for _, r := range results {
		if r.Asset == nil {
			status = fiber.StatusMultiStatus
			break
		}
	}
	return respond(c, status, results)
}

type removeRequest struct {
	URL string `json:"url" form:"url"`
}

// HandleRemove deletes a previously uploaded image. Deletion is best effort:
// a failure is logged and still answered with success.
func (u *UploadController) HandleRemove(c *fiber.Ctx) error {
	var req removeRequest
	if err := c.BodyParser(&req); err != nil || req.URL == "" {
		return respondError(c, apperr.New(apperr.KindInvalidURL, "Invalid image URL"))
	}
	if err := u.media.Remove(c.UserContext(), req.URL); err != nil {
		if apperr.KindOf(err) == apperr.KindInvalidURL {
			return respondError(c, err)
		}
		log.Warnf("[Upload] Could not delete %s: %v", req.URL, err)
	}
	return respond(c, fiber.StatusOK, nil)
}

func readForm(fh *multipart.FileHeader) (media.File, error) {
	src, err := fh.Open()
	if err != nil {
		return media.File{}, apperr.Wrap(apperr.KindInvalidFile, "Could not read the uploaded file", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return media.File{}, apperr.Wrap(apperr.KindInvalidFile, "Could not read the uploaded file", err)
	}
	return media.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

package controllers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/sochai/sochai-web/app/models"
	"github.com/sochai/sochai-web/internal/pkg/apiclient"
	"github.com/sochai/sochai-web/internal/pkg/apperr"
	"github.com/sochai/sochai-web/internal/pkg/media"
	"github.com/sochai/sochai-web/internal/pkg/usercontext"
)

type ListingController struct {
	api   *apiclient.Client
	media *media.Uploader
	// firstClick deduplicates clicks per browser and listing.
	firstClick  func(browserID, listingID string) bool
	forgetClick func(browserID, listingID string)
}

func (l *ListingController) HandleList(c *fiber.Ctx) error {
	filter := models.ListingFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: strings.TrimSpace(c.Query("category")),
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 12),
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 50 {
		filter.Limit = 12
	}

	page, err := l.api.ListModels(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, page)
}

func (l *ListingController) HandleGet(c *fiber.Ctx) error {
	listing, err := l.api.GetModel(c.UserContext(), c.Params("id"))
	if apiclient.IsNotFound(err) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "not_found",
			"message": "Model not found",
		})
	}
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, listing)
}

// HandleClick counts a visit to the listing's website once per browser.
// Tracking never fails the request.
func (l *ListingController) HandleClick(c *fiber.Ctx) error {
	id := c.Params("id")
	browserID := usercontext.GetBrowserID(c)

	counted := false
	if l.firstClick(browserID, id) {
		if err := l.api.RecordClick(c.UserContext(), id); err != nil {
			log.Warnf("[Listing] Click on %s not recorded: %v", id, err)
			l.forgetClick(browserID, id)
		} else {
			counted = true
		}
	}
	return respond(c, fiber.StatusOK, fiber.Map{"counted": counted})
}

// HandleSubmit forwards a new listing for review. Uploaded images that the
// submission does not reference any more are removed.
func (l *ListingController) HandleSubmit(c *fiber.Ctx) error {
	var req struct {
		models.Listing
		Discarded []string `json:"discardedImages"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Wrap(apperr.KindValidation, "Invalid submission", err))
	}
	listing := req.Listing
	listing.ID = ""
	listing.Status = ""
	if err := listing.Validate(); err != nil {
		return respondError(c, apperr.Wrap(apperr.KindValidation, "Please check the "+firstInvalidField(err)+" field.", err))
	}

	created, err := l.api.SubmitModel(c.UserContext(), currentSession(c).Token(), listing)
	if err != nil {
		return respondError(c, err)
	}

	for _, u := range req.Discarded {
		if err := l.media.Remove(c.UserContext(), u); err != nil {
			log.Warnf("[Listing] Could not delete discarded image %s: %v", u, err)
		}
	}
	return respond(c, fiber.StatusCreated, created)
}

// HandleUploadPage is what the gated upload view loads: the image limits.
func (l *ListingController) HandleUploadPage(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, fiber.Map{
		"user":        usercontext.GetUserContext(c),
		"logo":        presetLimits(media.Logos),
		"screenshots": presetLimits(media.Screenshots),
	})
}

func presetLimits(p media.Preset) fiber.Map {
	return fiber.Map{
		"maxSizeMB": p.MaxSizeMB,
		"maxWidth":  p.MaxWidth,
		"maxHeight": p.MaxHeight,
		"maxFiles":  p.MaxFiles,
		"formats":   []string{"image/jpeg", "image/png", "image/webp"},
	}
}

func firstInvalidField(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field()
	}
	return "submitted"
}

package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/sochai/sochai-web/app/models"
	"github.com/sochai/sochai-web/internal/pkg/apiclient"
	"github.com/sochai/sochai-web/internal/pkg/apperr"
	"github.com/sochai/sochai-web/internal/pkg/metrics/counter"
	"github.com/sochai/sochai-web/internal/pkg/reconcile"
	"github.com/sochai/sochai-web/internal/pkg/usercontext"
)

type AdminController struct {
	api      *apiclient.Client
	ledger   reconcile.Ledger
	counters *counter.Counters
}

func (a *AdminController) token(c *fiber.Ctx) string {
	return currentSession(c).Token()
}

// HandleModels lists submissions by status; "all" or nothing lists everything.
func (a *AdminController) HandleModels(c *fiber.Ctx) error {
	status := strings.ToLower(c.Query("status", "all"))
	if status == "all" {
		status = ""
	} else if !models.IsListingStatus(status) {
		return respondError(c, apperr.New(apperr.KindValidation, "Unknown status"))
	}

	listings, err := a.api.ListModelsAdmin(c.UserContext(), a.token(c), status)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, listings)
}

type statusRequest struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejectionReason"`
}

func (a *AdminController) HandleModelStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := c.BodyParser(&req); err != nil || !models.IsListingStatus(req.Status) {
		return respondError(c, apperr.New(apperr.KindValidation, "Unknown status"))
	}
	reason := ""
	if req.Status == models.LISTING_REJECTED {
		reason = strings.TrimSpace(req.RejectionReason)
		if reason == "" {
			return respondError(c, apperr.New(apperr.KindValidation, "Please give a reason for the rejection"))
		}
	}

	listing, err := a.api.UpdateModelStatus(c.UserContext(), a.token(c), c.Params("id"), req.Status, reason)
	if err != nil {
		return respondError(c, err)
	}
	log.Infof("[Admin] %s set model %s to %s", usercontext.GetUserContext(c).Email, c.Params("id"), req.Status)
	return respond(c, fiber.StatusOK, listing)
}

func (a *AdminController) HandleUsers(c *fiber.Ctx) error {
	users, err := a.api.ListUsers(c.UserContext(), a.token(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, users)
}

type proRequest struct {
	IsProUser bool `json:"isProUser"`
}

// HandleTogglePro switches a user between pro and free.
func (a *AdminController) HandleTogglePro(c *fiber.Ctx) error {
	var req proRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Wrap(apperr.KindValidation, "Invalid request", err))
	}
	update := apiclient.SubscriptionUpdate{SubscriptionType: models.SubscriptionFree, IsProUser: false}
	if req.IsProUser {
		update = apiclient.SubscriptionUpdate{SubscriptionType: models.SubscriptionPro, IsProUser: true}
	}

	user, err := a.api.UpdateUserSubscription(c.UserContext(), a.token(c), c.Params("id"), update)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, user)
}

// HandleReconciliations lists payments whose subscription was never confirmed.
func (a *AdminController) HandleReconciliations(c *fiber.Ctx) error {
	rows, err := a.ledger.ListPending(c.UserContext(), c.QueryInt("limit", 50))
	if err != nil {
		log.Errorf("[Admin] Could not list reconciliations: %v", err)
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, rows)
}

func (a *AdminController) HandleResolveReconciliation(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return respondError(c, apperr.New(apperr.KindValidation, "Invalid id"))
	}
	err = a.ledger.MarkResolved(c.UserContext(), uint(id))
	if errors.Is(err, reconcile.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "not_found",
			"message": "Reconciliation not found",
		})
	}
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, nil)
}

// HandleStats returns checkout and upload totals across instances.
func (a *AdminController) HandleStats(c *fiber.Ctx) error {
	snap, err := a.counters.Snapshot(c.UserContext())
	if err != nil {
		log.Warnf("[Admin] Could not read counters: %v", err)
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, snap)
}

package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/sochai/sochai-web/app/models"
	"github.com/sochai/sochai-web/internal/pkg/apperr"
	"github.com/sochai/sochai-web/internal/pkg/checkout"
	"github.com/sochai/sochai-web/internal/pkg/flash"
	"github.com/sochai/sochai-web/internal/pkg/metrics/counter"
	"github.com/sochai/sochai-web/internal/pkg/session"
	"github.com/sochai/sochai-web/internal/pkg/usercontext"
)

type CheckoutController struct {
	orch     *checkout.Orchestrator
	attempts func(c *fiber.Ctx) checkout.AttemptStore
	counters *counter.Counters
}

type selectRequest struct {
	PlanID string `json:"planId" form:"planId"`
}

type resolveRequest struct {
	Dismissed bool `json:"dismissed" form:"dismissed"`
	models.PaymentResult
}

// HandleSelect starts checkout for a plan. Plans not sold through the widget
// answer with a redirect instead of widget options.
func (cc *CheckoutController) HandleSelect(c *fiber.Ctx) error {
	var req selectRequest
	if err := c.BodyParser(&req); err != nil || req.PlanID == "" {
		return respondError(c, apperr.New(apperr.KindValidation, "Please choose a plan"))
	}

	var sess session.Session
	if svc := currentSession(c); svc != nil {
		sess = svc.Current()
	}

	attempt, err := cc.orch.Select(c.UserContext(), usercontext.GetBrowserID(c), sess, req.PlanID)
	if errors.Is(err, checkout.ErrCheckoutInProgress) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   "in_progress",
			"message": "A checkout for this plan is already in progress",
		})
	}
	if err != nil {
		flash.Add(c, flash.Notice{Level: flash.LevelError, Title: "Payment Error", Message: apperr.Message(err)})
		return respondError(c, err)
	}

	if attempt.State == checkout.StateAwaitingPayment {
		if err := cc.attempts(c).Save(attempt); err != nil {
			log.Errorf("[Checkout] Could not persist attempt for order %s: %v", attempt.OrderID, err)
			return respondError(c, apperr.Wrap(apperr.KindConfiguration, "Checkout is temporarily unavailable", err))
		}
	}
	return respond(c, fiber.StatusOK, attempt)
}

// HandleResolve receives the widget's outcome for the stored attempt.
func (cc *CheckoutController) HandleResolve(c *fiber.Ctx) error {
	var req resolveRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Wrap(apperr.KindValidation, "Invalid payment result", err))
	}

	store := cc.attempts(c)
	attempt, err := store.Load()
	if err != nil {
		log.Warnf("[Checkout] Stored attempt unreadable: %v", err)
		_ = store.Clear()
		attempt = nil
	}

	result := checkout.Dismissed()
	if !req.Dismissed {
		result = checkout.Completed(req.PaymentResult)
	}

	svc := currentSession(c)
	if svc == nil {
		return respondError(c, apperr.New(apperr.KindValidation, "No session"))
	}
	stored := attempt
	attempt, err = cc.orch.Resolve(c.UserContext(), svc, attempt, result, flash.NewNotifier(c))

	// a payment for a superseded order leaves the newer attempt in place
	if stored != nil && attempt == stored && attempt.State != checkout.StateAwaitingPayment {
		if cerr := store.Clear(); cerr != nil {
			log.Warnf("[Checkout] Could not clear attempt: %v", cerr)
		}
	}
	usercontext.Sync(c)

	if err != nil {
		if errors.Is(err, apperr.PartialFailure) {
			cc.counters.AddCheckout(string(apperr.KindPartialFailure))
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
				"success": false,
				"error":   string(apperr.KindPartialFailure),
				"message": apperr.Message(err),
				"data":    attempt,
				"notices": flash.Pending(c),
			})
		}
		return respondError(c, err)
	}
	if result.Dismissed {
		cc.counters.AddCheckout("dismissed")
	} else {
		cc.counters.AddCheckout(string(attempt.State))
	}
	return respond(c, fiber.StatusOK, fiber.Map{"attempt": attempt, "session": svc.Current()})
}

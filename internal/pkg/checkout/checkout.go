// Package checkout drives a plan purchase from order creation through the
// payment widget to subscription confirmation.
package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/sochai/sochai-web/app/models"
	"github.com/sochai/sochai-web/internal/pkg/apiclient"
	"github.com/sochai/sochai-web/internal/pkg/apperr"
	"github.com/sochai/sochai-web/internal/pkg/flash"
	"github.com/sochai/sochai-web/internal/pkg/plans"
	"github.com/sochai/sochai-web/internal/pkg/session"
)

var ErrCheckoutInProgress = errors.New("checkout already in progress for this plan")

const partialFailureMessage = "Payment succeeded but subscription update pending. Please contact support."

type PaymentsAPI interface {
	CreateOrder(ctx context.Context, apiPlanID string) (*apiclient.CreateOrderResponse, error)
	CompleteSubscription(ctx context.Context, token string, req models.CompleteSubscriptionRequest) (*models.User, error)
}

// Reconciler records payments whose subscription could not be confirmed.
type Reconciler interface {
	Record(ctx context.Context, r *models.PaymentReconciliation) error
}

type Notifier interface {
	Notify(n flash.Notice)
}

type Orchestrator struct {
	api    PaymentsAPI
	loader ScriptLoader
	ledger Reconciler
	cfg    Config
	now    func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

func New(api PaymentsAPI, loader ScriptLoader, ledger Reconciler, cfg Config) *Orchestrator {
	return &Orchestrator{
		api:      api,
		loader:   loader,
		ledger:   ledger,
		cfg:      cfg,
		now:      time.Now,
		inflight: make(map[string]struct{}),
	}
}

func (o *Orchestrator) acquire(key string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inflight[key]; busy {
		return false
	}
	o.inflight[key] = struct{}{}
	return true
}

func (o *Orchestrator) release(key string) {
	o.mu.Lock()
	delete(o.inflight, key)
	o.mu.Unlock()
}

// Select starts checkout for planID. Plans not sold through the widget come back
// with Redirect set and no order is created. On success the attempt is
// AwaitingPayment and carries the widget options.
func (o *Orchestrator) Select(ctx context.Context, browserID string, sess session.Session, planID string) (*Attempt, error) {
	plan, ok := plans.Lookup(planID)
	if !ok {
		return nil, apperr.New(apperr.KindValidation, "Unknown plan")
	}

	attempt := &Attempt{
		PlanID:    plan.ID,
		APIPlanID: plan.APIPlanID,
		PlanName:  plan.Name,
		State:     StateIdle,
		CreatedAt: o.now(),
	}
	switch {
	case plan.IsEnterprise():
		attempt.Redirect = ContactPath
		return attempt, nil
	case plan.IsFree():
		attempt.Redirect = SignupPath
		return attempt, nil
	}

	key := browserID + "|" + plan.ID
	if !o.acquire(key) {
		return nil, ErrCheckoutInProgress
	}
	defer o.release(key)

	attempt.State = StateCreatingOrder
	resp, err := o.api.CreateOrder(ctx, plan.APIPlanID)
	if err != nil {
		if apiclient.IsNotFound(err) {
			err = apperr.Wrap(apperr.KindNetwork, "Payment service not found", err)
		}
		log.Warnf("[Checkout] Order creation for plan %s failed: %v", plan.ID, err)
		return o.fail(attempt, err)
	}
	attempt.OrderID = resp.Order.ID

	if err := o.loader.Ensure(ctx); err != nil {
		log.Errorf("[Checkout] Payment script unavailable: %v", err)
		return o.fail(attempt, apperr.Wrap(apperr.KindNetwork, "Payment gateway failed to load", err))
	}

	keyID := strings.TrimSpace(resp.KeyID)
	if keyID == "" {
		keyID = o.cfg.KeyID
	}
	if keyID == "" {
		return o.fail(attempt, apperr.New(apperr.KindConfiguration, "Payment gateway is not configured"))
	}

	attempt.Widget = &WidgetOptions{
		Key:         keyID,
		Amount:      resp.Order.Amount,
		Currency:    resp.Order.Currency,
		OrderID:     resp.Order.ID,
		Name:        o.cfg.MerchantName,
		Description: plan.Name + " subscription",
		Prefill:     prefill(sess.User),
		Theme:       Theme{Color: o.cfg.ThemeColor},
	}
	attempt.State = StateAwaitingPayment
	log.Infof("[Checkout] Order %s created for plan %s", attempt.OrderID, plan.ID)
	return attempt, nil
}

func (o *Orchestrator) fail(a *Attempt, err error) (*Attempt, error) {
	a.State = StateFailed
	a.Error = apperr.Message(err)
	return a, err
}

func prefill(u *models.User) Prefill {
	if u == nil {
		return Prefill{}
	}
	return Prefill{Name: u.DisplayName(), Email: u.Email, Contact: u.MobileNumber}
}

// Resolve finishes an attempt with the widget's result. A completed payment is
// forwarded once; when confirmation fails the payment is recorded for
// reconciliation and the session user is left untouched. A signed payment
// that no longer matches a waiting attempt has still been charged, so it is
// recorded the same way.
func (o *Orchestrator) Resolve(ctx context.Context, store session.Store, attempt *Attempt, result WidgetResult, notify Notifier) (*Attempt, error) {
	if result.Dismissed || result.Payment == nil {
		if attempt == nil || attempt.State != StateAwaitingPayment {
			return attempt, apperr.New(apperr.KindValidation, "No checkout is awaiting payment")
		}
		attempt.State = StateIdle
		return attempt, nil
	}

	p := *result.Payment
	if p.OrderID == "" || p.PaymentID == "" || p.Signature == "" {
		return attempt, apperr.New(apperr.KindValidation, "Payment result is incomplete")
	}
	switch {
	case attempt == nil:
		return o.partialFailure(ctx, o.orphan(p), store.Current().User, p,
			apperr.New(apperr.KindValidation, "no checkout attempt for this order"), notify)
	case p.OrderID != attempt.OrderID:
		return o.partialFailure(ctx, o.orphan(p), store.Current().User, p,
			apperr.New(apperr.KindValidation, "order superseded by "+attempt.OrderID), notify)
	case attempt.State != StateAwaitingPayment:
		// same order again: it was already confirmed or already recorded
		return attempt, apperr.New(apperr.KindValidation, "No checkout is awaiting payment")
	}

	attempt.State = StateConfirmingSubscription
	sess := store.Current()

	token := store.Token()
	if token == "" {
		return o.partialFailure(ctx, attempt, sess.User, p, apperr.New(apperr.KindValidation, "authentication required"), notify)
	}

	user, err := o.api.CompleteSubscription(ctx, token, models.CompleteSubscriptionRequest{
		PlanID:    attempt.APIPlanID,
		PaymentID: p.PaymentID,
		OrderID:   p.OrderID,
		Signature: p.Signature,
	})
	if err != nil {
		return o.partialFailure(ctx, attempt, sess.User, p, err, notify)
	}
	if err := store.ReplaceUser(user); err != nil {
		return o.partialFailure(ctx, attempt, sess.User, p, err, notify)
	}

	attempt.State = StateCompleted
	notify.Notify(flash.Notice{
		Level:   flash.LevelSuccess,
		Title:   "Payment successful",
		Message: "Subscription activated: " + attempt.PlanName,
	})
	log.Infof("[Checkout] Subscription %s confirmed for order %s", attempt.APIPlanID, attempt.OrderID)
	return attempt, nil
}

// orphan stands in for an attempt that is gone while its payment went through.
func (o *Orchestrator) orphan(p models.PaymentResult) *Attempt {
	return &Attempt{State: StateConfirmingSubscription, OrderID: p.OrderID, CreatedAt: o.now()}
}

func (o *Orchestrator) partialFailure(ctx context.Context, a *Attempt, user *models.User, p models.PaymentResult, cause error, notify Notifier) (*Attempt, error) {
	log.Errorf("[Checkout] Payment %s for order %s not confirmed: %v", p.PaymentID, p.OrderID, cause)

	row := &models.PaymentReconciliation{
		PlanID:        a.PlanID,
		APIPlanID:     a.APIPlanID,
		PaymentID:     p.PaymentID,
		OrderID:       p.OrderID,
		Signature:     p.Signature,
		FailureReason: apperr.Message(cause),
	}
	if user != nil {
		row.UserID = user.ID
		row.UserEmail = user.Email
	}
	if o.ledger != nil {
		if err := o.ledger.Record(ctx, row); err != nil {
			log.Errorf("[Checkout] Could not record payment %s for reconciliation: %v", p.PaymentID, err)
		}
	}

	notify.Notify(flash.Notice{
		Level:   flash.LevelWarning,
		Title:   "Payment received",
		Message: partialFailureMessage,
	})
	a.State = StateFailed
	a.Error = partialFailureMessage
	return a, apperr.Wrap(apperr.KindPartialFailure, partialFailureMessage, cause)
}

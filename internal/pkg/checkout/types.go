package checkout

import (
	"time"

	"github.com/sochai/sochai-web/app/models"
)

type State string

const (
	StateIdle                   State = "idle"
	StateCreatingOrder          State = "creating_order"
	StateAwaitingPayment        State = "awaiting_payment"
	StateConfirmingSubscription State = "confirming_subscription"
	StateCompleted              State = "completed"
	StateFailed                 State = "failed"
)

const (
	ContactPath = "/contact"
	SignupPath  = "/signup"
)

type Prefill struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact,omitempty"`
}

type Theme struct {
	Color string `json:"color,omitempty"`
}

// WidgetOptions is what the browser hands to the gateway's checkout widget.
type WidgetOptions struct {
	Key         string  `json:"key"`
	Amount      int64   `json:"amount"`
	Currency    string  `json:"currency"`
	OrderID     string  `json:"order_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Prefill     Prefill `json:"prefill"`
	Theme       Theme   `json:"theme"`
}

// Attempt is one run through the checkout state machine.
type Attempt struct {
	PlanID    string         `json:"planId"`
	APIPlanID string         `json:"apiPlanId"`
	PlanName  string         `json:"planName"`
	State     State          `json:"state"`
	OrderID   string         `json:"orderId,omitempty"`
	Widget    *WidgetOptions `json:"widget,omitempty"`
	// Redirect is set when the plan is not sold through the widget.
	Redirect  string    `json:"redirect,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// WidgetResult is how the widget ended: either a signed payment or a dismissal.
type WidgetResult struct {
	Payment   *models.PaymentResult
	Dismissed bool
}

func Completed(p models.PaymentResult) WidgetResult {
	return WidgetResult{Payment: &p}
}

func Dismissed() WidgetResult {
	return WidgetResult{Dismissed: true}
}

package models

// Order is created by the backend for one checkout attempt. Amount is in minor units.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// PaymentResult is the signed payload the checkout widget hands back on success.
type PaymentResult struct {
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

// CompleteSubscriptionRequest is the body of the confirmation endpoint.
type CompleteSubscriptionRequest struct {
	PlanID    string `json:"planId"`
	PaymentID string `json:"razorpay_payment_id"`
	OrderID   string `json:"razorpay_order_id"`
	Signature string `json:"razorpay_signature"`
}

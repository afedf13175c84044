package models

import "time"

// PaymentReconciliation records a checkout where the charge went through but the
// subscription confirmation did not, so support can finish it by hand.
type PaymentReconciliation struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	PlanID        string     `gorm:"type:varchar(50);not null" json:"plan_id"`
	APIPlanID     string     `gorm:"type:varchar(50);not null" json:"api_plan_id"`
	UserID        string     `gorm:"type:varchar(64);index" json:"user_id"`
	UserEmail     string     `gorm:"type:varchar(200)" json:"user_email"`
	PaymentID     string     `gorm:"type:varchar(191);not null;uniqueIndex" json:"payment_id"`
	OrderID       string     `gorm:"type:varchar(191);not null;index" json:"order_id"`
	Signature     string     `gorm:"type:varchar(255)" json:"-"`
	FailureReason string     `gorm:"type:text" json:"failure_reason"`
	Resolved      bool       `gorm:"default:false;index" json:"resolved"`
	ResolvedAt    *time.Time `gorm:"type:timestamp;default:null" json:"resolved_at,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

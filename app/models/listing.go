package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	LISTING_PENDING  = "pending"
	LISTING_APPROVED = "approved"
	LISTING_REJECTED = "rejected"
)

// Listing is one AI tool entry of the directory.
type Listing struct {
	ID              string    `json:"_id,omitempty"`
	Name            string    `json:"name" validate:"required,min=2,max=120"`
	Provider        string    `json:"provider" validate:"required,max=120"`
	Description     string    `json:"description" validate:"required,min=10,max=5000"`
	Category        string    `json:"category" validate:"required"`
	Tags            []string  `json:"tags,omitempty" validate:"max=20,dive,max=40"`
	WebsiteURL      string    `json:"websiteUrl" validate:"required,url"`
	IconURL         string    `json:"iconUrl,omitempty" validate:"omitempty,url"`
	Screenshots     []string  `json:"screenshots,omitempty" validate:"max=5,dive,url"`
	Pricing         string    `json:"pricing,omitempty" validate:"omitempty,oneof=free freemium paid"`
	Status          string    `json:"status,omitempty"`
	RejectionReason string    `json:"rejectionReason,omitempty"`
	Clicks          int       `json:"clicks,omitempty"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
}

func (l *Listing) Validate() error {
	v := validator.New()

	return v.Struct(l)
}

// ListingFilter narrows the public directory listing.
type ListingFilter struct {
	Search   string
	Category string
	Page     int
	Limit    int
}

func IsListingStatus(status string) bool {
	switch status {
	case LISTING_PENDING, LISTING_APPROVED, LISTING_REJECTED:
		return true
	default:
		return false
	}
}

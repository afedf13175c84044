package models

import "strings"

const (
	ROLE_USER  = "user"
	ROLE_ADMIN = "admin"
)

const (
	SubscriptionFree       = "free"
	SubscriptionPro        = "pro"
	SubscriptionEnterprise = "enterprise"
)

// User is the account record returned by the backend and kept in the userData cookie.
type User struct {
	ID                  string `json:"id"`
	FirstName           string `json:"firstName,omitempty"`
	LastName            string `json:"lastName,omitempty"`
	Name                string `json:"name,omitempty"`
	Email               string `json:"email"`
	MobileNumber        string `json:"mobileNumber,omitempty"`
	Role                string `json:"role,omitempty"`
	IsProUser           bool   `json:"isProUser"`
	SubscriptionType    string `json:"subscriptionType,omitempty"`
	SubscriptionStatus  string `json:"subscriptionStatus,omitempty"`
	SubscriptionEndDate string `json:"subscriptionEndDate,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == ROLE_ADMIN
}

// DisplayName prefers the full name, then first/last, then the email.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
		return full
	}
	return u.Email
}

// Clone returns a copy that shares no memory with u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

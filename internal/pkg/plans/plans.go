// Package plans holds the static subscription catalog shown on the pricing page.
package plans

import "strings"

const (
	APIPlanFree       = "free"
	APIPlanPro        = "pro"
	APIPlanEnterprise = "enterprise"
)

type Plan struct {
	ID          string   `json:"id"`
	APIPlanID   string   `json:"apiPlanId"`
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Duration    string   `json:"duration"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Popular     bool     `json:"popular"`
	Badge       string   `json:"badge,omitempty"`
}

var catalog = []Plan{
	{
		ID:          "free",
		APIPlanID:   APIPlanFree,
		Name:        "Free Trial",
		Price:       "₹0",
		Duration:    "14 Days",
		Description: "Perfect for getting started",
		Features:    []string{"Access to all AI tools", "Basic recommendations", "Community support", "No commitment"},
		Badge:       "Try Free",
	},
	{
		ID:          "monthly",
		APIPlanID:   APIPlanPro,
		Name:        "Monthly",
		Price:       "₹49",
		Duration:    "per month",
		Description: "Flexible monthly access",
		Features:    []string{"Full platform access", "Premium recommendations", "Priority support", "Advanced filters"},
	},
	{
		ID:          "six_months",
		APIPlanID:   APIPlanPro,
		Name:        "6 Months",
		Price:       "₹149",
		Duration:    "6 months",
		Description: "Best value for regular users",
		Features:    []string{"Everything in Monthly", "2 months free", "Enhanced AI insights", "Beta feature access"},
		Popular:     true,
		Badge:       "Most Popular",
	},
	{
		ID:          "annual",
		APIPlanID:   APIPlanEnterprise,
		Name:        "Annual",
		Price:       "₹249",
		Duration:    "12 months",
		Description: "Maximum savings",
		Features:    []string{"Everything in 6 months", "5+ months free", "Premium AI coaching", "Priority feature requests"},
		Badge:       "Best Value",
	},
	{
		ID:          "enterprise",
		APIPlanID:   APIPlanEnterprise,
		Name:        "Enterprise",
		Price:       "$99",
		Duration:    "per month",
		Description: "For teams and organizations",
		Features:    []string{"Everything in Pro plan", "Unlimited model uploads", "Custom integrations", "Dedicated account manager"},
		Badge:       "Contact Sales",
	},
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// All returns a copy of the catalog in display order.
func All() []Plan {
	out := make([]Plan, len(catalog))
	for i, p := range catalog {
		p.Features = append([]string(nil), p.Features...)
		out[i] = p
	}
	return out
}

// Lookup finds a plan by its UI id.
func Lookup(id string) (Plan, bool) {
	id = normalize(id)
	for _, p := range catalog {
		if p.ID == id {
			p.Features = append([]string(nil), p.Features...)
			return p, true
		}
	}
	return Plan{}, false
}

// IsEnterprise reports whether the plan is sold through the contact page.
// Only the UI id counts: the priced annual plan also maps onto the
// enterprise backend plan.
func (p Plan) IsEnterprise() bool {
	return p.ID == "enterprise"
}

// IsFree reports whether the plan starts a trial through signup.
func (p Plan) IsFree() bool {
	return p.ID == "free"
}

// Package authgate decides whether a session may open a pro-only route.
package authgate

import (
	"net/url"
	"strings"

	"github.com/sochai/sochai-web/internal/pkg/flash"
	"github.com/sochai/sochai-web/internal/pkg/session"
)

type Outcome string

const (
	Allow           Outcome = "allow"
	RedirectLogin   Outcome = "redirect_login"
	RedirectPricing Outcome = "redirect_pricing"
)

const (
	LoginPath   = "/login"
	PricingPath = "/pricing"
)

type Decision struct {
	Outcome  Outcome       `json:"outcome"`
	Redirect string        `json:"redirect,omitempty"`
	Notice   *flash.Notice `json:"notice,omitempty"`
}

// Evaluate is pure and is re-run on every request to a gated route.
func Evaluate(s session.Session, intended string) Decision {
	if !s.IsAuthenticated {
		return Decision{
			Outcome:  RedirectLogin,
			Redirect: LoginPath + "?from=" + url.QueryEscape(intended),
			Notice: &flash.Notice{
				Level:   flash.LevelError,
				Title:   "Authentication Required",
				Message: "Please log in to upload models.",
			},
		}
	}
	if s.User == nil || !s.User.IsProUser {
		return Decision{
			Outcome:  RedirectPricing,
			Redirect: PricingPath,
			Notice: &flash.Notice{
				Level:   flash.LevelError,
				Title:   "Pro Subscription Required",
				Message: "Upgrade to a pro plan to upload models.",
			},
		}
	}
	return Decision{Outcome: Allow}
}

// SafeDestination returns from when it is a same-site relative path, else "/".
func SafeDestination(from string) string {
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.HasPrefix(from, "/\\") {
		return "/"
	}
	u, err := url.Parse(from)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/"
	}
	return from
}

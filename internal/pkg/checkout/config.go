package checkout

import (
	"strings"

	"github.com/sochai/sochai-web/internal/pkg/env"
)

const defaultScriptURL = "https://checkout.razorpay.com/v1/checkout.js"

type Config struct {
	KeyID        string
	ScriptURL    string
	MerchantName string
	ThemeColor   string
}

func LoadConfig() Config {
	return Config{
		KeyID:        strings.TrimSpace(env.GetEnv("RAZORPAY_KEY_ID", "")),
		ScriptURL:    strings.TrimSpace(env.GetEnv("RAZORPAY_SCRIPT_URL", defaultScriptURL)),
		MerchantName: env.GetEnv("CHECKOUT_MERCHANT_NAME", "Soch AI"),
		ThemeColor:   env.GetEnv("CHECKOUT_THEME_COLOR", "#6366f1"),
	}
}

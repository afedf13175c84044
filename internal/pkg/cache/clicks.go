package cache

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// ClickTTL bounds how long one browser's click on one listing is remembered.
const ClickTTL = 30 * 24 * time.Hour

func clickKey(browserID, listingID string) string {
	return fmt.Sprintf("click:%s:%s", browserID, listingID)
}

// FirstClick reports whether this is the first recorded click from browserID on
// listingID. Errors from redis count as a first click so tracking never blocks a
// visit.
func FirstClick(browserID, listingID string) bool {
	first, err := SetOnce(clickKey(browserID, listingID), 1, ClickTTL)
	if err != nil {
		return true
	}
	return first
}

// ForgetClick drops the dedup entry so a click whose recording failed is
// counted on the next visit.
func ForgetClick(browserID, listingID string) {
	if err := Delete(clickKey(browserID, listingID)); err != nil {
		log.Warnf("[Cache] Could not forget click %s/%s: %v", browserID, listingID, err)
	}
}

// Package broadcast fans session changes out to every open tab of a browser.
//
// Delivery is best effort and eventually consistent: events can be dropped for
// slow subscribers and no ordering is promised between publishers. A tab that
// misses an event catches up on its next request.
package broadcast

import (
	"context"
	"encoding/json"
	"time"
)

type EventKind string

const (
	EventLogin       EventKind = "login"
	EventLogout      EventKind = "logout"
	EventUserUpdated EventKind = "user_updated"
)

type Event struct {
	Kind EventKind `json:"kind"`
	At   time.Time `json:"at"`
}

func NewEvent(kind EventKind) Event {
	return Event{Kind: kind, At: time.Now().UTC()}
}

func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func Unmarshal(b []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(b, &e)
	return e, err
}

// Bus publishes events on named channels.
type Bus interface {
	Publish(ctx context.Context, channel string, ev Event) error
	// Subscribe delivers events until ctx is done or the returned cancel func is called.
	Subscribe(ctx context.Context, channel string) (<-chan Event, func(), error)
}

// SessionChannel is the channel all tabs sharing one browser id listen on.
func SessionChannel(browserID string) string {
	return "session:" + browserID
}

package controllers

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/sochai/sochai-web/internal/pkg/broadcast"
	"github.com/sochai/sochai-web/internal/pkg/usercontext"
)

const keepAliveInterval = 25 * time.Second

type EventsController struct {
	bus broadcast.Bus
}

// HandleSessionEvents streams session changes of this browser to the tab.
// Tabs react to a session.changed event by calling /api/session.
func (e *EventsController) HandleSessionEvents(c *fiber.Ctx) error {
	if e.bus == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	browserID := usercontext.GetBrowserID(c)

	ctx, cancel := context.WithCancel(context.Background())
	events, unsubscribe, err := e.bus.Subscribe(ctx, broadcast.SessionChannel(browserID))
	if err != nil {
		cancel()
		log.Errorf("[Events] Subscribe failed: %v", err)
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer unsubscribe()

		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()

		fmt.Fprint(w, "retry: 3000\n\n")
		if err := w.Flush(); err != nil {
			return
		}
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				raw, err := ev.Marshal()
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: session.changed\ndata: %s\n\n", raw)
			case <-ticker.C:
				fmt.Fprint(w, ": keepalive\n\n")
			}
			if err := w.Flush(); err != nil {
				log.Debugf("[Events] Browser %s disconnected", browserID)
				return
			}
		}
	})
	return nil
}

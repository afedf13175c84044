// Package counter tracks checkout and upload outcomes. Every outcome is exported
// to Prometheus and, when a redis client is set, added to a shared hash so the
// admin view sees totals across instances.
package counter

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const (
	checkoutKey = "checkout:counters:outcomes"
	uploadKey   = "upload:counters:results"
)

type Counters struct {
	rdb      *redis.Client
	checkout *prometheus.CounterVec
	uploads  *prometheus.CounterVec
}

// New registers the collectors with reg. rdb may be nil.
func New(reg prometheus.Registerer, rdb *redis.Client) *Counters {
	c := &Counters{
		rdb: rdb,
		checkout: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sochai",
			Name:      "checkout_outcomes_total",
			Help:      "Checkout attempts by final state.",
		}, []string{"outcome"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sochai",
			Name:      "uploads_total",
			Help:      "Image uploads by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(c.checkout, c.uploads)
	}
	return c
}

func (c *Counters) AddCheckout(outcome string) {
	if c == nil {
		return
	}
	c.checkout.WithLabelValues(outcome).Inc()
	c.incr(checkoutKey, outcome)
}

func (c *Counters) AddUpload(ok bool) {
	if c == nil {
		return
	}
	result := "failed"
	if ok {
		result = "stored"
	}
	c.uploads.WithLabelValues(result).Inc()
	c.incr(uploadKey, result)
}

func (c *Counters) incr(key, field string) {
	if c.rdb == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.rdb.HIncrBy(ctx, key, field, 1).Err(); err != nil {
		log.Debugf("[Counter] HINCRBY %s %s failed: %v", key, field, err)
	}
}

// Snapshot returns the shared totals. Without redis it is empty.
func (c *Counters) Snapshot(ctx context.Context) (map[string]map[string]int64, error) {
	out := map[string]map[string]int64{"checkout": {}, "uploads": {}}
	if c == nil || c.rdb == nil {
		return out, nil
	}
	for name, key := range map[string]string{"checkout": checkoutKey, "uploads": uploadKey} {
		data, err := c.rdb.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, err
		}
		for field, v := range data {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				continue
			}
			out[name][field] = n
		}
	}
	return out, nil
}

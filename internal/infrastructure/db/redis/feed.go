package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cargotrail/custody-ledger/internal/core/domain"
)

// DefaultStream is the Redis Stream key the notification feed is published
// to when no override is configured.
const DefaultStream = "ledger:notifications"

// subscribeBlock bounds each XREAD call so Subscribe notices context
// cancellation promptly.
const subscribeBlock = 5 * time.Second

// Feed pushes committed ledger notifications onto a Redis Stream so external
// observers can tail the feed reactively. Entries within one stream preserve
// append order, which matches per-shipment mutation order because the
// mutation scheduler serializes writers.
type Feed struct {
	client *redis.Client
	stream string
}

// NewFeed creates a Feed on the given stream key. An empty key selects
// DefaultStream.
func NewFeed(client *redis.Client, stream string) *Feed {
	if stream == "" {
		stream = DefaultStream
	}
	return &Feed{client: client, stream: stream}
}

// Publish appends one notification to the stream.
func (f *Feed) Publish(ctx context.Context, n *domain.Notification) error {
	values := map[string]interface{}{
		"shipment_id": strconv.FormatUint(n.ShipmentID, 10),
		"sequence":    strconv.FormatUint(n.Sequence, 10),
		"kind":        string(n.Kind),
		"emitted_at":  n.EmittedAt.UTC().Format(time.RFC3339Nano),
	}
	if n.Status != "" {
		values["status"] = string(n.Status)
	}
	if n.Station != "" {
		values["station"] = n.Station
	}
	if n.Quantity != 0 {
		values["quantity"] = strconv.FormatUint(n.Quantity, 10)
	}
	if n.Reason != "" {
		values["reason"] = n.Reason
	}

	err := f.client.XAdd(ctx, &redis.XAddArgs{
		Stream: f.stream,
		Values: values,
	}).Err()
	if err != nil {
		return fmt.Errorf("feed publish: %w", err)
	}
	return nil
}

// Subscribe tails the stream from its current tip, sending decoded entries
// to the returned channel until ctx is cancelled. The channel is closed on
// return; undecodable entries are skipped.
func (f *Feed) Subscribe(ctx context.Context) <-chan domain.Notification {
	out := make(chan domain.Notification)

	go func() {
		defer close(out)
		lastID := "$"
		for {
			if ctx.Err() != nil {
				return
			}

			streams, err := f.client.XRead(ctx, &redis.XReadArgs{
				Streams: []string{f.stream, lastID},
				Block:   subscribeBlock,
			}).Result()
			if err != nil {
				if err == redis.Nil {
					continue // block timed out, poll again
				}
				if ctx.Err() != nil {
					return
				}
				continue
			}

			for _, stream := range streams {
				for _, msg := range stream.Messages {
					lastID = msg.ID
					n, ok := decodeNotification(msg.Values)
					if !ok {
						continue
					}
					select {
					case out <- n:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return out
}

func decodeNotification(values map[string]interface{}) (domain.Notification, bool) {
	var n domain.Notification

	id, ok := parseUintField(values, "shipment_id")
	if !ok {
		return n, false
	}
	seq, ok := parseUintField(values, "sequence")
	if !ok {
		return n, false
	}
	kind, _ := values["kind"].(string)
	if kind == "" {
		return n, false
	}

	n.ShipmentID = id
	n.Sequence = seq
	n.Kind = domain.NotificationKind(kind)

	if s, _ := values["status"].(string); s != "" {
		n.Status = domain.Status(s)
	}
	n.Station, _ = values["station"].(string)
	n.Reason, _ = values["reason"].(string)
	if q, ok := parseUintField(values, "quantity"); ok {
		n.Quantity = q
	}
	if ts, _ := values["emitted_at"].(string); ts != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			n.EmittedAt = parsed
		}
	}
	return n, true
}

func parseUintField(values map[string]interface{}, key string) (uint64, bool) {
	s, _ := values[key].(string)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

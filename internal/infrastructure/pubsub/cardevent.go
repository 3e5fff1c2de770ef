package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"cardwallet/internal/shared/logger"
)

// CardImage is the snapshot of a card's notification-relevant fields taken
// before and after a write. The trigger compares the two to decide whether
// a change is worth a push.
type CardImage struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Balance         float64 `json:"balance"`
	StampCount      int     `json:"stamp_count"`
	DiscountTier    string  `json:"discount_tier"`
	PushToken       string  `json:"push_token,omitempty"`
	DeviceLibraryID string  `json:"device_library_id,omitempty"`
}

// Monitored reports whether the two images differ in any field that should
// trigger a pass refresh.
func (i CardImage) Monitored(other CardImage) bool {
	return i.Name != other.Name ||
		i.Email != other.Email ||
		i.Balance != other.Balance ||
		i.StampCount != other.StampCount ||
		i.DiscountTier != other.DiscountTier
}

// CardChangeEvent is published on every card write and consumed by the
// notification worker.
type CardChangeEvent struct {
	CardID       string    `json:"card_id"`
	TenantID     string    `json:"tenant_id"`
	SerialNumber string    `json:"serial_number"`
	Created      bool      `json:"created"`
	Before       CardImage `json:"before"`
	After        CardImage `json:"after"`
	Timestamp    int64     `json:"timestamp"`
}

// CardEventHandler is a callback for handling card change events.
type CardEventHandler func(ctx context.Context, event CardChangeEvent)

// CardEventPublisher publishes card change events.
type CardEventPublisher interface {
	PublishChange(ctx context.Context, event CardChangeEvent) error
}

// CardEventSubscriber consumes card change events.
type CardEventSubscriber interface {
	Subscribe(ctx context.Context, handler CardEventHandler) error
}

const cardChangeChannel = "cardwallet:card:change"

// RedisCardEventBus implements both CardEventPublisher and
// CardEventSubscriber over Redis Pub/Sub. Delivery is fire-and-forget: a
// missed notification is corrected by the next poll, not re-queued.
type RedisCardEventBus struct {
	client *redis.Client
	logger logger.Interface
}

func NewRedisCardEventBus(client *redis.Client, logger logger.Interface) *RedisCardEventBus {
	return &RedisCardEventBus{
		client: client,
		logger: logger,
	}
}

func (b *RedisCardEventBus) PublishChange(ctx context.Context, event CardChangeEvent) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, cardChangeChannel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish card change event",
			"card_id", event.CardID,
			"tenant_id", event.TenantID,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debugw("card change event published",
		"card_id", event.CardID,
		"tenant_id", event.TenantID,
	)
	return nil
}

// Subscribe blocks consuming card change events until ctx is done.
func (b *RedisCardEventBus) Subscribe(ctx context.Context, handler CardEventHandler) error {
	pubsub := b.client.Subscribe(ctx, cardChangeChannel)
	defer pubsub.Close()

	// Wait for subscription confirmation
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	b.logger.Infow("subscribed to card change events",
		"channel", cardChangeChannel,
	)

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("card event subscriber stopped",
				"reason", ctx.Err(),
			)
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("card event channel closed")
				return nil
			}

			var event CardChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warnw("failed to unmarshal card change event",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}

			// Handle in a background goroutine so a slow push does not
			// block the event loop.
			go handler(context.Background(), event)
		}
	}
}

package cart

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bodegonapp/bodegon-backend/pkg/enums"
	"github.com/bodegonapp/bodegon-backend/pkg/logger"
	"github.com/bodegonapp/bodegon-backend/pkg/redis"
)

// CartEvent announces a cart row change on the user's channel. It carries
// no row data; consumers answer every event with a full reload. Version
// increases monotonically per user so consumers can drop reordered or
// duplicated deliveries.
type CartEvent struct {
	UserID     uuid.UUID           `json:"user_id"`
	Type       enums.CartEventType `json:"type"`
	LineID     uuid.UUID           `json:"line_id"`
	Version    uint64              `json:"version"`
	Origin     string              `json:"origin"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// changeFeed is the transport for cart change notifications.
type changeFeed interface {
	Publish(ctx context.Context, event CartEvent) error
	Subscribe(ctx context.Context, userID uuid.UUID) (<-chan CartEvent, func(), error)
}

// redisFeed runs the change feed over one Redis pub/sub channel per user.
type redisFeed struct {
	client *redis.Client
	logg   *logger.Logger
}

// NewRedisFeed wraps the Redis client as a cart change feed.
func NewRedisFeed(client *redis.Client, logg *logger.Logger) *redisFeed {
	return &redisFeed{client: client, logg: logg}
}

func (f *redisFeed) Publish(ctx context.Context, event CartEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, redis.CartChannel(event.UserID.String()), payload)
}

// Subscribe opens the user's channel and decodes events onto the returned
// channel until the cancel func is called. Undecodable payloads are logged
// and skipped.
func (f *redisFeed) Subscribe(ctx context.Context, userID uuid.UUID) (<-chan CartEvent, func(), error) {
	sub := f.client.Subscribe(ctx, redis.CartChannel(userID.String()))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, err
	}

	events := make(chan CartEvent, 16)
	done := make(chan struct{})

	go func() {
		defer close(events)
		messages := sub.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var event CartEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					if f.logg != nil {
						f.logg.Warn(ctx, "dropping undecodable cart event")
					}
					continue
				}
				select {
				case events <- event:
				case <-done:
					return
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = sub.Close()
		})
	}
	return events, cancel, nil
}

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher appends account lifecycle events to the AccountEventsStream
// Redis stream. Each entry carries the event JSON plus its type and account
// id as plain fields, so consumers can filter without decoding.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) PublishAccountEvent(ctx context.Context, eventType string, accountID int64, data any) error {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	args := &redis.XAddArgs{
		Stream: AccountEventsStream,
		Values: map[string]any{
			"type":       eventType,
			"account_id": strconv.FormatInt(accountID, 10),
			"event":      eventJSON,
		},
	}

	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish %s event for account %d: %w", eventType, accountID, err)
	}

	return nil
}

// NopPublisher discards every event. It is used when no Redis address is
// configured.
type NopPublisher struct{}

func (NopPublisher) PublishAccountEvent(context.Context, string, int64, any) error { return nil }

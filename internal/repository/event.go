package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-api/internal/entity"
)

const (
	EventsChannel = "tictactoe:events"
	HistoryKey    = "tictactoe:history"
)

var ErrInvalidLimit = errors.New("history limit must be positive")

type EventRepository interface {
	Publish(ctx context.Context, event *entity.Event) error
	History(ctx context.Context, limit int64) ([]*entity.Event, error)
}

type dbEvent struct {
	client      *redis.Client
	historySize int64
}

// NewEventRepository - events go to the pub/sub channel and to a history list capped at historySize.
func NewEventRepository(client *redis.Client, historySize int64) EventRepository {
	return &dbEvent{
		client:      client,
		historySize: historySize,
	}
}

func (that *dbEvent) Publish(ctx context.Context, event *entity.Event) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal event: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, HistoryKey, eventJSON)
		pipe.LTrim(ctx, HistoryKey, 0, that.historySize-1)
		pipe.Publish(ctx, EventsChannel, eventJSON)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// History - newest events first.
func (that *dbEvent) History(ctx context.Context, limit int64) ([]*entity.Event, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	response, err := that.client.LRange(ctx, HistoryKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	events := make([]*entity.Event, 0, len(response))
	for _, raw := range response {
		var event entity.Event
		if err = json.Unmarshal([]byte(raw), &event); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event: %w", err)
		}

		events = append(events, &event)
	}

	return events, nil
}

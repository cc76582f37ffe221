package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SscSPs/money_swap_app/internal/core/domain"
	portssvc "github.com/SscSPs/money_swap_app/internal/core/ports/services"
	"github.com/redis/go-redis/v9"
)

const DefaultRedisChannel = "wallet.transfers"

// RedisPublishClient is the subset of *redis.Client the publisher needs.
type RedisPublishClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisPublisher publishes each record as a JSON message on a pub/sub channel.
type RedisPublisher struct {
	client  RedisPublishClient
	channel string
}

var _ portssvc.TransferEventPublisher = (*RedisPublisher)(nil)

func NewRedisPublisher(client RedisPublishClient, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

// PublishTransfers attempts every record and joins the failures.
func (p *RedisPublisher) PublishTransfers(ctx context.Context, records []domain.TransferRecord) error {
	var errs []error
	for _, r := range records {
		payload, err := json.Marshal(NewTransferEvent(r))
		if err != nil {
			errs = append(errs, fmt.Errorf("marshal transfer %s: %w", r.TransferID, err))
			continue
		}
		if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
			errs = append(errs, fmt.Errorf("publish transfer %s: %w", r.TransferID, err))
		}
	}
	return errors.Join(errs...)
}

// Close is a no-op: the Redis client is owned by the caller.
func (p *RedisPublisher) Close() error { return nil }

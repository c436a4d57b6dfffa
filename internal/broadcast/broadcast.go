// Package broadcast pushes recomputed rankings to the observers of an
// auction. The transport is a per-auction publish/subscribe channel; room
// join and disconnect lifecycle belong to the subscribing side and are not
// handled here.
package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	model "reverse-auction/internal/models"

	"github.com/redis/go-redis/v9"
)

// RankingUpdate is the event payload published on every successful bid write
type RankingUpdate struct {
	AuctionID string          `json:"auctionId"`
	Rankings  []model.Ranking `json:"rankings"`
}

// Publisher pushes a ranking update to all observers of one auction.
// Implementations must be safe for concurrent use. Publishing is
// best-effort: callers log failures and never let them fail the request.
type Publisher interface {
	PublishRankingUpdate(ctx context.Context, auctionID string, rankings []model.Ranking) error
}

// ChannelKey names the pub/sub channel for one auction
func ChannelKey(prefix, auctionID string) string {
	return fmt.Sprintf("%s:%s:rankings", prefix, auctionID)
}

// RedisPublisher publishes ranking updates over Redis PUB/SUB
type RedisPublisher struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// NewRedisPublisher creates a publisher on an existing Redis client
func NewRedisPublisher(client *redis.Client, prefix string) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		prefix:  prefix,
		timeout: 2 * time.Second,
	}
}

// PublishRankingUpdate publishes {auctionId, rankings} to the auction's
// channel. The write runs under its own short deadline, detached from the
// request context, so a slow broker cannot stall the caller's response.
func (p *RedisPublisher) PublishRankingUpdate(ctx context.Context, auctionID string, rankings []model.Ranking) error {
	payload, err := json.Marshal(RankingUpdate{AuctionID: auctionID, Rankings: rankings})
	if err != nil {
		return fmt.Errorf("marshal ranking update for auction %s: %w", auctionID, err)
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.client.Publish(pubCtx, ChannelKey(p.prefix, auctionID), payload).Err(); err != nil {
		return fmt.Errorf("publish ranking update for auction %s: %w", auctionID, err)
	}
	return nil
}

// NopPublisher discards all updates. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishRankingUpdate(context.Context, string, []model.Ranking) error {
	return nil
}

package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/buildingops/maintenance-service/internal/domain"
)

const (
	ticketKeyPrefix = "ticket:"
	statsKeyPrefix  = "stats:"
)

// TicketCache is an explicit read-through cache for tickets and dashboard
// statistics. Every mutating lifecycle operation must call InvalidateTicket
// and InvalidateStats; there is no implicit interception. Cache failures are
// logged and treated as misses, never surfaced to callers.
type TicketCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewTicketCache builds a cache. A nil client disables caching entirely.
func NewTicketCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *TicketCache {
	return &TicketCache{client: client, ttl: ttl, logger: logger}
}

// GetTicket returns the cached ticket or nil on a miss.
func (c *TicketCache) GetTicket(ctx context.Context, id string) *domain.Ticket {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, ticketKeyPrefix+id).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("ticket cache read failed", zap.Error(err))
		}
		return nil
	}
	var ticket domain.Ticket
	if err := json.Unmarshal(raw, &ticket); err != nil {
		return nil
	}
	return &ticket
}

// SetTicket stores a ticket under its id.
func (c *TicketCache) SetTicket(ctx context.Context, ticket *domain.Ticket) {
	if c == nil || c.client == nil || ticket == nil {
		return
	}
	raw, err := json.Marshal(ticket)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, ticketKeyPrefix+ticket.ID, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("ticket cache write failed", zap.Error(err))
	}
}

// InvalidateTicket drops a single cached ticket.
func (c *TicketCache) InvalidateTicket(ctx context.Context, id string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, ticketKeyPrefix+id).Err(); err != nil {
		c.logger.Debug("ticket cache invalidate failed", zap.Error(err))
	}
}

// GetStats loads a cached aggregation into dest, reporting whether it hit.
func (c *TicketCache) GetStats(ctx context.Context, name string, dest any) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, statsKeyPrefix+name).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("stats cache read failed", zap.Error(err))
		}
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// SetStats stores an aggregation result under name.
func (c *TicketCache) SetStats(ctx context.Context, name string, value any) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, statsKeyPrefix+name, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("stats cache write failed", zap.Error(err))
	}
}

// InvalidateStats drops every cached aggregation. Called after any ticket
// mutation so dashboards never serve stale totals past one write.
func (c *TicketCache) InvalidateStats(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, statsKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Debug("stats cache invalidate failed", zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Debug("stats cache scan failed", zap.Error(err))
	}
}

package hotstore

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	statsFieldTotal = "total_engagements"
	statsFieldHits  = "successful_hits"
)

// IncrementEngagements bumps the per-drone engagement counters in one
// transaction and returns the post-increment totals. On a miss the hit
// counter is read rather than incremented so both values come back from
// the same round trip.
func (c *Client) IncrementEngagements(ctx context.Context, droneID string, hit bool) (total, hits int64, err error) {
	key := EngagementStatsKey(droneID)
	pipe := c.rdb.TxPipeline()
	totalCmd := pipe.HIncrBy(ctx, key, statsFieldTotal, 1)

	var hitsIncrCmd *redis.IntCmd
	var hitsGetCmd *redis.StringCmd
	if hit {
		hitsIncrCmd = pipe.HIncrBy(ctx, key, statsFieldHits, 1)
	} else {
		hitsGetCmd = pipe.HGet(ctx, key, statsFieldHits)
	}
	pipe.Expire(ctx, key, c.ttl.EngagementStats)

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return 0, 0, wrapErr("hincrby", key, err)
	}

	total = totalCmd.Val()
	if hit {
		hits = hitsIncrCmd.Val()
	} else if v, err := hitsGetCmd.Int64(); err == nil {
		hits = v
	}
	return total, hits, nil
}

// GetEngagementCounters reads the cached counters. An absent key
// returns found=false.
func (c *Client) GetEngagementCounters(ctx context.Context, droneID string) (total, hits int64, found bool, err error) {
	key := EngagementStatsKey(droneID)
	fields, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return 0, 0, false, wrapErr("hgetall", key, err)
	}
	if len(fields) == 0 {
		return 0, 0, false, nil
	}
	total, _ = strconv.ParseInt(fields[statsFieldTotal], 10, 64)
	hits, _ = strconv.ParseInt(fields[statsFieldHits], 10, 64)
	return total, hits, true, nil
}

// SetEngagementCounters seeds the counter hash, used when warming the
// cache from the authoritative cold tier.
func (c *Client) SetEngagementCounters(ctx context.Context, droneID string, total, hits int64) error {
	key := EngagementStatsKey(droneID)
	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, key, statsFieldTotal, total, statsFieldHits, hits)
	pipe.Expire(ctx, key, c.ttl.EngagementStats)
	if _, err := pipe.Exec(ctx); err != nil {
		return wrapErr("hset", key, err)
	}
	return nil
}

package hotstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RankedMember is one sorted-set entry read back in rank order.
type RankedMember struct {
	DroneID string
	Score   float64
	Rank    int
}

// GetRanking returns up to limit members ordered by score descending.
// Ranks are assigned 1..N from the returned window. An absent key
// returns an empty slice, which callers treat as a cache miss.
func (c *Client) GetRanking(ctx context.Context, convoyID string, limit int64) ([]RankedMember, error) {
	key := LeaderboardKey(convoyID)
	stop := limit - 1
	if limit <= 0 {
		stop = -1
	}
	zs, err := c.rdb.ZRevRangeWithScores(ctx, key, 0, stop).Result()
	if err != nil {
		return nil, wrapErr("zrevrange", key, err)
	}

	members := make([]RankedMember, 0, len(zs))
	for i, z := range zs {
		id, ok := z.Member.(string)
		if !ok {
			continue
		}
		members = append(members, RankedMember{DroneID: id, Score: z.Score, Rank: i + 1})
	}
	return members, nil
}

// RankOf returns the 1-based descending rank of a member, or nil when
// the member or the set is absent.
func (c *Client) RankOf(ctx context.Context, convoyID, droneID string) (*int, error) {
	key := LeaderboardKey(convoyID)
	idx, err := c.rdb.ZRevRank(ctx, key, droneID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("zrevrank", key, err)
	}
	rank := int(idx) + 1
	return &rank, nil
}

// UpdateRankScore upserts a member score and refreshes the set expiry.
func (c *Client) UpdateRankScore(ctx context.Context, convoyID, droneID string, score float64) error {
	key := LeaderboardKey(convoyID)
	pipe := c.rdb.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: score, Member: droneID})
	pipe.Expire(ctx, key, c.ttl.Leaderboard)
	if _, err := pipe.Exec(ctx); err != nil {
		return wrapErr("zadd", key, err)
	}
	return nil
}

// RemoveRank drops a member from the ranking set.
func (c *Client) RemoveRank(ctx context.Context, convoyID, droneID string) error {
	key := LeaderboardKey(convoyID)
	if err := c.rdb.ZRem(ctx, key, droneID).Err(); err != nil {
		return wrapErr("zrem", key, err)
	}
	return nil
}

// RankingSize returns the member count of the convoy ranking set.
func (c *Client) RankingSize(ctx context.Context, convoyID string) (int64, error) {
	key := LeaderboardKey(convoyID)
	n, err := c.rdb.ZCard(ctx, key).Result()
	if err != nil {
		return 0, wrapErr("zcard", key, err)
	}
	return n, nil
}

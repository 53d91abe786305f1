package hotstore

import (
	"context"
	"sort"
)

// AddToRoster registers drones under a convoy roster set and refreshes
// the set expiry.
func (c *Client) AddToRoster(ctx context.Context, convoyID string, droneIDs ...string) error {
	if len(droneIDs) == 0 {
		return nil
	}
	key := RosterKey(convoyID)
	members := make([]interface{}, len(droneIDs))
	for i, id := range droneIDs {
		members[i] = id
	}
	pipe := c.rdb.TxPipeline()
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, c.ttl.ConvoyRoster)
	if _, err := pipe.Exec(ctx); err != nil {
		return wrapErr("sadd", key, err)
	}
	return nil
}

// GetRoster returns the roster membership sorted for deterministic
// iteration. An absent key returns an empty slice.
func (c *Client) GetRoster(ctx context.Context, convoyID string) ([]string, error) {
	key := RosterKey(convoyID)
	members, err := c.rdb.SMembers(ctx, key).Result()
	if err != nil {
		return nil, wrapErr("smembers", key, err)
	}
	sort.Strings(members)
	return members, nil
}

// RemoveFromRoster drops a drone from the convoy roster.
func (c *Client) RemoveFromRoster(ctx context.Context, convoyID, droneID string) error {
	key := RosterKey(convoyID)
	if err := c.rdb.SRem(ctx, key, droneID).Err(); err != nil {
		return wrapErr("srem", key, err)
	}
	return nil
}

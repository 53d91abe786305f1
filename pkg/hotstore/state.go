package hotstore

import (
	"context"
	"strconv"
)

// Hash field names for drone:state:{id}. Values are strings; numeric
// fields are formatted with strconv so partial updates stay cheap.
const (
	stateFieldStatus    = "status"
	stateFieldFuelPct   = "fuel_pct"
	stateFieldLatitude  = "latitude"
	stateFieldLongitude = "longitude"
	stateFieldUpdatedAt = "updated_at"
)

// DroneState is the hot projection of an asset's mutable fields.
type DroneState struct {
	Status    string
	FuelPct   float64
	Latitude  float64
	Longitude float64
	UpdatedAt string
}

// GetDroneState reads the state hash. An absent key returns (nil, nil).
func (c *Client) GetDroneState(ctx context.Context, droneID string) (*DroneState, error) {
	key := DroneStateKey(droneID)
	fields, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, wrapErr("hgetall", key, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	state := &DroneState{
		Status:    fields[stateFieldStatus],
		UpdatedAt: fields[stateFieldUpdatedAt],
	}
	state.FuelPct, _ = strconv.ParseFloat(fields[stateFieldFuelPct], 64)
	state.Latitude, _ = strconv.ParseFloat(fields[stateFieldLatitude], 64)
	state.Longitude, _ = strconv.ParseFloat(fields[stateFieldLongitude], 64)
	return state, nil
}

// SetDroneState writes the full state hash and refreshes its expiry.
func (c *Client) SetDroneState(ctx context.Context, droneID string, state DroneState) error {
	key := DroneStateKey(droneID)
	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, key,
		stateFieldStatus, state.Status,
		stateFieldFuelPct, strconv.FormatFloat(state.FuelPct, 'f', -1, 64),
		stateFieldLatitude, strconv.FormatFloat(state.Latitude, 'f', -1, 64),
		stateFieldLongitude, strconv.FormatFloat(state.Longitude, 'f', -1, 64),
		stateFieldUpdatedAt, state.UpdatedAt,
	)
	pipe.Expire(ctx, key, c.ttl.DroneState)
	if _, err := pipe.Exec(ctx); err != nil {
		return wrapErr("hset", key, err)
	}
	return nil
}

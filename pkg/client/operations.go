package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/picogrid/convoy-tracker/pkg/models"
)

// inputVars wraps a typed input struct as the single "input" variable.
func inputVars(input interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode input: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to encode input: %w", err)
	}
	return map[string]interface{}{"input": m}, nil
}

// RecordEngagement posts a fast-path engagement outcome.
func (c *Client) RecordEngagement(ctx context.Context, input models.RecordEngagementInput) (*models.RecordEngagementResult, error) {
	vars, err := inputVars(input)
	if err != nil {
		return nil, err
	}
	var result models.RecordEngagementResult
	query := `mutation RecordEngagement($input: RecordEngagementInput!) { recordEngagement(input: $input) { success new_rank new_accuracy_pct } }`
	if err := c.Execute(ctx, "recordEngagement", query, vars, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateEngagement persists a full engagement record.
func (c *Client) CreateEngagement(ctx context.Context, input models.CreateEngagementInput) (*models.EngagementView, error) {
	vars, err := inputVars(input)
	if err != nil {
		return nil, err
	}
	var result models.EngagementView
	query := `mutation CreateEngagement($input: CreateEngagementInput!) { createEngagement(input: $input) { engagement_id hit } }`
	if err := c.Execute(ctx, "createEngagement", query, vars, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateConvoy registers a mission grouping.
func (c *Client) CreateConvoy(ctx context.Context, input models.CreateConvoyInput) (*models.ConvoyView, error) {
	vars, err := inputVars(input)
	if err != nil {
		return nil, err
	}
	var result models.ConvoyView
	query := `mutation CreateConvoy($input: CreateConvoyInput!) { createConvoy(input: $input) { convoy_id status } }`
	if err := c.Execute(ctx, "createConvoy", query, vars, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateConvoyStatus advances the convoy mission lifecycle.
func (c *Client) UpdateConvoyStatus(ctx context.Context, input models.UpdateConvoyStatusInput) (*models.ConvoyView, error) {
	vars, err := inputVars(input)
	if err != nil {
		return nil, err
	}
	var result models.ConvoyView
	query := `mutation UpdateConvoyStatus($input: UpdateConvoyStatusInput!) { updateConvoyStatus(input: $input) { convoy_id status } }`
	if err := c.Execute(ctx, "updateConvoyStatus", query, vars, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateAsset registers an asset on a convoy roster.
func (c *Client) CreateAsset(ctx context.Context, input models.CreateAssetInput) (*models.AssetView, error) {
	vars, err := inputVars(input)
	if err != nil {
		return nil, err
	}
	var result models.AssetView
	query := `mutation CreateAsset($input: CreateAssetInput!) { createAsset(input: $input) { drone_id callsign status } }`
	if err := c.Execute(ctx, "createAsset", query, vars, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateWaypoints installs the full mission route for one asset.
func (c *Client) CreateWaypoints(ctx context.Context, input models.CreateWaypointsInput) ([]models.WaypointView, error) {
	vars, err := inputVars(input)
	if err != nil {
		return nil, err
	}
	var result []models.WaypointView
	query := `mutation CreateWaypoints($input: CreateWaypointsInput!) { createWaypoints(input: $input) { waypoint_id sequence_number } }`
	if err := c.Execute(ctx, "createWaypoints", query, vars, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateAssetState merges a partial state change into an asset.
func (c *Client) UpdateAssetState(ctx context.Context, input models.UpdateAssetStateInput) (*models.AssetView, error) {
	vars, err := inputVars(input)
	if err != nil {
		return nil, err
	}
	var result models.AssetView
	query := `mutation UpdateAssetState($input: UpdateAssetStateInput!) { updateAssetState(input: $input) { drone_id status fuel_remaining_pct } }`
	if err := c.Execute(ctx, "updateAssetState", query, vars, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RecordTelemetry posts one time-series sample.
func (c *Client) RecordTelemetry(ctx context.Context, input models.RecordTelemetryInput) error {
	vars, err := inputVars(input)
	if err != nil {
		return err
	}
	query := `mutation RecordTelemetry($input: RecordTelemetryInput!) { recordTelemetry(input: $input) { drone_id } }`
	return c.Execute(ctx, "recordTelemetry", query, vars, nil)
}

// GetRanking fetches the convoy leaderboard.
func (c *Client) GetRanking(ctx context.Context, convoyID string, limit int) (*models.RankingPage, error) {
	var result models.RankingPage
	query := `query Ranking($convoy_id: ID!, $limit: Int) { ranking(convoy_id: $convoy_id, limit: $limit) { entries } }`
	vars := map[string]interface{}{"convoy_id": convoyID, "limit": limit}
	if err := c.Execute(ctx, "ranking", query, vars, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

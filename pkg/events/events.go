// Package events is the in-process pub/sub fabric. Mutation side
// effects publish here; live subscriptions drain from here. One topic
// per event kind.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/picogrid/convoy-tracker/pkg/domain"
)

// RankChangeType labels how a ranking update moved an entry.
type RankChangeType string

const (
	RankUp      RankChangeType = "RANK_UP"
	RankDown    RankChangeType = "RANK_DOWN"
	NewEntry    RankChangeType = "NEW_ENTRY"
	ScoreUpdate RankChangeType = "SCORE_UPDATE"
	NoChange    RankChangeType = "NO_CHANGE"
)

// EngagementEvent is published once per recorded engagement.
type EngagementEvent struct {
	ConvoyID       uuid.UUID         `json:"convoy_id"`
	DroneID        uuid.UUID         `json:"drone_id"`
	Callsign       string            `json:"callsign"`
	Hit            bool              `json:"hit"`
	WeaponType     domain.WeaponType `json:"weapon_type"`
	NewAccuracyPct float64           `json:"new_accuracy_pct"`
	Timestamp      time.Time         `json:"timestamp"`
}

// RankingUpdateEvent is published once per ranking score change.
type RankingUpdateEvent struct {
	ConvoyID    uuid.UUID      `json:"convoy_id"`
	DroneID     uuid.UUID      `json:"drone_id"`
	Callsign    string         `json:"callsign"`
	NewRank     int            `json:"new_rank"`
	OldRank     *int           `json:"old_rank,omitempty"`
	AccuracyPct float64        `json:"accuracy_pct"`
	ChangeType  RankChangeType `json:"change_type"`
	Timestamp   time.Time      `json:"timestamp"`
}

// AssetStatusEvent is published when an asset's lifecycle status moves.
type AssetStatusEvent struct {
	ConvoyID  uuid.UUID          `json:"convoy_id"`
	DroneID   uuid.UUID          `json:"drone_id"`
	Callsign  string             `json:"callsign"`
	OldStatus domain.DroneStatus `json:"old_status"`
	NewStatus domain.DroneStatus `json:"new_status"`
	Timestamp time.Time          `json:"timestamp"`
}

// AlertEvent carries operational alerts such as low fuel or lost link.
type AlertEvent struct {
	AlertID   uuid.UUID            `json:"alert_id"`
	ConvoyID  uuid.UUID            `json:"convoy_id"`
	DroneID   *uuid.UUID           `json:"drone_id,omitempty"`
	Severity  domain.AlertSeverity `json:"severity"`
	AlertType string               `json:"alert_type"`
	Message   string               `json:"message"`
	Timestamp time.Time            `json:"timestamp"`
}

package hotstore

import "time"

// TTLConfig sets the expiry per key namespace. Everything in the hot
// tier is ephemeral; a dropped key is repopulated from the cold tier on
// the next read.
type TTLConfig struct {
	Telemetry       time.Duration
	DroneState      time.Duration
	Leaderboard     time.Duration
	ConvoySummary   time.Duration
	EngagementStats time.Duration
	ConvoyRoster    time.Duration
}

// DefaultTTLConfig returns the documented namespace defaults.
func DefaultTTLConfig() TTLConfig {
	return TTLConfig{
		Telemetry:       10 * time.Second,
		DroneState:      60 * time.Second,
		Leaderboard:     300 * time.Second,
		ConvoySummary:   120 * time.Second,
		EngagementStats: 300 * time.Second,
		ConvoyRoster:    3600 * time.Second,
	}
}

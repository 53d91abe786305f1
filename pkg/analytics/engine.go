// Package analytics is the embedded OLAP tier: an in-process columnar
// engine holding the engagement history, a fixed query set over it, and
// report rendering. The engine owns its own file when persistent and
// runs memory-only otherwise.
package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"
)

// EngagementRecord is one row of the engagements fact table.
type EngagementRecord struct {
	EngagementID uuid.UUID `json:"engagement_id"`
	ConvoyID     uuid.UUID `json:"convoy_id"`
	DroneID      uuid.UUID `json:"drone_id"`
	Callsign     string    `json:"callsign"`
	PlatformType string    `json:"platform_type"`
	Hit          bool      `json:"hit"`
	WeaponType   string    `json:"weapon_type"`
	TargetType   *string   `json:"target_type,omitempty"`
	RangeKM      *float64  `json:"range_km,omitempty"`
	AltitudeM    *float64  `json:"altitude_m,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS engagements (
    engagement_id VARCHAR PRIMARY KEY,
    convoy_id VARCHAR NOT NULL,
    drone_id VARCHAR NOT NULL,
    callsign VARCHAR NOT NULL,
    platform_type VARCHAR NOT NULL,
    hit BOOLEAN NOT NULL,
    weapon_type VARCHAR NOT NULL,
    target_type VARCHAR,
    range_km DOUBLE,
    altitude_m DOUBLE,
    timestamp TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS drone_performance (
    drone_id VARCHAR PRIMARY KEY,
    callsign VARCHAR NOT NULL,
    platform_type VARCHAR NOT NULL,
    total_engagements INTEGER DEFAULT 0,
    total_hits INTEGER DEFAULT 0,
    accuracy_pct DOUBLE DEFAULT 0.0,
    best_streak INTEGER DEFAULT 0,
    total_flight_hours DOUBLE DEFAULT 0.0,
    first_engagement TIMESTAMP,
    last_engagement TIMESTAMP
);

CREATE TABLE IF NOT EXISTS mission_summaries (
    convoy_id VARCHAR PRIMARY KEY,
    callsign VARCHAR NOT NULL,
    mission_type VARCHAR NOT NULL,
    start_time TIMESTAMP NOT NULL,
    end_time TIMESTAMP,
    drone_count INTEGER NOT NULL,
    total_engagements INTEGER DEFAULT 0,
    total_hits INTEGER DEFAULT 0,
    avg_accuracy_pct DOUBLE DEFAULT 0.0
);

CREATE INDEX IF NOT EXISTS idx_engagements_convoy ON engagements(convoy_id);
CREATE INDEX IF NOT EXISTS idx_engagements_drone ON engagements(drone_id);
CREATE INDEX IF NOT EXISTS idx_engagements_timestamp ON engagements(timestamp);
CREATE INDEX IF NOT EXISTS idx_engagements_weapon ON engagements(weapon_type);
`

// Engine is the columnar analytics store. Safe for concurrent use; the
// underlying pool serializes statements as needed.
type Engine struct {
	db  *sql.DB
	log *zap.Logger
}

// New opens the engine at the given path. An empty path opens a
// memory-only engine.
func New(path string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open analytics store: %w", err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize analytics schema: %w", err)
	}
	return &Engine{db: db, log: log.Named("analytics")}, nil
}

// Close releases the engine.
func (e *Engine) Close() error {
	return e.db.Close()
}

// Ingest inserts one engagement. Re-ingesting an engagement_id is a
// no-op, which makes replay and retry safe.
func (e *Engine) Ingest(ctx context.Context, rec EngagementRecord) error {
	_, err := e.db.ExecContext(ctx, `
		INSERT INTO engagements (
		    engagement_id, convoy_id, drone_id, callsign, platform_type,
		    hit, weapon_type, target_type, range_km, altitude_m, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (engagement_id) DO NOTHING`,
		rec.EngagementID.String(),
		rec.ConvoyID.String(),
		rec.DroneID.String(),
		rec.Callsign,
		rec.PlatformType,
		rec.Hit,
		rec.WeaponType,
		rec.TargetType,
		rec.RangeKM,
		rec.AltitudeM,
		rec.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to ingest engagement %s: %w", rec.EngagementID, err)
	}
	return nil
}

// IngestBatch inserts a batch of engagements and returns the number of
// records processed.
func (e *Engine) IngestBatch(ctx context.Context, records []EngagementRecord) (int, error) {
	count := 0
	for _, rec := range records {
		if err := e.Ingest(ctx, rec); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// WeaponStatus describes one munition station on an asset.
type WeaponStatus struct {
	WeaponType      WeaponType  `json:"weapon_type"`
	RoundsRemaining int         `json:"rounds_remaining"`
	Status          WeaponState `json:"status"`
}

// TargetInfo describes the object of an engagement.
type TargetInfo struct {
	TargetID    uuid.UUID   `json:"target_id"`
	TargetType  TargetType  `json:"target_type"`
	Coordinates Coordinates `json:"coordinates"`
	Confidence  float64     `json:"confidence"`
	ThreatLevel ThreatLevel `json:"threat_level"`
}

// EngagementResult captures the observed outcome of a weapon release.
type EngagementResult struct {
	ImpactTime       time.Time        `json:"impact_time"`
	ImpactCoords     Coordinates      `json:"impact_coords"`
	DamageAssessment DamageAssessment `json:"damage_assessment"`
	CollateralRisk   CollateralRisk   `json:"collateral_risk"`
}

// SensorStatus describes one sensor payload.
type SensorStatus struct {
	SensorType  SensorType `json:"sensor_type"`
	Operational bool       `json:"operational"`
	Mode        string     `json:"mode"`
}

// CommLink describes one communication path and its health.
type CommLink struct {
	LinkType          LinkType `json:"link_type"`
	SignalStrengthDBM float64  `json:"signal_strength_dbm"`
	LatencyMS         int      `json:"latency_ms"`
	Encryption        string   `json:"encryption"`
}

// Convoy is a mission-level grouping of assets sharing an AOR and an ROE
// profile. COMPLETE and ABORT are terminal states; convoys are never
// deleted.
type Convoy struct {
	ConvoyID       uuid.UUID    `json:"convoy_id"`
	ConvoyCallsign string       `json:"convoy_callsign"`
	MissionID      uuid.UUID    `json:"mission_id"`
	MissionType    MissionType  `json:"mission_type"`
	Status         ConvoyStatus `json:"status"`

	CreatedAt    time.Time  `json:"created_at"`
	MissionStart *time.Time `json:"mission_start,omitempty"`
	MissionEnd   *time.Time `json:"mission_end,omitempty"`

	AORName     string      `json:"aor_name"`
	AORCenter   Coordinates `json:"aor_center"`
	AORRadiusKM float64     `json:"aor_radius_km"`

	CommandingUnit     string `json:"commanding_unit"`
	AuthorizationLevel string `json:"authorization_level"`
	ROEProfile         string `json:"roe_profile"`

	DroneIDs   []uuid.UUID `json:"drone_ids"`
	DroneCount int         `json:"drone_count"`
}

// IsActive reports whether the mission is currently running.
func (c *Convoy) IsActive() bool {
	return c.Status == ConvoyActive
}

// MissionDurationMin returns elapsed mission minutes, or nil before start.
// A running mission measures against now.
func (c *Convoy) MissionDurationMin(now time.Time) *int64 {
	if c.MissionStart == nil {
		return nil
	}
	end := now
	if c.MissionEnd != nil {
		end = *c.MissionEnd
	}
	min := int64(end.Sub(*c.MissionStart).Minutes())
	return &min
}

// Drone is a single asset. Identity is (ConvoyID, DroneID); the convoy is
// the partition key in the cold tier.
type Drone struct {
	ConvoyID uuid.UUID `json:"convoy_id"`
	DroneID  uuid.UUID `json:"drone_id"`

	TailNumber   string       `json:"tail_number"`
	Callsign     string       `json:"callsign"`
	PlatformType PlatformType `json:"platform_type"`
	SerialNumber string       `json:"serial_number"`

	Status           DroneStatus `json:"status"`
	CurrentPosition  Coordinates `json:"current_position"`
	FuelRemainingPct float64     `json:"fuel_remaining_pct"`
	FlightTimeHrs    float64     `json:"flight_time_hrs"`

	Weapons []WeaponStatus `json:"weapons"`
	Sensors []SensorStatus `json:"sensors"`

	PrimaryLink   *CommLink   `json:"primary_link,omitempty"`
	BackupLink    *CommLink   `json:"backup_link,omitempty"`
	MeshNeighbors []uuid.UUID `json:"mesh_neighbors"`

	TotalEngagements int     `json:"total_engagements"`
	SuccessfulHits   int     `json:"successful_hits"`
	AccuracyPct      float64 `json:"accuracy_pct"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecalculateAccuracy refreshes AccuracyPct from the raw counters.
func (d *Drone) RecalculateAccuracy() {
	d.AccuracyPct = AccuracyPct(d.TotalEngagements, d.SuccessfulHits)
}

// FuelCritical reports whether fuel is below the 20% floor.
func (d *Drone) FuelCritical() bool {
	return d.FuelRemainingPct < 20.0
}

// Waypoint is one point of a 25-point mission route. Identity is
// (DroneID, SequenceNumber).
type Waypoint struct {
	DroneID        uuid.UUID `json:"drone_id"`
	SequenceNumber int       `json:"sequence_number"`

	WaypointID   uuid.UUID    `json:"waypoint_id"`
	WaypointName string       `json:"waypoint_name"`
	WaypointType WaypointType `json:"waypoint_type"`

	Coordinates Coordinates `json:"coordinates"`

	PlannedArrival   *time.Time `json:"planned_arrival,omitempty"`
	ActualArrival    *time.Time `json:"actual_arrival,omitempty"`
	PlannedDeparture *time.Time `json:"planned_departure,omitempty"`
	ActualDeparture  *time.Time `json:"actual_departure,omitempty"`

	LoiterDurationMin *int     `json:"loiter_duration_min,omitempty"`
	AuthorizedActions []string `json:"authorized_actions"`

	Status WaypointStatus `json:"status"`
}

// MissionWaypointCount is the fixed route length per asset.
const MissionWaypointCount = 25

// IsComplete reports whether the waypoint has been passed.
func (w *Waypoint) IsComplete() bool {
	return w.Status == WaypointComplete
}

// ArrivalDelayMin returns actual minus planned arrival in minutes
// (negative means early), or nil when either instant is missing.
func (w *Waypoint) ArrivalDelayMin() *int64 {
	if w.PlannedArrival == nil || w.ActualArrival == nil {
		return nil
	}
	min := int64(w.ActualArrival.Sub(*w.PlannedArrival).Minutes())
	return &min
}

// Telemetry is one time-series sample. Identity is
// (DroneID, TimeBucket, RecordedAt); rows expire after 24 hours in the
// cold tier.
type Telemetry struct {
	DroneID    uuid.UUID `json:"drone_id"`
	TimeBucket string    `json:"time_bucket"`
	RecordedAt time.Time `json:"recorded_at"`

	Position         Coordinates `json:"position"`
	VelocityMPS      float64     `json:"velocity_mps"`
	AccelerationMPS2 float64     `json:"acceleration_mps2"`
	BankAngleDeg     float64     `json:"bank_angle_deg"`
	PitchAngleDeg    float64     `json:"pitch_angle_deg"`

	CurrentWaypoint  int        `json:"current_waypoint"`
	DistanceToNextKM float64    `json:"distance_to_next_km"`
	ETANextWaypoint  *time.Time `json:"eta_next_waypoint,omitempty"`

	FuelRemainingPct float64 `json:"fuel_remaining_pct"`
	EngineRPM        int     `json:"engine_rpm"`
	EngineTempC      float64 `json:"engine_temp_c"`
	BatteryVoltage   float64 `json:"battery_voltage"`

	WindSpeedMPS     float64 `json:"wind_speed_mps"`
	WindDirectionDeg float64 `json:"wind_direction_deg"`
	TemperatureC     float64 `json:"temperature_c"`
	VisibilityKM     float64 `json:"visibility_km"`

	LinkStatus       *CommLink `json:"link_status,omitempty"`
	MeshConnectivity float64   `json:"mesh_connectivity"`
}

// TimeBucket formats an instant into the hourly bucket key (YYYYMMDDHH,
// UTC) used as the telemetry partition component.
func TimeBucket(ts time.Time) string {
	return ts.UTC().Format("2006010215")
}

// Engagement is one weapon employment record. Immutable once written
// except for the BDA fields.
type Engagement struct {
	ConvoyID     uuid.UUID `json:"convoy_id"`
	EngagedAt    time.Time `json:"engaged_at"`
	EngagementID uuid.UUID `json:"engagement_id"`

	DroneID       uuid.UUID `json:"drone_id"`
	DroneCallsign string    `json:"drone_callsign"`

	WeaponType   WeaponType `json:"weapon_type"`
	WeaponSerial string     `json:"weapon_serial"`

	Target TargetInfo `json:"target"`

	AuthorizationCode string `json:"authorization_code"`
	AuthorizedBy      string `json:"authorized_by"`
	ROECompliance     bool   `json:"roe_compliance"`

	Result EngagementResult `json:"result"`
	Hit    bool             `json:"hit"`

	WaypointNumber  int         `json:"waypoint_number"`
	ShooterPosition Coordinates `json:"shooter_position"`
	RangeToTargetKM float64     `json:"range_to_target_km"`

	BDAStatus string  `json:"bda_status"`
	BDANotes  *string `json:"bda_notes,omitempty"`
}

// BDAPending reports whether battle damage assessment is outstanding.
func (e *Engagement) BDAPending() bool {
	return e.Result.DamageAssessment == BDAPendingBDA
}

// TimeRange bounds a time-series query.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Pagination caps and offsets list queries.
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// DefaultPagination is the page shape used when the caller supplies none.
func DefaultPagination() Pagination {
	return Pagination{Limit: 50, Offset: 0}
}

package models

import "time"

// CoordinatesInput is a geographic position on the wire. Heading and
// speed default to zero when omitted.
type CoordinatesInput struct {
	Latitude   float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude  float64 `json:"longitude" validate:"min=-180,max=180"`
	AltitudeM  float64 `json:"altitude_m"`
	HeadingDeg float64 `json:"heading_deg" validate:"min=0,max=360"`
	SpeedMPS   float64 `json:"speed_mps" validate:"min=0"`
}

// TimeRangeInput bounds a time-series query.
type TimeRangeInput struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required,gtfield=Start"`
}

// PaginationInput caps and offsets a list query.
type PaginationInput struct {
	Limit  int `json:"limit" validate:"min=0,max=100"`
	Offset int `json:"offset" validate:"min=0"`
}

// RankingFilter narrows a ranking page.
type RankingFilter struct {
	MinAccuracy    *float64 `json:"min_accuracy,omitempty" validate:"omitempty,min=0,max=100"`
	MinEngagements *int     `json:"min_engagements,omitempty" validate:"omitempty,min=0"`
	Platform       *string  `json:"platform,omitempty"`
}

// EngagementFilter narrows an engagement list.
type EngagementFilter struct {
	Hit              *bool           `json:"hit,omitempty"`
	Weapon           *string         `json:"weapon,omitempty"`
	TimeRange        *TimeRangeInput `json:"time_range,omitempty"`
	DamageAssessment *string         `json:"damage_assessment,omitempty"`
}

// AssetFilter narrows an asset roster list.
type AssetFilter struct {
	Status     *string  `json:"status,omitempty"`
	Platform   *string  `json:"platform,omitempty"`
	MinFuelPct *float64 `json:"min_fuel_pct,omitempty" validate:"omitempty,min=0,max=100"`
}

// RecordEngagementInput is the fast-path outcome record: counters and
// ranking only, no full engagement row.
type RecordEngagementInput struct {
	ConvoyID   string   `json:"convoy_id" validate:"required,uuid"`
	DroneID    string   `json:"drone_id" validate:"required,uuid"`
	Hit        bool     `json:"hit"`
	WeaponType *string  `json:"weapon_type,omitempty"`
	TargetType *string  `json:"target_type,omitempty"`
	RangeKM    *float64 `json:"range_km,omitempty" validate:"omitempty,min=0"`
}

// TargetInput describes the object of an engagement.
type TargetInput struct {
	TargetID    *string          `json:"target_id,omitempty" validate:"omitempty,uuid"`
	TargetType  string           `json:"target_type" validate:"required"`
	Coordinates CoordinatesInput `json:"coordinates"`
	Confidence  float64          `json:"confidence" validate:"min=0,max=1"`
	ThreatLevel string           `json:"threat_level,omitempty"`
}

// CreateEngagementInput persists a full engagement record. Range to
// target is derived from shooter and target positions server-side.
type CreateEngagementInput struct {
	EngagementID      *string          `json:"engagement_id,omitempty" validate:"omitempty,uuid"`
	ConvoyID          string           `json:"convoy_id" validate:"required,uuid"`
	DroneID           string           `json:"drone_id" validate:"required,uuid"`
	DroneCallsign     string           `json:"drone_callsign" validate:"required"`
	WeaponType        string           `json:"weapon_type" validate:"required"`
	WeaponSerial      string           `json:"weapon_serial,omitempty"`
	Target            TargetInput      `json:"target" validate:"required"`
	AuthorizationCode string           `json:"authorization_code,omitempty"`
	AuthorizedBy      string           `json:"authorized_by,omitempty"`
	WaypointNumber    int              `json:"waypoint_number" validate:"min=0,max=25"`
	ShooterPosition   CoordinatesInput `json:"shooter_position"`
	Hit               bool             `json:"hit"`
}

// UpdateBdaInput attaches a battle damage assessment to an engagement.
type UpdateBdaInput struct {
	ConvoyID         string  `json:"convoy_id" validate:"required,uuid"`
	EngagementID     string  `json:"engagement_id" validate:"required,uuid"`
	DamageAssessment string  `json:"damage_assessment" validate:"required"`
	Notes            *string `json:"notes,omitempty"`
}

// UpdateAssetStateInput merges a partial state change into an asset.
type UpdateAssetStateInput struct {
	ConvoyID         string            `json:"convoy_id" validate:"required,uuid"`
	DroneID          string            `json:"drone_id" validate:"required,uuid"`
	Status           *string           `json:"status,omitempty"`
	FuelRemainingPct *float64          `json:"fuel_remaining_pct,omitempty" validate:"omitempty,min=0,max=100"`
	Position         *CoordinatesInput `json:"position,omitempty"`
}

// RecordTelemetryInput is one time-series sample.
type RecordTelemetryInput struct {
	DroneID          string           `json:"drone_id" validate:"required,uuid"`
	RecordedAt       *time.Time       `json:"recorded_at,omitempty"`
	Position         CoordinatesInput `json:"position"`
	VelocityMPS      float64          `json:"velocity_mps" validate:"min=0"`
	AccelerationMPS2 float64          `json:"acceleration_mps2"`
	BankAngleDeg     float64          `json:"bank_angle_deg"`
	PitchAngleDeg    float64          `json:"pitch_angle_deg"`
	CurrentWaypoint  int              `json:"current_waypoint" validate:"min=0,max=25"`
	DistanceToNextKM float64          `json:"distance_to_next_km" validate:"min=0"`
	FuelRemainingPct float64          `json:"fuel_remaining_pct" validate:"min=0,max=100"`
	EngineRPM        int              `json:"engine_rpm" validate:"min=0"`
	EngineTempC      float64          `json:"engine_temp_c"`
	BatteryVoltage   float64          `json:"battery_voltage" validate:"min=0"`
	WindSpeedMPS     float64          `json:"wind_speed_mps" validate:"min=0"`
	WindDirectionDeg float64          `json:"wind_direction_deg" validate:"min=0,max=360"`
	TemperatureC     float64          `json:"temperature_c"`
	VisibilityKM     float64          `json:"visibility_km" validate:"min=0"`
	MeshConnectivity float64          `json:"mesh_connectivity" validate:"min=0,max=1"`
}

// CreateConvoyInput creates a mission grouping. A client-supplied
// convoy_id makes the mutation safe to retry.
type CreateConvoyInput struct {
	ConvoyID           *string          `json:"convoy_id,omitempty" validate:"omitempty,uuid"`
	ConvoyCallsign     string           `json:"convoy_callsign" validate:"required"`
	MissionID          *string          `json:"mission_id,omitempty" validate:"omitempty,uuid"`
	MissionType        string           `json:"mission_type" validate:"required"`
	AORName            string           `json:"aor_name" validate:"required"`
	AORCenter          CoordinatesInput `json:"aor_center"`
	AORRadiusKM        float64          `json:"aor_radius_km" validate:"min=0"`
	CommandingUnit     string           `json:"commanding_unit,omitempty"`
	AuthorizationLevel string           `json:"authorization_level,omitempty"`
	ROEProfile         string           `json:"roe_profile,omitempty"`
}

// UpdateConvoyStatusInput advances the convoy mission lifecycle.
type UpdateConvoyStatusInput struct {
	ConvoyID string `json:"convoy_id" validate:"required,uuid"`
	Status   string `json:"status" validate:"required"`
}

// CreateAssetInput registers an asset on a convoy roster.
type CreateAssetInput struct {
	DroneID      *string `json:"drone_id,omitempty" validate:"omitempty,uuid"`
	ConvoyID     string  `json:"convoy_id" validate:"required,uuid"`
	TailNumber   string  `json:"tail_number,omitempty"`
	Callsign     string  `json:"callsign" validate:"required"`
	PlatformType string  `json:"platform_type" validate:"required"`
	SerialNumber string  `json:"serial_number,omitempty"`
}

// WaypointInput is one route point of a mission path.
type WaypointInput struct {
	SequenceNumber    int              `json:"sequence_number" validate:"min=1,max=25"`
	WaypointName      string           `json:"waypoint_name" validate:"required"`
	WaypointType      string           `json:"waypoint_type" validate:"required"`
	Coordinates       CoordinatesInput `json:"coordinates"`
	PlannedArrival    *time.Time       `json:"planned_arrival,omitempty"`
	PlannedDeparture  *time.Time       `json:"planned_departure,omitempty"`
	LoiterDurationMin *int             `json:"loiter_duration_min,omitempty" validate:"omitempty,min=0"`
	AuthorizedActions []string         `json:"authorized_actions,omitempty"`
}

// CreateWaypointsInput installs the full 25-point route for one asset.
type CreateWaypointsInput struct {
	DroneID   string          `json:"drone_id" validate:"required,uuid"`
	Waypoints []WaypointInput `json:"waypoints" validate:"required,len=25,dive"`
}

package domain

import "fmt"

// PlatformType identifies the airframe family of an asset.
type PlatformType string

const (
	PlatformMQ9Reaper     PlatformType = "MQ9_REAPER"
	PlatformMQ1CGrayEagle PlatformType = "MQ1C_GRAY_EAGLE"
	PlatformRQ4GlobalHawk PlatformType = "RQ4_GLOBAL_HAWK"
	PlatformMQ25Stingray  PlatformType = "MQ25_STINGRAY"
)

// AllPlatformTypes lists every supported platform.
func AllPlatformTypes() []PlatformType {
	return []PlatformType{
		PlatformMQ9Reaper,
		PlatformMQ1CGrayEagle,
		PlatformRQ4GlobalHawk,
		PlatformMQ25Stingray,
	}
}

// ParsePlatformType validates and converts a wire string.
func ParsePlatformType(s string) (PlatformType, error) {
	switch PlatformType(s) {
	case PlatformMQ9Reaper, PlatformMQ1CGrayEagle, PlatformRQ4GlobalHawk, PlatformMQ25Stingray:
		return PlatformType(s), nil
	}
	return "", fmt.Errorf("unknown platform type %q", s)
}

// DroneStatus is the operational phase of a single asset.
type DroneStatus string

const (
	DronePreflight   DroneStatus = "PREFLIGHT"
	DroneAirborne    DroneStatus = "AIRBORNE"
	DroneLoiter      DroneStatus = "LOITER"
	DroneIngress     DroneStatus = "INGRESS"
	DroneEgress      DroneStatus = "EGRESS"
	DroneRTB         DroneStatus = "RTB"
	DroneLanded      DroneStatus = "LANDED"
	DroneMaintenance DroneStatus = "MAINTENANCE"
)

// ParseDroneStatus validates and converts a wire string.
func ParseDroneStatus(s string) (DroneStatus, error) {
	switch DroneStatus(s) {
	case DronePreflight, DroneAirborne, DroneLoiter, DroneIngress,
		DroneEgress, DroneRTB, DroneLanded, DroneMaintenance:
		return DroneStatus(s), nil
	}
	return "", fmt.Errorf("unknown drone status %q", s)
}

// IsAirborne reports whether the status is a flight phase.
func (s DroneStatus) IsAirborne() bool {
	switch s {
	case DroneAirborne, DroneLoiter, DroneIngress, DroneEgress:
		return true
	}
	return false
}

// ConvoyStatus is the mission lifecycle state of a convoy.
type ConvoyStatus string

const (
	ConvoyPlanning ConvoyStatus = "PLANNING"
	ConvoyActive   ConvoyStatus = "ACTIVE"
	ConvoyRTB      ConvoyStatus = "RTB"
	ConvoyComplete ConvoyStatus = "COMPLETE"
	ConvoyAbort    ConvoyStatus = "ABORT"
)

// ParseConvoyStatus validates and converts a wire string.
func ParseConvoyStatus(s string) (ConvoyStatus, error) {
	switch ConvoyStatus(s) {
	case ConvoyPlanning, ConvoyActive, ConvoyRTB, ConvoyComplete, ConvoyAbort:
		return ConvoyStatus(s), nil
	}
	return "", fmt.Errorf("unknown convoy status %q", s)
}

// CanTransitionTo enforces the convoy lifecycle:
// PLANNING -> ACTIVE -> (RTB -> COMPLETE | ABORT). COMPLETE and ABORT
// are terminal.
func (s ConvoyStatus) CanTransitionTo(next ConvoyStatus) bool {
	switch s {
	case ConvoyPlanning:
		return next == ConvoyActive
	case ConvoyActive:
		return next == ConvoyRTB || next == ConvoyAbort
	case ConvoyRTB:
		return next == ConvoyComplete || next == ConvoyAbort
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s ConvoyStatus) IsTerminal() bool {
	return s == ConvoyComplete || s == ConvoyAbort
}

// MissionType classifies a convoy's tasking.
type MissionType string

const (
	MissionISR      MissionType = "ISR"
	MissionStrike   MissionType = "STRIKE"
	MissionEscort   MissionType = "ESCORT"
	MissionResupply MissionType = "RESUPPLY"
	MissionSAR      MissionType = "SAR"
)

// ParseMissionType validates and converts a wire string.
func ParseMissionType(s string) (MissionType, error) {
	switch MissionType(s) {
	case MissionISR, MissionStrike, MissionEscort, MissionResupply, MissionSAR:
		return MissionType(s), nil
	}
	return "", fmt.Errorf("unknown mission type %q", s)
}

// WaypointType classifies a route point.
type WaypointType string

const (
	WaypointNav        WaypointType = "NAV"
	WaypointLoiter     WaypointType = "LOITER"
	WaypointStrike     WaypointType = "STRIKE"
	WaypointRefuel     WaypointType = "REFUEL"
	WaypointRendezvous WaypointType = "RENDEZVOUS"
	WaypointCheckpoint WaypointType = "CHECKPOINT"
)

// WaypointStatus tracks progress through a route.
type WaypointStatus string

const (
	WaypointPending  WaypointStatus = "PENDING"
	WaypointActive   WaypointStatus = "ACTIVE"
	WaypointComplete WaypointStatus = "COMPLETE"
	WaypointSkipped  WaypointStatus = "SKIPPED"
)

// WeaponType identifies a munition.
type WeaponType string

const (
	WeaponAGM114Hellfire  WeaponType = "AGM114_HELLFIRE"
	WeaponGBU12Paveway    WeaponType = "GBU12_PAVEWAY"
	WeaponAIM9XSidewinder WeaponType = "AIM9X_SIDEWINDER"
	WeaponGBU38JDAM       WeaponType = "GBU38_JDAM"
	WeaponAGM176Griffin   WeaponType = "AGM176_GRIFFIN"
)

// AllWeaponTypes lists every supported munition.
func AllWeaponTypes() []WeaponType {
	return []WeaponType{
		WeaponAGM114Hellfire,
		WeaponGBU12Paveway,
		WeaponAIM9XSidewinder,
		WeaponGBU38JDAM,
		WeaponAGM176Griffin,
	}
}

// ParseWeaponType validates and converts a wire string.
func ParseWeaponType(s string) (WeaponType, error) {
	switch WeaponType(s) {
	case WeaponAGM114Hellfire, WeaponGBU12Paveway, WeaponAIM9XSidewinder,
		WeaponGBU38JDAM, WeaponAGM176Griffin:
		return WeaponType(s), nil
	}
	return "", fmt.Errorf("unknown weapon type %q", s)
}

// WeaponState is the readiness of a loaded munition.
type WeaponState string

const (
	WeaponArmed    WeaponState = "ARMED"
	WeaponSafe     WeaponState = "SAFE"
	WeaponJammed   WeaponState = "JAMMED"
	WeaponExpended WeaponState = "EXPENDED"
)

// TargetType classifies an engagement target.
type TargetType string

const (
	TargetVehicle    TargetType = "VEHICLE"
	TargetStructure  TargetType = "STRUCTURE"
	TargetPersonnel  TargetType = "PERSONNEL"
	TargetRadar      TargetType = "RADAR"
	TargetAirDefense TargetType = "AIR_DEFENSE"
	TargetSupply     TargetType = "SUPPLY"
)

// AllTargetTypes lists every target classification.
func AllTargetTypes() []TargetType {
	return []TargetType{
		TargetVehicle,
		TargetStructure,
		TargetPersonnel,
		TargetRadar,
		TargetAirDefense,
		TargetSupply,
	}
}

// ThreatLevel grades a target's threat to friendly forces.
type ThreatLevel string

const (
	ThreatHigh    ThreatLevel = "HIGH"
	ThreatMedium  ThreatLevel = "MEDIUM"
	ThreatLow     ThreatLevel = "LOW"
	ThreatUnknown ThreatLevel = "UNKNOWN"
)

// DamageAssessment is the post-engagement BDA classification.
type DamageAssessment string

const (
	BDADestroyed  DamageAssessment = "DESTROYED"
	BDADamaged    DamageAssessment = "DAMAGED"
	BDAMissed     DamageAssessment = "MISSED"
	BDAPendingBDA DamageAssessment = "PENDING_BDA"
)

// ParseDamageAssessment validates and converts a wire string.
func ParseDamageAssessment(s string) (DamageAssessment, error) {
	switch DamageAssessment(s) {
	case BDADestroyed, BDADamaged, BDAMissed, BDAPendingBDA:
		return DamageAssessment(s), nil
	}
	return "", fmt.Errorf("unknown damage assessment %q", s)
}

// CollateralRisk grades expected collateral damage.
type CollateralRisk string

const (
	CollateralNone     CollateralRisk = "NONE"
	CollateralMinimal  CollateralRisk = "MINIMAL"
	CollateralModerate CollateralRisk = "MODERATE"
	CollateralHigh     CollateralRisk = "HIGH"
)

// SensorType identifies a sensor payload.
type SensorType string

const (
	SensorEOIR   SensorType = "EO_IR"
	SensorSAR    SensorType = "SAR"
	SensorSIGINT SensorType = "SIGINT"
	SensorLIDAR  SensorType = "LIDAR"
)

// LinkType identifies a communication path.
type LinkType string

const (
	LinkSatcom LinkType = "SATCOM"
	LinkLOS    LinkType = "LOS"
	LinkMesh   LinkType = "MESH"
	LinkBackup LinkType = "BACKUP"
)

// AlertSeverity orders operational alerts. Severity is monotone:
// INFO < WARNING < CRITICAL.
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "INFO"
	SeverityWarning  AlertSeverity = "WARNING"
	SeverityCritical AlertSeverity = "CRITICAL"
)

// ParseAlertSeverity validates and converts a wire string.
func ParseAlertSeverity(s string) (AlertSeverity, error) {
	switch AlertSeverity(s) {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return AlertSeverity(s), nil
	}
	return "", fmt.Errorf("unknown alert severity %q", s)
}

func (s AlertSeverity) weight() int {
	switch s {
	case SeverityWarning:
		return 1
	case SeverityCritical:
		return 2
	}
	return 0
}

// AtLeast reports whether s meets a minimum severity threshold.
// A threshold of INFO passes everything.
func (s AlertSeverity) AtLeast(min AlertSeverity) bool {
	return s.weight() >= min.weight()
}

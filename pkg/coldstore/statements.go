package coldstore

// The full statement set. Keeping every statement here, rather than
// scattered through the adapter, makes the table contract auditable at
// a glance. Column order in each SELECT matches the scan order in the
// corresponding reader.

const (
	convoyColumns = "convoy_id, convoy_callsign, mission_id, mission_type, status, " +
		"created_at, mission_start, mission_end, aor_name, aor_lat, aor_lon, aor_radius_km, " +
		"commanding_unit, authorization_level, roe_profile, drone_ids, drone_count"

	insertConvoyCQL = "INSERT INTO convoys (" + convoyColumns + ") " +
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

	selectConvoyCQL = "SELECT " + convoyColumns + " FROM convoys WHERE convoy_id = ?"

	updateConvoyStatusCQL = "UPDATE convoys SET status = ?, mission_start = ?, mission_end = ? " +
		"WHERE convoy_id = ?"

	updateConvoyRosterCQL = "UPDATE convoys SET drone_ids = ?, drone_count = ? WHERE convoy_id = ?"

	insertActiveConvoyCQL = "INSERT INTO active_convoys " +
		"(status, convoy_id, convoy_callsign, mission_type, drone_count, created_at) " +
		"VALUES (?, ?, ?, ?, ?, ?)"

	deleteActiveConvoyCQL = "DELETE FROM active_convoys WHERE status = ? AND convoy_id = ?"

	selectActiveConvoysCQL = "SELECT convoy_id FROM active_convoys WHERE status = ?"
)

const (
	droneColumns = "convoy_id, drone_id, tail_number, callsign, platform_type, serial_number, " +
		"status, latitude, longitude, altitude_m, heading_deg, velocity_mps, " +
		"fuel_remaining_pct, flight_time_hrs, loadout_json, " +
		"total_engagements, successful_hits, accuracy_pct, created_at, updated_at"

	insertDroneCQL = "INSERT INTO drones (" + droneColumns + ") " +
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

	selectDroneCQL = "SELECT " + droneColumns + " FROM drones " +
		"WHERE convoy_id = ? AND drone_id = ?"

	selectDronesByConvoyCQL = "SELECT " + droneColumns + " FROM drones WHERE convoy_id = ?"

	updateDroneStateCQL = "UPDATE drones SET status = ?, fuel_remaining_pct = ?, " +
		"latitude = ?, longitude = ?, altitude_m = ?, heading_deg = ?, velocity_mps = ?, " +
		"updated_at = ? WHERE convoy_id = ? AND drone_id = ?"

	updateDroneAccuracyCQL = "UPDATE drones SET total_engagements = ?, successful_hits = ?, " +
		"accuracy_pct = ?, updated_at = ? WHERE convoy_id = ? AND drone_id = ?"
)

const (
	waypointColumns = "drone_id, sequence_number, waypoint_id, waypoint_name, waypoint_type, " +
		"latitude, longitude, altitude_m, planned_arrival, actual_arrival, " +
		"planned_departure, actual_departure, loiter_duration_min, authorized_actions, status"

	insertWaypointCQL = "INSERT INTO waypoints (" + waypointColumns + ") " +
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

	selectWaypointsCQL = "SELECT " + waypointColumns + " FROM waypoints WHERE drone_id = ?"

	selectWaypointCQL = "SELECT " + waypointColumns + " FROM waypoints " +
		"WHERE drone_id = ? AND sequence_number = ?"

	updateWaypointStatusCQL = "UPDATE waypoints SET status = ?, actual_arrival = ?, " +
		"actual_departure = ? WHERE drone_id = ? AND sequence_number = ?"
)

const (
	telemetryColumns = "drone_id, time_bucket, recorded_at, latitude, longitude, altitude_m, " +
		"heading_deg, velocity_mps, acceleration_mps2, bank_angle_deg, pitch_angle_deg, " +
		"current_waypoint, distance_to_next_km, eta_next_waypoint, " +
		"fuel_remaining_pct, engine_rpm, engine_temp_c, battery_voltage, " +
		"wind_speed_mps, wind_direction_deg, temperature_c, visibility_km, mesh_connectivity"

	// Telemetry rows expire after 24 hours.
	insertTelemetryCQL = "INSERT INTO telemetry (" + telemetryColumns + ") " +
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) " +
		"USING TTL 86400"

	selectLatestTelemetryCQL = "SELECT " + telemetryColumns + " FROM telemetry " +
		"WHERE drone_id = ? LIMIT 1"

	selectTelemetryRangeCQL = "SELECT " + telemetryColumns + " FROM telemetry " +
		"WHERE drone_id = ? AND time_bucket = ? AND recorded_at >= ? AND recorded_at <= ? LIMIT ?"
)

const (
	engagementColumns = "convoy_id, engaged_at, engagement_id, drone_id, drone_callsign, " +
		"weapon_type, weapon_serial, target_id, target_type, target_lat, target_lon, " +
		"target_alt_m, target_confidence, threat_level, shooter_lat, shooter_lon, " +
		"shooter_alt_m, range_km, hit, impact_time, damage_assessment, collateral_risk, " +
		"authorization_code, authorized_by, roe_compliance, waypoint_number, bda_status, bda_notes"

	engagementPlaceholders = "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, " +
		"?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

	// Both mirrors carry the full record so either one alone can serve a
	// recovery by engagement_id.
	insertEngagementCQL = "INSERT INTO engagements (" + engagementColumns + ") " +
		"VALUES " + engagementPlaceholders

	insertEngagementByDroneCQL = "INSERT INTO engagements_by_drone (" + engagementColumns + ") " +
		"VALUES " + engagementPlaceholders

	selectEngagementsByConvoyCQL = "SELECT " + engagementColumns + " FROM engagements " +
		"WHERE convoy_id = ? LIMIT ?"

	selectEngagementsByDroneCQL = "SELECT " + engagementColumns + " FROM engagements_by_drone " +
		"WHERE drone_id = ? LIMIT ?"

	selectEngagementCQL = "SELECT " + engagementColumns + " FROM engagements " +
		"WHERE convoy_id = ? AND engaged_at = ? AND engagement_id = ?"

	updateEngagementBDACQL = "UPDATE engagements SET bda_status = ?, bda_notes = ?, " +
		"damage_assessment = ? WHERE convoy_id = ? AND engaged_at = ? AND engagement_id = ?"

	updateEngagementByDroneBDACQL = "UPDATE engagements_by_drone SET bda_status = ?, " +
		"bda_notes = ?, damage_assessment = ? WHERE drone_id = ? AND engaged_at = ? AND engagement_id = ?"
)

const (
	leaderboardColumns = "convoy_id, accuracy_pct, drone_id, callsign, platform_type, " +
		"total_engagements, successful_hits, current_streak, best_streak, rank, updated_at"

	selectLeaderboardCQL = "SELECT " + leaderboardColumns + " FROM leaderboard " +
		"WHERE convoy_id = ? LIMIT ?"

	insertLeaderboardEntryCQL = "INSERT INTO leaderboard (" + leaderboardColumns + ") " +
		"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

	// accuracy_pct is part of the clustering key, so a change of accuracy
	// lands in a new row and the stale row must be removed explicitly.
	deleteLeaderboardEntryCQL = "DELETE FROM leaderboard " +
		"WHERE convoy_id = ? AND accuracy_pct = ? AND drone_id = ?"

	updateAccuracyCountersCQL = "UPDATE accuracy_counters " +
		"SET total_engagements = total_engagements + 1, successful_hits = successful_hits + ? " +
		"WHERE convoy_id = ? AND drone_id = ?"

	selectAccuracyCountersCQL = "SELECT total_engagements, successful_hits " +
		"FROM accuracy_counters WHERE convoy_id = ? AND drone_id = ?"

	selectConvoyCountersCQL = "SELECT drone_id, total_engagements, successful_hits " +
		"FROM accuracy_counters WHERE convoy_id = ?"
)

// Package strikemission flies a simulated convoy through a full
// mission against a live tracker: roster registration, route upload,
// telemetry at every tick, and engagement reporting through the
// fast-path mutation.
package strikemission

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/picogrid/convoy-tracker/pkg/client"
	"github.com/picogrid/convoy-tracker/pkg/domain"
	"github.com/picogrid/convoy-tracker/pkg/logger"
	"github.com/picogrid/convoy-tracker/pkg/models"
	"github.com/picogrid/convoy-tracker/pkg/simulation"
)

// leaderboardEvery is the tick cadence of the live ranking printout.
const leaderboardEvery = 30

// StrikeMission drives one convoy from takeoff to mission complete.
type StrikeMission struct {
	config   *Config
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewStrikeMission creates a new instance of the scenario
func NewStrikeMission() simulation.Scenario {
	return &StrikeMission{
		stopChan: make(chan struct{}),
	}
}

// Name returns the scenario name
func (s *StrikeMission) Name() string {
	return "strike-mission"
}

// Description returns the scenario description
func (s *StrikeMission) Description() string {
	return "Fly a full convoy mission with telemetry and live engagement reporting"
}

// Configure sets up the scenario with provided parameters
func (s *StrikeMission) Configure(params map[string]interface{}) error {
	config, err := ValidateAndParse(params)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	s.config = config
	return nil
}

// Stop gracefully shuts down the scenario
func (s *StrikeMission) Stop() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	return nil
}

// Run executes the scenario
func (s *StrikeMission) Run(ctx context.Context, c *client.Client) error {
	sim := simulation.NewConvoySimulator(s.config.Callsign, s.config.MissionType, s.config.NumDrones, nil)

	logger.Infof("Registering convoy %s (%s) with %d drones",
		s.config.Callsign, s.config.MissionType, s.config.NumDrones)
	if err := s.registerConvoy(ctx, c, sim); err != nil {
		return err
	}

	var engagementLog *simulation.EngagementLog
	if s.config.EngagementLog != "" {
		log, err := simulation.OpenEngagementLog(s.config.EngagementLog)
		if err != nil {
			return err
		}
		engagementLog = log
		defer func() { _ = engagementLog.Close() }()
		logger.Infof("Logging engagements to %s", s.config.EngagementLog)
	}

	totalTicks := int(s.config.Duration / s.config.TickInterval)
	delta := 1.0 / float64(totalTicks)

	ticker := time.NewTicker(s.config.TickInterval)
	defer ticker.Stop()

	previousStatus := sim.Status
	for tick := 1; ; tick++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopChan:
			logger.Warn("Scenario stopped by user, aborting mission")
			return s.updateStatus(ctx, c, sim, domain.ConvoyAbort)
		case <-ticker.C:
		}

		sim.Advance(delta)
		if sim.Status != previousStatus {
			logger.Infof("Convoy %s -> %s", s.config.Callsign, sim.Status)
			if err := s.updateStatus(ctx, c, sim, sim.Status); err != nil {
				logger.Errorf("Failed to update convoy status: %v", err)
			}
			previousStatus = sim.Status
		}

		s.pushTelemetry(ctx, c, sim)
		s.pushEngagements(ctx, c, sim, engagementLog)

		if tick%leaderboardEvery == 0 {
			s.printLeaderboard(ctx, c, sim)
		}

		if sim.Status == domain.ConvoyComplete {
			break
		}
	}

	logger.LogSection("Mission complete")
	s.printLeaderboard(ctx, c, sim)
	return nil
}

func (s *StrikeMission) registerConvoy(ctx context.Context, c *client.Client, sim *simulation.ConvoySimulator) error {
	convoyID := sim.ConvoyID.String()
	_, err := c.CreateConvoy(ctx, models.CreateConvoyInput{
		ConvoyID:       &convoyID,
		ConvoyCallsign: s.config.Callsign,
		MissionType:    string(s.config.MissionType),
		AORName:        "KANDAHAR",
		AORCenter: models.CoordinatesInput{
			Latitude:  simulation.KandaharLatitude,
			Longitude: simulation.KandaharLongitude,
		},
		AORRadiusKM: simulation.DefaultAORRadiusKM,
	})
	if err != nil {
		return fmt.Errorf("failed to create convoy: %w", err)
	}

	for _, d := range sim.Drones {
		droneID := d.DroneID.String()
		_, err := c.CreateAsset(ctx, models.CreateAssetInput{
			DroneID:      &droneID,
			ConvoyID:     convoyID,
			Callsign:     d.Callsign,
			PlatformType: string(d.PlatformType),
		})
		if err != nil {
			return fmt.Errorf("failed to create asset %s: %w", d.Callsign, err)
		}

		waypoints := make([]models.WaypointInput, 0, len(d.Route))
		for _, wp := range d.Route {
			waypoints = append(waypoints, models.WaypointInput{
				SequenceNumber:    wp.SequenceNumber,
				WaypointName:      wp.WaypointName,
				WaypointType:      string(wp.WaypointType),
				Coordinates:       toCoordinatesInput(wp.Coordinates),
				LoiterDurationMin: wp.LoiterDurationMin,
				AuthorizedActions: wp.AuthorizedActions,
			})
		}
		if _, err := c.CreateWaypoints(ctx, models.CreateWaypointsInput{
			DroneID:   droneID,
			Waypoints: waypoints,
		}); err != nil {
			return fmt.Errorf("failed to upload route for %s: %w", d.Callsign, err)
		}
		logger.Infof("Registered %s (%s) with %d waypoints", d.Callsign, d.PlatformType, len(waypoints))
	}
	return nil
}

func (s *StrikeMission) updateStatus(ctx context.Context, c *client.Client, sim *simulation.ConvoySimulator, status domain.ConvoyStatus) error {
	_, err := c.UpdateConvoyStatus(ctx, models.UpdateConvoyStatusInput{
		ConvoyID: sim.ConvoyID.String(),
		Status:   string(status),
	})
	return err
}

func (s *StrikeMission) pushTelemetry(ctx context.Context, c *client.Client, sim *simulation.ConvoySimulator) {
	for _, t := range sim.GenerateTelemetry() {
		input := models.RecordTelemetryInput{
			DroneID:          t.DroneID.String(),
			Position:         toCoordinatesInput(t.Position),
			VelocityMPS:      t.VelocityMPS,
			AccelerationMPS2: t.AccelerationMPS2,
			BankAngleDeg:     t.BankAngleDeg,
			PitchAngleDeg:    t.PitchAngleDeg,
			CurrentWaypoint:  t.CurrentWaypoint,
			DistanceToNextKM: t.DistanceToNextKM,
			FuelRemainingPct: t.FuelRemainingPct,
			EngineRPM:        t.EngineRPM,
			EngineTempC:      t.EngineTempC,
			BatteryVoltage:   t.BatteryVoltage,
			WindSpeedMPS:     t.WindSpeedMPS,
			WindDirectionDeg: t.WindDirectionDeg,
			TemperatureC:     t.TemperatureC,
			VisibilityKM:     t.VisibilityKM,
			MeshConnectivity: t.MeshConnectivity,
		}
		if err := c.RecordTelemetry(ctx, input); err != nil {
			logger.Errorf("Telemetry push failed for %s: %v", t.DroneID, err)
		}
	}
}

func (s *StrikeMission) pushEngagements(ctx context.Context, c *client.Client, sim *simulation.ConvoySimulator, log *simulation.EngagementLog) {
	for _, e := range sim.SimulateEngagements() {
		weapon := string(e.WeaponType)
		target := string(e.TargetType)
		rangeKM := e.RangeKM

		result, err := c.RecordEngagement(ctx, models.RecordEngagementInput{
			ConvoyID:   e.ConvoyID.String(),
			DroneID:    e.DroneID.String(),
			Hit:        e.Hit,
			WeaponType: &weapon,
			TargetType: &target,
			RangeKM:    &rangeKM,
		})
		if err != nil {
			logger.Errorf("Engagement report failed for %s: %v", e.Callsign, err)
			continue
		}

		logger.Infof("%s %s released %s at %.1f km -> rank %d (%.1f%%)",
			logger.HitMiss(e.Hit), e.Callsign, weapon, e.RangeKM,
			result.NewRank, result.NewAccuracyPct)

		if log != nil {
			if err := log.Append(e); err != nil {
				logger.Errorf("Engagement log write failed: %v", err)
			}
		}
	}
}

func (s *StrikeMission) printLeaderboard(ctx context.Context, c *client.Client, sim *simulation.ConvoySimulator) {
	page, err := c.GetRanking(ctx, sim.ConvoyID.String(), s.config.NumDrones)
	if err != nil {
		logger.Errorf("Failed to fetch ranking: %v", err)
		return
	}

	logger.LogSubSection(fmt.Sprintf("Leaderboard (%.0f%% mission progress)", sim.State().ProgressPct))
	table := logger.NewTable("RANK", "CALLSIGN", "PLATFORM", "ACCURACY", "ENGAGEMENTS", "HITS")
	for _, entry := range page.Entries {
		table.AddRow(
			logger.RankTag(entry.Rank),
			entry.Callsign,
			entry.PlatformType,
			fmt.Sprintf("%.1f%%", entry.AccuracyPct),
			fmt.Sprintf("%d", entry.TotalEngagements),
			fmt.Sprintf("%d", entry.SuccessfulHits),
		)
	}
	table.Print()
}

func toCoordinatesInput(c domain.Coordinates) models.CoordinatesInput {
	return models.CoordinatesInput{
		Latitude:   c.Latitude,
		Longitude:  c.Longitude,
		AltitudeM:  c.AltitudeM,
		HeadingDeg: c.HeadingDeg,
		SpeedMPS:   c.SpeedMPS,
	}
}

// init registers the scenario
func init() {
	if err := simulation.DefaultRegistry.Register("strike-mission", NewStrikeMission); err != nil {
		logger.Errorf("Failed to register scenario: %v", err)
	}
}

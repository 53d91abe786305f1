// Package accuracyburst fires dense volleys of engagements at the
// tracker without flying a mission. It exists to exercise the ranking
// fast path under load and to check that the leaderboard converges on
// the simulated hit rates.
package accuracyburst

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

// Config holds the configuration for the accuracy burst scenario
type Config struct {
	NumDrones           int
	EngagementsPerDrone int
	Callsign            string
	BurstInterval       time.Duration
}

// ValidateAndParse validates and parses the raw parameters into a Config
func ValidateAndParse(params map[string]interface{}) (*Config, error) {
	config := &Config{}

	if v, ok := params["num_drones"]; ok {
		switch val := v.(type) {
		case int:
			config.NumDrones = val
		case float64:
			config.NumDrones = int(val)
		default:
			return nil, fmt.Errorf("num_drones must be an integer")
		}
	}
	if config.NumDrones < 1 || config.NumDrones > 20 {
		return nil, fmt.Errorf("num_drones must be between 1 and 20")
	}

	if v, ok := params["engagements_per_drone"]; ok {
		switch val := v.(type) {
		case int:
			config.EngagementsPerDrone = val
		case float64:
			config.EngagementsPerDrone = int(val)
		default:
			return nil, fmt.Errorf("engagements_per_drone must be an integer")
		}
	}
	if config.EngagementsPerDrone < 1 || config.EngagementsPerDrone > 500 {
		return nil, fmt.Errorf("engagements_per_drone must be between 1 and 500")
	}

	if v, ok := params["callsign"]; ok {
		config.Callsign = fmt.Sprintf("%v", v)
	}
	if config.Callsign == "" {
		return nil, fmt.Errorf("callsign is required")
	}

	if v, ok := params["burst_interval"]; ok {
		switch val := v.(type) {
		case time.Duration:
			config.BurstInterval = val
		default:
			d, err := time.ParseDuration(fmt.Sprintf("%v", v))
			if err != nil {
				return nil, fmt.Errorf("invalid burst_interval: %w", err)
			}
			config.BurstInterval = d
		}
	}
	if config.BurstInterval <= 0 {
		config.BurstInterval = 100 * time.Millisecond
	}

	return config, nil
}

// AccuracyBurst fires volleys against a registered roster.
type AccuracyBurst struct {
	config   *Config
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewAccuracyBurst creates a new instance of the scenario
func NewAccuracyBurst() simulation.Scenario {
	return &AccuracyBurst{
		stopChan: make(chan struct{}),
	}
}

// Name returns the scenario name
func (s *AccuracyBurst) Name() string {
	return "accuracy-burst"
}

// Description returns the scenario description
func (s *AccuracyBurst) Description() string {
	return "Hammer the engagement fast path and verify ranking convergence"
}

// Configure sets up the scenario with provided parameters
func (s *AccuracyBurst) Configure(params map[string]interface{}) error {
	config, err := ValidateAndParse(params)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	s.config = config
	return nil
}

// Stop gracefully shuts down the scenario
func (s *AccuracyBurst) Stop() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	return nil
}

// Run executes the scenario
func (s *AccuracyBurst) Run(ctx context.Context, c *client.Client) error {
	sim := simulation.NewConvoySimulator(s.config.Callsign, domain.MissionStrike, s.config.NumDrones, nil)
	convoyID := sim.ConvoyID.String()

	_, err := c.CreateConvoy(ctx, models.CreateConvoyInput{
		ConvoyID:       &convoyID,
		ConvoyCallsign: s.config.Callsign,
		MissionType:    string(domain.MissionStrike),
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
		if _, err := c.CreateAsset(ctx, models.CreateAssetInput{
			DroneID:      &droneID,
			ConvoyID:     convoyID,
			Callsign:     d.Callsign,
			PlatformType: string(d.PlatformType),
		}); err != nil {
			return fmt.Errorf("failed to create asset %s: %w", d.Callsign, err)
		}
	}
	logger.Infof("Roster of %d drones registered, firing %d engagements each",
		s.config.NumDrones, s.config.EngagementsPerDrone)

	fired := 0
	for volley := 0; volley < s.config.EngagementsPerDrone; volley++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopChan:
			logger.Warn("Scenario stopped by user")
			return nil
		case <-time.After(s.config.BurstInterval):
		}

		for _, d := range sim.Drones {
			e := d.Engagements.Simulate(sim.ConvoyID, d.DroneID, d.Callsign, 5000)
			weapon := string(e.WeaponType)
			target := string(e.TargetType)
			rangeKM := e.RangeKM
			if _, err := c.RecordEngagement(ctx, models.RecordEngagementInput{
				ConvoyID:   convoyID,
				DroneID:    d.DroneID.String(),
				Hit:        e.Hit,
				WeaponType: &weapon,
				TargetType: &target,
				RangeKM:    &rangeKM,
			}); err != nil {
				logger.Errorf("Engagement report failed for %s: %v", d.Callsign, err)
				continue
			}
			fired++
		}
	}

	page, err := c.GetRanking(ctx, convoyID, s.config.NumDrones)
	if err != nil {
		return fmt.Errorf("failed to fetch final ranking: %w", err)
	}

	logger.LogSection(fmt.Sprintf("Final leaderboard after %d engagements", fired))
	table := logger.NewTable("RANK", "CALLSIGN", "ACCURACY", "ENGAGEMENTS", "HITS")
	for _, entry := range page.Entries {
		table.AddRow(
			logger.RankTag(entry.Rank),
			entry.Callsign,
			fmt.Sprintf("%.1f%%", entry.AccuracyPct),
			fmt.Sprintf("%d", entry.TotalEngagements),
			fmt.Sprintf("%d", entry.SuccessfulHits),
		)
	}
	table.Print()
	return nil
}

// init registers the scenario
func init() {
	if err := simulation.DefaultRegistry.Register("accuracy-burst", NewAccuracyBurst); err != nil {
		logger.Errorf("Failed to register scenario: %v", err)
	}
}

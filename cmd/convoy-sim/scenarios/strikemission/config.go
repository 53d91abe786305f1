package strikemission

import (
	"fmt"
	"time"

	"github.com/picogrid/convoy-tracker/pkg/domain"
)

// Config holds the configuration for the strike mission scenario
type Config struct {
	NumDrones     int
	Callsign      string
	MissionType   domain.MissionType
	TickInterval  time.Duration
	Duration      time.Duration
	EngagementLog string
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
	if config.NumDrones < 1 || config.NumDrones > 12 {
		return nil, fmt.Errorf("num_drones must be between 1 and 12")
	}

	if v, ok := params["callsign"]; ok {
		config.Callsign = fmt.Sprintf("%v", v)
	}
	if config.Callsign == "" {
		return nil, fmt.Errorf("callsign is required")
	}

	if v, ok := params["mission_type"]; ok {
		missionType, err := domain.ParseMissionType(fmt.Sprintf("%v", v))
		if err != nil {
			return nil, err
		}
		config.MissionType = missionType
	} else {
		config.MissionType = domain.MissionStrike
	}

	tick, err := parseDuration(params, "tick_interval", time.Second)
	if err != nil {
		return nil, err
	}
	config.TickInterval = tick
	if config.TickInterval < 100*time.Millisecond || config.TickInterval > time.Minute {
		return nil, fmt.Errorf("tick_interval must be between 100ms and 1m")
	}

	duration, err := parseDuration(params, "duration", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	config.Duration = duration
	if config.Duration < config.TickInterval {
		return nil, fmt.Errorf("duration must be at least one tick")
	}

	if v, ok := params["engagement_log"]; ok {
		config.EngagementLog = fmt.Sprintf("%v", v)
	}

	return config, nil
}

func parseDuration(params map[string]interface{}, key string, fallback time.Duration) (time.Duration, error) {
	v, ok := params[key]
	if !ok {
		return fallback, nil
	}
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case string:
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		return d, nil
	default:
		d, err := time.ParseDuration(fmt.Sprintf("%v", v))
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		return d, nil
	}
}

package simulation

import (
	"fmt"
	"strconv"
	"time"
)

// Parameter value types accepted in scenario.yaml.
const (
	ParamInteger  = "integer"
	ParamFloat    = "float"
	ParamString   = "string"
	ParamBoolean  = "boolean"
	ParamDuration = "duration"
)

// ScenarioConfig is the operator-facing description of a scenario,
// loaded from the scenario.yaml next to its package. The parameter list
// drives the interactive prompts and the CONVOY_SIM_* env overrides.
type ScenarioConfig struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Version     string      `yaml:"version"`
	Category    string      `yaml:"category"`
	Parameters  []Parameter `yaml:"parameters"`
}

// Validate rejects configs the runner cannot prompt for.
func (c *ScenarioConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("scenario config missing a name")
	}
	for _, p := range c.Parameters {
		if p.Name == "" {
			return fmt.Errorf("scenario %s has a parameter with no name", c.Name)
		}
		switch p.Type {
		case ParamInteger, ParamFloat, ParamString, ParamBoolean, ParamDuration:
		default:
			return fmt.Errorf("scenario %s parameter %s has unsupported type %q",
				c.Name, p.Name, p.Type)
		}
	}
	return nil
}

// Parameter declares one tunable of a scenario: how many drones fly,
// the tick cadence, the callsign prefix. Min/Max bound numeric types;
// Options turns a string parameter into an enum select.
type Parameter struct {
	Name        string      `yaml:"name"`
	Type        string      `yaml:"type"`
	Description string      `yaml:"description"`
	Default     interface{} `yaml:"default"`
	Required    bool        `yaml:"required"`
	Min         interface{} `yaml:"min,omitempty"`
	Max         interface{} `yaml:"max,omitempty"`
	Options     []string    `yaml:"options,omitempty"`
}

// Parse converts a raw string (env override or prompt answer) into the
// parameter's declared type.
func (p Parameter) Parse(raw string) (interface{}, error) {
	switch p.Type {
	case ParamInteger:
		return strconv.Atoi(raw)
	case ParamFloat:
		return strconv.ParseFloat(raw, 64)
	case ParamString:
		return raw, nil
	case ParamBoolean:
		return strconv.ParseBool(raw)
	case ParamDuration:
		return time.ParseDuration(raw)
	default:
		return nil, fmt.Errorf("parameter %s has unsupported type %q", p.Name, p.Type)
	}
}

// MinInt and friends coerce the loosely-typed yaml bounds.

func (p Parameter) MinInt() (int, bool)       { return coerceInt(p.Min) }
func (p Parameter) MaxInt() (int, bool)       { return coerceInt(p.Max) }
func (p Parameter) MinFloat() (float64, bool) { return coerceFloat(p.Min) }
func (p Parameter) MaxFloat() (float64, bool) { return coerceFloat(p.Max) }

func coerceInt(v interface{}) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case float64:
		return int(val), true
	case string:
		i, err := strconv.Atoi(val)
		return i, err == nil
	default:
		return 0, false
	}
}

func coerceFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

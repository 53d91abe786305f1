package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"

	"github.com/picogrid/convoy-tracker/pkg/simulation"
)

// skipPromptsEnv disables interactive prompts entirely; scenario
// parameters then come from CONVOY_SIM_<NAME> overrides or defaults.
const skipPromptsEnv = "CONVOY_SIM_SKIP_PROMPTS"

// CollectParameters resolves every declared scenario parameter, asking
// the operator for anything the environment does not already answer.
func CollectParameters(params []simulation.Parameter) (map[string]interface{}, error) {
	values := make(map[string]interface{}, len(params))
	for _, param := range params {
		value, err := resolveParameter(param)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s: %w", param.Name, err)
		}
		values[param.Name] = value
	}
	return values, nil
}

// resolveParameter answers one parameter: env override, then prompt
// (with the override folded in as the default), then declared default.
func resolveParameter(param simulation.Parameter) (interface{}, error) {
	override, hasOverride, err := envOverride(param)

	if os.Getenv(skipPromptsEnv) == "true" {
		if hasOverride {
			return override, err
		}
		if param.Default != nil {
			return param.Default, nil
		}
		if param.Required {
			return nil, fmt.Errorf("required parameter %s not provided and no default available", param.Name)
		}
		return nil, nil
	}

	if hasOverride && err == nil {
		param.Default = override
	}

	switch param.Type {
	case simulation.ParamInteger:
		return askInteger(param)
	case simulation.ParamFloat:
		return askFloat(param)
	case simulation.ParamString:
		return askString(param)
	case simulation.ParamBoolean:
		return askBoolean(param)
	case simulation.ParamDuration:
		return askDuration(param)
	default:
		return nil, fmt.Errorf("unsupported parameter type: %s", param.Type)
	}
}

// envOverride reads CONVOY_SIM_<NAME> and parses it to the parameter's
// declared type.
func envOverride(param simulation.Parameter) (interface{}, bool, error) {
	raw := os.Getenv("CONVOY_SIM_" + strings.ToUpper(param.Name))
	if raw == "" {
		return nil, false, nil
	}
	value, err := param.Parse(raw)
	return value, true, err
}

func askInteger(param simulation.Parameter) (int, error) {
	answer, err := askLine(param, param.Description, true)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(answer)
	if err != nil {
		return 0, fmt.Errorf("invalid integer: %w", err)
	}
	if floor, ok := param.MinInt(); ok && value < floor {
		return 0, fmt.Errorf("value must be at least %d", floor)
	}
	if ceil, ok := param.MaxInt(); ok && value > ceil {
		return 0, fmt.Errorf("value must be at most %d", ceil)
	}
	return value, nil
}

func askFloat(param simulation.Parameter) (float64, error) {
	answer, err := askLine(param, param.Description, true)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseFloat(answer, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %w", err)
	}
	if floor, ok := param.MinFloat(); ok && value < floor {
		return 0, fmt.Errorf("value must be at least %g", floor)
	}
	if ceil, ok := param.MaxFloat(); ok && value > ceil {
		return 0, fmt.Errorf("value must be at most %g", ceil)
	}
	return value, nil
}

func askString(param simulation.Parameter) (string, error) {
	if len(param.Options) > 0 {
		prompt := &survey.Select{
			Message: param.Description,
			Options: param.Options,
			Default: defaultString(param),
		}
		var answer string
		if err := survey.AskOne(prompt, &answer); err != nil {
			return "", err
		}
		return answer, nil
	}
	return askLine(param, param.Description, param.Required)
}

func askBoolean(param simulation.Parameter) (bool, error) {
	defaultBool := false
	switch v := param.Default.(type) {
	case bool:
		defaultBool = v
	case string:
		defaultBool = v == "true" || v == "yes" || v == "1"
	}

	prompt := &survey.Confirm{
		Message: param.Description,
		Default: defaultBool,
	}
	var answer bool
	if err := survey.AskOne(prompt, &answer); err != nil {
		return false, err
	}
	return answer, nil
}

func askDuration(param simulation.Parameter) (time.Duration, error) {
	prompt := &survey.Input{
		Message: param.Description + " (e.g., 5m, 1h30m, 30s)",
		Default: defaultString(param),
	}
	var answer string
	validator := func(val interface{}) error {
		if _, err := time.ParseDuration(val.(string)); err != nil {
			return fmt.Errorf("invalid duration format (use formats like 5m, 1h30m, 30s)")
		}
		return nil
	}
	if err := survey.AskOne(prompt, &answer, survey.WithValidator(validator)); err != nil {
		return 0, err
	}
	return time.ParseDuration(answer)
}

// askLine runs a plain input prompt seeded with the parameter default.
func askLine(param simulation.Parameter, message string, required bool) (string, error) {
	prompt := &survey.Input{
		Message: message,
		Default: defaultString(param),
	}
	opts := []survey.AskOpt{}
	if required {
		opts = append(opts, survey.WithValidator(survey.Required))
	}
	var answer string
	if err := survey.AskOne(prompt, &answer, opts...); err != nil {
		return "", err
	}
	return answer, nil
}

func defaultString(param simulation.Parameter) string {
	if param.Default == nil {
		return ""
	}
	return fmt.Sprintf("%v", param.Default)
}

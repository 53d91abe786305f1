package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picogrid/convoy-tracker/pkg/simulation"
)

func TestCollectParametersFromEnv(t *testing.T) {
	t.Setenv("CONVOY_SIM_SKIP_PROMPTS", "true")
	t.Setenv("CONVOY_SIM_NUM_DRONES", "8")

	values, err := CollectParameters([]simulation.Parameter{
		{Name: "num_drones", Type: simulation.ParamInteger, Default: 4},
		{Name: "callsign", Type: simulation.ParamString, Default: "REAPER", Required: true},
		{Name: "engagement_log", Type: simulation.ParamString},
	})
	require.NoError(t, err)

	assert.Equal(t, 8, values["num_drones"])
	assert.Equal(t, "REAPER", values["callsign"])
	assert.Nil(t, values["engagement_log"])
}

func TestCollectParametersRejectsBadOverride(t *testing.T) {
	t.Setenv("CONVOY_SIM_SKIP_PROMPTS", "true")
	t.Setenv("CONVOY_SIM_NUM_DRONES", "six")

	_, err := CollectParameters([]simulation.Parameter{
		{Name: "num_drones", Type: simulation.ParamInteger, Default: 4},
	})
	assert.ErrorContains(t, err, "num_drones")
}

func TestCollectParametersMissingRequired(t *testing.T) {
	t.Setenv("CONVOY_SIM_SKIP_PROMPTS", "true")

	_, err := CollectParameters([]simulation.Parameter{
		{Name: "callsign", Type: simulation.ParamString, Required: true},
	})
	assert.ErrorContains(t, err, "callsign")
}

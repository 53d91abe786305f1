package simulation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picogrid/convoy-tracker/pkg/client"
)

type stubScenario struct{ name string }

func (s *stubScenario) Name() string                              { return s.name }
func (s *stubScenario) Description() string                       { return "" }
func (s *stubScenario) Configure(map[string]interface{}) error    { return nil }
func (s *stubScenario) Run(context.Context, *client.Client) error { return nil }
func (s *stubScenario) Stop() error                               { return nil }

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register("bravo", func() Scenario { return &stubScenario{name: "bravo"} }))
	require.NoError(t, reg.Register("alpha", func() Scenario { return &stubScenario{name: "alpha"} }))

	err := reg.Register("alpha", func() Scenario { return &stubScenario{name: "alpha"} })
	assert.ErrorContains(t, err, "already registered")

	scn, err := reg.Get("alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", scn.Name())

	_, err = reg.Get("missing")
	assert.ErrorContains(t, err, "not found")

	assert.Equal(t, []string{"alpha", "bravo"}, reg.List())
}

func TestScenarioConfigValidate(t *testing.T) {
	valid := ScenarioConfig{
		Name: "strike-mission",
		Parameters: []Parameter{
			{Name: "num_drones", Type: ParamInteger},
			{Name: "tick_interval", Type: ParamDuration},
		},
	}
	require.NoError(t, valid.Validate())

	noName := ScenarioConfig{}
	assert.ErrorContains(t, noName.Validate(), "missing a name")

	badType := ScenarioConfig{
		Name:       "strike-mission",
		Parameters: []Parameter{{Name: "num_drones", Type: "decimal"}},
	}
	assert.ErrorContains(t, badType.Validate(), "unsupported type")
}

func TestParameterParse(t *testing.T) {
	count, err := Parameter{Name: "num_drones", Type: ParamInteger}.Parse("6")
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	radius, err := Parameter{Name: "radius", Type: ParamFloat}.Parse("42.5")
	require.NoError(t, err)
	assert.Equal(t, 42.5, radius)

	tick, err := Parameter{Name: "tick_interval", Type: ParamDuration}.Parse("30s")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, tick)

	enabled, err := Parameter{Name: "log", Type: ParamBoolean}.Parse("true")
	require.NoError(t, err)
	assert.Equal(t, true, enabled)

	_, err = Parameter{Name: "num_drones", Type: ParamInteger}.Parse("six")
	assert.Error(t, err)

	_, err = Parameter{Name: "odd", Type: "decimal"}.Parse("1")
	assert.ErrorContains(t, err, "unsupported type")
}

func TestParameterBounds(t *testing.T) {
	// yaml decodes numeric bounds as int or float64 depending on the
	// literal; both must coerce.
	p := Parameter{Type: ParamInteger, Min: 1, Max: float64(12)}

	floor, ok := p.MinInt()
	require.True(t, ok)
	assert.Equal(t, 1, floor)

	ceil, ok := p.MaxInt()
	require.True(t, ok)
	assert.Equal(t, 12, ceil)

	_, ok = Parameter{}.MinInt()
	assert.False(t, ok)
}

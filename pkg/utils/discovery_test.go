package utils

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverScenarios(t *testing.T) {
	infos, err := DiscoverScenarios()
	require.NoError(t, err)
	require.NotEmpty(t, infos)

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		require.NoError(t, info.Config.Validate())
		assert.NotEmpty(t, info.Dir)
		names = append(names, info.Config.Name)
	}

	assert.Contains(t, names, "strike-mission")
	assert.Contains(t, names, "accuracy-burst")
	assert.True(t, sort.StringsAreSorted(names))
}

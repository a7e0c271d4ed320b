package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigYAML_OverridesOnlyGivenFields(t *testing.T) {
	cfg, err := LoadConfigYAML([]byte("forceReanalysis: true\n"))
	require.NoError(t, err)
	assert.True(t, cfg.ForceReanalysis)
	assert.Equal(t, DefaultConfig().MaxAsyncTraceDepth, cfg.MaxAsyncTraceDepth)
}

func TestMarshalConfigYAML_RoundTrips(t *testing.T) {
	original := NewConfig(WithForceReanalysis(true), WithMaxAsyncTraceDepth(3))
	data, err := MarshalConfigYAML(original)
	require.NoError(t, err)

	decoded, err := LoadConfigYAML(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

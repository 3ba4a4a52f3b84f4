package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresets_AllValid(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			spec, err := Preset(name)
			require.NoError(t, err)
			assert.NoError(t, spec.Validate())
		})
	}
}

func TestPreset_Unknown(t *testing.T) {
	_, err := Preset("casino")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bank")
}

func TestPreset_ReturnsFreshCopy(t *testing.T) {
	a, err := Preset("lab")
	require.NoError(t, err)
	a.Arrivals.Intervals[0] = 99
	b, err := Preset("lab")
	require.NoError(t, err)
	assert.Equal(t, 0.4, b.Arrivals.Intervals[0])
}

func TestPresetBank_Shape(t *testing.T) {
	spec := PresetBank()
	assert.Equal(t, 5, spec.Buffers)
	assert.Equal(t, MinutesPerDay, spec.StopTime())
	assert.InDelta(t, 1.0/60, spec.Servers.Service.Min, 1e-12)
	assert.Equal(t, 4.1, spec.Servers.Alternate.Mean)
}

func TestPresetNames_Sorted(t *testing.T) {
	assert.Equal(t, []string{"bank", "lab", "post-office"}, PresetNames())
}

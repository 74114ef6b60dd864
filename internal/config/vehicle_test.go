package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSpecJSON = `{
	"full_name": "McLaren F1",
	"stats": {
		"mass": 1200,
		"min_rpm": 1000,
		"max_rpm": 8000,
		"torque_samples": [300, 310, 320, 330, 340, 330, 320, 300],
		"power_samples": [40, 80, 130, 180, 230, 270, 300, 320],
		"sampling_start": 1000,
		"sampling_precision": 1000,
		"front_area": 1.8,
		"drag_coefficient": 0.32
	},
	"geometry": {
		"width": 1.82,
		"length": 4.29,
		"wheelbase": 2.72
	},
	"wheels": {
		"radius": 0.33,
		"static_friction": 0.9,
		"max_turning_angle": 30
	},
	"transmission": [0, 3.23, 2.19, 1.71, 1.39, 1.16, 0.93],
	"transmission_base": 2.37,
	"transmission_shift_time": 0.35
}`

func TestParseVehicleSpec_Valid(t *testing.T) {
	spec, err := ParseVehicleSpec([]byte(validSpecJSON))
	require.NoError(t, err)

	assert.Equal(t, "McLaren F1", spec.Name)
	assert.Equal(t, 1200.0, spec.Stats.Mass)
	assert.Len(t, spec.Stats.TorqueSamples, 8)
	assert.Equal(t, 2.72, spec.Geometry.Wheelbase)
	assert.Equal(t, 0.33, spec.Wheels.Radius)
	assert.Len(t, spec.Transmission, 7)
	assert.Equal(t, 2.37, spec.TransmissionBase)
	assert.Equal(t, 0.35, spec.TransmissionShiftTime)
}

func TestParseVehicleSpec_MalformedJSON(t *testing.T) {
	_, err := ParseVehicleSpec([]byte(`{"full_name": `))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error parsing vehicle spec")
}

func TestParseVehicleSpec_FailsValidation(t *testing.T) {
	_, err := ParseVehicleSpec([]byte(`{
		"full_name": "Brick",
		"stats": {
			"mass": 1000,
			"max_rpm": 8000,
			"torque_samples": [100, 200],
			"power_samples": [100],
			"sampling_start": 1000,
			"sampling_precision": 1000
		}
	}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), `vehicle "Brick"`)
	assert.Contains(t, err.Error(), "inconsistent amount of torque and power samples")
}

func TestLoadVehicleSpec(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "McLarenF1.json"), []byte(validSpecJSON), 0644))

	spec, err := LoadVehicleSpec(dir, "McLarenF1")
	require.NoError(t, err)
	assert.Equal(t, "McLaren F1", spec.Name)
}

func TestLoadVehicleSpec_MissingFile(t *testing.T) {
	_, err := LoadVehicleSpec(t.TempDir(), "NoSuchCar")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading vehicle spec")
	assert.Contains(t, err.Error(), "NoSuchCar.json")
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/streetracer/sim/pkg/core"
)

// LoadVehicleSpec reads and validates a vehicle spec file. name is the
// file name without the .json extension, resolved against vehiclesDir.
func LoadVehicleSpec(vehiclesDir, name string) (core.VehicleSpec, error) {
	path := filepath.Join(vehiclesDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return core.VehicleSpec{}, fmt.Errorf("error reading vehicle spec %q: %w", path, err)
	}
	return ParseVehicleSpec(data)
}

// ParseVehicleSpec decodes a vehicle spec from JSON and validates it.
// Any violation is a construction-time fatal error naming the vehicle;
// no partially valid spec is returned.
func ParseVehicleSpec(data []byte) (core.VehicleSpec, error) {
	var spec core.VehicleSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return core.VehicleSpec{}, fmt.Errorf("error parsing vehicle spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return core.VehicleSpec{}, err
	}
	return spec, nil
}

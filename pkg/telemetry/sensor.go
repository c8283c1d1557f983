package telemetry

import (
	"fmt"

	"github.com/lobocorp/modbus-edge-supervisor/pkg/registers"
)

// SensorDescriptor is a logical channel derived from (UnitId, capability,
// field): a stable id, its physical unit, optional alarm thresholds, and
// an enabled flag.
type SensorDescriptor struct {
	ID      string
	UnitID  uint8
	Field   string
	Unit    string
	AlarmLo *float64
	AlarmHi *float64
	Enabled bool
}

// SensorID returns the stable id for a (unit, field) pair.
func SensorID(unit uint8, field string) string {
	return fmt.Sprintf("%d:%s", unit, field)
}

// BuildCatalog derives the sensor set for a unit purely from its
// advertised capabilities — no state, no I/O.
func BuildCatalog(unit uint8, caps registers.Capability) []SensorDescriptor {
	var catalog []SensorDescriptor
	add := func(field, unitStr string) {
		catalog = append(catalog, SensorDescriptor{
			ID:      SensorID(unit, field),
			UnitID:  unit,
			Field:   field,
			Unit:    unitStr,
			Enabled: true,
		})
	}

	if caps.Has(registers.CapabilityMPU6050) {
		add("tilt_x", "deg")
		add("tilt_y", "deg")
		add("temperature", "degC")
		add("accel_x", "g")
		add("accel_y", "g")
		add("accel_z", "g")
		add("gyro_x", "deg/s")
		add("gyro_y", "deg/s")
		add("gyro_z", "deg/s")
	}
	if caps.Has(registers.CapabilityLoad) {
		add("load", "kg")
	}
	if caps.Has(registers.CapabilityWind) {
		add("wind_speed", "m/s")
		add("wind_direction", "deg")
	}
	return catalog
}

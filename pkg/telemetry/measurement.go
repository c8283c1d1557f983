package telemetry

import (
	"time"

	"github.com/lobocorp/modbus-edge-supervisor/pkg/registers"
)

// Quality classifies a Measurement's reliability.
type Quality uint8

const (
	QualityOK Quality = iota
	QualityWarn
	QualityAlarm
	QualityErrorComms
)

func (q Quality) String() string {
	switch q {
	case QualityOK:
		return "OK"
	case QualityWarn:
		return "WARN"
	case QualityAlarm:
		return "ALARM"
	case QualityErrorComms:
		return "ERROR_COMMS"
	default:
		return "UNKNOWN"
	}
}

// Measurement is one decoded channel reading for one sensor at one instant.
type Measurement struct {
	Timestamp    time.Time
	SensorID     string
	UnitID       uint8
	Field        string
	Value        float64
	Unit         string
	Quality      Quality
	SentUpstream bool
}

// FromTelemetry derives one Measurement per channel present in tel,
// following the sensor catalog built for this unit's capability set.
func FromTelemetry(unit uint8, ts time.Time, tel registers.Telemetry) []Measurement {
	type reading struct {
		field string
		value float64
		ok    bool
	}

	readings := []reading{
		{"tilt_x", tel.TiltX, tel.HasMPU},
		{"tilt_y", tel.TiltY, tel.HasMPU},
		{"temperature", tel.Temperature, tel.HasMPU},
		{"accel_x", tel.AccelX, tel.HasMPU},
		{"accel_y", tel.AccelY, tel.HasMPU},
		{"accel_z", tel.AccelZ, tel.HasMPU},
		{"gyro_x", tel.GyroX, tel.HasMPU},
		{"gyro_y", tel.GyroY, tel.HasMPU},
		{"gyro_z", tel.GyroZ, tel.HasMPU},
		{"load", tel.LoadKg, tel.HasLoad},
		{"wind_speed", tel.WindSpeed, tel.HasWind},
		{"wind_direction", tel.WindDirection, tel.HasWind},
	}

	units := map[string]string{
		"tilt_x": "deg", "tilt_y": "deg", "temperature": "degC",
		"accel_x": "g", "accel_y": "g", "accel_z": "g",
		"gyro_x": "deg/s", "gyro_y": "deg/s", "gyro_z": "deg/s",
		"load": "kg", "wind_speed": "m/s", "wind_direction": "deg",
	}

	out := make([]Measurement, 0, len(readings))
	for _, r := range readings {
		if !r.ok {
			continue
		}
		out = append(out, Measurement{
			Timestamp: ts,
			SensorID:  SensorID(unit, r.field),
			UnitID:    unit,
			Field:     r.field,
			Value:     r.value,
			Unit:      units[r.field],
			Quality:   QualityOK,
		})
	}
	return out
}

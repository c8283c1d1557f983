package eventbus

import (
	"time"

	"github.com/lobocorp/modbus-edge-supervisor/pkg/identity"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/registers"
)

// DiscoveryProgress reports one probed unit during a scan.
type DiscoveryProgress struct {
	Current int
	Total   int
	UnitID  uint8
}

// DiscoveryComplete reports every unit found by a completed scan.
type DiscoveryComplete struct {
	Devices []uint8
}

// DeviceFound announces one unit enrolling during a scan, published
// immediately on the hit rather than deferred to DiscoveryComplete.
type DeviceFound struct {
	UnitID   uint8
	Identity identity.DeviceIdentity
}

// TelemetryEvent is one decoded sample routed to the alert engine and the
// uplink dispatcher.
type TelemetryEvent struct {
	UnitID    uint8
	Alias     string
	Timestamp time.Time
	Channels  registers.Telemetry
}

// DiagnosticEvent is emitted roughly once per device per ~10s, carrying the
// device's own self-reported identity and modbus diagnostics.
type DiagnosticEvent struct {
	UnitID       uint8
	Identity     identity.DeviceIdentity
	ModbusStats  registers.DiagnosticsBlock
	QualityFlags uint16
}

// AlertLevel classifies an alert's severity.
type AlertLevel string

const (
	AlertLevelWarn  AlertLevel = "WARN"
	AlertLevelAlarm AlertLevel = "ALARM"
)

// AlertCode identifies an alert condition.
type AlertCode string

const (
	AlertCodeThresholdLo AlertCode = "THRESHOLD_EXCEEDED_LO"
	AlertCodeThresholdHi AlertCode = "THRESHOLD_EXCEEDED_HI"
	AlertCodeOffline     AlertCode = "DEVICE_OFFLINE"
)

// Alert is a single raised condition on a sensor.
type Alert struct {
	ID        string
	SensorID  string
	UnitID    uint8
	Code      AlertCode
	Level     AlertLevel
	Value     float64
	RaisedAt  time.Time
	Acked     bool
	AckedAt   time.Time
}

// AlertEvent announces a newly raised alert.
type AlertEvent struct {
	Alert Alert
}

// AlertAcknowledged announces an alert moving to the acknowledged state.
type AlertAcknowledged struct {
	AlertID string
	Auto    bool
	Reason  string
}

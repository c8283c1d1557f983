package uplink

import (
	"context"
	"time"

	"github.com/lobocorp/modbus-edge-supervisor/pkg/eventbus"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/telemetry"
)

// DeviceSensors is one device's advertised sensor set, as published by
// PublishActiveSensorsList.
type DeviceSensors struct {
	DeviceID string
	Sensors  []telemetry.SensorDescriptor
}

// Sink is the IoT uplink collaborator contract. Implementations are
// expected to buffer internally; a call must not block the polling tick.
type Sink interface {
	PublishMeasurement(ctx context.Context, deviceID, sensorID, sensorType string, value float64, unit string, ts time.Time, quality telemetry.Quality, extra map[string]any) error
	PublishAlert(ctx context.Context, alertID string, level eventbus.AlertLevel, code eventbus.AlertCode, message, deviceID, sensorID string, ts time.Time, ack bool) error
	PublishDeviceAttributes(ctx context.Context, deviceName string, attributes map[string]any, force bool) error
	PublishActiveSensorsList(ctx context.Context, devices []DeviceSensors) error
}

// CommandHandler optionally receives remote commands routed back from the
// uplink. Implementing it is not required to satisfy Sink.
type CommandHandler interface {
	OnRemoteCommand(ctx context.Context, method string, params map[string]any) (any, error)
}

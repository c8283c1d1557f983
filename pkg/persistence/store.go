package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/lobocorp/modbus-edge-supervisor/pkg/eventbus"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/identity"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/telemetry"
)

// ErrNotFound is returned when an acknowledge/lookup targets an id the store
// has no record of.
var ErrNotFound = errors.New("persistence: not found")

// DeviceRecord is the durable device row: a device's last-known identity
// plus the operator-facing fields the core doesn't otherwise track.
type DeviceRecord struct {
	Identity identity.DeviceIdentity
	RigID    string
	Enabled  bool
	LastSeen time.Time
}

// Store is the persistence sink collaborator contract: durable storage for
// devices, sensors, measurements, and alerts, independent of backing engine.
type Store interface {
	UpsertDevice(ctx context.Context, rec DeviceRecord) error
	UpsertSensor(ctx context.Context, s telemetry.SensorDescriptor) error
	InsertMeasurement(ctx context.Context, m telemetry.Measurement) (int64, error)
	MarkSentUpstream(ctx context.Context, ids []int64) error
	InsertAlert(ctx context.Context, a eventbus.Alert) (int64, error)
	AcknowledgeAlert(ctx context.Context, id int64) error
	GetUnacknowledgedAlerts(ctx context.Context) ([]eventbus.Alert, error)
	UpdateDeviceLastSeen(ctx context.Context, unit uint8, seen time.Time) error
}

package uplink

import (
	"context"
	"fmt"

	"github.com/lobocorp/modbus-edge-supervisor/pkg/eventbus"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/log"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/persistence"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/registers"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/telemetry"
)

// Dispatcher fans out one decoded telemetry frame to the persistence store
// and the uplink sink, synchronously, inside the poller's transaction
// success path. A failing sink is logged and skipped, never retried here.
type Dispatcher struct {
	store  persistence.Store
	sink   Sink
	logger log.Logger
}

// New returns a Dispatcher wired to the given persistence store and uplink
// sink. Either may be nil to disable that leg.
func New(store persistence.Store, sink Sink, logger log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Dispatcher{store: store, sink: sink, logger: logger}
}

// DeviceID returns the identifier a measurement or alert is attributed to:
// the device's alias if set, else a unit-number-derived fallback.
func DeviceID(unit uint8, alias string) string {
	if alias != "" {
		return alias
	}
	return fmt.Sprintf("unit_%d", unit)
}

// Dispatch derives one Measurement per channel present in evt.Channels and,
// for each, inserts it into the store then publishes it to the sink.
func (d *Dispatcher) Dispatch(ctx context.Context, evt eventbus.TelemetryEvent) []telemetry.Measurement {
	measurements := telemetry.FromTelemetry(evt.UnitID, evt.Timestamp, evt.Channels)
	deviceID := DeviceID(evt.UnitID, evt.Alias)

	for _, m := range measurements {
		d.dispatchOne(ctx, deviceID, m)
	}
	return measurements
}

func (d *Dispatcher) dispatchOne(ctx context.Context, deviceID string, m telemetry.Measurement) {
	if d.store != nil {
		if _, err := d.store.InsertMeasurement(ctx, m); err != nil {
			d.logError("insert measurement", err)
		}
	}
	if d.sink != nil {
		err := d.sink.PublishMeasurement(ctx, deviceID, m.SensorID, m.Field, m.Value, m.Unit, m.Timestamp, m.Quality, nil)
		if err != nil {
			d.logError("publish measurement", err)
		}
	}
}

func (d *Dispatcher) logError(context string, err error) {
	d.logger.Log(log.Event{
		Layer:    log.LayerPoller,
		Category: log.CategoryError,
		Error:    &log.ErrorEventData{Layer: log.LayerPoller, Message: err.Error(), Context: context},
	})
}

// DispatchDeviceAttributes publishes a device's identity fields as uplink
// attributes, used after discovery or a successful diagnostic read.
func (d *Dispatcher) DispatchDeviceAttributes(ctx context.Context, unit uint8, alias string, caps registers.Capability, force bool) {
	if d.sink == nil {
		return
	}
	attrs := map[string]any{
		"capabilities": caps.String(),
		"unit_id":      unit,
	}
	if err := d.sink.PublishDeviceAttributes(ctx, DeviceID(unit, alias), attrs, force); err != nil {
		d.logError("publish device attributes", err)
	}
}

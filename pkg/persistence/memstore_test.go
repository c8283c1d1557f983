package persistence

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/lobocorp/modbus-edge-supervisor/pkg/eventbus"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/identity"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/telemetry"
)

func TestUpsertAndFetchDevice(t *testing.T) {
	s := NewMemStore(nil)
	ctx := context.Background()

	rec := DeviceRecord{
		Identity: identity.DeviceIdentity{UnitID: 4, VendorID: "Lo"},
		RigID:    "rig-1",
		Enabled:  true,
	}
	if err := s.UpsertDevice(ctx, rec); err != nil {
		t.Fatalf("UpsertDevice: %v", err)
	}

	got, ok := s.Device(4)
	if !ok || got.RigID != "rig-1" || !got.Enabled {
		t.Errorf("device = %+v, ok=%v", got, ok)
	}
}

func TestUpdateDeviceLastSeenRequiresExistingDevice(t *testing.T) {
	s := NewMemStore(nil)
	ctx := context.Background()

	if err := s.UpdateDeviceLastSeen(ctx, 9, time.Now()); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	rec := DeviceRecord{Identity: identity.DeviceIdentity{UnitID: 9}}
	if err := s.UpsertDevice(ctx, rec); err != nil {
		t.Fatalf("UpsertDevice: %v", err)
	}
	seen := time.Now()
	if err := s.UpdateDeviceLastSeen(ctx, 9, seen); err != nil {
		t.Fatalf("UpdateDeviceLastSeen: %v", err)
	}
	got, _ := s.Device(9)
	if !got.LastSeen.Equal(seen) {
		t.Errorf("last seen = %v, want %v", got.LastSeen, seen)
	}
}

func TestInsertMeasurementAssignsIncreasingIDs(t *testing.T) {
	s := NewMemStore(nil)
	ctx := context.Background()

	id1, err := s.InsertMeasurement(ctx, telemetry.Measurement{Field: "load"})
	if err != nil {
		t.Fatalf("InsertMeasurement: %v", err)
	}
	id2, err := s.InsertMeasurement(ctx, telemetry.Measurement{Field: "tilt_x"})
	if err != nil {
		t.Fatalf("InsertMeasurement: %v", err)
	}
	if id2 != id1+1 {
		t.Errorf("id2 = %d, want %d", id2, id1+1)
	}
}

func TestMarkSentUpstreamFlagsMeasurements(t *testing.T) {
	s := NewMemStore(nil)
	ctx := context.Background()

	id, _ := s.InsertMeasurement(ctx, telemetry.Measurement{Field: "load"})
	if err := s.MarkSentUpstream(ctx, []int64{id}); err != nil {
		t.Fatalf("MarkSentUpstream: %v", err)
	}
	m, ok := s.Measurement(id)
	if !ok || !m.SentUpstream {
		t.Errorf("measurement = %+v, ok=%v", m, ok)
	}
}

func TestAlertLifecycle(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemStore(func() time.Time { return fixed })
	ctx := context.Background()

	id, err := s.InsertAlert(ctx, eventbus.Alert{SensorID: "2:load", Code: eventbus.AlertCodeThresholdHi})
	if err != nil {
		t.Fatalf("InsertAlert: %v", err)
	}

	unacked, err := s.GetUnacknowledgedAlerts(ctx)
	if err != nil || len(unacked) != 1 {
		t.Fatalf("unacked = %+v, err = %v", unacked, err)
	}
	if unacked[0].ID != strconv.FormatInt(id, 10) {
		t.Errorf("stored alert ID = %q, want %q", unacked[0].ID, strconv.FormatInt(id, 10))
	}

	if err := s.AcknowledgeAlert(ctx, id); err != nil {
		t.Fatalf("AcknowledgeAlert: %v", err)
	}
	unacked, _ = s.GetUnacknowledgedAlerts(ctx)
	if len(unacked) != 0 {
		t.Errorf("unacked = %+v, want empty after ack", unacked)
	}

	if err := s.AcknowledgeAlert(ctx, 999); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

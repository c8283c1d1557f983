package persistence

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/lobocorp/modbus-edge-supervisor/pkg/eventbus"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/telemetry"
)

// MemStore is an in-memory Store, suitable for tests and for running the
// supervisor without a durable backend wired in.
type MemStore struct {
	mu  sync.Mutex
	now func() time.Time

	devices map[uint8]DeviceRecord
	sensors map[string]telemetry.SensorDescriptor

	nextMeasurementID int64
	measurements      map[int64]telemetry.Measurement

	nextAlertID int64
	alerts      map[int64]eventbus.Alert
}

// NewMemStore returns an empty MemStore. now defaults to time.Now when nil.
func NewMemStore(now func() time.Time) *MemStore {
	if now == nil {
		now = time.Now
	}
	return &MemStore{
		now:          now,
		devices:      make(map[uint8]DeviceRecord),
		sensors:      make(map[string]telemetry.SensorDescriptor),
		measurements: make(map[int64]telemetry.Measurement),
		alerts:       make(map[int64]eventbus.Alert),
	}
}

func (s *MemStore) UpsertDevice(ctx context.Context, rec DeviceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices[rec.Identity.UnitID] = rec
	return nil
}

func (s *MemStore) UpsertSensor(ctx context.Context, sd telemetry.SensorDescriptor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sensors[sd.ID] = sd
	return nil
}

func (s *MemStore) InsertMeasurement(ctx context.Context, m telemetry.Measurement) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMeasurementID++
	id := s.nextMeasurementID
	s.measurements[id] = m
	return id, nil
}

func (s *MemStore) MarkSentUpstream(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if m, ok := s.measurements[id]; ok {
			m.SentUpstream = true
			s.measurements[id] = m
		}
	}
	return nil
}

func (s *MemStore) InsertAlert(ctx context.Context, a eventbus.Alert) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAlertID++
	id := s.nextAlertID
	a.ID = strconv.FormatInt(id, 10)
	s.alerts[id] = a
	return id, nil
}

func (s *MemStore) AcknowledgeAlert(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alerts[id]
	if !ok {
		return ErrNotFound
	}
	a.Acked = true
	a.AckedAt = s.now()
	s.alerts[id] = a
	return nil
}

func (s *MemStore) GetUnacknowledgedAlerts(ctx context.Context) ([]eventbus.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []eventbus.Alert
	for _, a := range s.alerts {
		if !a.Acked {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *MemStore) UpdateDeviceLastSeen(ctx context.Context, unit uint8, seen time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.devices[unit]
	if !ok {
		return ErrNotFound
	}
	rec.LastSeen = seen
	s.devices[unit] = rec
	return nil
}

// Measurement returns the stored measurement by id, for tests.
func (s *MemStore) Measurement(id int64) (telemetry.Measurement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.measurements[id]
	return m, ok
}

// Device returns the stored device record by unit id, for tests.
func (s *MemStore) Device(unit uint8) (DeviceRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.devices[unit]
	return rec, ok
}

package alerts

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/lobocorp/modbus-edge-supervisor/pkg/eventbus"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/identity"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/log"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/persistence"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/telemetry"
)

// offlineSensorID returns the synthetic sensor id an offline alert for unit
// is keyed by (device_<unit>), recovered from stored rows by the rebuild
// path without needing to parse free-form alert message text.
func offlineSensorID(unit uint8) string {
	return fmt.Sprintf("device_%d", unit)
}

// activeKey identifies one active alert slot.
type activeKey struct {
	sensorID string
	code     eventbus.AlertCode
}

type activeEntry struct {
	storeID     int64
	lastEmitted time.Time
}

// Engine evaluates measurements and device liveness against configured
// thresholds, raising and auto-acknowledging alerts through the
// persistence store and event bus.
type Engine struct {
	mu sync.Mutex

	store  persistence.Store
	cache  *identity.Cache
	bus    *eventbus.Bus
	logger log.Logger

	debounceWindow time.Duration
	deviceTimeout  time.Duration
	maxPerHour     int

	active    map[activeKey]*activeEntry
	emissions map[activeKey][]time.Time
}

// New constructs an Engine. maxPerHour of 0 disables the rate cap.
func New(store persistence.Store, cache *identity.Cache, bus *eventbus.Bus, logger log.Logger, debounceWindow, deviceTimeout time.Duration, maxPerHour int) *Engine {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Engine{
		store:          store,
		cache:          cache,
		bus:            bus,
		logger:         logger,
		debounceWindow: debounceWindow,
		deviceTimeout:  deviceTimeout,
		maxPerHour:     maxPerHour,
		active:         make(map[activeKey]*activeEntry),
		emissions:      make(map[activeKey][]time.Time),
	}
}

// RebuildActiveAlerts reconstructs the active-alert cache from the store's
// unacknowledged alerts at startup. Offline alert units are recovered from
// the stored sensor id's "device_<unit>" form. Each row's store id is
// recovered from Alert.ID so a pre-restart alert can still be acknowledged
// through the store once it clears.
func (e *Engine) RebuildActiveAlerts(ctx context.Context) error {
	rows, err := e.store.GetUnacknowledgedAlerts(ctx)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, a := range rows {
		storeID, err := strconv.ParseInt(a.ID, 10, 64)
		if err != nil {
			e.logError("rebuild active alerts: parse alert id", err)
			continue
		}
		key := activeKey{sensorID: a.SensorID, code: a.Code}
		e.active[key] = &activeEntry{storeID: storeID, lastEmitted: a.RaisedAt}
	}
	return nil
}

// EvaluateMeasurement applies threshold evaluation to one Measurement for
// the given sensor descriptor. No-op if the sensor has no thresholds set.
func (e *Engine) EvaluateMeasurement(ctx context.Context, sensor telemetry.SensorDescriptor, m telemetry.Measurement) {
	if sensor.AlarmLo == nil && sensor.AlarmHi == nil {
		return
	}

	lo, hi := math.Inf(-1), math.Inf(1)
	if sensor.AlarmLo != nil {
		lo = *sensor.AlarmLo
	}
	if sensor.AlarmHi != nil {
		hi = *sensor.AlarmHi
	}

	if m.Value >= lo && m.Value <= hi {
		reason := fmt.Sprintf("value %.2f back in range", m.Value)
		e.autoAck(ctx, sensor.ID, eventbus.AlertCodeThresholdLo, reason)
		e.autoAck(ctx, sensor.ID, eventbus.AlertCodeThresholdHi, reason)
		return
	}

	code := eventbus.AlertCodeThresholdHi
	if m.Value < lo {
		code = eventbus.AlertCodeThresholdLo
	}
	e.raise(ctx, sensor.ID, m.UnitID, code, eventbus.AlertLevelAlarm, m.Value, m.Timestamp)
}

// EvaluateLiveness checks every unit the cache knows about against
// deviceTimeout, raising or auto-acknowledging DEVICE_OFFLINE alerts.
func (e *Engine) EvaluateLiveness(ctx context.Context, at time.Time) {
	for _, unit := range e.cache.UnitIDs() {
		_, state, ok := e.cache.Get(unit)
		if !ok {
			continue
		}
		elapsed := at.Sub(state.LastSeen)
		sensorID := offlineSensorID(unit)
		if elapsed <= e.deviceTimeout {
			e.autoAck(ctx, sensorID, eventbus.AlertCodeOffline, fmt.Sprintf("unit %d responded again", unit))
			continue
		}
		e.raise(ctx, sensorID, unit, eventbus.AlertCodeOffline, eventbus.AlertLevelWarn, elapsed.Seconds(), at)
	}
}

// RemoveDevice auto-acknowledges every active alert for unit and purges its
// cache entries, used when a unit is administratively removed from polling.
func (e *Engine) RemoveDevice(ctx context.Context, unit uint8) {
	e.mu.Lock()
	var keys []activeKey
	for k := range e.active {
		if k.sensorID == offlineSensorID(unit) {
			keys = append(keys, k)
			continue
		}
		var u uint8
		if n, err := fmt.Sscanf(k.sensorID, "%d:", &u); err == nil && n == 1 && u == unit {
			keys = append(keys, k)
		}
	}
	e.mu.Unlock()

	for _, k := range keys {
		e.autoAck(ctx, k.sensorID, k.code, fmt.Sprintf("unit %d removed", unit))
	}
}

func (e *Engine) raise(ctx context.Context, sensorID string, unit uint8, code eventbus.AlertCode, level eventbus.AlertLevel, value float64, at time.Time) {
	key := activeKey{sensorID: sensorID, code: code}

	e.mu.Lock()
	if entry, ok := e.active[key]; ok && at.Sub(entry.lastEmitted) < e.debounceWindow {
		e.mu.Unlock()
		return
	}
	if e.maxPerHour > 0 && e.rateLimitedLocked(key, at) {
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	alert := eventbus.Alert{
		SensorID: sensorID,
		UnitID:   unit,
		Code:     code,
		Level:    level,
		Value:    value,
		RaisedAt: at,
	}
	id, err := e.store.InsertAlert(ctx, alert)
	if err != nil {
		e.logError("insert alert", err)
		return
	}

	e.mu.Lock()
	e.active[key] = &activeEntry{storeID: id, lastEmitted: at}
	e.mu.Unlock()

	if e.bus != nil {
		e.bus.Publish(eventbus.AlertEvent{Alert: alert})
	}
}

func (e *Engine) autoAck(ctx context.Context, sensorID string, code eventbus.AlertCode, reason string) {
	key := activeKey{sensorID: sensorID, code: code}

	e.mu.Lock()
	entry, ok := e.active[key]
	if ok {
		delete(e.active, key)
	}
	e.mu.Unlock()
	if !ok {
		return
	}

	if err := e.store.AcknowledgeAlert(ctx, entry.storeID); err != nil {
		e.logError("acknowledge alert", err)
	}
	if e.bus != nil {
		e.bus.Publish(eventbus.AlertAcknowledged{AlertID: fmt.Sprintf("%d", entry.storeID), Auto: true, Reason: reason})
	}
}

// rateLimitedLocked records an emission attempt and reports whether the
// rolling-hour cap for key has been exceeded. Caller holds e.mu.
func (e *Engine) rateLimitedLocked(key activeKey, at time.Time) bool {
	cutoff := at.Add(-time.Hour)
	kept := e.emissions[key][:0]
	for _, ts := range e.emissions[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= e.maxPerHour {
		e.emissions[key] = kept
		return true
	}
	e.emissions[key] = append(kept, at)
	return false
}

func (e *Engine) logError(context string, err error) {
	e.logger.Log(log.Event{
		Layer:    log.LayerAlert,
		Category: log.CategoryError,
		Error:    &log.ErrorEventData{Layer: log.LayerAlert, Message: err.Error(), Context: context},
	})
}

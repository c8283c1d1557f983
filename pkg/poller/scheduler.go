package poller

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lobocorp/modbus-edge-supervisor/pkg/alerts"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/eventbus"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/identity"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/log"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/registers"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/telemetry"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/uplink"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/wire"
)

// Transactor is the narrow bus-arbiter capability the scheduler needs: one
// exclusive, optionally timeout-overridden, request/response transaction.
type Transactor interface {
	Transact(ctx context.Context, req []byte, timeout time.Duration) ([]byte, error)
}

// diagnosticEvery is how many successful polls of a unit elapse between
// DiagnosticEvent emissions for that unit, approximating "once per ~10s".
const diagnosticEvery = 10

// Scheduler is the round-robin polling tick loop.
type Scheduler struct {
	arbiter     Transactor
	cache       *identity.Cache
	bus         *eventbus.Bus
	dispatcher  *uplink.Dispatcher
	alertEngine *alerts.Engine
	logger      log.Logger

	perDeviceRefresh time.Duration
	minTick          time.Duration
	baselineTimeout  time.Duration

	mu        sync.Mutex
	unitIDs   []uint8
	cursor    int
	successes map[uint8]int

	sensorsMu sync.Mutex
	sensors   map[string]telemetry.SensorDescriptor

	running atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Config bundles the scheduler's tunables, mirroring the supervisor
// configuration surface.
type Config struct {
	PerDeviceRefresh time.Duration
	MinTick          time.Duration
	BaselineTimeout  time.Duration
}

// New constructs a Scheduler. Any of bus, dispatcher, alertEngine, logger
// may be nil to disable that leg.
func New(arbiter Transactor, cache *identity.Cache, bus *eventbus.Bus, dispatcher *uplink.Dispatcher, alertEngine *alerts.Engine, logger log.Logger, cfg Config) *Scheduler {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	if cfg.MinTick <= 0 {
		cfg.MinTick = 200 * time.Millisecond
	}
	return &Scheduler{
		arbiter:          arbiter,
		cache:            cache,
		bus:              bus,
		dispatcher:       dispatcher,
		alertEngine:      alertEngine,
		logger:           logger,
		perDeviceRefresh: cfg.PerDeviceRefresh,
		minTick:          cfg.MinTick,
		baselineTimeout:  cfg.BaselineTimeout,
		successes:        make(map[uint8]int),
		sensors:          make(map[string]telemetry.SensorDescriptor),
	}
}

// RegisterSensor installs or replaces the threshold configuration used for
// alert evaluation on this sensor. Called after discovery enrolls a device
// (via BuildCatalog) and whenever thresholds are reconfigured.
func (s *Scheduler) RegisterSensor(sd telemetry.SensorDescriptor) {
	s.sensorsMu.Lock()
	defer s.sensorsMu.Unlock()
	s.sensors[sd.ID] = sd
}

func (s *Scheduler) lookupSensor(id string) (telemetry.SensorDescriptor, bool) {
	s.sensorsMu.Lock()
	defer s.sensorsMu.Unlock()
	sd, ok := s.sensors[id]
	return sd, ok
}

// Start records the unit list and spawns the tick-loop worker. Calling
// Start while already running is a no-op that logs an error event.
func (s *Scheduler) Start(ctx context.Context, unitIDs []uint8) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Log(log.Event{
			Timestamp: time.Now(),
			Layer:     log.LayerPoller,
			Category:  log.CategoryError,
			Error:     &log.ErrorEventData{Layer: log.LayerPoller, Message: "Start called while already running", Context: "poller.Start"},
		})
		return
	}

	s.mu.Lock()
	s.unitIDs = append([]uint8(nil), unitIDs...)
	s.cursor = 0
	s.mu.Unlock()

	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.run(ctx)
}

// Stop signals the worker to exit and waits up to timeout for it to join.
func (s *Scheduler) Stop(timeout time.Duration) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	close(s.stopCh)
	select {
	case <-s.doneCh:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("poller: stop did not join within %v", timeout)
	}
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.doneCh)
	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		default:
		}
		s.tick(ctx)
	}
}

func (s *Scheduler) tickTarget() time.Duration {
	s.mu.Lock()
	n := len(s.unitIDs)
	s.mu.Unlock()
	if n < 1 {
		n = 1
	}
	target := s.perDeviceRefresh / time.Duration(n)
	if target < s.minTick {
		target = s.minTick
	}
	return target
}

func (s *Scheduler) nextUnit() (uint8, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.unitIDs) == 0 {
		return 0, false
	}
	u := s.unitIDs[s.cursor]
	s.cursor = (s.cursor + 1) % len(s.unitIDs)
	return u, true
}

func (s *Scheduler) tick(ctx context.Context) {
	start := time.Now()
	target := s.tickTarget()

	unit, ok := s.nextUnit()
	if !ok {
		s.sleepRemaining(start, target)
		return
	}

	id, state, enrolled := s.cache.Get(unit)
	if enrolled && start.Before(state.NextAllowedPollTime) {
		s.sleepRemaining(start, target)
		return
	}

	plan := planFor(id.Capabilities)
	if plan.qty == 0 {
		s.sleepRemaining(start, target)
		return
	}

	timeout := s.baselineTimeout
	if enrolled && state.AdaptiveTimeout > timeout {
		timeout = state.AdaptiveTimeout
	}

	req := wire.BuildReadInputRegisters(unit, plan.addr, plan.qty)
	resp, err := s.arbiter.Transact(ctx, req, timeout)
	if err == nil {
		var regs []uint16
		regs, err = wire.ParseReadRegistersResponse(unit, wire.FuncReadInputRegisters, resp)
		if err == nil {
			s.onSuccess(ctx, unit, id, plan.decode(regs))
			s.sleepRemaining(start, target)
			return
		}
	}

	s.cache.NoteFailure(unit)
	s.logger.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerPoller,
		UnitID:    unit,
		Category:  log.CategoryError,
		Error:     &log.ErrorEventData{Layer: log.LayerPoller, Message: err.Error(), Context: "poll transaction"},
	})
	s.sleepRemaining(start, target)
}

func (s *Scheduler) onSuccess(ctx context.Context, unit uint8, id identity.DeviceIdentity, tel registers.Telemetry) {
	s.cache.NoteSuccess(unit)
	now := time.Now()

	evt := eventbus.TelemetryEvent{UnitID: unit, Alias: id.Alias, Timestamp: now, Channels: tel}
	if s.bus != nil {
		s.bus.Publish(evt)
	}

	var measurements []telemetry.Measurement
	if s.dispatcher != nil {
		measurements = s.dispatcher.Dispatch(ctx, evt)
	} else {
		measurements = telemetry.FromTelemetry(unit, now, tel)
	}

	if s.alertEngine != nil {
		for _, m := range measurements {
			if sd, ok := s.lookupSensor(m.SensorID); ok {
				s.alertEngine.EvaluateMeasurement(ctx, sd, m)
			}
		}
	}

	s.mu.Lock()
	s.successes[unit]++
	emitDiagnostic := s.successes[unit]%diagnosticEvery == 0
	s.mu.Unlock()

	if emitDiagnostic {
		s.emitDiagnostic(ctx, unit, id)
	}
}

// emitDiagnostic reads the slave's own modbus-diagnostics registers and
// publishes them alongside its cached identity.
func (s *Scheduler) emitDiagnostic(ctx context.Context, unit uint8, id identity.DeviceIdentity) {
	req := wire.BuildReadHoldingRegisters(unit, registers.AddrDiagRxOK, 6)
	resp, err := s.arbiter.Transact(ctx, req, s.baselineTimeout)
	if err != nil {
		return
	}
	regs, err := wire.ParseReadRegistersResponse(unit, wire.FuncReadHoldingRegisters, resp)
	if err != nil {
		return
	}
	diag := registers.DecodeDiagnosticsBlock(regs)
	if s.bus != nil {
		s.bus.Publish(eventbus.DiagnosticEvent{UnitID: unit, Identity: id, ModbusStats: diag})
	}
}

func (s *Scheduler) sleepRemaining(start time.Time, target time.Duration) {
	elapsed := time.Since(start)
	remaining := target - elapsed
	if remaining > 0 {
		time.Sleep(remaining)
	}
}

package discovery

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lobocorp/modbus-edge-supervisor/pkg/eventbus"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/identity"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/log"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/registers"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/wire"
)

// ErrScanInProgress is returned by StartScan when a scan is already running.
var ErrScanInProgress = fmt.Errorf("discovery: scan already in progress")

// Transactor is the subset of the bus arbiter the engine needs.
type Transactor interface {
	Transact(ctx context.Context, req []byte, timeout time.Duration) ([]byte, error)
}

// ProgressFunc is invoked once per probed unit.
type ProgressFunc func(current, total int, unit uint8)

// Engine scans a Unit-ID range, enrolling every responder into the
// identity cache.
type Engine struct {
	arbiter          Transactor
	cache            *identity.Cache
	bus              *eventbus.Bus
	logger           log.Logger
	discoveryTimeout time.Duration

	scanning atomic.Bool
	mu       sync.Mutex
}

// New builds a discovery Engine.
func New(arbiter Transactor, cache *identity.Cache, bus *eventbus.Bus, logger log.Logger, discoveryTimeout time.Duration) *Engine {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Engine{arbiter: arbiter, cache: cache, bus: bus, logger: logger, discoveryTimeout: discoveryTimeout}
}

// IsScanning reports whether a scan is currently running.
func (e *Engine) IsScanning() bool {
	return e.scanning.Load()
}

// StartScan launches a background scan over [min, max] and returns
// immediately. It returns ErrScanInProgress if a scan is already running.
func (e *Engine) StartScan(ctx context.Context, min, max uint8, progress ProgressFunc) error {
	if !e.scanning.CompareAndSwap(false, true) {
		return ErrScanInProgress
	}
	go func() {
		defer e.scanning.Store(false)
		e.scan(ctx, min, max, progress)
	}()
	return nil
}

// Scan runs a scan over [min, max] synchronously, blocking the caller
// until it completes. It returns ErrScanInProgress if a scan is already
// running.
func (e *Engine) Scan(ctx context.Context, min, max uint8, progress ProgressFunc) ([]uint8, error) {
	if !e.scanning.CompareAndSwap(false, true) {
		return nil, ErrScanInProgress
	}
	defer e.scanning.Store(false)
	return e.scan(ctx, min, max, progress)
}

func (e *Engine) scan(ctx context.Context, min, max uint8, progress ProgressFunc) []uint8 {
	e.mu.Lock()
	defer e.mu.Unlock()

	total := int(max) - int(min) + 1
	var found []uint8

	for i, unit := 0, int(min); unit <= int(max); i, unit = i+1, unit+1 {
		u := uint8(unit)
		if progress != nil {
			progress(i, total, u)
		}
		e.bus.Publish(eventbus.DiscoveryProgress{Current: i, Total: total, UnitID: u})

		id, ok := e.probe(ctx, u)
		e.logProgress(u, i, total, ok)
		if !ok {
			continue
		}
		e.cache.UpsertIdentity(u, id)
		e.cache.NoteSuccess(u)
		found = append(found, u)
		e.bus.Publish(eventbus.DeviceFound{UnitID: u, Identity: id})
	}

	e.bus.Publish(eventbus.DiscoveryComplete{Devices: found})
	return found
}

// probe reads vendor_id at 0x0000 with the reduced discovery timeout; on
// success it reads the full identity block and the cached alias.
func (e *Engine) probe(ctx context.Context, unit uint8) (identity.DeviceIdentity, bool) {
	req := wire.BuildReadHoldingRegisters(unit, registers.AddrVendorID, 1)
	resp, err := e.arbiter.Transact(ctx, req, e.discoveryTimeout)
	if err != nil {
		return identity.DeviceIdentity{}, false
	}
	if _, err := wire.ParseReadRegistersResponse(unit, wire.FuncReadHoldingRegisters, resp); err != nil {
		return identity.DeviceIdentity{}, false
	}

	idReq := wire.BuildReadHoldingRegisters(unit, registers.AddrVendorID, registers.IdentityBlockCount)
	idResp, err := e.arbiter.Transact(ctx, idReq, 0)
	if err != nil {
		return identity.DeviceIdentity{}, false
	}
	idRegs, err := wire.ParseReadRegistersResponse(unit, wire.FuncReadHoldingRegisters, idResp)
	if err != nil || len(idRegs) != int(registers.IdentityBlockCount) {
		return identity.DeviceIdentity{}, false
	}
	block := registers.DecodeIdentityBlock(idRegs)

	alias := e.readAlias(ctx, unit)

	return identity.DeviceIdentity{
		UnitID:        unit,
		VendorID:      block.VendorID,
		ProductID:     block.ProductID,
		HWVersion:     block.HWVersion,
		FWVersion:     block.FWVersion,
		Capabilities:  block.Capabilities,
		Alias:         alias,
		UptimeSeconds: block.UptimeSec,
		Status:        block.Status,
		Errors:        block.Errors,
	}, true
}

func (e *Engine) readAlias(ctx context.Context, unit uint8) string {
	lenReq := wire.BuildReadHoldingRegisters(unit, registers.AddrAliasLength, 1)
	lenResp, err := e.arbiter.Transact(ctx, lenReq, 0)
	if err != nil {
		return ""
	}
	lenRegs, err := wire.ParseReadRegistersResponse(unit, wire.FuncReadHoldingRegisters, lenResp)
	if err != nil || len(lenRegs) != 1 {
		return ""
	}
	length := lenRegs[0]
	if length == 0 {
		return ""
	}

	need := (length + 1) / 2
	if need > registers.MaxAliasRegisters {
		need = registers.MaxAliasRegisters
	}
	dataReq := wire.BuildReadHoldingRegisters(unit, registers.AddrAliasData, need)
	dataResp, err := e.arbiter.Transact(ctx, dataReq, 0)
	if err != nil {
		return ""
	}
	dataRegs, err := wire.ParseReadRegistersResponse(unit, wire.FuncReadHoldingRegisters, dataResp)
	if err != nil {
		return ""
	}
	return registers.DecodeAlias(length, dataRegs)
}

func (e *Engine) logProgress(unit uint8, current, total int, found bool) {
	e.logger.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerDiscovery,
		Category:  log.CategoryDiscovery,
		UnitID:    unit,
		Discovery: &log.DiscoveryEvent{Current: current, Total: total, Found: found},
	})
}

package busarbiter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lobocorp/modbus-edge-supervisor/pkg/connection"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/log"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/transport"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/wire"
)

// DefaultResponseBufferSize bounds the single read performed per
// transaction; Modbus RTU responses on this register map never approach it.
const DefaultResponseBufferSize = 256

// OpenFunc opens the underlying serial channel.
type OpenFunc func() (transport.Port, error)

// Arbiter serializes every transaction on the bus. All reads and writes to
// the serial channel go through Transact.
type Arbiter struct {
	mu sync.Mutex

	open func() (transport.Port, error)
	port transport.Port
	mgr  *connection.Manager

	defaultTimeout time.Duration
	stats          wire.Stats
	logger         log.Logger
}

// NewArbiter builds an Arbiter. open is called on demand whenever the
// channel needs to be (re)established.
func NewArbiter(open OpenFunc, defaultTimeout time.Duration, logger log.Logger) *Arbiter {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	a := &Arbiter{open: open, defaultTimeout: defaultTimeout, logger: logger}
	a.mgr = connection.NewManager(func(ctx context.Context) error {
		p, err := a.open()
		if err != nil {
			return err
		}
		a.port = p
		return nil
	})
	return a
}

// Stats returns a snapshot of the accumulated transaction counters.
func (a *Arbiter) Stats() wire.Stats {
	return a.stats.Snapshot()
}

// Close releases the underlying channel, if open.
func (a *Arbiter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.port == nil {
		return nil
	}
	err := a.port.Close()
	a.port = nil
	a.mgr.Disconnect()
	return err
}

func (a *Arbiter) ensureConnected(ctx context.Context) error {
	if a.mgr.IsConnected() {
		return nil
	}
	err := a.mgr.Connect(ctx)
	if err != nil && !errors.Is(err, connection.ErrAlreadyConnected) {
		return fmt.Errorf("busarbiter: connect: %w", err)
	}
	return nil
}

// Transact is the exclusive-transaction primitive: it serializes against
// every other caller, connects the channel on demand, writes req, and
// reads one response within timeout (or the Arbiter's default timeout when
// timeout is zero). The response is returned unparsed; callers decode it
// with pkg/wire. A plain-read request (0x03/0x04) that times out is retried
// once at the frame level; writes are never retried here; callers
// implement their own no-retry policy for writes (pkg/command).
func (a *Arbiter) Transact(ctx context.Context, req []byte, timeout time.Duration) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()
	retried := false
	resp, err := a.transactLocked(ctx, req, timeout)
	if err != nil && errors.Is(err, wire.ErrTimeout) && isReadRequest(req) {
		retried = true
		resp, err = a.transactLocked(ctx, req, timeout)
	}

	a.logger.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerArbiter,
		UnitID:    req[0],
		Category:  log.CategoryTransaction,
		Transaction: &log.TransactionEvent{
			FunctionCode: functionCodeOf(req),
			Success:      err == nil,
			Elapsed:      time.Since(start),
			Retried:      retried,
		},
	})
	return resp, err
}

func isReadRequest(req []byte) bool {
	fn := functionCodeOf(req)
	return fn == wire.FuncReadHoldingRegisters || fn == wire.FuncReadInputRegisters
}

func (a *Arbiter) transactLocked(ctx context.Context, req []byte, timeout time.Duration) ([]byte, error) {
	if err := a.ensureConnected(ctx); err != nil {
		a.stats.RecordTimeout()
		return nil, err
	}

	effectiveTimeout := a.defaultTimeout
	if timeout > 0 {
		effectiveTimeout = timeout
	}

	_ = a.port.Flush()

	a.logger.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerWire,
		Category:  log.CategoryFrame,
		Direction: log.DirectionOut,
		Frame:     &log.FrameEvent{FunctionCode: functionCodeOf(req), Size: len(req), Data: req},
	})
	a.stats.RecordTx()

	if _, err := a.port.Write(req); err != nil {
		a.portLost()
		return nil, fmt.Errorf("busarbiter: write: %w", err)
	}

	buf := make([]byte, DefaultResponseBufferSize)
	n, err := a.port.ReadTimeout(buf, effectiveTimeout)
	if err != nil || n == 0 {
		a.stats.RecordTimeout()
		return nil, wire.ErrTimeout
	}

	resp := buf[:n]
	a.logger.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerWire,
		Category:  log.CategoryFrame,
		Direction: log.DirectionIn,
		Frame:     &log.FrameEvent{FunctionCode: functionCodeOf(resp), Size: len(resp), Data: resp},
	})
	return resp, nil
}

func (a *Arbiter) portLost() {
	if a.port != nil {
		a.port.Close()
	}
	a.port = nil
	a.mgr.NotifyConnectionLost()
}

func functionCodeOf(frame []byte) uint8 {
	if len(frame) < 2 {
		return 0
	}
	return frame[1]
}

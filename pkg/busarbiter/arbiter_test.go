package busarbiter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lobocorp/modbus-edge-supervisor/pkg/transport"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/wire"
)

func newTestArbiter(t *testing.T) (*Arbiter, *transport.FakePort) {
	t.Helper()
	fake := transport.NewFakePort()
	open := func() (transport.Port, error) { return fake, nil }
	return NewArbiter(open, 300*time.Millisecond, nil), fake
}

func TestTransactConnectsOnDemandAndRoundTrips(t *testing.T) {
	a, fake := newTestArbiter(t)
	req := wire.BuildReadHoldingRegisters(0x01, 0x0000, 0x0001)
	fake.QueueResponse(wire.AppendCRC([]byte{0x01, 0x03, 0x02, 0x00, 0x2A}))

	resp, err := a.Transact(context.Background(), req, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	regs, err := wire.ParseReadRegistersResponse(0x01, wire.FuncReadHoldingRegisters, resp)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(regs) != 1 || regs[0] != 0x002A {
		t.Errorf("regs = %v", regs)
	}
	if len(fake.Writes()) != 1 {
		t.Errorf("expected exactly one write, got %d", len(fake.Writes()))
	}
}

func TestTransactUsesDefaultTimeoutWhenOverrideIsZero(t *testing.T) {
	a, fake := newTestArbiter(t)
	fake.QueueResponse(wire.AppendCRC([]byte{0x01, 0x03, 0x02, 0x00, 0x01}))

	_, err := a.Transact(context.Background(), wire.BuildReadHoldingRegisters(1, 0, 1), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTransactTimeoutWhenNoResponse(t *testing.T) {
	a, _ := newTestArbiter(t)
	_, err := a.Transact(context.Background(), wire.BuildReadHoldingRegisters(1, 0, 1), 10*time.Millisecond)
	if err != wire.ErrTimeout {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestTransactSerializesConcurrentCallers(t *testing.T) {
	a, fake := newTestArbiter(t)
	for i := 0; i < 20; i++ {
		fake.QueueResponse(wire.AppendCRC([]byte{0x01, 0x03, 0x02, 0x00, 0x01}))
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.Transact(context.Background(), wire.BuildReadHoldingRegisters(1, 0, 1), time.Second)
		}()
	}
	wg.Wait()

	if got := len(fake.Writes()); got != 20 {
		t.Errorf("expected 20 serialized writes, got %d", got)
	}
}

func TestStatsTrackTxAndTimeouts(t *testing.T) {
	// A read request that never gets a response is retried once at the
	// frame level, so both Tx and Timeout counters reflect two attempts.
	a, _ := newTestArbiter(t)
	a.Transact(context.Background(), wire.BuildReadHoldingRegisters(1, 0, 1), 5*time.Millisecond)

	stats := a.Stats()
	if stats.TxFrames != 2 {
		t.Errorf("TxFrames = %d, want 2", stats.TxFrames)
	}
	if stats.Timeouts != 2 {
		t.Errorf("Timeouts = %d, want 2", stats.Timeouts)
	}
}

func TestTransactRetriesOnceForReadTimeout(t *testing.T) {
	a, fake := newTestArbiter(t)
	// First attempt times out (queue empty); second attempt succeeds.
	req := wire.BuildReadHoldingRegisters(1, 0, 1)
	go func() {
		time.Sleep(20 * time.Millisecond)
		fake.QueueResponse(wire.AppendCRC([]byte{0x01, 0x03, 0x02, 0x00, 0x2A}))
	}()

	resp, err := a.Transact(context.Background(), req, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	regs, err := wire.ParseReadRegistersResponse(0x01, wire.FuncReadHoldingRegisters, resp)
	if err != nil || len(regs) != 1 || regs[0] != 0x002A {
		t.Fatalf("regs = %v, err = %v", regs, err)
	}
	if len(fake.Writes()) != 2 {
		t.Errorf("expected 2 writes (original + one retry), got %d", len(fake.Writes()))
	}
}

func TestTransactNeverRetriesWriteRequests(t *testing.T) {
	a, fake := newTestArbiter(t)
	req := wire.BuildWriteSingleRegister(1, 0, 0x002A)

	_, err := a.Transact(context.Background(), req, 10*time.Millisecond)
	if err != wire.ErrTimeout {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if len(fake.Writes()) != 1 {
		t.Errorf("expected exactly 1 write for a timed-out write request (no retry), got %d", len(fake.Writes()))
	}
}

func TestCloseReleasesPort(t *testing.T) {
	a, fake := newTestArbiter(t)
	fake.QueueResponse(wire.AppendCRC([]byte{0x01, 0x03, 0x02, 0x00, 0x01}))
	a.Transact(context.Background(), wire.BuildReadHoldingRegisters(1, 0, 1), time.Second)

	if err := a.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

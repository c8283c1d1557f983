package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/lobocorp/modbus-edge-supervisor/pkg/eventbus"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/identity"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/registers"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/wire"
)

// fakeTransactor answers Transact by inspecting the decoded request frame,
// simulating one slave at a known unit id.
type fakeTransactor struct {
	respondingUnit uint8
	alias          string
	calls          int
}

func (f *fakeTransactor) Transact(ctx context.Context, req []byte, timeout time.Duration) ([]byte, error) {
	f.calls++
	unit := req[0]
	if unit != f.respondingUnit {
		return nil, wire.ErrTimeout
	}

	addr := uint16(req[2])<<8 | uint16(req[3])
	qty := uint16(req[4])<<8 | uint16(req[5])

	switch {
	case addr == registers.AddrVendorID && qty == 1:
		return wire.AppendCRC([]byte{unit, wire.FuncReadHoldingRegisters, 0x02, 0x4C, 0x6F}), nil
	case addr == registers.AddrVendorID && qty == registers.IdentityBlockCount:
		regs := make([]uint16, registers.IdentityBlockCount)
		regs[0] = uint16('L')<<8 | uint16('o')
		regs[1] = uint16('S')<<8 | uint16('1')
		regs[5] = uint16(registers.CapabilityMPU6050 | registers.CapabilityLoad)
		frame := []byte{unit, wire.FuncReadHoldingRegisters, byte(len(regs) * 2)}
		for _, r := range regs {
			frame = append(frame, byte(r>>8), byte(r))
		}
		return wire.AppendCRC(frame), nil
	case addr == registers.AddrAliasLength && qty == 1:
		length := uint16(len(f.alias))
		return wire.AppendCRC([]byte{unit, wire.FuncReadHoldingRegisters, 0x02, byte(length >> 8), byte(length)}), nil
	case addr == registers.AddrAliasData:
		aliasRegs := registers.EncodeAlias(f.alias)[1:]
		frame := []byte{unit, wire.FuncReadHoldingRegisters, byte(len(aliasRegs) * 2)}
		for _, r := range aliasRegs {
			frame = append(frame, byte(r>>8), byte(r))
		}
		return wire.AppendCRC(frame), nil
	default:
		return nil, wire.ErrTimeout
	}
}

func TestScanFindsRespondingUnit(t *testing.T) {
	ft := &fakeTransactor{respondingUnit: 2, alias: "Tower_A"}
	cache := identity.NewCache(300*time.Millisecond, 5*time.Second, 60*time.Second)
	bus := eventbus.New(8)
	sub := bus.Subscribe()
	defer sub.Unsubscribe()

	eng := New(ft, cache, bus, nil, 80*time.Millisecond)

	var progressCalls int
	found, err := eng.Scan(context.Background(), 1, 5, func(current, total int, unit uint8) {
		progressCalls++
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(found) != 1 || found[0] != 2 {
		t.Fatalf("found = %v, want [2]", found)
	}
	if progressCalls != 5 {
		t.Errorf("progress calls = %d, want 5", progressCalls)
	}

	id, state, ok := cache.Get(2)
	if !ok {
		t.Fatal("expected unit 2 enrolled")
	}
	if id.VendorID != "Lo" || id.ProductID != "S1" || id.Alias != "Tower_A" {
		t.Errorf("identity = %+v", id)
	}
	if state.Lifecycle != identity.LifecycleOnline {
		t.Errorf("lifecycle = %v, want Online", state.Lifecycle)
	}

	var sawComplete, sawFound bool
	for i := 0; i < 10; i++ {
		select {
		case evt := <-sub.C:
			switch e := evt.(type) {
			case eventbus.DiscoveryComplete:
				sawComplete = true
				if len(e.Devices) != 1 || e.Devices[0] != 2 {
					t.Errorf("DiscoveryComplete.Devices = %v", e.Devices)
				}
			case eventbus.DeviceFound:
				sawFound = true
				if e.UnitID != 2 {
					t.Errorf("DeviceFound.UnitID = %d, want 2", e.UnitID)
				}
				if e.Identity.Alias != "Tower_A" {
					t.Errorf("DeviceFound.Identity.Alias = %q, want Tower_A", e.Identity.Alias)
				}
			}
		default:
		}
	}
	if !sawComplete {
		t.Error("expected a DiscoveryComplete event")
	}
	if !sawFound {
		t.Error("expected a DeviceFound event")
	}
}

func TestScanRejectsConcurrentScans(t *testing.T) {
	ft := &fakeTransactor{respondingUnit: 99}
	cache := identity.NewCache(300*time.Millisecond, 5*time.Second, 60*time.Second)
	bus := eventbus.New(8)
	eng := New(ft, cache, bus, nil, 80*time.Millisecond)

	eng.scanning.Store(true)
	_, err := eng.Scan(context.Background(), 1, 5, nil)
	if err != ErrScanInProgress {
		t.Fatalf("err = %v, want ErrScanInProgress", err)
	}
}

package poller

import "github.com/lobocorp/modbus-edge-supervisor/pkg/registers"

// readPlan is one capability-driven input-register read window: the
// starting address, register count, and the decoder that turns the raw
// registers into a Telemetry value. A zero qty means the unit advertises
// none of the capabilities this scheduler knows how to poll.
type readPlan struct {
	addr   uint16
	qty    uint16
	decode func([]uint16) registers.Telemetry
}

// planFor selects the read strategy for a device's advertised capability
// set, per the fixed register-map windows.
func planFor(caps registers.Capability) readPlan {
	hasMPU := caps.Has(registers.CapabilityMPU6050)
	hasWind := caps.Has(registers.CapabilityWind)
	hasLoad := caps.Has(registers.CapabilityLoad)

	switch {
	case hasMPU && hasWind:
		return readPlan{addr: registers.AddrTiltX, qty: registers.FullBlockCount, decode: registers.DecodeFullBlock}
	case hasMPU && hasLoad:
		return readPlan{addr: registers.AddrTiltX, qty: registers.MPULoadBlockCount, decode: registers.DecodeMPULoadBlock}
	case hasMPU:
		return readPlan{addr: registers.AddrTiltX, qty: registers.MPUBlockCount, decode: registers.DecodeMPUBlock}
	case hasWind:
		return readPlan{addr: registers.AddrSampleLow, qty: 9, decode: registers.DecodeWindOnlyBlock}
	case hasLoad:
		return readPlan{addr: registers.AddrSampleLow, qty: 4, decode: registers.DecodeLoadOnlyBlock}
	default:
		return readPlan{}
	}
}

package registers

// IdentityBlock is the decoded form of the 10-register holding-register
// block starting at AddrVendorID (vendor_id .. errors).
type IdentityBlock struct {
	VendorID     string
	ProductID    string
	HWVersion    Version
	FWVersion    Version
	UnitIDEcho   uint8
	Capabilities Capability
	UptimeSec    uint32
	Status       Status
	Errors       ErrorFlags
}

// DecodeIdentityBlock decodes a 10-register read starting at AddrVendorID.
// regs must have length IdentityBlockCount.
func DecodeIdentityBlock(regs []uint16) IdentityBlock {
	return IdentityBlock{
		VendorID:     DecodeASCIICode(regs[0]),
		ProductID:    DecodeASCIICode(regs[1]),
		HWVersion:    DecodeVersion(regs[2]),
		FWVersion:    DecodeVersion(regs[3]),
		UnitIDEcho:   uint8(regs[4]),
		Capabilities: Capability(regs[5]),
		UptimeSec:    DecodePair(regs[6], regs[7]),
		Status:       Status(regs[8]),
		Errors:       ErrorFlags(regs[9]),
	}
}

// DiagnosticsBlock is the decoded form of the 6-register modbus
// diagnostics block starting at AddrDiagRxOK.
type DiagnosticsBlock struct {
	RxOK         uint16
	CrcErrors    uint16
	Exceptions   uint16
	TxOK         uint16
	UartOverruns uint16
	LastException uint16
}

// DecodeDiagnosticsBlock decodes a 6-register read starting at AddrDiagRxOK.
func DecodeDiagnosticsBlock(regs []uint16) DiagnosticsBlock {
	return DiagnosticsBlock{
		RxOK:          regs[0],
		CrcErrors:     regs[1],
		Exceptions:    regs[2],
		TxOK:          regs[3],
		UartOverruns:  regs[4],
		LastException: regs[5],
	}
}

package wire

import "encoding/binary"

// Function codes implemented by this master.
const (
	FuncReadHoldingRegisters  byte = 0x03
	FuncReadInputRegisters    byte = 0x04
	FuncWriteSingleRegister   byte = 0x06
	FuncWriteMultipleRegisters byte = 0x10
	FuncReportSlaveID         byte = 0x11
	// FuncIdentify is the custom Identify-blink-and-info exchange. It
	// carries no request payload and returns an ASCII info block.
	FuncIdentify byte = 0x41

	// excBit marks a response as an exception: the slave echoes the
	// request function code with this bit set.
	excBit byte = 0x80
)

// MinFrameSize is the shortest frame that could carry a function code and CRC.
const MinFrameSize = 4

// BuildReadHoldingRegisters builds a 0x03 request frame.
func BuildReadHoldingRegisters(unit byte, addr, qty uint16) []byte {
	return buildReadRequest(unit, FuncReadHoldingRegisters, addr, qty)
}

// BuildReadInputRegisters builds a 0x04 request frame.
func BuildReadInputRegisters(unit byte, addr, qty uint16) []byte {
	return buildReadRequest(unit, FuncReadInputRegisters, addr, qty)
}

func buildReadRequest(unit, fn byte, addr, qty uint16) []byte {
	frame := make([]byte, 0, 8)
	frame = append(frame, unit, fn)
	frame = binary.BigEndian.AppendUint16(frame, addr)
	frame = binary.BigEndian.AppendUint16(frame, qty)
	return AppendCRC(frame)
}

// BuildWriteSingleRegister builds a 0x06 request frame.
func BuildWriteSingleRegister(unit byte, addr, value uint16) []byte {
	frame := make([]byte, 0, 8)
	frame = append(frame, unit, FuncWriteSingleRegister)
	frame = binary.BigEndian.AppendUint16(frame, addr)
	frame = binary.BigEndian.AppendUint16(frame, value)
	return AppendCRC(frame)
}

// BuildWriteMultipleRegisters builds a 0x10 request frame writing values
// starting at addr.
func BuildWriteMultipleRegisters(unit byte, addr uint16, values []uint16) []byte {
	byteCount := byte(len(values) * 2)
	frame := make([]byte, 0, 9+len(values)*2)
	frame = append(frame, unit, FuncWriteMultipleRegisters)
	frame = binary.BigEndian.AppendUint16(frame, addr)
	frame = binary.BigEndian.AppendUint16(frame, uint16(len(values)))
	frame = append(frame, byteCount)
	for _, v := range values {
		frame = binary.BigEndian.AppendUint16(frame, v)
	}
	return AppendCRC(frame)
}

// BuildReportSlaveID builds a 0x11 request frame.
func BuildReportSlaveID(unit byte) []byte {
	return AppendCRC([]byte{unit, FuncReportSlaveID})
}

// BuildIdentify builds a 0x41 request frame. It carries no payload.
func BuildIdentify(unit byte) []byte {
	return AppendCRC([]byte{unit, FuncIdentify})
}

// checkResponseHeader validates the common response shape: minimum length,
// CRC, unit ID match, and function-code match (translating an exception
// response into a *FrameError with KindModbusException).
func checkResponseHeader(unit, fn byte, resp []byte) error {
	if len(resp) < MinFrameSize {
		return wrapf(KindShortFrame, errShortFrame, "response too short (%d bytes)", len(resp))
	}
	if !VerifyCRC(resp) {
		return ErrCrcMismatch
	}
	if resp[0] != unit {
		return wrapf(KindUnexpectedFunction, errUnitMismatch, "response unit %d, want %d", resp[0], unit)
	}
	if resp[1] == fn|excBit {
		return NewExceptionError(resp[2])
	}
	if resp[1] != fn {
		return wrapf(KindUnexpectedFunction, errFunctionMismatch, "response function 0x%02x, want 0x%02x", resp[1], fn)
	}
	return nil
}

// ParseReadRegistersResponse validates and decodes a 0x03/0x04 response,
// returning the register values in request order.
func ParseReadRegistersResponse(unit, fn byte, resp []byte) ([]uint16, error) {
	if err := checkResponseHeader(unit, fn, resp); err != nil {
		return nil, err
	}
	byteCount := int(resp[2])
	want := 3 + byteCount + 2
	if len(resp) != want {
		return nil, wrapf(KindUnexpectedLength, errLengthMismatch, "byte count %d implies frame length %d, got %d", byteCount, want, len(resp))
	}
	if byteCount%2 != 0 {
		return nil, wrapf(KindUnexpectedLength, errLengthMismatch, "odd register byte count %d", byteCount)
	}
	regs := make([]uint16, byteCount/2)
	for i := range regs {
		off := 3 + i*2
		regs[i] = binary.BigEndian.Uint16(resp[off : off+2])
	}
	return regs, nil
}

// ParseWriteSingleResponse validates a 0x06 echo response.
func ParseWriteSingleResponse(unit byte, addr, value uint16, resp []byte) error {
	if err := checkResponseHeader(unit, FuncWriteSingleRegister, resp); err != nil {
		return err
	}
	if len(resp) != 8 {
		return wrapf(KindUnexpectedLength, errLengthMismatch, "write-single response length %d, want 8", len(resp))
	}
	gotAddr := binary.BigEndian.Uint16(resp[2:4])
	gotValue := binary.BigEndian.Uint16(resp[4:6])
	if gotAddr != addr || gotValue != value {
		return wrapf(KindUnexpectedLength, errLengthMismatch, "write-single echo mismatch: addr=%d value=%d, want addr=%d value=%d", gotAddr, gotValue, addr, value)
	}
	return nil
}

// ParseWriteMultipleResponse validates a 0x10 echo response.
func ParseWriteMultipleResponse(unit byte, addr uint16, qty int, resp []byte) error {
	if err := checkResponseHeader(unit, FuncWriteMultipleRegisters, resp); err != nil {
		return err
	}
	if len(resp) != 8 {
		return wrapf(KindUnexpectedLength, errLengthMismatch, "write-multiple response length %d, want 8", len(resp))
	}
	gotAddr := binary.BigEndian.Uint16(resp[2:4])
	gotQty := binary.BigEndian.Uint16(resp[4:6])
	if gotAddr != addr || int(gotQty) != qty {
		return wrapf(KindUnexpectedLength, errLengthMismatch, "write-multiple echo mismatch: addr=%d qty=%d, want addr=%d qty=%d", gotAddr, gotQty, addr, qty)
	}
	return nil
}

// IdentifyResult is the decoded payload of a 0x41 response.
type IdentifyResult struct {
	SlaveID      byte
	RunIndicator byte
	Info         string
}

// ParseIdentifyResponse decodes a 0x41 response. The codec tolerates two
// on-wire shapes: with and without a leading byte-count byte, selecting by
// checking whether the first payload byte equals the remaining payload
// length.
func ParseIdentifyResponse(unit byte, resp []byte) (IdentifyResult, error) {
	if err := checkResponseHeader(unit, FuncIdentify, resp); err != nil {
		return IdentifyResult{}, err
	}
	payload := resp[2 : len(resp)-2]
	if len(payload) < 2 {
		return IdentifyResult{}, wrapf(KindShortFrame, errShortFrame, "identify payload too short (%d bytes)", len(payload))
	}

	// With a byte-count prefix: payload[0] counts the bytes that follow it.
	if int(payload[0]) == len(payload)-1 {
		payload = payload[1:]
	}
	if len(payload) < 2 {
		return IdentifyResult{}, wrapf(KindShortFrame, errShortFrame, "identify payload too short after byte-count (%d bytes)", len(payload))
	}

	return IdentifyResult{
		SlaveID:      payload[0],
		RunIndicator: payload[1],
		Info:         string(payload[2:]),
	}, nil
}

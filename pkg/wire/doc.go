// Package wire implements the Modbus RTU PDU codec: frame encoding and
// decoding, CRC16 computation, and the function-code/exception vocabulary
// used on the bus. It has no knowledge of the serial transport or of the
// bus arbiter's scheduling; it is a pure encode/decode layer.
package wire

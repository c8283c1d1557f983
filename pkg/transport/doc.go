// Package transport wraps the RS-485 serial port used to reach the bus:
// raw-mode configuration, custom baud rate, and an RS485 driver-enable
// delay derived from the configured inter-frame gap. The bus arbiter is
// the only caller; it speaks to transport through the small Port
// interface so tests can substitute a fake without a real tty.
package transport

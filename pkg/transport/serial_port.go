//go:build linux

package transport

import (
	"fmt"
	"time"

	serial "github.com/daedaluz/goserial"
)

// SerialPort is a Port backed by a real RS-485 tty, opened in raw mode with
// a custom baud rate and driver-enable delay derived from the configured
// inter-frame gap.
type SerialPort struct {
	port *serial.Port
}

// OpenSerialPort opens device at the given baud rate and configures RS485
// driver-enable timing using interFrameDelay as both the pre- and
// post-send RTS delay.
func OpenSerialPort(device string, baud int, interFrameDelay time.Duration) (*SerialPort, error) {
	port, err := serial.Open(device, serial.NewOptions())
	if err != nil {
		return nil, fmt.Errorf("transport: open %s: %w", device, err)
	}

	if err := port.MakeRaw(); err != nil {
		port.Close()
		return nil, fmt.Errorf("transport: make raw %s: %w", device, err)
	}

	attrs, err := port.GetAttr2()
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("transport: get attrs %s: %w", device, err)
	}
	attrs.SetCustomSpeed(uint32(baud))
	if err := port.SetAttr2(serial.TCSANOW, attrs); err != nil {
		port.Close()
		return nil, fmt.Errorf("transport: set attrs %s: %w", device, err)
	}

	delayMs := uint32(interFrameDelay / time.Millisecond)
	rs485 := &serial.RS485{
		Flags:              serial.RS485Enabled,
		DelayRTSBeforeSend: delayMs,
		DelayRTSAfterSend:  delayMs,
	}
	if err := port.SetRS485(rs485); err != nil {
		// Not every adapter exposes RS485 ioctl support (e.g. a USB-RS485
		// dongle that toggles DE in hardware); absence is not fatal.
		_ = err
	}

	return &SerialPort{port: port}, nil
}

func (s *SerialPort) Write(data []byte) (int, error) {
	return s.port.Write(data)
}

func (s *SerialPort) ReadTimeout(data []byte, timeout time.Duration) (int, error) {
	return s.port.ReadTimeout(data, timeout)
}

func (s *SerialPort) Flush() error {
	return s.port.Flush(serial.TCIFLUSH)
}

func (s *SerialPort) Close() error {
	return s.port.Close()
}

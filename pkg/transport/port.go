package transport

import "time"

// Port is the subset of serial-port behavior the bus arbiter needs. A real
// SerialPort and a fake in-memory FakePort both satisfy it.
type Port interface {
	Write(data []byte) (int, error)
	ReadTimeout(data []byte, timeout time.Duration) (int, error)
	Flush() error
	Close() error
}

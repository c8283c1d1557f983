package wire

import (
	"errors"
	"sync"
)

// Stats accumulates master-side transaction counters, mirroring the
// modbus-diagnostics holding registers a slave exposes about itself
// (rx_ok, crc_errors, exceptions, tx_ok). Safe for concurrent use.
type Stats struct {
	mu         sync.Mutex
	TxFrames   uint64
	RxFrames   uint64
	CrcErrors  uint64
	Timeouts   uint64
	Exceptions uint64
}

// RecordTx increments the count of frames written to the bus.
func (s *Stats) RecordTx() {
	s.mu.Lock()
	s.TxFrames++
	s.mu.Unlock()
}

// RecordRx increments the count of frames successfully received and parsed.
func (s *Stats) RecordRx() {
	s.mu.Lock()
	s.RxFrames++
	s.mu.Unlock()
}

// RecordCrcError increments the count of frames rejected for a bad CRC.
func (s *Stats) RecordCrcError() {
	s.mu.Lock()
	s.CrcErrors++
	s.mu.Unlock()
}

// RecordTimeout increments the count of transactions that never received a reply.
func (s *Stats) RecordTimeout() {
	s.mu.Lock()
	s.Timeouts++
	s.mu.Unlock()
}

// RecordException increments the count of Modbus exception responses received.
func (s *Stats) RecordException() {
	s.mu.Lock()
	s.Exceptions++
	s.mu.Unlock()
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		TxFrames:   s.TxFrames,
		RxFrames:   s.RxFrames,
		CrcErrors:  s.CrcErrors,
		Timeouts:   s.Timeouts,
		Exceptions: s.Exceptions,
	}
}

// Record classifies err (as returned by a frame parser or Transact) and
// updates the appropriate counter. A nil err records a successful Rx.
func (s *Stats) Record(err error) {
	if err == nil {
		s.RecordRx()
		return
	}
	var fe *FrameError
	if errors.As(err, &fe) {
		switch fe.Kind {
		case KindTimeout:
			s.RecordTimeout()
		case KindCrcMismatch:
			s.RecordCrcError()
		case KindModbusException:
			s.RecordException()
		}
	}
}

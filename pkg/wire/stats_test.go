package wire

import "testing"

func TestStatsRecordClassifiesErrors(t *testing.T) {
	var s Stats
	s.Record(nil)
	s.Record(ErrTimeout)
	s.Record(ErrCrcMismatch)
	s.Record(NewExceptionError(ExcIllegalFunction))

	snap := s.Snapshot()
	if snap.RxFrames != 1 {
		t.Errorf("RxFrames = %d, want 1", snap.RxFrames)
	}
	if snap.Timeouts != 1 {
		t.Errorf("Timeouts = %d, want 1", snap.Timeouts)
	}
	if snap.CrcErrors != 1 {
		t.Errorf("CrcErrors = %d, want 1", snap.CrcErrors)
	}
	if snap.Exceptions != 1 {
		t.Errorf("Exceptions = %d, want 1", snap.Exceptions)
	}
}

func TestStatsRecordTxIndependent(t *testing.T) {
	var s Stats
	s.RecordTx()
	s.RecordTx()
	if snap := s.Snapshot(); snap.TxFrames != 2 {
		t.Errorf("TxFrames = %d, want 2", snap.TxFrames)
	}
}

package log

import (
	"testing"
	"time"
)

// mockLogger records events for testing
type mockLogger struct {
	events []Event
}

func (m *mockLogger) Log(event Event) {
	m.events = append(m.events, event)
}

func TestMultiLoggerCallsAll(t *testing.T) {
	mock1 := &mockLogger{}
	mock2 := &mockLogger{}
	mock3 := &mockLogger{}

	multi := NewMultiLogger(mock1, mock2, mock3)

	event := Event{
		Timestamp:     time.Now(),
		TransactionID: "txn-123",
		Direction:     DirectionIn,
		Layer:         LayerTransport,
		Category:      CategoryFrame,
	}

	multi.Log(event)

	for i, mock := range []*mockLogger{mock1, mock2, mock3} {
		if len(mock.events) != 1 {
			t.Errorf("logger %d: got %d events, want 1", i, len(mock.events))
			continue
		}
		if mock.events[0].TransactionID != "txn-123" {
			t.Errorf("logger %d: TransactionID = %q, want %q", i, mock.events[0].TransactionID, "txn-123")
		}
	}
}

func TestMultiLoggerEmptyList(t *testing.T) {
	multi := NewMultiLogger()

	event := Event{
		Timestamp:     time.Now(),
		TransactionID: "txn-123",
		Direction:     DirectionIn,
		Layer:         LayerTransport,
		Category:      CategoryFrame,
	}

	multi.Log(event)
}

func TestMultiLoggerSingleLogger(t *testing.T) {
	mock := &mockLogger{}
	multi := NewMultiLogger(mock)

	event := Event{
		Timestamp:     time.Now(),
		TransactionID: "txn-456",
		Direction:     DirectionOut,
		Layer:         LayerWire,
		Category:      CategoryFrame,
	}

	multi.Log(event)

	if len(mock.events) != 1 {
		t.Fatalf("got %d events, want 1", len(mock.events))
	}
	if mock.events[0].TransactionID != "txn-456" {
		t.Errorf("TransactionID = %q, want %q", mock.events[0].TransactionID, "txn-456")
	}
}

func TestMultiLoggerInterfaceSatisfaction(t *testing.T) {
	var _ Logger = (*MultiLogger)(nil)
}

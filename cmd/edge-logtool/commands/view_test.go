package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/lobocorp/modbus-edge-supervisor/pkg/log"
)

func TestFormatFrameEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)
	event := log.Event{
		Timestamp: ts,
		Direction: log.DirectionOut,
		Layer:     log.LayerTransport,
		Category:  log.CategoryFrame,
		UnitID:    5,
		Frame: &log.FrameEvent{
			FunctionCode: 0x03,
			Size:         8,
			Data:         []byte{0x05, 0x03, 0x00, 0x00, 0x00, 0x02},
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "2026-01-28T10:15:32.123456Z") {
		t.Errorf("expected timestamp, got: %s", output)
	}
	if !strings.Contains(output, "unit:5") {
		t.Errorf("expected unit id, got: %s", output)
	}
	if !strings.Contains(output, "OUT") {
		t.Errorf("expected OUT direction, got: %s", output)
	}
	if !strings.Contains(output, "TRANSPORT") {
		t.Errorf("expected TRANSPORT layer, got: %s", output)
	}
	if !strings.Contains(output, "Frame") {
		t.Errorf("expected Frame label, got: %s", output)
	}
	if !strings.Contains(output, "8 bytes") {
		t.Errorf("expected frame size, got: %s", output)
	}
}

func TestFormatTransactionEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	event := log.Event{
		Timestamp: ts,
		Layer:     log.LayerArbiter,
		Category:  log.CategoryTransaction,
		UnitID:    5,
		Transaction: &log.TransactionEvent{
			FunctionCode: 0x03,
			Success:      false,
			Elapsed:      15 * time.Millisecond,
			Retried:      true,
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "Transaction") {
		t.Errorf("expected Transaction label, got: %s", output)
	}
	if !strings.Contains(output, "Success: false") {
		t.Errorf("expected Success: false, got: %s", output)
	}
	if !strings.Contains(output, "Retried: true") {
		t.Errorf("expected Retried: true, got: %s", output)
	}
}

func TestFormatErrorEvent(t *testing.T) {
	event := log.Event{
		Category: log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerPoller,
			Message: "timeout",
			Context: "poll unit 9",
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "Message: timeout") {
		t.Errorf("expected error message, got: %s", output)
	}
	if !strings.Contains(output, "Context: poll unit 9") {
		t.Errorf("expected error context, got: %s", output)
	}
}

func TestParseLayerFlag(t *testing.T) {
	l, err := ParseLayerFlag("Arbiter")
	if err != nil {
		t.Fatalf("ParseLayerFlag: %v", err)
	}
	if l != log.LayerArbiter {
		t.Errorf("layer = %v, want LayerArbiter", l)
	}
	if _, err := ParseLayerFlag("bogus"); err == nil {
		t.Error("expected error for invalid layer")
	}
}

func TestParseCategoryFlag(t *testing.T) {
	c, err := ParseCategoryFlag("transaction")
	if err != nil {
		t.Fatalf("ParseCategoryFlag: %v", err)
	}
	if c != log.CategoryTransaction {
		t.Errorf("category = %v, want CategoryTransaction", c)
	}
	if _, err := ParseCategoryFlag("bogus"); err == nil {
		t.Error("expected error for invalid category")
	}
}

func TestRunViewFiltersByUnitID(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, UnitID: 5, Category: log.CategoryFrame, Frame: &log.FrameEvent{Size: 8}},
		{Timestamp: ts, UnitID: 9, Category: log.CategoryFrame, Frame: &log.FrameEvent{Size: 8}},
	}
	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{UnitID: 9}, &buf); err != nil {
		t.Fatalf("RunView: %v", err)
	}
	output := buf.String()
	if strings.Contains(output, "unit:5") {
		t.Errorf("expected unit 5 filtered out, got: %s", output)
	}
	if !strings.Contains(output, "unit:9") {
		t.Errorf("expected unit 9 present, got: %s", output)
	}
}

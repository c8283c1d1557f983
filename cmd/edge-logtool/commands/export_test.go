package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lobocorp/modbus-edge-supervisor/pkg/log"
)

func TestExportToJSONL(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)
	events := []log.Event{
		{
			Timestamp: ts,
			UnitID:    5,
			Direction: log.DirectionOut,
			Layer:     log.LayerWire,
			Category:  log.CategoryFrame,
			Frame:     &log.FrameEvent{FunctionCode: 0x03, Size: 8},
		},
		{
			Timestamp: ts.Add(time.Second),
			UnitID:    5,
			Direction: log.DirectionIn,
			Layer:     log.LayerWire,
			Category:  log.CategoryFrame,
			Frame:     &log.FrameEvent{FunctionCode: 0x03, Size: 9},
		},
	}

	path := createTestLogFile(t, events)

	outPath := filepath.Join(t.TempDir(), "out.jsonl")
	if err := RunExport(path, "jsonl", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Errorf("expected 2 lines, got %d", len(lines))
	}

	var event1 map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &event1); err != nil {
		t.Errorf("failed to parse line 1: %v", err)
	}
	if event1["UnitID"] != float64(5) {
		t.Errorf("expected UnitID 5, got %v", event1["UnitID"])
	}
}

func TestExportToCSV(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	events := []log.Event{
		{
			Timestamp: ts,
			UnitID:    5,
			Direction: log.DirectionOut,
			Layer:     log.LayerTransport,
			Category:  log.CategoryFrame,
			Frame:     &log.FrameEvent{Size: 64, Data: []byte{0x01, 0x02}},
		},
	}

	path := createTestLogFile(t, events)

	outPath := filepath.Join(t.TempDir(), "out.csv")
	if err := RunExport(path, "csv", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	if !strings.HasPrefix(string(data), "timestamp,transaction_id,unit_id,direction,layer,category") {
		t.Errorf("expected CSV header, got: %s", string(data[:50]))
	}

	lines := strings.Split(string(data), "\n")
	if len(lines) < 2 {
		t.Errorf("expected header + data row, got %d lines", len(lines))
	}
}

func TestExportWritesToStdout(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, UnitID: 5, Category: log.CategoryFrame, Frame: &log.FrameEvent{Size: 64}},
	}

	path := createTestLogFile(t, events)

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := RunExport(path, "jsonl", "")

	w.Close()
	os.Stdout = oldStdout

	if err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	var buf bytes.Buffer
	buf.ReadFrom(r)

	if buf.Len() == 0 {
		t.Error("expected output to stdout")
	}
}

func TestExportUnknownFormat(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, UnitID: 5, Frame: &log.FrameEvent{Size: 64}},
	}

	path := createTestLogFile(t, events)
	outPath := filepath.Join(t.TempDir(), "out.xml")

	err := RunExport(path, "xml", outPath)
	if err == nil {
		t.Error("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("expected 'unknown format' error, got: %v", err)
	}
}

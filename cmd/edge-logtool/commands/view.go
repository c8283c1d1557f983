// Package commands implements the edge-logtool CLI commands.
package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lobocorp/modbus-edge-supervisor/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Layer    *log.Layer
	Direction *log.Direction
	Category *log.Category
	UnitID   uint8
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [txn:id] DIR LAYER Type
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	txn := shortenTransactionID(event.TransactionID)
	dir := event.Direction.String()

	var typeLabel string
	switch {
	case event.Frame != nil:
		typeLabel = "Frame"
	case event.Transaction != nil:
		typeLabel = "Transaction"
	case event.StateChange != nil:
		typeLabel = "State"
	case event.Discovery != nil:
		typeLabel = "Discovery"
	case event.Alert != nil:
		typeLabel = "Alert"
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	unit := ""
	if event.UnitID != 0 {
		unit = fmt.Sprintf(" unit:%d", event.UnitID)
	}

	fmt.Fprintf(w, "%s [txn:%s]%s %-3s %s %s\n", ts, txn, unit, dir, event.Layer.String(), typeLabel)

	switch {
	case event.Frame != nil:
		formatFrameDetails(w, event.Frame)
	case event.Transaction != nil:
		formatTransactionDetails(w, event.Transaction)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Discovery != nil:
		formatDiscoveryDetails(w, event.Discovery)
	case event.Alert != nil:
		formatAlertDetails(w, event.Alert)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenTransactionID returns the first 8 characters of the transaction ID.
func shortenTransactionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatFrameDetails writes frame-specific details.
func formatFrameDetails(w io.Writer, frame *log.FrameEvent) {
	fmt.Fprintf(w, "  FunctionCode: 0x%02x\n", frame.FunctionCode)
	fmt.Fprintf(w, "  Size: %d bytes\n", frame.Size)
	if len(frame.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(frame.Data))
		if frame.Truncated {
			fmt.Fprintf(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

// formatTransactionDetails writes transaction-outcome details.
func formatTransactionDetails(w io.Writer, tx *log.TransactionEvent) {
	fmt.Fprintf(w, "  FunctionCode: 0x%02x\n", tx.FunctionCode)
	if tx.Address != 0 || tx.Quantity != 0 {
		fmt.Fprintf(w, "  Address: %d  Quantity: %d\n", tx.Address, tx.Quantity)
	}
	fmt.Fprintf(w, "  Success: %t\n", tx.Success)
	fmt.Fprintf(w, "  Elapsed: %s\n", formatDuration(tx.Elapsed))
	if tx.Retried {
		fmt.Fprintln(w, "  Retried: true")
	}
}

// formatStateChangeDetails writes state change details.
func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity.String())
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

// formatDiscoveryDetails writes discovery scan progress details.
func formatDiscoveryDetails(w io.Writer, d *log.DiscoveryEvent) {
	fmt.Fprintf(w, "  Progress: %d/%d\n", d.Current, d.Total)
	if d.Found {
		fmt.Fprintln(w, "  Found: true")
	}
}

// formatAlertDetails writes alert raise/acknowledge details.
func formatAlertDetails(w io.Writer, a *log.AlertLogEvent) {
	fmt.Fprintf(w, "  Code: %s  Level: %s\n", a.Code, a.Level)
	if a.Acknowledged {
		fmt.Fprintf(w, "  Acknowledged (auto=%t)\n", a.Auto)
	}
}

// formatErrorDetails writes error details.
func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer.String())
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseLayerFlag parses a layer string from command-line flag (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	return parseLayer(s)
}

// parseLayer parses a layer string (case-insensitive).
func parseLayer(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "transport":
		return log.LayerTransport, nil
	case "wire":
		return log.LayerWire, nil
	case "arbiter":
		return log.LayerArbiter, nil
	case "discovery":
		return log.LayerDiscovery, nil
	case "poller":
		return log.LayerPoller, nil
	case "alert":
		return log.LayerAlert, nil
	case "command":
		return log.LayerCommand, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be transport, wire, arbiter, discovery, poller, alert, or command)", s)
	}
}

// ParseDirectionFlag parses a direction string from command-line flag (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	return parseDirection(s)
}

// parseDirection parses a direction string (case-insensitive).
func parseDirection(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	return parseCategory(s)
}

// parseCategory parses a category string (case-insensitive).
func parseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "frame":
		return log.CategoryFrame, nil
	case "transaction":
		return log.CategoryTransaction, nil
	case "state":
		return log.CategoryState, nil
	case "discovery":
		return log.CategoryDiscovery, nil
	case "alert":
		return log.CategoryAlert, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be frame, transaction, state, discovery, alert, or error)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		if filter.Layer != nil && event.Layer != *filter.Layer {
			continue
		}
		if filter.Direction != nil && event.Direction != *filter.Direction {
			continue
		}
		if filter.Category != nil && event.Category != *filter.Category {
			continue
		}
		if filter.UnitID != 0 && event.UnitID != filter.UnitID {
			continue
		}

		formatEvent(output, event)
	}

	return nil
}

// Package log provides structured event logging for the edge supervisor.
//
// This package defines the Logger interface and Event types for capturing
// bus-level and supervisor-level events across the stack (transport, wire,
// arbiter, discovery, poller, alert engine). It is separate from operational
// logging (slog) - event capture provides a complete machine-readable trace
// for debugging and post-incident analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	logger := log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	logger, _ := log.NewFileLogger("/var/log/edge-supervisor/bus.mlog")
//
//	// Both: use MultiLogger
//	logger := log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Transport/Wire: raw and decoded frames (FrameEvent)
//   - Arbiter: transaction outcomes (TransactionEvent)
//   - Discovery/Poller: device lifecycle transitions (StateChangeEvent, DiscoveryEvent)
//   - Alert engine: threshold crossings (AlertLogEvent)
//
// Errors at any layer use the dedicated ErrorEventData payload.
//
// # File Format
//
// Log files use CBOR encoding with a .mlog extension, matching the CBOR
// options of this package's encoder/decoder (canonical key sort, forbidden
// indefinite-length items, nanosecond-precision timestamps).
package log

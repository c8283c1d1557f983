// Package connection provides on-demand channel lifecycle management for
// the bus arbiter and per-device polling backoff.
//
// This package handles:
//   - Connection state tracking (Manager)
//   - Exponential backoff with jitter (Backoff)
//
// # Connection Model
//
// Manager has no background reconnect loop. A lost connection is reported
// through NotifyConnectionLost, which drops the state to StateDisconnected;
// reconnection happens the next time a caller needs the channel and calls
// Connect. The bus arbiter uses this to reconnect on demand before each
// transaction rather than racing a goroutine against in-flight I/O.
//
// # Backoff
//
// Backoff computes exponential delays with jitter:
//
//	actual_delay = base_delay + random(0, base_delay * jitter)
//
// pkg/identity uses one Backoff per device to space out re-polling a unit
// that is failing to respond.
package connection

// Package poller implements the round-robin polling scheduler: a single
// dedicated tick loop that submits one exclusive transaction per due
// device, selecting a capability-driven read strategy, then routes the
// decoded telemetry to the event bus, the uplink dispatcher, and the alert
// engine. Pausing for command-surface transactions falls out of the bus
// arbiter's own mutex — a concurrent Transact call simply blocks until the
// arbiter is free, with no separate pause signal needed here.
package poller

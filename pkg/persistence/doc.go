// Package persistence defines the Store contract the supervisor core uses to
// durably record devices, sensors, measurements, and alerts, plus an
// in-memory reference implementation for tests. No assumption about the
// backing store is made beyond durability of inserts and at-least-once
// retrieval semantics for GetUnacknowledgedAlerts.
package persistence

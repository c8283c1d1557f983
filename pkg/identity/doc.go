// Package identity holds the per-UnitId identity and liveness state: the
// decoded DeviceIdentity advertised by a slave, and the DeviceState
// lifecycle (Unknown/Online/Degraded/Offline) derived from poll outcomes.
//
// Cache is the single thread-safe collaborator shared by discovery, the
// polling scheduler, and the alert engine's offline-detection pass.
package identity

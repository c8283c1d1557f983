// Package alerts implements threshold and device-liveness alert evaluation:
// debounced threshold breaches with auto-acknowledge on return to range,
// periodic offline detection, and startup reconciliation of the active-alert
// cache against the persistence store.
package alerts

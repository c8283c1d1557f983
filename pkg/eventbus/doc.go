// Package eventbus is a lightweight in-process publish/subscribe bus for
// domain events: discovery progress, telemetry, diagnostics, and alerts.
// Delivery is best-effort and non-blocking — each subscriber gets its own
// bounded channel, and a stalled subscriber has its oldest queued event
// dropped rather than stalling the publisher.
package eventbus

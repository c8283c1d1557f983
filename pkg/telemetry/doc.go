// Package telemetry holds the logical sensor/measurement types shared by
// the poller, alert engine, persistence sink, and uplink dispatcher: the
// SensorCatalog derived purely from a device's advertised capabilities,
// and the Measurement rows produced from one decoded register window.
package telemetry

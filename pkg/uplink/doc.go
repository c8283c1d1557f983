// Package uplink defines the IoT uplink sink collaborator contract and a
// Dispatcher that fans out decoded measurements (synchronously within the
// polling tick) and device attributes to it. The Dispatcher has no alert
// path; Sink.PublishAlert is not called from this package.
package uplink

// Package discovery implements Unit-ID range-scan discovery over the
// Modbus bus: a background worker probes each slave address in a
// configured range with a reduced-timeout holding-register read, enrolls
// every responder into the identity cache, and reports scan progress
// through a callback.
//
// Only one scan may run at a time. Discovery never blocks the bus arbiter
// between probes — it competes for exclusive transactions the same way
// the polling scheduler and the command surface do.
package discovery

// Package command implements the stateful command surface: Identify,
// duration-based identify, alias write, Unit-ID change, and commit-to-
// EEPROM. Every operation is one exclusive transaction against the bus
// arbiter and returns a typed error; none of them retry. Alias and Unit-ID
// changes mutate the slave's RAM configuration only — a separate commit
// command is required to persist it across a power cycle.
package command

package identity

import (
	"fmt"
	"sync"
	"time"

	"github.com/lobocorp/modbus-edge-supervisor/pkg/connection"
)

// AdaptiveTimeoutCeiling is the hard ceiling on adaptive_timeout regardless
// of configured baseline or backoff parameters.
const AdaptiveTimeoutCeiling = 1200 * time.Millisecond

// DegradedThreshold is the consecutive-error count at which a device is
// first considered Degraded (below this, Online).
const DegradedThreshold = 1

// OfflineThreshold is the consecutive-error count at which a device is
// considered Offline rather than merely Degraded.
const OfflineThreshold = 3

// Cache is a thread-safe map from UnitId to (DeviceIdentity, DeviceState).
type Cache struct {
	mu sync.Mutex

	baselineTimeout time.Duration
	backoffBase     time.Duration
	backoffCap      time.Duration

	now func() time.Time

	entries map[uint8]*entry
}

// NewCache builds a Cache using the poller's baseline timeout and backoff
// parameters to compute adaptive_timeout and next_allowed_poll_time.
func NewCache(baselineTimeout, backoffBase, backoffCap time.Duration) *Cache {
	return &Cache{
		baselineTimeout: baselineTimeout,
		backoffBase:     backoffBase,
		backoffCap:      backoffCap,
		now:             time.Now,
		entries:         make(map[uint8]*entry),
	}
}

// UpsertIdentity records or replaces the identity for unit, called by
// discovery. The associated DeviceState is left untouched if it already
// exists, or initialised to Unknown otherwise.
func (c *Cache) UpsertIdentity(unit uint8, id DeviceIdentity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id.UnitID = unit
	e, ok := c.entries[unit]
	if !ok {
		e = c.newEntry()
		c.entries[unit] = e
	}
	e.identity = id
}

// NoteSuccess transitions unit to Online: clears the error count, sets
// last_seen to now, clears next_allowed_poll_time, and resets
// adaptive_timeout to baseline.
func (c *Cache) NoteSuccess(unit uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(unit)
	e.state.Lifecycle = LifecycleOnline
	e.state.ConsecutiveErrorCount = 0
	e.state.LastSeen = c.now()
	e.state.NextAllowedPollTime = time.Time{}
	e.state.AdaptiveTimeout = c.baselineTimeout
	e.backoff.Reset()
}

// NoteFailure increments the error count, reclassifies lifecycle, and
// computes a new backoff deadline and adaptive timeout. The backoff
// deadline is driven by pkg/connection's exponential-with-cap Backoff
// calculator, configured with no jitter so the
// backoff_base x 2^(k-1) sequence is exact.
func (c *Cache) NoteFailure(unit uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(unit)
	e.state.ConsecutiveErrorCount++
	n := e.state.ConsecutiveErrorCount

	switch {
	case n >= OfflineThreshold:
		e.state.Lifecycle = LifecycleOffline
	case n >= DegradedThreshold:
		e.state.Lifecycle = LifecycleDegraded
	}

	e.state.NextAllowedPollTime = c.now().Add(e.backoff.Next())

	timeout := e.state.AdaptiveTimeout * 2
	if e.state.AdaptiveTimeout == 0 {
		timeout = c.baselineTimeout
	}
	if timeout > AdaptiveTimeoutCeiling {
		timeout = AdaptiveTimeoutCeiling
	}
	if timeout < c.baselineTimeout {
		timeout = c.baselineTimeout
	}
	e.state.AdaptiveTimeout = timeout
}

// RenameUnit atomically moves the cache entry from old to new. Fails if new
// already has an entry.
func (c *Cache) RenameUnit(old, new uint8) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[new]; exists {
		return fmt.Errorf("identity: unit %d already enrolled", new)
	}
	e, ok := c.entries[old]
	if !ok {
		return fmt.Errorf("identity: unit %d not enrolled", old)
	}
	delete(c.entries, old)
	e.identity.UnitID = new
	c.entries[new] = e
	return nil
}

// SetAliasLocal updates the cached alias after a successful write.
func (c *Cache) SetAliasLocal(unit uint8, alias string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(unit)
	e.identity.Alias = alias
}

// Get returns a snapshot of the identity and state for unit.
func (c *Cache) Get(unit uint8) (DeviceIdentity, DeviceState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[unit]
	if !ok {
		return DeviceIdentity{}, DeviceState{}, false
	}
	return e.identity, e.state, true
}

// UnitIDs returns all enrolled unit ids, in ascending order.
func (c *Cache) UnitIDs() []uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]uint8, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}

func (c *Cache) entryLocked(unit uint8) *entry {
	e, ok := c.entries[unit]
	if !ok {
		e = c.newEntry()
		c.entries[unit] = e
	}
	return e
}

func (c *Cache) newEntry() *entry {
	return &entry{
		state: DeviceState{Lifecycle: LifecycleUnknown, AdaptiveTimeout: c.baselineTimeout},
		backoff: connection.NewBackoffWithConfig(connection.BackoffConfig{
			Initial:    c.backoffBase,
			Max:        c.backoffCap,
			Multiplier: 2,
			Jitter:     0,
		}),
	}
}

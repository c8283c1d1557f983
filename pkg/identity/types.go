package identity

import (
	"time"

	"github.com/lobocorp/modbus-edge-supervisor/pkg/connection"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/registers"
)

// DeviceIdentity is the decoded identity block for one UnitId, plus the
// cached alias and the most recent custom-identify text.
type DeviceIdentity struct {
	UnitID             uint8
	VendorID           string
	ProductID          string
	HWVersion          registers.Version
	FWVersion          registers.Version
	Capabilities       registers.Capability
	Alias              string
	UptimeSeconds      uint32
	Status             registers.Status
	Errors             registers.ErrorFlags
	LastIdentifyText   string
}

// Lifecycle is a DeviceState's liveness classification.
type Lifecycle uint8

const (
	LifecycleUnknown Lifecycle = iota
	LifecycleOnline
	LifecycleDegraded
	LifecycleOffline
)

func (l Lifecycle) String() string {
	switch l {
	case LifecycleUnknown:
		return "Unknown"
	case LifecycleOnline:
		return "Online"
	case LifecycleDegraded:
		return "Degraded"
	case LifecycleOffline:
		return "Offline"
	default:
		return "Unknown"
	}
}

// DeviceState is the liveness record for one UnitId.
type DeviceState struct {
	Lifecycle             Lifecycle
	LastSeen              time.Time
	ConsecutiveErrorCount int
	NextAllowedPollTime   time.Time
	AdaptiveTimeout       time.Duration
}

// entry bundles identity, state, and the per-unit backoff calculator under
// a single lock.
type entry struct {
	identity DeviceIdentity
	state    DeviceState
	backoff  *connection.Backoff
}

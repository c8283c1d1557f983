// Package config holds the supervisor's runtime configuration.
package config

import "fmt"

// Config mirrors the enumerated options of the supervisor configuration
// surface. It is a plain data struct; reading one from a particular file
// format is left to the cmd entry point.
type Config struct {
	// SerialPort is the OS path or name of the RS-485 dongle.
	SerialPort string `yaml:"serial_port"`

	// Baud is the serial bit rate.
	Baud int `yaml:"baud"`

	// TimeoutSec is the baseline per-transaction timeout, in seconds.
	TimeoutSec float64 `yaml:"timeout_sec"`

	// DiscoveryTimeoutSec is the reduced timeout used for scan probes.
	DiscoveryTimeoutSec float64 `yaml:"discovery_timeout_sec"`

	// InterFrameDelayMs is the enforced silence between frames, in milliseconds.
	InterFrameDelayMs int `yaml:"inter_frame_delay_ms"`

	// PollIntervalSec is a legacy tick hint; see PerDeviceRefreshSec.
	PollIntervalSec float64 `yaml:"poll_interval_sec"`

	// PerDeviceRefreshSec is the target refresh interval per device.
	PerDeviceRefreshSec float64 `yaml:"per_device_refresh_sec"`

	// MaxPollDevices is the configured cap on enrolled units. Validate
	// requires it to be positive; discovery and the poller do not enforce it.
	MaxPollDevices int `yaml:"max_poll_devices"`

	// OfflineBackoffSec is the backoff base for a failing device.
	OfflineBackoffSec float64 `yaml:"offline_backoff_sec"`

	// OfflineBackoffMaxSec is the backoff cap for a failing device.
	OfflineBackoffMaxSec float64 `yaml:"offline_backoff_max_sec"`

	// UnitIDScanMin is the lower bound (inclusive) of the discovery range.
	UnitIDScanMin int `yaml:"unit_id_scan_min"`

	// UnitIDScanMax is the upper bound (inclusive) of the discovery range.
	UnitIDScanMax int `yaml:"unit_id_scan_max"`

	// DeviceTimeoutSec is the liveness threshold.
	DeviceTimeoutSec float64 `yaml:"device_timeout_sec"`

	// DebounceWindowSec is the per-(entity,code) debounce window for alerts.
	DebounceWindowSec float64 `yaml:"debounce_window_sec"`

	// MaxAlertsPerSensorPerHour caps alert emission per (sensor, code) per
	// rolling hour. 0 disables the cap. Recovered from the original
	// implementation's alert engine docstring; not named in the register map.
	MaxAlertsPerSensorPerHour int `yaml:"max_alerts_per_sensor_per_hour"`
}

// Default returns a Config populated with every documented default.
func Default() Config {
	return Config{
		Baud:                      115200,
		TimeoutSec:                0.3,
		DiscoveryTimeoutSec:       0.08,
		InterFrameDelayMs:         15,
		PollIntervalSec:           2.0,
		PerDeviceRefreshSec:       1.0,
		MaxPollDevices:            20,
		OfflineBackoffSec:         5.0,
		OfflineBackoffMaxSec:      60.0,
		UnitIDScanMin:             1,
		UnitIDScanMax:             10,
		DeviceTimeoutSec:          30,
		DebounceWindowSec:         60,
		MaxAlertsPerSensorPerHour: 20,
	}
}

// Validate rejects out-of-range or contradictory configuration values.
func (c Config) Validate() error {
	if c.SerialPort == "" {
		return fmt.Errorf("config: serial_port is required")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("config: baud must be positive, got %d", c.Baud)
	}
	if c.TimeoutSec <= 0 {
		return fmt.Errorf("config: timeout_sec must be positive, got %v", c.TimeoutSec)
	}
	if c.DiscoveryTimeoutSec <= 0 {
		return fmt.Errorf("config: discovery_timeout_sec must be positive, got %v", c.DiscoveryTimeoutSec)
	}
	if c.InterFrameDelayMs < 0 {
		return fmt.Errorf("config: inter_frame_delay_ms must not be negative, got %d", c.InterFrameDelayMs)
	}
	if c.PerDeviceRefreshSec <= 0 {
		return fmt.Errorf("config: per_device_refresh_sec must be positive, got %v", c.PerDeviceRefreshSec)
	}
	if c.MaxPollDevices <= 0 {
		return fmt.Errorf("config: max_poll_devices must be positive, got %d", c.MaxPollDevices)
	}
	if c.OfflineBackoffSec <= 0 {
		return fmt.Errorf("config: offline_backoff_sec must be positive, got %v", c.OfflineBackoffSec)
	}
	if c.OfflineBackoffMaxSec < c.OfflineBackoffSec {
		return fmt.Errorf("config: offline_backoff_max_sec (%v) must be >= offline_backoff_sec (%v)", c.OfflineBackoffMaxSec, c.OfflineBackoffSec)
	}
	if c.UnitIDScanMin < 1 || c.UnitIDScanMin > 247 {
		return fmt.Errorf("config: unit_id_scan_min must be in [1,247], got %d", c.UnitIDScanMin)
	}
	if c.UnitIDScanMax < 1 || c.UnitIDScanMax > 247 {
		return fmt.Errorf("config: unit_id_scan_max must be in [1,247], got %d", c.UnitIDScanMax)
	}
	if c.UnitIDScanMin > c.UnitIDScanMax {
		return fmt.Errorf("config: unit_id_scan_min (%d) must be <= unit_id_scan_max (%d)", c.UnitIDScanMin, c.UnitIDScanMax)
	}
	if c.DeviceTimeoutSec <= 0 {
		return fmt.Errorf("config: device_timeout_sec must be positive, got %v", c.DeviceTimeoutSec)
	}
	if c.DebounceWindowSec < 0 {
		return fmt.Errorf("config: debounce_window_sec must not be negative, got %v", c.DebounceWindowSec)
	}
	if c.MaxAlertsPerSensorPerHour < 0 {
		return fmt.Errorf("config: max_alerts_per_sensor_per_hour must not be negative, got %d", c.MaxAlertsPerSensorPerHour)
	}
	return nil
}

// Command edge-supervisor is the Modbus RTU edge supervisor: it owns the
// RS-485 bus, discovers slaves, polls them on a round-robin schedule,
// raises alerts against configured thresholds, and dispatches decoded
// telemetry to persistence and an uplink sink.
//
// Usage:
//
//	edge-supervisor -config /etc/edge-supervisor/config.yaml
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lobocorp/modbus-edge-supervisor/pkg/alerts"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/busarbiter"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/config"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/discovery"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/eventbus"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/identity"
	supervisorlog "github.com/lobocorp/modbus-edge-supervisor/pkg/log"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/persistence"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/poller"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/telemetry"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/transport"
	"github.com/lobocorp/modbus-edge-supervisor/pkg/uplink"
	"gopkg.in/yaml.v3"
)

func secs(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}

func main() {
	configPath := flag.String("config", "", "Path to the YAML configuration file")
	protocolLogPath := flag.String("protocol-log", "", "File path for protocol event logging (CBOR format)")
	flag.Parse()

	if *configPath == "" {
		log.Fatal("edge-supervisor: -config is required")
	}

	raw, err := os.ReadFile(*configPath)
	if err != nil {
		log.Fatalf("edge-supervisor: read config: %v", err)
	}
	cfg := config.Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		log.Fatalf("edge-supervisor: parse config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("edge-supervisor: invalid config: %v", err)
	}

	var logger supervisorlog.Logger = supervisorlog.NoopLogger{}
	if *protocolLogPath != "" {
		fileLogger, err := supervisorlog.NewFileLogger(*protocolLogPath)
		if err != nil {
			log.Fatalf("edge-supervisor: open protocol log: %v", err)
		}
		defer fileLogger.Close()
		logger = fileLogger
	}

	interFrameDelay := time.Duration(cfg.InterFrameDelayMs) * time.Millisecond
	open := func() (transport.Port, error) {
		return transport.OpenSerialPort(cfg.SerialPort, cfg.Baud, interFrameDelay)
	}
	arbiter := busarbiter.NewArbiter(open, secs(cfg.TimeoutSec), logger)
	defer arbiter.Close()

	cache := identity.NewCache(secs(cfg.TimeoutSec), secs(cfg.OfflineBackoffSec), secs(cfg.OfflineBackoffMaxSec))
	bus := eventbus.New(64)
	store := persistence.NewMemStore(nil)

	disc := discovery.New(arbiter, cache, bus, logger, secs(cfg.DiscoveryTimeoutSec))

	alertEngine := alerts.New(store, cache, bus, logger, secs(cfg.DebounceWindowSec), secs(cfg.DeviceTimeoutSec), cfg.MaxAlertsPerSensorPerHour)
	if err := alertEngine.RebuildActiveAlerts(context.Background()); err != nil {
		log.Printf("edge-supervisor: rebuild active alerts: %v", err)
	}

	dispatcher := uplink.New(store, nil, logger)

	sched := poller.New(arbiter, cache, bus, dispatcher, alertEngine, logger, poller.Config{
		PerDeviceRefresh: secs(cfg.PerDeviceRefreshSec),
		MinTick:          100 * time.Millisecond,
		BaselineTimeout:  secs(cfg.TimeoutSec),
	})

	// pkg/command's Commander is constructed by whatever external
	// interface (HTTP handler, CLI) exposes Identify/SetAlias/SetUnitID/
	// CommitToEEPROM to operators; that interface is out of scope here.

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	units, err := disc.Scan(ctx, uint8(cfg.UnitIDScanMin), uint8(cfg.UnitIDScanMax), nil)
	if err != nil {
		log.Fatalf("edge-supervisor: initial discovery scan: %v", err)
	}
	log.Printf("edge-supervisor: discovered %d device(s)", len(units))

	for _, unit := range units {
		id, _, ok := cache.Get(unit)
		if !ok {
			continue
		}
		for _, sd := range telemetry.BuildCatalog(unit, id.Capabilities) {
			sched.RegisterSensor(sd)
		}
		if err := store.UpsertDevice(ctx, persistence.DeviceRecord{Identity: id, Enabled: true, LastSeen: time.Now()}); err != nil {
			log.Printf("edge-supervisor: upsert device %d: %v", unit, err)
		}
	}

	sched.Start(ctx, units)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("edge-supervisor: shutting down")
	if err := sched.Stop(5 * time.Second); err != nil {
		log.Printf("edge-supervisor: stop scheduler: %v", err)
	}
}

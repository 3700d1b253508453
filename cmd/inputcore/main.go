// inputcore - input device aggregation service
//
// This is the main entry point for the input core. It aggregates device
// status and channel samples from external drivers (over MQTT), coalesces
// them into batched notifications, and exposes the result over a REST API,
// a WebSocket feed, a sample history, and optional time series telemetry.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tbransom/inputcore/internal/api"
	"github.com/tbransom/inputcore/internal/bridge"
	"github.com/tbransom/inputcore/internal/history"
	"github.com/tbransom/inputcore/internal/hub"
	"github.com/tbransom/inputcore/internal/infrastructure/config"
	"github.com/tbransom/inputcore/internal/infrastructure/database"
	"github.com/tbransom/inputcore/internal/infrastructure/influxdb"
	"github.com/tbransom/inputcore/internal/infrastructure/logging"
	"github.com/tbransom/inputcore/internal/infrastructure/mqtt"
	"github.com/tbransom/inputcore/internal/input"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting inputcore",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	historyRepo := history.NewSQLiteRepository(db.DB)

	// Device hub with statically configured devices. Drivers address
	// them over MQTT by permanent ID.
	devices := hub.New()
	devices.SetLogger(log)
	devices.AddListener(bridge.NewRecorder(historyRepo, log))

	for i := range cfg.Devices {
		d, regErr := devices.Register(deviceConfig(&cfg.Devices[i]))
		if regErr != nil {
			return fmt.Errorf("registering device %q: %w", cfg.Devices[i].Name, regErr)
		}
		log.Debug("device configured", "device_id", d.ID(), "name", cfg.Devices[i].Name)
	}
	log.Info("device hub initialised", "devices", devices.Count())

	// Connect to InfluxDB (optional)
	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		devices.AddListener(bridge.NewTelemetry(influxClient))
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Connect to MQTT broker (optional but strongly recommended: without
	// it there is no driver ingest and no vibration delivery)
	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := mqtt.Connect(cfg.MQTT)
		if mqttErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", mqttErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		qos := byte(cfg.MQTT.QoS)
		devices.AddListener(bridge.NewPublisher(mqttClient, log))

		// Vibration requests are delegated to drivers over MQTT
		forwarder := bridge.VibrationForwarder(mqttClient, qos, log)
		for _, d := range devices.Devices() {
			if d.Config().CanVibrate {
				d.SetVibrationHandler(forwarder)
			}
		}

		ingest := bridge.NewIngest(devices, mqttClient, qos, log)
		if ingestErr := ingest.Start(); ingestErr != nil {
			return fmt.Errorf("starting ingest bridge: %w", ingestErr)
		}
	} else {
		log.Warn("MQTT disabled: no driver ingest, vibration commands are dropped")
	}

	// Start API server
	server, err := api.New(api.Deps{
		Config:  cfg.API,
		WS:      cfg.WebSocket,
		Logger:  log,
		Devices: devices,
		History: historyRepo,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port))

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	// Deferred Close() calls run in reverse order:
	// API server, MQTT, InfluxDB (if enabled), database.

	log.Info("inputcore stopped")
	return nil
}

// deviceConfig converts a config declaration into a device configuration.
func deviceConfig(dc *config.DeviceConfig) *input.Config {
	cfg := &input.Config{
		DisplayName: dc.Name,
		Type:        dc.Type,
		PermanentID: dc.PermanentID,
		CanVibrate:  dc.CanVibrate,
		Channels:    make([]input.Channel, 0, len(dc.Channels)),
	}
	for _, ch := range dc.Channels {
		cfg.Channels = append(cfg.Channels, input.Channel{
			Name:     ch.Name,
			Type:     input.ChannelType(ch.Type),
			Min:      ch.Min,
			Max:      ch.Max,
			Accuracy: ch.Accuracy,
		})
	}
	return cfg
}

// getConfigPath returns the configuration file path.
// Uses INPUTCORE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("INPUTCORE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kairichard/SGP-Data-Challenge/internal/cache"
	"github.com/kairichard/SGP-Data-Challenge/internal/config"
	"github.com/kairichard/SGP-Data-Challenge/internal/influx"
	"github.com/kairichard/SGP-Data-Challenge/internal/ingest"
	"github.com/kairichard/SGP-Data-Challenge/internal/logging"
	"github.com/kairichard/SGP-Data-Challenge/internal/model/core"
	"github.com/kairichard/SGP-Data-Challenge/internal/storage"
	"github.com/kairichard/SGP-Data-Challenge/internal/tracker"
	"github.com/kairichard/SGP-Data-Challenge/internal/worker"
)

const appName = "racetracker"

var (
	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// ManagerLogger is the zerolog logger handed to the backend managers
	ManagerLogger zerolog.Logger

	SessionStartTime = time.Now()
)

func main() {
	var (
		configDir  = pflag.String("config", ".", "directory containing racetracker.cfg.json")
		coursePath = pflag.String("course", "", "path to the race-definition XML (required)")
		windPath   = pflag.String("wind", "", "optional path to the mark wind readings CSV")
		boatsDir   = pflag.String("boats", "", "directory with per-boat JSONL position streams (required)")
	)
	pflag.Parse()
	viper.BindPFlags(pflag.CommandLine)

	if *coursePath == "" || *boatsDir == "" {
		pflag.Usage()
		os.Exit(2)
	}

	if err := run(*configDir, *coursePath, *windPath, *boatsDir); err != nil {
		fmt.Fprintf(os.Stderr, "racetracker: %v\n", err)
		os.Exit(1)
	}
}

func run(configDir, coursePath, windPath, boatsDir string) error {
	// Bootstrap logging to stderr until the config names a log file
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(os.Stderr, "info")
	Logger = SlogManager.Logger()

	if err := config.Load(configDir); err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		Logger.Info("Loaded config")
	}

	logFile, err := setupLogging()
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	// Inputs
	course, err := ingest.LoadCourse(coursePath)
	if err != nil {
		return fmt.Errorf("failed to load course: %w", err)
	}
	Logger.Info("Loaded course", "race", course.RaceID, "marks", course.Len(), "start", course.StartTime)

	if windPath != "" {
		if err := ingest.AttachWind(course, windPath); err != nil {
			return fmt.Errorf("failed to attach wind data: %w", err)
		}
		Logger.Info("Attached wind data", "path", windPath)
	}

	streams, err := ingest.LoadBoatStreams(boatsDir)
	if err != nil {
		return fmt.Errorf("failed to load boat streams: %w", err)
	}
	Logger.Info("Loaded boat streams", "boats", len(streams))

	// Storage backend
	backend, err := storage.NewBackend(config.GetStorageConfig(), SlogManager, ManagerLogger)
	if err != nil {
		return fmt.Errorf("failed to create storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	defer backend.Close()

	if err := backend.StartRace(course); err != nil {
		return fmt.Errorf("failed to start race: %w", err)
	}

	// Optional InfluxDB telemetry sink
	var influxManager *influx.Manager
	if viper.GetBool("influx.enabled") {
		backupPath := logging.LogFilePath(viper.GetString("logsDir"), appName+".influx_backup", SessionStartTime) + ".gz"
		influxManager = influx.NewManager(ManagerLogger, backupPath)
		if err := influxManager.Connect(); err != nil {
			Logger.Warn("InfluxDB unavailable, telemetry disabled", "error", err)
			influxManager = nil
		} else {
			defer influxManager.Close()
		}
	}

	// Analysis pipeline
	fleet := cache.NewFleetCache()
	manager, err := worker.NewManager(worker.Dependencies{
		Fleet:      fleet,
		LogManager: SlogManager,
	}, backend, course)
	if err != nil {
		return fmt.Errorf("failed to create worker manager: %w", err)
	}

	start := time.Now()
	if err := manager.TrackFleet(streams); err != nil {
		return fmt.Errorf("tracking failed: %w", err)
	}
	Logger.Info("Fleet tracked", "boats", fleet.Len(), "duration", time.Since(start))

	for boatID, samples := range fleet.Snapshot() {
		window := tracker.TrimToStartFinish(samples, course.Len())
		if len(window) == 0 {
			Logger.Warn("Boat produced no tracked samples", "boat", boatID)
			continue
		}
		Logger.Info("Boat race window",
			"boat", boatID,
			"from", window[0].Time,
			"to", window[len(window)-1].Time,
			"samples", len(window))
	}

	leaders, err := manager.ComputeLeader()
	if err != nil {
		return fmt.Errorf("leader identification failed: %w", err)
	}
	Logger.Info("Leader stream computed", "records", len(leaders))

	dtlStreams, err := manager.ComputeDTL(leaders)
	if err != nil {
		return fmt.Errorf("dtl computation failed: %w", err)
	}
	Logger.Info("DTL streams computed", "boats", len(dtlStreams))

	if influxManager != nil {
		if err := shipTelemetry(influxManager, course, fleet.Snapshot(), leaders, dtlStreams); err != nil {
			Logger.Error("Failed to ship telemetry", "error", err)
		}
	}

	if err := backend.EndRace(); err != nil {
		return fmt.Errorf("failed to end race: %w", err)
	}

	Logger.Info("Race analysis complete", "race", course.RaceID, "duration", time.Since(start))
	return nil
}

// setupLogging switches the slog manager onto the session log file and
// builds the zerolog manager logger, with an optional GELF writer.
func setupLogging() (*os.File, error) {
	logsDir := viper.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create logs directory: %w", err)
		}
	}

	logFilePath := logging.LogFilePath(logsDir, appName, SessionStartTime)
	logFile, err := os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		Logger.Error("Failed to create/open log file!", "error", err, "path", logFilePath)
		return nil, nil
	}

	level := viper.GetString("logLevel")
	SlogManager.Setup(logFile, level)
	Logger = SlogManager.Logger()
	Logger.Info("Logging to file", "path", logFilePath)

	graylogAddr := ""
	if cfg := config.GetGraylogConfig(); cfg.Enabled {
		graylogAddr = cfg.Address
	}
	ManagerLogger = logging.NewManagerLogger(logFile, level, graylogAddr)

	return logFile, nil
}

// shipTelemetry forwards the computed race streams to InfluxDB.
func shipTelemetry(
	m *influx.Manager,
	course *core.Course,
	tracked map[string][]core.TrackedSample,
	leaders []core.LeaderRecord,
	dtlStreams map[string][]core.DTLRecord,
) error {
	ctx := context.Background()

	for boatID, samples := range tracked {
		for _, s := range samples {
			if err := m.WritePoint(ctx, influx.BucketTracking, influx.TrackingPoint(course.RaceID, boatID, s, course)); err != nil {
				return err
			}
		}
	}
	for _, r := range leaders {
		if err := m.WritePoint(ctx, influx.BucketLeader, influx.LeaderPoint(course.RaceID, r)); err != nil {
			return err
		}
	}
	for boatID, records := range dtlStreams {
		for _, r := range records {
			if err := m.WritePoint(ctx, influx.BucketDTL, influx.DTLPoint(course.RaceID, boatID, r)); err != nil {
				return err
			}
		}
	}
	return nil
}

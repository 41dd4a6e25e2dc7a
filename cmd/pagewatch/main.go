package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"pagewatch/internal/config"
	"pagewatch/internal/datastore"
	"pagewatch/internal/logger"
	"pagewatch/internal/models"
	"pagewatch/internal/monitor"
	"pagewatch/internal/notifier"
)

func main() {
	configFile := flag.String("config", "", "Path to the YAML/JSON configuration file. If not set, searches default locations.")
	configFileAlias := flag.String("c", "", "Alias for --config")
	flag.Parse()

	if *configFile == "" && *configFileAlias != "" {
		*configFile = *configFileAlias
	}

	gCfg, err := config.LoadGlobalConfig(*configFile)
	if err != nil {
		log.Fatalf("[FATAL] Could not load configuration: %v", err)
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Could not initialize logger: %v", err)
	}

	if err := config.ValidateConfig(gCfg); err != nil {
		zLogger.Fatal().Err(err).Msg("Configuration validation failed")
	}
	zLogger.Info().
		Int("targets", len(gCfg.MonitorConfig.Targets)).
		Msg("Configuration loaded and validated")

	store := buildStore(gCfg, zLogger)
	notifiers := buildNotifiers(gCfg, zLogger)
	if len(notifiers) == 0 {
		zLogger.Warn().Msg("No notifiers configured, changes will only be logged")
	}

	service, err := monitor.NewMonitoringService(&gCfg.MonitorConfig, store, notifiers, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to initialize monitoring service")
	}
	if err := service.Start(); err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to start monitoring service")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	zLogger.Info().Str("signal", sig.String()).Msg("Received signal, shutting down")

	service.Stop()
	zLogger.Info().Msg("Shutdown complete")
}

func buildStore(gCfg *config.GlobalConfig, zLogger zerolog.Logger) models.SnapshotStore {
	if gCfg.StorageConfig.DatabasePath == "" {
		zLogger.Info().Msg("No database path configured, snapshots kept in memory only")
		return datastore.NewMemoryStore()
	}

	store, err := datastore.NewSQLiteStore(gCfg.StorageConfig.DatabasePath, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Str("path", gCfg.StorageConfig.DatabasePath).Msg("Failed to open snapshot database")
	}
	zLogger.Info().Str("path", gCfg.StorageConfig.DatabasePath).Msg("Snapshot database opened")
	return store
}

func buildNotifiers(gCfg *config.GlobalConfig, zLogger zerolog.Logger) []notifier.Notifier {
	var notifiers []notifier.Notifier

	if gCfg.NotificationConfig.WebhookURL != "" {
		webhook, err := notifier.NewWebhookNotifier(gCfg.NotificationConfig.WebhookURL, zLogger)
		if err != nil {
			zLogger.Fatal().Err(err).Msg("Failed to initialize webhook notifier")
		}
		notifiers = append(notifiers, webhook)
	}

	if gCfg.NotificationConfig.Email.SMTPHost != "" {
		email, err := notifier.NewEmailNotifier(gCfg.NotificationConfig.Email, zLogger)
		if err != nil {
			zLogger.Fatal().Err(err).Msg("Failed to initialize email notifier")
		}
		verifyCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		err = email.VerifyConnection(verifyCtx)
		cancel()
		if err != nil {
			zLogger.Warn().Err(err).Msg("SMTP preflight failed, email delivery may not work")
		}
		notifiers = append(notifiers, email)
	}

	return notifiers
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sportclub/internal/config"
	"sportclub/internal/database"
	"sportclub/internal/events"
	"sportclub/internal/logging"
	"sportclub/internal/service"
)

// Одноразовый запуск обслуживания: истечение, автоподтверждение, очистка.
func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	retention := flag.Int("retention-days", -1, "override maintenance.retention_days")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *retention >= 0 {
		cfg.Maintenance.RetentionDays = *retention
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	if closer != nil {
		defer closer.Close()
	}
	logger := logging.Component(baseLogger, "maintenance-cli")

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	svc := service.NewMaintenanceService(db, events.NewEventBus(), time.Now, cfg.Location(), service.MaintenanceOptions{
		AutoAcceptAfter: cfg.Booking.AutoAcceptAfter,
		RetentionDays:   cfg.Maintenance.RetentionDays,
	}, logger)

	report, err := svc.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("maintenance failed")
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		logger.Error().Err(err).Msg("encode report")
	}
}

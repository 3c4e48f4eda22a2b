package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"sportclub/internal/api"
	"sportclub/internal/availability"
	"sportclub/internal/config"
	"sportclub/internal/database"
	"sportclub/internal/domain"
	"sportclub/internal/events"
	"sportclub/internal/logging"
	"sportclub/internal/metrics"
	"sportclub/internal/notify"
	"sportclub/internal/repository"
	"sportclub/internal/service"
	"sportclub/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	redisClient := initRedis(cfg, logger)
	defer func() { _ = repository.Close(redisClient) }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetrics(ctx, cfg, logger)

	loc := cfg.Location()
	bus := events.NewEventBus()
	resolver := availability.NewService(db, availability.SystemClock{}, loc, cfg.Booking.LeadTime, logging.Component(logger, "availability"))

	notificationWorker := worker.NewNotificationWorker(
		db,
		initNotifier(cfg, logger),
		redisClient,
		worker.RetryPolicyFromConfig(cfg.Notifications.Retry),
		logging.Component(logger, "notifications"),
	)
	service.SubscribeNotifications(bus, db, notificationWorker, logging.Component(logger, "events"))

	bookings := service.NewBookingService(db, resolver, initRateLimitStore(redisClient, logger), bus, service.BookingOptions{
		MaxAdvanceDays: cfg.Booking.MaxAdvanceDays,
		RateLimit:      cfg.Booking.RateLimit.Requests,
		RateWindow:     cfg.Booking.RateLimit.Window,
	}, logging.Component(logger, "booking"))

	maintenance := service.NewMaintenanceService(db, bus, time.Now, loc, service.MaintenanceOptions{
		AutoAcceptAfter: cfg.Booking.AutoAcceptAfter,
		RetentionDays:   cfg.Maintenance.RetentionDays,
	}, logging.Component(logger, "maintenance"))

	httpServer := api.NewHTTPServer(cfg.API, api.Services{
		Fields:       service.NewFieldService(db, logging.Component(logger, "fields")),
		Bookings:     bookings,
		Availability: resolver,
		Maintenance:  maintenance,
		Failed:       db,
		DB:           db,
	}, logger)

	var wg sync.WaitGroup
	startBackground(ctx, &wg, func(ctx context.Context) { notificationWorker.Start(ctx) })

	if cfg.Maintenance.Enabled {
		scheduler := worker.NewMaintenanceScheduler(maintenance, cfg.Maintenance.Interval, logging.Component(logger, "maintenance"))
		startBackground(ctx, &wg, scheduler.Start)
	}

	if cfg.Reminders.Enabled {
		reminders := worker.NewReminderWorker(db, notificationWorker, loc,
			cfg.Reminders.HoursBefore, cfg.Reminders.Window, cfg.Reminders.CheckInterval,
			logging.Component(logger, "reminders"))
		startBackground(ctx, &wg, func(ctx context.Context) { reminders.Start(ctx) })
	}

	if cfg.Backup.Enabled {
		backups := database.NewBackupService(db, cfg.Backup, logging.Component(logger, "backup"))
		startBackground(ctx, &wg, backups.Start)
	}

	err = serve(ctx, httpServer, cfg, logger)
	wg.Wait()
	return err
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}

	return cfg, logging.Component(baseLogger, "api-main"), closer, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := repository.Ping(ctx, redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		_ = redisClient.Close()
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

func initRateLimitStore(redisClient *redis.Client, logger *zerolog.Logger) domain.RateLimitStore {
	memory := repository.NewMemoryRateLimitStore()
	if redisClient == nil {
		return memory
	}
	return repository.NewFailoverRateLimitStore(
		repository.NewRedisRateLimitStore(redisClient),
		memory,
		logging.Component(logger, "rate-limit"),
	)
}

func initNotifier(cfg *config.Config, logger *zerolog.Logger) domain.Notifier {
	notifiers := notify.MultiNotifier{notify.NewLogNotifier(logging.Component(logger, "notify"))}

	tg := cfg.Notifications.Telegram
	if tg.BotToken == "" {
		return notifiers
	}
	bot, err := notify.NewTelegramBot(tg.BotToken, tg.Debug)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram init failed, continuing without telegram")
		return notifiers
	}
	logger.Info().Str("bot", bot.Self.UserName).Int("admins", len(tg.AdminChatIDs)).Msg("telegram connected")
	return append(notifiers, notify.NewTelegramNotifier(bot, tg.AdminChatIDs))
}

func startBackground(ctx context.Context, wg *sync.WaitGroup, fn func(context.Context)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		fn(ctx)
	}()
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func serve(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("API server started")

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error().Err(serveErr).Msg("http server stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return serveErr
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

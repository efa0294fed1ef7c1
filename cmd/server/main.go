package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"officebook/internal/api"
	"officebook/internal/audit"
	"officebook/internal/cache"
	"officebook/internal/config"
	"officebook/internal/database"
	"officebook/internal/events"
	"officebook/internal/metrics"
	"officebook/internal/notify"
	"officebook/internal/ratelimit"
	"officebook/internal/reminders"
	"officebook/internal/repository"
	"officebook/internal/service"
	"officebook/internal/sheets"
)

func main() {
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("OFFICEBOOK_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database error")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		rdb     *redis.Client
		offices repository.OfficeRepository = db
		limiter *ratelimit.Limiter
	)
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store := cache.NewRedis(rdb, &logger)
		offices = repository.NewCachedOfficeRepository(db, store, cfg.CacheTTL(), &logger)
		limiter = ratelimit.New(store, cfg.RateLimit.MaxRequests, cfg.RateLimitWindow(), &logger)
	} else {
		logger.Warn().Msg("redis not configured, caching and rate limiting disabled")
	}

	notifier := notify.NewCombined(
		notify.NewEmailChannel(notify.EmailConfig(cfg.Notifications.SMTP), &logger),
		notify.NewSMSChannel(notify.SMSConfig(cfg.Notifications.SMS), &logger),
		float64(cfg.Notifications.PerSecond),
		&logger,
	)

	bus := events.NewBus()
	if cfg.Sheets.Enabled {
		mirror, err := sheets.New(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID, cfg.Sheets.SheetName, &logger)
		if err != nil {
			logger.Error().Err(err).Msg("sheets mirror disabled")
		} else {
			mirror.Subscribe(bus)
		}
	}
	bus.Subscribe(events.TypeReservationConflict, func(event events.Event) {
		logger.Warn().RawJSON("event", event.Payload).Msg("booking conflict")
	})

	svc := service.NewReservationService(offices, db, notifier, bus, &logger)

	if cfg.Reminders.Enabled {
		reminderSvc := reminders.NewService(reminders.Config{
			LeadTime:      time.Duration(cfg.Reminders.LeadTimeMinutes) * time.Minute,
			CheckInterval: time.Duration(cfg.Reminders.CheckIntervalMinutes) * time.Minute,
		}, db, offices, notifier, &logger)
		go reminderSvc.Start(ctx)
	}

	if cfg.Backup.Enabled {
		backup := database.NewBackupService(cfg.Database.Path, database.BackupConfig{
			Dir:           cfg.Backup.Dir,
			Interval:      time.Duration(cfg.Backup.IntervalHours) * time.Hour,
			RetentionDays: cfg.Backup.RetentionDays,
		}, &logger)
		go backup.Run(ctx)
	}

	if cfg.Audit.Enabled {
		exporter := audit.NewExporter(db, &logger)
		go runAuditExports(ctx, exporter, cfg.Audit.Dir, &logger)
	}

	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, db, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	server := api.NewServer(cfg.Server.Address, svc, offices, limiter, &logger)
	logger.Info().Msg("officebook started")
	if err := server.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("api server error")
	}
}

// runAuditExports writes the previous month's report shortly after each
// month rolls over.
func runAuditExports(ctx context.Context, exporter *audit.Exporter, dir string, logger *zerolog.Logger) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Error().Err(err).Msg("create audit dir")
		return
	}
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	var lastExported time.Month
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			prev := now.AddDate(0, -1, 0)
			if prev.Month() == lastExported {
				continue
			}
			from, to := audit.MonthRange(prev)
			path := fmt.Sprintf("%s/%s", dir, audit.Filename(prev))
			if err := exporter.ExportToFile(ctx, from, to, path); err != nil {
				logger.Error().Err(err).Msg("audit export failed")
				continue
			}
			lastExported = prev.Month()
		}
	}
}

func startHealthServer(ctx context.Context, port int, db *database.DB, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := db.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

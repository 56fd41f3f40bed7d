package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/api/rest"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/api/websocket"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/backfill"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/cache"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/config"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/gametime"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/ingest/nhl"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/ingest/puckpedia"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/logger"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/metrics"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/publisher"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/scheduler"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/service"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
)

const (
	serviceName    = "nhl-stats-tracker"
	serviceVersion = "1.0.0"

	redisConnectAttempts = 10
	redisRetryDelay      = 2 * time.Second
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:          cfg.LogLevel,
		Format:         cfg.LogFormat,
		Env:            cfg.Env,
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
	})
	if err != nil {
		return err
	}
	log.Info().Str("cache_backend", cfg.CacheBackend).Str("default_team", cfg.DefaultTeam).Msg("starting")

	norm, err := gametime.NewForZone(cfg.TimeZone)
	if err != nil {
		return fmt.Errorf("loading time zone: %w", err)
	}

	m := metrics.NewManager()

	// Upstream clients
	league := nhl.New(cfg.NHLBaseURL, log, nhl.WithNormalizer(norm))

	ppClient := puckpedia.New(cfg.PuckpediaBaseURL, log, puckpedia.WithMinInterval(cfg.PuckpediaMinInterval))
	var browser puckpedia.PageFetcher
	if cfg.PuckpediaBrowserFallback {
		bf := puckpedia.NewBrowserFetcher(cfg.PuckpediaBaseURL, log)
		defer bf.Close()
		browser = bf
	}
	injuries := puckpedia.NewCollector(log, puckpedia.DefaultStrategies(ppClient, browser, clockwork.NewRealClock(), norm.Location())...)

	aggregator := service.NewAggregator(league, injuries,
		service.WithTimeouts(service.Timeouts{
			Schedule:  cfg.ScheduleTimeout,
			Stats:     cfg.StatsTimeout,
			Standings: cfg.StandingsTimeout,
			Injuries:  cfg.InjuryTimeout,
		}),
		service.WithNormalizer(norm),
		service.WithMetrics(m),
		service.WithLogger(log),
	)

	// Cache storage and refresh notifiers
	var healthChecks []rest.HandlerOption
	var redisCache *cache.RedisCache
	if cfg.CacheBackend == config.BackendRedis || cfg.PublishRefreshEvents {
		redisCache, err = connectRedis(cfg.RedisURL, log)
		if err != nil {
			return err
		}
		defer redisCache.Close()
		healthChecks = append(healthChecks, rest.WithHealthCheck("redis", redisCache.HealthCheck))
	}

	var cacheStore cache.Store
	switch cfg.CacheBackend {
	case config.BackendRedis:
		cacheStore = redisCache
	case config.BackendPostgres:
		db, err := store.NewDatabase(cfg.PostgresDSN, log)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.RunMigrations(context.Background()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		cacheStore = db
		healthChecks = append(healthChecks, rest.WithHealthCheck("postgres", db.HealthCheck))
	default:
		cacheStore = cache.NewMemoryStore()
	}

	cacheOpts := []cache.Option{cache.WithTTL(cfg.CacheTTL), cache.WithMetrics(m)}
	if cfg.PublishRefreshEvents {
		cacheOpts = append(cacheOpts, cache.WithNotifier("redis-stream", publisher.NewRedisStreamPublisher(redisCache.Client())))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wsServer *websocket.Server
	if cfg.WSPort > 0 {
		hub := websocket.NewHub(m, log)
		go hub.Run(ctx)
		wsServer = websocket.NewServer(hub, cfg.CORSOrigins, log)
		cacheOpts = append(cacheOpts, cache.WithNotifier("websocket", wsServer))
	}

	manager := cache.NewManager(cacheStore, aggregator, log, cacheOpts...)
	details := service.NewDetailService(league, cfg.StatsTimeout, m, log)

	// Background work
	backfillService := backfill.NewService(backfill.NewRunner(manager, log), nil, log)
	backfillService.Start()

	if cfg.EnableDailyRefresh {
		sched := scheduler.NewOrchestrator(manager, scheduler.Config{
			Teams:      cfg.WarmTeams,
			DailyHour:  cfg.DailyRefreshHour,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
		}, scheduler.WithNormalizer(norm), scheduler.WithLogger(log))
		go sched.Run(ctx)
	}

	// Servers
	handlerOpts := append([]rest.HandlerOption{
		rest.WithDefaultTeam(cfg.DefaultTeam),
		rest.WithSeasonWindow(cfg.SeasonWindow),
		rest.WithNormalizer(norm),
		rest.WithVersion(serviceVersion),
		rest.WithHandlerLogger(log),
	}, healthChecks...)
	handler := rest.NewHandler(manager, details, handlerOpts...)
	restServer := rest.NewServer(cfg.HTTPPort, handler, rest.NewBackfillHandler(backfillService), m, cfg.CORSOrigins, log)

	errCh := make(chan error, 2)
	go func() {
		if err := restServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("REST server: %w", err)
		}
	}()
	if wsServer != nil {
		go func() {
			if err := wsServer.Start(cfg.WSPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("WebSocket server: %w", err)
			}
		}()
	}

	log.Info().Int("rest_port", cfg.HTTPPort).Int("ws_port", cfg.WSPort).Msg("started")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case runErr = <-errCh:
		log.Error().Err(runErr).Msg("server failed, shutting down")
	}

	// Graceful shutdown
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("REST server shutdown")
	}
	if wsServer != nil {
		if err := wsServer.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("WebSocket server shutdown")
		}
	}
	if err := backfillService.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("backfill service shutdown")
	}

	log.Info().Msg("stopped")
	return runErr
}

// connectRedis retries while Redis starts alongside the service.
func connectRedis(url string, log zerolog.Logger) (*cache.RedisCache, error) {
	var err error
	for i := 0; i < redisConnectAttempts; i++ {
		var rc *cache.RedisCache
		rc, err = cache.NewRedisCache(url)
		if err == nil {
			log.Info().Msg("connected to Redis")
			return rc, nil
		}
		if i < redisConnectAttempts-1 {
			log.Warn().Err(err).Int("attempt", i+1).Dur("retry_in", redisRetryDelay).Msg("Redis connection failed")
			time.Sleep(redisRetryDelay)
		}
	}
	return nil, fmt.Errorf("connecting to Redis after %d attempts: %w", redisConnectAttempts, err)
}

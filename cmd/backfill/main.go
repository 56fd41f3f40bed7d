package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/backfill"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/cache"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/config"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/gametime"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/ingest/nhl"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/ingest/puckpedia"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/logger"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/season"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/service"
	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
)

const (
	appName    = "nhl-stats-backfill"
	appVersion = "1.0.0"
)

func main() {
	_ = godotenv.Load()

	var (
		team    = flag.String("team", "", "Team code to refresh (default: configured default team)")
		seasons = flag.String("seasons", "", "Comma separated season ids (e.g. 20222023,20232024)")
		recent  = flag.Int("recent", 0, "Refresh the most recent N seasons, current included")
		dryRun  = flag.Bool("dry-run", false, "List the seasons without refreshing them")
	)
	flag.Parse()

	if err := run(*team, *seasons, *recent, *dryRun); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

func run(team, seasonList string, recent int, dryRun bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:          cfg.LogLevel,
		Format:         cfg.LogFormat,
		Env:            cfg.Env,
		ServiceName:    appName,
		ServiceVersion: appVersion,
	})
	if err != nil {
		return err
	}

	norm, err := gametime.NewForZone(cfg.TimeZone)
	if err != nil {
		return fmt.Errorf("loading time zone: %w", err)
	}

	if team == "" {
		team = cfg.DefaultTeam
	}
	req := backfill.Request{Team: team, Recent: recent, DryRun: dryRun}
	for _, id := range strings.Split(seasonList, ",") {
		if id = strings.TrimSpace(id); id != "" {
			req.Seasons = append(req.Seasons, id)
		}
	}

	spec, err := backfill.BuildSpec(req, norm.Now(clockwork.NewRealClock()))
	if err != nil {
		return err
	}

	cacheStore, closeStore, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	league := nhl.New(cfg.NHLBaseURL, log, nhl.WithNormalizer(norm))
	ppClient := puckpedia.New(cfg.PuckpediaBaseURL, log, puckpedia.WithMinInterval(cfg.PuckpediaMinInterval))
	injuries := puckpedia.NewCollector(log, puckpedia.DefaultStrategies(ppClient, nil, clockwork.NewRealClock(), norm.Location())...)

	aggregator := service.NewAggregator(league, injuries,
		service.WithTimeouts(service.Timeouts{
			Schedule:  cfg.ScheduleTimeout,
			Stats:     cfg.StatsTimeout,
			Standings: cfg.StandingsTimeout,
			Injuries:  cfg.InjuryTimeout,
		}),
		service.WithNormalizer(norm),
		service.WithLogger(log),
	)
	manager := cache.NewManager(cacheStore, aggregator, log, cache.WithTTL(cfg.CacheTTL))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := backfill.NewRunner(manager, log)
	reporter := &consoleReporter{dryRun: dryRun, started: time.Now()}
	if err := runner.Run(ctx, spec, reporter); err != nil {
		return fmt.Errorf("backfill failed: %w", err)
	}
	return nil
}

// openStore opens the configured persistent store. A memory store would be
// discarded on exit, so the CLI refuses it.
func openStore(cfg *config.Config, log zerolog.Logger) (cache.Store, func(), error) {
	switch cfg.CacheBackend {
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return rc, func() { _ = rc.Close() }, nil
	case config.BackendPostgres:
		db, err := store.NewDatabase(cfg.PostgresDSN, log)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(context.Background()); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		return db, func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("cache backend %q does not persist; use redis or postgres", cfg.CacheBackend)
	}
}

type consoleReporter struct {
	dryRun  bool
	started time.Time
}

func (c *consoleReporter) OnJobStart(spec backfill.JobSpec) {
	fmt.Printf("Starting %s job for %s: %d seasons (dry_run=%v)\n", spec.Type, spec.Team, len(spec.Seasons), c.dryRun)
}

func (c *consoleReporter) OnSeasonStart(seasonID string, index int, total int) {
	fmt.Printf("[%d/%d] %s\n", index+1, total, season.DisplayName(seasonID))
}

func (c *consoleReporter) OnSeasonRefreshed(seasonID string, games int) {
	fmt.Printf("  refreshed %s (%d games)\n", seasonID, games)
}

func (c *consoleReporter) OnProgress(message string, current int, total int) {
	fmt.Printf("Progress: %s (%d/%d)\n", message, current, total)
}

func (c *consoleReporter) OnJobComplete() {
	fmt.Printf("Job complete in %v\n", time.Since(c.started).Round(time.Millisecond))
}

func (c *consoleReporter) OnJobError(seasonID string, err error) {
	if seasonID == "" {
		fmt.Printf("Job error: %v\n", err)
		return
	}
	fmt.Printf("  %s failed: %v\n", seasonID, err)
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/court-spotter/external/courtme"
	"github.com/riskibarqy/court-spotter/external/klubyorg"
	"github.com/riskibarqy/court-spotter/external/playtomic"
	"github.com/riskibarqy/court-spotter/external/rezerwujkort"
	"github.com/riskibarqy/court-spotter/internal/config"
	"github.com/riskibarqy/court-spotter/internal/domain/availability"
	"github.com/riskibarqy/court-spotter/internal/domain/club"
	"github.com/riskibarqy/court-spotter/internal/domain/playtomiccourt"
	"github.com/riskibarqy/court-spotter/internal/infrastructure/lock"
	"github.com/riskibarqy/court-spotter/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/court-spotter/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/court-spotter/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/court-spotter/internal/interfaces/httpapi"
	"github.com/riskibarqy/court-spotter/internal/observability"
	"github.com/riskibarqy/court-spotter/internal/platform/batch"
	basecache "github.com/riskibarqy/court-spotter/internal/platform/cache"
	idgen "github.com/riskibarqy/court-spotter/internal/platform/id"
	"github.com/riskibarqy/court-spotter/internal/platform/logging"
	"github.com/riskibarqy/court-spotter/internal/usecase"
)

// Container holds the wired services shared by every CLI command.
type Container struct {
	Config       config.Config
	Logger       *logging.Logger
	Clubs        club.Repository
	Availability availability.Repository
	Courts       playtomiccourt.Repository
	Registry     *usecase.ClubRegistryService
	Sync         *usecase.AvailabilitySyncService
	CourtCatalog *usecase.CourtCatalogService
	Metrics      *observability.SyncMetrics

	db    *sqlx.DB
	redis *redis.Client
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Container, error) {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Container{Config: cfg, Logger: logger}

	if err := c.initRepositories(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}

	ids := idgen.NewUUIDGenerator()
	providerCfg := c.providerConfigs()

	klubyOrg, err := klubyorg.New(providerCfg.klubyOrg, logger.Named("klubyorg"))
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("build kluby.org provider: %w", err)
	}
	playtomicProvider, err := playtomic.New(providerCfg.playtomic, c.Courts, logger.Named("playtomic"))
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("build playtomic provider: %w", err)
	}
	resolver := usecase.NewProviderResolver(
		playtomicProvider,
		klubyOrg,
		rezerwujkort.New(providerCfg.rezerwujKort, logger.Named("rezerwujkort")),
		courtme.New(),
	)

	c.Metrics = observability.NewSyncMetrics()
	c.Registry = usecase.NewClubRegistryService(c.Clubs)
	c.Sync = usecase.NewAvailabilitySyncService(c.Clubs, c.Availability, resolver, ids, usecase.SyncConfig{
		DaysToSync:     cfg.SyncDaysToSync,
		MaxClubWorkers: cfg.SyncMaxClubWorkers,
	}, logger).WithObserver(c.Metrics)
	c.CourtCatalog = usecase.NewCourtCatalogService(
		c.Clubs,
		c.Courts,
		playtomic.NewCourtFetcher(providerCfg.playtomic, logger.Named("playtomic")),
		cfg.SyncMaxClubWorkers,
		logger,
	)

	if cfg.UsesRedisLease() {
		c.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		c.Sync.WithCycleLock(lock.NewRedisLease(c.redis, lock.DefaultSyncLeaseKey, cfg.SyncLeaseTTL, ids))
		logger.Info("sync cycle lease enabled", "redis_addr", cfg.RedisAddr, "ttl", cfg.SyncLeaseTTL.String())
	}

	return c, nil
}

func (c *Container) initRepositories(ctx context.Context) error {
	cfg := c.Config

	var (
		clubs  club.Repository
		courts playtomiccourt.Repository
	)
	if cfg.UsesPostgres() {
		db, err := openDB(ctx, cfg)
		if err != nil {
			return err
		}
		c.db = db
		seed, err := loadSeed(cfg.ClubsSeedFile)
		if err != nil {
			return err
		}
		seeded, err := postgres.BootstrapClubs(ctx, db, seed)
		if err != nil {
			return err
		}
		if seeded > 0 {
			c.Logger.Info("club registry bootstrapped from seed", "count", seeded, "file", cfg.ClubsSeedFile)
		}
		clubs = postgres.NewClubRepository(db)
		courts = postgres.NewPlaytomicCourtRepository(db)
		c.Availability = postgres.NewAvailabilityRepository(db, batch.Config{
			Size:  cfg.StoreBatchSize,
			Delay: cfg.StoreBatchDelay,
		})
		c.Logger.Info("using postgres repositories")
	} else {
		seed, err := loadSeed(cfg.ClubsSeedFile)
		if err != nil {
			return err
		}
		clubs = memory.NewClubRepository(seed)
		courts = memory.NewPlaytomicCourtRepository()
		c.Availability = memory.NewAvailabilityRepository()
		c.Logger.Warn("DB_URL empty, using in-memory repositories", "seed_clubs", len(seed))
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		clubs = cache.NewClubRepository(clubs, store)
		courts = cache.NewPlaytomicCourtRepository(courts, store)
	}
	c.Clubs = clubs
	c.Courts = courts
	return nil
}

func loadSeed(path string) ([]club.Club, error) {
	if path == "" {
		return nil, nil
	}
	return memory.LoadClubSeed(path)
}

type providerConfigs struct {
	playtomic    playtomic.Config
	klubyOrg     klubyorg.Config
	rezerwujKort rezerwujkort.Config
}

func (c *Container) providerConfigs() providerConfigs {
	cfg := c.Config
	return providerConfigs{
		playtomic: playtomic.Config{
			APIBaseURL:     cfg.PlaytomicAPIBaseURL,
			APITimeZone:    cfg.PlaytomicAPITimeZone,
			EarliestHour:   cfg.SyncEarliestBookingHour,
			LatestHour:     cfg.SyncLatestBookingHour,
			Timeout:        cfg.ProviderHTTPTimeout,
			MaxRetries:     cfg.ProviderMaxRetries,
			DayWorkers:     cfg.SyncMaxDayWorkers,
			CircuitBreaker: cfg.ProviderCircuit,
		},
		klubyOrg: klubyorg.Config{
			BaseURL:        cfg.KlubyOrgBaseURL,
			Username:       cfg.KlubyOrgUsername,
			Password:       cfg.KlubyOrgPassword,
			Timeout:        cfg.ProviderHTTPTimeout,
			MaxRetries:     cfg.ProviderMaxRetries,
			DayWorkers:     cfg.SyncMaxDayWorkers,
			CircuitBreaker: cfg.ProviderCircuit,
		},
		rezerwujKort: rezerwujkort.Config{
			BaseURL:        cfg.RezerwujKortBaseURL,
			EarliestHour:   cfg.SyncEarliestBookingHour,
			LatestHour:     cfg.SyncLatestBookingHour,
			Timeout:        cfg.ProviderHTTPTimeout,
			MaxRetries:     cfg.ProviderMaxRetries,
			DayWorkers:     cfg.SyncMaxDayWorkers,
			CircuitBreaker: cfg.ProviderCircuit,
		},
	}
}

func (c *Container) NewHTTPServer() (*http.Server, error) {
	if c.Config.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(c.Sync, c.CourtCatalog, c.Metrics.Handler(), c.Logger)
	return &http.Server{
		Addr:         c.Config.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, c.Logger, c.Config.InternalJobToken),
		ReadTimeout:  c.Config.ReadTimeout,
		WriteTimeout: c.Config.WriteTimeout,
	}, nil
}

func (c *Container) Close() error {
	var errs []error
	if c.redis != nil {
		errs = append(errs, c.redis.Close())
	}
	if c.db != nil {
		errs = append(errs, c.db.Close())
	}
	return errors.Join(errs...)
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/court-spotter/internal/platform/logging"
	"github.com/riskibarqy/court-spotter/internal/platform/resilience"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	LogLevel                   logging.Level
	HTTPAddr                   string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	InternalJobToken           string
	DBURL                      string
	DBDisablePreparedBinary    bool
	CacheEnabled               bool
	CacheTTL                   time.Duration
	RedisAddr                  string
	RedisPassword              string
	RedisDB                    int
	SyncLeaseTTL               time.Duration
	ClubsSeedFile              string
	SyncUpdatePeriod           time.Duration
	SyncDaysToSync             int
	SyncEarliestBookingHour    int
	SyncLatestBookingHour      int
	SyncMaxClubWorkers         int
	SyncMaxDayWorkers          int
	StoreBatchSize             int
	StoreBatchDelay            time.Duration
	ProviderHTTPTimeout        time.Duration
	ProviderMaxRetries         int
	ProviderCircuit            resilience.CircuitBreakerConfig
	PlaytomicAPIBaseURL        string
	PlaytomicAPITimeZone       string
	KlubyOrgBaseURL            string
	KlubyOrgUsername           string
	KlubyOrgPassword           string
	RezerwujKortBaseURL        string
	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("SERVICE_NAME", "court-spotter"),
		ServiceVersion:             getEnv("SERVICE_VERSION", "dev"),
		LogLevel:                   logging.ParseLevel(getEnv("LOG_LEVEL", "info")),
		HTTPAddr:                   getEnv("HTTP_ADDR", ":8080"),
		InternalJobToken:           strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		DBURL:                      strings.TrimSpace(getEnv("DB_URL", "")),
		RedisAddr:                  strings.TrimSpace(getEnv("REDIS_ADDR", "")),
		RedisPassword:              getEnv("REDIS_PASSWORD", ""),
		ClubsSeedFile:              strings.TrimSpace(getEnv("CLUBS_SEED_FILE", "")),
		PlaytomicAPIBaseURL:        strings.TrimSpace(getEnv("PLAYTOMIC_API_BASE_URL", "https://playtomic.com")),
		PlaytomicAPITimeZone:       strings.TrimSpace(getEnv("PLAYTOMIC_API_TIMEZONE", "UTC")),
		KlubyOrgBaseURL:            strings.TrimSpace(getEnv("KLUBYORG_BASE_URL", "https://kluby.org/")),
		KlubyOrgUsername:           strings.TrimSpace(getEnv("KLUBYORG_USERNAME", "")),
		KlubyOrgPassword:           getEnv("KLUBYORG_PASSWORD", ""),
		RezerwujKortBaseURL:        strings.TrimSpace(getEnv("REZERWUJKORT_BASE_URL", "https://www.rezerwujkort.pl")),
		PyroscopeServerAddress:     strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	if cfg.ReadTimeout, err = getEnvAsPositiveDuration("HTTP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	// One sync cycle can run inside the internal job request.
	if cfg.WriteTimeout, err = getEnvAsPositiveDuration("HTTP_WRITE_TIMEOUT", "10m"); err != nil {
		return Config{}, err
	}

	if cfg.DBDisablePreparedBinary, err = getEnvAsBool("DB_DISABLE_PREPARED_BINARY_RESULT", false); err != nil {
		return Config{}, err
	}
	if cfg.CacheEnabled, err = getEnvAsBool("CACHE_ENABLED", true); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = getEnvAsPositiveDuration("CACHE_TTL", "10m"); err != nil {
		return Config{}, err
	}

	if cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0); err != nil {
		return Config{}, fmt.Errorf("parse REDIS_DB: %w", err)
	}
	if cfg.RedisDB < 0 {
		return Config{}, fmt.Errorf("REDIS_DB must be >= 0")
	}
	if cfg.SyncLeaseTTL, err = getEnvAsPositiveDuration("SYNC_LEASE_TTL", "9m"); err != nil {
		return Config{}, err
	}

	if cfg.SyncUpdatePeriod, err = getEnvAsPositiveDuration("SYNC_UPDATE_PERIOD", "10m"); err != nil {
		return Config{}, err
	}
	if cfg.SyncDaysToSync, err = getEnvAsPositiveInt("SYNC_DAYS_TO_SYNC", 14); err != nil {
		return Config{}, err
	}
	if cfg.SyncEarliestBookingHour, err = getEnvAsInt("SYNC_EARLIEST_BOOKING_HOUR", 6); err != nil {
		return Config{}, fmt.Errorf("parse SYNC_EARLIEST_BOOKING_HOUR: %w", err)
	}
	if cfg.SyncLatestBookingHour, err = getEnvAsInt("SYNC_LATEST_BOOKING_HOUR", 22); err != nil {
		return Config{}, fmt.Errorf("parse SYNC_LATEST_BOOKING_HOUR: %w", err)
	}
	if cfg.SyncEarliestBookingHour < 0 || cfg.SyncLatestBookingHour > 23 || cfg.SyncEarliestBookingHour > cfg.SyncLatestBookingHour {
		return Config{}, fmt.Errorf("booking hours must satisfy 0 <= SYNC_EARLIEST_BOOKING_HOUR <= SYNC_LATEST_BOOKING_HOUR <= 23")
	}
	if cfg.SyncMaxClubWorkers, err = getEnvAsPositiveInt("SYNC_MAX_CLUB_WORKERS", 8); err != nil {
		return Config{}, err
	}
	if cfg.SyncMaxDayWorkers, err = getEnvAsPositiveInt("SYNC_MAX_DAY_WORKERS", 8); err != nil {
		return Config{}, err
	}

	if cfg.StoreBatchSize, err = getEnvAsPositiveInt("STORE_BATCH_SIZE", 100); err != nil {
		return Config{}, err
	}
	if cfg.StoreBatchDelay, err = time.ParseDuration(getEnv("STORE_BATCH_DELAY", "500ms")); err != nil {
		return Config{}, fmt.Errorf("parse STORE_BATCH_DELAY: %w", err)
	}
	if cfg.StoreBatchDelay < 0 {
		return Config{}, fmt.Errorf("STORE_BATCH_DELAY must be >= 0")
	}

	if cfg.ProviderHTTPTimeout, err = getEnvAsPositiveDuration("PROVIDER_HTTP_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.ProviderMaxRetries, err = getEnvAsInt("PROVIDER_MAX_RETRIES", 2); err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_MAX_RETRIES: %w", err)
	}
	if cfg.ProviderMaxRetries < 0 {
		return Config{}, fmt.Errorf("PROVIDER_MAX_RETRIES must be >= 0")
	}
	if cfg.ProviderCircuit, err = loadCircuit("PROVIDER_CIRCUIT"); err != nil {
		return Config{}, err
	}
	if _, err := time.LoadLocation(cfg.PlaytomicAPITimeZone); err != nil {
		return Config{}, fmt.Errorf("parse PLAYTOMIC_API_TIMEZONE: %w", err)
	}

	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", false); err != nil {
		return Config{}, err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.UptraceLogsEnabled, err = getEnvAsBool("UPTRACE_LOGS_ENABLED", false); err != nil {
		return Config{}, err
	}

	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeUploadRate, err = getEnvAsPositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// UsesPostgres reports whether repositories should be backed by DB_URL.
func (c Config) UsesPostgres() bool {
	return c.DBURL != ""
}

// UsesRedisLease reports whether sync cycles are guarded by a Redis lease.
func (c Config) UsesRedisLease() bool {
	return c.RedisAddr != ""
}

func loadCircuit(prefix string) (resilience.CircuitBreakerConfig, error) {
	defaults := resilience.DefaultCircuitBreakerConfig()

	enabled, err := getEnvAsBool(prefix+"_ENABLED", defaults.Enabled)
	if err != nil {
		return resilience.CircuitBreakerConfig{}, err
	}
	failureCount, err := getEnvAsPositiveInt(prefix+"_FAILURE_COUNT", defaults.FailureThreshold)
	if err != nil {
		return resilience.CircuitBreakerConfig{}, err
	}
	openTimeout, err := getEnvAsPositiveDuration(prefix+"_OPEN_TIMEOUT", defaults.OpenTimeout.String())
	if err != nil {
		return resilience.CircuitBreakerConfig{}, err
	}
	halfOpenMaxReq, err := getEnvAsPositiveInt(prefix+"_HALF_OPEN_MAX_REQ", defaults.HalfOpenMaxReq)
	if err != nil {
		return resilience.CircuitBreakerConfig{}, err
	}

	return resilience.CircuitBreakerConfig{
		Enabled:          enabled,
		FailureThreshold: failureCount,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpenMaxReq,
	}, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsPositiveInt(key string, fallback int) (int, error) {
	out, err := getEnvAsInt(key, fallback)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	out, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func getEnvAsPositiveDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

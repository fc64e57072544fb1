package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/court-spotter/internal/app"
	"github.com/riskibarqy/court-spotter/internal/config"
	"github.com/riskibarqy/court-spotter/internal/platform/logging"
)

var migrationDirCandidates = []string{"./db/migrations", "/app/db/migrations"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewJSON(cfg.LogLevel).Named("migration")
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger, os.Args[1], os.Args[2:]); err != nil {
		logger.Error("migration failed", "command", os.Args[1], "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *logging.Logger, command string, args []string) error {
	if cfg.DBURL == "" {
		return errors.New("DB_URL is required")
	}

	migrationsDir, err := resolveMigrationsDir(os.Getenv("MIGRATIONS_DIR"))
	if err != nil {
		return err
	}
	sourceURL := "file://" + filepath.ToSlash(migrationsDir)

	m, err := migrate.New(sourceURL, app.MigrationDatabaseURL(cfg))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			logger.Warn("close migrator failed", "source_error", srcErr, "db_error", dbErr)
		}
	}()

	switch strings.ToLower(strings.TrimSpace(command)) {
	case "up":
		if err := ignoreNoChange(m.Up(), logger); err != nil {
			return err
		}
		logger.Info("migrations applied", "source", sourceURL)
	case "down":
		steps, err := parseSteps(args)
		if err != nil {
			return err
		}
		if err := ignoreNoChange(m.Steps(-steps), logger); err != nil {
			return err
		}
		logger.Info("migrations rolled back", "steps", steps)
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("version: none")
			fmt.Println("dirty: false")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		fmt.Printf("version: %d\n", version)
		fmt.Printf("dirty: %t\n", dirty)
	case "force":
		if len(args) == 0 {
			return errors.New("force requires a version argument")
		}
		version, err := parseVersion(args[0])
		if err != nil {
			return err
		}
		if err := m.Force(version); err != nil {
			return fmt.Errorf("force version %d: %w", version, err)
		}
		logger.Info("migration version forced", "version", version)
	case "goto":
		if len(args) == 0 {
			return errors.New("goto requires a target version argument")
		}
		target, err := parseTarget(args[0])
		if err != nil {
			return err
		}
		if err := ignoreNoChange(m.Migrate(target), logger); err != nil {
			return err
		}
		logger.Info("migrated", "version", target)
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}

func ignoreNoChange(err error, logger *logging.Logger) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	return err
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", args[0], err)
	}
	if steps <= 0 {
		return 0, fmt.Errorf("down steps must be > 0")
	}
	return steps, nil
}

func parseVersion(raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", raw, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("version must be >= 0")
	}
	return value, nil
}

func parseTarget(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid target version %q: %w", raw, err)
	}
	return uint(value), nil
}

// resolveMigrationsDir prefers override, then the default candidates.
func resolveMigrationsDir(override string) (string, error) {
	candidates := append([]string{strings.TrimSpace(override)}, migrationDirCandidates...)
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", fmt.Errorf("migration directory not found (checked MIGRATIONS_DIR, %s)", strings.Join(migrationDirCandidates, ", "))
}

func printUsage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <up|down|version|force|goto> [args]\n", name)
	fmt.Fprintf(os.Stderr, "  %s up\n  %s down 1\n  %s version\n  %s force 1\n  %s goto 1\n", name, name, name, name, name)
}

package web

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/adapters/peddy"
	"github.com/Apurer/go-gin-pet-catalog/internal/platform/observability"
)

// Config carries environment-driven settings for the web process.
type Config struct {
	Port string
	// CatalogBaseURL is ignored when CatalogFixture names a YAML file.
	CatalogBaseURL    string
	CatalogFixture    string
	CatalogTimeout    time.Duration
	CatalogMaxRetries int
	RenderDelay       time.Duration
	AdoptTick         time.Duration
	RefreshInterval   time.Duration
	SessionTTL        time.Duration
	SessionCapacity   int
	LogLevel          string
	LogFormat         string
	TracesExporter    string
	Environment       string
}

// LoadConfig reads the optional dotenv files (".env" when none are given),
// then the environment, applies defaults and validates numbers. Variables
// already present in the environment win over dotenv entries.
func LoadConfig(dotenv ...string) (Config, error) {
	if err := loadDotEnv(dotenv...); err != nil {
		return Config{}, err
	}
	cfg := Config{
		Port:           envDefault("PORT", "8080"),
		CatalogBaseURL: envDefault("CATALOG_BASE_URL", peddy.DefaultBaseURL),
		CatalogFixture: strings.TrimSpace(os.Getenv("CATALOG_FIXTURE")),
		LogLevel:       envDefault("LOG_LEVEL", "info"),
		LogFormat:      envDefault("LOG_FORMAT", "json"),
		TracesExporter: envDefault("OTEL_TRACES_EXPORTER", observability.ExporterOTLP),
		Environment:    envDefault("ENVIRONMENT", "local"),
	}

	var errs []error
	durations := []struct {
		key      string
		unit     time.Duration
		fallback int
		dst      *time.Duration
	}{
		{"CATALOG_TIMEOUT_MS", time.Millisecond, 10000, &cfg.CatalogTimeout},
		{"RENDER_DELAY_MS", time.Millisecond, 2000, &cfg.RenderDelay},
		{"ADOPT_TICK_MS", time.Millisecond, 700, &cfg.AdoptTick},
		{"REFRESH_INTERVAL_MS", time.Millisecond, 1000, &cfg.RefreshInterval},
		{"SESSION_TTL_MINUTES", time.Minute, 30, &cfg.SessionTTL},
	}
	for _, d := range durations {
		n, err := positiveInt(d.key, d.fallback)
		errs = append(errs, err)
		*d.dst = time.Duration(n) * d.unit
	}

	var err error
	cfg.SessionCapacity, err = positiveInt("SESSION_CAPACITY", 1024)
	errs = append(errs, err)
	cfg.CatalogMaxRetries, err = nonNegativeInt("CATALOG_MAX_RETRIES", 2)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that flags may have overridden after loading.
func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if c.CatalogFixture == "" && c.CatalogBaseURL == "" {
		errs = append(errs, errors.New("CATALOG_BASE_URL or CATALOG_FIXTURE is required"))
	}
	switch strings.ToLower(c.TracesExporter) {
	case observability.ExporterOTLP, observability.ExporterStdout, observability.ExporterNone:
	default:
		errs = append(errs, fmt.Errorf("OTEL_TRACES_EXPORTER must be otlp, stdout or none, got %q", c.TracesExporter))
	}
	if c.RenderDelay < 0 || c.AdoptTick <= 0 {
		errs = append(errs, errors.New("RENDER_DELAY_MS and ADOPT_TICK_MS must be positive"))
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func loadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func positiveInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, nil
}

func nonNegativeInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return n, nil
}

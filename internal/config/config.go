package config

import (
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the runtime configuration for the optimization core.
// All values come from the environment with sensible defaults, so the
// library is usable with a zero-effort Load in tools and tests.
type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	Logging     struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
		Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
	}
	Prediction struct {
		CacheTTL time.Duration `env:"PREDICTION_CACHE_TTL" envDefault:"5m"`
	}
	Optimization struct {
		MaxIterations  int     `env:"OPT_MAX_ITERATIONS" envDefault:"100"`
		Tolerance      float64 `env:"OPT_TOLERANCE" envDefault:"0.001"`
		PopulationSize int     `env:"OPT_POPULATION_SIZE" envDefault:"50"`
		WorkerCount    int     `env:"OPT_WORKER_COUNT" envDefault:"10"`
		ParetoSamples  int     `env:"OPT_PARETO_SAMPLES" envDefault:"20"`
		RandomSeed     int64   `env:"OPT_RANDOM_SEED" envDefault:"0"`
	}
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}

	// Parse environment variables
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Development runs default to verbose logging
	if cfg.Environment == "development" && cfg.Logging.Level == "" {
		cfg.Logging.Level = "debug"
	}

	return cfg, nil
}

// GetEnv returns the value of the environment variable or the default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt returns the value of the environment variable as int or the default value
func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// GetEnvAsBool returns the value of the environment variable as bool or the default value
func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

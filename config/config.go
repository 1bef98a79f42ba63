package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config carries the process configuration: the workbook path, the bind
// address, and the runtime guardrails. All fields can be set through
// AERODASH_* environment variables; cmd/server layers flag overrides on top.
type Config struct {
	WorkbookPath string `envconfig:"WORKBOOK_PATH" default:"data/Stand_2025_10_DE.xlsx"`
	Host         string `envconfig:"HOST" default:"127.0.0.1"`
	Port         int    `envconfig:"PORT" default:"8050"`

	MaxConcurrentRequests int           `envconfig:"MAX_CONCURRENT_REQUESTS" default:"16"`
	MaxConcurrentLoads    int           `envconfig:"MAX_CONCURRENT_LOADS" default:"4"`
	OperationTimeout      time.Duration `envconfig:"OPERATION_TIMEOUT" default:"30s"`
	ShutdownTimeout       time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	SheetCacheTTL         time.Duration `envconfig:"SHEET_CACHE_TTL" default:"10m"`
}

// Load reads configuration from the environment under the AERODASH prefix.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("AERODASH", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: process env: %w", err)
	}
	return cfg, nil
}

// Addr returns the host:port bind address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	APIBaseURL         string  `mapstructure:"api_base_url"`
	RefreshIntervalMs  int     `mapstructure:"refresh_interval_ms"`
	SimulatedLatencyMs int     `mapstructure:"simulated_latency_ms"`
	RefetchOnFocus     bool    `mapstructure:"refetch_on_focus"`
	PrefetchSeed       bool    `mapstructure:"prefetch_seed"`
	WalletAddress      string  `mapstructure:"wallet_address"`
	DebugLogging       bool    `mapstructure:"debug_logging"`
	LogBufferSize      int     `mapstructure:"log_buffer_size"`
	LogSpillFile       string  `mapstructure:"log_spill_file"`
	ExportDir          string  `mapstructure:"export_dir"`
	MetricsAddr        string  `mapstructure:"metrics_addr"`
	APIListenAddr      string  `mapstructure:"api_listen_addr"`
	APIFailEvery       int     `mapstructure:"api_fail_every"`
	APILatencyMs       int     `mapstructure:"api_latency_ms"`
	APIJitter          float64 `mapstructure:"api_jitter"`
}

const (
	EnvPrefix = "TOKEN_DASHBOARD"

	DefaultAPIBaseURL         = "http://localhost:8080"
	DefaultRefreshIntervalMs  = 30000
	DefaultSimulatedLatencyMs = 1000
	DefaultWalletAddress      = "0xMockedAddress"
	DefaultLogBufferSize      = 1000
	DefaultLogSpillFile       = "logs/dashboard.log"
	DefaultExportDir          = "exports"
	DefaultAPIListenAddr      = ":8080"
	DefaultAPIJitter          = 0.01
)

// LoadConfig reads path (optional), applies defaults and TOKEN_DASHBOARD_* overrides, then validates
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	defaults := map[string]interface{}{
		"api_base_url":         DefaultAPIBaseURL,
		"refresh_interval_ms":  DefaultRefreshIntervalMs,
		"simulated_latency_ms": DefaultSimulatedLatencyMs,
		"refetch_on_focus":     true,
		"prefetch_seed":        true,
		"wallet_address":       DefaultWalletAddress,
		"debug_logging":        false,
		"log_buffer_size":      DefaultLogBufferSize,
		"log_spill_file":       DefaultLogSpillFile,
		"export_dir":           DefaultExportDir,
		"metrics_addr":         "",
		"api_listen_addr":      DefaultAPIListenAddr,
		"api_fail_every":       0,
		"api_latency_ms":       0,
		"api_jitter":           DefaultAPIJitter,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// RefreshInterval is the periodic refresh interval
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMs) * time.Millisecond
}

// SimulatedLatency is the artificial delay before each positions request
func (c *Config) SimulatedLatency() time.Duration {
	return time.Duration(c.SimulatedLatencyMs) * time.Millisecond
}

// APILatency is the artificial delay of the mock API
func (c *Config) APILatency() time.Duration {
	return time.Duration(c.APILatencyMs) * time.Millisecond
}

func validateConfig(cfg *Config) error {
	if err := validateURL(cfg.APIBaseURL, "http"); err != nil {
		return fmt.Errorf("invalid api_base_url: %w", err)
	}
	if strings.TrimSpace(cfg.WalletAddress) == "" {
		return errors.New("wallet_address is empty")
	}
	if err := validateNumericParams(cfg); err != nil {
		return err
	}
	for key, addr := range map[string]string{"metrics_addr": cfg.MetricsAddr, "api_listen_addr": cfg.APIListenAddr} {
		if addr == "" {
			continue
		}
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}
	return nil
}

func validateNumericParams(cfg *Config) error {
	if cfg.RefreshIntervalMs <= 0 {
		return errors.New("invalid refresh_interval_ms")
	}
	if cfg.SimulatedLatencyMs < 0 {
		return errors.New("invalid simulated_latency_ms")
	}
	if cfg.LogBufferSize <= 0 {
		return errors.New("invalid log_buffer_size")
	}
	if cfg.APIFailEvery < 0 {
		return errors.New("invalid api_fail_every")
	}
	if cfg.APILatencyMs < 0 {
		return errors.New("invalid api_latency_ms")
	}
	if cfg.APIJitter < 0 || cfg.APIJitter >= 1 {
		return errors.New("invalid api_jitter")
	}
	return nil
}

func validateURL(rawURL string, protocol string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	if parsed.Host == "" {
		return errors.New("missing URL host")
	}
	return nil
}

package configloader

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable holding the configuration file path.
const EnvConfigPath = "EXCHANGE_SDK_CONFIG"

// DefaultConfigPath is used when neither a flag nor EnvConfigPath is set.
const DefaultConfigPath = "config/config.yml"

// BackendConfig holds the exchange backend client settings.
type BackendConfig struct {
	RequestTimeoutMillis int64   `yaml:"requestTimeoutMillis"`
	RateLimit            float64 `yaml:"rateLimit"`
	BurstLimit           int     `yaml:"burstLimit"`
}

// HostWalletConfig holds the host wallet JSON-RPC endpoint.
type HostWalletConfig struct {
	RPCURL               string `yaml:"rpcURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// TrackingConfig holds the analytics endpoints and the flag selecting the backend strategy.
type TrackingConfig struct {
	FlagsURL    string `yaml:"flagsURL"`
	EventsURL   string `yaml:"eventsURL"`
	BackendFlag string `yaml:"backendFlag"`
}

// ServerConfig holds the deep-link server settings.
type ServerConfig struct {
	Port            string `yaml:"port"`
	DedupTTLMinutes int    `yaml:"dedupTTLMinutes"`
	ReadTimeout     int    `yaml:"readTimeout"`
	WriteTimeout    int    `yaml:"writeTimeout"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level  string `yaml:"level"` // debug, info, warn, error
	Format string `yaml:"format"`
}

// Config is the top-level configuration structure.
type Config struct {
	Provider         string           `yaml:"provider"`
	Environment      string           `yaml:"environment"`
	CustomBackendURL string           `yaml:"customBackendURL"`
	SDKVersion       string           `yaml:"sdkVersion"`
	SwapAppVersion   string           `yaml:"swapAppVersion"`
	ErrorCodes       string           `yaml:"errorCodes"`
	Backend          BackendConfig    `yaml:"backend"`
	HostWallet       HostWalletConfig `yaml:"hostWallet"`
	Tracking         TrackingConfig   `yaml:"tracking"`
	Server           ServerConfig     `yaml:"server"`
	Logging          LoggingConfig    `yaml:"logging"`
}

// ResolvePath picks the flag value, then EnvConfigPath, then DefaultConfigPath.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	return DefaultConfigPath
}

// Load reads the YAML configuration file from the given path and applies defaults.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML data and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data: %v", err)
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}

	applyDefaults(&cfg)

	if cfg.Provider == "" {
		return nil, fmt.Errorf("provider must be set")
	}
	switch cfg.Environment {
	case "production", "staging", "preproduction":
	default:
		return nil, fmt.Errorf("unknown environment %q", cfg.Environment)
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "production"
		logrus.Infof("Environment not set, defaulting to %s", cfg.Environment)
	}
	if cfg.SDKVersion == "" {
		cfg.SDKVersion = "0.1.0"
	}
	if cfg.ErrorCodes == "" {
		cfg.ErrorCodes = "generic"
	}
	if cfg.Backend.RequestTimeoutMillis == 0 {
		cfg.Backend.RequestTimeoutMillis = 30000
		logrus.Infof("Backend.RequestTimeoutMillis not set, defaulting to %d ms", cfg.Backend.RequestTimeoutMillis)
	}
	if cfg.Backend.BurstLimit == 0 {
		cfg.Backend.BurstLimit = 1
	}
	if cfg.HostWallet.RequestTimeoutMillis == 0 {
		// Signing waits for the user on the device.
		cfg.HostWallet.RequestTimeoutMillis = 300000
		logrus.Infof("HostWallet.RequestTimeoutMillis not set, defaulting to %d ms", cfg.HostWallet.RequestTimeoutMillis)
	}
	if cfg.Tracking.BackendFlag == "" {
		cfg.Tracking.BackendFlag = "exchangeBackendTracking"
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.DedupTTLMinutes == 0 {
		cfg.Server.DedupTTLMinutes = 10
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 330
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

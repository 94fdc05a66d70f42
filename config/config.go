package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultLighterHost = "https://testnet.zklighter.elliot.ai"
	DefaultTimeout     = 30 * time.Second
	DefaultUserAgent   = "lighterprobe/1.0"
)

type Config struct {
	Probe   ProbeConfig   `yaml:"probe"`
	Lighter LighterConfig `yaml:"lighter"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Storage StorageConfig `yaml:"storage"`
}

type ProbeConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type LighterConfig struct {
	Host           string               `yaml:"host"`
	Timeout        time.Duration        `yaml:"timeout"`
	UserAgent      string               `yaml:"user_agent"`
	ConnectionPool ConnectionPoolConfig `yaml:"connection_pool"`
}

type ConnectionPoolConfig struct {
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxConnsPerHost int           `yaml:"max_conns_per_host"`
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

type MetricsConfig struct {
	CloudWatch CloudWatchConfig `yaml:"cloudwatch"`
}

type CloudWatchConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Region    string `yaml:"region"`
	Namespace string `yaml:"namespace"`
	Dashboard string `yaml:"dashboard"`
}

type StorageConfig struct {
	Report ReportConfig `yaml:"report"`
	S3     S3Config     `yaml:"s3"`
}

// ReportConfig controls where run reports are written. Reports go to S3 when
// storage.s3.enabled is set, otherwise below LocalDir.
type ReportConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Prefix      string `yaml:"prefix"`
	LocalDir    string `yaml:"local_dir"`
	Compression string `yaml:"compression"`
}

type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"path_style"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

func defaultConfig() Config {
	return Config{
		Lighter: LighterConfig{
			Host:      DefaultLighterHost,
			Timeout:   DefaultTimeout,
			UserAgent: DefaultUserAgent,
			ConnectionPool: ConnectionPoolConfig{
				MaxIdleConns:    10,
				MaxConnsPerHost: 2,
				IdleConnTimeout: 90 * time.Second,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Storage: StorageConfig{
			Report: ReportConfig{
				Prefix:      "lighterprobe",
				LocalDir:    "reports",
				Compression: "snappy",
			},
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := defaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if v := os.Getenv("LIGHTER_HOST"); v != "" {
		config.Lighter.Host = strings.TrimSpace(v)
	}

	// Override S3 settings from environment variables if available
	if config.Storage.S3.Enabled {
		if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
			config.Storage.S3.AccessKeyID = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
			config.Storage.S3.SecretAccessKey = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_REGION"); v != "" {
			config.Storage.S3.Region = strings.TrimSpace(v)
		}
		if v := os.Getenv("S3_BUCKET"); v != "" {
			config.Storage.S3.Bucket = strings.TrimSpace(v)
		}
	}

	config.Lighter.Host = strings.TrimSuffix(strings.TrimSpace(config.Lighter.Host), "/")
	config.Storage.S3.Bucket = strings.TrimSpace(config.Storage.S3.Bucket)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Probe.Name == "" {
		return fmt.Errorf("probe.name is required")
	}

	if cfg.Probe.Version == "" {
		return fmt.Errorf("probe.version is required")
	}

	if cfg.Lighter.Host == "" {
		return fmt.Errorf("lighter.host is required")
	}
	u, err := url.Parse(cfg.Lighter.Host)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("lighter.host '%s' must be an http(s) URL", cfg.Lighter.Host)
	}
	if IsProductionLike(AppEnvironment()) && u.Scheme != "https" {
		return fmt.Errorf("lighter.host must use https in %s", AppEnvironment())
	}

	if cfg.Lighter.Timeout <= 0 {
		return fmt.Errorf("lighter.timeout must be greater than 0")
	}

	if cfg.Storage.S3.Enabled {
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required when S3 is enabled")
		}
		if cfg.Storage.S3.Region == "" {
			return fmt.Errorf("storage.s3.region is required when S3 is enabled")
		}
		if cfg.Storage.S3.AccessKeyID == "" || cfg.Storage.S3.SecretAccessKey == "" {
			return fmt.Errorf("storage.s3.access_key_id and storage.s3.secret_access_key are required when S3 is enabled")
		}
		if !isValidS3Bucket(cfg.Storage.S3.Bucket) {
			return fmt.Errorf("storage.s3.bucket '%s' is invalid", cfg.Storage.S3.Bucket)
		}
	}

	switch cfg.Storage.Report.Compression {
	case "", "snappy", "gzip", "uncompressed":
	default:
		return fmt.Errorf("storage.report.compression '%s' is not supported", cfg.Storage.Report.Compression)
	}

	if cfg.Storage.Report.Enabled && !cfg.Storage.S3.Enabled && cfg.Storage.Report.LocalDir == "" {
		return fmt.Errorf("storage.report.local_dir is required when S3 is disabled")
	}

	return nil
}

var s3BucketRegexp = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

func isValidS3Bucket(name string) bool {
	if len(name) < 3 || len(name) > 63 {
		return false
	}
	if strings.Contains(name, "..") || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return false
	}
	return s3BucketRegexp.MatchString(name)
}

package lighter

import (
	"strings"
	"time"

	"lighterprobe/config"
)

// Configuration is the immutable set of values an APIClient is bound to.
type Configuration struct {
	Host            string
	Timeout         time.Duration
	UserAgent       string
	MaxIdleConns    int
	MaxConnsPerHost int
	IdleConnTimeout time.Duration
}

// NewConfiguration returns a configuration for host with default transport settings.
func NewConfiguration(host string) Configuration {
	return Configuration{
		Host:            strings.TrimSuffix(host, "/"),
		Timeout:         config.DefaultTimeout,
		UserAgent:       config.DefaultUserAgent,
		MaxIdleConns:    10,
		MaxConnsPerHost: 2,
		IdleConnTimeout: 90 * time.Second,
	}
}

// ConfigurationFrom maps the lighter section of the application config.
func ConfigurationFrom(cfg config.LighterConfig) Configuration {
	c := NewConfiguration(cfg.Host)
	if cfg.Timeout > 0 {
		c.Timeout = cfg.Timeout
	}
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}
	if cfg.ConnectionPool.MaxIdleConns > 0 {
		c.MaxIdleConns = cfg.ConnectionPool.MaxIdleConns
	}
	if cfg.ConnectionPool.MaxConnsPerHost > 0 {
		c.MaxConnsPerHost = cfg.ConnectionPool.MaxConnsPerHost
	}
	if cfg.ConnectionPool.IdleConnTimeout > 0 {
		c.IdleConnTimeout = cfg.ConnectionPool.IdleConnTimeout
	}
	return c
}

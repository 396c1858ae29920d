package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid database port: %d", c.Database.Port)
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.MaxOpenConns < 1 {
			return fmt.Errorf("invalid max open connections: %d", c.Database.MaxOpenConns)
		}
		if c.Database.MaxIdleConns < 1 {
			return fmt.Errorf("invalid max idle connections: %d", c.Database.MaxIdleConns)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if c.Auth.TokenSigningKey == "" {
		return fmt.Errorf("token signing key is required")
	}
	if len(c.Auth.TokenSigningKey) < 32 {
		return fmt.Errorf("token signing key must be at least 32 bytes")
	}
	if c.Codes.TTL < 0 {
		return fmt.Errorf("code ttl must not be negative")
	}
	if c.Activation.SweepInterval < time.Second {
		return fmt.Errorf("activation sweep interval must be at least 1 second")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("invalid redis db: %d", c.Redis.DB)
	}
	for name, l := range map[string]LimitConfig{
		"codeRedeem": c.RateLimit.CodeRedeem,
		"apiRequest": c.RateLimit.APIRequest,
	} {
		if l.Rate < 0 || l.BurstSize < 0 || (l.Rate > 0 && l.Period <= 0) {
			return fmt.Errorf("invalid %s rate limit", name)
		}
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("log format must be json or console")
	}
	return nil
}

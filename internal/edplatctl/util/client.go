package util

import (
	"crypto/tls"
	"fmt"
	"os"

	"github.com/khaledhosny129/Educational-platform/internal/edplatctl/client"
	"github.com/khaledhosny129/Educational-platform/internal/edplatctl/config"
)

// Environment overrides for the active context
const (
	EnvServer = "EDPLAT_API_URL"
	EnvToken  = "EDPLAT_TOKEN"
)

// GetClient creates an API client. Non-empty server and token arguments win,
// then the environment, then the current context.
func GetClient(cfg *config.Config, server, token string) (*client.Client, error) {
	if server == "" {
		server = os.Getenv(EnvServer)
	}
	if token == "" {
		token = os.Getenv(EnvToken)
	}

	var insecure bool
	if ctx, err := cfg.GetCurrentContext(); err == nil {
		if server == "" {
			server = ctx.Server
		}
		if token == "" {
			token = ctx.Token
		}
		insecure = ctx.InsecureSkipVerify
	}

	if server == "" {
		return nil, fmt.Errorf("no API server configured - set %s, pass --server or run 'edplatctl config set-context'", EnvServer)
	}

	opts := []client.Option{client.WithToken(token)}
	if insecure {
		opts = append(opts, client.WithTLSConfig(&tls.Config{InsecureSkipVerify: true})) //nolint:gosec
	}

	c, err := client.New(server, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return c, nil
}

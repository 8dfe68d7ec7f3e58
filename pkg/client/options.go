package client

import "log/slog"

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client's logger. Nil loggers are ignored.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithConfig sets the storefront behavior configuration.
func WithConfig(cfg Config) Option {
	return func(c *Client) {
		c.cfg = cfg
	}
}

package terminal

import "golang.org/x/time/rate"

type Option func(c *Client)

// WithRateLimit overrides the default request throttle
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(limit, burst)
	}
}

package replenish

import (
	"log/slog"
	"time"
)

// Option configures a Policy.
type Option func(*Policy)

// WithThreshold sets the low watermark. Non-positive values are ignored.
func WithThreshold(n int) Option {
	return func(p *Policy) {
		if n > 0 {
			p.threshold = n
		}
	}
}

// WithTimeout bounds each background run started by Trigger.
func WithTimeout(d time.Duration) Option {
	return func(p *Policy) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Policy) {
		if l != nil {
			p.logger = l
		}
	}
}

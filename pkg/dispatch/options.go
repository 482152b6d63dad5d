package dispatch

import "log/slog"

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithReplenisher sets the policy triggered after every successful pop.
func WithReplenisher(r Replenisher) Option {
	return func(d *Dispatcher) {
		d.replenisher = r
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

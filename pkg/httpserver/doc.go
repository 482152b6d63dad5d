// Package httpserver runs the standup HTTP API with graceful shutdown.
//
// Run blocks until the context is cancelled or the listener fails, then
// drains in-flight requests within the shutdown timeout:
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	g.Go(func() error { return srv.Run(ctx, router) })
//
// Signal handling belongs to the caller; pass a context from
// signal.NotifyContext.
//
// HealthCheckHandler serves liveness and readiness probes.
package httpserver

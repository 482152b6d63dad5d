// Package logger builds the *slog.Logger used across the standup service.
//
// New assembles a text or JSON handler from functional options, attaches
// static attributes (service name, environment) and wraps the handler in a
// decorator that copies dispatch- or request-scoped values out of the
// context on every record.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "standup"),
//	    logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "topic sent", logger.Topic(topic), logger.Duration(d))
//
// Attribute helpers keep key names consistent between packages. Error and
// Errors return an empty attribute for nil errors, so they can be passed
// unconditionally.
package logger

// Command standup sends one standup topic per scheduled interval and keeps
// the topic queue topped up with generated topics.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/standup/pkg/api"
	"github.com/dmitrymomot/standup/pkg/config"
	"github.com/dmitrymomot/standup/pkg/dispatch"
	"github.com/dmitrymomot/standup/pkg/email"
	"github.com/dmitrymomot/standup/pkg/file"
	"github.com/dmitrymomot/standup/pkg/generator"
	"github.com/dmitrymomot/standup/pkg/httpserver"
	"github.com/dmitrymomot/standup/pkg/logger"
	"github.com/dmitrymomot/standup/pkg/notify"
	"github.com/dmitrymomot/standup/pkg/redis"
	"github.com/dmitrymomot/standup/pkg/replenish"
	"github.com/dmitrymomot/standup/pkg/schedule"
	"github.com/dmitrymomot/standup/pkg/topics"
	"github.com/dmitrymomot/standup/pkg/webhook"
)

var ErrInvalidConfig = errors.New("invalid configuration")

func main() {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		slog.Error("failed to load configuration", logger.Error(err))
		os.Exit(1)
	}

	log := newLogger(cfg)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("standup stopped", logger.Error(err))
		os.Exit(1)
	}
}

func newLogger(cfg Config) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, "standup"),
		logger.WithContextExtractors(api.RequestIDExtractor()),
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevelName(cfg.LogLevel))
	}
	return logger.New(opts...)
}

// run wires the service and blocks until ctx is cancelled or a component fails.
func run(ctx context.Context, cfg Config, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	sched, err := schedule.Parse(cfg.CronSchedule)
	if err != nil {
		return err
	}

	svc, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.close()

	svc.dispatcher.Bootstrap(ctx, cfg.SeedTopics)

	scheduler, err := schedule.New(sched, svc.dispatcher.Run, schedule.WithLogger(log))
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return scheduler.Run(gctx) })

	if cfg.HTTPEnabled {
		srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
		g.Go(func() error { return srv.Run(gctx, svc.router) })
	}

	err = g.Wait()
	svc.policy.Wait()

	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		log.Info("standup shut down")
		return nil
	}
	return err
}

type service struct {
	store      topics.Store
	policy     *replenish.Policy
	dispatcher *dispatch.Dispatcher
	router     http.Handler
	closers    []func() error
}

func (a *service) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

func build(ctx context.Context, cfg Config, log *slog.Logger) (*service, error) {
	a := &service{}
	var readyChecks []api.Option

	switch cfg.StoreBackend {
	case storeRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		readyChecks = append(readyChecks, api.WithReadyCheck(redis.Healthcheck(client)))

		a.store, err = newRedisStore(client, cfg.Redis.TopicsKey, log)
		if err != nil {
			a.close()
			return nil, err
		}
	default:
		store, err := topics.NewFileStore(cfg.TopicsPath, topics.WithFileLogger(log))
		if err != nil {
			return nil, err
		}
		a.store = store
	}

	images, err := newImageStorage(ctx, cfg)
	if err != nil {
		a.close()
		return nil, err
	}

	gen, err := generator.NewOpenAI(generator.OpenAIConfig{
		APIKey:     cfg.OpenAI.APIKey,
		Model:      cfg.OpenAI.Model,
		ImageModel: cfg.OpenAI.ImageModel,
		BaseURL:    cfg.OpenAI.BaseURL,
		Prompt:     cfg.OpenAI.Prompt,
		Storage:    images,
		Logger:     log,
	})
	if err != nil {
		a.close()
		return nil, err
	}

	a.policy, err = replenish.New(a.store, gen,
		replenish.WithThreshold(cfg.MinTopics),
		replenish.WithTimeout(cfg.ReplenishTimeout),
		replenish.WithLogger(log),
	)
	if err != nil {
		a.close()
		return nil, err
	}

	var imageSource notify.ImageSource
	if images != nil && cfg.OpenAI.Images {
		imageSource = notify.SharedImages(gen)
	}

	notifier, err := newNotifier(cfg, imageSource, log)
	if err != nil {
		a.close()
		return nil, err
	}

	a.dispatcher, err = dispatch.New(a.store, notifier,
		dispatch.WithReplenisher(a.policy),
		dispatch.WithLogger(log),
	)
	if err != nil {
		a.close()
		return nil, err
	}

	apiOpts := append([]api.Option{api.WithLogger(log)}, readyChecks...)
	if local, ok := images.(*file.LocalStorage); ok {
		// Validate guarantees an absolute URL with a path.
		u, _ := url.Parse(cfg.ImageBaseURL)
		apiOpts = append(apiOpts, api.WithImages(u.Path, local.BaseDir()))
	}
	a.router = api.NewRouter(a.store, a.dispatcher, apiOpts...)

	return a, nil
}

func newRedisStore(client goredis.UniversalClient, key string, log *slog.Logger) (*topics.RedisStore, error) {
	return topics.NewRedisStore(client, key, topics.WithRedisLogger(log))
}

// newImageStorage returns nil when images are disabled.
func newImageStorage(ctx context.Context, cfg Config) (file.Storage, error) {
	switch cfg.ImageStorage {
	case imagesLocal:
		return file.NewLocalStorage(cfg.ImageDir, cfg.ImageBaseURL)
	case imagesS3:
		return file.NewS3Storage(ctx, cfg.S3)
	default:
		return nil, nil
	}
}

// newNotifier combines every configured channel, falling back to the log.
func newNotifier(cfg Config, images notify.ImageSource, log *slog.Logger) (notify.Notifier, error) {
	var channels []notify.Notifier

	if len(cfg.Recipients) > 0 {
		var sender email.EmailSender
		if cfg.EmailDev {
			sender = email.NewDevSender(cfg.Email.DevOutputDir)
		} else {
			var err error
			if sender, err = email.NewPostmarkClient(cfg.Email); err != nil {
				return nil, err
			}
		}

		opts := []notify.EmailOption{notify.WithEmailLogger(log)}
		if images != nil {
			opts = append(opts, notify.WithEmailImages(images))
		}
		n, err := notify.NewEmailNotifier(sender, cfg.Recipients, opts...)
		if err != nil {
			return nil, err
		}
		channels = append(channels, n)
	}

	if cfg.Webhook.URL != "" {
		poster := webhook.NewSender(
			webhook.WithTimeout(cfg.Webhook.Timeout),
			webhook.WithMaxRetries(cfg.Webhook.MaxRetries),
			webhook.WithSignature(cfg.Webhook.Secret),
			webhook.WithCircuitBreaker(webhook.NewCircuitBreaker(5, 1, 0)),
			webhook.WithLogger(log),
		)

		opts := []notify.TeamsOption{notify.WithTeamsLogger(log)}
		if images != nil {
			opts = append(opts, notify.WithTeamsImages(images))
		}
		n, err := notify.NewTeamsNotifier(poster, cfg.Webhook.URL, opts...)
		if err != nil {
			return nil, err
		}
		channels = append(channels, n)
	}

	if len(channels) == 0 {
		log.Warn("no notification channel configured, topics will only be logged")
		return notify.NewLogNotifier(log), nil
	}
	if len(channels) == 1 {
		return channels[0], nil
	}
	return notify.NewMulti(channels, notify.WithMultiLogger(log)), nil
}

package main

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/standup/pkg/email"
	"github.com/dmitrymomot/standup/pkg/file"
	"github.com/dmitrymomot/standup/pkg/httpserver"
	"github.com/dmitrymomot/standup/pkg/redis"
)

const (
	storeFile  = "file"
	storeRedis = "redis"

	imagesNone  = "none"
	imagesLocal = "local"
	imagesS3    = "s3"
)

// Config is the service configuration, read from the environment and an
// optional .env file.
type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"`

	CronSchedule     string        `env:"CRON_SCHEDULE,required"`
	MinTopics        int           `env:"MIN_TOPICS" envDefault:"10"`
	TopicsPath       string        `env:"TOPICS_PATH" envDefault:"topics.txt"`
	StoreBackend     string        `env:"STORE_BACKEND" envDefault:"file"`
	SeedTopics       []string      `env:"SEED_TOPICS" envSeparator:"|"`
	ReplenishTimeout time.Duration `env:"REPLENISH_TIMEOUT" envDefault:"2m"`

	OpenAI OpenAIConfig

	Recipients []string `env:"RECIPIENT" envSeparator:","`
	Email      email.Config
	EmailDev   bool `env:"EMAIL_DEV"` // write emails to DEV_OUTPUT_DIR instead of sending

	Webhook WebhookConfig

	ImageStorage string `env:"IMAGE_STORAGE" envDefault:"none"`
	ImageDir     string `env:"IMAGE_DIR" envDefault:"./data/images"`
	ImageBaseURL string `env:"IMAGE_BASE_URL"` // absolute, e.g. https://standup.example.com/images/
	S3           file.S3Config

	HTTPEnabled bool `env:"HTTP_ENABLED" envDefault:"true"`
	HTTP        httpserver.Config
	Redis       redis.Config
}

type OpenAIConfig struct {
	APIKey     string `env:"OPENAI_API_KEY"`
	Model      string `env:"OPENAI_MODEL"`
	ImageModel string `env:"OPENAI_IMAGE_MODEL"`
	BaseURL    string `env:"OPENAI_BASE_URL"`
	Prompt     string `env:"OPENAI_PROMPT"`
	Images     bool   `env:"OPENAI_IMAGES" envDefault:"true"`
}

type WebhookConfig struct {
	URL        string        `env:"WEBHOOK_URL"` // Microsoft Teams incoming webhook
	Secret     string        `env:"WEBHOOK_SECRET"`
	Timeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"10s"`
	MaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
}

// Validate catches values env tags cannot express.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case storeFile:
		if strings.TrimSpace(c.TopicsPath) == "" {
			return fmt.Errorf("%w: TOPICS_PATH is required for the file store", ErrInvalidConfig)
		}
	case storeRedis:
	default:
		return fmt.Errorf("%w: unknown STORE_BACKEND %q", ErrInvalidConfig, c.StoreBackend)
	}

	switch c.ImageStorage {
	case imagesNone:
	case imagesLocal:
		// Cards and emails are read outside this host, so links must be absolute.
		// The path doubles as the route the HTTP server serves images under.
		u, err := url.Parse(c.ImageBaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: IMAGE_BASE_URL must be an absolute http(s) URL for local image storage", ErrInvalidConfig)
		}
		if strings.Trim(u.Path, "/") == "" {
			return fmt.Errorf("%w: IMAGE_BASE_URL needs a path such as /images/", ErrInvalidConfig)
		}
	case imagesS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("%w: S3_BUCKET is required for s3 image storage", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown IMAGE_STORAGE %q", ErrInvalidConfig, c.ImageStorage)
	}

	if c.MinTopics < 1 {
		return fmt.Errorf("%w: MIN_TOPICS must be positive", ErrInvalidConfig)
	}
	return nil
}

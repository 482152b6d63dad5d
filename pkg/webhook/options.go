package webhook

import (
	"log/slog"
	"net/http"
	"time"
)

// DeliveryResult describes one delivery attempt.
type DeliveryResult struct {
	DeliveryID string
	Attempt    int
	StatusCode int
	Success    bool
	Duration   time.Duration
	Error      error
}

// DeliveryHook is called after each delivery attempt
type DeliveryHook func(result DeliveryResult)

type sendOptions struct {
	timeout         time.Duration
	headers         map[string]string
	maxRetries      int
	backoffStrategy BackoffStrategy
	signatureSecret string
	circuitBreaker  *CircuitBreaker
	onDelivery      DeliveryHook
	httpClient      *http.Client
	logger          *slog.Logger
}

func defaultSendOptions() sendOptions {
	return sendOptions{
		timeout:         10 * time.Second,
		maxRetries:      3,
		backoffStrategy: DefaultBackoffStrategy(),
		logger:          slog.Default(),
	}
}

// clone copies o so per-call options never leak into the sender defaults.
func (o sendOptions) clone() *sendOptions {
	c := o
	c.headers = make(map[string]string, len(o.headers))
	for k, v := range o.headers {
		c.headers[k] = v
	}
	return &c
}

// SendOption configures a Sender or a single Send call.
type SendOption func(*sendOptions)

// WithTimeout sets the per-attempt request timeout. Default is 10 seconds.
func WithTimeout(timeout time.Duration) SendOption {
	return func(o *sendOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithHeader adds a custom header to every request.
func WithHeader(key, value string) SendOption {
	return func(o *sendOptions) {
		if key == "" || value == "" {
			return
		}
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[key] = value
	}
}

// WithMaxRetries sets the maximum number of retries. 0 disables retries.
func WithMaxRetries(n int) SendOption {
	return func(o *sendOptions) {
		if n >= 0 {
			o.maxRetries = n
		}
	}
}

func WithBackoff(strategy BackoffStrategy) SendOption {
	return func(o *sendOptions) {
		if strategy != nil {
			o.backoffStrategy = strategy
		}
	}
}

// WithBasicRetry retries attempts times with a fixed interval.
func WithBasicRetry(attempts int, interval time.Duration) SendOption {
	return func(o *sendOptions) {
		o.maxRetries = max(attempts, 0)
		o.backoffStrategy = FixedBackoff{Interval: interval}
	}
}

// WithExponentialRetry retries attempts times with exponential backoff and 10% jitter.
func WithExponentialRetry(attempts int, initialInterval, maxInterval time.Duration) SendOption {
	return func(o *sendOptions) {
		o.maxRetries = max(attempts, 0)
		o.backoffStrategy = ExponentialBackoff{
			InitialInterval: initialInterval,
			MaxInterval:     maxInterval,
			Multiplier:      2,
			JitterFactor:    0.1,
		}
	}
}

func WithNoRetry() SendOption {
	return func(o *sendOptions) {
		o.maxRetries = 0
	}
}

// WithSignature signs every request with HMAC-SHA256 using secret.
// An empty secret disables signing.
func WithSignature(secret string) SendOption {
	return func(o *sendOptions) {
		o.signatureSecret = secret
	}
}

// WithCircuitBreaker guards the endpoint with cb.
// Reuse the same instance per endpoint.
func WithCircuitBreaker(cb *CircuitBreaker) SendOption {
	return func(o *sendOptions) {
		o.circuitBreaker = cb
	}
}

// WithOnDelivery sets a callback invoked after each delivery attempt.
func WithOnDelivery(hook DeliveryHook) SendOption {
	return func(o *sendOptions) {
		o.onDelivery = hook
	}
}

// WithHTTPClient replaces the sender's HTTP client.
func WithHTTPClient(client *http.Client) SendOption {
	return func(o *sendOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

func WithLogger(l *slog.Logger) SendOption {
	return func(o *sendOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

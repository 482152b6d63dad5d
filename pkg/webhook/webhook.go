package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/standup/pkg/logger"
)

const userAgent = "standup-webhook/1.0"

// Sender delivers JSON payloads with retries. Safe for concurrent use.
type Sender struct {
	client   *http.Client
	defaults sendOptions
}

// NewSender creates a sender; opts become the defaults for every Send.
func NewSender(opts ...SendOption) *Sender {
	defaults := defaultSendOptions()
	for _, opt := range opts {
		opt(&defaults)
	}

	client := defaults.httpClient
	if client == nil {
		client = &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	return &Sender{client: client, defaults: defaults}
}

// Send marshals data to JSON and POSTs it to webhookURL.
func (s *Sender) Send(ctx context.Context, webhookURL string, data any, opts ...SendOption) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal payload: %w", ErrInvalidPayload, err)
	}
	if err := validateInputs(webhookURL, payload); err != nil {
		return err
	}

	options := s.defaults.clone()
	for _, opt := range opts {
		opt(options)
	}
	client := s.client
	if options.httpClient != nil {
		client = options.httpClient
	}

	if options.circuitBreaker != nil && !options.circuitBreaker.Allow() {
		return ErrCircuitOpen
	}

	deliveryID := uuid.NewString()
	log := options.logger.With(logger.Component("webhook"), logger.DispatchID(deliveryID))

	var lastErr error
	for attempt := 0; attempt <= options.maxRetries; attempt++ {
		if attempt > 0 {
			delay := options.backoffStrategy.NextInterval(attempt)
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		result, err := s.attempt(ctx, client, webhookURL, payload, deliveryID, options)
		result.Attempt = attempt + 1
		if options.onDelivery != nil {
			options.onDelivery(result)
		}
		if options.circuitBreaker != nil {
			if err == nil {
				options.circuitBreaker.RecordSuccess()
			} else {
				options.circuitBreaker.RecordFailure()
			}
		}

		if err == nil {
			log.DebugContext(ctx, "webhook delivered",
				slog.Int("attempt", result.Attempt), logger.Duration(result.Duration))
			return nil
		}
		lastErr = err

		log.WarnContext(ctx, "webhook attempt failed",
			slog.Int("attempt", result.Attempt),
			slog.Int("status", result.StatusCode),
			logger.Error(err))

		if isPermanentError(result.StatusCode) {
			return fmt.Errorf("%w: %w", ErrPermanentFailure, err)
		}
		if ctx.Err() != nil {
			return errors.Join(ctx.Err(), err)
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrWebhookDeliveryFailed, options.maxRetries+1, lastErr)
}

func validateInputs(webhookURL string, payload []byte) error {
	if webhookURL == "" {
		return fmt.Errorf("%w: URL is required", ErrInvalidURL)
	}

	u, err := url.Parse(webhookURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: only http and https schemes are supported", ErrInvalidURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidURL)
	}

	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return fmt.Errorf("%w: payload cannot be empty", ErrInvalidPayload)
	}
	return nil
}

// attempt makes a single HTTP request.
func (s *Sender) attempt(ctx context.Context, client *http.Client, webhookURL string, payload []byte, deliveryID string, options *sendOptions) (DeliveryResult, error) {
	start := time.Now()
	result := DeliveryResult{DeliveryID: deliveryID}

	reqCtx, cancel := context.WithTimeout(ctx, options.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, webhookURL, bytes.NewReader(payload))
	if err != nil {
		result.Error = err
		return result, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(HeaderID, deliveryID)
	for k, v := range options.headers {
		req.Header.Set(k, v)
	}
	if options.signatureSecret != "" {
		if err := SignPayload(req.Header, options.signatureSecret, payload, start); err != nil {
			result.Error = err
			return result, err
		}
	}

	resp, err := client.Do(req)
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return result, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return result, fmt.Errorf("%w: %w", ErrTemporaryFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode
	result.Success = resp.StatusCode >= 200 && resp.StatusCode < 300

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if !result.Success {
		msg := fmt.Sprintf("webhook returned status %d", resp.StatusCode)
		if len(body) > 0 {
			bodyStr := strings.ReplaceAll(string(body), "\n", " ")
			if len(bodyStr) > 200 {
				bodyStr = bodyStr[:200] + "..."
			}
			msg += ": " + bodyStr
		}
		result.Error = errors.New(msg)
		return result, result.Error
	}

	return result, nil
}

// isPermanentError reports whether a status code will not change on retry.
// 408, 425 and 429 are retried like 5xx answers.
func isPermanentError(statusCode int) bool {
	if statusCode < 400 || statusCode >= 500 {
		return false
	}
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
		return false
	default:
		return true
	}
}

// Package webhook delivers JSON payloads to chat webhooks (Microsoft Teams
// incoming webhooks, generic HTTP endpoints) with retries and an optional
// circuit breaker.
//
// A Sender carries default options; each Send may override them:
//
//	sender := webhook.NewSender(
//		webhook.WithTimeout(10*time.Second),
//		webhook.WithExponentialRetry(3, time.Second, 30*time.Second),
//		webhook.WithCircuitBreaker(webhook.NewCircuitBreaker(5, 2, time.Minute)),
//	)
//	err := sender.Send(ctx, teamsURL, card)
//
// 4xx answers other than 408, 425 and 429 are permanent and are not retried.
// Every attempt carries an X-Webhook-ID header with a delivery id that stays
// the same across retries. WithSignature adds an HMAC-SHA256 signature that
// receivers check with VerifySignature.
package webhook

// Package replenish keeps the topic queue above a low watermark by asking a
// generator for fresh topics whenever it runs short.
package replenish

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/standup/pkg/logger"
)

// DefaultThreshold is the queue size below which a top-up is attempted.
const DefaultThreshold = 10

// Store is the part of the topic queue the policy needs.
type Store interface {
	Size(ctx context.Context) (int, error)
	Append(ctx context.Context, topics []string) (int, error)
}

// Source produces candidate topics.
type Source interface {
	GenerateTopics(ctx context.Context) ([]string, error)
}

// Policy tops up a Store from a Source when it falls below a threshold.
type Policy struct {
	store     Store
	source    Source
	threshold int
	timeout   time.Duration
	logger    *slog.Logger

	running atomic.Bool
	wg      sync.WaitGroup
}

// New creates a replenishment policy.
func New(store Store, source Source, opts ...Option) (*Policy, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	if source == nil {
		return nil, ErrSourceNil
	}

	p := &Policy{
		store:     store,
		source:    source,
		threshold: DefaultThreshold,
		timeout:   2 * time.Minute,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(logger.Component("replenish"))

	return p, nil
}

// Threshold returns the configured low watermark.
func (p *Policy) Threshold() int {
	return p.threshold
}

// MaybeReplenish fetches and appends new topics when the store holds fewer
// than the threshold. It returns the number of topics actually added, which
// is zero when the store was already full enough.
func (p *Policy) MaybeReplenish(ctx context.Context) (int, error) {
	size, err := p.store.Size(ctx)
	if err != nil {
		return 0, errors.Join(ErrReplenish, err)
	}
	if size >= p.threshold {
		return 0, nil
	}

	p.logger.InfoContext(ctx, "running low on topics, fetching more",
		logger.Size(size), slog.Int("threshold", p.threshold))

	candidates, err := p.source.GenerateTopics(ctx)
	if err != nil {
		return 0, errors.Join(ErrReplenish, err)
	}

	added, err := p.store.Append(ctx, candidates)
	if err != nil {
		return 0, errors.Join(ErrReplenish, err)
	}

	p.logger.InfoContext(ctx, "topped up topics",
		logger.Count(added), slog.Int("candidates", len(candidates)))
	return added, nil
}

// Trigger runs MaybeReplenish in the background and returns immediately.
// The run is detached from ctx cancellation and bounded by the policy
// timeout. While one run is in flight further triggers are dropped; the next
// pop triggers again. Failures are logged, never returned.
func (p *Policy) Trigger(ctx context.Context) {
	if !p.running.CompareAndSwap(false, true) {
		p.logger.DebugContext(ctx, "replenishment already running")
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.running.Store(false)

		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
		defer cancel()

		start := time.Now()
		if _, err := p.MaybeReplenish(runCtx); err != nil {
			p.logger.ErrorContext(runCtx, "replenishment failed",
				logger.Error(err), logger.Duration(time.Since(start)))
		}
	}()
}

// Wait blocks until background runs started by Trigger have finished.
func (p *Policy) Wait() {
	p.wg.Wait()
}

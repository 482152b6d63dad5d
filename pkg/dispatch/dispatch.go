// Package dispatch pops the next topic off the queue and announces it.
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/standup/pkg/logger"
)

// Store is the part of the topic queue the dispatcher needs.
type Store interface {
	Pop(ctx context.Context) (string, bool, error)
	Append(ctx context.Context, topics []string) (int, error)
}

// Notifier announces a topic on one or more channels.
type Notifier interface {
	Notify(ctx context.Context, topic string) error
}

// Replenisher tops the queue up in the background.
type Replenisher interface {
	Trigger(ctx context.Context)
}

// Status describes what a single dispatch did.
type Status string

const (
	StatusSent         Status = "sent"
	StatusEmpty        Status = "empty"
	StatusNotifyFailed Status = "notify_failed"
)

// Outcome is the result of one dispatch.
type Outcome struct {
	ID     uuid.UUID `json:"id"`
	Status Status    `json:"status"`
	Topic  string    `json:"topic,omitempty"`
	Err    error     `json:"-"`
}

// Dispatcher pops one topic per fire and hands it to the notifier.
// A popped topic is never put back, even when delivery fails.
type Dispatcher struct {
	store       Store
	notifier    Notifier
	replenisher Replenisher
	logger      *slog.Logger
}

// New creates a dispatcher. The replenisher is optional.
func New(store Store, notifier Notifier, opts ...Option) (*Dispatcher, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	if notifier == nil {
		return nil, ErrNotifierNil
	}

	d := &Dispatcher{
		store:    store,
		notifier: notifier,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With(logger.Component("dispatcher"))

	return d, nil
}

// Dispatch pops the next topic, kicks off replenishment and notifies.
func (d *Dispatcher) Dispatch(ctx context.Context) Outcome {
	out := Outcome{ID: uuid.New()}
	log := d.logger.With(logger.DispatchID(out.ID))

	topic, ok, err := d.store.Pop(ctx)
	if err != nil {
		log.ErrorContext(ctx, "failed to pop topic", logger.Error(err))
		out.Status = StatusEmpty
		out.Err = err
		return out
	}
	if !ok {
		log.WarnContext(ctx, "no topics left")
		out.Status = StatusEmpty
		return out
	}
	out.Topic = topic

	if d.replenisher != nil {
		d.replenisher.Trigger(ctx)
	}

	start := time.Now()
	if err := d.notifier.Notify(ctx, topic); err != nil {
		log.ErrorContext(ctx, "failed to announce topic",
			logger.Topic(topic), logger.Error(err), logger.Duration(time.Since(start)))
		out.Status = StatusNotifyFailed
		out.Err = err
		return out
	}

	log.InfoContext(ctx, "topic announced", logger.Topic(topic), logger.Duration(time.Since(start)))
	out.Status = StatusSent
	return out
}

// Run is Dispatch shaped as a scheduler job.
func (d *Dispatcher) Run(ctx context.Context) {
	d.Dispatch(ctx)
}

// Bootstrap appends the seed topics and triggers replenishment so that a
// fresh installation has something to send on its first fire.
func (d *Dispatcher) Bootstrap(ctx context.Context, seed []string) {
	if len(seed) > 0 {
		added, err := d.store.Append(ctx, seed)
		if err != nil {
			d.logger.ErrorContext(ctx, "failed to queue seed topics", logger.Error(err), logger.Count(len(seed)))
		} else {
			d.logger.InfoContext(ctx, "seed topics queued", logger.Count(added))
		}
	}

	if d.replenisher != nil {
		d.replenisher.Trigger(ctx)
	}
}

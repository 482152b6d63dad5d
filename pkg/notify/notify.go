package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/standup/pkg/generator"
	"github.com/dmitrymomot/standup/pkg/logger"
)

// Notifier delivers a topic to a channel.
type Notifier interface {
	Notify(ctx context.Context, topic string) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, topic string) error

func (f NotifierFunc) Notify(ctx context.Context, topic string) error {
	return f(ctx, topic)
}

// ImageSource produces an illustration for a topic.
type ImageSource interface {
	GenerateImage(ctx context.Context, prompt string) (generator.ImageRef, error)
}

// Multi delivers to every channel, even when some of them fail.
type Multi struct {
	notifiers []Notifier
	logger    *slog.Logger
}

// MultiOption configures Multi.
type MultiOption func(*Multi)

func WithMultiLogger(l *slog.Logger) MultiOption {
	return func(m *Multi) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMulti combines notifiers. Nil entries are skipped.
func NewMulti(notifiers []Notifier, opts ...MultiOption) *Multi {
	m := &Multi{logger: slog.Default()}
	for _, n := range notifiers {
		if n != nil {
			m.notifiers = append(m.notifiers, n)
		}
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With(logger.Component("notify"))
	return m
}

// Len returns the number of channels.
func (m *Multi) Len() int {
	return len(m.notifiers)
}

// Notify returns nil only when every channel succeeded; otherwise the joined
// errors of the failing channels.
func (m *Multi) Notify(ctx context.Context, topic string) error {
	var errs []error
	for i, n := range m.notifiers {
		if err := m.safeNotify(ctx, n, topic); err != nil {
			m.logger.LogAttrs(ctx, slog.LevelError, "channel failed",
				slog.Int("channel_index", i),
				logger.Topic(topic),
				logger.Error(err),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Multi) safeNotify(ctx context.Context, n Notifier, topic string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrNotify, r)
		}
	}()
	return n.Notify(ctx, topic)
}

// LogNotifier writes the topic to the log. Used when no channel is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(l *slog.Logger) *LogNotifier {
	if l == nil {
		l = slog.Default()
	}
	return &LogNotifier{logger: l.With(logger.Component("notify"))}
}

func (n *LogNotifier) Notify(ctx context.Context, topic string) error {
	n.logger.InfoContext(ctx, "topic of the day", logger.Topic(topic))
	return nil
}

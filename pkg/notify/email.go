package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/standup/pkg/email"
	"github.com/dmitrymomot/standup/pkg/email/templates"
	"github.com/dmitrymomot/standup/pkg/logger"
)

const (
	EmailSubject = "Topic for today's standup"
	emailTag     = "topic"
)

// EmailNotifier emails the topic to a fixed list of recipients.
type EmailNotifier struct {
	sender     email.EmailSender
	recipients []string
	subject    string
	images     ImageSource
	logger     *slog.Logger
}

// EmailOption configures EmailNotifier.
type EmailOption func(*EmailNotifier)

func WithSubject(subject string) EmailOption {
	return func(n *EmailNotifier) {
		if s := strings.TrimSpace(subject); s != "" {
			n.subject = s
		}
	}
}

// WithEmailImages embeds a generated illustration in the email.
func WithEmailImages(src ImageSource) EmailOption {
	return func(n *EmailNotifier) {
		n.images = src
	}
}

func WithEmailLogger(l *slog.Logger) EmailOption {
	return func(n *EmailNotifier) {
		if l != nil {
			n.logger = l
		}
	}
}

// NewEmailNotifier creates an email channel. Blank recipients are ignored.
func NewEmailNotifier(sender email.EmailSender, recipients []string, opts ...EmailOption) (*EmailNotifier, error) {
	if sender == nil {
		return nil, ErrSenderNil
	}

	n := &EmailNotifier{
		sender:  sender,
		subject: EmailSubject,
		logger:  slog.Default(),
	}
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			n.recipients = append(n.recipients, r)
		}
	}
	if len(n.recipients) == 0 {
		return nil, ErrNoRecipients
	}

	for _, opt := range opts {
		opt(n)
	}
	n.logger = n.logger.With(logger.Component("notify.email"))

	return n, nil
}

// Notify sends one email per recipient and joins the failures.
func (n *EmailNotifier) Notify(ctx context.Context, topic string) error {
	if strings.TrimSpace(topic) == "" {
		return fmt.Errorf("%w: %w", ErrNotify, ErrEmptyTopic)
	}

	data := templates.TopicEmailData{Topic: topic}
	if n.images != nil {
		if img, err := n.images.GenerateImage(ctx, topic); err != nil {
			n.logger.WarnContext(ctx, "sending email without image", logger.Topic(topic), logger.Error(err))
		} else {
			data.ImageURL = img.URL
		}
	}

	html, err := templates.Render(ctx, templates.TopicEmail(data))
	if err != nil {
		return fmt.Errorf("%w: render email: %w", ErrNotify, err)
	}

	var errs []error
	for _, to := range n.recipients {
		err := n.sender.SendEmail(ctx, email.SendEmailParams{
			SendTo:   to,
			Subject:  n.subject,
			BodyHTML: html,
			BodyText: templates.TopicText(topic),
			Tag:      emailTag,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", to, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrNotify, errors.Join(errs...))
	}

	n.logger.InfoContext(ctx, "topic emailed", logger.Topic(topic), logger.Count(len(n.recipients)))
	return nil
}

package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/standup/pkg/logger"
	"github.com/dmitrymomot/standup/pkg/webhook"
)

// MessageCard is the legacy Office 365 connector card accepted by
// Microsoft Teams incoming webhooks.
type MessageCard struct {
	Type       string        `json:"@type"`
	Context    string        `json:"@context"`
	ThemeColor string        `json:"themeColor,omitempty"`
	Summary    string        `json:"summary"`
	Sections   []CardSection `json:"sections"`
}

type CardSection struct {
	ActivityTitle string      `json:"activityTitle,omitempty"`
	Markdown      bool        `json:"markdown,omitempty"`
	Images        []CardImage `json:"images,omitempty"`
}

type CardImage struct {
	Image string `json:"image"`
}

// NewTopicCard builds the card for a topic. imageURL may be empty.
func NewTopicCard(topic, imageURL string) MessageCard {
	card := MessageCard{
		Type:       "MessageCard",
		Context:    "http://schema.org/extensions",
		ThemeColor: "0076D7",
		Summary:    "Today's standup topic",
		Sections:   []CardSection{{ActivityTitle: topic, Markdown: true}},
	}
	if imageURL != "" {
		card.Sections = append(card.Sections, CardSection{Images: []CardImage{{Image: imageURL}}})
	}
	return card
}

// Poster is the part of webhook.Sender TeamsNotifier uses.
type Poster interface {
	Send(ctx context.Context, webhookURL string, data any, opts ...webhook.SendOption) error
}

// TeamsNotifier posts the topic to a Teams channel.
type TeamsNotifier struct {
	poster Poster
	url    string
	images ImageSource
	logger *slog.Logger
}

// TeamsOption configures TeamsNotifier.
type TeamsOption func(*TeamsNotifier)

// WithTeamsImages illustrates each card with an image generated from the topic.
func WithTeamsImages(src ImageSource) TeamsOption {
	return func(n *TeamsNotifier) {
		n.images = src
	}
}

func WithTeamsLogger(l *slog.Logger) TeamsOption {
	return func(n *TeamsNotifier) {
		if l != nil {
			n.logger = l
		}
	}
}

func NewTeamsNotifier(poster Poster, webhookURL string, opts ...TeamsOption) (*TeamsNotifier, error) {
	if poster == nil {
		return nil, ErrSenderNil
	}
	webhookURL = strings.TrimSpace(webhookURL)
	if webhookURL == "" {
		return nil, ErrWebhookURLEmpty
	}

	n := &TeamsNotifier{poster: poster, url: webhookURL, logger: slog.Default()}
	for _, opt := range opts {
		opt(n)
	}
	n.logger = n.logger.With(logger.Component("notify.teams"))

	return n, nil
}

// Notify posts the card. A failed image never blocks the topic.
func (n *TeamsNotifier) Notify(ctx context.Context, topic string) error {
	if strings.TrimSpace(topic) == "" {
		return fmt.Errorf("%w: %w", ErrNotify, ErrEmptyTopic)
	}

	var imageURL string
	if n.images != nil {
		img, err := n.images.GenerateImage(ctx, topic)
		if err != nil {
			n.logger.WarnContext(ctx, "posting card without image", logger.Topic(topic), logger.Error(err))
		} else {
			imageURL = img.URL
		}
	}

	if err := n.poster.Send(ctx, n.url, NewTopicCard(topic, imageURL)); err != nil {
		return fmt.Errorf("%w: teams: %w", ErrNotify, err)
	}

	n.logger.InfoContext(ctx, "topic posted", logger.Topic(topic))
	return nil
}

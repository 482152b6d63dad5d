package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/standup/pkg/generator"
	"github.com/dmitrymomot/standup/pkg/logger"
	"github.com/dmitrymomot/standup/pkg/notify"
	"github.com/dmitrymomot/standup/pkg/webhook"
)

func TestNewTopicCard(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(notify.NewTopicCard("Your favourite YouTube channel", "https://cdn.example.com/a.png"))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"@type": "MessageCard",
		"@context": "http://schema.org/extensions",
		"themeColor": "0076D7",
		"summary": "Today's standup topic",
		"sections": [
			{"activityTitle": "Your favourite YouTube channel", "markdown": true},
			{"images": [{"image": "https://cdn.example.com/a.png"}]}
		]
	}`, string(raw))

	assert.Len(t, notify.NewTopicCard("x", "").Sections, 1)
}

func TestNewTeamsNotifier(t *testing.T) {
	t.Parallel()

	_, err := notify.NewTeamsNotifier(nil, "https://example.com/hook")
	assert.ErrorIs(t, err, notify.ErrSenderNil)

	_, err = notify.NewTeamsNotifier(webhook.NewSender(), "  ")
	assert.ErrorIs(t, err, notify.ErrWebhookURLEmpty)
}

func TestTeamsNotifier_Notify(t *testing.T) {
	t.Parallel()

	newServer := func(t *testing.T, status int) (*httptest.Server, chan notify.MessageCard) {
		t.Helper()
		cards := make(chan notify.MessageCard, 4)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var c notify.MessageCard
			_ = json.NewDecoder(r.Body).Decode(&c)
			cards <- c
			w.WriteHeader(status)
		}))
		t.Cleanup(srv.Close)
		return srv, cards
	}

	sender := webhook.NewSender(webhook.WithNoRetry(), webhook.WithLogger(logger.Discard()))

	t.Run("posts card with image", func(t *testing.T) {
		t.Parallel()

		srv, cards := newServer(t, http.StatusOK)
		images := &MockImageSource{}
		images.On("GenerateImage", mock.Anything, "Worst meeting ever").
			Return(generator.ImageRef{URL: "https://cdn.example.com/b.png"}, nil)

		n, err := notify.NewTeamsNotifier(sender, srv.URL, notify.WithTeamsImages(images), notify.WithTeamsLogger(logger.Discard()))
		require.NoError(t, err)
		require.NoError(t, n.Notify(context.Background(), "Worst meeting ever"))

		c := <-cards
		assert.Equal(t, "MessageCard", c.Type)
		require.Len(t, c.Sections, 2)
		assert.Equal(t, "Worst meeting ever", c.Sections[0].ActivityTitle)
		assert.Equal(t, "https://cdn.example.com/b.png", c.Sections[1].Images[0].Image)
	})

	t.Run("image failure posts card without image", func(t *testing.T) {
		t.Parallel()

		srv, cards := newServer(t, http.StatusOK)
		images := &MockImageSource{}
		images.On("GenerateImage", mock.Anything, mock.Anything).Return(generator.ImageRef{}, generator.ErrGenerate)

		n, err := notify.NewTeamsNotifier(sender, srv.URL, notify.WithTeamsImages(images), notify.WithTeamsLogger(logger.Discard()))
		require.NoError(t, err)
		require.NoError(t, n.Notify(context.Background(), "x"))

		c := <-cards
		assert.Len(t, c.Sections, 1)
	})

	t.Run("webhook failure wraps ErrNotify", func(t *testing.T) {
		t.Parallel()

		srv, _ := newServer(t, http.StatusBadRequest)
		n, err := notify.NewTeamsNotifier(sender, srv.URL, notify.WithTeamsLogger(logger.Discard()))
		require.NoError(t, err)

		err = n.Notify(context.Background(), "x")
		require.ErrorIs(t, err, notify.ErrNotify)
		assert.ErrorIs(t, err, webhook.ErrPermanentFailure)
	})

	t.Run("empty topic", func(t *testing.T) {
		t.Parallel()

		n, err := notify.NewTeamsNotifier(sender, "https://example.com/hook")
		require.NoError(t, err)
		assert.ErrorIs(t, n.Notify(context.Background(), ""), notify.ErrEmptyTopic)
	})
}

package notify

import "errors"

var (
	ErrNotify          = errors.New("notification failed")
	ErrNoRecipients    = errors.New("notify: at least one recipient is required")
	ErrSenderNil       = errors.New("notify: sender cannot be nil")
	ErrWebhookURLEmpty = errors.New("notify: webhook URL is required")
	ErrEmptyTopic      = errors.New("notify: topic cannot be empty")
)

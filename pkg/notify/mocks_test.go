package notify_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/standup/pkg/email"
	"github.com/dmitrymomot/standup/pkg/generator"
)

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	return m.Called(ctx, params).Error(0)
}

type MockImageSource struct {
	mock.Mock
}

func (m *MockImageSource) GenerateImage(ctx context.Context, prompt string) (generator.ImageRef, error) {
	args := m.Called(ctx, prompt)
	return args.Get(0).(generator.ImageRef), args.Error(1)
}

package dispatch_test

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockNotifier is a mock implementation of Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, topic string) error {
	args := m.Called(ctx, topic)
	return args.Error(0)
}

// MockReplenisher is a mock implementation of Replenisher.
type MockReplenisher struct {
	mock.Mock
}

func (m *MockReplenisher) Trigger(ctx context.Context) {
	m.Called(ctx)
}

// MockStore is a mock implementation of Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Pop(ctx context.Context) (string, bool, error) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockStore) Append(ctx context.Context, topics []string) (int, error) {
	args := m.Called(ctx, topics)
	return args.Int(0), args.Error(1)
}

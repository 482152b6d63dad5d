package dispatch_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/standup/pkg/dispatch"
	"github.com/dmitrymomot/standup/pkg/logger"
	"github.com/dmitrymomot/standup/pkg/replenish"
	"github.com/dmitrymomot/standup/pkg/topics"
)

func newStore(t *testing.T, seed ...string) *topics.FileStore {
	t.Helper()
	s, err := topics.NewFileStore(filepath.Join(t.TempDir(), "topics.txt"), topics.WithFileLogger(logger.Discard()))
	require.NoError(t, err)
	if len(seed) > 0 {
		_, err = s.Append(context.Background(), seed)
		require.NoError(t, err)
	}
	return s
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := dispatch.New(nil, &MockNotifier{})
	assert.ErrorIs(t, err, dispatch.ErrStoreNil)

	_, err = dispatch.New(newStore(t), nil)
	assert.ErrorIs(t, err, dispatch.ErrNotifierNil)
}

func TestDispatch(t *testing.T) {
	t.Parallel()

	t.Run("sends the head topic and triggers replenishment", func(t *testing.T) {
		t.Parallel()
		store := newStore(t, "Ice-breaker?", "Blunder this week?")
		notifier := &MockNotifier{}
		notifier.On("Notify", mock.Anything, "Ice-breaker?").Return(nil).Once()
		replenisher := &MockReplenisher{}
		replenisher.On("Trigger", mock.Anything).Return().Once()

		d, err := dispatch.New(store, notifier,
			dispatch.WithReplenisher(replenisher), dispatch.WithLogger(logger.Discard()))
		require.NoError(t, err)

		out := d.Dispatch(context.Background())
		assert.Equal(t, dispatch.StatusSent, out.Status)
		assert.Equal(t, "Ice-breaker?", out.Topic)
		assert.NoError(t, out.Err)
		assert.NotEqual(t, uuid.Nil, out.ID)

		loaded, err := store.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"Blunder this week?"}, loaded)

		notifier.AssertExpectations(t)
		replenisher.AssertExpectations(t)
	})

	t.Run("empty queue does not notify or replenish", func(t *testing.T) {
		t.Parallel()
		notifier := &MockNotifier{}
		replenisher := &MockReplenisher{}

		d, err := dispatch.New(newStore(t), notifier,
			dispatch.WithReplenisher(replenisher), dispatch.WithLogger(logger.Discard()))
		require.NoError(t, err)

		out := d.Dispatch(context.Background())
		assert.Equal(t, dispatch.StatusEmpty, out.Status)
		assert.Empty(t, out.Topic)
		assert.NoError(t, out.Err)

		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
		replenisher.AssertNotCalled(t, "Trigger", mock.Anything)
	})

	t.Run("notify failure loses the topic", func(t *testing.T) {
		t.Parallel()
		store := newStore(t, "A", "B")
		notifyErr := errors.New("smtp down")
		notifier := &MockNotifier{}
		notifier.On("Notify", mock.Anything, "A").Return(notifyErr).Once()

		d, err := dispatch.New(store, notifier, dispatch.WithLogger(logger.Discard()))
		require.NoError(t, err)

		out := d.Dispatch(context.Background())
		assert.Equal(t, dispatch.StatusNotifyFailed, out.Status)
		assert.Equal(t, "A", out.Topic)
		assert.ErrorIs(t, out.Err, notifyErr)

		loaded, err := store.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"B"}, loaded)
		notifier.AssertExpectations(t)
	})

	t.Run("store failure is treated as empty", func(t *testing.T) {
		t.Parallel()
		popErr := errors.Join(topics.ErrStore, errors.New("disk full"))
		store := &MockStore{}
		store.On("Pop", mock.Anything).Return("", false, popErr).Once()
		notifier := &MockNotifier{}

		d, err := dispatch.New(store, notifier, dispatch.WithLogger(logger.Discard()))
		require.NoError(t, err)

		out := d.Dispatch(context.Background())
		assert.Equal(t, dispatch.StatusEmpty, out.Status)
		assert.ErrorIs(t, out.Err, topics.ErrStore)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
		store.AssertExpectations(t)
	})

	t.Run("each dispatch gets its own id", func(t *testing.T) {
		t.Parallel()
		notifier := &MockNotifier{}
		d, err := dispatch.New(newStore(t), notifier, dispatch.WithLogger(logger.Discard()))
		require.NoError(t, err)

		first := d.Dispatch(context.Background())
		second := d.Dispatch(context.Background())
		assert.NotEqual(t, first.ID, second.ID)
	})
}

func TestBootstrap(t *testing.T) {
	t.Parallel()

	t.Run("queues seed topics once", func(t *testing.T) {
		t.Parallel()
		store := newStore(t, "A")
		replenisher := &MockReplenisher{}
		replenisher.On("Trigger", mock.Anything).Return().Twice()

		d, err := dispatch.New(store, &MockNotifier{},
			dispatch.WithReplenisher(replenisher), dispatch.WithLogger(logger.Discard()))
		require.NoError(t, err)

		d.Bootstrap(context.Background(), []string{"A", "B"})
		d.Bootstrap(context.Background(), []string{"A", "B"})

		loaded, err := store.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, loaded)
		replenisher.AssertExpectations(t)
	})

	t.Run("store failure is logged and replenishment still runs", func(t *testing.T) {
		t.Parallel()
		store := &MockStore{}
		store.On("Append", mock.Anything, []string{"A"}).Return(0, topics.ErrStore).Once()
		replenisher := &MockReplenisher{}
		replenisher.On("Trigger", mock.Anything).Return().Once()

		d, err := dispatch.New(store, &MockNotifier{},
			dispatch.WithReplenisher(replenisher), dispatch.WithLogger(logger.Discard()))
		require.NoError(t, err)

		assert.NotPanics(t, func() { d.Bootstrap(context.Background(), []string{"A"}) })
		store.AssertExpectations(t)
		replenisher.AssertExpectations(t)
	})
}

type staticSource []string

func (s staticSource) GenerateTopics(context.Context) ([]string, error) {
	return s, nil
}

func TestDispatchWithReplenishment(t *testing.T) {
	t.Parallel()

	store := newStore(t, "Ice-breaker?", "Blunder this week?")
	policy, err := replenish.New(store, staticSource{"New topic A", "Blunder this week?"},
		replenish.WithThreshold(2), replenish.WithLogger(logger.Discard()))
	require.NoError(t, err)

	notifier := &MockNotifier{}
	notifier.On("Notify", mock.Anything, "Ice-breaker?").Return(nil).Once()

	d, err := dispatch.New(store, notifier,
		dispatch.WithReplenisher(policy), dispatch.WithLogger(logger.Discard()))
	require.NoError(t, err)

	out := d.Dispatch(context.Background())
	require.Equal(t, dispatch.StatusSent, out.Status)
	policy.Wait()

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Blunder this week?", "New topic A"}, loaded)
	notifier.AssertExpectations(t)
}

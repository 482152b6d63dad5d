package schedule_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/standup/pkg/logger"
	"github.com/dmitrymomot/standup/pkg/schedule"
)

type neverSchedule struct{}

func (neverSchedule) Next(time.Time) time.Time { return time.Time{} }
func (neverSchedule) String() string           { return "never" }

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := schedule.New(nil, func(context.Context) {})
	assert.ErrorIs(t, err, schedule.ErrScheduleNil)

	_, err = schedule.New(schedule.Every(time.Second), nil)
	assert.ErrorIs(t, err, schedule.ErrJobNil)
}

func TestSchedulerRun(t *testing.T) {
	t.Parallel()

	t.Run("fires repeatedly until cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var calls atomic.Int32
		s, err := schedule.New(schedule.Every(10*time.Millisecond), func(context.Context) {
			if calls.Add(1) == 3 {
				cancel()
			}
		}, schedule.WithLogger(logger.Discard()))
		require.NoError(t, err)

		done := make(chan error, 1)
		go func() { done <- s.Run(ctx) }()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(5 * time.Second):
			t.Fatal("scheduler did not stop")
		}
		assert.GreaterOrEqual(t, calls.Load(), int32(3))
	})

	t.Run("stops without firing when cancelled first", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		var calls atomic.Int32
		s, err := schedule.New(schedule.Every(time.Hour), func(context.Context) {
			calls.Add(1)
		}, schedule.WithLogger(logger.Discard()))
		require.NoError(t, err)

		done := make(chan error, 1)
		go func() { done <- s.Run(ctx) }()
		cancel()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(5 * time.Second):
			t.Fatal("scheduler did not stop")
		}
		assert.Zero(t, calls.Load())
	})

	t.Run("exhausted schedule ends the loop", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		s, err := schedule.New(neverSchedule{}, func(context.Context) {
			calls.Add(1)
		}, schedule.WithLogger(logger.Discard()))
		require.NoError(t, err)

		err = s.Run(context.Background())
		assert.ErrorIs(t, err, schedule.ErrScheduleExhausted)
		assert.Zero(t, calls.Load())
	})

	t.Run("impossible cron date ends the loop", func(t *testing.T) {
		t.Parallel()

		s, err := schedule.New(schedule.MustParse("0 0 30 2 *"), func(context.Context) {},
			schedule.WithLogger(logger.Discard()))
		require.NoError(t, err)

		assert.ErrorIs(t, s.Run(context.Background()), schedule.ErrScheduleExhausted)
	})

	t.Run("advances from the last fire when the clock stands still", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		fixed := time.Date(2024, time.January, 1, 8, 59, 59, 0, time.UTC)
		var calls atomic.Int32
		s, err := schedule.New(schedule.Every(time.Millisecond), func(context.Context) {
			if calls.Add(1) == 5 {
				cancel()
			}
		}, schedule.WithClock(func() time.Time { return fixed }), schedule.WithLogger(logger.Discard()))
		require.NoError(t, err)

		done := make(chan error, 1)
		go func() { done <- s.Run(ctx) }()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(5 * time.Second):
			t.Fatal("scheduler did not stop")
		}
		assert.GreaterOrEqual(t, calls.Load(), int32(5))
	})

	t.Run("recovers from a panicking job", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var calls atomic.Int32
		s, err := schedule.New(schedule.Every(5*time.Millisecond), func(context.Context) {
			if calls.Add(1) == 1 {
				panic("boom")
			}
			cancel()
		}, schedule.WithLogger(logger.Discard()))
		require.NoError(t, err)

		done := make(chan error, 1)
		go func() { done <- s.Run(ctx) }()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(5 * time.Second):
			t.Fatal("scheduler did not stop")
		}
		assert.GreaterOrEqual(t, calls.Load(), int32(2))
	})
}

package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/standup/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json by default", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Info("hello")

		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatText))
		log.Info("hello")
		assert.Contains(t, buf.String(), "level=INFO")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("invalid format panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
	})

	t.Run("level name filters records", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevelName("warn"))
		log.Info("dropped")
		assert.Empty(t, buf.String())
		log.Warn("kept")
		assert.Equal(t, "kept", decode(t, buf)["msg"])
	})

	t.Run("static attributes", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithAttr(slog.String("svc", "test")))
		log.Info("msg")
		assert.Equal(t, "test", decode(t, buf)["svc"])
	})

	t.Run("context value", func(t *testing.T) {
		t.Parallel()
		type key struct{}
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithContextValue("request_id", key{}))

		ctx := context.WithValue(context.Background(), key{}, "req-1")
		log.InfoContext(ctx, "msg")
		assert.Equal(t, "req-1", decode(t, buf)["request_id"])
	})

	t.Run("context value survives With", func(t *testing.T) {
		t.Parallel()
		type key struct{}
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithContextValue("request_id", key{}))

		ctx := context.WithValue(context.Background(), key{}, "req-2")
		log.With(logger.Component("api")).InfoContext(ctx, "msg")
		entry := decode(t, buf)
		assert.Equal(t, "req-2", entry["request_id"])
		assert.Equal(t, "api", entry["component"])
	})
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env     string
		wantEnv string
		debug   bool
	}{
		{env: "production", wantEnv: "production"},
		{env: "prod", wantEnv: "production"},
		{env: "staging", wantEnv: "staging"},
		{env: "", wantEnv: "development", debug: true},
		{env: "local", wantEnv: "development", debug: true},
	}

	for _, tt := range tests {
		t.Run(tt.wantEnv+"/"+tt.env, func(t *testing.T) {
			t.Parallel()
			buf := &bytes.Buffer{}
			log := logger.New(
				logger.WithEnvironment(tt.env, "standup"),
				logger.WithOutput(buf),
			)
			assert.Equal(t, tt.debug, log.Enabled(context.Background(), slog.LevelDebug))

			log.Info("msg")
			if tt.debug {
				assert.Contains(t, buf.String(), "env="+tt.wantEnv)
				assert.Contains(t, buf.String(), "service=standup")
				return
			}
			entry := decode(t, buf)
			assert.Equal(t, tt.wantEnv, entry["env"])
			assert.Equal(t, "standup", entry["service"])
		})
	}
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")
	assert.Equal(t, "error", logger.Error(err).Key)
	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))

	group := logger.Errors(err, nil, errors.New("second"))
	require.Equal(t, slog.KindGroup, group.Value.Kind())
	assert.Len(t, group.Value.Group(), 2)
	assert.True(t, logger.Errors(nil, nil).Equal(slog.Attr{}))

	assert.Equal(t, "Ice-breaker?", logger.Topic("Ice-breaker?").Value.String())
	assert.Equal(t, int64(3), logger.Count(3).Value.Int64())
	assert.Equal(t, int64(7), logger.Size(7).Value.Int64())
	assert.Equal(t, time.Second, logger.Duration(time.Second).Value.Duration())
	assert.True(t, logger.DispatchID(nil).Equal(slog.Attr{}))
	assert.Equal(t, "dispatch_id", logger.DispatchID("abc").Key)
}

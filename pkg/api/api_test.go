package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/standup/pkg/api"
	"github.com/dmitrymomot/standup/pkg/dispatch"
	"github.com/dmitrymomot/standup/pkg/logger"
	"github.com/dmitrymomot/standup/pkg/topics"
)

type stubDispatcher struct {
	out   dispatch.Outcome
	calls int
}

func (s *stubDispatcher) Dispatch(context.Context) dispatch.Outcome {
	s.calls++
	return s.out
}

type brokenStore struct{}

func (brokenStore) Load(context.Context) ([]string, error)        { return nil, errors.New("disk on fire") }
func (brokenStore) Size(context.Context) (int, error)             { return 0, errors.New("disk on fire") }
func (brokenStore) Append(context.Context, []string) (int, error) { return 0, errors.New("disk on fire") }

func newStore(t *testing.T, seed ...string) *topics.FileStore {
	t.Helper()
	store, err := topics.NewFileStore(filepath.Join(t.TempDir(), "topics.txt"), topics.WithFileLogger(logger.Discard()))
	require.NoError(t, err)
	if len(seed) > 0 {
		_, err = store.Append(context.Background(), seed)
		require.NoError(t, err)
	}
	return store
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestTopics(t *testing.T) {
	t.Parallel()

	t.Run("list and size", func(t *testing.T) {
		t.Parallel()

		h := api.NewRouter(newStore(t, "Blunder this week?", "New topic A"), &stubDispatcher{}, api.WithLogger(logger.Discard()))

		rec, body := do(t, h, http.MethodGet, "/topics", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", body["code"])
		data := body["data"].(map[string]any)
		assert.Equal(t, []any{"Blunder this week?", "New topic A"}, data["topics"])
		assert.Equal(t, float64(2), data["size"])

		rec, body = do(t, h, http.MethodGet, "/topics/size", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(2), body["data"].(map[string]any)["size"])
	})

	t.Run("empty list is an empty array", func(t *testing.T) {
		t.Parallel()

		h := api.NewRouter(newStore(t), &stubDispatcher{}, api.WithLogger(logger.Discard()))
		_, body := do(t, h, http.MethodGet, "/topics", "")
		assert.Equal(t, []any{}, body["data"].(map[string]any)["topics"])
	})

	t.Run("append skips duplicates", func(t *testing.T) {
		t.Parallel()

		store := newStore(t, "A")
		h := api.NewRouter(store, &stubDispatcher{}, api.WithLogger(logger.Discard()))

		rec, body := do(t, h, http.MethodPost, "/topics", `{"topics":["A"," B ","", "B"]}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(1), body["data"].(map[string]any)["added"])

		all, err := store.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, all)
	})

	t.Run("append rejects bad input", func(t *testing.T) {
		t.Parallel()

		h := api.NewRouter(newStore(t), &stubDispatcher{}, api.WithLogger(logger.Discard()), api.WithMaxBodyBytes(64))

		rec, body := do(t, h, http.MethodPost, "/topics", `{"topics":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "bad_request", body["code"])

		rec, _ = do(t, h, http.MethodPost, "/topics", `{"topics":[]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec, _ = do(t, h, http.MethodPost, "/topics", `{"items":["A"]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec, _ = do(t, h, http.MethodPost, "/topics", `{"topics":["`+strings.Repeat("x", 100)+`"]}`)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

		req := httptest.NewRequest(http.MethodPost, "/topics", strings.NewReader("A"))
		req.Header.Set("Content-Type", "text/plain")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
	})

	t.Run("store failure is a 500 without details", func(t *testing.T) {
		t.Parallel()

		h := api.NewRouter(brokenStore{}, &stubDispatcher{}, api.WithLogger(logger.Discard()))
		rec, body := do(t, h, http.MethodGet, "/topics", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internal_server_error", body["code"])
		assert.NotContains(t, rec.Body.String(), "disk on fire")
	})
}

func TestPop(t *testing.T) {
	t.Parallel()

	t.Run("sent", func(t *testing.T) {
		t.Parallel()

		d := &stubDispatcher{out: dispatch.Outcome{Status: dispatch.StatusSent, Topic: "A"}}
		h := api.NewRouter(newStore(t), d, api.WithLogger(logger.Discard()))

		rec, body := do(t, h, http.MethodPost, "/topics/pop", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "sent", body["code"])
		data := body["data"].(map[string]any)
		assert.Equal(t, "A", data["topic"])
		assert.NotContains(t, data, "error")
		assert.Equal(t, 1, d.calls)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		d := &stubDispatcher{out: dispatch.Outcome{Status: dispatch.StatusEmpty}}
		h := api.NewRouter(newStore(t), d, api.WithLogger(logger.Discard()))

		rec, body := do(t, h, http.MethodPost, "/topics/pop", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "empty", body["code"])
		assert.Equal(t, "no topics left", body["message"])
	})

	t.Run("notify failed", func(t *testing.T) {
		t.Parallel()

		d := &stubDispatcher{out: dispatch.Outcome{Status: dispatch.StatusNotifyFailed, Topic: "A", Err: errors.New("teams down")}}
		h := api.NewRouter(newStore(t), d, api.WithLogger(logger.Discard()))

		rec, body := do(t, h, http.MethodPost, "/topics/pop", "")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "teams down", body["data"].(map[string]any)["error"])
	})

	t.Run("get is not allowed", func(t *testing.T) {
		t.Parallel()

		h := api.NewRouter(newStore(t), &stubDispatcher{}, api.WithLogger(logger.Discard()))
		rec, body := do(t, h, http.MethodGet, "/topics/pop", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "method_not_allowed", body["code"])
	})
}

func TestHealth(t *testing.T) {
	t.Parallel()

	h := api.NewRouter(newStore(t), &stubDispatcher{}, api.WithLogger(logger.Discard()))
	rec, _ := do(t, h, http.MethodGet, "/health/live", "")
	assert.Equal(t, "ALIVE", rec.Body.String())
	rec, _ = do(t, h, http.MethodGet, "/health/ready", "")
	assert.Equal(t, "READY", rec.Body.String())

	h = api.NewRouter(newStore(t), &stubDispatcher{}, api.WithLogger(logger.Discard()),
		api.WithReadyCheck(func(context.Context) error { return errors.New("redis down") }))
	rec, _ = do(t, h, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h = api.NewRouter(brokenStore{}, &stubDispatcher{}, api.WithLogger(logger.Discard()))
	rec, _ = do(t, h, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouterMisc(t *testing.T) {
	t.Parallel()

	t.Run("not found envelope", func(t *testing.T) {
		t.Parallel()

		h := api.NewRouter(newStore(t), &stubDispatcher{}, api.WithLogger(logger.Discard()))
		rec, body := do(t, h, http.MethodGet, "/nope", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not_found", body["error"].(map[string]any)["code"])
	})

	t.Run("request id", func(t *testing.T) {
		t.Parallel()

		h := api.NewRouter(newStore(t), &stubDispatcher{}, api.WithLogger(logger.Discard()))

		req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
		req.Header.Set(api.RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", rec.Header().Get(api.RequestIDHeader))

		req = httptest.NewRequest(http.MethodGet, "/health/live", nil)
		req.Header.Set(api.RequestIDHeader, "bad id!")
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.NotEqual(t, "bad id!", rec.Header().Get(api.RequestIDHeader))
		assert.Len(t, rec.Header().Get(api.RequestIDHeader), 36)
	})

	t.Run("serves images", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "topics"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "topics", "a.png"), []byte("png"), 0o644))

		h := api.NewRouter(newStore(t), &stubDispatcher{}, api.WithLogger(logger.Discard()), api.WithImages("/images/", dir))
		rec, _ := do(t, h, http.MethodGet, "/images/topics/a.png", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "png", rec.Body.String())
	})

	t.Run("panic becomes 500", func(t *testing.T) {
		t.Parallel()

		h := api.NewRouter(newStore(t), panickingDispatcher{}, api.WithLogger(logger.Discard()))
		rec, body := do(t, h, http.MethodPost, "/topics/pop", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internal_server_error", body["code"])
	})
}

type panickingDispatcher struct{}

func (panickingDispatcher) Dispatch(context.Context) dispatch.Outcome { panic("boom") }

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	extract := api.RequestIDExtractor()
	_, ok := extract(context.Background())
	assert.False(t, ok)
}

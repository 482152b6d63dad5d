package topics

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/standup/pkg/logger"
)

// appendScript pushes every argument not already queued. Membership is read
// from the list itself so edits made directly in Redis are respected.
var appendScript = redis.NewScript(`
local queued = {}
for _, topic in ipairs(redis.call('LRANGE', KEYS[1], 0, -1)) do
	queued[topic] = true
end
local added = 0
for _, topic in ipairs(ARGV) do
	if not queued[topic] then
		queued[topic] = true
		redis.call('RPUSH', KEYS[1], topic)
		added = added + 1
	end
end
return added
`)

// RedisStore is a Store backed by a Redis list. Safe to share between
// processes pointing at the same key.
type RedisStore struct {
	client  redis.UniversalClient
	listKey string
	logger  *slog.Logger
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithRedisLogger sets the logger used for debug output.
func WithRedisLogger(l *slog.Logger) RedisStoreOption {
	return func(s *RedisStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewRedisStore creates a store keeping the queue in the list at key.
func NewRedisStore(client redis.UniversalClient, key string, opts ...RedisStoreOption) (*RedisStore, error) {
	if key == "" {
		return nil, ErrInvalidLocation
	}
	if client == nil {
		return nil, errors.Join(ErrStore, errors.New("redis client is nil"))
	}
	s := &RedisStore{
		client:  client,
		listKey: key,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("topics.redis"))
	return s, nil
}

func (s *RedisStore) Load(ctx context.Context) ([]string, error) {
	topics, err := s.client.LRange(ctx, s.listKey, 0, -1).Result()
	if err != nil {
		return nil, errors.Join(ErrStore, err)
	}
	if topics == nil {
		topics = []string{}
	}
	return topics, nil
}

func (s *RedisStore) Size(ctx context.Context) (int, error) {
	n, err := s.client.LLen(ctx, s.listKey).Result()
	if err != nil {
		return 0, errors.Join(ErrStore, err)
	}
	return int(n), nil
}

func (s *RedisStore) Append(ctx context.Context, candidates []string) (int, error) {
	args := make([]any, 0, len(candidates))
	for _, candidate := range candidates {
		if topic, ok := Normalize(candidate); ok {
			args = append(args, topic)
		}
	}
	if len(args) == 0 {
		return 0, nil
	}

	added, err := appendScript.Run(ctx, s.client, []string{s.listKey}, args...).Int()
	if err != nil {
		return 0, errors.Join(ErrStore, err)
	}

	s.logger.DebugContext(ctx, "topics appended", logger.Count(added))
	return added, nil
}

func (s *RedisStore) Pop(ctx context.Context) (string, bool, error) {
	topic, err := s.client.LPop(ctx, s.listKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Join(ErrStore, err)
	}

	s.logger.DebugContext(ctx, "topic popped", logger.Topic(topic))
	return topic, true, nil
}

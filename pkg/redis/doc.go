// Package redis connects to the Redis server that backs the shared topic
// queue.
//
// Connect parses REDIS_URL, pings with retries and returns a ready
// *redis.Client. Healthcheck plugs the client into the readiness probe:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	ready := httpserver.HealthCheckHandler(log, redis.Healthcheck(client))
package redis
